package dispatch

import (
	"strings"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Placeholder names a reference that is bound per dispatch
type Placeholder string

// Placeholders
const (
	PlaceholderNone    Placeholder = ""
	PlaceholderActor   Placeholder = "actor"
	PlaceholderOptions Placeholder = "options"
	PlaceholderToken   Placeholder = "token"
)

// Arg is a symbolic argument: a placeholder, plain data or a record of
// symbolic fields
type Arg struct {
	Placeholder Placeholder
	Value       value.Value
	Fields      []ArgField
}

// ArgField is a named field of a symbolic record argument
type ArgField struct {
	Name string
	Arg  Arg
}

// ActorArg refers to the acted-upon actor
func ActorArg() Arg { return Arg{Placeholder: PlaceholderActor} }

// OptionsArg refers to the roll option bag
func OptionsArg() Arg { return Arg{Placeholder: PlaceholderOptions} }

// TokenArg refers to the originating token
func TokenArg() Arg { return Arg{Placeholder: PlaceholderToken} }

// ValArg wraps plain data
func ValArg(v value.Value) Arg { return Arg{Value: v} }

// RecArg builds a record argument
func RecArg(fields ...ArgField) Arg {
	if fields == nil {
		fields = []ArgField{}
	}
	return Arg{Fields: fields}
}

// Field is shorthand for a record field
func Field(name string, arg Arg) ArgField { return ArgField{Name: name, Arg: arg} }

// Env holds the references placeholders bind to. Token may be nil.
type Env struct {
	Actor   host.Object
	Token   host.Object
	Options []host.Field
}

// Bind resolves the argument against env
func (a Arg) Bind(env Env) host.Arg {
	switch a.Placeholder {
	case PlaceholderActor:
		return objectOrNull(env.Actor)
	case PlaceholderToken:
		return objectOrNull(env.Token)
	case PlaceholderOptions:
		return host.RecordArg(env.Options...)
	}
	if a.Fields != nil {
		fields := make([]host.Field, len(a.Fields))
		for i, f := range a.Fields {
			fields[i] = host.F(f.Name, f.Arg.Bind(env))
		}
		return host.RecordArg(fields...)
	}
	return host.ValueArg(a.Value)
}

func objectOrNull(obj host.Object) host.Arg {
	if obj == nil {
		return host.ValueArg(value.Null())
	}
	return host.ObjectArg(obj)
}

// BindAll resolves every argument set against env
func BindAll(sets [][]Arg, env Env) [][]host.Arg {
	out := make([][]host.Arg, len(sets))
	for i, set := range sets {
		bound := make([]host.Arg, len(set))
		for j, a := range set {
			bound[j] = a.Bind(env)
		}
		out[i] = bound
	}
	return out
}

// Shape renders the argument's structure. Placeholders compare by name
// only, so two sets differing only in what the references hold share a
// shape.
func (a Arg) Shape() string {
	var b strings.Builder
	a.writeShape(&b)
	return b.String()
}

func (a Arg) writeShape(b *strings.Builder) {
	switch {
	case a.Placeholder != PlaceholderNone:
		b.WriteString("<" + string(a.Placeholder) + ">")
	case a.Fields != nil:
		b.WriteString("{")
		for i, f := range a.Fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(f.Name + ":")
			f.Arg.writeShape(b)
		}
		b.WriteString("}")
	default:
		raw, err := a.Value.MarshalJSON()
		if err != nil {
			b.WriteString("?")
			return
		}
		b.Write(raw)
	}
}

// SetShape renders the structure of a whole argument set
func SetShape(set []Arg) string {
	parts := make([]string, len(set))
	for i, a := range set {
		parts[i] = a.Shape()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// DedupeArgSets drops argument sets structurally identical to an earlier
// one, keeping declared order
func DedupeArgSets(sets [][]Arg) [][]Arg {
	seen := make(map[string]bool, len(sets))
	out := make([][]Arg, 0, len(sets))
	for _, set := range sets {
		key := SetShape(set)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, set)
	}
	return out
}

// DiceArgSets lists the argument shapes tried on roll and dialog
// receivers, deduplicated. Token variants are only included when a token
// is present.
func DiceArgSets(opts *RollOptions, hasToken bool) [][]Arg {
	a, o := ActorArg(), OptionsArg()
	sets := [][]Arg{
		{},
		{o},
		{a, o},
		{o, a},
		{o, RecArg(Field("actor", a))},
		{RecArg(Field("actor", a), Field("options", o))},
	}

	if opts.Context != "" {
		ctxArg := ValArg(value.String(opts.Context))
		sets = append(sets,
			[]Arg{a, o, ctxArg},
			[]Arg{o, a, ctxArg},
			[]Arg{RecArg(Field("actor", a), Field("context", ctxArg), Field("options", o))},
		)
	}

	if hasToken {
		t := TokenArg()
		sets = append(sets,
			[]Arg{a, o, t},
			[]Arg{o, t, a},
			[]Arg{RecArg(Field("actor", a), Field("token", t), Field("options", o))},
		)
	}

	skill := opts.Skill()
	ring := opts.Ring
	if skill != "" {
		s := ValArg(value.String(skill))
		sets = append(sets,
			[]Arg{s},
			[]Arg{s, o},
			[]Arg{s, o, a},
			[]Arg{RecArg(Field("skill", s), Field("options", o))},
		)
		if ring != "" {
			r := ValArg(value.String(ring))
			sets = append(sets,
				[]Arg{s, r},
				[]Arg{s, r, o},
				[]Arg{RecArg(Field("skill", s), Field("ring", r), Field("actor", a), Field("options", o))},
			)
		}
	}

	if ring != "" && skill == "" {
		r := ValArg(value.String(ring))
		sets = append(sets, []Arg{r}, []Arg{r, o})
	}

	return DedupeArgSets(sets)
}

// FilterArity keeps argument sets matching a declared parameter count.
// Unknown arity keeps everything.
func FilterArity(sets [][]Arg, arity int) [][]Arg {
	if arity < 0 {
		return sets
	}
	out := make([][]Arg, 0, len(sets))
	for _, set := range sets {
		if len(set) == arity {
			out = append(out, set)
		}
	}
	return out
}
