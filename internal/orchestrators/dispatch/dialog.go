package dispatch

import (
	"context"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/probe"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// dialogContainers are paths under the system namespace scanned for a dice
// picker, in order. "" is the namespace itself.
var dialogContainers = []string{
	"",
	"Dice",
	"dice",
	"DiceRoller",
	"apps",
	"apps.dice",
	"apps.Dice",
	"apps.dialogs",
	"applications",
	"applications.dice",
	"applications.Dice",
	"applications.dialogs",
	"ui",
	"ui.dice",
	"modules",
}

// configDialogContainers are paths under the CONFIG global
var configDialogContainers = []string{"", "apps", "dice"}

var dialogClassNames = []string{
	"DicePickerDialog",
	"DicePoolDialog",
	"DiceDialog",
	"DiceRollDialog",
	"DiceCheckDialog",
	"CheckDialog",
	"RollDialog",
	"SkillCheckDialog",
	"SkillRollDialog",
}

var (
	dialogMethods    = []string{"show", "open", "create", "launch", "render"}
	dialogNestedKeys = []string{"Dialog", "dialog", "default", "DicePickerDialog", "DicePoolDialog", "DiceDialog"}
)

const maxDialogDepth = 3

// Dialog is a located dice picker: either a callable constructor or an
// object exposing dialog methods
type Dialog struct {
	Name   string
	Fn     host.Member
	Object host.Object
}

// IsConstructor reports whether the dialog is a callable
func (d *Dialog) IsConstructor() bool {
	return d.Fn.Callable()
}

// LocateDialog scans the system namespace and CONFIG containers for the
// first dialog class. It returns nil when none exists.
func LocateDialog(rt host.Runtime) *Dialog {
	type root struct {
		obj   host.Object
		paths []string
	}
	var roots []root
	if system, ok := rt.System(); ok {
		roots = append(roots, root{obj: system, paths: dialogContainers})
	}
	if cfg, ok := rt.Global(host.GlobalConfig); ok {
		roots = append(roots, root{obj: cfg, paths: configDialogContainers})
	}

	for _, r := range roots {
		for _, path := range r.paths {
			container, ok := host.Walk(r.obj, path)
			if !ok {
				continue
			}
			for _, name := range dialogClassNames {
				m, ok := container.Member(name)
				if !ok {
					continue
				}
				if d := dialogCandidate(container.Name()+"."+name, m, 0); d != nil {
					return d
				}
			}
		}
	}
	return nil
}

func dialogCandidate(name string, m host.Member, depth int) *Dialog {
	if depth > maxDialogDepth {
		return nil
	}
	if m.Callable() {
		return &Dialog{Name: name, Fn: m}
	}
	obj := m.Object
	if obj == nil {
		return nil
	}
	for _, method := range dialogMethods {
		if _, ok := host.Method(obj, method); ok {
			return &Dialog{Name: obj.Name(), Object: obj}
		}
	}
	for _, key := range dialogNestedKeys {
		nested, ok := obj.Member(key)
		if !ok {
			continue
		}
		if d := dialogCandidate(name+"."+key, nested, depth+1); d != nil {
			return d
		}
	}
	return nil
}

// Defined accepts any result except no result
func Defined(result value.Value) bool {
	return !result.IsNull()
}

// dialogCandidates lists the probes that open a dialog, in order: static
// style methods with the short argument shapes, the constructor called
// then instantiated with arity matched shapes, and finally the object
// methods with every shape. No method is probed twice with the same shape,
// so render(options) is only ever tried once.
func (o *orchestrator) dialogCandidates(d *Dialog, sets [][]Arg, env Env) []Candidate {
	a, opt := ActorArg(), OptionsArg()
	short := [][]Arg{{opt}, {a, opt}, {opt, a}}

	tried := map[string]map[string]bool{}
	fresh := func(method string, in [][]Arg) [][]Arg {
		if tried[method] == nil {
			tried[method] = map[string]bool{}
		}
		var out [][]Arg
		for _, set := range in {
			key := SetShape(set)
			if tried[method][key] {
				continue
			}
			tried[method][key] = true
			out = append(out, set)
		}
		return out
	}

	var candidates []Candidate
	method := func(name string, in [][]Arg) {
		fn, ok := host.Method(d.Object, name)
		if !ok {
			return
		}
		if argSets := fresh(name, in); len(argSets) > 0 {
			candidates = append(candidates, Candidate{
				Receiver: d.Name,
				Method:   name,
				Call:     fn,
				ArgSets:  BindAll(argSets, env),
			})
		}
	}

	if d.IsConstructor() {
		filtered := BindAll(FilterArity(sets, d.Fn.Arity), env)
		if len(filtered) == 0 {
			return nil
		}
		candidates = append(candidates, Candidate{
			Receiver: d.Name,
			Method:   "call",
			Call:     d.Fn.Func,
			ArgSets:  filtered,
		})
		if d.Fn.Construct != nil {
			candidates = append(candidates, Candidate{
				Receiver:  d.Name,
				Method:    "new",
				Call:      o.instantiate(d.Fn.Construct, env),
				ArgSets:   filtered,
				Validator: Present,
			})
		}
		return candidates
	}

	for _, name := range []string{"show", "open", "create", "launch"} {
		method(name, short)
	}
	method("render", [][]Arg{{opt}})
	for _, name := range []string{"show", "open", "create", "launch"} {
		method(name, sets)
	}
	return candidates
}

// instantiate wraps a constructor as a probe: the built dialog is rendered
// or opened and counts as success even when that call fails
func (o *orchestrator) instantiate(construct host.Constructor, env Env) host.Func {
	return func(ctx context.Context, args []host.Arg) (value.Value, error) {
		dialog, err := construct(ctx, args)
		if err != nil {
			return value.Null(), err
		}
		if dialog == nil {
			return value.Null(), nil
		}
		if render, ok := host.Method(dialog, "render"); ok {
			_, _ = probe.Call(ctx, o.probeTimeout, render, host.Values(value.Bool(true)))
		} else if open, ok := host.Method(dialog, "open"); ok {
			_, _ = probe.Call(ctx, o.probeTimeout, open, []host.Arg{host.RecordArg(env.Options...)})
		}
		if data := dialog.Data(); Present(data) {
			return data, nil
		}
		return value.Bool(true), nil
	}
}
