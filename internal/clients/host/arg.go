package host

import (
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Arg is one argument passed to a host function. Exactly one of Object,
// Fields or Value is meaningful, checked in that order.
type Arg struct {
	Value  value.Value
	Object Object
	Fields []Field
}

// Field is a named argument inside a record argument
type Field struct {
	Name string
	Arg  Arg
}

// ValueArg wraps plain data
func ValueArg(v value.Value) Arg {
	return Arg{Value: v}
}

// ObjectArg passes a host object by reference
func ObjectArg(obj Object) Arg {
	return Arg{Object: obj}
}

// RecordArg builds a record whose fields may hold object references
func RecordArg(fields ...Field) Arg {
	if fields == nil {
		fields = []Field{}
	}
	return Arg{Fields: fields}
}

// F is shorthand for a record field
func F(name string, arg Arg) Field {
	return Field{Name: name, Arg: arg}
}

// IsObject reports whether the argument is a host reference
func (a Arg) IsObject() bool {
	return a.Object != nil
}

// IsRecord reports whether the argument is a composite record
func (a Arg) IsRecord() bool {
	return a.Object == nil && a.Fields != nil
}

// Plain renders the argument as data. Objects collapse to their data view.
func (a Arg) Plain() value.Value {
	switch {
	case a.IsObject():
		return a.Object.Data()
	case a.IsRecord():
		rec := value.NewRecord()
		for _, f := range a.Fields {
			rec.Set(f.Name, f.Arg.Plain())
		}
		return value.Rec(rec)
	default:
		return a.Value
	}
}

// Values wraps plain data as positional arguments
func Values(vs ...value.Value) []Arg {
	out := make([]Arg, len(vs))
	for i, v := range vs {
		out[i] = ValueArg(v)
	}
	return out
}
