// Package value decodes untyped host data into a closed set of shapes.
//
// Host data (configuration trees, actor records, helper return values) has
// no schema guarantee. It is decoded once at the boundary into a Value, and
// everything downstream switches on Kind instead of probing runtime types.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value
type Kind int

// Value kinds
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindRecord
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is one decoded host value. The zero Value is Null.
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	items []Value
	rec   *Record
}

// Null returns the null value
func Null() Value { return Value{} }

// Bool wraps a boolean
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int wraps an integer
func Int(n int) Value { return Number(float64(n)) }

// String wraps a string
func String(s string) Value { return Value{kind: KindString, s: s} }

// Seq wraps an ordered sequence
func Seq(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// Strings wraps a list of strings as a sequence
func Strings(list []string) Value {
	items := make([]Value, len(list))
	for i, s := range list {
		items[i] = String(s)
	}
	return Seq(items...)
}

// Rec wraps a record. A nil record is Null.
func Rec(r *Record) Value {
	if r == nil {
		return Null()
	}
	return Value{kind: KindRecord, rec: r}
}

// Kind returns the shape of the value
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether the value is a bool, number or string
func (v Value) IsScalar() bool {
	return v.kind == KindBool || v.kind == KindNumber || v.kind == KindString
}

// IsFalse reports whether the value is the boolean false
func (v Value) IsFalse() bool { return v.kind == KindBool && !v.b }

// AsBool returns the boolean payload
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Number returns the numeric payload
func (v Value) Number() (float64, bool) { return v.n, v.kind == KindNumber }

// Text returns the string payload
func (v Value) Text() (string, bool) { return v.s, v.kind == KindString }

// Items returns the elements of a sequence
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.items
}

// Record returns the record payload or nil
func (v Value) Record() *Record {
	if v.kind != KindRecord {
		return nil
	}
	return v.rec
}

// Len returns the number of elements in a sequence or record
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindRecord:
		return v.rec.Len()
	default:
		return 0
	}
}

// Truthy follows host truthiness: null, false, 0, NaN and "" are falsy
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case KindString:
		return v.s != ""
	case KindSequence, KindRecord:
		return true
	default:
		return false
	}
}

// Display returns the scalar in display form, empty for null and containers
func (v Value) Display() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Field returns a record field, or Null
func (v Value) Field(name string) Value {
	if v.kind != KindRecord {
		return Null()
	}
	f, _ := v.rec.Get(name)
	return f
}

// Has reports whether a record carries a non-null field
func (v Value) Has(name string) bool {
	return !v.Field(name).IsNull()
}

// Index returns a sequence element, or Null
func (v Value) Index(i int) Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.items) {
		return Null()
	}
	return v.items[i]
}

// First returns the first non-null field among names together with its name
func (v Value) First(names ...string) (Value, string, bool) {
	if v.kind != KindRecord {
		return Null(), "", false
	}
	for _, name := range names {
		if f := v.Field(name); !f.IsNull() {
			return f, name, true
		}
	}
	return Null(), "", false
}

// Get walks a dotted path. Missing segments, wrong kinds and out of range
// indexes resolve to Null.
func (v Value) Get(path string) Value {
	if path == "" {
		return v
	}
	cur := v
	for _, segment := range strings.Split(path, ".") {
		switch cur.kind {
		case KindRecord:
			cur = cur.Field(segment)
		case KindSequence:
			i, err := strconv.Atoi(segment)
			if err != nil {
				return Null()
			}
			cur = cur.Index(i)
		default:
			return Null()
		}
		if cur.IsNull() {
			return cur
		}
	}
	return cur
}
