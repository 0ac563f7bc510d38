package value

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"
)

// Parse decodes raw JSON. Invalid JSON decodes to Null.
func Parse(raw []byte) Value {
	if !gjson.ValidBytes(raw) {
		return Null()
	}
	return FromResult(gjson.ParseBytes(raw))
}

// ParseString decodes a JSON string
func ParseString(raw string) Value {
	return Parse([]byte(raw))
}

// FromResult converts a gjson result, keeping document order for objects
func FromResult(r gjson.Result) Value {
	if !r.Exists() {
		return Null()
	}
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Num)
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var items []Value
			r.ForEach(func(_, v gjson.Result) bool {
				items = append(items, FromResult(v))
				return true
			})
			return Seq(items...)
		}
		rec := NewRecord()
		r.ForEach(func(k, v gjson.Result) bool {
			rec.Set(k.String(), FromResult(v))
			return true
		})
		return Rec(rec)
	}
	return Null()
}

// Of converts plain Go data. Map keys are sorted since Go maps carry no order.
func Of(in any) Value {
	switch t := in.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case *Record:
		return Rec(t)
	case bool:
		return Bool(t)
	case int:
		return Int(t)
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case string:
		return String(t)
	case []string:
		return Strings(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = Of(item)
		}
		return Seq(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rec := NewRecord()
		for _, k := range keys {
			rec.Set(k, Of(t[k]))
		}
		return Rec(rec)
	default:
		return Null()
	}
}

// ToAny converts back to plain Go data suitable for structpb and encoding/json
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.ToAny()
		}
		return out
	case KindRecord:
		out := make(map[string]any, v.rec.Len())
		v.rec.Each(func(k string, f Value) bool {
			out[k] = f.ToAny()
			return true
		})
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the value, preserving record field order
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the value with document order preserved
func (v *Value) UnmarshalJSON(raw []byte) error {
	*v = Parse(raw)
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(strconv.FormatFloat(v.n, 'f', -1, 64))
	case KindString:
		raw, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(raw)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindRecord:
		buf.WriteByte('{')
		var err error
		i := 0
		v.rec.Each(func(k string, f Value) bool {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			key, kerr := json.Marshal(k)
			if kerr != nil {
				err = kerr
				return false
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err = f.encode(buf); err != nil {
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}
