package value

// Record is an insertion-ordered keyed collection
type Record struct {
	keys   []string
	fields map[string]Value
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// Set stores a field. Re-setting an existing key keeps its original position.
func (r *Record) Set(key string, v Value) *Record {
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = v
	return r
}

// SetIfAbsent stores a field only when it is missing or null
func (r *Record) SetIfAbsent(key string, v Value) *Record {
	if cur, ok := r.fields[key]; ok && !cur.IsNull() {
		return r
	}
	return r.Set(key, v)
}

// Get returns a field
func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return Null(), false
	}
	v, ok := r.fields[key]
	return v, ok
}

// Keys returns field names in insertion order
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Each visits fields in insertion order until fn returns false
func (r *Record) Each(fn func(key string, v Value) bool) {
	if r == nil {
		return
	}
	for _, k := range r.keys {
		if !fn(k, r.fields[k]) {
			return
		}
	}
}

// Clone returns a shallow copy
func (r *Record) Clone() *Record {
	out := NewRecord()
	r.Each(func(k string, v Value) bool {
		out.Set(k, v)
		return true
	})
	return out
}

// Merge copies every field of other that r does not already define
func (r *Record) Merge(other *Record) *Record {
	other.Each(func(k string, v Value) bool {
		r.SetIfAbsent(k, v)
		return true
	})
	return r
}
