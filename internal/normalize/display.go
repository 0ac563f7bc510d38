package normalize

import (
	"strings"

	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Field precedence for leaf records
var (
	primaryFields = []string{"value", "current", "rank", "score", "points", "amount", "total"}
	capFields     = []string{"max", "maximum", "cap", "limit", "maxValue", "maximumValue"}
)

// Leaf key orders used by the extractors
var (
	SkillValueKeys = []string{"value", "rank", "dice", "level", "rating"}
	RingValueKeys  = []string{"value", "rank", "rating", "level", "dice", "current", "score"}
)

// DisplayValue extracts one display string from a leaf. Scalars display as
// themselves. Records prefer a primary field, joined with a cap field as
// "primary/cap" when both exist; otherwise the record's numeric fields are
// used, joined with "/" when there are several. Anything else is "".
func DisplayValue(v value.Value) string {
	switch v.Kind() {
	case value.KindNumber, value.KindString:
		return v.Display()
	case value.KindRecord:
		primary, hasPrimary := firstScalar(v, primaryFields...)
		maximum, hasMax := firstScalar(v, capFields...)
		switch {
		case hasPrimary && hasMax:
			return primary.Display() + "/" + maximum.Display()
		case hasPrimary:
			return primary.Display()
		}
		return NumericScan(v)
	case value.KindSequence:
		return NumericScan(v)
	default:
		return ""
	}
}

// LeafValue returns a scalar leaf as is, or the first present scalar field
// among keys. It returns Null when nothing matches.
func LeafValue(v value.Value, keys ...string) value.Value {
	if v.IsScalar() {
		return v
	}
	if f, ok := firstScalar(v, keys...); ok {
		return f
	}
	return value.Null()
}

// RingValue resolves a ring leaf: the first ring field, else the numeric
// scan
func RingValue(v value.Value) string {
	if leaf := LeafValue(v, RingValueKeys...); !leaf.IsNull() {
		return leaf.Display()
	}
	return NumericScan(v)
}

// NumericScan joins the numeric members of a record or sequence in order
func NumericScan(v value.Value) string {
	var nums []string
	collect := func(f value.Value) {
		if f.Kind() == value.KindNumber {
			nums = append(nums, f.Display())
		}
	}
	switch v.Kind() {
	case value.KindRecord:
		v.Record().Each(func(_ string, f value.Value) bool {
			collect(f)
			return true
		})
	case value.KindSequence:
		for _, f := range v.Items() {
			collect(f)
		}
	}
	return strings.Join(nums, "/")
}
