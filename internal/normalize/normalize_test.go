package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/normalize"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

func ids(entries []entities.CanonicalEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestEntries_Shapes(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		opts  normalize.Options
		want  []string
	}{
		{
			name:  "mapping keeps declared order",
			input: `{"water": {}, "air": {}, "fire": {}}`,
			want:  []string{"water", "air", "fire"},
		},
		{
			name:  "sequence of strings",
			input: `["kata", "School Ability", "kiho"]`,
			want:  []string{"kata", "school-ability", "kiho"},
		},
		{
			name:  "sequence of records uses id fields",
			input: `[{"key": "mastery_ability"}, {"slug": "kiho"}, {"foo": 1}]`,
			want:  []string{"mastery-ability", "kiho", "2"},
		},
		{
			name:  "record id precedence",
			input: `{"x": {"name": "Named", "type": "typed"}}`,
			want:  []string{"typed"},
		},
		{
			name:  "bare string",
			input: `"Title_Ability"`,
			want:  []string{"title-ability"},
		},
		{
			name:  "duplicates keep first",
			input: `["school_ability", "school-ability", "School Ability"]`,
			want:  []string{"school-ability"},
		},
		{
			name:  "null elements and blank ids are dropped",
			input: `{"a": null, "b": {"id": ""}, "c": {"id": "c"}}`,
			want:  []string{"c"},
		},
		{
			name:  "numbers alone yield nothing",
			input: `42`,
			want:  []string{},
		},
		{
			name:  "empty containers yield nothing",
			input: `[]`,
			want:  []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalize.Entries(value.ParseString(tc.input), tc.opts)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestEntries_TranslationKeys(t *testing.T) {
	got := normalize.Entries(
		value.ParseString(`{"kata": "l5r5e.techniques.kata", "school_ability": "School"}`),
		normalize.Options{TranslationPrefix: "l5r5e.techniques", StringIsTranslation: true},
	)
	require.Len(t, got, 2)

	assert.Equal(t, "l5r5e.techniques.kata", got[0].TranslationKey)
	assert.Empty(t, got[0].Label)

	assert.Equal(t, "school-ability", got[1].ID)
	assert.Equal(t, "school_ability", got[1].ActorKey)
	assert.Equal(t, "l5r5e.techniques.school_ability", got[1].TranslationKey)
}

func TestEntries_StringsAsLabels(t *testing.T) {
	got := normalize.Entries(
		value.ParseString(`{"armor": "Armor", "weapons": "l5r5e.weapons.title"}`),
		normalize.Options{},
	)
	require.Len(t, got, 2)
	assert.Equal(t, "Armor", got[0].Label)
	assert.Empty(t, got[0].TranslationKey)
	assert.Equal(t, "l5r5e.weapons.title", got[1].Label)
}

func TestEntries_RecordFields(t *testing.T) {
	got := normalize.Entries(
		value.ParseString(`[{"id": "endurance", "label": "Endurance", "i18n": "l5r5e.attributes.endurance", "dataPath": "derived.endurance"}]`),
		normalize.Options{TranslationPrefix: "ignored"},
	)
	require.Len(t, got, 1)
	assert.Equal(t, entities.CanonicalEntry{
		ID:             "endurance",
		ActorKey:       "endurance",
		TranslationKey: "l5r5e.attributes.endurance",
		Label:          "Endurance",
		Path:           "derived.endurance",
	}, got[0])
}

func TestDedupe_FirstWins(t *testing.T) {
	in := []entities.CanonicalEntry{
		{ID: "fire", Label: "first"},
		{ID: ""},
		{ID: "air"},
		{ID: "fire", Label: "second"},
	}
	got := normalize.Dedupe(in)
	assert.Equal(t, []string{"fire", "air"}, ids(got))
	assert.Equal(t, "first", got[0].Label)
	assert.Nil(t, normalize.Dedupe(nil))
}

func TestDisplayValue(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "rank precedes score", input: `{"rank": 3, "score": 9}`, want: "3"},
		{name: "number", input: `4`, want: "4"},
		{name: "string", input: `"3k2"`, want: "3k2"},
		{name: "primary with cap", input: `{"value": 2, "max": 5}`, want: "2/5"},
		{name: "current with maximum", input: `{"current": 1, "maximum": 3}`, want: "1/3"},
		{name: "single numeric field", input: `{"foo": 7, "bar": "x"}`, want: "7"},
		{name: "several numeric fields", input: `{"a": 1, "b": 2}`, want: "1/2"},
		{name: "nothing numeric", input: `{"a": "x"}`, want: ""},
		{name: "null", input: `null`, want: ""},
		{name: "bool", input: `true`, want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalize.DisplayValue(value.ParseString(tc.input)))
		})
	}
}

func TestLeafValue(t *testing.T) {
	leaf := normalize.LeafValue(value.ParseString(`{"dice": 2, "rank": 3}`), normalize.SkillValueKeys...)
	assert.Equal(t, "3", leaf.Display())

	assert.Equal(t, "5", normalize.LeafValue(value.Int(5)).Display())
	assert.True(t, normalize.LeafValue(value.ParseString(`{"x": 1}`), "value").IsNull())
}

func TestRingValue(t *testing.T) {
	assert.Equal(t, "2", normalize.RingValue(value.ParseString(`{"value": 2}`)))
	assert.Equal(t, "1", normalize.RingValue(value.ParseString(`{"rank": 1}`)))
	assert.Equal(t, "3/4", normalize.RingValue(value.ParseString(`{"a": 3, "b": 4}`)))
	assert.Equal(t, "", normalize.RingValue(value.Null()))
}

func TestKeyEntries_IgnoresValues(t *testing.T) {
	got := normalize.KeyEntries(
		value.ParseString(`{"void_points": {"value": 3}, "Fatigue": {"value": 1, "max": 8}}`),
		normalize.Options{TranslationPrefix: "l5r5e.attributes"},
	)
	require.Len(t, got, 2)
	assert.Equal(t, "void-points", got[0].ID)
	assert.Equal(t, "void_points", got[0].ActorKey)
	assert.Equal(t, "l5r5e.attributes.void_points", got[0].TranslationKey)
	assert.Equal(t, "fatigue", got[1].ID)

	assert.Nil(t, normalize.KeyEntries(value.String("x"), normalize.Options{}))
}
