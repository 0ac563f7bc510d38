// Package normalize flattens arbitrarily shaped host data into canonical
// palette entries and extracts display values from leaf records.
package normalize

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/ident"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Options tunes how entries are derived
type Options struct {
	// TranslationPrefix builds translation keys for entries that carry none
	TranslationPrefix string
	// StringIsTranslation treats dotted bare strings as translation keys
	// instead of labels
	StringIsTranslation bool
}

// Field precedence for record-shaped elements
var (
	idFields          = []string{"id", "key", "type", "slug", "value", "name"}
	sequenceKeyFields = []string{"id", "key", "type", "slug"}
	labelFields       = []string{"label", "name", "title", "display", "text"}
	translationFields = []string{"translationKey", "labelKey", "i18n"}
	pathFields        = []string{"path", "dataPath"}
)

// Entries flattens v into canonical entries in declared order. Records are
// walked key by key, sequences element by element and a bare string yields
// a single entry keyed by itself. Entries without an id are dropped and
// the result is deduplicated.
func Entries(v value.Value, opts Options) []entities.CanonicalEntry {
	if !v.Truthy() {
		return nil
	}

	var out []entities.CanonicalEntry
	add := func(entry value.Value, key string) {
		if e, ok := normalizeEntry(entry, key, opts); ok {
			out = append(out, e)
		}
	}

	switch v.Kind() {
	case value.KindRecord:
		v.Record().Each(func(key string, entry value.Value) bool {
			add(entry, key)
			return true
		})
	case value.KindSequence:
		for i, entry := range v.Items() {
			add(entry, sequenceKey(entry, i))
		}
	case value.KindString:
		s, _ := v.Text()
		add(v, s)
	}

	return Dedupe(out)
}

// sequenceKey derives the fallback key for a sequence element: its own
// id-like field, the element itself when scalar, else its index.
func sequenceKey(entry value.Value, index int) string {
	if f, ok := firstScalar(entry, sequenceKeyFields...); ok {
		return f.Display()
	}
	if entry.IsScalar() {
		return entry.Display()
	}
	return strconv.Itoa(index)
}

func normalizeEntry(entry value.Value, key string, opts Options) (entities.CanonicalEntry, bool) {
	var (
		rawID          string
		translationKey string
		label          string
		path           string
	)

	switch entry.Kind() {
	case value.KindNull:
		return entities.CanonicalEntry{}, false

	case value.KindRecord:
		rawID = key
		if f, ok := firstScalar(entry, idFields...); ok {
			if isBlank(f) {
				return entities.CanonicalEntry{}, false
			}
			rawID = f.Display()
		}
		if f, ok := firstScalar(entry, translationFields...); ok {
			translationKey = f.Display()
		}
		if f, ok := firstScalar(entry, labelFields...); ok {
			label = f.Display()
		}
		if f, ok := firstScalar(entry, pathFields...); ok {
			path = f.Display()
		}

	case value.KindString:
		s, _ := entry.Text()
		rawID = key
		if key == "" {
			rawID = s
		}
		if opts.StringIsTranslation && strings.Contains(s, ".") {
			translationKey = s
		}
		if !opts.StringIsTranslation {
			label = s
		}

	default:
		rawID = key
	}

	if rawID == "" {
		return entities.CanonicalEntry{}, false
	}

	id := ident.Sanitize(rawID)
	if id == "" {
		return entities.CanonicalEntry{}, false
	}

	if translationKey == "" && opts.TranslationPrefix != "" {
		translationKey = ident.TranslationKey(opts.TranslationPrefix, rawID)
	}

	return entities.CanonicalEntry{
		ID:             id,
		ActorKey:       rawID,
		TranslationKey: translationKey,
		Label:          label,
		Path:           path,
	}, true
}

// Dedupe keeps the first entry for each id, preserving order. Entries
// without an id are dropped.
func Dedupe(entries []entities.CanonicalEntry) []entities.CanonicalEntry {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(entries))
	out := make([]entities.CanonicalEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

// firstScalar returns the first non-null scalar field among names
func firstScalar(v value.Value, names ...string) (value.Value, bool) {
	if v.Kind() != value.KindRecord {
		return value.Null(), false
	}
	for _, name := range names {
		if f := v.Field(name); f.IsScalar() {
			return f, true
		}
	}
	return value.Null(), false
}

// isBlank reports ids the host treats as missing: "" and false
func isBlank(v value.Value) bool {
	if v.IsFalse() {
		return true
	}
	s, ok := v.Text()
	return ok && s == ""
}

// KeyEntries builds entries from the keys of a record, ignoring the values.
// Actor data sections are keyed by attribute name with arbitrary leaf
// records underneath. Sequences fall back to Entries.
func KeyEntries(v value.Value, opts Options) []entities.CanonicalEntry {
	switch v.Kind() {
	case value.KindRecord:
		out := make([]entities.CanonicalEntry, 0, v.Len())
		for _, key := range v.Record().Keys() {
			if e, ok := normalizeEntry(value.Bool(true), key, Options{TranslationPrefix: opts.TranslationPrefix}); ok {
				out = append(out, e)
			}
		}
		return Dedupe(out)
	case value.KindSequence:
		return Entries(v, opts)
	default:
		return nil
	}
}
