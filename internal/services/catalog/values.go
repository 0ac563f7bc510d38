package catalog

import (
	"strings"

	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/normalize"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/ident"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// RingValue reads the actor's display value for a ring. Every spelling of
// the id is tried before falling back to a scan for a key with the same
// canonical form. It returns "" when the actor has no value.
func RingValue(actor *entities.Actor, ringID string) string {
	if actor == nil || ringID == "" {
		return ""
	}
	rings := actor.Get(ringQuery.actorPath)
	if rings.Kind() != value.KindRecord {
		return ""
	}

	for _, key := range ident.Spellings(ringID) {
		if v := normalize.RingValue(rings.Field(key)); v != "" {
			return v
		}
	}

	want := ident.Sanitize(ringID)
	found := ""
	rings.Record().Each(func(key string, v value.Value) bool {
		if ident.Sanitize(key) != want {
			return true
		}
		found = normalize.RingValue(v)
		return found == ""
	})
	return found
}

// SkillValue reads the actor's value for a skill within a category. Every
// category keyed section is searched before the flat skills section.
// It returns "" when the actor has no value.
func SkillValue(actor *entities.Actor, categoryID, skillID string) string {
	if actor == nil || skillID == "" {
		return ""
	}

	for _, source := range skillValueSources {
		section := actor.Get(source)
		if section.Kind() != value.KindRecord {
			continue
		}
		category := lookup(section, categoryID)
		if !category.Truthy() {
			continue
		}
		if leaf := normalize.LeafValue(lookup(category, skillID), normalize.SkillValueKeys...); !leaf.IsNull() {
			return leaf.Display()
		}
	}

	direct := lookup(actor.Get("skills"), skillID)
	if leaf := normalize.LeafValue(direct, normalize.SkillValueKeys...); !leaf.IsNull() {
		return leaf.Display()
	}
	return ""
}

// AttributeValue finds the raw data for an attribute entry. The given
// section is searched first, then the actor's other sections for the kind,
// then the whole system data. Candidate paths are the entry's path, its
// actor key and its id, each also in underscore form.
func AttributeValue(actor *entities.Actor, section value.Value, entry entities.CanonicalEntry, kind entities.AttributeKind) (value.Value, bool) {
	sections := attributeSections(actor, section, kind)

	var paths []string
	if entry.Path != "" {
		paths = append(paths, entry.Path)
	}
	for _, key := range []string{entry.ActorKey, entry.ID} {
		if key == "" {
			continue
		}
		paths = append(paths, key, strings.ReplaceAll(key, "-", "_"))
	}

	for _, sec := range sections {
		for _, path := range paths {
			if v := sec.Get(path); !v.IsNull() {
				return v, true
			}
		}
	}
	return value.Null(), false
}

// FormatAttribute renders attribute data for display
func FormatAttribute(data value.Value) string {
	return normalize.DisplayValue(data)
}

func attributeSections(actor *entities.Actor, section value.Value, kind entities.AttributeKind) []value.Value {
	var sections []value.Value
	if section.Kind() == value.KindRecord {
		sections = append(sections, section)
	}
	if actor == nil {
		return sections
	}
	if table, ok := attributeTables[kind]; ok {
		for _, path := range table.valuePaths {
			if v := actor.Get(path); v.Kind() == value.KindRecord {
				sections = append(sections, v)
			}
		}
	}
	if system := actor.System(); system.Kind() == value.KindRecord {
		sections = append(sections, system)
	}
	return sections
}

// lookup reads a record field by any spelling of key
func lookup(v value.Value, key string) value.Value {
	if v.Kind() != value.KindRecord {
		return value.Null()
	}
	for _, k := range ident.Spellings(key) {
		if f := v.Field(k); !f.IsNull() {
			return f
		}
	}
	return value.Null()
}

// SkillRank reads the actor's value for a skill without knowing its
// category. Flat and category keyed sections are both searched. It returns
// "" when the actor has no value.
func SkillRank(actor *entities.Actor, skillID string) string {
	if v := SkillValue(actor, "", skillID); v != "" || actor == nil {
		return v
	}
	found := ""
	for _, source := range skillValueSources {
		section := actor.Get(source)
		if section.Kind() != value.KindRecord {
			continue
		}
		section.Record().Each(func(_ string, category value.Value) bool {
			if leaf := normalize.LeafValue(lookup(category, skillID), normalize.SkillValueKeys...); !leaf.IsNull() {
				found = leaf.Display()
			}
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}
