// Package entities provides core data structures for rpg-palette.
package entities

// CanonicalEntry is one normalized palette entry. ID is derived from
// ActorKey by ident.Sanitize and is unique within a resolved list.
type CanonicalEntry struct {
	ID             string `json:"id"`
	ActorKey       string `json:"actor_key"`
	TranslationKey string `json:"translation_key,omitempty"`
	Label          string `json:"label,omitempty"`
	Path           string `json:"path,omitempty"`
}

// RingEntry is a canonical entry with the actor's display value
type RingEntry struct {
	CanonicalEntry
	Value string `json:"value,omitempty"`
}

// SkillCategory groups skill ids under one category
type SkillCategory struct {
	ID          string            `json:"id"`
	Label       string            `json:"label,omitempty"`
	Skills      []string          `json:"skills"`
	SkillLabels map[string]string `json:"skill_labels,omitempty"`
}

// AttributeKind selects a derived or standing attribute list
type AttributeKind string

// Attribute kinds
const (
	AttributeDerived  AttributeKind = "derived"
	AttributeStanding AttributeKind = "standing"
)
