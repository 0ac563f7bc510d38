// Package catalog extracts the system's domain lists: rings, skill
// categories, technique types, inventory groups and derived or standing
// attributes. Every list resolves even when the host offers nothing, so
// callers never deal with host errors.
package catalog

import (
	"context"

	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
	"github.com/KirkDiggler/rpg-palette/internal/resolver"
)

//go:generate mockgen -destination=mock/mock_service.go -package=catalogmock github.com/KirkDiggler/rpg-palette/internal/services/catalog Service

// Service defines the domain extraction interface
type Service interface {
	// TechniqueTypes lists the known technique types
	TechniqueTypes(ctx context.Context) (*ListOutput, error)

	// InventoryGroups lists the inventory groups
	InventoryGroups(ctx context.Context) (*ListOutput, error)

	// Rings lists the rings with the actor's values when an actor is given
	Rings(ctx context.Context, input *RingsInput) (*RingsOutput, error)

	// Attributes lists derived or standing attributes for an actor
	Attributes(ctx context.Context, input *AttributesInput) (*AttributesOutput, error)

	// SkillCategories lists the actor's skill categories
	SkillCategories(ctx context.Context, input *SkillCategoriesInput) (*SkillCategoriesOutput, error)

	// CategoryLabel resolves a category label from helpers or config
	CategoryLabel(ctx context.Context, input *LabelInput) (*LabelOutput, error)

	// SkillLabel resolves a skill label from helpers or config
	SkillLabel(ctx context.Context, input *LabelInput) (*LabelOutput, error)
}

// ListOutput is a resolved entry list
type ListOutput struct {
	Entries []entities.CanonicalEntry
	Source  resolver.Source
}

// RingsInput selects the actor whose ring values are read. Actor is optional.
type RingsInput struct {
	Actor *entities.Actor
}

// RingsOutput holds rings in resolved order
type RingsOutput struct {
	Rings  []entities.RingEntry
	Source resolver.Source
}

// AttributesInput selects an attribute kind for an actor
type AttributesInput struct {
	Kind  entities.AttributeKind
	Actor *entities.Actor
}

// AttributesOutput holds attribute entries and the actor section they
// read from. Section is Null when the actor carries none.
type AttributesOutput struct {
	Entries []entities.CanonicalEntry
	Section value.Value
	Source  resolver.Source
}

// SkillCategoriesInput selects the actor whose skills are listed
type SkillCategoriesInput struct {
	Actor *entities.Actor
}

// SkillCategoriesOutput holds non-empty categories in resolved order
type SkillCategoriesOutput struct {
	Categories []entities.SkillCategory
	// Method names the helper that produced the categories, if any
	Method string
	// Path names the actor path that produced the categories, if any
	Path string
}

// LabelInput identifies a category or a skill within a category
type LabelInput struct {
	Actor      *entities.Actor
	CategoryID string
	SkillID    string
}

// LabelOutput holds a resolved label, or translation keys to try in order
// when the host offers no label
type LabelOutput struct {
	Label string
	Keys  []string
}
