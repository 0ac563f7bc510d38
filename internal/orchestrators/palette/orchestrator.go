// Package palette assembles the action groups shown for the selected
// actor, or for several selected tokens at once.
package palette

//go:generate mockgen -destination=mock/mock_service.go -package=palettemock github.com/KirkDiggler/rpg-palette/internal/orchestrators/palette Service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/ident"
	"github.com/KirkDiggler/rpg-palette/internal/services/catalog"
)

// Group ids that are not derived from host lists
const (
	GroupRings      = "rings"
	GroupUtility    = "utility"
	GroupEquipped   = "equipped"
	GroupUnequipped = "unequipped"
)

// Translation keys for fixed labels
const (
	RingsTitleKey = "l5r5e.rings.title"
	UtilityKey    = "tokenActionHud.utility"
	EndTurnKey    = "tokenActionHud.utility.endTurn"
)

// Service defines the palette assembly operations
type Service interface {
	// BuildPalette returns the action groups for one actor, or for the
	// controlled tokens when no actor is given
	BuildPalette(ctx context.Context, input *BuildPaletteInput) (*BuildPaletteOutput, error)
}

// BuildPaletteInput selects the actor. Empty ActorID means the controlled
// tokens.
type BuildPaletteInput struct {
	ActorID string
}

// BuildPaletteOutput lists the groups in display order
type BuildPaletteOutput struct {
	// ActorIDs are the actors the palette acts on
	ActorIDs []string
	Groups   []entities.ActionGroup
}

// Config holds the dependencies for the palette orchestrator
type Config struct {
	Catalog catalog.Service
	World   *host.World
	// DisplayUnequipped lists unequipped weapons and armor in their groups
	DisplayUnequipped bool
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.World == nil {
		vb.RequiredField("World")
	}
	return vb.Build()
}

type orchestrator struct {
	catalog           catalog.Service
	world             *host.World
	displayUnequipped bool
}

// NewOrchestrator creates a palette orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &orchestrator{
		catalog:           cfg.Catalog,
		world:             cfg.World,
		displayUnequipped: cfg.DisplayUnequipped,
	}, nil
}

// BuildPalette assembles the groups. A single actor gets the full character
// palette; several controlled tokens get the shared utility and ring
// groups.
func (o *orchestrator) BuildPalette(ctx context.Context, input *BuildPaletteInput) (*BuildPaletteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	if input.ActorID != "" {
		actor, err := o.world.Actor(input.ActorID)
		if err != nil {
			return nil, err
		}
		if !actor.IsPlayable() {
			return &BuildPaletteOutput{ActorIDs: []string{actor.ID}}, nil
		}
		groups, err := o.characterGroups(ctx, actor)
		if err != nil {
			return nil, err
		}
		return &BuildPaletteOutput{ActorIDs: []string{actor.ID}, Groups: groups}, nil
	}

	actors, ok := o.controlledActors()
	if !ok {
		return &BuildPaletteOutput{}, nil
	}
	ids := make([]string, len(actors))
	for i, a := range actors {
		ids[i] = a.ID
	}

	if len(actors) == 1 {
		groups, err := o.characterGroups(ctx, actors[0])
		if err != nil {
			return nil, err
		}
		return &BuildPaletteOutput{ActorIDs: ids, Groups: groups}, nil
	}

	groups, err := o.multiTokenGroups(ctx, actors)
	if err != nil {
		return nil, err
	}
	return &BuildPaletteOutput{ActorIDs: ids, Groups: groups}, nil
}

// controlledActors returns the actors behind the controlled tokens. The
// selection only counts when every actor is playable.
func (o *orchestrator) controlledActors() ([]*entities.Actor, bool) {
	tokens := o.world.Controlled()
	if len(tokens) == 0 {
		return nil, false
	}
	actors := make([]*entities.Actor, 0, len(tokens))
	for _, token := range tokens {
		actor, err := o.world.Actor(token.ActorID)
		if err != nil {
			slog.Debug("controlled token without actor", "token_id", token.ID, "actor_id", token.ActorID)
			continue
		}
		if !actor.IsPlayable() {
			return nil, false
		}
		actors = append(actors, actor)
	}
	return actors, len(actors) > 0
}

func (o *orchestrator) characterGroups(ctx context.Context, actor *entities.Actor) ([]entities.ActionGroup, error) {
	items := sortedItems(actor)

	inventory, err := o.inventoryGroups(ctx, items)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build inventory")
	}
	techniques, err := o.techniqueGroups(ctx, items)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build techniques")
	}
	rings, err := o.ringGroup(ctx, actor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build rings")
	}

	var groups []entities.ActionGroup
	groups = append(groups, inventory...)
	groups = append(groups, techniques...)
	groups = appendGroup(groups, rings)

	for _, kind := range []entities.AttributeKind{entities.AttributeDerived, entities.AttributeStanding} {
		group, err := o.attributeGroup(ctx, actor, kind)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build %s attributes", kind)
		}
		groups = appendGroup(groups, group)
	}

	skills, err := o.skillGroups(ctx, actor)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build skills")
	}
	return append(groups, skills...), nil
}

func appendGroup(groups []entities.ActionGroup, group entities.ActionGroup) []entities.ActionGroup {
	if len(group.Actions) == 0 {
		return groups
	}
	return append(groups, group)
}

func sortedItems(actor *entities.Actor) []*entities.Item {
	items := make([]*entities.Item, len(actor.Items))
	copy(items, actor.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items
}

// groupFor names a group from its resolved entry, else from the fallback
// prefix, else by humanizing the id
func groupFor(id string, known map[string]entities.CanonicalEntry, fallbackPrefix string) entities.ActionGroup {
	group := entities.ActionGroup{ID: id, Name: ident.Humanize(id)}
	entry, ok := known[id]
	if ok && entry.Label != "" {
		group.Name = entry.Label
	}
	switch {
	case ok && entry.TranslationKey != "":
		group.NameKey = entry.TranslationKey
	case fallbackPrefix != "":
		key := id
		if ok && entry.ActorKey != "" {
			key = entry.ActorKey
		}
		group.NameKey = ident.TranslationKey(fallbackPrefix, key)
	}
	return group
}

func entryMap(entries []entities.CanonicalEntry) (map[string]entities.CanonicalEntry, []string) {
	known := make(map[string]entities.CanonicalEntry, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, dup := known[e.ID]; dup {
			continue
		}
		known[e.ID] = e
		order = append(order, e.ID)
	}
	return known, order
}

// mergeOrder lists known ids first, then ids only seen on items
func mergeOrder(known []string, seen []string) []string {
	out := make([]string, 0, len(known)+len(seen))
	present := make(map[string]bool, len(known)+len(seen))
	for _, list := range [][]string{known, seen} {
		for _, id := range list {
			if !present[id] {
				present[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}
