// Package v1alpha1 serves the palette gRPC service
package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/engine"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dispatch"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/palette"
	"github.com/KirkDiggler/rpg-palette/internal/services/catalog"
)

// Entry lists served by ListEntries
const (
	ListTechniqueTypes  = "technique_types"
	ListInventoryGroups = "inventory_groups"
	ListRings           = "rings"
	ListDerived         = "derived"
	ListStanding        = "standing"
	ListSkillCategories = "skill_categories"
)

// HandlerConfig holds dependencies for the palette handler
type HandlerConfig struct {
	Catalog  catalog.Service
	Palette  palette.Service
	Dispatch dispatch.Service
	World    *host.World
	// Stats is optional; when set GetDispatchHistory includes the actor's
	// event tallies
	Stats engine.Engine
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Palette == nil {
		vb.RequiredField("Palette")
	}
	if c.Dispatch == nil {
		vb.RequiredField("Dispatch")
	}
	if c.World == nil {
		vb.RequiredField("World")
	}
	return vb.Build()
}

// Handler implements the palette gRPC service except RollPool, which the
// dice handler serves
type Handler struct {
	catalog  catalog.Service
	palette  palette.Service
	dispatch dispatch.Service
	world    *host.World
	stats    engine.Engine
}

// NewHandler creates a palette handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		catalog:  cfg.Catalog,
		palette:  cfg.Palette,
		dispatch: cfg.Dispatch,
		world:    cfg.World,
		stats:    cfg.Stats,
	}, nil
}

// ListEntries returns one resolved domain list, with the actor's values
// when an actor is given
func (h *Handler) ListEntries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	list := stringField(req, "list")
	if list == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("list is required"))
	}

	var actor *entities.Actor
	if actorID := stringField(req, "actor_id"); actorID != "" {
		found, err := h.world.Actor(actorID)
		if err != nil {
			return nil, errors.ToGRPCError(err)
		}
		actor = found
	}

	resp, err := h.listEntries(ctx, list, actor)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	resp["list"] = list
	return toStruct(resp)
}

func (h *Handler) listEntries(ctx context.Context, list string, actor *entities.Actor) (map[string]any, error) {
	switch list {
	case ListTechniqueTypes, ListInventoryGroups:
		call := h.catalog.TechniqueTypes
		if list == ListInventoryGroups {
			call = h.catalog.InventoryGroups
		}
		out, err := call(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"source": string(out.Source), "entries": out.Entries}, nil

	case ListRings:
		out, err := h.catalog.Rings(ctx, &catalog.RingsInput{Actor: actor})
		if err != nil {
			return nil, err
		}
		return map[string]any{"source": string(out.Source), "entries": out.Rings}, nil

	case ListDerived, ListStanding:
		if actor == nil {
			return nil, errors.InvalidArgumentf("actor_id is required for %s", list)
		}
		kind := entities.AttributeKind(list)
		out, err := h.catalog.Attributes(ctx, &catalog.AttributesInput{Kind: kind, Actor: actor})
		if err != nil {
			return nil, err
		}
		entries := make([]map[string]any, 0, len(out.Entries))
		for _, entry := range out.Entries {
			item := map[string]any{
				"id":              entry.ID,
				"actor_key":       entry.ActorKey,
				"translation_key": entry.TranslationKey,
			}
			if v, ok := catalog.AttributeValue(actor, out.Section, entry, kind); ok {
				item["value"] = catalog.FormatAttribute(v)
			}
			entries = append(entries, item)
		}
		return map[string]any{"source": string(out.Source), "entries": entries}, nil

	case ListSkillCategories:
		if actor == nil {
			return nil, errors.InvalidArgumentf("actor_id is required for %s", list)
		}
		out, err := h.catalog.SkillCategories(ctx, &catalog.SkillCategoriesInput{Actor: actor})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"method":     out.Method,
			"path":       out.Path,
			"categories": out.Categories,
		}, nil
	}
	return nil, errors.InvalidArgumentf("unknown list: %s", list)
}

// BuildPalette returns the action groups for an actor or the controlled
// tokens
func (h *Handler) BuildPalette(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.palette.BuildPalette(ctx, &palette.BuildPaletteInput{
		ActorID: stringField(req, "actor_id"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	actorIDs := out.ActorIDs
	if actorIDs == nil {
		actorIDs = []string{}
	}
	groups := out.Groups
	if groups == nil {
		groups = []entities.ActionGroup{}
	}
	return toStruct(map[string]any{"actor_ids": actorIDs, "groups": groups})
}

// HandleAction dispatches an encoded type|id palette click
func (h *Handler) HandleAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	encoded := stringField(req, "encoded_value")
	if encoded == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("encoded_value is required"))
	}
	kind, actionID, ok := entities.DecodeAction(encoded)
	if !ok {
		return nil, errors.ToGRPCError(errors.InvalidArgumentf("malformed encoded_value: %s", encoded))
	}

	extra, err := recordField(req, "extra")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.dispatch.DispatchRoll(ctx, &dispatch.DispatchRollInput{
		Kind:       kind,
		ActionID:   actionID,
		ActorID:    stringField(req, "actor_id"),
		TokenID:    stringField(req, "token_id"),
		RightClick: boolField(req, "right_click"),
		Extra:      extra,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	results := make([]any, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, actorResult(r))
	}
	return toStruct(map[string]any{"results": results})
}

// OpenDicePicker opens the dice picker for one actor
func (h *Handler) OpenDicePicker(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	extra, err := recordField(req, "extra")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	options := &dispatch.RollOptions{
		Ring:    stringField(req, "ring"),
		Title:   stringField(req, "title"),
		Context: stringField(req, "context"),
		Extra:   extra,
	}
	if skill := stringField(req, "skill"); skill != "" {
		options.Skills = []string{skill}
	}

	out, err := h.dispatch.OpenDicePicker(ctx, &dispatch.OpenDicePickerInput{
		ActorID: stringField(req, "actor_id"),
		TokenID: stringField(req, "token_id"),
		ItemID:  stringField(req, "item_id"),
		Options: options,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return toStruct(map[string]any{"result": actorResult(out.Result)})
}

// GetDispatchHistory returns the click journal for an actor and kind
func (h *Handler) GetDispatchHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.dispatch.History(ctx, &dispatch.HistoryInput{
		ActorID: stringField(req, "actor_id"),
		Kind:    stringField(req, "kind"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	journal := out.Journal
	attempts := make([]any, 0, len(journal.Attempts))
	for _, a := range journal.Attempts {
		attempts = append(attempts, map[string]any{
			"attempt_id": a.AttemptID,
			"action_id":  a.ActionID,
			"receiver":   a.Receiver,
			"method":     a.Method,
			"probes":     a.Probes,
			"succeeded":  a.Succeeded,
			"at":         a.At.Unix(),
		})
	}
	resp := map[string]any{
		"actor_id":   journal.ActorID,
		"kind":       journal.Kind,
		"attempts":   attempts,
		"created_at": journal.CreatedAt.Unix(),
		"expires_at": journal.ExpiresAt.Unix(),
	}
	if h.stats != nil {
		stats := h.stats.Stats(journal.ActorID)
		tally := map[string]any{
			"succeeded": stats.Succeeded,
			"exhausted": stats.Exhausted,
		}
		if stats.LastEvent != "" {
			tally["last_event"] = stats.LastEvent
			tally["last_target"] = stats.LastTarget
			tally["last_at"] = stats.LastAt.Unix()
		}
		resp["stats"] = tally
	}
	return toStruct(resp)
}

func actorResult(r dispatch.ActorResult) map[string]any {
	return map[string]any{
		"actor_id":   r.ActorID,
		"kind":       r.Kind,
		"action_id":  r.ActionID,
		"status":     string(r.Status),
		"receiver":   r.Receiver,
		"method":     r.Method,
		"probes":     r.Probes,
		"attempt_id": r.AttemptID,
		"result":     r.Result.ToAny(),
	}
}
