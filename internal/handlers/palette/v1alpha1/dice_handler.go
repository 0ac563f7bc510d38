package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dice"
)

// DiceHandlerConfig holds dependencies for the dice handler
type DiceHandlerConfig struct {
	DiceService dice.Service
}

// Validate ensures all required dependencies are present
func (c *DiceHandlerConfig) Validate() error {
	if c.DiceService == nil {
		return errors.InvalidArgument("dice service is required")
	}
	return nil
}

// DiceHandler rolls ring and skill pools outside of any host
type DiceHandler struct {
	diceService dice.Service
}

// NewDiceHandler creates a new dice handler with the given configuration
func NewDiceHandler(cfg *DiceHandlerConfig) (*DiceHandler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &DiceHandler{
		diceService: cfg.DiceService,
	}, nil
}

// RollPool rolls ring_dice ring dice and skill_dice skill dice
func (h *DiceHandler) RollPool(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actorID := stringField(req, "actor_id")
	if actorID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("actor_id is required"))
	}
	ringDice := numberField(req, "ring_dice")
	skillDice := numberField(req, "skill_dice")
	if ringDice < 0 || skillDice < 0 {
		return nil, errors.ToGRPCError(errors.InvalidArgument("dice counts must not be negative"))
	}

	out, err := h.diceService.RollPool(ctx, &dice.RollPoolInput{
		ActorID:     actorID,
		RingDice:    ringDice,
		SkillDice:   skillDice,
		Description: stringField(req, "description"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(map[string]any{
		"roll":    out.Roll,
		"summary": out.Roll.Summary(),
	})
}

// Server joins the palette and dice handlers into one service
type Server struct {
	*Handler
	*DiceHandler
}

var _ PaletteServiceServer = (*Server)(nil)
