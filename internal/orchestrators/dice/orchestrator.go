// Package dice rolls L5R ring and skill pools with rpg-toolkit dice. It
// backs the built-in roll receiver used when no host roller responds.
package dice

//go:generate mockgen -destination=mock/mock_service.go -package=dicemock github.com/KirkDiggler/rpg-palette/internal/orchestrators/dice Service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/idgen"
)

const (
	ringSides  = 6
	skillSides = 12

	// MaxPoolDice bounds each half of a pool
	MaxPoolDice = 10
)

// ringFaces and skillFaces are indexed by side minus one
var (
	ringFaces = [ringSides]Face{
		{},
		{Opportunity: true, Strife: true},
		{Opportunity: true},
		{Success: true, Strife: true},
		{Success: true},
		{Success: true, Explosive: true, Strife: true},
	}
	skillFaces = [skillSides]Face{
		{},
		{},
		{Opportunity: true},
		{Opportunity: true},
		{Opportunity: true},
		{Success: true},
		{Success: true},
		{Success: true, Strife: true},
		{Success: true, Strife: true},
		{Success: true, Opportunity: true},
		{Success: true, Explosive: true, Strife: true},
		{Success: true, Explosive: true},
	}
)

// Service defines the interface for pool rolling
type Service interface {
	RollPool(ctx context.Context, input *RollPoolInput) (*RollPoolOutput, error)
}

// Config holds the dependencies for the dice orchestrator
type Config struct {
	Roller      dice.Roller
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	roller dice.Roller
	idGen  idgen.Generator
}

// NewOrchestrator creates a new dice orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		roller: cfg.Roller,
		idGen:  cfg.IDGenerator,
	}, nil
}

// RollPool rolls RingDice d6 and SkillDice d12 and tallies the symbols.
// Explosive faces are counted but not rerolled.
func (o *orchestrator) RollPool(_ context.Context, input *RollPoolInput) (*RollPoolOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.RingDice < 0 || input.SkillDice < 0 {
		return nil, errors.InvalidArgumentf("pool sizes must not be negative: ring=%d skill=%d",
			input.RingDice, input.SkillDice)
	}

	ringCount := clamp(input.RingDice)
	if ringCount == 0 {
		ringCount = 1
	}
	skillCount := clamp(input.SkillDice)

	ring, err := o.rollFaces(DieRing, ringCount, ringFaces[:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll ring dice")
	}
	skill, err := o.rollFaces(DieSkill, skillCount, skillFaces[:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll skill dice")
	}

	roll := &PoolRoll{
		RollID:      o.idGen.Generate(),
		ActorID:     input.ActorID,
		Description: input.Description,
		Ring:        ring,
		Skill:       skill,
	}
	for _, face := range append(append([]Face{}, ring...), skill...) {
		roll.tally(face)
	}

	slog.Info("Pool rolled",
		"actor_id", input.ActorID,
		"description", input.Description,
		"ring_dice", ringCount,
		"skill_dice", skillCount,
		"successes", roll.Successes,
		"roll_id", roll.RollID,
	)

	return &RollPoolOutput{Roll: roll}, nil
}

func (o *orchestrator) rollFaces(die Die, count int, table []Face) ([]Face, error) {
	if count == 0 {
		return []Face{}, nil
	}
	sides, err := o.roller.RollN(count, len(table))
	if err != nil {
		return nil, err
	}
	faces := make([]Face, len(sides))
	for i, side := range sides {
		if side < 1 || side > len(table) {
			return nil, errors.Internalf("%s die rolled %d outside 1..%d", die, side, len(table))
		}
		face := table[side-1]
		face.Die = die
		face.Side = side
		faces[i] = face
	}
	return faces, nil
}

func (r *PoolRoll) tally(face Face) {
	if face.Success {
		r.Successes++
	}
	if face.Opportunity {
		r.Opportunities++
	}
	if face.Strife {
		r.Strife++
	}
	if face.Explosive {
		r.Explosions++
	}
}

// Summary renders the tallied symbols
func (r *PoolRoll) Summary() string {
	return fmt.Sprintf("%d success, %d opportunity, %d strife, %d explosive",
		r.Successes, r.Opportunities, r.Strife, r.Explosions)
}

func clamp(n int) int {
	if n > MaxPoolDice {
		return MaxPoolDice
	}
	return n
}
