package dice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/idgen"
)

// scriptedRoller returns queued results per die size
type scriptedRoller struct {
	results map[int][][]int
	calls   []int
	err     error
}

func (r *scriptedRoller) Roll(size int) (int, error) {
	out, err := r.RollN(1, size)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	r.calls = append(r.calls, count)
	if r.err != nil {
		return nil, r.err
	}
	queue := r.results[size]
	if len(queue) == 0 {
		out := make([]int, count)
		for i := range out {
			out[i] = 1
		}
		return out, nil
	}
	r.results[size] = queue[1:]
	return queue[0], nil
}

type DiceOrchestratorTestSuite struct {
	suite.Suite
	roller *scriptedRoller
	svc    dice.Service
	ctx    context.Context
}

func (s *DiceOrchestratorTestSuite) SetupTest() {
	s.roller = &scriptedRoller{results: map[int][][]int{}}
	svc, err := dice.NewOrchestrator(&dice.Config{
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("roll"),
	})
	s.Require().NoError(err)
	s.svc = svc
	s.ctx = context.Background()
}

func (s *DiceOrchestratorTestSuite) TestRollPoolTallies() {
	s.roller.results[6] = [][]int{{6, 2}}
	s.roller.results[12] = [][]int{{10, 1, 12}}

	out, err := s.svc.RollPool(s.ctx, &dice.RollPoolInput{
		ActorID:     "actor-1",
		RingDice:    2,
		SkillDice:   3,
		Description: "fitness (water)",
	})
	s.Require().NoError(err)

	roll := out.Roll
	s.Equal("roll_1", roll.RollID)
	s.Len(roll.Ring, 2)
	s.Len(roll.Skill, 3)
	s.Equal(dice.DieRing, roll.Ring[0].Die)
	s.Equal(6, roll.Ring[0].Side)
	s.True(roll.Ring[0].Explosive)

	// ring 6: success, explosive, strife; ring 2: opportunity, strife
	// skill 10: success, opportunity; skill 1: blank; skill 12: success, explosive
	s.Equal(3, roll.Successes)
	s.Equal(2, roll.Opportunities)
	s.Equal(2, roll.Strife)
	s.Equal(2, roll.Explosions)
	s.Equal("3 success, 2 opportunity, 2 strife, 2 explosive", roll.Summary())
}

func (s *DiceOrchestratorTestSuite) TestRollPoolAlwaysRollsOneRingDie() {
	out, err := s.svc.RollPool(s.ctx, &dice.RollPoolInput{})
	s.Require().NoError(err)
	s.Len(out.Roll.Ring, 1)
	s.Empty(out.Roll.Skill)
	s.Equal([]int{1}, s.roller.calls)
}

func (s *DiceOrchestratorTestSuite) TestRollPoolClampsSize() {
	_, err := s.svc.RollPool(s.ctx, &dice.RollPoolInput{RingDice: 40, SkillDice: 40})
	s.Require().NoError(err)
	s.Equal([]int{dice.MaxPoolDice, dice.MaxPoolDice}, s.roller.calls)
}

func (s *DiceOrchestratorTestSuite) TestRollPoolRejectsBadInput() {
	_, err := s.svc.RollPool(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.svc.RollPool(s.ctx, &dice.RollPoolInput{RingDice: -1})
	s.True(errors.IsInvalidArgument(err))
}

func (s *DiceOrchestratorTestSuite) TestRollPoolOutOfRangeSide() {
	s.roller.results[6] = [][]int{{7}}
	_, err := s.svc.RollPool(s.ctx, &dice.RollPoolInput{RingDice: 1})
	s.Error(err)
	s.Contains(err.Error(), "outside")
}

func (s *DiceOrchestratorTestSuite) TestRollPoolRollerError() {
	s.roller.err = errors.Internal("no entropy")
	_, err := s.svc.RollPool(s.ctx, &dice.RollPoolInput{RingDice: 1})
	s.Error(err)
	s.Contains(err.Error(), "failed to roll ring dice")
}

func (s *DiceOrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := dice.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = dice.NewOrchestrator(&dice.Config{})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Roller")
	s.Contains(err.Error(), "IDGenerator")
}

func TestDiceOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(DiceOrchestratorTestSuite))
}
