package dispatch_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/clients/host/hostfake"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	notifymock "github.com/KirkDiggler/rpg-palette/internal/notify/mock"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dispatch"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
	dispatchlog "github.com/KirkDiggler/rpg-palette/internal/repositories/dispatch_log"
	dispatchlogmock "github.com/KirkDiggler/rpg-palette/internal/repositories/dispatch_log/mock"
	"github.com/KirkDiggler/rpg-palette/internal/testutils"
)

const worldJSON = `{
  "config": {
    "conflict": {"stances": {"air": {}, "earth": {}, "fire": {}, "water": {}, "void": {}}}
  },
  "actors": [
    {
      "id": "a1", "uuid": "Actor.a1", "type": "character", "name": "Akodo Toturi",
      "system": {"stance": "fire", "rings": {"fire": 3, "water": 2}},
      "items": [
        {"id": "katana", "type": "weapon", "name": "Katana",
         "system": {"skill": "martial_arts_melee", "ring": "fire", "tn": 2}},
        {"id": "kata", "type": "technique", "name": "Striking as Fire",
         "system": {"skill": {"skills": ["fitness"]}, "ring": "fire", "difficulty": 3}},
        {"id": "armor1", "type": "armor", "name": "Ashigaru Armor"}
      ]
    },
    {
      "id": "a2", "uuid": "Actor.a2", "type": "character", "name": "Bayushi Kachiko", "editable": false,
      "system": {"stance": "water", "rings": {"water": 2}, "skills": {"martial": {"fitness": 1}}}
    },
    {"id": "n1", "type": "npc", "name": "Bandit", "system": {"stance": "earth"}},
    {"id": "a3", "type": "character", "name": "Doji Hotaru", "system": {"stance": "air"}}
  ],
  "tokens": [
    {"id": "t1", "actorId": "a1", "sceneId": "s1"},
    {"id": "t2", "actorId": "a2", "sceneId": "s1"},
    {"id": "t3", "actorId": "n1", "sceneId": "s1"},
    {"id": "t4", "actorId": "a3", "sceneId": "s1"}
  ],
  "controlled": ["t1", "t3", "t4"],
  "combat": {"current": {"tokenId": "t1"}}
}`

// recordingBus counts published event types
type recordingBus struct {
	mu    sync.Mutex
	types []string
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.types = append(b.types, event.Type())
	return nil
}
func (b *recordingBus) Subscribe(_ string, _ events.Handler) string { return "sub-id" }
func (b *recordingBus) SubscribeFunc(_ string, _ int, _ events.HandlerFunc) string {
	return "sub-id"
}
func (b *recordingBus) Unsubscribe(_ string) error { return nil }
func (b *recordingBus) Clear(_ string)             {}
func (b *recordingBus) ClearAll()                  {}

// stubRoller returns a fixed pool and records its input
type stubRoller struct {
	input *dice.RollPoolInput
}

func (r *stubRoller) RollPool(_ context.Context, input *dice.RollPoolInput) (*dice.RollPoolOutput, error) {
	r.input = input
	return &dice.RollPoolOutput{Roll: &dice.PoolRoll{
		RollID:        "roll_1",
		ActorID:       input.ActorID,
		Successes:     2,
		Opportunities: 1,
	}}, nil
}

type DispatchOrchestratorTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	notifier *notifymock.MockNotifier
	log      *hostfake.Log
	rt       *hostfake.Runtime
	world    *host.World
	journal  dispatchlog.Repository
	bus      *recordingBus
	roller   *stubRoller
	cleanup  func()
	ctx      context.Context
}

func (s *DispatchOrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.notifier = notifymock.NewMockNotifier(s.ctrl)
	s.log = &hostfake.Log{}
	s.rt = hostfake.NewRuntime(s.log)
	s.bus = &recordingBus{}
	s.roller = &stubRoller{}
	s.ctx = context.Background()

	world, err := host.NewWorld([]byte(worldJSON))
	s.Require().NoError(err)
	s.world = world

	client, _, cleanup := testutils.CreateTestRedisServer(s.T())
	s.cleanup = cleanup
	journal, err := dispatchlog.NewRedisRepository(&dispatchlog.Config{
		Client: client,
		Clock:  &clock.Fixed{At: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	})
	s.Require().NoError(err)
	s.journal = journal
}

func (s *DispatchOrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
	s.cleanup()
}

func (s *DispatchOrchestratorTestSuite) config() *dispatch.Config {
	return &dispatch.Config{
		Runtime:      s.rt,
		World:        s.world,
		Notifier:     s.notifier,
		Journal:      s.journal,
		EventBus:     s.bus,
		Clock:        &clock.Fixed{At: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		IDGenerator:  idgen.NewSequential("attempt"),
		ProbeTimeout: 5 * time.Millisecond,
	}
}

func (s *DispatchOrchestratorTestSuite) service() dispatch.Service {
	svc, err := dispatch.NewOrchestrator(s.config())
	s.Require().NoError(err)
	return svc
}

func (s *DispatchOrchestratorTestSuite) actorObject(id string) *hostfake.Object {
	obj := hostfake.NewObject("actor:"+id, s.log)
	s.rt.Actors[id] = obj
	return obj
}

// methodOrder returns the distinct logged methods in first-call order
func (s *DispatchOrchestratorTestSuite) methodOrder() []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range s.log.Methods() {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func (s *DispatchOrchestratorTestSuite) skill(actorID, skill string) *dispatch.DispatchRollInput {
	return &dispatch.DispatchRollInput{Kind: entities.ActionSkill, ActionID: skill, ActorID: actorID}
}

func (s *DispatchOrchestratorTestSuite) TestNewOrchestrator() {
	_, err := dispatch.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = dispatch.NewOrchestrator(&dispatch.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	for _, field := range []string{"Runtime", "World", "Notifier", "Journal", "EventBus", "Clock", "IDGenerator"} {
		s.Contains(err.Error(), field)
	}

	cfg := s.config()
	cfg.BuiltinRoller = true
	_, err = dispatch.NewOrchestrator(cfg)
	s.Require().Error(err)
	s.Contains(err.Error(), "Roller")

	cfg = s.config()
	cfg.ProbeTimeout = -time.Second
	_, err = dispatch.NewOrchestrator(cfg)
	s.Require().Error(err)
	s.Contains(err.Error(), "ProbeTimeout")
}

func (s *DispatchOrchestratorTestSuite) TestDispatchRollValidation() {
	svc := s.service()

	_, err := svc.DispatchRoll(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = svc.DispatchRoll(s.ctx, &dispatch.DispatchRollInput{Kind: "spells", ActionID: "x"})
	s.True(errors.IsInvalidArgument(err))

	_, err = svc.DispatchRoll(s.ctx, &dispatch.DispatchRollInput{Kind: entities.ActionSkill})
	s.True(errors.IsInvalidArgument(err))

	_, err = svc.DispatchRoll(s.ctx, s.skill("missing", "fitness"))
	s.True(errors.IsNotFound(err))
}

func (s *DispatchOrchestratorTestSuite) TestFifthActorMethodWins() {
	s.actorObject("a2").
		Func("rollSkill", hostfake.Fails("boom")).
		Func("rollSkillCheck", hostfake.Returns(value.Bool(false))).
		Func("rollSkillTest", hostfake.Panics("bad receiver")).
		Func("rollSkillDicePool", hostfake.Blocks()).
		Func("rollCheck", hostfake.Returns(value.Bool(true))).
		Func("rollDicePool", hostfake.Returns(value.Bool(true)))

	out, err := s.service().DispatchRoll(s.ctx, s.skill("a2", "fitness"))
	s.Require().NoError(err)
	s.Require().Len(out.Results, 1)

	result := out.Results[0]
	s.Equal(dispatch.StatusSucceeded, result.Status)
	s.Equal(dispatch.ReceiverActor, result.Receiver)
	s.Equal("rollCheck", result.Method)

	// a2 has no token: 13 argument sets per method, four methods exhausted
	s.Equal(4*13+1, result.Probes)
	s.Equal([]string{
		"actor:a2.rollSkill",
		"actor:a2.rollSkillCheck",
		"actor:a2.rollSkillTest",
		"actor:a2.rollSkillDicePool",
		"actor:a2.rollCheck",
	}, s.methodOrder())
}

func (s *DispatchOrchestratorTestSuite) TestThrowFalseTrueStopsAtThirdProbe() {
	calls := 0
	s.actorObject("a2").Func("rollSkill", func(context.Context, []host.Arg) (value.Value, error) {
		calls++
		switch calls {
		case 1:
			return value.Null(), errors.Internal("host threw")
		case 2:
			return value.Bool(false), nil
		default:
			return value.Bool(true), nil
		}
	})

	out, err := s.service().DispatchRoll(s.ctx, s.skill("a2", "fitness"))
	s.Require().NoError(err)

	result := out.Results[0]
	s.Equal(dispatch.StatusSucceeded, result.Status)
	s.Equal(3, result.Probes)
	s.Equal(3, calls)
	s.True(result.Result.Truthy())
}

func (s *DispatchOrchestratorTestSuite) TestDialogObjectShow() {
	var got []host.Arg
	dialog := hostfake.NewObject("DicePickerDialog", s.log).
		Func("show", func(_ context.Context, args []host.Arg) (value.Value, error) {
			got = args
			return value.Rec(value.NewRecord().Set("rendered", value.Bool(true))), nil
		})
	s.rt.SystemObject = hostfake.NewObject("l5r5e", s.log).Child("DicePickerDialog", dialog)
	s.actorObject("a1").Func("rollSkill", hostfake.Returns(value.Bool(true)))

	out, err := s.service().DispatchRoll(s.ctx, s.skill("a1", "fitness"))
	s.Require().NoError(err)

	result := out.Results[0]
	s.Equal(dispatch.StatusSucceeded, result.Status)
	s.Equal("DicePickerDialog", result.Receiver)
	s.Equal("show", result.Method)
	s.Equal(1, result.Probes)
	s.Equal([]string{"DicePickerDialog.show"}, s.methodOrder())

	s.Require().Len(got, 1)
	opts := got[0].Plain()
	s.Equal("a1", opts.Field("actorId").Display())
	s.Equal("t1", opts.Field("tokenId").Display())
	s.Equal("fitness", opts.Field("skill").Display())
	s.Equal(dispatch.DefaultContext, opts.Field("context").Display())
}

func (s *DispatchOrchestratorTestSuite) TestDialogConstructorCall() {
	config := hostfake.NewObject("CONFIG", s.log).Child("dice", hostfake.NewObject("dice", s.log).
		Constructor("DiceRollDialog", func([]host.Arg) (*hostfake.Object, error) {
			return hostfake.NewObject("DiceRollDialog", s.log).
				WithData(value.Rec(value.NewRecord().Set("id", value.String("dialog-1")))), nil
		}))
	s.rt.Globals[host.GlobalConfig] = config

	out, err := s.service().DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind:     entities.ActionRing,
		ActionID: "water",
		ActorID:  "a1",
	})
	s.Require().NoError(err)

	result := out.Results[0]
	s.Equal(dispatch.StatusSucceeded, result.Status)
	s.Equal("dice.DiceRollDialog", result.Receiver)
	s.Equal("call", result.Method)
	s.Equal("dialog-1", result.Result.Field("id").Display())
}

func (s *DispatchOrchestratorTestSuite) TestDialogReturningFalseFallsBack() {
	dialog := hostfake.NewObject("DicePickerDialog", s.log).
		Func("show", hostfake.Returns(value.Bool(false)))
	s.rt.SystemObject = hostfake.NewObject("l5r5e", s.log).Child("DicePickerDialog", dialog)
	s.actorObject("a1").Func("rollSkill", hostfake.Returns(value.Null()))

	out, err := s.service().DispatchRoll(s.ctx, s.skill("a1", "fitness"))
	s.Require().NoError(err)

	result := out.Results[0]
	s.Equal(dispatch.StatusSucceeded, result.Status)
	s.Equal(dispatch.ReceiverActor, result.Receiver)
	s.Equal("rollSkill", result.Method)
	s.Equal(2, result.Probes)
	s.True(result.Result.Truthy())
}

func (s *DispatchOrchestratorTestSuite) TestExhaustionWarnsOnce() {
	s.actorObject("a2").Func("rollSkill", hostfake.Returns(value.Bool(false)))
	s.rt.SystemObject = hostfake.NewObject("l5r5e", s.log).
		Child("dice", hostfake.NewObject("dice", s.log).Func("rollCheck", hostfake.Fails("nope")))

	s.notifier.EXPECT().
		Warn(gomock.Any(), "a2", dispatch.DicePickerErrorMessage).
		Return(nil).
		Times(1)

	svc := s.service()
	out, err := svc.DispatchRoll(s.ctx, s.skill("a2", "fitness"))
	s.Require().NoError(err)

	result := out.Results[0]
	s.Equal(dispatch.StatusExhausted, result.Status)
	s.Equal(2*13, result.Probes)
	s.NotEmpty(result.AttemptID)

	history, err := svc.History(s.ctx, &dispatch.HistoryInput{ActorID: "a2", Kind: string(entities.ActionSkill)})
	s.Require().NoError(err)
	s.Require().Len(history.Journal.Attempts, 1)
	s.False(history.Journal.Attempts[0].Succeeded)
	s.Equal(result.AttemptID, history.Journal.Attempts[0].AttemptID)

	s.Equal([]string{dispatch.EventDispatchExhausted}, s.bus.types)
}

func (s *DispatchOrchestratorTestSuite) TestControlledCharactersInOrder() {
	seen := map[string]string{}
	capture := func(id string) host.Func {
		return func(_ context.Context, args []host.Arg) (value.Value, error) {
			if len(args) == 0 {
				return value.Bool(false), nil
			}
			seen[id] = args[0].Plain().Field("actorId").Display()
			return value.Bool(true), nil
		}
	}
	s.actorObject("a1").Func("rollSkill", capture("a1"))
	s.actorObject("a3").Func("rollSkill", capture("a3"))
	s.actorObject("n1").Func("rollSkill", capture("n1"))

	out, err := s.service().DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind:     entities.ActionSkill,
		ActionID: "fitness",
	})
	s.Require().NoError(err)
	s.Require().Len(out.Results, 2)
	s.Equal("a1", out.Results[0].ActorID)
	s.Equal("a3", out.Results[1].ActorID)
	for _, r := range out.Results {
		s.Equal(dispatch.StatusSucceeded, r.Status)
		s.Equal(2, r.Probes)
	}

	s.Equal(map[string]string{"a1": "a1", "a3": "a3"}, seen)
	s.Equal([]string{dispatch.EventDispatchSucceeded, dispatch.EventDispatchSucceeded}, s.bus.types)
}

func (s *DispatchOrchestratorTestSuite) TestExtraIsCopiedPerActor() {
	var bags []value.Value
	capture := func(_ context.Context, args []host.Arg) (value.Value, error) {
		if len(args) == 0 {
			return value.Bool(false), nil
		}
		bags = append(bags, args[0].Plain())
		return value.Bool(true), nil
	}
	s.actorObject("a1").Func("rollSkill", capture)
	s.actorObject("a3").Func("rollSkill", capture)

	extra := value.NewRecord().Set("advantage", value.Bool(true))
	_, err := s.service().DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind:     entities.ActionSkill,
		ActionID: "fitness",
		Extra:    extra,
	})
	s.Require().NoError(err)
	s.Require().Len(bags, 2)
	for _, bag := range bags {
		s.Equal("true", bag.Field("advantage").Display())
	}
	s.Equal("a1", bags[0].Field("actorId").Display())
	s.Equal("a3", bags[1].Field("actorId").Display())
	s.Equal(1, extra.Len())
}

func (s *DispatchOrchestratorTestSuite) TestRightClickChangesStance() {
	svc := s.service()

	out, err := svc.DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind:       entities.ActionRing,
		ActionID:   "water",
		RightClick: true,
	})
	s.Require().NoError(err)
	s.Require().Len(out.Results, 3)
	for _, r := range out.Results {
		s.Equal(dispatch.StatusStance, r.Status, r.ActorID)
	}

	for _, id := range []string{"a1", "n1", "a3"} {
		actor, err := s.world.Actor(id)
		s.Require().NoError(err)
		s.Equal("water", actor.Get("stance").Display())
	}
	s.Empty(s.log.Methods())
}

func (s *DispatchOrchestratorTestSuite) TestStanceSkips() {
	svc := s.service()

	testCases := []struct {
		name    string
		actorID string
		stance  string
		want    []dispatch.Status
	}{
		{name: "same stance", actorID: "a1", stance: "fire", want: []dispatch.Status{dispatch.StatusSkipped}},
		{name: "not editable", actorID: "a2", stance: "void", want: []dispatch.Status{dispatch.StatusSkipped}},
		{name: "unknown stance", actorID: "a1", stance: "wind", want: nil},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := svc.DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
				Kind:       entities.ActionRing,
				ActionID:   tc.stance,
				ActorID:    tc.actorID,
				RightClick: true,
			})
			s.Require().NoError(err)

			var got []dispatch.Status
			for _, r := range out.Results {
				got = append(got, r.Status)
			}
			s.Equal(tc.want, got)
		})
	}

	actor, err := s.world.Actor("a2")
	s.Require().NoError(err)
	s.Equal("water", actor.Get("stance").Display())
	s.Empty(s.bus.types)
}

func (s *DispatchOrchestratorTestSuite) armorClick() *dispatch.DispatchRollInput {
	return &dispatch.DispatchRollInput{Kind: entities.ActionArmor, ActionID: "armor1", ActorID: "a1"}
}

func (s *DispatchOrchestratorTestSuite) TestItemChatToMessage() {
	var got []host.Arg
	s.rt.Items["armor1"] = hostfake.NewObject("item:armor1", s.log).
		FuncN("toMessage", 2, func(_ context.Context, args []host.Arg) (value.Value, error) {
			got = args
			return value.Rec(value.NewRecord()), nil
		})

	out, err := s.service().DispatchRoll(s.ctx, s.armorClick())
	s.Require().NoError(err)

	result := out.Results[0]
	s.Equal(dispatch.StatusSucceeded, result.Status)
	s.Equal(dispatch.ReceiverItem, result.Receiver)
	s.Equal("toMessage", result.Method)

	s.Require().Len(got, 2)
	speaker := got[0].Plain().Field("speaker")
	s.Equal("a1", speaker.Field("actor").Display())
	s.Equal("t1", speaker.Field("token").Display())
	s.Equal("true", got[1].Plain().Field("create").Display())
}

func (s *DispatchOrchestratorTestSuite) TestItemChatHelperShapedByArity() {
	var got []host.Arg
	s.rt.HelpersObject = hostfake.NewObject("helpers", s.log).
		FuncN("sendItemToChat", 2, func(_ context.Context, args []host.Arg) (value.Value, error) {
			got = args
			return value.Null(), nil
		})

	out, err := s.service().DispatchRoll(s.ctx, s.armorClick())
	s.Require().NoError(err)
	s.Equal(dispatch.StatusSucceeded, out.Results[0].Status)
	s.Equal("sendItemToChat", out.Results[0].Method)

	s.Require().Len(got, 2)
	s.True(got[0].IsObject())
	s.Equal(dispatch.DefaultContext, got[1].Plain().Field("source").Display())
}

func (s *DispatchOrchestratorTestSuite) TestItemChatFallbackMessage() {
	var got []host.Arg
	s.rt.Globals[host.GlobalChatMessage] = hostfake.NewObject("ChatMessage", s.log).
		Func("create", func(_ context.Context, args []host.Arg) (value.Value, error) {
			got = args
			return value.Rec(value.NewRecord()), nil
		})
	s.rt.Items["armor1"] = hostfake.NewObject("item:armor1", s.log).
		Func("sendToChat", hostfake.Returns(value.Bool(false)))

	out, err := s.service().DispatchRoll(s.ctx, s.armorClick())
	s.Require().NoError(err)

	result := out.Results[0]
	s.Equal(dispatch.StatusFallback, result.Status)
	s.Equal(2, result.Probes)

	s.Require().Len(got, 1)
	card := got[0].Plain()
	s.Equal("Ashigaru Armor", card.Field("content").Display())
	s.Equal(dispatch.ItemChatFallbackKey, card.Field("flavor").Display())
}

func (s *DispatchOrchestratorTestSuite) TestItemChatWarnsWithoutChat() {
	s.notifier.EXPECT().
		Warn(gomock.Any(), "a1", "Token Action HUD L5R5e: unable to post Ashigaru Armor to chat").
		Return(nil)

	out, err := s.service().DispatchRoll(s.ctx, s.armorClick())
	s.Require().NoError(err)
	s.Equal(dispatch.StatusFallback, out.Results[0].Status)
	s.Equal(0, out.Results[0].Probes)
}

func (s *DispatchOrchestratorTestSuite) TestUtilityEndTurn() {
	s.rt.CombatObject = hostfake.NewObject("combat", s.log).
		Func("nextTurn", hostfake.Returns(value.Null()))
	svc := s.service()

	out, err := svc.DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind: entities.ActionUtility, ActionID: dispatch.UtilityEndTurn, ActorID: "a1",
	})
	s.Require().NoError(err)
	s.Equal(dispatch.StatusSucceeded, out.Results[0].Status)
	s.Equal("nextTurn", out.Results[0].Method)

	out, err = svc.DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind: entities.ActionUtility, ActionID: dispatch.UtilityEndTurn, ActorID: "a3",
	})
	s.Require().NoError(err)
	s.Equal(dispatch.StatusSkipped, out.Results[0].Status)
	s.Equal([]string{"combat.nextTurn"}, s.log.Methods())
}

func (s *DispatchOrchestratorTestSuite) TestUtilityEndTurnRefusedWarns() {
	s.rt.CombatObject = hostfake.NewObject("combat", s.log).
		Func("nextTurn", hostfake.Returns(value.Bool(false)))
	s.notifier.EXPECT().
		Warn(gomock.Any(), "a1", dispatch.EndTurnErrorMessage).
		Return(nil)

	out, err := s.service().DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind: entities.ActionUtility, ActionID: dispatch.UtilityEndTurn, ActorID: "a1",
	})
	s.Require().NoError(err)
	s.Equal(dispatch.StatusExhausted, out.Results[0].Status)
	s.Equal([]string{"combat.nextTurn"}, s.log.Methods())
}

func (s *DispatchOrchestratorTestSuite) TestUtilityEndTurnWithoutCombatSkips() {
	out, err := s.service().DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind: entities.ActionUtility, ActionID: dispatch.UtilityEndTurn, ActorID: "a1",
	})
	s.Require().NoError(err)
	s.Equal(dispatch.StatusSkipped, out.Results[0].Status)
	s.Empty(s.bus.types)
	s.Empty(s.log.Methods())
}

func (s *DispatchOrchestratorTestSuite) TestTechniqueRequiresTechniqueItem() {
	out, err := s.service().DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind: entities.ActionTechnique, ActionID: "katana", ActorID: "a1",
	})
	s.Require().NoError(err)
	s.Equal(dispatch.StatusSkipped, out.Results[0].Status)
	s.Empty(s.bus.types)
}

func (s *DispatchOrchestratorTestSuite) TestTechniqueOptionsFromItem() {
	var bag value.Value
	s.actorObject("a1").Func("rollSkill", func(_ context.Context, args []host.Arg) (value.Value, error) {
		if len(args) == 0 {
			return value.Bool(false), nil
		}
		bag = args[0].Plain()
		return value.Bool(true), nil
	})

	out, err := s.service().DispatchRoll(s.ctx, &dispatch.DispatchRollInput{
		Kind: entities.ActionTechnique, ActionID: "kata", ActorID: "a1",
	})
	s.Require().NoError(err)
	s.Equal(dispatch.StatusSucceeded, out.Results[0].Status)

	s.Equal("fitness", bag.Field("skill").Display())
	s.Equal("fire", bag.Field("ring").Display())
	s.Equal("3", bag.Field("difficulty").Display())
	s.Equal("kata", bag.Field("itemId").Display())
	s.Equal("Striking as Fire", bag.Field("title").Display())
}

func (s *DispatchOrchestratorTestSuite) TestBuiltinRoller() {
	cfg := s.config()
	cfg.BuiltinRoller = true
	cfg.Roller = s.roller
	svc, err := dispatch.NewOrchestrator(cfg)
	s.Require().NoError(err)

	s.notifier.EXPECT().
		Chat(gomock.Any(), "a2", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, content string) error {
			s.True(strings.HasPrefix(content, "fitness (water): "), content)
			s.Contains(content, "2 success")
			return nil
		})

	out, err := svc.DispatchRoll(s.ctx, s.skill("a2", "fitness"))
	s.Require().NoError(err)

	result := out.Results[0]
	s.Equal(dispatch.StatusSucceeded, result.Status)
	s.Equal(dispatch.ReceiverBuiltin, result.Receiver)
	s.Equal("roll_1", result.Result.Field("rollId").Display())

	s.Require().NotNil(s.roller.input)
	s.Equal(2, s.roller.input.RingDice)
	s.Equal(1, s.roller.input.SkillDice)
}

func (s *DispatchOrchestratorTestSuite) TestOpenDicePicker() {
	s.actorObject("a1").Func("rollCheck", hostfake.Returns(value.Bool(true)))
	svc := s.service()

	out, err := svc.OpenDicePicker(s.ctx, &dispatch.OpenDicePickerInput{
		ActorID: "a1",
		ItemID:  "katana",
		Options: &dispatch.RollOptions{Skills: []string{"martial_arts_melee"}},
	})
	s.Require().NoError(err)
	s.Equal(dispatch.StatusSucceeded, out.Result.Status)
	s.Equal("martial_arts_melee", out.Result.ActionID)

	_, err = svc.OpenDicePicker(s.ctx, &dispatch.OpenDicePickerInput{ActorID: "a1", ItemID: "missing"})
	s.True(errors.IsNotFound(err))

	_, err = svc.OpenDicePicker(s.ctx, &dispatch.OpenDicePickerInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *DispatchOrchestratorTestSuite) TestHistory() {
	svc := s.service()

	_, err := svc.History(s.ctx, &dispatch.HistoryInput{ActorID: "a1"})
	s.True(errors.IsInvalidArgument(err))

	_, err = svc.History(s.ctx, &dispatch.HistoryInput{ActorID: "a1", Kind: "skill"})
	s.True(errors.IsNotFound(err))

	s.actorObject("a1").Func("rollSkill", hostfake.Returns(value.Bool(true)))
	for i := 0; i < 2; i++ {
		_, err := svc.DispatchRoll(s.ctx, s.skill("a1", "fitness"))
		s.Require().NoError(err)
	}

	out, err := svc.History(s.ctx, &dispatch.HistoryInput{ActorID: "a1", Kind: "skill"})
	s.Require().NoError(err)
	s.Require().Len(out.Journal.Attempts, 2)
	s.Equal("attempt_1", out.Journal.Attempts[0].AttemptID)
	s.Equal("attempt_2", out.Journal.Attempts[1].AttemptID)
	for _, a := range out.Journal.Attempts {
		s.True(a.Succeeded)
		s.Equal("rollSkill", a.Method)
		s.Equal(1, a.Probes)
	}
}

func (s *DispatchOrchestratorTestSuite) TestJournalFailureKeepsResult() {
	journal := dispatchlogmock.NewMockRepository(s.ctrl)
	journal.EXPECT().
		Get(gomock.Any(), dispatchlog.GetInput{ActorID: "a1", Kind: "skill"}).
		Return(nil, errors.Unavailable("redis down"))

	cfg := s.config()
	cfg.Journal = journal
	svc, err := dispatch.NewOrchestrator(cfg)
	s.Require().NoError(err)

	s.actorObject("a1").Func("rollSkill", hostfake.Returns(value.Bool(true)))
	out, err := svc.DispatchRoll(s.ctx, s.skill("a1", "fitness"))
	s.Require().NoError(err)
	s.Require().Len(out.Results, 1)
	s.Equal(dispatch.StatusSucceeded, out.Results[0].Status)
	s.Equal([]string{dispatch.EventDispatchSucceeded}, s.bus.types)
}

func (s *DispatchOrchestratorTestSuite) TestJournalCreatedWithTTL() {
	journal := dispatchlogmock.NewMockRepository(s.ctrl)
	journal.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("no journal"))
	journal.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input dispatchlog.CreateInput) (*dispatchlog.CreateOutput, error) {
			s.Equal("a1", input.ActorID)
			s.Equal("skill", input.Kind)
			s.Equal(time.Hour, input.TTL)
			s.Require().Len(input.Attempts, 1)
			s.Equal("attempt_1", input.Attempts[0].AttemptID)
			s.True(input.Attempts[0].Succeeded)
			return &dispatchlog.CreateOutput{}, nil
		})

	cfg := s.config()
	cfg.Journal = journal
	cfg.JournalTTL = time.Hour
	svc, err := dispatch.NewOrchestrator(cfg)
	s.Require().NoError(err)

	s.actorObject("a1").Func("rollSkill", hostfake.Returns(value.Bool(true)))
	_, err = svc.DispatchRoll(s.ctx, s.skill("a1", "fitness"))
	s.Require().NoError(err)
}

func TestDispatchOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(DispatchOrchestratorTestSuite))
}
