// Package dispatch turns palette clicks into host calls. Receivers and
// methods are discovered by name on every click and probed one at a time
// until one accepts; when none does the user gets exactly one warning.
package dispatch

//go:generate mockgen -destination=mock/mock_service.go -package=dispatchmock github.com/KirkDiggler/rpg-palette/internal/orchestrators/dispatch Service

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/notify"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
	dispatchlog "github.com/KirkDiggler/rpg-palette/internal/repositories/dispatch_log"
)

const tracerName = "github.com/KirkDiggler/rpg-palette/internal/orchestrators/dispatch"

// Event types published after every recorded click
const (
	EventDispatchSucceeded = "palette.dispatch.succeeded"
	EventDispatchExhausted = "palette.dispatch.exhausted"
)

// Dice picker failure message and its translation keys in lookup order
const (
	DicePickerErrorKey         = "tokenActionHud.l5r5e.dicePickerError"
	DicePickerErrorFallbackKey = "tokenActionHud.notifications.dicePickerError"
	DicePickerErrorMessage     = "Token Action HUD L5R5e: Unable to open Dice Picker Dialog"
)

// EndTurnErrorMessage is sent when the combat tracker refuses to advance
const EndTurnErrorMessage = "Token Action HUD L5R5e: Unable to end the current turn"

// DefaultJournalTTL is used when Config.JournalTTL is zero
const DefaultJournalTTL = 24 * time.Hour

// Status is the per actor result of a click
type Status string

// Statuses
const (
	// StatusSucceeded means a candidate accepted the call
	StatusSucceeded Status = "succeeded"
	// StatusExhausted means every candidate was tried and the user was warned
	StatusExhausted Status = "exhausted"
	// StatusFallback means the item chat fallback card was posted
	StatusFallback Status = "fallback"
	// StatusStance means the actor's stance was changed
	StatusStance Status = "stance"
	// StatusSkipped means the click did not apply to the actor
	StatusSkipped Status = "skipped"
	// StatusFailed means a write to the world failed
	StatusFailed Status = "failed"
)

// Service defines the click handling operations
type Service interface {
	// DispatchRoll handles one encoded action for the given actor, or for
	// every controlled character when no actor is given
	DispatchRoll(ctx context.Context, input *DispatchRollInput) (*DispatchRollOutput, error)
	// OpenDicePicker opens the dice picker for one actor, falling back to a
	// system roll
	OpenDicePicker(ctx context.Context, input *OpenDicePickerInput) (*OpenDicePickerOutput, error)
	// History returns the journal of clicks for an actor and kind
	History(ctx context.Context, input *HistoryInput) (*HistoryOutput, error)
}

// DispatchRollInput describes one click
type DispatchRollInput struct {
	Kind     entities.ActionType
	ActionID string
	// ActorID selects a single actor; empty means the controlled tokens
	ActorID string
	TokenID string
	// RightClick turns a ring click into a stance change
	RightClick bool
	// Extra is copied into every actor's roll options
	Extra *value.Record
}

// DispatchRollOutput lists one result per acted-upon actor, in order
type DispatchRollOutput struct {
	Results []ActorResult
}

// ActorResult is the outcome of a click for one actor
type ActorResult struct {
	ActorID   string
	Kind      string
	ActionID  string
	Status    Status
	Receiver  string
	Method    string
	Probes    int
	Result    value.Value
	AttemptID string
}

// OpenDicePickerInput opens a dice picker directly
type OpenDicePickerInput struct {
	ActorID string
	TokenID string
	ItemID  string
	Options *RollOptions
}

// OpenDicePickerOutput is the picker result
type OpenDicePickerOutput struct {
	Result ActorResult
}

// HistoryInput identifies a journal
type HistoryInput struct {
	ActorID string
	Kind    string
}

// HistoryOutput is the stored journal
type HistoryOutput struct {
	Journal *dispatchlog.Journal
}

// Config holds the dependencies for the dispatch orchestrator
type Config struct {
	Runtime     host.Runtime
	World       *host.World
	Notifier    notify.Notifier
	Journal     dispatchlog.Repository
	EventBus    events.EventBus
	Clock       clock.Clock
	IDGenerator idgen.Generator

	// Roller backs the built-in receiver; it is only used when
	// BuiltinRoller is set
	Roller        dice.Service
	BuiltinRoller bool

	ProbeTimeout time.Duration
	JournalTTL   time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Runtime == nil {
		vb.RequiredField("Runtime")
	}
	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.Notifier == nil {
		vb.RequiredField("Notifier")
	}
	if c.Journal == nil {
		vb.RequiredField("Journal")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.BuiltinRoller && c.Roller == nil {
		vb.Field("Roller", "is required when the built-in roller is enabled")
	}
	if c.ProbeTimeout < 0 {
		vb.Field("ProbeTimeout", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	runtime       host.Runtime
	world         *host.World
	notifier      notify.Notifier
	journal       dispatchlog.Repository
	bus           events.EventBus
	clock         clock.Clock
	idGen         idgen.Generator
	roller        dice.Service
	builtinRoller bool
	probeTimeout  time.Duration
	journalTTL    time.Duration
	prober        *Prober
	tracer        trace.Tracer
}

// NewOrchestrator creates a dispatch orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.JournalTTL
	if ttl == 0 {
		ttl = DefaultJournalTTL
	}

	return &orchestrator{
		runtime:       cfg.Runtime,
		world:         cfg.World,
		notifier:      cfg.Notifier,
		journal:       cfg.Journal,
		bus:           cfg.EventBus,
		clock:         cfg.Clock,
		idGen:         cfg.IDGenerator,
		roller:        cfg.Roller,
		builtinRoller: cfg.BuiltinRoller,
		probeTimeout:  cfg.ProbeTimeout,
		journalTTL:    ttl,
		prober:        &Prober{Timeout: cfg.ProbeTimeout},
		tracer:        otel.Tracer(tracerName),
	}, nil
}

var dispatchKinds = map[entities.ActionType]bool{
	entities.ActionRing:      true,
	entities.ActionSkill:     true,
	entities.ActionWeapons:   true,
	entities.ActionTechnique: true,
	entities.ActionArmor:     true,
	entities.ActionEquipment: true,
	entities.ActionUtility:   true,
}

// DispatchRoll handles one click
func (o *orchestrator) DispatchRoll(ctx context.Context, input *DispatchRollInput) (*DispatchRollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !dispatchKinds[input.Kind] {
		return nil, errors.InvalidArgumentf("unsupported action kind: %s", input.Kind)
	}
	if input.ActionID == "" {
		return nil, errors.InvalidArgument("action ID is required")
	}

	ctx, span := o.tracer.Start(ctx, "dispatch.DispatchRoll", trace.WithAttributes(
		attribute.String("palette.kind", string(input.Kind)),
		attribute.String("palette.action_id", input.ActionID),
		attribute.String("palette.actor_id", input.ActorID),
		attribute.Bool("palette.right_click", input.RightClick),
	))
	defer span.End()

	if input.Kind == entities.ActionRing && input.RightClick {
		actors, err := o.stanceTargets(input)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		return &DispatchRollOutput{Results: o.changeStance(ctx, actors, input.ActionID)}, nil
	}

	targets, err := o.targets(input)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	output := &DispatchRollOutput{}
	for _, t := range targets {
		output.Results = append(output.Results, o.handle(ctx, input, t.actor, t.token))
	}
	span.SetAttributes(attribute.Int("palette.actors", len(output.Results)))
	return output, nil
}

type target struct {
	actor *entities.Actor
	token *entities.Token
}

// targets resolves the single requested actor, or every controlled token
// whose actor is a character
func (o *orchestrator) targets(input *DispatchRollInput) ([]target, error) {
	if input.ActorID != "" {
		actor, err := o.world.Actor(input.ActorID)
		if err != nil {
			return nil, err
		}
		token, err := o.tokenFor(actor, input.TokenID)
		if err != nil {
			return nil, err
		}
		return []target{{actor: actor, token: token}}, nil
	}

	var out []target
	for _, token := range o.world.Controlled() {
		actor, err := o.world.Actor(token.ActorID)
		if err != nil || actor.Type != entities.ActorTypeCharacter {
			continue
		}
		out = append(out, target{actor: actor, token: token})
	}
	return out, nil
}

func (o *orchestrator) stanceTargets(input *DispatchRollInput) ([]*entities.Actor, error) {
	if input.ActorID != "" {
		actor, err := o.world.Actor(input.ActorID)
		if err != nil {
			return nil, err
		}
		return []*entities.Actor{actor}, nil
	}

	var out []*entities.Actor
	for _, token := range o.world.Controlled() {
		actor, err := o.world.Actor(token.ActorID)
		if err != nil || !actor.IsPlayable() {
			continue
		}
		out = append(out, actor)
	}
	return out, nil
}

// tokenFor returns the named token, or the first controlled token of the
// actor, or nil
func (o *orchestrator) tokenFor(actor *entities.Actor, tokenID string) (*entities.Token, error) {
	if tokenID != "" {
		return o.world.Token(tokenID)
	}
	for _, token := range o.world.Controlled() {
		if token.ActorID == actor.ID {
			return token, nil
		}
	}
	return nil, nil
}

// handle runs one click for one actor. Each actor gets its own options.
func (o *orchestrator) handle(ctx context.Context, input *DispatchRollInput, actor *entities.Actor, token *entities.Token) ActorResult {
	result := ActorResult{ActorID: actor.ID, Kind: string(input.Kind), ActionID: input.ActionID}

	opts := &RollOptions{}
	if input.Extra != nil {
		opts.Extra = input.Extra.Clone()
	}

	var (
		item    *entities.Item
		outcome Outcome
	)
	switch input.Kind {
	case entities.ActionRing:
		opts.Ring = input.ActionID
		outcome = o.openPicker(ctx, actor, token, nil, opts)

	case entities.ActionSkill:
		opts.Skills = []string{input.ActionID}
		outcome = o.openPicker(ctx, actor, token, nil, opts)

	case entities.ActionWeapons, entities.ActionTechnique:
		found, ok := actor.Item(input.ActionID)
		if !ok || (input.Kind == entities.ActionTechnique && found.Type != string(entities.ActionTechnique)) {
			result.Status = StatusSkipped
			return result
		}
		item = found
		itemOpts := ItemRollOptions(item)
		itemOpts.Extra = opts.Extra
		outcome = o.openPicker(ctx, actor, token, item, itemOpts)

	case entities.ActionArmor, entities.ActionEquipment:
		found, ok := actor.Item(input.ActionID)
		if !ok {
			result.Status = StatusSkipped
			return result
		}
		item = found
		chatOutcome, err := o.chatItem(ctx, actor, token, item)
		if err != nil {
			slog.Warn("failed to deliver item chat fallback", "actor_id", actor.ID, "item_id", item.ID, "error", err)
		}
		result.Status = StatusFallback
		if chatOutcome.Succeeded {
			result.Status = StatusSucceeded
		}
		o.record(ctx, actor, item, &result, chatOutcome)
		return result

	case entities.ActionUtility:
		utilityOutcome, applies := o.utility(ctx, token, input.ActionID)
		if !applies {
			result.Status = StatusSkipped
			return result
		}
		result.Status = StatusExhausted
		if utilityOutcome.Succeeded {
			result.Status = StatusSucceeded
		} else if err := o.notifier.Warn(ctx, actor.ID, EndTurnErrorMessage); err != nil {
			slog.Warn("failed to send end turn warning", "actor_id", actor.ID, "error", err)
		}
		o.record(ctx, actor, nil, &result, utilityOutcome)
		return result
	}

	result.Status = StatusExhausted
	if outcome.Succeeded {
		result.Status = StatusSucceeded
	}
	o.record(ctx, actor, item, &result, outcome)
	return result
}

// OpenDicePicker opens the dice picker for one actor
func (o *orchestrator) OpenDicePicker(ctx context.Context, input *OpenDicePickerInput) (*OpenDicePickerOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ActorID == "" {
		return nil, errors.InvalidArgument("actor ID is required")
	}

	ctx, span := o.tracer.Start(ctx, "dispatch.OpenDicePicker", trace.WithAttributes(
		attribute.String("palette.actor_id", input.ActorID),
	))
	defer span.End()

	actor, err := o.world.Actor(input.ActorID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	token, err := o.tokenFor(actor, input.TokenID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var item *entities.Item
	if input.ItemID != "" {
		found, ok := actor.Item(input.ItemID)
		if !ok {
			return nil, errors.NotFoundf("item %s not found on actor %s", input.ItemID, actor.ID).
				WithMeta("item_id", input.ItemID)
		}
		item = found
	}

	opts := &RollOptions{}
	if input.Options != nil {
		copied := *input.Options
		copied.Skills = append([]string(nil), input.Options.Skills...)
		if input.Options.Extra != nil {
			copied.Extra = input.Options.Extra.Clone()
		}
		opts = &copied
	}

	outcome := o.openPicker(ctx, actor, token, item, opts)
	result := ActorResult{ActorID: actor.ID, Kind: "picker", ActionID: opts.Skill(), Status: StatusExhausted}
	if result.ActionID == "" {
		result.ActionID = opts.Ring
	}
	if outcome.Succeeded {
		result.Status = StatusSucceeded
	}
	o.record(ctx, actor, item, &result, outcome)
	return &OpenDicePickerOutput{Result: result}, nil
}

// openPicker locates and opens a dice dialog, then falls back to system
// roll methods. Exhaustion sends exactly one warning.
func (o *orchestrator) openPicker(ctx context.Context, actor *entities.Actor, token *entities.Token, item *entities.Item, opts *RollOptions) Outcome {
	opts.Prepare(actor, token, item)

	req := &pickerRequest{actor: actor, token: token, item: item, options: opts}
	actorObj := o.runtime.Actor(actor)
	var tokenObj host.Object
	if token != nil {
		tokenObj = o.runtime.Token(token)
	}
	if item != nil {
		req.itemObj = o.runtime.Item(actor, item)
	}
	req.env = Env{
		Actor:   actorObj,
		Token:   tokenObj,
		Options: opts.Fields(actorObj, tokenObj, req.itemObj),
	}

	sets := DiceArgSets(opts, token != nil)
	probes := 0

	if dialog := LocateDialog(o.runtime); dialog != nil {
		outcome := o.prober.Run(ctx, o.dialogCandidates(dialog, sets, req.env), Defined)
		probes += outcome.Probes
		if outcome.Succeeded && Present(outcome.Result) {
			return outcome
		}
	}

	outcome := o.prober.Run(ctx, o.rollCandidates(req, sets), NotFalse)
	outcome.Probes += probes
	if outcome.Succeeded {
		if outcome.Result.IsNull() {
			outcome.Result = value.Bool(true)
		}
		return outcome
	}

	if err := o.notifier.Warn(ctx, actor.ID, DicePickerErrorMessage); err != nil {
		slog.Warn("failed to send dice picker warning", "actor_id", actor.ID, "error", err)
	}
	return outcome
}

// methodCandidates builds one candidate per existing method
func (o *orchestrator) methodCandidates(receiver string, obj host.Object, methods []string, argSets [][]host.Arg) []Candidate {
	var out []Candidate
	for _, name := range methods {
		if fn, ok := host.Method(obj, name); ok {
			out = append(out, Candidate{Receiver: receiver, Method: name, Call: fn, ArgSets: argSets})
		}
	}
	return out
}

// record fills the result from the outcome, appends it to the journal and
// publishes the dispatch event. Journal and event failures are logged only;
// the click has already happened.
func (o *orchestrator) record(ctx context.Context, actor *entities.Actor, item *entities.Item, result *ActorResult, outcome Outcome) {
	result.Receiver = outcome.Receiver
	result.Method = outcome.Method
	result.Probes = outcome.Probes
	result.Result = outcome.Result
	result.AttemptID = o.idGen.Generate()

	attrs := []any{
		"actor_id", result.ActorID,
		"kind", result.Kind,
		"action_id", result.ActionID,
		"status", result.Status,
		"receiver", result.Receiver,
		"method", result.Method,
		"probes", result.Probes,
	}
	if result.Status == StatusExhausted {
		slog.Warn("Dispatch exhausted", attrs...)
	} else {
		slog.Info("Dispatch finished", attrs...)
	}

	span := trace.SpanFromContext(ctx)
	span.AddEvent("dispatch.result", trace.WithAttributes(
		attribute.String("palette.status", string(result.Status)),
		attribute.String("palette.receiver", result.Receiver),
		attribute.String("palette.method", result.Method),
		attribute.Int("palette.probes", result.Probes),
	))

	if err := o.appendJournal(ctx, result); err != nil {
		slog.Error("failed to append dispatch journal", "actor_id", result.ActorID, "kind", result.Kind, "error", err)
	}

	eventType := EventDispatchSucceeded
	switch result.Status {
	case StatusSkipped:
		return
	case StatusExhausted, StatusFailed:
		eventType = EventDispatchExhausted
	}
	var targetEntity core.Entity
	if item != nil {
		targetEntity = item
	}
	if err := o.bus.Publish(ctx, events.NewGameEvent(eventType, actor, targetEntity)); err != nil {
		slog.Error("failed to publish dispatch event", "event", eventType, "actor_id", actor.ID, "error", err)
	}
}

func (o *orchestrator) appendJournal(ctx context.Context, result *ActorResult) error {
	attempt := dispatchlog.Attempt{
		AttemptID: result.AttemptID,
		ActionID:  result.ActionID,
		Receiver:  result.Receiver,
		Method:    result.Method,
		Probes:    result.Probes,
		Succeeded: result.Status == StatusSucceeded || result.Status == StatusStance,
		At:        o.clock.Now(),
	}

	got, err := o.journal.Get(ctx, dispatchlog.GetInput{ActorID: result.ActorID, Kind: result.Kind})
	if err != nil {
		if !errors.IsNotFound(err) {
			return errors.Wrap(err, "failed to check for existing journal")
		}
		_, err := o.journal.Create(ctx, dispatchlog.CreateInput{
			ActorID:  result.ActorID,
			Kind:     result.Kind,
			Attempts: []dispatchlog.Attempt{attempt},
			TTL:      o.journalTTL,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create journal")
		}
		return nil
	}

	journal := got.Journal
	journal.Attempts = append(journal.Attempts, attempt)
	if err := o.journal.Update(ctx, journal); err != nil {
		return errors.Wrap(err, "failed to update journal")
	}
	return nil
}

// History returns the journal for an actor and kind
func (o *orchestrator) History(ctx context.Context, input *HistoryInput) (*HistoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ActorID == "" {
		return nil, errors.InvalidArgument("actor ID is required")
	}
	if input.Kind == "" {
		return nil, errors.InvalidArgument("kind is required")
	}

	got, err := o.journal.Get(ctx, dispatchlog.GetInput{ActorID: input.ActorID, Kind: input.Kind})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get dispatch journal")
	}
	return &HistoryOutput{Journal: got.Journal}, nil
}
