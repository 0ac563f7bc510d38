package dispatch

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// stancePath is where the active stance lives in actor data
const stancePath = "system.stance"

// UtilityEndTurn is the utility action that advances combat
const UtilityEndTurn = "endTurn"

// changeStance sets the stance of each actor. The stance must be one of
// the configured conflict stances when any are configured. Actors of other
// types, already in the stance or not editable are skipped; a failed write
// is logged and the remaining actors are still updated.
func (o *orchestrator) changeStance(ctx context.Context, actors []*entities.Actor, stance string) []ActorResult {
	if !o.stanceAllowed(stance) {
		slog.Debug("unknown stance ignored", "stance", stance)
		return nil
	}

	var results []ActorResult
	for _, actor := range actors {
		result := ActorResult{ActorID: actor.ID, Kind: string(entities.ActionRing), ActionID: stance}
		switch {
		case !actor.IsPlayable():
			result.Status = StatusSkipped
		case actor.Get("stance").Display() == stance:
			result.Status = StatusSkipped
		case !actor.Editable:
			result.Status = StatusSkipped
		default:
			if err := o.world.UpdateActor(actor.ID, stancePath, stance); err != nil {
				slog.Error("failed to change stance",
					"actor_id", actor.ID,
					"stance", stance,
					"error", err)
				result.Status = StatusFailed
				break
			}
			slog.Info("Stance changed", "actor_id", actor.ID, "stance", stance)
			result.Status = StatusStance
		}
		o.record(ctx, actor, nil, &result, Outcome{Succeeded: result.Status == StatusStance})
		results = append(results, result)
	}
	return results
}

func (o *orchestrator) stanceAllowed(stance string) bool {
	stances := o.world.Config("conflict.stances")
	if stances.Kind() != value.KindRecord || stances.Record().Len() == 0 {
		return true
	}
	_, ok := stances.Record().Get(stance)
	return ok
}

// utility runs a utility action for one token
func (o *orchestrator) utility(ctx context.Context, token *entities.Token, actionID string) (Outcome, bool) {
	switch actionID {
	case UtilityEndTurn:
		if token == nil || o.world.CurrentCombatToken() != token.ID {
			return Outcome{}, false
		}
		combat, ok := o.runtime.Combat()
		if !ok {
			return Outcome{}, false
		}
		candidates := o.methodCandidates(combat.Name(), combat, []string{"nextTurn"}, nil)
		return o.prober.Run(ctx, candidates, NotFalse), true
	}
	return Outcome{}, false
}
