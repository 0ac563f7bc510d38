package dispatch

import (
	"context"
	"strconv"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/orchestrators/dice"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
	"github.com/KirkDiggler/rpg-palette/internal/services/catalog"
)

// Receiver names recorded in outcomes and the journal
const (
	ReceiverActor   = "actor"
	ReceiverItem    = "item"
	ReceiverBuiltin = "builtin"
)

// rollReceiver is one system object probed for roll methods. Path is
// relative to the system namespace.
type rollReceiver struct {
	path    string
	methods []string
}

var (
	actorRollMethods = []string{
		"rollSkill",
		"rollSkillCheck",
		"rollSkillTest",
		"rollSkillDicePool",
		"rollCheck",
		"rollDicePool",
		"rollAction",
		"roll",
	}

	systemRollReceivers = []rollReceiver{
		{path: "dice", methods: []string{"rollSkill", "rollCheck", "rollDicePool"}},
		{path: "Dice", methods: []string{"roll"}},
		{path: "Roller", methods: []string{"roll"}},
		{path: "DiceRoller", methods: []string{"roll"}},
		{path: "", methods: []string{"rollSkill", "rollCheck", "rollDicePool"}},
	}

	itemRollMethods = []string{"roll", "rollCheck", "use"}
)

// rollCandidates lists the fallback system roll probes in order: the
// actor, the system dice namespaces, the system namespace, the item, then
// the built-in roller when enabled. Every method gets every argument set.
func (o *orchestrator) rollCandidates(req *pickerRequest, sets [][]Arg) []Candidate {
	bound := BindAll(sets, req.env)
	var candidates []Candidate
	add := func(receiver string, obj host.Object, methods []string) {
		for _, name := range methods {
			if fn, ok := host.Method(obj, name); ok {
				candidates = append(candidates, Candidate{
					Receiver: receiver,
					Method:   name,
					Call:     fn,
					ArgSets:  bound,
				})
			}
		}
	}

	add(ReceiverActor, req.env.Actor, actorRollMethods)

	if system, ok := o.runtime.System(); ok {
		for _, r := range systemRollReceivers {
			obj, ok := host.Walk(system, r.path)
			if !ok {
				continue
			}
			add(obj.Name(), obj, r.methods)
		}
	}

	if req.itemObj != nil {
		add(ReceiverItem, req.itemObj, itemRollMethods)
	}

	if o.builtinRoller && o.roller != nil {
		candidates = append(candidates, Candidate{
			Receiver: ReceiverBuiltin,
			Method:   "rollPool",
			Call:     o.builtinRoll(req),
		})
	}
	return candidates
}

// builtinRoll rolls the ring and skill pool locally and posts the result
// to chat
func (o *orchestrator) builtinRoll(req *pickerRequest) host.Func {
	return func(ctx context.Context, _ []host.Arg) (value.Value, error) {
		ring := req.options.Ring
		if ring == "" {
			ring = req.actor.Get("stance").Display()
		}
		skill := req.options.Skill()

		description := skill
		if ring != "" {
			if description != "" {
				description += " (" + ring + ")"
			} else {
				description = ring
			}
		}
		if req.options.Title != "" {
			description = req.options.Title + ": " + description
		}

		out, err := o.roller.RollPool(ctx, &dice.RollPoolInput{
			ActorID:     req.actor.ID,
			RingDice:    poolSize(catalog.RingValue(req.actor, ring)),
			SkillDice:   poolSize(catalog.SkillRank(req.actor, skill)),
			Description: description,
		})
		if err != nil {
			return value.Null(), err
		}

		roll := out.Roll
		if err := o.notifier.Chat(ctx, req.actor.ID, description+": "+roll.Summary()); err != nil {
			return value.Null(), err
		}

		return value.Rec(value.NewRecord().
			Set("rollId", value.String(roll.RollID)).
			Set("successes", value.Int(roll.Successes)).
			Set("opportunities", value.Int(roll.Opportunities)).
			Set("strife", value.Int(roll.Strife)).
			Set("explosions", value.Int(roll.Explosions))), nil
	}
}

// poolSize reads a display value as a die count. Values like "2/5" use
// the leading number.
func poolSize(display string) int {
	end := 0
	for end < len(display) && display[end] >= '0' && display[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(display[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// pickerRequest is the per actor state of one dice picker dispatch
type pickerRequest struct {
	actor   *entities.Actor
	token   *entities.Token
	item    *entities.Item
	itemObj host.Object
	options *RollOptions
	env     Env
}
