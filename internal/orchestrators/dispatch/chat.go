package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/probe"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// ItemChatFallbackKey is the translation key of the fallback chat card
const ItemChatFallbackKey = "tokenActionHud.l5r5e.itemChatFallback"

// itemChatWarnFormat is used when the host has no chat at all
const itemChatWarnFormat = "Token Action HUD L5R5e: unable to post %s to chat"

// chatReceiver is a system object probed for item chat handlers
type chatReceiver struct {
	// paths are tried in order; the first that exists is used
	paths   []string
	methods []string
}

var (
	helperChatMethods = []string{"sendItemToChat", "sendToChat", "displayItem"}

	systemChatHandlers = []chatReceiver{
		{paths: []string{"Chat", "chat"}, methods: []string{"sendItemToChat", "displayItem", "createItemMessage", "showItemCard", "renderItemCard"}},
		{paths: []string{"applications.chat", "apps.chat"}, methods: []string{"sendItemToChat", "displayItem", "renderItemCard"}},
		{paths: []string{"ChatMessage"}, methods: []string{"createItemMessage", "sendItemToChat"}},
		{paths: []string{"ChatV2"}, methods: []string{"createItemMessage"}},
	}

	itemChatMethods = []string{"sendToChat", "displayCard", "showItemCard", "toMessage"}
)

// chatItem posts an item card. Handlers are probed in order and shaped by
// their declared arity; when none accepts, one fallback card is created
// through the ChatMessage global or, without it, a warning is sent.
func (o *orchestrator) chatItem(ctx context.Context, actor *entities.Actor, token *entities.Token, item *entities.Item) (Outcome, error) {
	actorObj := o.runtime.Actor(actor)
	itemObj := o.runtime.Item(actor, item)
	var tokenObj host.Object
	if token != nil {
		tokenObj = o.runtime.Token(token)
	}

	speaker := o.speaker(ctx, actor, actorObj, token, tokenObj)
	chatContext := host.RecordArg(
		host.F("actor", host.ObjectArg(actorObj)),
		host.F("token", objectOrNull(tokenObj)),
		host.F("speaker", host.ValueArg(speaker)),
		host.F("item", host.ObjectArg(itemObj)),
		host.F("source", host.ValueArg(value.String(DefaultContext))),
	)
	create := host.RecordArg(host.F("create", host.ValueArg(value.Bool(true))))
	refs := host.RecordArg(
		host.F("actor", host.ObjectArg(actorObj)),
		host.F("token", objectOrNull(tokenObj)),
	)

	external := func(arity int) []host.Arg {
		switch {
		case arity <= 1:
			return []host.Arg{host.ObjectArg(itemObj)}
		case arity == 2:
			return []host.Arg{host.ObjectArg(itemObj), chatContext}
		default:
			return []host.Arg{host.ObjectArg(itemObj), chatContext, refs}
		}
	}

	var candidates []Candidate
	add := func(receiver string, obj host.Object, methods []string, shape func(string, int) []host.Arg) {
		for _, name := range methods {
			m, ok := obj.Member(name)
			if !ok || !m.Callable() {
				continue
			}
			candidates = append(candidates, Candidate{
				Receiver: receiver,
				Method:   name,
				Call:     m.Func,
				ArgSets:  [][]host.Arg{shape(name, m.Arity)},
			})
		}
	}
	externalShape := func(_ string, arity int) []host.Arg { return external(arity) }

	if helpers, ok := o.runtime.Helpers(); ok {
		add(helpers.Name(), helpers, helperChatMethods, externalShape)
	}
	if system, ok := o.runtime.System(); ok {
		for _, r := range systemChatHandlers {
			for _, path := range r.paths {
				if obj, ok := host.Walk(system, path); ok {
					add(obj.Name(), obj, r.methods, externalShape)
					break
				}
			}
		}
	}
	add(ReceiverItem, itemObj, itemChatMethods, func(name string, arity int) []host.Arg {
		switch {
		case name == "toMessage":
			return []host.Arg{host.RecordArg(host.F("speaker", host.ValueArg(speaker))), create}
		case arity == 0:
			return []host.Arg{}
		case arity == 1, arity == host.UnknownArity:
			return []host.Arg{chatContext}
		default:
			return []host.Arg{chatContext, create}
		}
	})

	outcome := o.prober.Run(ctx, candidates, NotFalse)
	if outcome.Succeeded {
		return outcome, nil
	}

	if chat, ok := o.runtime.Global(host.GlobalChatMessage); ok {
		if createFn, ok := host.Method(chat, "create"); ok {
			outcome.Probes++
			_, err := probe.Call(ctx, o.probeTimeout, createFn, []host.Arg{host.RecordArg(
				host.F("speaker", host.ValueArg(speaker)),
				host.F("content", host.ValueArg(value.String(item.Name))),
				host.F("flavor", host.ValueArg(value.String(ItemChatFallbackKey))),
			)})
			if err == nil {
				return outcome, nil
			}
			slog.Debug("chat message fallback failed", "actor_id", actor.ID, "item_id", item.ID, "error", err)
		}
	}
	return outcome, o.notifier.Warn(ctx, actor.ID, fmt.Sprintf(itemChatWarnFormat, item.Name))
}

// speaker asks the ChatMessage global for a speaker record, else builds
// one from the ids
func (o *orchestrator) speaker(ctx context.Context, actor *entities.Actor, actorObj host.Object, token *entities.Token, tokenObj host.Object) value.Value {
	if chat, ok := o.runtime.Global(host.GlobalChatMessage); ok {
		if getSpeaker, ok := host.Method(chat, "getSpeaker"); ok {
			result, err := probe.Call(ctx, o.probeTimeout, getSpeaker, []host.Arg{host.RecordArg(
				host.F("actor", host.ObjectArg(actorObj)),
				host.F("token", objectOrNull(tokenObj)),
			)})
			if err == nil && result.Kind() == value.KindRecord {
				return result
			}
		}
	}

	rec := value.NewRecord().Set("actor", value.String(actor.ID))
	if token != nil {
		rec.Set("token", value.String(token.ID))
	} else {
		rec.Set("token", value.Null())
	}
	return value.Rec(rec)
}
