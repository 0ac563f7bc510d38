package dispatch

import (
	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// DefaultContext tags option bags built by the palette
const DefaultContext = "token-action-hud"

// maxExtractDepth bounds recursion into item skill and ring data
const maxExtractDepth = 8

// RollOptions is the option bag handed to dice dialogs and roll methods.
// Fields merge first-defined-wins: once set they are never overwritten.
type RollOptions struct {
	ActorID   string
	ActorUUID string
	ActorType string

	TokenID   string
	TokenUUID string
	SceneID   string
	SceneUUID string

	ItemID   string
	ItemUUID string
	SourceID string
	ItemType string
	Title    string

	Skills []string
	Ring   string
	// TargetNumber is Null when the action carries none
	TargetNumber value.Value
	Context      string

	// Extra carries caller supplied fields passed through untouched.
	// Record valued action, check, dicePool and pool fields are merged
	// over the generated dice context.
	Extra *value.Record
}

// Skill returns the primary skill id, or ""
func (o *RollOptions) Skill() string {
	if len(o.Skills) == 0 {
		return ""
	}
	return o.Skills[0]
}

// Prepare fills unset fields from the actor, token and item and
// normalizes skills, ring and target number. The receiver is modified in
// place and returned.
func (o *RollOptions) Prepare(actor *entities.Actor, token *entities.Token, item *entities.Item) *RollOptions {
	if actor != nil {
		setIfEmpty(&o.ActorID, actor.ID)
		setIfEmpty(&o.ActorUUID, actor.UUID)
		setIfEmpty(&o.ActorType, actor.Type)
	}
	if token != nil {
		setIfEmpty(&o.TokenID, token.ID)
		setIfEmpty(&o.TokenUUID, token.UUID)
		setIfEmpty(&o.SceneID, token.SceneID)
		setIfEmpty(&o.SceneUUID, token.SceneUUID)
	}
	if item != nil {
		setIfEmpty(&o.ItemID, item.ID)
		setIfEmpty(&o.SourceID, item.ID)
		setIfEmpty(&o.ItemType, item.Type)
		setIfEmpty(&o.ItemUUID, item.UUID)
		setIfEmpty(&o.Title, item.Name)
	}

	o.Skills = dedupeStrings(o.Skills)
	o.Ring = ExtractRingID(value.String(o.Ring))
	setIfEmpty(&o.Context, DefaultContext)
	return o
}

// Fields renders the option bag as host record fields. Actor, token and
// item are passed by reference; every alias the host systems read is
// filled.
func (o *RollOptions) Fields(actor, token, item host.Object) []host.Field {
	var fields []host.Field
	str := func(name, v string) {
		if v != "" {
			fields = append(fields, host.F(name, host.ValueArg(value.String(v))))
		}
	}
	obj := func(name string, v host.Object) {
		if v != nil {
			fields = append(fields, host.F(name, host.ObjectArg(v)))
		}
	}

	obj("actor", actor)
	str("actorId", o.ActorID)
	str("actorUuid", o.ActorUUID)
	str("actorType", o.ActorType)

	obj("token", token)
	str("tokenId", o.TokenID)
	str("tokenUuid", o.TokenUUID)
	str("sceneId", o.SceneID)
	str("sceneUuid", o.SceneUUID)

	obj("item", item)
	str("itemId", o.ItemID)
	str("sourceId", o.SourceID)
	str("type", o.ItemType)
	str("itemType", o.ItemType)
	str("itemUuid", o.ItemUUID)
	str("title", o.Title)

	if skill := o.Skill(); skill != "" {
		str("skill", skill)
		str("skillId", skill)
		fields = append(fields,
			host.F("skills", host.ValueArg(value.Strings(o.Skills))),
			host.F("skillsList", host.ValueArg(value.Strings(o.Skills))))
	}
	str("ring", o.Ring)
	str("ringId", o.Ring)
	str("ringKey", o.Ring)
	str("context", o.Context)

	if !o.TargetNumber.IsNull() {
		for _, name := range []string{"difficulty", "tn", "targetNumber"} {
			fields = append(fields, host.F(name, host.ValueArg(o.TargetNumber)))
		}
	}

	dice := o.diceContext()
	for _, name := range []string{"action", "check", "dicePool", "pool"} {
		merged := dice.Clone()
		if o.Extra != nil {
			if extra, ok := o.Extra.Get(name); ok && extra.Kind() == value.KindRecord {
				extra.Record().Each(func(key string, v value.Value) bool {
					merged.Set(key, v)
					return true
				})
			}
		}
		fields = append(fields, host.F(name, host.ValueArg(value.Rec(merged))))
	}

	if o.Extra != nil {
		taken := make(map[string]bool, len(fields))
		for _, f := range fields {
			taken[f.Name] = true
		}
		o.Extra.Each(func(key string, v value.Value) bool {
			if !taken[key] {
				fields = append(fields, host.F(key, host.ValueArg(v)))
			}
			return true
		})
	}

	return fields
}

// Record renders the option bag as plain data
func (o *RollOptions) Record() value.Value {
	return host.RecordArg(o.Fields(nil, nil, nil)...).Plain()
}

func (o *RollOptions) diceContext() *value.Record {
	rec := value.NewRecord()
	if skill := o.Skill(); skill != "" {
		rec.Set("skill", value.String(skill)).
			Set("skillId", value.String(skill)).
			Set("skillKey", value.String(skill))
	}
	if o.Ring != "" {
		rec.Set("ring", value.String(o.Ring)).
			Set("ringId", value.String(o.Ring)).
			Set("ringKey", value.String(o.Ring))
	}
	if !o.TargetNumber.IsNull() {
		rec.Set("tn", o.TargetNumber).
			Set("difficulty", o.TargetNumber).
			Set("targetNumber", o.TargetNumber)
	}
	return rec
}

// ItemRollOptions builds options for a weapon or technique from the item's
// skill, ring and difficulty data
func ItemRollOptions(item *entities.Item) *RollOptions {
	system := item.System()
	opts := &RollOptions{
		Skills: ExtractSkillIDs(system.Field("skill")),
		Ring:   ExtractRingID(system.Field("ring")),
	}
	if item.Type == string(entities.ActionTechnique) {
		opts.TargetNumber = firstPresent(system, "difficulty", "tn")
	} else {
		opts.TargetNumber = firstPresent(system, "tn", "difficulty")
	}
	return opts
}

func firstPresent(v value.Value, names ...string) value.Value {
	if f, _, ok := v.First(names...); ok {
		return f
	}
	return value.Null()
}

var (
	ringIDFields  = []string{"ring", "id", "key", "value", "default", "defaultRing"}
	skillIDFields = []string{
		"id", "ids", "skill", "skills", "skillId", "skillIds", "skill_ids", "skillList", "skillsList",
		"value", "values", "default", "primary", "entry", "entries", "list", "items",
	}
)

// ExtractRingID finds a ring id in arbitrarily shaped item data. It returns
// "" when none is found.
func ExtractRingID(v value.Value) string {
	return extractRing(v, 0)
}

func extractRing(v value.Value, depth int) string {
	if !v.Truthy() || depth > maxExtractDepth {
		return ""
	}
	switch v.Kind() {
	case value.KindString, value.KindNumber:
		return v.Display()
	case value.KindSequence:
		for _, item := range v.Items() {
			if ring := extractRing(item, depth+1); ring != "" {
				return ring
			}
		}
	case value.KindRecord:
		for _, name := range ringIDFields {
			if ring := extractRing(v.Field(name), depth+1); ring != "" {
				return ring
			}
		}
	}
	return ""
}

// ExtractSkillIDs finds skill ids in arbitrarily shaped item data, in
// order and without duplicates
func ExtractSkillIDs(v value.Value) []string {
	return dedupeStrings(extractSkills(v, 0))
}

func extractSkills(v value.Value, depth int) []string {
	if !v.Truthy() || depth > maxExtractDepth {
		return nil
	}
	switch v.Kind() {
	case value.KindString, value.KindNumber:
		return []string{v.Display()}
	case value.KindSequence:
		var out []string
		for _, item := range v.Items() {
			out = append(out, extractSkills(item, depth+1)...)
		}
		return out
	case value.KindRecord:
		for _, name := range skillIDFields {
			if f := v.Field(name); f.Truthy() {
				return extractSkills(f, depth+1)
			}
		}
		var out []string
		v.Record().Each(func(_ string, f value.Value) bool {
			out = append(out, extractSkills(f, depth+1)...)
			return true
		})
		return out
	}
	return nil
}

func dedupeStrings(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
