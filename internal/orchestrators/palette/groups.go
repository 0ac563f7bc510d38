package palette

import (
	"context"
	"strings"

	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/ident"
	"github.com/KirkDiggler/rpg-palette/internal/services/catalog"
)

// Item types
const (
	itemTypeItem        = "item"
	itemTypeWeapon      = "weapon"
	itemTypeArmor       = "armor"
	itemTypeTechnique   = "technique"
	itemTypePeculiarity = "peculiarity"
)

// itemKind is the dispatch kind encoded for an inventory item
func itemKind(item *entities.Item) entities.ActionType {
	switch item.Type {
	case itemTypeWeapon:
		return entities.ActionWeapons
	case itemTypeArmor:
		return entities.ActionArmor
	default:
		return entities.ActionEquipment
	}
}

// typeGroup is the inventory group an item type belongs to when shown
var typeGroup = map[string]string{
	itemTypeItem:   string(entities.ActionEquipment),
	itemTypeWeapon: string(entities.ActionWeapons),
	itemTypeArmor:  string(entities.ActionArmor),
}

// showInGroup reports whether an item is listed in its type group. With
// displayUnequipped every weapon and armor is listed; otherwise only
// equipped items are.
func (o *orchestrator) showInGroup(item *entities.Item) bool {
	switch item.Type {
	case itemTypeItem, itemTypeTechnique, itemTypePeculiarity:
	default:
		if o.displayUnequipped {
			return true
		}
	}
	return item.System().Field("equipped").Truthy()
}

// inventoryGroups sorts items with a quantity into equipped, unequipped
// and their type group. Known groups come first in resolved order.
func (o *orchestrator) inventoryGroups(ctx context.Context, items []*entities.Item) ([]entities.ActionGroup, error) {
	if len(items) == 0 {
		return nil, nil
	}
	list, err := o.catalog.InventoryGroups(ctx)
	if err != nil {
		return nil, err
	}
	known, order := entryMap(list.Entries)

	byGroup := map[string][]*entities.Item{}
	var seen []string
	add := func(group string, item *entities.Item) {
		if _, ok := byGroup[group]; !ok {
			seen = append(seen, group)
		}
		byGroup[group] = append(byGroup[group], item)
	}

	for _, item := range items {
		qty, _ := item.System().Field("quantity").Number()
		if qty <= 0 {
			continue
		}
		if item.System().Field("equipped").Truthy() {
			add(GroupEquipped, item)
		} else {
			add(GroupUnequipped, item)
		}
		if group, ok := typeGroup[item.Type]; ok && o.showInGroup(item) {
			add(group, item)
		}
	}

	var groups []entities.ActionGroup
	for _, id := range mergeOrder(order, seen) {
		members := byGroup[id]
		if len(members) == 0 {
			continue
		}
		group := groupFor(id, known, "")
		for _, item := range members {
			group.Actions = append(group.Actions, itemAction(itemKind(item), item, group.Name))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// techniqueGroups groups techniques by sanitized technique type. When the
// host lists technique types, techniques of other types are left out.
func (o *orchestrator) techniqueGroups(ctx context.Context, items []*entities.Item) ([]entities.ActionGroup, error) {
	if len(items) == 0 {
		return nil, nil
	}
	list, err := o.catalog.TechniqueTypes(ctx)
	if err != nil {
		return nil, err
	}
	known, order := entryMap(list.Entries)

	typeKeys := map[string]bool{}
	for _, e := range list.Entries {
		typeKeys[e.ID] = true
		if e.ActorKey != "" {
			typeKeys[e.ActorKey] = true
		}
	}

	byType := map[string][]*entities.Item{}
	var seen []string
	for _, item := range items {
		if item.Type != itemTypeTechnique {
			continue
		}
		raw := item.System().Field("technique_type").Display()
		if raw == "" {
			continue
		}
		if len(typeKeys) > 0 && !typeKeys[raw] && !typeKeys[ident.Sanitize(raw)] {
			continue
		}
		id := ident.Sanitize(raw)
		if _, ok := byType[id]; !ok {
			seen = append(seen, id)
		}
		byType[id] = append(byType[id], item)
	}

	var groups []entities.ActionGroup
	for _, id := range mergeOrder(order, seen) {
		members := byType[id]
		if len(members) == 0 {
			continue
		}
		group := groupFor(id, known, catalog.PrefixTechniques)
		for _, item := range members {
			group.Actions = append(group.Actions, itemAction(entities.ActionTechnique, item, group.Name))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func itemAction(kind entities.ActionType, item *entities.Item, groupName string) entities.Action {
	system := item.System()
	action := entities.Action{
		ID:           item.ID,
		Name:         item.Name,
		EncodedValue: entities.EncodeAction(kind, item.ID),
		ListName:     listName(groupName, item.Name),
	}
	if qty, ok := system.Field("quantity").Number(); ok && qty > 1 {
		action.Info = system.Field("quantity").Display()
	}
	if system.Has("readied") {
		action.Toggle = true
		action.Active = system.Field("readied").Truthy()
	}
	return action
}

// ringGroup lists the rings with the actor's values. The ring matching the
// actor's stance is active.
func (o *orchestrator) ringGroup(ctx context.Context, actor *entities.Actor) (entities.ActionGroup, error) {
	out, err := o.catalog.Rings(ctx, &catalog.RingsInput{Actor: actor})
	if err != nil {
		return entities.ActionGroup{}, err
	}
	group := entities.ActionGroup{ID: GroupRings, Name: "Rings", NameKey: RingsTitleKey}
	stance := actor.Get("stance").Display()

	for _, ring := range out.Rings {
		if ring.ID == "" {
			continue
		}
		label := ringLabel(ring.CanonicalEntry)
		action := entities.Action{
			ID:           ring.ID,
			Name:         label,
			NameKey:      ringKey(ring.CanonicalEntry),
			EncodedValue: entities.EncodeAction(entities.ActionRing, ring.ID),
		}
		if ring.Value != "" {
			action.Name = label + ": " + ring.Value
			action.Info = ring.Value
		}
		action.ListName = listName(group.Name, action.Name)
		if ring.ID == stance {
			action.Toggle = true
			action.Active = true
		}
		group.Actions = append(group.Actions, action)
	}
	return group, nil
}

func ringLabel(entry entities.CanonicalEntry) string {
	if entry.Label != "" {
		return entry.Label
	}
	return ident.Humanize(entry.ID)
}

func ringKey(entry entities.CanonicalEntry) string {
	if entry.TranslationKey != "" {
		return entry.TranslationKey
	}
	return catalog.PrefixRings + "." + entry.ID
}

// attributeGroup lists derived or standing attributes that have data on
// the actor
func (o *orchestrator) attributeGroup(ctx context.Context, actor *entities.Actor, kind entities.AttributeKind) (entities.ActionGroup, error) {
	out, err := o.catalog.Attributes(ctx, &catalog.AttributesInput{Kind: kind, Actor: actor})
	if err != nil {
		return entities.ActionGroup{}, err
	}
	group := entities.ActionGroup{ID: string(kind), Name: ident.Humanize(string(kind))}

	for _, entry := range out.Entries {
		data, ok := catalog.AttributeValue(actor, out.Section, entry, kind)
		if !ok {
			continue
		}
		label := entry.Label
		if label == "" {
			label = ident.Humanize(entry.ID)
		}
		action := entities.Action{
			ID:      entry.ID,
			Name:    label,
			NameKey: entry.TranslationKey,
		}
		key := entry.ActorKey
		if key == "" {
			key = entry.ID
		}
		action.EncodedValue = entities.EncodeAction(entities.ActionType(kind), key)
		if formatted := catalog.FormatAttribute(data); formatted != "" {
			action.Name = label + ": " + formatted
			action.Info = formatted
		}
		action.ListName = listName(group.Name, action.Name)
		group.Actions = append(group.Actions, action)
	}
	return group, nil
}

// skillGroups builds one group per skill category with the actor's values
func (o *orchestrator) skillGroups(ctx context.Context, actor *entities.Actor) ([]entities.ActionGroup, error) {
	out, err := o.catalog.SkillCategories(ctx, &catalog.SkillCategoriesInput{Actor: actor})
	if err != nil {
		return nil, err
	}

	var groups []entities.ActionGroup
	for _, category := range out.Categories {
		if category.ID == "" || len(category.Skills) == 0 {
			continue
		}
		group := entities.ActionGroup{ID: category.ID, Name: category.Label}
		if group.Name == "" {
			label, err := o.catalog.CategoryLabel(ctx, &catalog.LabelInput{Actor: actor, CategoryID: category.ID})
			if err != nil {
				return nil, err
			}
			group.Name, group.NameKey = labelOrKey(label, category.ID)
		}

		for _, skill := range category.Skills {
			action := entities.Action{
				ID:           skill,
				Name:         category.SkillLabels[skill],
				EncodedValue: entities.EncodeAction(entities.ActionSkill, skill),
			}
			if action.Name == "" {
				label, err := o.catalog.SkillLabel(ctx, &catalog.LabelInput{Actor: actor, CategoryID: category.ID, SkillID: skill})
				if err != nil {
					return nil, err
				}
				action.Name, action.NameKey = labelOrKey(label, skill)
			}
			if v := catalog.SkillValue(actor, category.ID, skill); v != "" {
				action.Name += ": " + v
				action.Info = v
			}
			action.ListName = listName("Skills", action.Name)
			group.Actions = append(group.Actions, action)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// labelOrKey returns the resolved label, or the humanized id with the first
// translation key to try
func labelOrKey(out *catalog.LabelOutput, id string) (string, string) {
	if out.Label != "" {
		return out.Label, ""
	}
	key := ""
	if len(out.Keys) > 0 {
		key = out.Keys[0]
	}
	return ident.Humanize(id), key
}

// multiTokenGroups builds the utility group and the rings shared by every
// selected actor. A ring shows its values only when every actor has one.
func (o *orchestrator) multiTokenGroups(ctx context.Context, actors []*entities.Actor) ([]entities.ActionGroup, error) {
	utility := entities.ActionGroup{ID: GroupUtility, Name: "Utility", NameKey: UtilityKey}
	utility.Actions = []entities.Action{{
		ID:           "endTurn",
		Name:         "End Turn",
		NameKey:      EndTurnKey,
		EncodedValue: entities.EncodeAction(entities.ActionUtility, "endTurn"),
		ListName:     listName(utility.Name, "End Turn"),
	}}
	groups := []entities.ActionGroup{utility}

	out, err := o.catalog.Rings(ctx, &catalog.RingsInput{Actor: actors[0]})
	if err != nil {
		return nil, err
	}

	stances := map[string]bool{}
	for _, actor := range actors {
		if s, ok := actor.Get("stance").Text(); ok {
			stances[s] = true
		}
	}

	rings := entities.ActionGroup{ID: GroupRings, Name: "Rings", NameKey: RingsTitleKey}
	for _, ring := range out.Rings {
		if ring.ID == "" {
			continue
		}
		label := ringLabel(ring.CanonicalEntry)
		var values []string
		for _, actor := range actors {
			if v := catalog.RingValue(actor, ring.ID); v != "" {
				values = append(values, v)
			}
		}

		action := entities.Action{
			ID:           ring.ID,
			Name:         label,
			NameKey:      ringKey(ring.CanonicalEntry),
			EncodedValue: entities.EncodeAction(entities.ActionRing, ring.ID),
			ListName:     label,
		}
		if len(values) == len(actors) {
			action.Info = strings.Join(unique(values), "/")
			action.Name = label + ": " + action.Info
		} else if ring.Value != "" {
			action.Name = label + ": " + ring.Value
		}
		if len(values) > 0 {
			action.ListName = label + ": " + strings.Join(values, "/")
		}
		if len(stances) == 1 && stances[ring.ID] {
			action.Toggle = true
			action.Active = true
		}
		rings.Actions = append(rings.Actions, action)
	}
	return appendGroup(groups, rings), nil
}

func unique(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func listName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + ": " + name
}
