package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/entities"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

var (
	categoryIDFields    = []string{"id", "key", "category", "type"}
	categoryLabelFields = []string{"label", "name", "title", "categoryLabel", "categoryName"}
	categorySkillFields = []string{
		"skills", "skillIds", "skill_ids", "skillList", "skill_list", "skillGroups", "skill_groups",
		"values", "entries", "list", "items", "data", "set", "group",
	}

	skillIDFields     = []string{"id", "key", "skill", "slug", "value", "default", "primary"}
	skillLabelFields  = []string{"label", "name", "title", "displayName"}
	elementNestFields = []string{"skills", "skill", "values", "entries", "list", "items"}
	recordNestFields  = []string{
		"skill", "skills", "ids", "id", "keys", "key", "values", "value",
		"default", "primary", "entries", "list", "items", "options", "choices",
	}
)

// reservedKeys are record keys that never name a skill
var reservedKeys = func() map[string]bool {
	out := map[string]bool{}
	for _, group := range [][]string{skillIDFields, skillLabelFields, recordNestFields, categoryLabelFields, categoryIDFields} {
		for _, k := range group {
			out[k] = true
		}
	}
	return out
}()

func (s *service) SkillCategories(ctx context.Context, input *SkillCategoriesInput) (*SkillCategoriesOutput, error) {
	if input == nil || input.Actor == nil {
		return nil, errors.InvalidArgument("actor is required")
	}
	actor := input.Actor
	npc := actor.Type == entities.ActorTypeNPC
	table := characterSkills
	if npc {
		table = npcSkills
	}

	if helpers, ok := s.runtime.Helpers(); ok {
		actorObj := s.runtime.Actor(actor)
		argSets := [][]host.Arg{
			{host.ObjectArg(actorObj)},
			{host.ObjectArg(actorObj), host.RecordArg(host.F("actor", host.ObjectArg(actorObj)))},
			nil,
		}
		for _, method := range skillMethods(helpers, table, npc) {
			got, ok := s.callHelper(ctx, helpers, method, argSets)
			if !ok {
				continue
			}
			if categories := s.categories(got); len(categories) > 0 {
				return &SkillCategoriesOutput{Categories: categories, Method: method}, nil
			}
		}
	}

	for _, path := range table.actorPaths {
		source := actor.Get(path)
		if !source.Truthy() {
			continue
		}
		if categories := s.categories(source); len(categories) > 0 {
			return &SkillCategoriesOutput{Categories: categories, Path: "system." + path}, nil
		}
	}

	return &SkillCategoriesOutput{}, nil
}

// skillMethods lists the preferred helper names followed by any other
// helper key that looks like a skill list, closest names first
func skillMethods(helpers host.Object, table skillTable, npc bool) []string {
	seen := make(map[string]bool, len(table.methods))
	out := make([]string, 0, len(table.methods))
	for _, m := range table.methods {
		seen[m] = true
		out = append(out, m)
	}

	var dynamic []string
	for _, key := range helpers.Keys() {
		if seen[key] || !looksLikeSkillList(key, npc) {
			continue
		}
		seen[key] = true
		dynamic = append(dynamic, key)
	}

	anchor := strings.ToLower(table.methods[0])
	sort.SliceStable(dynamic, func(i, j int) bool {
		return levenshtein.ComputeDistance(strings.ToLower(dynamic[i]), anchor) <
			levenshtein.ComputeDistance(strings.ToLower(dynamic[j]), anchor)
	})

	return append(out, dynamic...)
}

func looksLikeSkillList(key string, npc bool) bool {
	lowered := strings.ToLower(key)
	if !strings.Contains(lowered, "skill") {
		return false
	}
	if npc != strings.Contains(lowered, "npc") {
		return false
	}
	return strings.Contains(lowered, "list") ||
		strings.Contains(lowered, "categor") ||
		strings.Contains(lowered, "group")
}

// categories normalizes a category source. Categories without an id or
// without skills are dropped and the first category wins for each id.
func (s *service) categories(source value.Value) []entities.SkillCategory {
	var raw []entities.SkillCategory
	add := func(entry value.Value, key string) {
		if c, ok := s.category(entry, key); ok {
			raw = append(raw, c)
		}
	}

	switch source.Kind() {
	case value.KindRecord:
		source.Record().Each(func(key string, entry value.Value) bool {
			add(entry, key)
			return true
		})
	case value.KindSequence:
		for i, entry := range source.Items() {
			add(entry, strconv.Itoa(i))
		}
	default:
		return nil
	}

	seen := make(map[string]bool, len(raw))
	out := make([]entities.SkillCategory, 0, len(raw))
	for _, c := range raw {
		if c.ID == "" || len(c.Skills) == 0 || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

func (s *service) category(entry value.Value, key string) (entities.SkillCategory, bool) {
	var (
		id     = key
		label  string
		source = entry
	)

	switch entry.Kind() {
	case value.KindSequence:
		items := entry.Items()
		if len(items) == 0 {
			return entities.SkillCategory{}, false
		}
		if len(items) >= 2 {
			if items[0].Kind() == value.KindString || items[0].Kind() == value.KindNumber {
				id = items[0].Display()
			}
			if len(items) >= 3 {
				label, _ = items[2].Text()
			}
			source = items[1]
		}

	case value.KindRecord:
		if f, ok := firstIDLike(entry, categoryIDFields); ok {
			id = f.Display()
		}
		if f, _, ok := entry.First(categoryLabelFields...); ok {
			label, _ = f.Text()
		}
		f, _, ok := entry.First(categorySkillFields...)
		if !ok {
			ids, labels := s.collectKeys(entry)
			return entities.SkillCategory{ID: id, Label: label, Skills: ids, SkillLabels: labels}, id != ""
		}
		source = f

	case value.KindString, value.KindNumber:
		if key == "" {
			id = entry.Display()
		}

	default:
		return entities.SkillCategory{}, false
	}

	ids, labels := s.collectSkills(source)
	return entities.SkillCategory{
		ID:          id,
		Label:       label,
		Skills:      ids,
		SkillLabels: labels,
	}, id != ""
}

// skillCollector walks a skill source with bounded depth and node count
type skillCollector struct {
	maxDepth int
	maxNodes int
	nodes    int
	ids      []string
	seen     map[string]bool
	labels   map[string]string
}

func (s *service) collectSkills(source value.Value) ([]string, map[string]string) {
	c := &skillCollector{
		maxDepth: s.maxDepth,
		maxNodes: s.maxNodes,
		seen:     map[string]bool{},
		labels:   map[string]string{},
	}
	c.visit(source, "", 0)
	if len(c.labels) == 0 {
		c.labels = nil
	}
	return c.ids, c.labels
}

// collectKeys treats a category record as a map of skill keys
func (s *service) collectKeys(body value.Value) ([]string, map[string]string) {
	c := &skillCollector{
		maxDepth: s.maxDepth,
		maxNodes: s.maxNodes,
		seen:     map[string]bool{},
		labels:   map[string]string{},
	}
	c.keys(body)
	if len(c.labels) == 0 {
		c.labels = nil
	}
	return c.ids, c.labels
}

func (c *skillCollector) add(id, label string) {
	if id == "" {
		return
	}
	if !c.seen[id] {
		c.seen[id] = true
		c.ids = append(c.ids, id)
	}
	if label != "" {
		if _, exists := c.labels[id]; !exists {
			c.labels[id] = label
		}
	}
}

func (c *skillCollector) enter(depth int) bool {
	if depth > c.maxDepth || c.nodes >= c.maxNodes {
		return false
	}
	c.nodes++
	return true
}

func (c *skillCollector) visit(v value.Value, fallbackID string, depth int) {
	if !c.enter(depth) {
		return
	}

	switch v.Kind() {
	case value.KindString, value.KindNumber:
		c.add(v.Display(), "")

	case value.KindSequence:
		for _, elem := range v.Items() {
			if elem.Kind() != value.KindRecord {
				c.visit(elem, "", depth+1)
				continue
			}
			if !c.enter(depth + 1) {
				return
			}
			id, _ := skillID(elem, fallbackID)
			c.add(id, skillLabel(elem))
			if nested, _, ok := elem.First(elementNestFields...); ok {
				c.visit(nested, "", depth+2)
			}
		}

	case value.KindRecord:
		id, found := skillID(v, fallbackID)
		c.add(id, skillLabel(v))

		nested := false
		for _, name := range recordNestFields {
			f := v.Field(name)
			if f.IsNull() || (found && f.IsScalar()) {
				continue
			}
			nested = true
			c.visit(f, "", depth+1)
		}

		if !found && !nested {
			c.keys(v)
		}
	}
}

// keys adds the non-reserved keys of a plain map of skill keys to ranks or
// leaf records
func (c *skillCollector) keys(v value.Value) {
	if v.Kind() != value.KindRecord {
		return
	}
	v.Record().Each(func(key string, child value.Value) bool {
		if reservedKeys[key] {
			return true
		}
		c.add(key, skillLabel(child))
		c.nodes++
		return c.nodes < c.maxNodes
	})
}

func skillID(v value.Value, fallbackID string) (string, bool) {
	if f, ok := firstIDLike(v, skillIDFields); ok {
		return f.Display(), true
	}
	return fallbackID, fallbackID != ""
}

func skillLabel(v value.Value) string {
	for _, name := range skillLabelFields {
		if s, ok := v.Field(name).Text(); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstIDLike returns the first string or number field among names
func firstIDLike(v value.Value, names []string) (value.Value, bool) {
	for _, name := range names {
		f := v.Field(name)
		if f.Kind() == value.KindString || f.Kind() == value.KindNumber {
			return f, true
		}
	}
	return value.Null(), false
}
