package catalog

import (
	"context"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/errors"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

var labelFields = []string{"label", "name", "title"}

func (s *service) CategoryLabel(ctx context.Context, input *LabelInput) (*LabelOutput, error) {
	if input == nil || input.CategoryID == "" {
		return nil, errors.InvalidArgument("category id is required")
	}
	cat := input.CategoryID

	if helpers, ok := s.runtime.Helpers(); ok {
		args := []host.Arg{host.ValueArg(value.String(cat))}
		if input.Actor != nil {
			args = append(args, host.ObjectArg(s.runtime.Actor(input.Actor)))
		}
		for _, method := range []string{"getSkillCategoryLabel", "getNpcSkillCategoryLabel"} {
			if got, ok := s.callHelper(ctx, helpers, method, [][]host.Arg{args}); ok && got.Kind() == value.KindString {
				return &LabelOutput{Label: got.Display()}, nil
			}
		}
	}

	for _, category := range []value.Value{
		lookup(s.world.Config("npc.skills"), cat),
		lookup(s.world.Config("skills"), cat),
	} {
		if label := configLabel(category); label != "" {
			return &LabelOutput{Label: label}, nil
		}
	}

	return &LabelOutput{Keys: CategoryLabelKeys(cat)}, nil
}

func (s *service) SkillLabel(ctx context.Context, input *LabelInput) (*LabelOutput, error) {
	if input == nil || input.SkillID == "" {
		return nil, errors.InvalidArgument("skill id is required")
	}
	cat, skill := input.CategoryID, input.SkillID

	if helpers, ok := s.runtime.Helpers(); ok {
		candidates := []struct {
			method string
			args   []value.Value
		}{
			{"getNpcSkillLabel", []value.Value{value.String(cat), value.String(skill)}},
			{"getNpcSkillLabel", []value.Value{value.String(skill)}},
			{"getSkillLabel", []value.Value{value.String(cat), value.String(skill)}},
			{"getSkillLabel", []value.Value{value.String(skill)}},
			{"getSkillName", []value.Value{value.String(skill)}},
			{"getSkillNameFromId", []value.Value{value.String(skill)}},
		}
		for _, c := range candidates {
			if got, ok := s.callHelper(ctx, helpers, c.method, [][]host.Arg{host.Values(c.args...)}); ok && got.Kind() == value.KindString {
				return &LabelOutput{Label: got.Display()}, nil
			}
		}
	}

	for _, entry := range []value.Value{
		lookup(lookup(s.world.Config("npc.skills"), cat), skill),
		lookup(lookup(s.world.Config("skills"), cat), skill),
		lookup(s.world.Config("skills"), skill),
	} {
		if label := configLabel(entry); label != "" {
			return &LabelOutput{Label: label}, nil
		}
	}

	return &LabelOutput{Keys: SkillLabelKeys(cat, skill)}, nil
}

// CategoryLabelKeys lists translation keys for a category in priority
// order. The raw id comes last.
func CategoryLabelKeys(categoryID string) []string {
	return []string{
		"l5r5e.npc.skills." + categoryID + ".title",
		"l5r5e.skills." + categoryID + ".title",
		"l5r5e.skills." + categoryID,
		categoryID,
	}
}

// SkillLabelKeys lists translation keys for a skill in priority order. The
// raw id comes last.
func SkillLabelKeys(categoryID, skillID string) []string {
	return []string{
		"l5r5e.npc.skills." + categoryID + "." + skillID,
		"l5r5e.skills." + categoryID + "." + skillID,
		"l5r5e.skills." + skillID,
		"l5r5e.skill." + skillID,
		skillID,
	}
}

func configLabel(v value.Value) string {
	for _, name := range labelFields {
		if s, ok := v.Field(name).Text(); ok && s != "" {
			return s
		}
	}
	return ""
}
