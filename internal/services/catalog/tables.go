package catalog

import (
	"github.com/KirkDiggler/rpg-palette/internal/entities"
)

// Translation prefixes
const (
	PrefixTechniques = "l5r5e.techniques"
	PrefixRings      = "l5r5e.rings"
	PrefixAttributes = "l5r5e.attributes"
	PrefixSocial     = "l5r5e.social"
)

var techniqueQuery = struct {
	methods     []string
	configPaths []string
}{
	methods:     []string{"getTechniqueTypesList", "getTechniqueTypes", "getTechniquesTypesList", "getTechniquesList"},
	configPaths: []string{"techniqueTypes", "technique_types", "techniques.types", "techniques.categories", "techniques.type"},
}

var inventoryQuery = struct {
	methods     []string
	configPaths []string
}{
	methods:     []string{"getInventoryGroupIds", "getInventoryCategoriesList", "getInventorySections"},
	configPaths: []string{"inventory.groups", "inventory.categories", "inventoryCategories", "itemGroups.inventory", "items.inventory"},
}

var ringQuery = struct {
	methods     []string
	configPaths []string
	actorPath   string
}{
	methods:     []string{"getRingsList", "getRings", "getElementsList"},
	configPaths: []string{"rings", "ringsList", "elements"},
	actorPath:   "rings",
}

// attributeTable lists where one attribute kind may live
type attributeTable struct {
	methods     []string
	configPaths []string
	actorPaths  []string
	// valuePaths are extra actor sections searched for attribute values
	valuePaths []string
	prefix     string
}

var attributeTables = map[entities.AttributeKind]attributeTable{
	entities.AttributeDerived: {
		methods:     []string{"getDerivedAttributesList", "getDerivedList", "getDerivedAttributes"},
		configPaths: []string{"derivedAttributes", "derived", "attributes.derived"},
		actorPaths:  []string{"derived", "attributes.derived"},
		valuePaths:  []string{"derived", "derivedAttributes", "attributes.derived", "attributes.derivedAttributes"},
		prefix:      PrefixAttributes,
	},
	entities.AttributeStanding: {
		methods:     []string{"getStandingAttributesList", "getStandingList", "getSocialAttributesList", "getSocialAttributes"},
		configPaths: []string{"standingAttributes", "standing", "social", "attributes.social"},
		actorPaths:  []string{"standing", "social", "attributes.standing", "attributes.social"},
		valuePaths:  []string{"standing", "social", "attributes.standing", "attributes.social"},
		prefix:      PrefixSocial,
	},
}

// skillTable lists where skill categories may live for one actor type
type skillTable struct {
	methods    []string
	actorPaths []string
}

var (
	npcSkills = skillTable{
		methods: []string{
			"getNpcSkillCategoriesList",
			"getNpcSkillCategories",
			"getNpcSkillsCategoriesList",
			"getNpcSkillsCategories",
			"getNpcSkillsList",
			"getNpcSkills",
			"getNpcSkillGroupsList",
			"getNpcSkillGroups",
		},
		actorPaths: []string{
			"npc.skills",
			"npcSkills",
			"skills",
			"npc.skillCategories",
			"npc.skill_categories",
			"npc.skillGroups",
			"npc.skill_groups",
		},
	}
	characterSkills = skillTable{
		methods: []string{
			"getCategoriesSkillsList",
			"getSkillCategoriesList",
			"getSkillsCategoriesList",
			"getSkillsList",
			"getSkillCategories",
		},
		actorPaths: []string{
			"skills",
			"skillCategories",
			"skill_categories",
			"skillGroups",
			"skill_groups",
		},
	}
)

// skillValueSources are actor sections keyed category then skill
var skillValueSources = []string{
	"skills",
	"npcSkills",
	"npc.skills",
	"npc.skillCategories",
	"npc.skill_categories",
	"npc.skillGroups",
	"npc.skill_groups",
	"skillRanks",
	"skillGroups",
	"skill_groups",
}

// FallbackTechniqueTypes is used when neither helpers nor config list any
var FallbackTechniqueTypes = []entities.CanonicalEntry{
	{ID: "kata", ActorKey: "kata", TranslationKey: "l5r5e.techniques.kata"},
	{ID: "kiho", ActorKey: "kiho", TranslationKey: "l5r5e.techniques.kiho"},
	{ID: "inversion", ActorKey: "inversion", TranslationKey: "l5r5e.techniques.inversion"},
	{ID: "invocation", ActorKey: "invocation", TranslationKey: "l5r5e.techniques.invocation"},
	{ID: "ritual", ActorKey: "ritual", TranslationKey: "l5r5e.techniques.ritual"},
	{ID: "shuji", ActorKey: "shuji", TranslationKey: "l5r5e.techniques.shuji"},
	{ID: "maho", ActorKey: "maho", TranslationKey: "l5r5e.techniques.maho"},
	{ID: "ninjutsu", ActorKey: "ninjutsu", TranslationKey: "l5r5e.techniques.ninjutsu"},
	{ID: "mantra", ActorKey: "mantra", TranslationKey: "l5r5e.techniques.mantra"},
	{ID: "school-ability", ActorKey: "school_ability", TranslationKey: "l5r5e.techniques.school_ability"},
	{ID: "mastery-ability", ActorKey: "mastery_ability", TranslationKey: "l5r5e.techniques.mastery_ability"},
	{ID: "title-ability", ActorKey: "title_ability", TranslationKey: "l5r5e.techniques.title_ability"},
}

// FallbackInventoryGroups is used when neither helpers nor config list any
var FallbackInventoryGroups = []entities.CanonicalEntry{
	{ID: "armor", ActorKey: "armor", TranslationKey: "l5r5e.armors.title"},
	{ID: "equipment", ActorKey: "equipment", TranslationKey: "l5r5e.items.title"},
	{ID: "weapons", ActorKey: "weapons", TranslationKey: "l5r5e.weapons.title"},
}

// FallbackRings is used when no source lists rings
var FallbackRings = []entities.CanonicalEntry{
	{ID: "air", ActorKey: "air", TranslationKey: "l5r5e.rings.air"},
	{ID: "earth", ActorKey: "earth", TranslationKey: "l5r5e.rings.earth"},
	{ID: "fire", ActorKey: "fire", TranslationKey: "l5r5e.rings.fire"},
	{ID: "water", ActorKey: "water", TranslationKey: "l5r5e.rings.water"},
	{ID: "void", ActorKey: "void", TranslationKey: "l5r5e.rings.void"},
}
