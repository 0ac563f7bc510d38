package entities

import "strings"

// ActionType is the first half of an encoded action value
type ActionType string

// Action types encoded into palette buttons
const (
	ActionRing      ActionType = "ring"
	ActionSkill     ActionType = "skill"
	ActionWeapons   ActionType = "weapons"
	ActionTechnique ActionType = "technique"
	ActionArmor     ActionType = "armor"
	ActionEquipment ActionType = "equipment"
	ActionItem      ActionType = "item"
	ActionUtility   ActionType = "utility"
	ActionDerived   ActionType = "derived"
	ActionStanding  ActionType = "standing"
)

// EncodedDelimiter separates the action type from the action id
const EncodedDelimiter = "|"

// Action is one clickable palette entry
type Action struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	NameKey      string `json:"name_key,omitempty"`
	EncodedValue string `json:"encoded_value"`
	ListName     string `json:"list_name,omitempty"`
	Info         string `json:"info,omitempty"`
	Active       bool   `json:"active,omitempty"`
	Toggle       bool   `json:"toggle,omitempty"`
}

// ActionGroup is a titled set of actions
type ActionGroup struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	NameKey string   `json:"name_key,omitempty"`
	Actions []Action `json:"actions"`
}

// EncodeAction builds the type|id value carried by a button
func EncodeAction(actionType ActionType, id string) string {
	return string(actionType) + EncodedDelimiter + id
}

// DecodeAction splits a type|id value. The id may itself contain the
// delimiter. ok is false when either half is empty.
func DecodeAction(encoded string) (ActionType, string, bool) {
	kind, id, found := strings.Cut(encoded, EncodedDelimiter)
	if !found || kind == "" || id == "" {
		return "", "", false
	}
	return ActionType(kind), id, true
}
