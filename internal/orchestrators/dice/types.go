package dice

// Die names the two L5R die kinds
type Die string

// Die kinds
const (
	DieRing  Die = "ring"
	DieSkill Die = "skill"
)

// Face is the symbol set printed on one die face
type Face struct {
	Die         Die  `json:"die"`
	Side        int  `json:"side"`
	Success     bool `json:"success,omitempty"`
	Opportunity bool `json:"opportunity,omitempty"`
	Strife      bool `json:"strife,omitempty"`
	Explosive   bool `json:"explosive,omitempty"`
}

// RollPoolInput defines the request for rolling a ring and skill pool
type RollPoolInput struct {
	ActorID string
	// RingDice is the ring value; at least one ring die is always rolled
	RingDice int
	// SkillDice is the skill rank; zero means an unskilled roll
	SkillDice int
	// Description is a human readable label, e.g. "fitness (water)"
	Description string
}

// PoolRoll is one rolled pool
type PoolRoll struct {
	RollID      string `json:"roll_id"`
	ActorID     string `json:"actor_id,omitempty"`
	Description string `json:"description,omitempty"`
	Ring        []Face `json:"ring"`
	Skill       []Face `json:"skill"`

	Successes     int `json:"successes"`
	Opportunities int `json:"opportunities"`
	Strife        int `json:"strife"`
	Explosions    int `json:"explosions"`
}

// RollPoolOutput defines the response for rolling a pool
type RollPoolOutput struct {
	Roll *PoolRoll
}
