package bracket

type PlayerKind string

const (
	KindHuman PlayerKind = "human"
	KindAI    PlayerKind = "ai"
)

type AITier string

const (
	TierEasy   AITier = "easy"
	TierMedium AITier = "medium"
	TierHard   AITier = "hard"
)

// Strength maps a tier to the weight used by the match simulation.
func (t AITier) Strength() int {
	switch t {
	case TierEasy:
		return 3
	case TierMedium:
		return 5
	case TierHard:
		return 7
	default:
		return 4
	}
}

// Player ids are assigned per tournament; id 0 is reserved for the
// "to be decided" placeholder occupying unresolved bracket slots.
type Player struct {
	ID          int        `db:"player_id" json:"id"`
	DisplayName string     `db:"display_name" json:"displayName"`
	Alias       string     `db:"alias" json:"alias"`
	Kind        PlayerKind `db:"kind" json:"kind"`
	Tier        AITier     `db:"tier" json:"aiTier,omitempty"`
	Active      bool       `db:"active" json:"active"`
}

// TBD returns the placeholder player for a not-yet-decided slot.
func TBD() Player {
	return Player{ID: 0, DisplayName: "TBD", Alias: "TBD"}
}

func (p Player) IsTBD() bool {
	return p.ID == 0
}

func (p Player) IsHuman() bool {
	return p.Kind == KindHuman
}
