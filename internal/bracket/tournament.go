package bracket

import (
	"time"

	"github.com/google/uuid"
)

// Size is the fixed bracket size. Humans fill 1..Size slots, AI
// players fill the remainder.
const Size = 8

type TournamentStatus string

const (
	TournamentSetup      TournamentStatus = "setup"
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentCompleted  TournamentStatus = "completed"
)

type Tournament struct {
	ID      uuid.UUID `db:"id" json:"id"`
	OwnerID uuid.UUID `db:"owner_id" json:"-"`

	// Players in seeded slot order, exactly Size entries.
	Players []Player `json:"players"`

	// All matches across every round, pre-allocated at creation.
	// Later rounds hold the TBD placeholder until earlier rounds
	// resolve. Indexed lookups go through MatchAt.
	Matches []Match `json:"matches"`

	Rounds int `db:"rounds" json:"rounds"`

	// CurrentMatchID points at the next scheduled match requiring a
	// human decision, nil when none remains.
	CurrentMatchID *int `db:"current_match_id" json:"currentMatchId,omitempty"`

	Status TournamentStatus `db:"status" json:"status"`
	Winner *Player          `json:"winner,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// MatchAt looks a match up by its (round, position) coordinates.
// Callers re-fetch through this instead of holding match pointers
// across mutations.
func (t *Tournament) MatchAt(round, position int) *Match {
	for i := range t.Matches {
		if t.Matches[i].Round == round && t.Matches[i].Position == position {
			return &t.Matches[i]
		}
	}
	return nil
}

// MatchByID looks a match up by its id.
func (t *Tournament) MatchByID(id int) *Match {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return &t.Matches[i]
		}
	}
	return nil
}

// PlayerByID looks a seeded player up by id. The TBD placeholder is
// not addressable this way.
func (t *Tournament) PlayerByID(id int) *Player {
	if id == 0 {
		return nil
	}
	for i := range t.Players {
		if t.Players[i].ID == id {
			return &t.Players[i]
		}
	}
	return nil
}

// CurrentMatch resolves CurrentMatchID, nil when the bracket has no
// scheduled human match left.
func (t *Tournament) CurrentMatch() *Match {
	if t.CurrentMatchID == nil {
		return nil
	}
	return t.MatchByID(*t.CurrentMatchID)
}

// FinalMatch is the single match of the last round.
func (t *Tournament) FinalMatch() *Match {
	return t.MatchAt(t.Rounds, 0)
}
