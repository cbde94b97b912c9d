package bracket

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchSimulated  MatchStatus = "simulated"
)

// Decided reports whether the match has a final result. A match is
// decided exactly once and never reverts.
func (s MatchStatus) Decided() bool {
	return s == MatchCompleted || s == MatchSimulated
}

type Match struct {
	ID       int `db:"match_id" json:"id"`
	Round    int `db:"round" json:"round"`
	Position int `db:"position" json:"position"`

	Player1 Player `json:"player1"`
	Player2 Player `json:"player2"`

	Winner *Player `json:"winner,omitempty"`

	Status MatchStatus `db:"status" json:"status"`

	Score1 *int `db:"score_1" json:"score1,omitempty"`
	Score2 *int `db:"score_2" json:"score2,omitempty"`

	// HumanMatch is true only when at least one slot holds a human and
	// neither slot is the TBD placeholder.
	HumanMatch bool `db:"human_match" json:"isHumanMatch"`
}

// RecomputeHumanMatch refreshes HumanMatch from the current slots.
func (m *Match) RecomputeHumanMatch() {
	m.HumanMatch = (m.Player1.IsHuman() || m.Player2.IsHuman()) &&
		!m.Player1.IsTBD() && !m.Player2.IsTBD()
}

// Resolved reports whether both slots hold real players.
func (m *Match) Resolved() bool {
	return !m.Player1.IsTBD() && !m.Player2.IsTBD()
}

// AIOnly reports whether the match can be decided by simulation alone.
func (m *Match) AIOnly() bool {
	return m.Resolved() && !m.Player1.IsHuman() && !m.Player2.IsHuman()
}

// ParentPosition is the position of the match in the next round that
// receives this match's winner.
func (m *Match) ParentPosition() int {
	return m.Position / 2
}
