package engine

import (
	"github.com/AdamBeresnev/pong-tournament-app/internal/bracket"
	"github.com/google/uuid"
)

type Stats struct {
	TotalMatches          int                      `json:"totalMatches"`
	CompletedMatches      int                      `json:"completedMatches"`
	HumanMatches          int                      `json:"humanMatches"`
	CompletedHumanMatches int                      `json:"completedHumanMatches"`
	CurrentRound          int                      `json:"currentRound"`
	Status                bracket.TournamentStatus `json:"status"`
}

// Stats aggregates match counts for the host's stats endpoint.
func (e *Engine) Stats(tournamentID uuid.UUID) (*Stats, error) {
	tr, err := e.lookup(tournamentID)
	if err != nil {
		return nil, err
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return StatsFor(tr.t), nil
}

// StatsFor computes the aggregate counts for any tournament snapshot,
// live or rehydrated from the store.
func StatsFor(t *bracket.Tournament) *Stats {
	st := &Stats{
		TotalMatches: len(t.Matches),
		Status:       t.Status,
		CurrentRound: t.Rounds,
	}
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.Status.Decided() {
			st.CompletedMatches++
		}
		if m.HumanMatch {
			st.HumanMatches++
			if m.Status.Decided() {
				st.CompletedHumanMatches++
			}
		}
	}
	if current := t.CurrentMatch(); current != nil {
		st.CurrentRound = current.Round
	}
	return st
}
