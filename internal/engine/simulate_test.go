package engine

import (
	"testing"

	"github.com/AdamBeresnev/pong-tournament-app/internal/bracket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordCurrent decides the current human match in favor of the given
// player id and returns the updated snapshot.
func recordCurrent(t *testing.T, e *Engine, id uuid.UUID, winnerID int) *bracket.Tournament {
	t.Helper()
	tournament, err := e.Get(id)
	require.NoError(t, err)
	current := tournament.CurrentMatch()
	require.NotNil(t, current, "expected a scheduled human match")
	updated, err := e.RecordResult(id, current.ID, winnerID, 11, 7)
	require.NoError(t, err)
	return updated
}

func TestRecordResultAdvancesWinner(t *testing.T) {
	e := newTestEngine(42)
	tournament, err := e.CreateTournament(uuid.New(), humanEntries(2))
	require.NoError(t, err)

	current := tournament.CurrentMatch()
	require.NotNil(t, current)
	require.Equal(t, 1, current.Round)

	winner := current.Player1
	updated, err := e.RecordResult(tournament.ID, current.ID, winner.ID, 11, 7)
	require.NoError(t, err)

	decided := updated.MatchByID(current.ID)
	require.NotNil(t, decided)
	assert.Equal(t, bracket.MatchCompleted, decided.Status)
	require.NotNil(t, decided.Winner)
	assert.Equal(t, winner.ID, decided.Winner.ID)
	assert.Equal(t, 11, *decided.Score1)
	assert.Equal(t, 7, *decided.Score2)

	parent := updated.MatchAt(current.Round+1, current.Position/2)
	require.NotNil(t, parent)
	if current.Position%2 == 0 {
		assert.Equal(t, winner.ID, parent.Player1.ID)
	} else {
		assert.Equal(t, winner.ID, parent.Player2.ID)
	}
}

func TestRecordResultErrors(t *testing.T) {
	e := newTestEngine(42)
	tournament, err := e.CreateTournament(uuid.New(), humanEntries(2))
	require.NoError(t, err)

	_, err = e.RecordResult(uuid.New(), 1, 1, 11, 7)
	assert.ErrorIs(t, err, bracket.ErrNoActiveTournament)

	_, err = e.RecordResult(tournament.ID, 99, 1, 11, 7)
	assert.ErrorIs(t, err, bracket.ErrMatchNotFound)

	// The final still holds TBD placeholders, so it is not a human
	// match and cannot be recorded.
	final := tournament.FinalMatch()
	require.NotNil(t, final)
	_, err = e.RecordResult(tournament.ID, final.ID, 1, 11, 7)
	assert.ErrorIs(t, err, bracket.ErrCannotRecordAIMatch)

	current := tournament.CurrentMatch()
	require.NotNil(t, current)
	_, err = e.RecordResult(tournament.ID, current.ID, 99, 11, 7)
	assert.ErrorIs(t, err, bracket.ErrWinnerNotInMatch)

	// A simulated AI match is already decided.
	var simulated *bracket.Match
	for i := range tournament.Matches {
		if tournament.Matches[i].Status == bracket.MatchSimulated {
			simulated = &tournament.Matches[i]
			break
		}
	}
	require.NotNil(t, simulated)
	_, err = e.RecordResult(tournament.ID, simulated.ID, simulated.Player1.ID, 11, 7)
	assert.ErrorIs(t, err, bracket.ErrMatchNotFound)
}

func TestCascadeFixedPoint(t *testing.T) {
	e := newTestEngine(8)
	tournament, err := e.CreateTournament(uuid.New(), humanEntries(1))
	require.NoError(t, err)

	assertNoPendingAIMatch := func(tn *bracket.Tournament) {
		t.Helper()
		for i := range tn.Matches {
			m := &tn.Matches[i]
			assert.False(t, m.Status == bracket.MatchScheduled && m.AIOnly(),
				"match %d left unsimulated", m.ID)
		}
	}

	assertNoPendingAIMatch(tournament)
	for tournament.Status != bracket.TournamentCompleted {
		tournament = recordCurrent(t, e, tournament.ID, 1)
		assertNoPendingAIMatch(tournament)
	}
}

func TestBracketCompletion(t *testing.T) {
	e := newTestEngine(21)
	tournament, err := e.CreateTournament(uuid.New(), humanEntries(1))
	require.NoError(t, err)

	// The lone human has id 1; keep winning until the bracket closes.
	rounds := 0
	for tournament.Status != bracket.TournamentCompleted {
		tournament = recordCurrent(t, e, tournament.ID, 1)
		rounds++
		require.LessOrEqual(t, rounds, tournament.Rounds, "bracket should close within the round count")
	}

	require.NotNil(t, tournament.Winner)
	assert.Equal(t, 1, tournament.Winner.ID)
	assert.Nil(t, tournament.CurrentMatchID)

	for _, m := range tournament.Matches {
		assert.True(t, m.Status.Decided())
	}

	// Terminal state is idempotent: nothing is recordable anymore.
	final := tournament.FinalMatch()
	_, err = e.RecordResult(tournament.ID, final.ID, 1, 11, 7)
	assert.ErrorIs(t, err, bracket.ErrMatchNotFound)

	stats, err := e.Stats(tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, stats.TotalMatches, stats.CompletedMatches)
	assert.Equal(t, bracket.TournamentCompleted, stats.Status)
}

func TestSimulateAIMatchScores(t *testing.T) {
	testCases := []struct {
		name     string
		tier1    bracket.AITier
		tier2    bracket.AITier
		loserMin int
		loserMax int
	}{
		{name: "lopsided easy vs hard", tier1: bracket.TierEasy, tier2: bracket.TierHard, loserMin: 2, loserMax: 7},
		{name: "close medium vs medium", tier1: bracket.TierMedium, tier2: bracket.TierMedium, loserMin: 7, loserMax: 10},
		{name: "close medium vs hard", tier1: bracket.TierMedium, tier2: bracket.TierHard, loserMin: 7, loserMax: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(77)
			for i := 0; i < 200; i++ {
				m := &bracket.Match{
					ID:      1,
					Round:   1,
					Player1: bracket.Player{ID: 1, Kind: bracket.KindAI, Tier: tc.tier1},
					Player2: bracket.Player{ID: 2, Kind: bracket.KindAI, Tier: tc.tier2},
					Status:  bracket.MatchScheduled,
				}
				require.NoError(t, e.simulateAIMatch(m))
				require.NotNil(t, m.Winner)
				assert.Equal(t, bracket.MatchSimulated, m.Status)

				winnerScore, loserScore := *m.Score1, *m.Score2
				if m.Winner.ID == 2 {
					winnerScore, loserScore = loserScore, winnerScore
				}
				assert.Equal(t, winningScore, winnerScore)
				assert.GreaterOrEqual(t, loserScore, tc.loserMin)
				assert.LessOrEqual(t, loserScore, tc.loserMax)
			}
		})
	}
}

func TestSimulateAIMatchRejectsHumans(t *testing.T) {
	e := newTestEngine(1)
	m := &bracket.Match{
		Player1: bracket.Player{ID: 1, Kind: bracket.KindHuman},
		Player2: bracket.Player{ID: 2, Kind: bracket.KindAI, Tier: bracket.TierEasy},
		Status:  bracket.MatchScheduled,
	}
	assert.ErrorIs(t, e.simulateAIMatch(m), bracket.ErrCannotSimulateHumanMatch)
	assert.Nil(t, m.Winner)
	assert.Equal(t, bracket.MatchScheduled, m.Status)
}

func TestHalfFilledParentStaysNonHuman(t *testing.T) {
	// Documented product decision: a parent match only becomes a human
	// match once both slots are resolved, even if a human winner is
	// already placed in one of them.
	e := newTestEngine(42)
	tournament, err := e.CreateTournament(uuid.New(), humanEntries(2))
	require.NoError(t, err)

	current := tournament.CurrentMatch()
	require.NotNil(t, current)
	humanWinner := current.Player1
	if !humanWinner.IsHuman() {
		humanWinner = current.Player2
	}

	updated, err := e.RecordResult(tournament.ID, current.ID, humanWinner.ID, 11, 5)
	require.NoError(t, err)

	for i := range updated.Matches {
		m := &updated.Matches[i]
		if !m.Resolved() {
			assert.False(t, m.HumanMatch, "match %d has a TBD slot and must not be human yet", m.ID)
		}
	}
}
