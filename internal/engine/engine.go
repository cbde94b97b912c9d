package engine

import (
	"math/rand"
	"sync"
	"time"

	"github.com/AdamBeresnev/pong-tournament-app/internal/bracket"
	"github.com/AdamBeresnev/pong-tournament-app/internal/utils"
	"github.com/google/uuid"
)

// Engine owns every live tournament, keyed by id. Calls for different
// tournaments never block each other; calls for the same tournament
// are serialized on a per-tournament mutex so advancement and the
// simulation cascade never run concurrently on one bracket.
type Engine struct {
	mu       sync.RWMutex
	brackets map[uuid.UUID]*tracked

	rngMu sync.Mutex
	rng   *rand.Rand
}

type tracked struct {
	mu sync.Mutex
	t  *bracket.Tournament
}

// New returns an engine drawing randomness from rng. Tests pass a
// seeded source; main passes one seeded from the clock.
func New(rng *rand.Rand) *Engine {
	return &Engine{
		brackets: make(map[uuid.UUID]*tracked),
		rng:      rng,
	}
}

type HumanEntry struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

// CreateTournament seeds a full 8-slot bracket from the given human
// entries, fills the remaining slots with AI players, pre-allocates
// all three rounds and simulates every AI-only match reachable before
// the first human decision. The returned tournament is a snapshot.
func (e *Engine) CreateTournament(ownerID uuid.UUID, entries []HumanEntry) (*bracket.Tournament, error) {
	if len(entries) < 1 || len(entries) > bracket.Size {
		return nil, bracket.ErrInvalidPlayerCount
	}

	t := &bracket.Tournament{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Status:    bracket.TournamentSetup,
		CreatedAt: time.Now().UTC(),
	}

	e.seed(t, entries)
	e.generateMatches(t)

	t.Status = bracket.TournamentInProgress
	e.cascade(t)
	recomputeCurrent(t)
	checkCompletion(t)

	tr := &tracked{t: t}
	e.mu.Lock()
	e.brackets[t.ID] = tr
	e.mu.Unlock()

	return snapshot(t), nil
}

// RecordResult applies a human match result, advances the winner into
// the next round and simulates every AI-only match that becomes
// reachable. Preconditions are validated before any mutation.
func (e *Engine) RecordResult(tournamentID uuid.UUID, matchID, winnerID, score1, score2 int) (*bracket.Tournament, error) {
	tr, err := e.lookup(tournamentID)
	if err != nil {
		return nil, err
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()
	t := tr.t

	m := t.MatchByID(matchID)
	if m == nil || m.Status.Decided() {
		// Decided matches are no longer addressable, which also makes
		// a completed bracket terminal.
		return nil, bracket.ErrMatchNotFound
	}
	if !m.HumanMatch {
		return nil, bracket.ErrCannotRecordAIMatch
	}

	var winner bracket.Player
	switch winnerID {
	case m.Player1.ID:
		winner = m.Player1
	case m.Player2.ID:
		winner = m.Player2
	default:
		return nil, bracket.ErrWinnerNotInMatch
	}

	m.Winner = &winner
	m.Status = bracket.MatchCompleted
	m.Score1 = utils.Ptr(score1)
	m.Score2 = utils.Ptr(score2)

	advance(t, m)
	e.cascade(t)
	recomputeCurrent(t)
	checkCompletion(t)

	return snapshot(t), nil
}

// Get returns a snapshot of the tournament.
func (e *Engine) Get(tournamentID uuid.UUID) (*bracket.Tournament, error) {
	tr, err := e.lookup(tournamentID)
	if err != nil {
		return nil, err
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return snapshot(tr.t), nil
}

// Restore re-registers a persisted tournament, replacing any prior
// state held under the same id. Used to rehydrate in-progress
// brackets at startup.
func (e *Engine) Restore(t *bracket.Tournament) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brackets[t.ID] = &tracked{t: snapshot(t)}
}

func (e *Engine) lookup(id uuid.UUID) (*tracked, error) {
	e.mu.RLock()
	tr, ok := e.brackets[id]
	e.mu.RUnlock()
	if !ok {
		return nil, bracket.ErrNoActiveTournament
	}
	return tr, nil
}

// snapshot deep-copies a tournament so callers never hold references
// into engine-owned state.
func snapshot(t *bracket.Tournament) *bracket.Tournament {
	out := *t
	out.Players = append([]bracket.Player(nil), t.Players...)
	out.Matches = append([]bracket.Match(nil), t.Matches...)
	for i := range out.Matches {
		m := &out.Matches[i]
		if m.Winner != nil {
			m.Winner = utils.Ptr(*m.Winner)
		}
		if m.Score1 != nil {
			m.Score1 = utils.Ptr(*m.Score1)
		}
		if m.Score2 != nil {
			m.Score2 = utils.Ptr(*m.Score2)
		}
	}
	if t.Winner != nil {
		out.Winner = utils.Ptr(*t.Winner)
	}
	if t.CurrentMatchID != nil {
		out.CurrentMatchID = utils.Ptr(*t.CurrentMatchID)
	}
	return &out
}

func (e *Engine) randFloat() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}

func (e *Engine) randIntn(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

func (e *Engine) shuffle(n int, swap func(i, j int)) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	e.rng.Shuffle(n, swap)
}
