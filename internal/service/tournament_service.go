package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/pong-tournament-app/internal/bracket"
	"github.com/AdamBeresnev/pong-tournament-app/internal/engine"
	"github.com/AdamBeresnev/pong-tournament-app/internal/middleware"
	"github.com/AdamBeresnev/pong-tournament-app/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TournamentService glues the in-memory bracket engine to the store. The
// engine owns all bracket rules; the service wraps every mutation in a
// transaction so the database always holds the latest snapshot.
type TournamentService struct {
	db     *sqlx.DB
	store  *store.TournamentStore
	engine *engine.Engine
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, engine *engine.Engine) *TournamentService {
	return &TournamentService{db: db, store: store, engine: engine}
}

func (s *TournamentService) CreateTournament(ctx context.Context, entries []engine.HumanEntry) (*bracket.Tournament, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("user ID not found in the context")
	}

	t, err := s.engine.CreateTournament(ownerID, entries)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("failed to persist tournament: %w", err)
	}

	return t, tx.Commit()
}

func (s *TournamentService) RecordResult(ctx context.Context, tournamentID uuid.UUID, matchID, winnerID, score1, score2 int) (*bracket.Tournament, error) {
	t, err := s.engine.RecordResult(tournamentID, matchID, winnerID, score1, score2)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.UpdateTournament(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("failed to persist result: %w", err)
	}

	return t, tx.Commit()
}

// GetTournament prefers the live engine copy and falls back to the store
// for brackets that finished before the last restart.
func (s *TournamentService) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	tournamentID, err := uuid.Parse(id)
	if err != nil {
		return nil, bracket.ErrNoActiveTournament
	}

	t, err := s.engine.Get(tournamentID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, bracket.ErrNoActiveTournament) {
		return nil, err
	}

	return s.store.GetTournament(ctx, id)
}

func (s *TournamentService) GetStats(ctx context.Context, id string) (*engine.Stats, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return engine.StatsFor(t), nil
}

func (s *TournamentService) GetTournamentsForUser(ctx context.Context) ([]bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("user ID not found in the context")
	}
	return s.store.ListByOwner(ctx, userID)
}

// RestoreActive reloads every unfinished tournament into the engine.
// Called once at startup.
func (s *TournamentService) RestoreActive(ctx context.Context) (int, error) {
	tournaments, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	for _, t := range tournaments {
		s.engine.Restore(t)
	}
	return len(tournaments), nil
}
