package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/AdamBeresnev/pong-tournament-app/internal/bracket"
	"github.com/AdamBeresnev/pong-tournament-app/internal/engine"
	"github.com/AdamBeresnev/pong-tournament-app/internal/middleware"
	"github.com/AdamBeresnev/pong-tournament-app/internal/store"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func newTestService(t *testing.T, db *sqlx.DB) *TournamentService {
	t.Helper()
	eng := engine.New(rand.New(rand.NewSource(1)))
	return NewTournamentService(db, store.NewTournamentStore(db), eng)
}

func guestContext() context.Context {
	ctx := context.Background()
	return context.WithValue(ctx, middleware.UserIDKey, uuid.MustParse(middleware.GuestUserID))
}

func TestCreateTournamentPersists(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := newTestService(t, db)
	ctx := guestContext()

	created, err := svc.CreateTournament(ctx, []engine.HumanEntry{
		{Name: "Alice"}, {Name: "Bob", Alias: "bob"},
	})
	require.NoError(t, err)
	require.Len(t, created.Matches, 7)

	// The stored copy must match the engine copy
	stored, err := store.NewTournamentStore(db).GetTournament(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.Status, stored.Status)
	assert.Len(t, stored.Players, bracket.Size)
	assert.Len(t, stored.Matches, 7)
	for i := range created.Matches {
		assert.Equal(t, created.Matches[i].Status, stored.Matches[i].Status)
		assert.Equal(t, created.Matches[i].HumanMatch, stored.Matches[i].HumanMatch)
	}
}

func TestCreateTournamentRequiresUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := newTestService(t, db)

	_, err := svc.CreateTournament(context.Background(), []engine.HumanEntry{{Name: "Alice"}})
	assert.Error(t, err)
}

func TestRecordResultPersists(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := newTestService(t, db)
	ctx := guestContext()

	created, err := svc.CreateTournament(ctx, []engine.HumanEntry{{Name: "Alice"}})
	require.NoError(t, err)
	require.NotNil(t, created.CurrentMatchID)

	current := created.MatchByID(*created.CurrentMatchID)
	require.NotNil(t, current)

	updated, err := svc.RecordResult(ctx, created.ID, current.ID, current.Player1.ID, 11, 4)
	require.NoError(t, err)

	stored, err := store.NewTournamentStore(db).GetTournament(ctx, created.ID.String())
	require.NoError(t, err)

	storedMatch := stored.MatchByID(current.ID)
	require.NotNil(t, storedMatch)
	assert.Equal(t, bracket.MatchCompleted, storedMatch.Status)
	require.NotNil(t, storedMatch.Winner)
	assert.Equal(t, current.Player1.ID, storedMatch.Winner.ID)
	assert.Equal(t, updated.Status, stored.Status)
}

func TestGetTournamentFallsBackToStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := newTestService(t, db)
	ctx := guestContext()

	created, err := svc.CreateTournament(ctx, []engine.HumanEntry{{Name: "Alice"}})
	require.NoError(t, err)

	// A fresh service simulates a restart: the engine is empty but the
	// store still has the snapshot.
	restarted := newTestService(t, db)
	got, err := restarted.GetTournament(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, got.Matches, 7)

	_, err = restarted.GetTournament(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, bracket.ErrNoActiveTournament)
}

func TestRestoreActive(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := newTestService(t, db)
	ctx := guestContext()

	created, err := svc.CreateTournament(ctx, []engine.HumanEntry{{Name: "Alice"}})
	require.NoError(t, err)

	restarted := newTestService(t, db)
	n, err := restarted.RestoreActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// After restore the engine accepts results again
	restored, err := restarted.GetTournament(ctx, created.ID.String())
	require.NoError(t, err)
	require.NotNil(t, restored.CurrentMatchID)

	current := restored.MatchByID(*restored.CurrentMatchID)
	_, err = restarted.RecordResult(ctx, restored.ID, current.ID, current.Player1.ID, 11, 7)
	assert.NoError(t, err)
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := newTestService(t, db)
	ctx := guestContext()

	created, err := svc.CreateTournament(ctx, []engine.HumanEntry{{Name: "Alice"}, {Name: "Bob"}})
	require.NoError(t, err)

	stats, err := svc.GetStats(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalMatches)
	assert.Equal(t, bracket.TournamentInProgress, stats.Status)
}

func TestGetTournamentsForUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := newTestService(t, db)
	ctx := guestContext()

	_, err := svc.CreateTournament(ctx, []engine.HumanEntry{{Name: "Alice"}})
	require.NoError(t, err)
	_, err = svc.CreateTournament(ctx, []engine.HumanEntry{{Name: "Bob"}})
	require.NoError(t, err)

	list, err := svc.GetTournamentsForUser(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
