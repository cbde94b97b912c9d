package store

import (
	"context"
	"time"

	"github.com/AdamBeresnev/pong-tournament-app/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TournamentStore persists plain snapshots of engine state. The
// engine stays the source of truth while a bracket is live; the rows
// here exist for listings and for rehydration after a restart.
type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

type tournamentRow struct {
	ID             uuid.UUID `db:"id"`
	OwnerID        uuid.UUID `db:"owner_id"`
	Status         string    `db:"status"`
	Rounds         int       `db:"rounds"`
	CurrentMatchID *int      `db:"current_match_id"`
	WinnerID       *int      `db:"winner_id"`
	CreatedAt      time.Time `db:"created_at"`
}

type playerRow struct {
	TournamentID uuid.UUID `db:"tournament_id"`
	PlayerID     int       `db:"player_id"`
	Slot         int       `db:"slot"`
	DisplayName  string    `db:"display_name"`
	Alias        string    `db:"alias"`
	Kind         string    `db:"kind"`
	Tier         string    `db:"tier"`
	Active       bool      `db:"active"`
}

type matchRow struct {
	TournamentID uuid.UUID `db:"tournament_id"`
	MatchID      int       `db:"match_id"`
	Round        int       `db:"round"`
	Position     int       `db:"position"`
	Player1ID    int       `db:"player1_id"`
	Player2ID    int       `db:"player2_id"`
	WinnerID     *int      `db:"winner_id"`
	Status       string    `db:"status"`
	Score1       *int      `db:"score_1"`
	Score2       *int      `db:"score_2"`
	HumanMatch   bool      `db:"human_match"`
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, t *bracket.Tournament) error {
	row := tournamentRow{
		ID:             t.ID,
		OwnerID:        t.OwnerID,
		Status:         string(t.Status),
		Rounds:         t.Rounds,
		CurrentMatchID: t.CurrentMatchID,
		CreatedAt:      t.CreatedAt,
	}
	if t.Winner != nil {
		row.WinnerID = &t.Winner.ID
	}
	if _, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, owner_id, status, rounds, current_match_id, winner_id, created_at)
        VALUES (:id, :owner_id, :status, :rounds, :current_match_id, :winner_id, :created_at)`, row); err != nil {
		return err
	}

	players := make([]playerRow, len(t.Players))
	for i, p := range t.Players {
		players[i] = playerRow{
			TournamentID: t.ID,
			PlayerID:     p.ID,
			Slot:         i,
			DisplayName:  p.DisplayName,
			Alias:        p.Alias,
			Kind:         string(p.Kind),
			Tier:         string(p.Tier),
			Active:       p.Active,
		}
	}
	if _, err := tx.NamedExecContext(ctx, `INSERT INTO tournament_players (tournament_id, player_id, slot, display_name, alias, kind, tier, active)
        VALUES (:tournament_id, :player_id, :slot, :display_name, :alias, :kind, :tier, :active)`, players); err != nil {
		return err
	}

	matches := make([]matchRow, len(t.Matches))
	for i := range t.Matches {
		matches[i] = toMatchRow(t.ID, &t.Matches[i])
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournament_matches (tournament_id, match_id, round, position, player1_id, player2_id, winner_id, status, score_1, score_2, human_match)
        VALUES (:tournament_id, :match_id, :round, :position, :player1_id, :player2_id, :winner_id, :status, :score_1, :score_2, :human_match)`, matches)
	return err
}

// UpdateTournament refreshes every mutable column after a result has
// been recorded and the cascade has run.
func (s *TournamentStore) UpdateTournament(ctx context.Context, tx *sqlx.Tx, t *bracket.Tournament) error {
	row := tournamentRow{
		ID:             t.ID,
		Status:         string(t.Status),
		Rounds:         t.Rounds,
		CurrentMatchID: t.CurrentMatchID,
	}
	if t.Winner != nil {
		row.WinnerID = &t.Winner.ID
	}
	if _, err := tx.NamedExecContext(ctx, `UPDATE tournaments SET
        status = :status, current_match_id = :current_match_id, winner_id = :winner_id
        WHERE id = :id`, row); err != nil {
		return err
	}

	for i := range t.Matches {
		m := toMatchRow(t.ID, &t.Matches[i])
		if _, err := tx.NamedExecContext(ctx, `UPDATE tournament_matches SET
            player1_id = :player1_id, player2_id = :player2_id, winner_id = :winner_id,
            status = :status, score_1 = :score_1, score_2 = :score_2, human_match = :human_match
            WHERE tournament_id = :tournament_id AND match_id = :match_id`, m); err != nil {
			return err
		}
	}

	for _, p := range t.Players {
		if _, err := tx.ExecContext(ctx, `UPDATE tournament_players SET active = ?
            WHERE tournament_id = ? AND player_id = ?`, p.Active, t.ID, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	var row tournamentRow
	if err := s.db.GetContext(ctx, &row, "SELECT * FROM tournaments WHERE id = ?", id); err != nil {
		return nil, err
	}

	var players []playerRow
	if err := s.db.SelectContext(ctx, &players, "SELECT * FROM tournament_players WHERE tournament_id = ? ORDER BY slot ASC", id); err != nil {
		return nil, err
	}

	var matches []matchRow
	if err := s.db.SelectContext(ctx, &matches, "SELECT * FROM tournament_matches WHERE tournament_id = ? ORDER BY round ASC, position ASC", id); err != nil {
		return nil, err
	}

	return fromRows(row, players, matches), nil
}

// ListByOwner returns bare tournament rows for listings, newest
// first. Players and matches are not loaded.
func (s *TournamentStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]bracket.Tournament, error) {
	var rows []tournamentRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM tournaments WHERE owner_id = ? ORDER BY created_at DESC", ownerID); err != nil {
		return nil, err
	}

	out := make([]bracket.Tournament, len(rows))
	for i, row := range rows {
		out[i] = bracket.Tournament{
			ID:             row.ID,
			OwnerID:        row.OwnerID,
			Status:         bracket.TournamentStatus(row.Status),
			Rounds:         row.Rounds,
			CurrentMatchID: row.CurrentMatchID,
			CreatedAt:      row.CreatedAt,
		}
	}
	return out, nil
}

// ListActive loads every non-completed tournament in full, used to
// rehydrate the engine at startup.
func (s *TournamentStore) ListActive(ctx context.Context) ([]*bracket.Tournament, error) {
	var ids []uuid.UUID
	if err := s.db.SelectContext(ctx, &ids, "SELECT id FROM tournaments WHERE status != ? ORDER BY created_at ASC", string(bracket.TournamentCompleted)); err != nil {
		return nil, err
	}

	out := make([]*bracket.Tournament, 0, len(ids))
	for _, id := range ids {
		t, err := s.GetTournament(ctx, id.String())
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func toMatchRow(tournamentID uuid.UUID, m *bracket.Match) matchRow {
	row := matchRow{
		TournamentID: tournamentID,
		MatchID:      m.ID,
		Round:        m.Round,
		Position:     m.Position,
		Player1ID:    m.Player1.ID,
		Player2ID:    m.Player2.ID,
		Status:       string(m.Status),
		Score1:       m.Score1,
		Score2:       m.Score2,
		HumanMatch:   m.HumanMatch,
	}
	if m.Winner != nil {
		row.WinnerID = &m.Winner.ID
	}
	return row
}

func fromRows(row tournamentRow, players []playerRow, matches []matchRow) *bracket.Tournament {
	t := &bracket.Tournament{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Status:         bracket.TournamentStatus(row.Status),
		Rounds:         row.Rounds,
		CurrentMatchID: row.CurrentMatchID,
		CreatedAt:      row.CreatedAt,
	}

	t.Players = make([]bracket.Player, len(players))
	for i, p := range players {
		t.Players[i] = bracket.Player{
			ID:          p.PlayerID,
			DisplayName: p.DisplayName,
			Alias:       p.Alias,
			Kind:        bracket.PlayerKind(p.Kind),
			Tier:        bracket.AITier(p.Tier),
			Active:      p.Active,
		}
	}

	resolve := func(id int) bracket.Player {
		if p := t.PlayerByID(id); p != nil {
			return *p
		}
		return bracket.TBD()
	}

	t.Matches = make([]bracket.Match, len(matches))
	for i, m := range matches {
		match := bracket.Match{
			ID:         m.MatchID,
			Round:      m.Round,
			Position:   m.Position,
			Player1:    resolve(m.Player1ID),
			Player2:    resolve(m.Player2ID),
			Status:     bracket.MatchStatus(m.Status),
			Score1:     m.Score1,
			Score2:     m.Score2,
			HumanMatch: m.HumanMatch,
		}
		if m.WinnerID != nil {
			w := resolve(*m.WinnerID)
			match.Winner = &w
		}
		t.Matches[i] = match
	}

	if row.WinnerID != nil {
		w := resolve(*row.WinnerID)
		t.Winner = &w
	}
	return t
}
