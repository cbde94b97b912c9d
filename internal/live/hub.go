package live

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/AdamBeresnev/pong-tournament-app/internal/arena"
	"github.com/AdamBeresnev/pong-tournament-app/internal/bracket"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// MatchBinder resolves bracket matches and accepts finished scores.
// Satisfied by service.TournamentService.
type MatchBinder interface {
	GetTournament(ctx context.Context, id string) (*bracket.Tournament, error)
	RecordResult(ctx context.Context, tournamentID uuid.UUID, matchID, winnerID, score1, score2 int) (*bracket.Tournament, error)
}

// Hub tracks live game rooms. A room is created on the first websocket
// join and torn down when its game ends or every player leaves.
type Hub struct {
	cfg    arena.Config
	binder MatchBinder

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewHub(cfg arena.Config, binder MatchBinder) *Hub {
	return &Hub{
		cfg:    cfg,
		binder: binder,
		rooms:  make(map[string]*Room),
	}
}

// HandleWS upgrades the connection and places the client in a room.
// Query parameters:
//
//	room       join an existing room by id (empty: create a new one)
//	solo       "1" plays against the house paddle immediately
//	tournament bind the game to a bracket match
//	match      match id within the tournament (requires tournament)
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomID := q.Get("room")
	solo := q.Get("solo") == "1"

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}

	room, side, err := h.place(conn, roomID, solo, q.Get("tournament"), q.Get("match"))
	if err != nil {
		_ = conn.WriteJSON(wsMsg{Type: "error", Data: err.Error()})
		_ = conn.Close()
		return
	}

	slog.Info("player joined room", "room", room.ID, "side", side.String())
}

func (h *Hub) place(conn *websocket.Conn, roomID string, solo bool, tournamentID, matchID string) (*Room, arena.Side, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if roomID != "" {
		if room, ok := h.rooms[roomID]; ok {
			side, err := room.join(conn)
			return room, side, err
		}
	} else {
		roomID = uuid.NewString()
	}

	sim := arena.NewSimulation(h.cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	room := newRoom(roomID, h, sim, solo)
	if err := room.bind(tournamentID, matchID); err != nil {
		return nil, 0, err
	}
	h.rooms[roomID] = room

	side, err := room.join(conn)
	return room, side, err
}

func (h *Hub) remove(roomID string) {
	h.mu.Lock()
	delete(h.rooms, roomID)
	h.mu.Unlock()
}

// Rooms reports the number of active rooms.
func (h *Hub) Rooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}
