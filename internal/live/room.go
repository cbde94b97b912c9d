package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/AdamBeresnev/pong-tournament-app/internal/arena"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type wsMsg struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type client struct {
	conn *websocket.Conn
	side arena.Side

	mu sync.Mutex // guards writes, the read pump owns reads
}

func (c *client) send(m wsMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(m); err != nil {
		slog.Debug("ws write failed", "side", c.side.String(), "error", err)
	}
}

// Room runs one game: an arena session, up to two clients, and an
// optional binding to a bracket match whose result is recorded when
// the game ends.
type Room struct {
	ID   string
	hub  *Hub
	solo bool

	session *arena.Session

	tournamentID  uuid.UUID // uuid.Nil when unbound
	matchID       int
	leftPlayerID  int
	rightPlayerID int

	mu      sync.Mutex
	clients [2]*client
	started bool
	cancel  context.CancelFunc
}

func newRoom(id string, hub *Hub, sim *arena.Simulation, solo bool) *Room {
	return &Room{
		ID:      id,
		hub:     hub,
		solo:    solo,
		session: arena.NewSession(sim),
	}
}

// bind attaches the room to a bracket match so the final score is fed
// back into the tournament. Left plays as the match's first player.
func (r *Room) bind(tournamentID, matchID string) error {
	if tournamentID == "" {
		return nil
	}
	if r.hub.binder == nil {
		return fmt.Errorf("match binding is not available")
	}

	t, err := r.hub.binder.GetTournament(context.Background(), tournamentID)
	if err != nil {
		return fmt.Errorf("unknown tournament %q", tournamentID)
	}

	id, err := strconv.Atoi(matchID)
	if err != nil {
		return fmt.Errorf("invalid match id %q", matchID)
	}
	match := t.MatchByID(id)
	if match == nil || match.Status.Decided() {
		return fmt.Errorf("match %d is not playable", id)
	}
	if !match.HumanMatch {
		return fmt.Errorf("match %d has no human players", id)
	}

	r.tournamentID = t.ID
	r.matchID = id
	r.leftPlayerID = match.Player1.ID
	r.rightPlayerID = match.Player2.ID
	return nil
}

func (r *Room) bound() bool { return r.tournamentID != uuid.Nil }

func (r *Room) join(conn *websocket.Conn) (arena.Side, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var side arena.Side
	switch {
	case r.clients[arena.SideLeft] == nil:
		side = arena.SideLeft
	case r.clients[arena.SideRight] == nil && !r.solo:
		side = arena.SideRight
	default:
		return 0, fmt.Errorf("room %s is full", r.ID)
	}

	c := &client{conn: conn, side: side}
	r.clients[side] = c
	go r.readPump(c)

	c.send(wsMsg{Type: "you", Data: map[string]any{"room": r.ID, "side": side.String()}})

	if r.solo {
		r.session.SetAutopilot(arena.SideRight, true)
	}
	if !r.started && (r.solo || r.clients[arena.SideRight] != nil) {
		r.started = true
		ctx, cancel := context.WithCancel(context.Background())
		r.cancel = cancel
		go r.run(ctx)
	} else if !r.started {
		c.send(wsMsg{Type: "status", Data: "waiting for an opponent"})
	}

	return side, nil
}

func (r *Room) run(ctx context.Context) {
	defer r.hub.remove(r.ID)

	r.broadcast(wsMsg{Type: "start", Data: r.session.State()})

	result, err := r.session.Run(ctx, func(frame arena.State) {
		r.broadcast(wsMsg{Type: "state", Data: frame})
	})
	if err != nil {
		slog.Info("game abandoned", "room", r.ID, "error", err)
		r.broadcast(wsMsg{Type: "end", Data: map[string]any{"abandoned": true}})
		r.closeAll()
		return
	}

	r.broadcast(wsMsg{Type: "end", Data: result})
	slog.Info("game finished", "room", r.ID,
		"left", result.LeftScore, "right", result.RightScore, "winner", result.Winner.String())

	if r.bound() {
		r.record(result)
	}
	r.closeAll()
}

func (r *Room) record(result arena.Result) {
	winnerID := r.leftPlayerID
	if result.Winner == arena.SideRight {
		winnerID = r.rightPlayerID
	}
	_, err := r.hub.binder.RecordResult(context.Background(),
		r.tournamentID, r.matchID, winnerID, result.LeftScore, result.RightScore)
	if err != nil {
		slog.Error("failed to record match result",
			"tournament", r.tournamentID, "match", r.matchID, "error", err)
	}
}

func (r *Room) readPump(c *client) {
	defer r.leave(c)
	for {
		var in clientIn
		if err := c.conn.ReadJSON(&in); err != nil {
			return
		}
		switch in.Type {
		case "input":
			var input arena.Input
			if err := json.Unmarshal(in.Data, &input); err != nil {
				continue
			}
			r.session.SetInput(c.side, input)
		case "quit":
			return
		}
	}
}

// leave drops a client; losing a player cancels the game at the next
// tick boundary.
func (r *Room) leave(c *client) {
	_ = c.conn.Close()

	r.mu.Lock()
	if r.clients[c.side] != c {
		r.mu.Unlock()
		return
	}
	r.clients[c.side] = nil

	var cancel context.CancelFunc
	if r.started && r.session.Status() != arena.SessionEnded {
		cancel = r.cancel
	}
	empty := !r.started && r.clients[arena.SideLeft] == nil && r.clients[arena.SideRight] == nil
	// Unlock before touching the hub: place() locks hub then room.
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if empty {
		r.hub.remove(r.ID)
	}
}

func (r *Room) broadcast(m wsMsg) {
	r.mu.Lock()
	clients := r.clients
	r.mu.Unlock()
	for _, c := range clients {
		if c != nil {
			c.send(m)
		}
	}
}

func (r *Room) closeAll() {
	r.mu.Lock()
	clients := r.clients
	r.mu.Unlock()
	for _, c := range clients {
		if c != nil {
			_ = c.conn.Close()
		}
	}
}
