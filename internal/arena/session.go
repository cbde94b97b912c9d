package arena

import (
	"context"
	"sync"
	"time"
)

type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

type SessionStatus int

const (
	SessionNotStarted SessionStatus = iota
	SessionInProgress
	SessionEnded
)

type Result struct {
	LeftScore  int  `json:"leftScore"`
	RightScore int  `json:"rightScore"`
	Winner     Side `json:"winner"`
}

// Session owns the authoritative state of one live match. Remote
// inputs are buffered and applied at the next tick boundary; all
// state transitions, including cancellation, happen between ticks.
type Session struct {
	sim *Simulation

	mu        sync.Mutex
	state     State
	inputs    [2]Input
	autopilot [2]bool
	status    SessionStatus
}

func NewSession(sim *Simulation) *Session {
	return &Session{
		sim:   sim,
		state: sim.NewState(),
	}
}

// SetInput buffers a side's input for the next tick.
func (s *Session) SetInput(side Side, in Input) {
	s.mu.Lock()
	s.inputs[side] = in
	s.mu.Unlock()
}

// SetAutopilot makes the session steer a side itself by tracking the
// ball. Used for solo play against the house paddle.
func (s *Session) SetAutopilot(side Side, on bool) {
	s.mu.Lock()
	s.autopilot[side] = on
	s.mu.Unlock()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Result is only meaningful once the session has ended.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result()
}

func (s *Session) result() Result {
	r := Result{LeftScore: s.state.LeftScore, RightScore: s.state.RightScore}
	if s.state.RightScore > s.state.LeftScore {
		r.Winner = SideRight
	}
	return r
}

// Run drives the fixed-rate tick loop until a side reaches the win
// threshold or ctx is cancelled. onFrame receives a copy of the state
// after every tick. There is no transition back out of the ended
// state.
func (s *Session) Run(ctx context.Context, onFrame func(State)) (Result, error) {
	ticker := time.NewTicker(time.Second / time.Duration(s.sim.cfg.TickRate))
	defer ticker.Stop()

	s.mu.Lock()
	s.status = SessionInProgress
	s.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.status = SessionEnded
			r := s.result()
			s.mu.Unlock()
			return r, ctx.Err()

		case <-ticker.C:
			s.mu.Lock()
			left, right := s.inputs[SideLeft], s.inputs[SideRight]
			if s.autopilot[SideLeft] {
				left = s.track(&s.state.LeftPaddle)
			}
			if s.autopilot[SideRight] {
				right = s.track(&s.state.RightPaddle)
			}
			s.sim.Tick(&s.state, left, right)

			frame := s.state
			done := s.state.LeftScore >= s.sim.cfg.WinScore ||
				s.state.RightScore >= s.sim.cfg.WinScore
			if done {
				s.status = SessionEnded
			}
			r := s.result()
			s.mu.Unlock()

			if onFrame != nil {
				onFrame(frame)
			}
			if done {
				return r, nil
			}
		}
	}
}

// track steers an autopiloted paddle toward the ball, dead-banding
// around the paddle center so it does not jitter.
func (s *Session) track(p *Paddle) Input {
	center := p.Y + s.sim.cfg.PaddleHeight/2
	const deadband = 4
	switch {
	case s.state.Ball.Y < center-deadband:
		return Input{Up: true}
	case s.state.Ball.Y > center+deadband:
		return Input{Down: true}
	default:
		return Input{}
	}
}
