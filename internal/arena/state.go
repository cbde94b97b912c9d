package arena

import "math/rand"

type Paddle struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Hits int     `json:"hits"`
}

// Ball direction is an additive per-tick delta, not a unit vector.
type Ball struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type Input struct {
	Up   bool `json:"up"`
	Down bool `json:"down"`
}

type State struct {
	LeftPaddle  Paddle `json:"leftPaddle"`
	RightPaddle Paddle `json:"rightPaddle"`
	Ball        Ball   `json:"ball"`
	LeftScore   int    `json:"leftScore"`
	RightScore  int    `json:"rightScore"`
}

// Simulation steps a single arena. Collision and paddle logic are
// deterministic given inputs; the only randomness is the ball
// direction after a point, drawn from the injected source so
// synchronized deployments can seed it.
type Simulation struct {
	cfg Config
	rng *rand.Rand
}

func NewSimulation(cfg Config, rng *rand.Rand) *Simulation {
	return &Simulation{cfg: cfg, rng: rng}
}

func (sim *Simulation) Config() Config {
	return sim.cfg
}

// NewState centers both paddles and serves the ball in a random
// direction.
func (sim *Simulation) NewState() State {
	paddleY := (sim.cfg.Height - sim.cfg.PaddleHeight) / 2
	st := State{
		LeftPaddle:  Paddle{X: 0, Y: paddleY},
		RightPaddle: Paddle{X: sim.cfg.Width - sim.cfg.PaddleWidth, Y: paddleY},
	}
	sim.resetBall(&st)
	return st
}

// Tick advances the state by one fixed step: paddle movement, ball
// movement, wall and paddle collisions, then scoring. The ball always
// ends the tick inside the arena.
func (sim *Simulation) Tick(st *State, left, right Input) {
	sim.movePaddle(&st.LeftPaddle, left)
	sim.movePaddle(&st.RightPaddle, right)

	st.Ball.X += st.Ball.DX
	st.Ball.Y += st.Ball.DY

	if st.Ball.Y <= 0 {
		st.Ball.Y = 0
		st.Ball.DY = -st.Ball.DY
	} else if st.Ball.Y >= sim.cfg.Height {
		st.Ball.Y = sim.cfg.Height
		st.Ball.DY = -st.Ball.DY
	}

	// Paddle hits force the ball back toward the middle; the counter
	// only moves when the ball was actually travelling into the
	// paddle, so a lingering overlap cannot double count. A deflected
	// ball never scores on the same tick.
	switch {
	case st.Ball.DX < 0 &&
		st.Ball.X <= st.LeftPaddle.X+sim.cfg.PaddleWidth &&
		sim.withinPaddle(&st.LeftPaddle, st.Ball.Y):
		st.Ball.X = st.LeftPaddle.X + sim.cfg.PaddleWidth
		st.Ball.DX = -st.Ball.DX
		st.LeftPaddle.Hits++

	case st.Ball.DX > 0 &&
		st.Ball.X >= st.RightPaddle.X &&
		sim.withinPaddle(&st.RightPaddle, st.Ball.Y):
		st.Ball.X = st.RightPaddle.X
		st.Ball.DX = -st.Ball.DX
		st.RightPaddle.Hits++

	case st.Ball.X < 0:
		st.RightScore++
		sim.resetBall(st)

	case st.Ball.X > sim.cfg.Width:
		st.LeftScore++
		sim.resetBall(st)
	}
}

func (sim *Simulation) movePaddle(p *Paddle, in Input) {
	if in.Up {
		p.Y -= sim.cfg.PaddleSpeed
	}
	if in.Down {
		p.Y += sim.cfg.PaddleSpeed
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if max := sim.cfg.Height - sim.cfg.PaddleHeight; p.Y > max {
		p.Y = max
	}
}

func (sim *Simulation) withinPaddle(p *Paddle, y float64) bool {
	return y >= p.Y && y <= p.Y+sim.cfg.PaddleHeight
}

// resetBall re-centers the ball after a point. Horizontal direction
// is the fixed speed with a random sign, vertical a small random
// component.
func (sim *Simulation) resetBall(st *State) {
	st.Ball.X = sim.cfg.Width / 2
	st.Ball.Y = sim.cfg.Height / 2
	st.Ball.DX = sim.cfg.BallSpeed
	if sim.rng.Intn(2) == 0 {
		st.Ball.DX = -st.Ball.DX
	}
	st.Ball.DY = (sim.rng.Float64()*2 - 1) * sim.cfg.BallSpeed / 2
}
