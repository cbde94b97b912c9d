package arena

// Config fixes the simulation domain for a match. Dimensions are
// configuration, not constants: local play and wire-synchronized
// deployments historically ran different arena sizes, so the size is
// picked once per deployment and never mixed.
type Config struct {
	Width  float64 `env:"ARENA_WIDTH" envDefault:"400"`
	Height float64 `env:"ARENA_HEIGHT" envDefault:"300"`

	PaddleWidth  float64 `env:"ARENA_PADDLE_WIDTH" envDefault:"10"`
	PaddleHeight float64 `env:"ARENA_PADDLE_HEIGHT" envDefault:"60"`

	// PaddleSpeed is the per-tick paddle displacement, BallSpeed the
	// fixed horizontal magnitude given to the ball on every reset.
	PaddleSpeed float64 `env:"ARENA_PADDLE_SPEED" envDefault:"5"`
	BallSpeed   float64 `env:"ARENA_BALL_SPEED" envDefault:"4"`

	// WinScore ends the match; the tick loop checks it after every
	// step, the physics itself never does.
	WinScore int `env:"ARENA_WIN_SCORE" envDefault:"3"`

	// TickRate is the target simulation steps per second.
	TickRate int `env:"ARENA_TICK_RATE" envDefault:"60"`
}

func DefaultConfig() Config {
	return Config{
		Width:        400,
		Height:       300,
		PaddleWidth:  10,
		PaddleHeight: 60,
		PaddleSpeed:  5,
		BallSpeed:    4,
		WinScore:     3,
		TickRate:     60,
	}
}
