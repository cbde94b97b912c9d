package bracket

import "errors"

// Engine precondition failures. All are synchronous and recoverable by
// the caller; none leave a tournament partially mutated.
var (
	ErrInvalidPlayerCount       = errors.New("tournament requires between 1 and 8 human players")
	ErrNoActiveTournament       = errors.New("no active tournament")
	ErrMatchNotFound            = errors.New("match not found")
	ErrCannotRecordAIMatch      = errors.New("AI matches are decided by simulation")
	ErrCannotSimulateHumanMatch = errors.New("cannot simulate a match with a human player")
	ErrWinnerNotInMatch         = errors.New("winner is not part of this match")
)
