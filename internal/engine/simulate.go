package engine

import "github.com/AdamBeresnev/pong-tournament-app/internal/bracket"

// winningScore is the score always credited to the winner of a
// simulated AI match.
const winningScore = 11

// advance places the winner of a decided match into the parent slot
// of the next round: even positions feed player1, odd positions feed
// player2. The final round has no parent.
func advance(t *bracket.Tournament, m *bracket.Match) {
	if m.Round >= t.Rounds || m.Winner == nil {
		return
	}
	parent := t.MatchAt(m.Round+1, m.ParentPosition())
	if parent == nil {
		return
	}
	if m.Position%2 == 0 {
		parent.Player1 = *m.Winner
	} else {
		parent.Player2 = *m.Winner
	}
	// A half-filled parent stays non-human until its other slot
	// resolves, so the cascade and currentMatch never pick up a match
	// still waiting on a TBD slot.
	parent.RecomputeHumanMatch()
}

// cascade resolves every AI-only match reachable without a human
// decision. Fixed-point iteration: a simulated round-1 winner can
// immediately make a round-2 match AI-only, so scanning repeats until
// a full pass changes nothing. Bounded by the match count.
func (e *Engine) cascade(t *bracket.Tournament) {
	for changed := true; changed; {
		changed = false
		for i := range t.Matches {
			m := &t.Matches[i]
			if m.Status != bracket.MatchScheduled || !m.AIOnly() {
				continue
			}
			if err := e.simulateAIMatch(m); err != nil {
				continue
			}
			advance(t, m)
			changed = true
		}
	}
}

// simulateAIMatch decides an AI-vs-AI match. Win probability follows
// the tier strengths (p1 wins with s1/(s1+s2)); the winner always
// posts the winning score, the loser's score reflects how lopsided
// the pairing was.
func (e *Engine) simulateAIMatch(m *bracket.Match) error {
	if !m.AIOnly() {
		return bracket.ErrCannotSimulateHumanMatch
	}

	s1 := m.Player1.Tier.Strength()
	s2 := m.Player2.Tier.Strength()

	p1Wins := e.randFloat() < float64(s1)/float64(s1+s2)

	gap := s1 - s2
	if gap < 0 {
		gap = -gap
	}
	var loserScore int
	if gap > 2 {
		loserScore = 2 + e.randIntn(6) // lopsided: 2..7
	} else {
		loserScore = 7 + e.randIntn(4) // close: 7..10
	}

	win, lose := winningScore, loserScore
	var winner bracket.Player
	if p1Wins {
		winner = m.Player1
	} else {
		winner = m.Player2
		win, lose = lose, win
	}

	m.Winner = &winner
	m.Score1 = &win
	m.Score2 = &lose
	m.Status = bracket.MatchSimulated
	return nil
}

// recomputeCurrent points CurrentMatchID at the first scheduled human
// match and refreshes the Active flag on every human player.
func recomputeCurrent(t *bracket.Tournament) {
	t.CurrentMatchID = nil
	for i := range t.Matches {
		m := &t.Matches[i]
		if m.Status == bracket.MatchScheduled && m.HumanMatch {
			id := m.ID
			t.CurrentMatchID = &id
			break
		}
	}

	current := t.CurrentMatch()
	for i := range t.Players {
		p := &t.Players[i]
		p.Active = p.IsHuman() && current != nil &&
			(current.Player1.ID == p.ID || current.Player2.ID == p.ID)
	}
	// Match slots hold player copies; keep their Active flags in step.
	for i := range t.Matches {
		syncActive(t, &t.Matches[i].Player1)
		syncActive(t, &t.Matches[i].Player2)
	}
}

func syncActive(t *bracket.Tournament, p *bracket.Player) {
	if src := t.PlayerByID(p.ID); src != nil {
		p.Active = src.Active
	}
}

// checkCompletion flips the bracket to completed once every match is
// decided, crowning the final's winner.
func checkCompletion(t *bracket.Tournament) {
	for i := range t.Matches {
		if !t.Matches[i].Status.Decided() {
			return
		}
	}
	t.Status = bracket.TournamentCompleted
	t.CurrentMatchID = nil
	if final := t.FinalMatch(); final != nil && final.Winner != nil {
		w := *final.Winner
		t.Winner = &w
	}
	for i := range t.Players {
		t.Players[i].Active = false
	}
}
