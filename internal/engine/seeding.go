package engine

import (
	"math"

	"github.com/AdamBeresnev/pong-tournament-app/internal/bracket"
)

// aiNamePool holds one name per possible AI slot; names are drawn
// without replacement so a bracket never fields two identical bots.
var aiNamePool = []string{
	"Blip", "Circuit", "Vector", "Servo", "Pixel", "Glitch", "Tempo", "Static",
}

// seed builds the 8-entry player list: humans get ids 1..n in entry
// order, AI players fill the remainder, and both groups are shuffled
// independently before slot placement.
func (e *Engine) seed(t *bracket.Tournament, entries []HumanEntry) {
	humans := make([]bracket.Player, len(entries))
	for i, in := range entries {
		humans[i] = bracket.Player{
			ID:          i + 1,
			DisplayName: in.Name,
			Alias:       in.Alias,
			Kind:        bracket.KindHuman,
		}
	}

	ais := e.generateAIPlayers(len(entries)+1, bracket.Size-len(entries))

	e.shuffle(len(humans), func(i, j int) { humans[i], humans[j] = humans[j], humans[i] })
	e.shuffle(len(ais), func(i, j int) { ais[i], ais[j] = ais[j], ais[i] })

	slots := make([]bracket.Player, bracket.Size)
	used := make([]bool, bracket.Size)
	for i, slot := range humanSlots(len(humans)) {
		slots[slot] = humans[i]
		used[slot] = true
	}
	next := 0
	for i := range slots {
		if !used[i] {
			slots[i] = ais[next]
			next++
		}
	}

	t.Players = slots
}

// generateAIPlayers creates count AI players with ids starting at
// firstID. Tier split is computed from count, not from the bracket
// size: the first ceil(40%) are easy, the next ceil(40%) medium, the
// rest hard.
func (e *Engine) generateAIPlayers(firstID, count int) []bracket.Player {
	names := append([]string(nil), aiNamePool...)
	e.shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	easy := int(math.Ceil(float64(count) * 0.4))
	medium := int(math.Ceil(float64(count) * 0.4))

	ais := make([]bracket.Player, count)
	for i := 0; i < count; i++ {
		tier := bracket.TierHard
		switch {
		case i < easy:
			tier = bracket.TierEasy
		case i < easy+medium:
			tier = bracket.TierMedium
		}
		ais[i] = bracket.Player{
			ID:          firstID + i,
			DisplayName: names[i],
			Alias:       names[i],
			Kind:        bracket.KindAI,
			Tier:        tier,
		}
	}
	return ais
}

// humanSlots spreads n humans across the 8 bracket slots so that
// human-vs-human encounters happen as late as possible.
func humanSlots(n int) []int {
	switch n {
	case 2:
		return []int{0, 4}
	case 3:
		return []int{0, 3, 6}
	default:
		slots := make([]int, n)
		for i := range slots {
			slots[i] = i * bracket.Size / n
		}
		return slots
	}
}

// generateMatches pre-allocates the full match tree: round 1 pairs
// adjacent slots, later rounds start out with both slots TBD.
func (e *Engine) generateMatches(t *bracket.Tournament) {
	t.Rounds = int(math.Log2(float64(bracket.Size)))

	id := 1
	for pos := 0; pos < bracket.Size/2; pos++ {
		m := bracket.Match{
			ID:       id,
			Round:    1,
			Position: pos,
			Player1:  t.Players[pos*2],
			Player2:  t.Players[pos*2+1],
			Status:   bracket.MatchScheduled,
		}
		m.RecomputeHumanMatch()
		t.Matches = append(t.Matches, m)
		id++
	}

	for round := 2; round <= t.Rounds; round++ {
		count := bracket.Size >> uint(round)
		for pos := 0; pos < count; pos++ {
			t.Matches = append(t.Matches, bracket.Match{
				ID:       id,
				Round:    round,
				Position: pos,
				Player1:  bracket.TBD(),
				Player2:  bracket.TBD(),
				Status:   bracket.MatchScheduled,
			})
			id++
		}
	}
}
