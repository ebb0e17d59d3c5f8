package engine

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/carwyn/sixnations/internal/model"
)

// Pairing is an unordered pair of teams. Home advantage is decided later by
// a VenueAssignmentStrategy.
type Pairing struct {
	A, B model.Team
}

// Teams returns both sides of the pairing.
func (p Pairing) Teams() [2]model.Team { return [2]model.Team{p.A, p.B} }

// Involves reports whether team id plays in this pairing.
func (p Pairing) Involves(id uuid.UUID) bool {
	return p.A.ID == id || p.B.ID == id
}

// generateRounds builds the round robin for six teams using the circle
// method: one team stays fixed while the other five rotate, producing five
// rounds of three pairings where every team plays exactly once per round.
// The team order is shuffled first so repeated runs produce different, but
// always valid, assignments of pairings to rounds.
func generateRounds(teams []model.Team, rng *rand.Rand) [][]Pairing {
	order := make([]model.Team, len(teams))
	copy(order, teams)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	fixed := order[0]
	rest := order[1:] // 5 rotating teams

	rounds := make([][]Pairing, 0, len(rest))
	for r := 0; r < len(rest); r++ {
		round := []Pairing{{A: fixed, B: rest[r]}}
		for i := 1; i <= len(rest)/2; i++ {
			a := rest[(r+i)%len(rest)]
			b := rest[(r-i+len(rest))%len(rest)]
			round = append(round, Pairing{A: a, B: b})
		}
		rounds = append(rounds, round)
	}
	return rounds
}
