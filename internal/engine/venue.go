package engine

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/carwyn/sixnations/internal/model"
)

// Match is a pairing with home advantage decided.
type Match struct {
	Home, Away model.Team
}

// FixtureHistory resolves the most recent meeting between two teams from a
// season before the given one. The lookup is order-independent. A nil result
// with a nil error means the teams have no recorded history, which is a
// normal case.
type FixtureHistory interface {
	PreviousMeeting(ctx context.Context, a, b uuid.UUID, before int) (*model.PreviousResult, error)
}

// TeamDirectory resolves a team's home stadium.
type TeamDirectory interface {
	StadiumFor(ctx context.Context, teamID uuid.UUID) (model.Stadium, error)
}

// VenueAssignmentStrategy decides home and away for every pairing. The
// returned rounds mirror the input structure; notes feed the run summary.
type VenueAssignmentStrategy interface {
	Name() string
	Assign(ctx context.Context, rounds [][]Pairing, env *Env) ([][]Match, []string, error)
}

// VenueStrategyFor returns a venue strategy by name.
func VenueStrategyFor(name string) (VenueAssignmentStrategy, error) {
	switch name {
	case "", "balanced":
		return &BalancedVenues{}, nil
	case "travel":
		return &TravelMinimizingVenues{}, nil
	default:
		return nil, fmt.Errorf("unknown venue strategy: %q", name)
	}
}

// BalancedVenues alternates venues against last season where history exists
// and otherwise gives home advantage to whichever team has fewer home games
// so far, breaking remaining ties randomly. Every team finishes on 2 or 3
// home games.
type BalancedVenues struct{}

func (s *BalancedVenues) Name() string { return "balanced" }

func (s *BalancedVenues) Assign(ctx context.Context, rounds [][]Pairing, env *Env) ([][]Match, []string, error) {
	homeCount := make(map[uuid.UUID]int)
	awayCount := make(map[uuid.UUID]int)
	var notes []string

	out := make([][]Match, len(rounds))
	for r, round := range rounds {
		out[r] = make([]Match, len(round))
		for i, p := range round {
			prev, err := env.History.PreviousMeeting(ctx, p.A.ID, p.B.ID, env.Season)
			if err != nil {
				return nil, nil, &DataLookupError{Op: "previous meeting lookup", Err: err}
			}

			var m Match
			if prev != nil {
				// Invert last season's venues: last season's travellers host.
				if prev.HomeTeamID == p.A.ID {
					m = Match{Home: p.B, Away: p.A}
				} else {
					m = Match{Home: p.A, Away: p.B}
				}
				notes = append(notes, fmt.Sprintf("Venue alternated from %d: %s host %s",
					prev.Season, m.Home.Name, m.Away.Name))
			} else {
				m = balanceHome(p, homeCount, awayCount, env.rng)
			}

			homeCount[m.Home.ID]++
			awayCount[m.Away.ID]++
			out[r][i] = m
		}
	}
	return out, notes, nil
}

// balanceHome prefers the team with fewer home games so far. Neither side
// may take a fourth home game or a fourth away game, which pins every
// team's final split to {2 home, 3 away} or {3 home, 2 away}.
func balanceHome(p Pairing, homeCount, awayCount map[uuid.UUID]int, rng *rand.Rand) Match {
	ha, hb := homeCount[p.A.ID], homeCount[p.B.ID]
	switch {
	case ha >= maxHomeGames, awayCount[p.B.ID] >= maxAwayGames:
		return Match{Home: p.B, Away: p.A}
	case hb >= maxHomeGames, awayCount[p.A.ID] >= maxAwayGames:
		return Match{Home: p.A, Away: p.B}
	case ha < hb:
		return Match{Home: p.A, Away: p.B}
	case hb < ha:
		return Match{Home: p.B, Away: p.A}
	case rng.Intn(2) == 0:
		return Match{Home: p.A, Away: p.B}
	default:
		return Match{Home: p.B, Away: p.A}
	}
}

const (
	maxHomeGames = 3
	maxAwayGames = 3
)
