// Package engine generates a full Six Nations schedule: a randomized
// 1-factorization of the six-team round robin, venue assignment with
// previous-season alternation, optional competitiveness-driven round
// ordering, and weekend date slotting. The engine owns no persistent state;
// each call is a pure transformation of its inputs into a Schedule.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/carwyn/sixnations/internal/model"
)

const (
	// TeamCount is fixed: the tournament is defined for six nations.
	TeamCount = 6
	// RoundCount rounds of MatchesPerRound matches cover all 15 pairings.
	RoundCount      = 5
	MatchesPerRound = 3
)

// Env carries the external collaborators a generation run reads from, the
// season being generated, and the run-scoped random source. History lookups
// only consider seasons before Season, so regenerating an already promoted
// season never alternates venues against its own fixtures.
type Env struct {
	Directory TeamDirectory
	History   FixtureHistory
	Season    int

	rng *rand.Rand
}

// Options tunes one generation run. Zero values select the balanced venue
// strategy, random round ordering, the default kickoff layout and a
// February-to-April window for the season year.
type Options struct {
	VenueStrategy string
	RoundOrdering string
	Weights       ScoreWeights
	RestWeeks     []int
	Kickoffs      []Kickoff
	WindowStart   time.Time
	WindowEnd     time.Time

	// Seed fixes the random source for deterministic replay. When nil,
	// every run draws a fresh seed so repeated calls produce different
	// valid schedules.
	Seed *int64
}

// Engine builds schedules from a team directory and fixture history.
type Engine struct {
	env Env
}

// New creates an Engine over the given collaborators.
func New(directory TeamDirectory, history FixtureHistory) *Engine {
	return &Engine{env: Env{Directory: directory, History: history}}
}

// Generate produces the 15-fixture schedule for one season. It fails with a
// ValidationError for a bad roster, a SchedulingError when no weekend layout
// fits the window, and a DataLookupError when a collaborator fails; no
// partial schedule is ever returned.
func (e *Engine) Generate(ctx context.Context, teams []model.Team, season int, opts Options) (*model.Schedule, error) {
	if err := validateRoster(teams); err != nil {
		return nil, err
	}
	for _, w := range opts.RestWeeks {
		if w < 1 || w >= RoundCount {
			return nil, &ValidationError{Message: fmt.Sprintf(
				"rest week after round %d out of range 1..%d", w, RoundCount-1)}
		}
	}

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	env := e.env
	env.Season = season
	env.rng = rand.New(rand.NewSource(seed))

	venues, err := VenueStrategyFor(opts.VenueStrategy)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	ordering, err := OrderingFor(opts.RoundOrdering, opts.Weights)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	windowStart, windowEnd := opts.WindowStart, opts.WindowEnd
	if windowStart.IsZero() {
		windowStart = time.Date(season, time.February, 1, 0, 0, 0, 0, time.UTC)
	}
	if windowEnd.IsZero() {
		windowEnd = time.Date(season, time.April, 30, 0, 0, 0, 0, time.UTC)
	}

	rounds := generateRounds(teams, env.rng)

	matches, venueNotes, err := venues.Assign(ctx, rounds, &env)
	if err != nil {
		return nil, err
	}

	ordered, orderNotes := ordering.Order(matches)

	kickoffs, dateNotes, err := assignDates(RoundCount, MatchesPerRound,
		windowStart, windowEnd, opts.Kickoffs, opts.RestWeeks)
	if err != nil {
		return nil, err
	}

	schedule, err := e.assemble(ctx, ordered, kickoffs, season)
	if err != nil {
		return nil, err
	}

	schedule.Summary = append(schedule.Summary, orderNotes...)
	schedule.Summary = append(schedule.Summary, venueNotes...)
	schedule.Summary = append(schedule.Summary, dateNotes...)
	return schedule, nil
}

// assemble joins matches with kickoff times and stadium lookups into
// fixture records, logging each round as it goes.
func (e *Engine) assemble(ctx context.Context, rounds [][]Match, kickoffs [][]time.Time, season int) (*model.Schedule, error) {
	schedule := &model.Schedule{Season: season}

	for r, round := range rounds {
		for i, m := range round {
			stadium, err := e.env.Directory.StadiumFor(ctx, m.Home.ID)
			if err != nil {
				return nil, &DataLookupError{Op: "stadium lookup for " + m.Home.Name, Err: err}
			}
			ko := kickoffs[r][i]
			schedule.Fixtures = append(schedule.Fixtures, model.Fixture{
				ID:         uuid.New(),
				Season:     season,
				Round:      r + 1,
				KickOff:    ko,
				HomeTeamID: m.Home.ID,
				AwayTeamID: m.Away.ID,
				HomeTeam:   m.Home.Name,
				AwayTeam:   m.Away.Name,
				Stadium:    stadium.Name,
				Location:   stadium.City,
			})
			schedule.Summary = append(schedule.Summary, fmt.Sprintf(
				"Round %d: %s v %s at %s, %s on %s",
				r+1, m.Home.Name, m.Away.Name, stadium.Name, stadium.City,
				ko.Format("Mon 2 Jan 15:04")))
		}
	}
	return schedule, nil
}

// validateRoster enforces the six-team precondition and team distinctness.
func validateRoster(teams []model.Team) error {
	if len(teams) != TeamCount {
		return &ValidationError{Message: fmt.Sprintf(
			"exactly 6 teams are required, got %d", len(teams))}
	}
	seen := make(map[uuid.UUID]bool, len(teams))
	ranks := make(map[int]bool, len(teams))
	for _, t := range teams {
		if seen[t.ID] {
			return &ValidationError{Message: fmt.Sprintf("duplicate team %s in roster", t.Name)}
		}
		seen[t.ID] = true
		if ranks[t.Ranking] {
			return &ValidationError{Message: fmt.Sprintf("duplicate ranking %d in roster", t.Ranking)}
		}
		ranks[t.Ranking] = true
	}
	return nil
}
