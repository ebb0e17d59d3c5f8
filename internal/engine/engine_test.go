package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carwyn/sixnations/internal/model"
)

func seedOpts(seed int64, opts Options) Options {
	opts.Seed = &seed
	return opts
}

func TestGenerate(t *testing.T) {
	teams, dir := testRoster()
	eng := New(dir, StaticHistory{})

	schedule, err := eng.Generate(context.Background(), teams, 2026, seedOpts(1, Options{}))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	t.Run("15 fixtures across 5 rounds of 3", func(t *testing.T) {
		if len(schedule.Fixtures) != 15 {
			t.Fatalf("got %d fixtures, want 15", len(schedule.Fixtures))
		}
		perRound := make(map[int]int)
		for _, f := range schedule.Fixtures {
			perRound[f.Round]++
		}
		if len(perRound) != RoundCount {
			t.Errorf("got %d distinct rounds, want %d", len(perRound), RoundCount)
		}
		for r, n := range perRound {
			if n != MatchesPerRound {
				t.Errorf("round %d has %d fixtures, want %d", r, n, MatchesPerRound)
			}
		}
	})

	t.Run("no self-play and unique pairings", func(t *testing.T) {
		type pairKey struct{ a, b uuid.UUID }
		seen := make(map[pairKey]bool)
		for _, f := range schedule.Fixtures {
			if f.HomeTeamID == f.AwayTeamID {
				t.Errorf("%s plays itself in round %d", f.HomeTeam, f.Round)
			}
			k := pairKey{f.HomeTeamID, f.AwayTeamID}
			if k.a.String() > k.b.String() {
				k.a, k.b = k.b, k.a
			}
			if seen[k] {
				t.Errorf("%s v %s scheduled twice", f.HomeTeam, f.AwayTeam)
			}
			seen[k] = true
		}
		if len(seen) != 15 {
			t.Errorf("got %d unique pairings, want 15", len(seen))
		}
	})

	t.Run("every team plays once per round", func(t *testing.T) {
		perRound := make(map[int]map[uuid.UUID]int)
		for _, f := range schedule.Fixtures {
			if perRound[f.Round] == nil {
				perRound[f.Round] = make(map[uuid.UUID]int)
			}
			perRound[f.Round][f.HomeTeamID]++
			perRound[f.Round][f.AwayTeamID]++
		}
		for r, teamsSeen := range perRound {
			if len(teamsSeen) != TeamCount {
				t.Errorf("round %d covers %d teams", r, len(teamsSeen))
			}
			for id, n := range teamsSeen {
				if n != 1 {
					t.Errorf("round %d: team %s plays %d times", r, id, n)
				}
			}
		}
	})

	t.Run("home and away counts are 2/3 or 3/2", func(t *testing.T) {
		home := make(map[uuid.UUID]int)
		away := make(map[uuid.UUID]int)
		for _, f := range schedule.Fixtures {
			home[f.HomeTeamID]++
			away[f.AwayTeamID]++
		}
		for _, team := range teams {
			h, a := home[team.ID], away[team.ID]
			if h+a != 5 || h < 2 || h > 3 {
				t.Errorf("%s split %d home / %d away", team.Name, h, a)
			}
		}
	})

	t.Run("weekend kickoffs with two-hour separation", func(t *testing.T) {
		for _, f := range schedule.Fixtures {
			if wd := f.KickOff.Weekday(); wd != time.Saturday && wd != time.Sunday {
				t.Errorf("%s v %s kicks off on %s", f.HomeTeam, f.AwayTeam, wd)
			}
		}
		for i, a := range schedule.Fixtures {
			for _, b := range schedule.Fixtures[i+1:] {
				sameDay := a.KickOff.Year() == b.KickOff.Year() &&
					a.KickOff.YearDay() == b.KickOff.YearDay()
				if !sameDay {
					continue
				}
				gap := b.KickOff.Sub(a.KickOff)
				if gap < 0 {
					gap = -gap
				}
				if gap < minKickoffGap {
					t.Errorf("kickoffs %s and %s only %s apart", a.KickOff, b.KickOff, gap)
				}
			}
		}
	})

	t.Run("venue is always the home team's stadium", func(t *testing.T) {
		for _, f := range schedule.Fixtures {
			st := dir[f.HomeTeamID]
			if f.Stadium != st.Name || f.Location != st.City {
				t.Errorf("%s v %s at %q/%q, want %q/%q",
					f.HomeTeam, f.AwayTeam, f.Stadium, f.Location, st.Name, st.City)
			}
			if f.Stadium == "" || f.Location == "" {
				t.Errorf("fixture %s v %s missing venue", f.HomeTeam, f.AwayTeam)
			}
		}
	})

	t.Run("summary logs every round", func(t *testing.T) {
		joined := strings.Join(schedule.Summary, "\n")
		for r := 1; r <= RoundCount; r++ {
			if !strings.Contains(joined, fmt.Sprintf("Round %d:", r)) {
				t.Errorf("summary missing round %d", r)
			}
		}
	})
}

func TestGenerateRosterValidation(t *testing.T) {
	teams, dir := testRoster()
	eng := New(dir, StaticHistory{})
	pattern := regexp.MustCompile(`(?i)exactly 6 teams`)

	for _, n := range []int{0, 2, 5, 7} {
		roster := make([]model.Team, 0, n)
		for i := 0; i < n; i++ {
			if i < len(teams) {
				roster = append(roster, teams[i])
			} else {
				roster = append(roster, model.Team{ID: uuid.New(), Name: "Extra", Ranking: 7 + i})
			}
		}
		schedule, err := eng.Generate(context.Background(), roster, 2026, Options{})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%d teams: got %T, want *ValidationError", n, err)
		}
		if !pattern.MatchString(err.Error()) {
			t.Errorf("%d teams: message %q does not mention exactly 6 teams", n, err.Error())
		}
		if schedule != nil {
			t.Errorf("%d teams: partial schedule returned", n)
		}
	}
}

func TestGenerateRestWeekValidation(t *testing.T) {
	teams, dir := testRoster()
	eng := New(dir, StaticHistory{})

	for _, w := range []int{0, 5, 7, -1} {
		schedule, err := eng.Generate(context.Background(), teams, 2026, seedOpts(1, Options{
			RestWeeks: []int{w},
		}))
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("rest week %d: got %T, want *ValidationError", w, err)
		}
		if schedule != nil {
			t.Errorf("rest week %d: schedule returned alongside error", w)
		}
	}

	if _, err := eng.Generate(context.Background(), teams, 2026, seedOpts(1, Options{
		RestWeeks: []int{2, 3},
	})); err != nil {
		t.Errorf("rest weeks 2,3 rejected: %v", err)
	}
}

func TestGenerateVariesBetweenRuns(t *testing.T) {
	teams, dir := testRoster()
	eng := New(dir, StaticHistory{})
	ctx := context.Background()

	first, err := eng.Generate(ctx, teams, 2026, Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	// Unseeded runs are randomized; allow a couple of retries to dodge the
	// astronomically unlikely repeat.
	varied := false
	for attempt := 0; attempt < 3 && !varied; attempt++ {
		second, err := eng.Generate(ctx, teams, 2026, Options{})
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		for i := 0; i < MatchesPerRound; i++ {
			if first.Fixtures[i].HomeTeamID != second.Fixtures[i].HomeTeamID {
				varied = true
			}
		}
	}
	if !varied {
		t.Error("successive runs produced identical round 1 home teams")
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	teams, dir := testRoster()
	eng := New(dir, StaticHistory{})
	ctx := context.Background()

	a, err := eng.Generate(ctx, teams, 2026, seedOpts(99, Options{}))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	b, err := eng.Generate(ctx, teams, 2026, seedOpts(99, Options{}))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	for i := range a.Fixtures {
		if a.Fixtures[i].HomeTeamID != b.Fixtures[i].HomeTeamID ||
			a.Fixtures[i].AwayTeamID != b.Fixtures[i].AwayTeamID {
			t.Fatalf("fixture %d differs between identically seeded runs", i)
		}
	}
}

func TestGenerateMarqueeVariant(t *testing.T) {
	teams, dir := testRoster()
	eng := New(dir, StaticHistory{})

	schedule, err := eng.Generate(context.Background(), teams, 2025, seedOpts(4, Options{
		RoundOrdering: "round-5-extravaganza",
		RestWeeks:     []int{2},
	}))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	t.Run("England v Wales in round 5", func(t *testing.T) {
		found := false
		for _, f := range schedule.Fixtures {
			pair := f.HomeTeam + " v " + f.AwayTeam
			if pair == "England v Wales" || pair == "Wales v England" {
				if f.Round != 5 {
					t.Errorf("marquee match in round %d, want 5", f.Round)
				}
				found = true
			}
		}
		if !found {
			t.Error("England v Wales fixture missing")
		}
	})

	t.Run("summary notes the final round and the rest week", func(t *testing.T) {
		joined := strings.Join(schedule.Summary, "\n")
		if !strings.Contains(joined, "Match Week 5") {
			t.Error("summary missing Match Week 5 note")
		}
		if !strings.Contains(joined, "Rest Week inserted") {
			t.Error("summary missing rest week note")
		}
	})
}

type failingDirectory struct{ err error }

func (d failingDirectory) StadiumFor(context.Context, uuid.UUID) (model.Stadium, error) {
	return model.Stadium{}, d.err
}

func TestGenerateDirectoryFailure(t *testing.T) {
	teams, _ := testRoster()
	boom := errors.New("row not found")
	eng := New(failingDirectory{err: boom}, StaticHistory{})

	_, err := eng.Generate(context.Background(), teams, 2026, seedOpts(1, Options{}))
	var lookupErr *DataLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("got %T, want *DataLookupError", err)
	}
	if !errors.Is(err, boom) {
		t.Error("underlying lookup error not preserved")
	}
}
