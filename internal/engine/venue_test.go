package engine

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/carwyn/sixnations/internal/model"
)

func TestBalancedVenues(t *testing.T) {
	teams, dir := testRoster()
	rounds := generateRounds(teams, rand.New(rand.NewSource(7)))
	env := &Env{Directory: dir, History: StaticHistory{}, rng: rand.New(rand.NewSource(7))}

	matches, notes, err := (&BalancedVenues{}).Assign(context.Background(), rounds, env)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("no history should produce no alternation notes, got %d", len(notes))
	}

	t.Run("every team ends on 2 or 3 home games", func(t *testing.T) {
		home := make(map[uuid.UUID]int)
		for _, round := range matches {
			for _, m := range round {
				home[m.Home.ID]++
			}
		}
		for _, team := range teams {
			if h := home[team.ID]; h != 2 && h != 3 {
				t.Errorf("%s has %d home games, want 2 or 3", team.Name, h)
			}
		}
	})

	t.Run("home never equals away", func(t *testing.T) {
		for _, round := range matches {
			for _, m := range round {
				if m.Home.ID == m.Away.ID {
					t.Errorf("%s plays itself", m.Home.Name)
				}
			}
		}
	})
}

func TestBalancedVenuesAlternation(t *testing.T) {
	teams, dir := testRoster()
	england, wales := teams[0], teams[1]
	history := StaticHistory{
		{Season: 2024, HomeTeamID: wales.ID, AwayTeamID: england.ID},
		{Season: 2025, HomeTeamID: england.ID, AwayTeamID: wales.ID},
	}

	rounds := generateRounds(teams, rand.New(rand.NewSource(3)))
	env := &Env{Directory: dir, History: history, Season: 2026, rng: rand.New(rand.NewSource(3))}

	matches, notes, err := (&BalancedVenues{}).Assign(context.Background(), rounds, env)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}

	t.Run("most recent prior season is inverted", func(t *testing.T) {
		found := false
		for _, round := range matches {
			for _, m := range round {
				if m.Home.ID == wales.ID && m.Away.ID == england.ID {
					found = true
				}
				if m.Home.ID == england.ID && m.Away.ID == wales.ID {
					t.Error("England host Wales again despite hosting in 2025")
				}
			}
		}
		if !found {
			t.Error("Wales v England fixture missing")
		}
	})

	t.Run("alternation is noted in the summary", func(t *testing.T) {
		if len(notes) != 1 {
			t.Fatalf("got %d notes, want 1", len(notes))
		}
		want := "Venue alternated from 2025: Wales host England"
		if notes[0] != want {
			t.Errorf("note = %q, want %q", notes[0], want)
		}
	})
}

func TestBalancedVenuesIgnoresCurrentSeason(t *testing.T) {
	// Regenerating a season whose fixtures are already recorded must
	// alternate against the true previous season, not the fixtures being
	// replaced.
	teams, dir := testRoster()
	england, wales := teams[0], teams[1]
	history := StaticHistory{
		{Season: 2025, HomeTeamID: england.ID, AwayTeamID: wales.ID},
		{Season: 2026, HomeTeamID: wales.ID, AwayTeamID: england.ID},
	}

	rounds := generateRounds(teams, rand.New(rand.NewSource(5)))
	env := &Env{Directory: dir, History: history, Season: 2026, rng: rand.New(rand.NewSource(5))}

	matches, notes, err := (&BalancedVenues{}).Assign(context.Background(), rounds, env)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}

	for _, round := range matches {
		for _, m := range round {
			if m.Home.ID == england.ID && m.Away.ID == wales.ID {
				t.Error("England host Wales, alternation used the 2026 fixture being replaced")
			}
		}
	}
	if len(notes) != 1 || notes[0] != "Venue alternated from 2025: Wales host England" {
		t.Errorf("notes = %v, want single alternation from 2025", notes)
	}
}

type failingHistory struct{ err error }

func (h failingHistory) PreviousMeeting(context.Context, uuid.UUID, uuid.UUID, int) (*model.PreviousResult, error) {
	return nil, h.err
}

func TestBalancedVenuesLookupFailure(t *testing.T) {
	teams, dir := testRoster()
	rounds := generateRounds(teams, rand.New(rand.NewSource(1)))
	boom := errors.New("connection refused")
	env := &Env{Directory: dir, History: failingHistory{err: boom}, rng: rand.New(rand.NewSource(1))}

	_, _, err := (&BalancedVenues{}).Assign(context.Background(), rounds, env)
	var lookupErr *DataLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("got %T, want *DataLookupError", err)
	}
	if !errors.Is(err, boom) {
		t.Error("underlying error not preserved")
	}
}

func TestTravelMinimizingVenues(t *testing.T) {
	teams, dir := testRoster()
	rounds := generateRounds(teams, rand.New(rand.NewSource(11)))
	env := &Env{Directory: dir, History: StaticHistory{}, rng: rand.New(rand.NewSource(11))}

	matches, notes, err := (&TravelMinimizingVenues{}).Assign(context.Background(), rounds, env)
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}

	t.Run("balance cap still holds", func(t *testing.T) {
		home := make(map[uuid.UUID]int)
		for _, round := range matches {
			for _, m := range round {
				home[m.Home.ID]++
			}
		}
		for _, team := range teams {
			if h := home[team.ID]; h < 2 || h > 3 {
				t.Errorf("%s has %d home games, want 2 or 3", team.Name, h)
			}
		}
	})

	t.Run("summary reports total distance", func(t *testing.T) {
		if len(notes) == 0 {
			t.Fatal("no travel notes")
		}
		last := notes[len(notes)-1]
		if got := last[:len("Total away travel")]; got != "Total away travel" {
			t.Errorf("last note = %q, want total travel line", last)
		}
	})
}

func TestHaversine(t *testing.T) {
	// London to Cardiff is roughly 210 km.
	d := haversineKm(51.4559, -0.3416, 51.4782, -3.1826)
	if d < 150 || d > 250 {
		t.Errorf("London-Cardiff distance %.0f km out of plausible range", d)
	}
	if z := haversineKm(48.9, 2.4, 48.9, 2.4); z != 0 {
		t.Errorf("zero-distance trip computed %.2f km", z)
	}
}
