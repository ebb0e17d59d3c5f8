package config

import (
	"strings"
	"testing"
	"time"
)

const validYAML = `
season:
  year: 2026
  window_start: "2026-02-01"
  window_end: "2026-04-30"

teams:
  - name: England
    ranking: 1
    stadium: Twickenham
    city: London
    latitude: 51.4559
    longitude: -0.3416
  - name: Wales
    ranking: 2
    stadium: Principality Stadium
    city: Cardiff
    latitude: 51.4782
    longitude: -3.1826
  - name: Scotland
    ranking: 3
    stadium: Murrayfield
    city: Edinburgh
    latitude: 55.9422
    longitude: -3.2409
  - name: Ireland
    ranking: 4
    stadium: Aviva Stadium
    city: Dublin
    latitude: 53.3352
    longitude: -6.2285
  - name: Italy
    ranking: 5
    stadium: Stadio Olimpico
    city: Rome
    latitude: 41.9339
    longitude: 12.4547
  - name: France
    ranking: 6
    stadium: Stade de France
    city: Saint-Denis
    latitude: 48.9244
    longitude: 2.3601

kickoffs:
  - day: saturday
    time: "12:30"
  - day: saturday
    time: "14:45"
  - day: saturday
    time: "17:00"

rest_weeks: [2]

venue_strategy: balanced
round_ordering: round-5-extravaganza

scoring:
  rank_sum_weight: 10
  rank_diff_weight: 1

previous_season:
  year: 2025
  results:
    - home: England
      away: Wales
`

func TestLoadFromBytes(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes() error: %v", err)
	}

	t.Run("season window parsed", func(t *testing.T) {
		if cfg.Season.Year != 2026 {
			t.Errorf("year = %d", cfg.Season.Year)
		}
		want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		if !cfg.Season.WindowStart.Time.Equal(want) {
			t.Errorf("window start = %s", cfg.Season.WindowStart.Time)
		}
	})

	t.Run("roster materialized with unique ids", func(t *testing.T) {
		roster := cfg.Roster()
		if len(roster) != 6 {
			t.Fatalf("roster has %d teams", len(roster))
		}
		seen := make(map[string]bool)
		for _, team := range roster {
			if seen[team.ID.String()] {
				t.Errorf("duplicate team id %s", team.ID)
			}
			seen[team.ID.String()] = true
			if _, ok := cfg.Directory()[team.ID]; !ok {
				t.Errorf("no stadium for %s", team.Name)
			}
		}
	})

	t.Run("history references roster ids", func(t *testing.T) {
		history := cfg.History()
		if len(history) != 1 {
			t.Fatalf("history has %d entries", len(history))
		}
		ids := make(map[string]bool)
		for _, team := range cfg.Roster() {
			ids[team.ID.String()] = true
		}
		if !ids[history[0].HomeTeamID.String()] || !ids[history[0].AwayTeamID.String()] {
			t.Error("history entry references unknown team id")
		}
		if history[0].Season != 2025 {
			t.Errorf("history season = %d", history[0].Season)
		}
	})

	t.Run("engine options carry policy through", func(t *testing.T) {
		opts := cfg.EngineOptions()
		if opts.RoundOrdering != "round-5-extravaganza" {
			t.Errorf("ordering = %q", opts.RoundOrdering)
		}
		if len(opts.Kickoffs) != 3 || opts.Kickoffs[0].Day != time.Saturday {
			t.Errorf("kickoffs = %v", opts.Kickoffs)
		}
		if opts.Weights.RankSum != 10 || opts.Weights.RankDiff != 1 {
			t.Errorf("weights = %+v", opts.Weights)
		}
		if len(opts.RestWeeks) != 1 || opts.RestWeeks[0] != 2 {
			t.Errorf("rest weeks = %v", opts.RestWeeks)
		}
	})
}

func TestLoadFromBytesRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "five teams",
			mutate:  func(s string) string { return removeTeam(s, "France") },
			wantErr: "exactly 6 teams",
		},
		{
			name:    "duplicate ranking",
			mutate:  func(s string) string { return strings.Replace(s, "ranking: 6", "ranking: 1", 1) },
			wantErr: "ranking 1 assigned twice",
		},
		{
			name:    "bad kickoff day",
			mutate:  func(s string) string { return strings.Replace(s, "day: saturday", "day: friday", 1) },
			wantErr: "must be saturday or sunday",
		},
		{
			name:    "bad date",
			mutate:  func(s string) string { return strings.Replace(s, "2026-02-01", "February 1st", 1) },
			wantErr: "invalid date",
		},
		{
			name:    "rest week out of range",
			mutate:  func(s string) string { return strings.Replace(s, "rest_weeks: [2]", "rest_weeks: [5]", 1) },
			wantErr: "out of range",
		},
		{
			name: "previous result with unknown team",
			mutate: func(s string) string {
				return strings.Replace(s, "away: Wales", "away: Argentina", 1)
			},
			wantErr: "unknown team",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tc.mutate(validYAML)))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}

// removeTeam drops a team's block from the YAML fixture.
func removeTeam(s, name string) string {
	lines := strings.Split(s, "\n")
	var out []string
	skip := 0
	for _, line := range lines {
		if strings.Contains(line, "name: "+name) {
			skip = 6 // name + ranking + stadium + city + latitude + longitude
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
