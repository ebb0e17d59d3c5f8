// Package config loads the tournament YAML file describing teams, season
// window and scheduling policy, plus the environment-based settings used by
// the API process.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/carwyn/sixnations/internal/engine"
	"github.com/carwyn/sixnations/internal/model"
)

// Date is a wrapper around time.Time for YAML date parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

type Season struct {
	Year        int   `yaml:"year"`
	WindowStart *Date `yaml:"window_start"`
	WindowEnd   *Date `yaml:"window_end"`
}

type TeamEntry struct {
	Name      string  `yaml:"name"`
	Ranking   int     `yaml:"ranking"`
	Stadium   string  `yaml:"stadium"`
	City      string  `yaml:"city"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type KickoffEntry struct {
	Day  string `yaml:"day"` // "saturday" or "sunday"
	Time string `yaml:"time"`
}

type Scoring struct {
	RankSumWeight  float64 `yaml:"rank_sum_weight"`
	RankDiffWeight float64 `yaml:"rank_diff_weight"`
}

type PreviousResultEntry struct {
	Home string `yaml:"home"`
	Away string `yaml:"away"`
}

type PreviousSeason struct {
	Year    int                   `yaml:"year"`
	Results []PreviousResultEntry `yaml:"results"`
}

type Config struct {
	Season         Season          `yaml:"season"`
	Teams          []TeamEntry     `yaml:"teams"`
	Kickoffs       []KickoffEntry  `yaml:"kickoffs"`
	RestWeeks      []int           `yaml:"rest_weeks"`
	VenueStrategy  string          `yaml:"venue_strategy"`
	RoundOrdering  string          `yaml:"round_ordering"`
	Scoring        Scoring         `yaml:"scoring"`
	PreviousSeason *PreviousSeason `yaml:"previous_season"`

	// materialized on load so the roster, directory and history agree on IDs
	teams   []model.Team
	teamIDs map[string]uuid.UUID
	dir     engine.StaticDirectory
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.materialize()
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if c.Season.Year <= 0 {
		return fmt.Errorf("season year is required")
	}
	if c.Season.WindowStart != nil && c.Season.WindowEnd != nil &&
		!c.Season.WindowEnd.Time.After(c.Season.WindowStart.Time) {
		return fmt.Errorf("window end %s must be after window start %s",
			c.Season.WindowEnd.Time.Format("2006-01-02"),
			c.Season.WindowStart.Time.Format("2006-01-02"))
	}

	if len(c.Teams) != engine.TeamCount {
		return fmt.Errorf("exactly 6 teams are required, config lists %d", len(c.Teams))
	}

	names := make(map[string]bool)
	ranks := make(map[int]bool)
	for _, t := range c.Teams {
		if t.Name == "" {
			return fmt.Errorf("team with empty name")
		}
		if names[t.Name] {
			return fmt.Errorf("team %q listed twice", t.Name)
		}
		names[t.Name] = true
		if t.Ranking < 1 || t.Ranking > engine.TeamCount {
			return fmt.Errorf("team %q ranking %d out of range 1..%d", t.Name, t.Ranking, engine.TeamCount)
		}
		if ranks[t.Ranking] {
			return fmt.Errorf("ranking %d assigned twice", t.Ranking)
		}
		ranks[t.Ranking] = true
		if t.Stadium == "" || t.City == "" {
			return fmt.Errorf("team %q missing stadium or city", t.Name)
		}
	}

	for _, k := range c.Kickoffs {
		if k.Day != "saturday" && k.Day != "sunday" {
			return fmt.Errorf("kickoff day %q must be saturday or sunday", k.Day)
		}
		if _, err := time.Parse("15:04", k.Time); err != nil {
			return fmt.Errorf("kickoff time %q: %w", k.Time, err)
		}
	}

	for _, w := range c.RestWeeks {
		if w < 1 || w >= engine.RoundCount {
			return fmt.Errorf("rest week after round %d out of range 1..%d", w, engine.RoundCount-1)
		}
	}

	if c.PreviousSeason != nil {
		for _, r := range c.PreviousSeason.Results {
			if !names[r.Home] || !names[r.Away] {
				return fmt.Errorf("previous season result %s v %s references unknown team", r.Home, r.Away)
			}
			if r.Home == r.Away {
				return fmt.Errorf("previous season result pairs %s with itself", r.Home)
			}
		}
	}

	return nil
}

// materialize assigns IDs to teams and stadiums for this load.
func (c *Config) materialize() {
	c.teamIDs = make(map[string]uuid.UUID, len(c.Teams))
	c.dir = make(engine.StaticDirectory, len(c.Teams))
	c.teams = make([]model.Team, 0, len(c.Teams))
	for _, e := range c.Teams {
		teamID := uuid.New()
		stadiumID := uuid.New()
		c.teamIDs[e.Name] = teamID
		c.teams = append(c.teams, model.Team{
			ID:        teamID,
			Name:      e.Name,
			Ranking:   e.Ranking,
			StadiumID: stadiumID,
		})
		c.dir[teamID] = model.Stadium{
			ID:        stadiumID,
			Name:      e.Stadium,
			City:      e.City,
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
		}
	}
}

// Roster returns the configured teams as domain records.
func (c *Config) Roster() []model.Team {
	return c.teams
}

// Directory exposes the configured stadiums as an engine TeamDirectory.
func (c *Config) Directory() engine.StaticDirectory {
	return c.dir
}

// History converts the previous-season results into an engine
// FixtureHistory. An empty history is the normal no-prior-data case.
func (c *Config) History() engine.StaticHistory {
	if c.PreviousSeason == nil {
		return engine.StaticHistory{}
	}
	history := make(engine.StaticHistory, 0, len(c.PreviousSeason.Results))
	for _, r := range c.PreviousSeason.Results {
		history = append(history, model.PreviousResult{
			Season:     c.PreviousSeason.Year,
			HomeTeamID: c.teamIDs[r.Home],
			AwayTeamID: c.teamIDs[r.Away],
		})
	}
	return history
}

// EngineOptions translates the policy sections into engine options.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.Options{
		VenueStrategy: c.VenueStrategy,
		RoundOrdering: c.RoundOrdering,
		RestWeeks:     c.RestWeeks,
		Weights: engine.ScoreWeights{
			RankSum:  c.Scoring.RankSumWeight,
			RankDiff: c.Scoring.RankDiffWeight,
		},
	}
	if c.Season.WindowStart != nil {
		opts.WindowStart = c.Season.WindowStart.Time
	}
	if c.Season.WindowEnd != nil {
		opts.WindowEnd = c.Season.WindowEnd.Time
	}
	for _, k := range c.Kickoffs {
		day := time.Saturday
		if k.Day == "sunday" {
			day = time.Sunday
		}
		opts.Kickoffs = append(opts.Kickoffs, engine.Kickoff{Day: day, Time: k.Time})
	}
	return opts
}
