// Package validator re-reads an exported schedule workbook and checks the
// championship constraints against what actually landed in the cells.
package validator

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

// Violation represents a constraint violation found during validation.
type Violation struct {
	Row     int
	Type    string // "error" or "warning"
	Message string
}

const (
	roundCount      = 5
	matchesPerRound = 3
	minKickoffGap   = 2 * time.Hour
)

// Validate reads a schedule Excel file and checks it against the
// round-robin constraints for the given season and roster.
func Validate(season int, teams []string, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	fixtures, err := readFixtures(f, season)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}

	var violations []Violation
	violations = append(violations, checkStructure(fixtures)...)
	violations = append(violations, checkPairings(teams, fixtures)...)
	violations = append(violations, checkOncePerRound(fixtures)...)
	violations = append(violations, checkHomeBalance(teams, fixtures)...)
	violations = append(violations, checkWeekendSlots(fixtures)...)
	violations = append(violations, checkRoundWeekends(fixtures)...)
	violations = append(violations, checkVenues(fixtures)...)

	return violations, nil
}

type parsedFixture struct {
	Row     int
	Round   int
	KickOff time.Time
	Home    string
	Away    string
	Venue   string
	City    string
}

func readFixtures(f *excelize.File, season int) ([]parsedFixture, error) {
	sheet := fmt.Sprintf("%d Championship", season)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", sheet)
	}

	var fixtures []parsedFixture
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 6 || row[0] == "" {
			continue
		}

		var round int
		if _, err := fmt.Sscanf(row[0], "%d", &round); err != nil {
			continue
		}
		date, err := time.Parse("02/01/2006", row[1])
		if err != nil {
			continue
		}
		ko, err := time.Parse("15:04", row[3])
		if err != nil {
			continue
		}

		fx := parsedFixture{
			Row:   i + 1,
			Round: round,
			KickOff: time.Date(date.Year(), date.Month(), date.Day(),
				ko.Hour(), ko.Minute(), 0, 0, time.UTC),
			Home: row[4],
			Away: row[5],
		}
		if len(row) > 6 {
			fx.Venue = row[6]
		}
		if len(row) > 7 {
			fx.City = row[7]
		}
		fixtures = append(fixtures, fx)
	}

	return fixtures, nil
}

func checkStructure(fixtures []parsedFixture) []Violation {
	var violations []Violation

	if len(fixtures) != roundCount*matchesPerRound {
		violations = append(violations, Violation{
			Type:    "error",
			Message: fmt.Sprintf("schedule has %d fixtures, want %d", len(fixtures), roundCount*matchesPerRound),
		})
	}

	perRound := make(map[int][]int)
	for _, fx := range fixtures {
		perRound[fx.Round] = append(perRound[fx.Round], fx.Row)
	}
	for round := 1; round <= roundCount; round++ {
		if n := len(perRound[round]); n != matchesPerRound {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("round %d has %d fixtures, want %d", round, n, matchesPerRound),
			})
		}
	}
	for round := range perRound {
		if round < 1 || round > roundCount {
			violations = append(violations, Violation{
				Row:     perRound[round][0],
				Type:    "error",
				Message: fmt.Sprintf("unexpected round number %d", round),
			})
		}
	}
	return violations
}

func checkPairings(teams []string, fixtures []parsedFixture) []Violation {
	type matchup struct{ a, b string }
	counts := make(map[matchup][]int)
	for _, fx := range fixtures {
		a, b := fx.Home, fx.Away
		if a > b {
			a, b = b, a
		}
		counts[matchup{a, b}] = append(counts[matchup{a, b}], fx.Row)
	}

	var violations []Violation
	for mk, rows := range counts {
		if len(rows) > 1 {
			violations = append(violations, Violation{
				Row:     rows[1],
				Type:    "error",
				Message: fmt.Sprintf("%s v %s scheduled %d times", mk.a, mk.b, len(rows)),
			})
		}
	}
	for i, a := range teams {
		for _, b := range teams[i+1:] {
			x, y := a, b
			if x > y {
				x, y = y, x
			}
			if len(counts[matchup{x, y}]) == 0 {
				violations = append(violations, Violation{
					Type:    "error",
					Message: fmt.Sprintf("%s v %s never scheduled", x, y),
				})
			}
		}
	}
	return violations
}

func checkOncePerRound(fixtures []parsedFixture) []Violation {
	type teamRound struct {
		team  string
		round int
	}
	counts := make(map[teamRound][]int)
	for _, fx := range fixtures {
		counts[teamRound{fx.Home, fx.Round}] = append(counts[teamRound{fx.Home, fx.Round}], fx.Row)
		counts[teamRound{fx.Away, fx.Round}] = append(counts[teamRound{fx.Away, fx.Round}], fx.Row)
	}

	var violations []Violation
	for tr, rows := range counts {
		if len(rows) > 1 {
			violations = append(violations, Violation{
				Row:     rows[1],
				Type:    "error",
				Message: fmt.Sprintf("%s plays %d times in round %d", tr.team, len(rows), tr.round),
			})
		}
	}
	return violations
}

func checkHomeBalance(teams []string, fixtures []parsedFixture) []Violation {
	home := make(map[string]int)
	for _, fx := range fixtures {
		home[fx.Home]++
	}

	var violations []Violation
	for _, team := range teams {
		if n := home[team]; n < 2 || n > 3 {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("%s has %d home fixtures, want 2 or 3", team, n),
			})
		}
	}
	return violations
}

func checkWeekendSlots(fixtures []parsedFixture) []Violation {
	var violations []Violation
	for _, fx := range fixtures {
		day := fx.KickOff.Weekday()
		if day != time.Saturday && day != time.Sunday {
			violations = append(violations, Violation{
				Row:     fx.Row,
				Type:    "error",
				Message: fmt.Sprintf("%s v %s kicks off on a %s", fx.Home, fx.Away, day),
			})
		}
	}

	// Kickoffs sharing a day must be at least the minimum gap apart.
	byDay := make(map[string][]time.Time)
	for _, fx := range fixtures {
		key := fx.KickOff.Format("2006-01-02")
		byDay[key] = append(byDay[key], fx.KickOff)
	}
	for day, kickoffs := range byDay {
		sort.Slice(kickoffs, func(i, j int) bool { return kickoffs[i].Before(kickoffs[j]) })
		for i := 1; i < len(kickoffs); i++ {
			if kickoffs[i].Sub(kickoffs[i-1]) < minKickoffGap {
				violations = append(violations, Violation{
					Type:    "error",
					Message: fmt.Sprintf("kick-offs on %s are %v apart", day, kickoffs[i].Sub(kickoffs[i-1])),
				})
			}
		}
	}
	return violations
}

func checkRoundWeekends(fixtures []parsedFixture) []Violation {
	weeks := make(map[int]map[int]bool)
	last := make(map[int]time.Time)
	for _, fx := range fixtures {
		_, week := fx.KickOff.ISOWeek()
		if weeks[fx.Round] == nil {
			weeks[fx.Round] = make(map[int]bool)
		}
		weeks[fx.Round][week] = true
		if fx.KickOff.After(last[fx.Round]) {
			last[fx.Round] = fx.KickOff
		}
	}

	var violations []Violation
	for round, ws := range weeks {
		if len(ws) > 1 {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("round %d spans %d weekends", round, len(ws)),
			})
		}
	}

	// Rounds must land on distinct weekends in order.
	seen := make(map[int]int)
	for round, ws := range weeks {
		for w := range ws {
			if other, ok := seen[w]; ok && other != round {
				violations = append(violations, Violation{
					Type:    "error",
					Message: fmt.Sprintf("rounds %d and %d share a weekend", other, round),
				})
			}
			seen[w] = round
		}
	}
	for round := 1; round < roundCount; round++ {
		a, okA := last[round]
		b, okB := last[round+1]
		if okA && okB && !a.Before(b) {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("round %d does not precede round %d", round, round+1),
			})
		}
	}
	return violations
}

func checkVenues(fixtures []parsedFixture) []Violation {
	var violations []Violation
	for _, fx := range fixtures {
		if fx.Venue == "" || fx.City == "" {
			violations = append(violations, Violation{
				Row:     fx.Row,
				Type:    "warning",
				Message: fmt.Sprintf("%s v %s is missing venue details", fx.Home, fx.Away),
			})
		}
	}
	return violations
}
