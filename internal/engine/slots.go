package engine

import (
	"fmt"
	"sort"
	"time"
)

// minKickoffGap is the smallest allowed separation between two kickoffs on
// the same calendar day.
const minKickoffGap = 2 * time.Hour

// Kickoff places one match of a round on a weekend day at a clock time.
// Day must be time.Saturday or time.Sunday; Time is "15:04" format.
type Kickoff struct {
	Day  time.Weekday
	Time string
}

// DefaultKickoffs is the traditional Saturday triple-header.
var DefaultKickoffs = []Kickoff{
	{Day: time.Saturday, Time: "12:30"},
	{Day: time.Saturday, Time: "14:45"},
	{Day: time.Saturday, Time: "17:00"},
}

// assignDates gives every round a weekend of its own inside the season
// window and lays the round's kickoffs out on it. Rest weeks leave the
// weekend after the named round empty. Returns one kickoff time per match
// per round, in round order.
func assignDates(roundCount, matchesPerRound int, windowStart, windowEnd time.Time, kickoffs []Kickoff, restWeeks []int) ([][]time.Time, []string, error) {
	if len(kickoffs) == 0 {
		kickoffs = DefaultKickoffs
	}
	if len(kickoffs) != matchesPerRound {
		return nil, nil, &SchedulingError{Message: fmt.Sprintf(
			"kickoff layout has %d slots, need %d per round", len(kickoffs), matchesPerRound)}
	}
	if err := checkKickoffLayout(kickoffs); err != nil {
		return nil, nil, err
	}

	firstSaturday := nextWeekday(windowStart, time.Saturday)
	rest := make(map[int]bool, len(restWeeks))
	for _, r := range restWeeks {
		rest[r] = true
	}

	var notes []string
	dates := make([][]time.Time, roundCount)
	week := 0
	for r := 0; r < roundCount; r++ {
		saturday := firstSaturday.AddDate(0, 0, 7*week)

		dates[r] = make([]time.Time, len(kickoffs))
		for i, k := range kickoffs {
			day := saturday
			if k.Day == time.Sunday {
				day = saturday.AddDate(0, 0, 1)
			}
			clock, err := time.Parse("15:04", k.Time)
			if err != nil {
				return nil, nil, &SchedulingError{Message: fmt.Sprintf("invalid kickoff time %q", k.Time)}
			}
			dates[r][i] = time.Date(day.Year(), day.Month(), day.Day(),
				clock.Hour(), clock.Minute(), 0, 0, day.Location())
		}

		for _, ko := range dates[r] {
			koDay := time.Date(ko.Year(), ko.Month(), ko.Day(), 0, 0, 0, 0, ko.Location())
			if koDay.After(windowEnd) {
				return nil, nil, &SchedulingError{Message: fmt.Sprintf(
					"round %d falls on %s, outside the season window ending %s",
					r+1, saturday.Format("2006-01-02"), windowEnd.Format("2006-01-02"))}
			}
		}

		week++
		if rest[r+1] && r+1 < roundCount {
			notes = append(notes, fmt.Sprintf("Rest Week inserted after round %d", r+1))
			week++
		}
	}
	return dates, notes, nil
}

// checkKickoffLayout rejects layouts with weekday slots or same-day
// kickoffs closer than the minimum gap.
func checkKickoffLayout(kickoffs []Kickoff) error {
	byDay := make(map[time.Weekday][]time.Time)
	for _, k := range kickoffs {
		if k.Day != time.Saturday && k.Day != time.Sunday {
			return &SchedulingError{Message: fmt.Sprintf("kickoff day %s is not a weekend day", k.Day)}
		}
		clock, err := time.Parse("15:04", k.Time)
		if err != nil {
			return &SchedulingError{Message: fmt.Sprintf("invalid kickoff time %q", k.Time)}
		}
		byDay[k.Day] = append(byDay[k.Day], clock)
	}
	for day, times := range byDay {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		for i := 1; i < len(times); i++ {
			if times[i].Sub(times[i-1]) < minKickoffGap {
				return &SchedulingError{Message: fmt.Sprintf(
					"%s kickoffs %s and %s are closer than %s", day,
					times[i-1].Format("15:04"), times[i].Format("15:04"), minKickoffGap)}
			}
		}
	}
	return nil
}

// nextWeekday returns the first date on or after t falling on day.
func nextWeekday(t time.Time, day time.Weekday) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
