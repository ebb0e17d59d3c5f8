package engine

import (
	"errors"
	"testing"
	"time"
)

func window(season int) (time.Time, time.Time) {
	return time.Date(season, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(season, time.April, 30, 0, 0, 0, 0, time.UTC)
}

func TestAssignDates(t *testing.T) {
	start, end := window(2026)
	dates, notes, err := assignDates(RoundCount, MatchesPerRound, start, end, nil, nil)
	if err != nil {
		t.Fatalf("assignDates() error: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("no rest weeks requested, got notes %v", notes)
	}

	t.Run("every kickoff is on a weekend", func(t *testing.T) {
		for r, round := range dates {
			for _, ko := range round {
				if wd := ko.Weekday(); wd != time.Saturday && wd != time.Sunday {
					t.Errorf("round %d kickoff %s falls on %s", r+1, ko, wd)
				}
			}
		}
	})

	t.Run("same-day kickoffs at least 2 hours apart", func(t *testing.T) {
		for r, round := range dates {
			for i := range round {
				for j := i + 1; j < len(round); j++ {
					a, b := round[i], round[j]
					if a.YearDay() != b.YearDay() || a.Year() != b.Year() {
						continue
					}
					gap := b.Sub(a)
					if gap < 0 {
						gap = -gap
					}
					if gap < minKickoffGap {
						t.Errorf("round %d kickoffs %s and %s only %s apart", r+1, a, b, gap)
					}
				}
			}
		}
	})

	t.Run("rounds occupy distinct weekends", func(t *testing.T) {
		weeks := make(map[int]int)
		for r, round := range dates {
			_, w := round[0].ISOWeek()
			if prev, ok := weeks[w]; ok {
				t.Errorf("rounds %d and %d share ISO week %d", prev, r+1, w)
			}
			weeks[w] = r + 1
		}
	})

	t.Run("round 1 starts on the first weekend in the window", func(t *testing.T) {
		first := dates[0][0]
		if first.Before(start) {
			t.Errorf("round 1 kickoff %s precedes window start", first)
		}
		if first.Sub(start) > 7*24*time.Hour {
			t.Errorf("round 1 kickoff %s more than a week into the window", first)
		}
	})
}

func TestAssignDatesRestWeeks(t *testing.T) {
	start, end := window(2026)
	plain, _, err := assignDates(RoundCount, MatchesPerRound, start, end, nil, nil)
	if err != nil {
		t.Fatalf("assignDates() error: %v", err)
	}
	rested, notes, err := assignDates(RoundCount, MatchesPerRound, start, end, nil, []int{2})
	if err != nil {
		t.Fatalf("assignDates() with rest week error: %v", err)
	}

	t.Run("rounds after the rest week shift by a week", func(t *testing.T) {
		if !rested[1][0].Equal(plain[1][0]) {
			t.Error("round 2 moved despite rest week coming after it")
		}
		want := plain[2][0].AddDate(0, 0, 7)
		if !rested[2][0].Equal(want) {
			t.Errorf("round 3 kickoff %s, want %s", rested[2][0], want)
		}
	})

	t.Run("rest week is noted", func(t *testing.T) {
		if len(notes) != 1 || notes[0] != "Rest Week inserted after round 2" {
			t.Errorf("notes = %v", notes)
		}
	})
}

func TestAssignDatesWindowTooSmall(t *testing.T) {
	start := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 20) // three weekends, five rounds needed

	_, _, err := assignDates(RoundCount, MatchesPerRound, start, end, nil, nil)
	var schedErr *SchedulingError
	if !errors.As(err, &schedErr) {
		t.Fatalf("got %T (%v), want *SchedulingError", err, err)
	}
}

func TestCheckKickoffLayout(t *testing.T) {
	cases := []struct {
		name     string
		kickoffs []Kickoff
		wantErr  bool
	}{
		{
			name:     "default layout",
			kickoffs: DefaultKickoffs,
		},
		{
			name: "saturday sunday split",
			kickoffs: []Kickoff{
				{Day: time.Saturday, Time: "14:15"},
				{Day: time.Saturday, Time: "16:45"},
				{Day: time.Sunday, Time: "15:00"},
			},
		},
		{
			name: "too close on the same day",
			kickoffs: []Kickoff{
				{Day: time.Saturday, Time: "14:00"},
				{Day: time.Saturday, Time: "15:30"},
				{Day: time.Sunday, Time: "15:00"},
			},
			wantErr: true,
		},
		{
			name: "weekday kickoff",
			kickoffs: []Kickoff{
				{Day: time.Friday, Time: "20:00"},
				{Day: time.Saturday, Time: "14:45"},
				{Day: time.Saturday, Time: "17:00"},
			},
			wantErr: true,
		},
		{
			name: "unparseable time",
			kickoffs: []Kickoff{
				{Day: time.Saturday, Time: "kickoff"},
				{Day: time.Saturday, Time: "14:45"},
				{Day: time.Saturday, Time: "17:00"},
			},
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkKickoffLayout(tc.kickoffs)
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
