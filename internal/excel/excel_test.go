package excel

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carwyn/sixnations/internal/model"
)

func testSchedule() *model.Schedule {
	fixture := func(round, day int, ko string, home, away, venue, city string) model.Fixture {
		t, _ := time.Parse("15:04", ko)
		return model.Fixture{
			ID:       uuid.New(),
			Season:   2026,
			Round:    round,
			KickOff:  time.Date(2026, time.February, day, t.Hour(), t.Minute(), 0, 0, time.UTC),
			HomeTeam: home,
			AwayTeam: away,
			Stadium:  venue,
			Location: city,
		}
	}
	return &model.Schedule{
		Season: 2026,
		Fixtures: []model.Fixture{
			fixture(1, 7, "14:45", "England", "Wales", "Twickenham", "London"),
			fixture(1, 7, "17:00", "Ireland", "Italy", "Aviva Stadium", "Dublin"),
			fixture(1, 7, "12:30", "France", "Scotland", "Stade de France", "Saint-Denis"),
			fixture(2, 14, "14:45", "Wales", "Ireland", "Principality Stadium", "Cardiff"),
		},
		Summary: []string{"Round 1: England v Wales at Twickenham, London on Sat 7 Feb 14:45"},
	}
}

func TestGenerateWorkbook(t *testing.T) {
	f, err := Generate(testSchedule())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	master := "2026 Championship"

	t.Run("has championship sheet", func(t *testing.T) {
		idx, err := f.GetSheetIndex(master)
		if err != nil {
			t.Fatalf("GetSheetIndex error: %v", err)
		}
		if idx < 0 {
			t.Errorf("%s sheet not found", master)
		}
	})

	t.Run("championship sheet has headers", func(t *testing.T) {
		val, _ := f.GetCellValue(master, "A1")
		if val != "Round" {
			t.Errorf("A1 = %q, want Round", val)
		}
		val, _ = f.GetCellValue(master, "E1")
		if val != "Home" {
			t.Errorf("E1 = %q, want Home", val)
		}
	})

	t.Run("championship sheet orders by round then kick-off", func(t *testing.T) {
		rows, _ := f.GetRows(master)
		if len(rows) != 5 {
			t.Fatalf("got %d rows, want 5", len(rows))
		}
		// Round 1 fixtures sorted by kick-off, round 2 after.
		if rows[1][4] != "France" {
			t.Errorf("first fixture home = %q, want France", rows[1][4])
		}
		if rows[4][4] != "Wales" {
			t.Errorf("last fixture home = %q, want Wales", rows[4][4])
		}
	})

	t.Run("has a sheet per nation", func(t *testing.T) {
		for _, team := range []string{"England", "France", "Ireland", "Italy", "Scotland", "Wales"} {
			idx, err := f.GetSheetIndex(team)
			if err != nil {
				t.Fatalf("GetSheetIndex(%s) error: %v", team, err)
			}
			if idx < 0 {
				t.Errorf("%s sheet not found", team)
			}
		}
	})

	t.Run("team sheet marks home and away", func(t *testing.T) {
		rows, _ := f.GetRows("Wales")
		if len(rows) != 3 {
			t.Fatalf("Wales rows = %d, want 3", len(rows))
		}
		if rows[1][5] != "Away" || rows[1][4] != "England" {
			t.Errorf("Wales round 1 = %v, want Away v England", rows[1])
		}
		if rows[2][5] != "Home" || rows[2][4] != "Ireland" {
			t.Errorf("Wales round 2 = %v, want Home v Ireland", rows[2])
		}
	})

	t.Run("default sheet removed", func(t *testing.T) {
		idx, _ := f.GetSheetIndex("Sheet1")
		if idx >= 0 {
			t.Error("Sheet1 should be deleted")
		}
	})
}
