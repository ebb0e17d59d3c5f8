// Package excel renders a generated schedule to an Excel workbook with a
// master fixture list and one sheet per nation.
package excel

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/carwyn/sixnations/internal/model"
)

// Generate creates an Excel workbook with the championship schedule and
// per-team sheets.
func Generate(schedule *model.Schedule) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetDefaultFont("Arial")

	if err := writeMasterSheet(f, schedule); err != nil {
		return nil, fmt.Errorf("writing master sheet: %w", err)
	}

	if err := writeTeamSheets(f, schedule); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func sortedFixtures(schedule *model.Schedule) []model.Fixture {
	fixtures := make([]model.Fixture, len(schedule.Fixtures))
	copy(fixtures, schedule.Fixtures)
	sort.Slice(fixtures, func(i, j int) bool {
		if fixtures[i].Round != fixtures[j].Round {
			return fixtures[i].Round < fixtures[j].Round
		}
		return fixtures[i].KickOff.Before(fixtures[j].KickOff)
	})
	return fixtures
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func bodyStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	return style
}

func writeMasterSheet(f *excelize.File, schedule *model.Schedule) error {
	sheet := fmt.Sprintf("%d Championship", schedule.Season)
	f.NewSheet(sheet)

	headers := []string{"Round", "Date", "Day", "Kick-off", "Home", "Away", "Venue", "City"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}

	hs := headerStyle(f)
	if hs != 0 {
		for i := range headers {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), hs)
		}
	}

	cs := bodyStyle(f)

	// Round boundaries get a heavier top border so match weeks read as
	// blocks.
	boundaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 16, Family: "Arial"},
		Border: []excelize.Border{{Type: "top", Color: "#4472C4", Style: 2}},
	})

	fixtures := sortedFixtures(schedule)
	prevRound := 0
	for i, fx := range fixtures {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), fx.Round)
		f.SetCellValue(sheet, cellRef(2, row), fx.KickOff.Format("02/01/2006"))
		f.SetCellValue(sheet, cellRef(3, row), fx.KickOff.Format("Mon"))
		f.SetCellValue(sheet, cellRef(4, row), fx.KickOff.Format("15:04"))
		f.SetCellValue(sheet, cellRef(5, row), fx.HomeTeam)
		f.SetCellValue(sheet, cellRef(6, row), fx.AwayTeam)
		f.SetCellValue(sheet, cellRef(7, row), fx.Stadium)
		f.SetCellValue(sheet, cellRef(8, row), fx.Location)

		style := cs
		if fx.Round != prevRound && prevRound != 0 && boundaryStyle != 0 {
			style = boundaryStyle
		}
		prevRound = fx.Round
		if style != 0 {
			for col := 1; col <= len(headers); col++ {
				f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), style)
			}
		}
	}

	widths := map[string]float64{"A": 9, "B": 14, "C": 8, "D": 11, "E": 14, "F": 14, "G": 26, "H": 16}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	return nil
}

func teamNames(fixtures []model.Fixture) []string {
	seen := make(map[string]bool)
	var names []string
	for _, fx := range fixtures {
		for _, name := range []string{fx.HomeTeam, fx.AwayTeam} {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func writeTeamSheets(f *excelize.File, schedule *model.Schedule) error {
	fixtures := sortedFixtures(schedule)

	for _, team := range teamNames(fixtures) {
		sheet := team
		f.NewSheet(sheet)

		headers := []string{"Round", "Date", "Day", "Kick-off", "Opponent", "Home/Away", "Venue"}
		for i, h := range headers {
			f.SetCellValue(sheet, cellRef(i+1, 1), h)
		}

		hs := headerStyle(f)
		if hs != 0 {
			for i := range headers {
				f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), hs)
			}
		}

		cs := bodyStyle(f)

		row := 2
		for _, fx := range fixtures {
			var opponent, homeAway string
			switch team {
			case fx.HomeTeam:
				opponent, homeAway = fx.AwayTeam, "Home"
			case fx.AwayTeam:
				opponent, homeAway = fx.HomeTeam, "Away"
			default:
				continue
			}

			f.SetCellValue(sheet, cellRef(1, row), fx.Round)
			f.SetCellValue(sheet, cellRef(2, row), fx.KickOff.Format("02/01/2006"))
			f.SetCellValue(sheet, cellRef(3, row), fx.KickOff.Format("Mon"))
			f.SetCellValue(sheet, cellRef(4, row), fx.KickOff.Format("15:04"))
			f.SetCellValue(sheet, cellRef(5, row), opponent)
			f.SetCellValue(sheet, cellRef(6, row), homeAway)
			f.SetCellValue(sheet, cellRef(7, row), fx.Stadium)
			if cs != 0 {
				for col := 1; col <= len(headers); col++ {
					f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), cs)
				}
			}
			row++
		}

		widths := map[string]float64{"A": 9, "B": 14, "C": 8, "D": 11, "E": 14, "F": 14, "G": 26}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}

	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
