package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carwyn/sixnations/internal/model"
)

// StaticDirectory is an in-memory TeamDirectory, used by the CLI (teams
// defined in the config file) and by tests.
type StaticDirectory map[uuid.UUID]model.Stadium

func (d StaticDirectory) StadiumFor(_ context.Context, teamID uuid.UUID) (model.Stadium, error) {
	st, ok := d[teamID]
	if !ok {
		return model.Stadium{}, fmt.Errorf("no stadium for team %s", teamID)
	}
	return st, nil
}

// StaticHistory is an in-memory FixtureHistory. An empty history is valid:
// every lookup reports no prior meeting.
type StaticHistory []model.PreviousResult

func (h StaticHistory) PreviousMeeting(_ context.Context, a, b uuid.UUID, before int) (*model.PreviousResult, error) {
	var latest *model.PreviousResult
	for i := range h {
		r := h[i]
		if r.Season >= before {
			continue
		}
		match := (r.HomeTeamID == a && r.AwayTeamID == b) || (r.HomeTeamID == b && r.AwayTeamID == a)
		if match && (latest == nil || r.Season > latest.Season) {
			latest = &h[i]
		}
	}
	return latest, nil
}
