package engine

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/carwyn/sixnations/internal/model"
)

// TravelMinimizingVenues gives home advantage to whichever choice costs the
// travelling side the shorter great-circle trip, subject to the same home
// game cap as the balanced strategy. The summary reports each team's season
// travel and the overall total.
type TravelMinimizingVenues struct{}

func (s *TravelMinimizingVenues) Name() string { return "travel" }

func (s *TravelMinimizingVenues) Assign(ctx context.Context, rounds [][]Pairing, env *Env) ([][]Match, []string, error) {
	stadiums := make(map[uuid.UUID]model.Stadium)
	lookup := func(t model.Team) (model.Stadium, error) {
		if st, ok := stadiums[t.ID]; ok {
			return st, nil
		}
		st, err := env.Directory.StadiumFor(ctx, t.ID)
		if err != nil {
			return model.Stadium{}, &DataLookupError{Op: "stadium lookup for " + t.Name, Err: err}
		}
		stadiums[t.ID] = st
		return st, nil
	}

	homeCount := make(map[uuid.UUID]int)
	awayCount := make(map[uuid.UUID]int)
	travelled := make(map[uuid.UUID]float64)
	names := make(map[uuid.UUID]string)

	out := make([][]Match, len(rounds))
	for r, round := range rounds {
		out[r] = make([]Match, len(round))
		for i, p := range round {
			sa, err := lookup(p.A)
			if err != nil {
				return nil, nil, err
			}
			sb, err := lookup(p.B)
			if err != nil {
				return nil, nil, err
			}
			names[p.A.ID], names[p.B.ID] = p.A.Name, p.B.Name

			trip := haversineKm(sa.Latitude, sa.Longitude, sb.Latitude, sb.Longitude)

			// The trip length is symmetric, so the choice only decides who
			// travels. Sending the side with the lower running total evens
			// out season travel.
			var m Match
			switch {
			case homeCount[p.A.ID] >= maxHomeGames, awayCount[p.B.ID] >= maxAwayGames:
				m = Match{Home: p.B, Away: p.A}
			case homeCount[p.B.ID] >= maxHomeGames, awayCount[p.A.ID] >= maxAwayGames:
				m = Match{Home: p.A, Away: p.B}
			case travelled[p.A.ID] <= travelled[p.B.ID]:
				m = Match{Home: p.B, Away: p.A}
			default:
				m = Match{Home: p.A, Away: p.B}
			}

			homeCount[m.Home.ID]++
			awayCount[m.Away.ID]++
			travelled[m.Away.ID] += trip
			out[r][i] = m
		}
	}

	var notes []string
	total := 0.0
	for id, km := range travelled {
		total += km
		notes = append(notes, fmt.Sprintf("%s travel %.0f km this season", names[id], km))
	}
	sort.Strings(notes)
	notes = append(notes, fmt.Sprintf("Total away travel: %.0f km", total))
	return out, notes, nil
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
