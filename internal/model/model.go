// Package model holds the domain types shared by the scheduling engine,
// the persistence layer and the HTTP API.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Team is a competing nation. Ranking is 1-based, 1 being the strongest.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Ranking   int       `json:"ranking"`
	StadiumID uuid.UUID `json:"stadium_id"`
}

// Stadium is a team's home venue. Coordinates are decimal degrees and feed
// the travel-minimizing venue strategy.
type Stadium struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// Player is a squad member of a team.
type Player struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	SquadNumber int       `json:"squad_number"`
}

// Fixture is a scheduled match. Stadium and Location are resolved from the
// home team's venue at assembly time and are never empty on a generated
// schedule.
type Fixture struct {
	ID         uuid.UUID `json:"id"`
	Season     int       `json:"season"`
	Round      int       `json:"round"`
	KickOff    time.Time `json:"kick_off"`
	HomeTeamID uuid.UUID `json:"home_team_id"`
	AwayTeamID uuid.UUID `json:"away_team_id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	Stadium    string    `json:"stadium"`
	Location   string    `json:"location"`
}

// PreviousResult records a prior-season meeting between two teams. The
// engine reads it only to alternate venues; it is never written back.
type PreviousResult struct {
	Season     int       `json:"season"`
	HomeTeamID uuid.UUID `json:"home_team_id"`
	AwayTeamID uuid.UUID `json:"away_team_id"`
}

// Schedule is the output of one generation run: the 15 fixtures in round
// order plus a log of the decisions taken along the way.
type Schedule struct {
	Season   int       `json:"season"`
	Fixtures []Fixture `json:"fixtures"`
	Summary  []string  `json:"summary"`
}
