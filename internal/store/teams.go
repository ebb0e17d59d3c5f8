package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carwyn/sixnations/internal/model"
)

// ErrNotFound reports a missing row; handlers translate it to 404.
var ErrNotFound = errors.New("not found")

// ListTeams returns all teams ordered by ranking.
func (s *Store) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, ranking, stadium_id FROM teams ORDER BY ranking`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Ranking, &t.StadiumID); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// GetTeam returns one team by id.
func (s *Store) GetTeam(ctx context.Context, id uuid.UUID) (model.Team, error) {
	var t model.Team
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, ranking, stadium_id FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Ranking, &t.StadiumID)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Team{}, ErrNotFound
	}
	if err != nil {
		return model.Team{}, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

// CreateTeam inserts a team, assigning an id when none is set.
func (s *Store) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO teams (id, name, ranking, stadium_id) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, t.Ranking, t.StadiumID)
	if err != nil {
		return model.Team{}, fmt.Errorf("create team: %w", err)
	}
	return t, nil
}

// UpdateTeam replaces a team's mutable fields.
func (s *Store) UpdateTeam(ctx context.Context, t model.Team) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE teams SET name = $2, ranking = $3, stadium_id = $4 WHERE id = $1`,
		t.ID, t.Name, t.Ranking, t.StadiumID)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTeam removes a team.
func (s *Store) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListStadiums returns all stadiums ordered by name.
func (s *Store) ListStadiums(ctx context.Context) ([]model.Stadium, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, city, latitude, longitude FROM stadiums ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list stadiums: %w", err)
	}
	defer rows.Close()

	var stadiums []model.Stadium
	for rows.Next() {
		var st model.Stadium
		if err := rows.Scan(&st.ID, &st.Name, &st.City, &st.Latitude, &st.Longitude); err != nil {
			return nil, fmt.Errorf("scan stadium: %w", err)
		}
		stadiums = append(stadiums, st)
	}
	return stadiums, rows.Err()
}

// GetStadium returns one stadium by id.
func (s *Store) GetStadium(ctx context.Context, id uuid.UUID) (model.Stadium, error) {
	var st model.Stadium
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, city, latitude, longitude FROM stadiums WHERE id = $1`, id).
		Scan(&st.ID, &st.Name, &st.City, &st.Latitude, &st.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Stadium{}, ErrNotFound
	}
	if err != nil {
		return model.Stadium{}, fmt.Errorf("get stadium: %w", err)
	}
	return st, nil
}

// CreateStadium inserts a stadium.
func (s *Store) CreateStadium(ctx context.Context, st model.Stadium) (model.Stadium, error) {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO stadiums (id, name, city, latitude, longitude) VALUES ($1, $2, $3, $4, $5)`,
		st.ID, st.Name, st.City, st.Latitude, st.Longitude)
	if err != nil {
		return model.Stadium{}, fmt.Errorf("create stadium: %w", err)
	}
	return st, nil
}

// UpdateStadium replaces a stadium's mutable fields.
func (s *Store) UpdateStadium(ctx context.Context, st model.Stadium) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE stadiums SET name = $2, city = $3, latitude = $4, longitude = $5 WHERE id = $1`,
		st.ID, st.Name, st.City, st.Latitude, st.Longitude)
	if err != nil {
		return fmt.Errorf("update stadium: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStadium removes a stadium.
func (s *Store) DeleteStadium(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM stadiums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stadium: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// StadiumFor resolves a team's home stadium. Implements engine.TeamDirectory.
func (s *Store) StadiumFor(ctx context.Context, teamID uuid.UUID) (model.Stadium, error) {
	var st model.Stadium
	err := s.pool.QueryRow(ctx,
		`SELECT s.id, s.name, s.city, s.latitude, s.longitude
		 FROM stadiums s JOIN teams t ON t.stadium_id = s.id
		 WHERE t.id = $1`, teamID).
		Scan(&st.ID, &st.Name, &st.City, &st.Latitude, &st.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Stadium{}, fmt.Errorf("no stadium for team %s: %w", teamID, ErrNotFound)
	}
	if err != nil {
		return model.Stadium{}, fmt.Errorf("stadium for team: %w", err)
	}
	return st, nil
}
