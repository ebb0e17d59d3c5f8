package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carwyn/sixnations/internal/model"
)

const fixtureColumns = `id, season, round, kick_off, home_team_id, away_team_id,
	home_team, away_team, stadium, location`

func scanFixture(row pgx.Row) (model.Fixture, error) {
	var f model.Fixture
	err := row.Scan(&f.ID, &f.Season, &f.Round, &f.KickOff, &f.HomeTeamID, &f.AwayTeamID,
		&f.HomeTeam, &f.AwayTeam, &f.Stadium, &f.Location)
	return f, err
}

// ListFixtures returns authoritative fixtures for a season in round order.
func (s *Store) ListFixtures(ctx context.Context, season int) ([]model.Fixture, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+fixtureColumns+` FROM fixtures WHERE season = $1 ORDER BY round, kick_off`,
		season)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []model.Fixture
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fixture: %w", err)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

// GetFixture returns a single authoritative fixture.
func (s *Store) GetFixture(ctx context.Context, id uuid.UUID) (model.Fixture, error) {
	f, err := scanFixture(s.pool.QueryRow(ctx,
		`SELECT `+fixtureColumns+` FROM fixtures WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Fixture{}, ErrNotFound
	}
	if err != nil {
		return model.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	return f, nil
}

// DeleteFixture removes an authoritative fixture.
func (s *Store) DeleteFixture(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM fixtures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fixture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PreviousMeeting returns the most recent fixture between two teams from any
// season before the given one. A nil result means no prior meeting, which is
// the normal no-history case. Implements engine.FixtureHistory.
func (s *Store) PreviousMeeting(ctx context.Context, a, b uuid.UUID, before int) (*model.PreviousResult, error) {
	var r model.PreviousResult
	err := s.pool.QueryRow(ctx,
		`SELECT season, home_team_id, away_team_id FROM fixtures
		 WHERE ((home_team_id = $1 AND away_team_id = $2)
		    OR (home_team_id = $2 AND away_team_id = $1))
		   AND season < $3
		 ORDER BY season DESC LIMIT 1`, a, b, before).
		Scan(&r.Season, &r.HomeTeamID, &r.AwayTeamID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("previous meeting: %w", err)
	}
	return &r, nil
}

// StageProvisional replaces the provisional schedule for a season with the
// given fixtures. Generated schedules are staged here until an admin
// promotes them.
func (s *Store) StageProvisional(ctx context.Context, season int, fixtures []model.Fixture) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin staging: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM provisional_fixtures WHERE season = $1`, season); err != nil {
		return fmt.Errorf("clear provisional: %w", err)
	}
	for _, f := range fixtures {
		if _, err := tx.Exec(ctx,
			`INSERT INTO provisional_fixtures (`+fixtureColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			f.ID, f.Season, f.Round, f.KickOff, f.HomeTeamID, f.AwayTeamID,
			f.HomeTeam, f.AwayTeam, f.Stadium, f.Location); err != nil {
			return fmt.Errorf("stage fixture: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// ListProvisional returns the staged fixtures for a season.
func (s *Store) ListProvisional(ctx context.Context, season int) ([]model.Fixture, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+fixtureColumns+` FROM provisional_fixtures
		 WHERE season = $1 ORDER BY round, kick_off`, season)
	if err != nil {
		return nil, fmt.Errorf("list provisional: %w", err)
	}
	defer rows.Close()

	var fixtures []model.Fixture
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provisional fixture: %w", err)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

// PromoteProvisional moves a season's staged fixtures into the authoritative
// table, replacing any existing fixtures for that season.
func (s *Store) PromoteProvisional(ctx context.Context, season int) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin promote: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM fixtures WHERE season = $1`, season); err != nil {
		return 0, fmt.Errorf("clear season fixtures: %w", err)
	}
	tag, err := tx.Exec(ctx,
		`INSERT INTO fixtures (`+fixtureColumns+`)
		 SELECT `+fixtureColumns+` FROM provisional_fixtures WHERE season = $1`, season)
	if err != nil {
		return 0, fmt.Errorf("promote fixtures: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("no provisional fixtures for season %d: %w", season, ErrNotFound)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM provisional_fixtures WHERE season = $1`, season); err != nil {
		return 0, fmt.Errorf("clear provisional after promote: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// DiscardProvisional drops a season's staged fixtures.
func (s *Store) DiscardProvisional(ctx context.Context, season int) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM provisional_fixtures WHERE season = $1`, season)
	if err != nil {
		return fmt.Errorf("discard provisional: %w", err)
	}
	return nil
}
