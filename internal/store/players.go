package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carwyn/sixnations/internal/model"
)

// ListPlayers returns players, optionally filtered by team.
func (s *Store) ListPlayers(ctx context.Context, teamID *uuid.UUID) ([]model.Player, error) {
	query := `SELECT id, team_id, name, position, squad_number FROM players ORDER BY squad_number`
	args := []any{}
	if teamID != nil {
		query = `SELECT id, team_id, name, position, squad_number FROM players
			 WHERE team_id = $1 ORDER BY squad_number`
		args = append(args, *teamID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []model.Player
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.Position, &p.SquadNumber); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// GetPlayer returns one player by id.
func (s *Store) GetPlayer(ctx context.Context, id uuid.UUID) (model.Player, error) {
	var p model.Player
	err := s.pool.QueryRow(ctx,
		`SELECT id, team_id, name, position, squad_number FROM players WHERE id = $1`, id).
		Scan(&p.ID, &p.TeamID, &p.Name, &p.Position, &p.SquadNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Player{}, ErrNotFound
	}
	if err != nil {
		return model.Player{}, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

// CreatePlayer inserts a player.
func (s *Store) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO players (id, team_id, name, position, squad_number)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.TeamID, p.Name, p.Position, p.SquadNumber)
	if err != nil {
		return model.Player{}, fmt.Errorf("create player: %w", err)
	}
	return p, nil
}

// UpdatePlayer replaces a player's mutable fields.
func (s *Store) UpdatePlayer(ctx context.Context, p model.Player) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE players SET team_id = $2, name = $3, position = $4, squad_number = $5
		 WHERE id = $1`,
		p.ID, p.TeamID, p.Name, p.Position, p.SquadNumber)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePlayer removes a player.
func (s *Store) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
