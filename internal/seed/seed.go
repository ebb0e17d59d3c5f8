// Package seed loads the six nations and their stadiums into the database.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

type nation struct {
	name    string
	ranking int
	stadium string
	city    string
	lat     float64
	lon     float64
}

// Rankings reflect finishing positions going into the seeded season; admins
// adjust them through the API afterwards.
var nations = []nation{
	{"Ireland", 1, "Aviva Stadium", "Dublin", 53.3352, -6.2285},
	{"France", 2, "Stade de France", "Saint-Denis", 48.9244, 2.3601},
	{"England", 3, "Twickenham", "London", 51.4559, -0.3416},
	{"Scotland", 4, "Murrayfield", "Edinburgh", 55.9422, -3.2409},
	{"Wales", 5, "Principality Stadium", "Cardiff", 51.4782, -3.1826},
	{"Italy", 6, "Stadio Olimpico", "Rome", 41.9339, 12.4547},
}

// Run applies the schema and inserts the reference teams and stadiums.
// Existing teams are left untouched.
func Run(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	inserted := 0
	for _, n := range nations {
		var exists bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM teams WHERE name = $1)`, n.name).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check team %s: %w", n.name, err)
		}
		if exists {
			continue
		}

		stadiumID := uuid.New()
		if _, err := pool.Exec(ctx,
			`INSERT INTO stadiums (id, name, city, latitude, longitude)
			 VALUES ($1, $2, $3, $4, $5)`,
			stadiumID, n.stadium, n.city, n.lat, n.lon); err != nil {
			return fmt.Errorf("insert stadium %s: %w", n.stadium, err)
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO teams (id, name, ranking, stadium_id)
			 VALUES ($1, $2, $3, $4)`,
			uuid.New(), n.name, n.ranking, stadiumID); err != nil {
			return fmt.Errorf("insert team %s: %w", n.name, err)
		}
		inserted++
		logger.Info("seeded team", zap.String("team", n.name), zap.String("stadium", n.stadium))
	}

	logger.Info("seeding complete", zap.Int("inserted", inserted), zap.Int("existing", len(nations)-inserted))
	return nil
}
