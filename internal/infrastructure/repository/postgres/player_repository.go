package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fgcfantasy/draft-league/internal/domain/player"
	qb "github.com/fgcfantasy/draft-league/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	const query = `
INSERT INTO players (name, region, cum_points)
VALUES ($1, $2, $3)
ON CONFLICT (name)
DO UPDATE SET region = EXCLUDED.region`

	if _, err := r.db.ExecContext(ctx, query, p.Name, p.Region, p.CumPoints); err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("name", name)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by name: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) SetCumPoints(ctx context.Context, name string, points int) error {
	const query = `UPDATE players SET cum_points = $2 WHERE name = $1`

	if _, err := r.db.ExecContext(ctx, query, name, points); err != nil {
		return fmt.Errorf("set player cumulative points: %w", err)
	}

	return nil
}
