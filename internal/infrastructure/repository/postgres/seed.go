package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fgcfantasy/draft-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the reference distributions, player pool, and
// event catalog into an empty database. A database that already has
// players is left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM players`); err != nil {
		return fmt.Errorf("count players for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, d := range memory.SeedDistributions() {
		raw, err := encodeDistributionPoints(d.Points)
		if err != nil {
			return err
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO score_distributions (tier, points)
VALUES (:tier, :points)
ON CONFLICT (tier) DO NOTHING`, map[string]any{
			"tier":   d.Tier,
			"points": raw,
		})
		if err != nil {
			return fmt.Errorf("bind seed distribution tier %d query: %w", d.Tier, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed distribution tier %d: %w", d.Tier, err)
		}
	}

	for _, p := range memory.SeedPlayers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (name, region, cum_points)
VALUES (:name, :region, 0)
ON CONFLICT (name) DO NOTHING`, map[string]any{
			"name":   p.Name,
			"region": p.Region,
		})
		if err != nil {
			return fmt.Errorf("bind seed player %s query: %w", p.Name, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.Name, err)
		}
	}

	for _, e := range memory.SeedEvents() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO events (id, name, tier, start_weekend, image, complete)
VALUES (:id, :name, :tier, :start_weekend, :image, FALSE)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":            e.ID,
			"name":          e.Name,
			"tier":          e.Tier,
			"start_weekend": e.StartWeekend.UTC(),
			"image":         e.Image,
		})
		if err != nil {
			return fmt.Errorf("bind seed event %s query: %w", e.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed event %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
