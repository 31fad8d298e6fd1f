package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fgcfantasy/draft-league/internal/domain/manager"
	qb "github.com/fgcfantasy/draft-league/internal/platform/querybuilder"
)

type ManagerRepository struct {
	db *sqlx.DB
}

func NewManagerRepository(db *sqlx.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

func (r *ManagerRepository) Upsert(ctx context.Context, m manager.Manager) error {
	const query = `
INSERT INTO managers (id, name, league_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id)
DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`

	var leagueID any
	if m.LeagueID != nil {
		leagueID = *m.LeagueID
	}
	if _, err := r.db.ExecContext(ctx, query, m.ID, m.Name, leagueID, m.CreatedAt, m.UpdatedAt); err != nil {
		return fmt.Errorf("upsert manager: %w", err)
	}

	return nil
}

func (r *ManagerRepository) GetByID(ctx context.Context, managerID string) (manager.Manager, bool, error) {
	query, args, err := qb.Select("*").From("managers").
		Where(qb.Eq("id", managerID)).
		ToSQL()
	if err != nil {
		return manager.Manager{}, false, fmt.Errorf("build get manager query: %w", err)
	}

	var row managerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return manager.Manager{}, false, nil
		}
		return manager.Manager{}, false, fmt.Errorf("get manager by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ManagerRepository) ListByLeague(ctx context.Context, leagueID string) ([]manager.Manager, error) {
	query, args, err := qb.Select("*").From("managers").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list managers query: %w", err)
	}

	var rows []managerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list managers by league: %w", err)
	}

	out := make([]manager.Manager, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// AssignLeague joins under a row lock on the league so the member
// count and the membership write are one critical section. Concurrent
// joins on the last open seat serialize here instead of overshooting
// the cap.
func (r *ManagerRepository) AssignLeague(ctx context.Context, managerID, leagueID string, maxMembers int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for league join: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const lockQuery = `SELECT id FROM leagues WHERE id = $1 FOR UPDATE`
	var lockedID string
	if err := tx.GetContext(ctx, &lockedID, lockQuery, leagueID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("league not found: %s", leagueID)
		}
		return fmt.Errorf("lock league row: %w", err)
	}

	const countQuery = `SELECT COUNT(*) FROM managers WHERE league_id = $1`
	var members int
	if err := tx.GetContext(ctx, &members, countQuery, leagueID); err != nil {
		return fmt.Errorf("count league members: %w", err)
	}
	if members >= maxMembers {
		return manager.ErrLeagueFull
	}

	const assignQuery = `UPDATE managers SET league_id = $2, updated_at = now() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, assignQuery, managerID, leagueID); err != nil {
		return fmt.Errorf("assign league membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit league join: %w", err)
	}

	return nil
}

func (r *ManagerRepository) ClearLeague(ctx context.Context, managerID string) error {
	const query = `UPDATE managers SET league_id = NULL, updated_at = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, managerID); err != nil {
		return fmt.Errorf("clear league membership: %w", err)
	}

	return nil
}
