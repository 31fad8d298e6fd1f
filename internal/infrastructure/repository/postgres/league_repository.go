package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fgcfantasy/draft-league/internal/domain/league"
	qb "github.com/fgcfantasy/draft-league/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	const query = `
INSERT INTO leagues (id, name, owner_id, locked, draft_order, pick_turn, pick_direction, draft_complete, forfeit, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Name, l.OwnerID, l.Locked, pq.StringArray(l.DraftOrder),
		l.PickTurn, l.PickDirection, l.DraftComplete, l.Forfeit, l.Version,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert league: %w", err)
	}

	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeagueRepository) Update(ctx context.Context, l league.League) error {
	const query = `
UPDATE leagues
SET name = $2,
    locked = $3,
    draft_order = $4,
    pick_turn = $5,
    pick_direction = $6,
    draft_complete = $7,
    forfeit = $8,
    version = version + 1,
    updated_at = $9
WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Name, l.Locked, pq.StringArray(l.DraftOrder),
		l.PickTurn, l.PickDirection, l.DraftComplete, l.Forfeit, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update league: %w", err)
	}

	return nil
}

// UpdateDraftCursor is the pick serialization point: the cursor only
// moves when the stored turn and version still match what the picking
// manager observed, all in one conditional statement. Zero affected
// rows means another pick won the race.
func (r *LeagueRepository) UpdateDraftCursor(ctx context.Context, leagueID string, upd league.DraftCursorUpdate) error {
	const query = `
UPDATE leagues
SET pick_turn = $4,
    pick_direction = $5,
    draft_complete = $6,
    version = version + 1,
    updated_at = now()
WHERE id = $1
  AND pick_turn = $2
  AND version = $3`

	res, err := r.db.ExecContext(ctx, query,
		leagueID, upd.ExpectedTurn, upd.ExpectedVersion,
		upd.Turn, upd.Direction, upd.Complete,
	)
	if err != nil {
		return fmt.Errorf("update draft cursor: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows for draft cursor update: %w", err)
	}
	if affected == 0 {
		return league.ErrStaleCursor
	}

	return nil
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	const query = `DELETE FROM leagues WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, leagueID); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}

	return nil
}
