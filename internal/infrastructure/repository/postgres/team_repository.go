package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fgcfantasy/draft-league/internal/domain/team"
	qb "github.com/fgcfantasy/draft-league/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	const query = `
INSERT INTO teams (id, owner_id, league_id, name, points, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.OwnerID, t.LeagueID, t.Name, t.Points, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}

	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	return r.getOne(ctx, query, args)
}

func (r *TeamRepository) GetByOwner(ctx context.Context, ownerID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("owner_id", ownerID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by owner query: %w", err)
	}

	return r.getOne(ctx, query, args)
}

func (r *TeamRepository) getOne(ctx context.Context, query string, args []any) (team.Team, bool, error) {
	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) SetPoints(ctx context.Context, teamID string, points int) error {
	const query = `UPDATE teams SET points = $2, updated_at = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, teamID, points); err != nil {
		return fmt.Errorf("set team points: %w", err)
	}

	return nil
}

// Delete removes the team and its roster slots in one transaction so a
// half-deleted team never survives a crash between the two statements.
func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_slots WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("delete team slots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, teamID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team delete: %w", err)
	}

	return nil
}

func (r *TeamRepository) AddSlot(ctx context.Context, s team.Slot) error {
	const query = `
INSERT INTO team_slots (id, team_id, league_id, player_name, points, joined_at, left_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var leftAt any
	if s.LeftAt != nil {
		leftAt = *s.LeftAt
	}
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.TeamID, s.LeagueID, s.PlayerName, s.Points, s.JoinedAt, leftAt,
	)
	if err != nil {
		return fmt.Errorf("insert team slot: %w", err)
	}

	return nil
}

func (r *TeamRepository) ListSlots(ctx context.Context, teamID string) ([]team.Slot, error) {
	query, args, err := qb.Select("*").From("team_slots").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("joined_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team slots query: %w", err)
	}

	return r.listSlots(ctx, query, args)
}

func (r *TeamRepository) ListSlotsByLeague(ctx context.Context, leagueID string) ([]team.Slot, error) {
	query, args, err := qb.Select("*").From("team_slots").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("joined_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league slots query: %w", err)
	}

	return r.listSlots(ctx, query, args)
}

func (r *TeamRepository) listSlots(ctx context.Context, query string, args []any) ([]team.Slot, error) {
	var rows []teamSlotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team slots: %w", err)
	}

	out := make([]team.Slot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) SetSlotPoints(ctx context.Context, slotID string, points int) error {
	const query = `UPDATE team_slots SET points = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, slotID, points); err != nil {
		return fmt.Errorf("set team slot points: %w", err)
	}

	return nil
}
