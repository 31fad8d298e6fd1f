package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
	qb "github.com/fgcfantasy/draft-league/internal/platform/querybuilder"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) UpsertDistribution(ctx context.Context, d scoring.Distribution) error {
	raw, err := encodeDistributionPoints(d.Points)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO score_distributions (tier, points)
VALUES ($1, $2)
ON CONFLICT (tier)
DO UPDATE SET points = EXCLUDED.points`

	if _, err := r.db.ExecContext(ctx, query, d.Tier, raw); err != nil {
		return fmt.Errorf("upsert score distribution: %w", err)
	}

	return nil
}

func (r *ScoringRepository) GetDistribution(ctx context.Context, tier int) (scoring.Distribution, bool, error) {
	query, args, err := qb.Select("*").From("score_distributions").
		Where(qb.Eq("tier", tier)).
		ToSQL()
	if err != nil {
		return scoring.Distribution{}, false, fmt.Errorf("build get distribution query: %w", err)
	}

	var row distributionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoring.Distribution{}, false, nil
		}
		return scoring.Distribution{}, false, fmt.Errorf("get distribution by tier: %w", err)
	}

	d, err := row.toDomain()
	if err != nil {
		return scoring.Distribution{}, false, err
	}

	return d, true, nil
}

func (r *ScoringRepository) ListDistributions(ctx context.Context) ([]scoring.Distribution, error) {
	query, args, err := qb.Select("*").From("score_distributions").
		OrderBy("tier").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list distributions query: %w", err)
	}

	var rows []distributionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}

	out := make([]scoring.Distribution, 0, len(rows))
	for _, row := range rows {
		d, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, nil
}

// InsertScores writes one event's full score set in a transaction. The
// prior-scores check runs inside the same transaction, and the unique
// (player_name, event_id) index backstops a race between two passes.
func (r *ScoringRepository) InsertScores(ctx context.Context, eventID string, scores []scoring.Score) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for score insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var existing int
	if err := tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM score_history WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("count existing scores: %w", err)
	}
	if existing > 0 {
		return scoring.ErrAlreadyScored
	}

	const insertQuery = `
INSERT INTO score_history (id, player_name, event_id, rank, points)
VALUES ($1, $2, $3, $4, $5)`

	for _, s := range scores {
		if _, err := tx.ExecContext(ctx, insertQuery, s.ID, s.Player, s.EventID, s.Rank, s.Points); err != nil {
			if isUniqueViolation(err) {
				return scoring.ErrAlreadyScored
			}
			return fmt.Errorf("insert score for %s: %w", s.Player, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit score insert: %w", err)
	}

	return nil
}

func (r *ScoringRepository) HasScores(ctx context.Context, eventID string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM score_history WHERE event_id = $1`, eventID); err != nil {
		return false, fmt.Errorf("count scores for event: %w", err)
	}

	return count > 0, nil
}

func (r *ScoringRepository) ListScoresByEvent(ctx context.Context, eventID string) ([]scoring.Score, error) {
	query, args, err := qb.Select("*").From("score_history").
		Where(qb.Eq("event_id", eventID)).
		OrderBy("rank").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list event scores query: %w", err)
	}

	return r.listScores(ctx, query, args)
}

func (r *ScoringRepository) ListScoresByPlayer(ctx context.Context, playerName string) ([]scoring.Score, error) {
	query, args, err := qb.Select("*").From("score_history").
		Where(qb.Eq("player_name", playerName)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player scores query: %w", err)
	}

	return r.listScores(ctx, query, args)
}

func (r *ScoringRepository) ListScores(ctx context.Context) ([]scoring.Score, error) {
	query, args, err := qb.Select("*").From("score_history").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores query: %w", err)
	}

	return r.listScores(ctx, query, args)
}

func (r *ScoringRepository) listScores(ctx context.Context, query string, args []any) ([]scoring.Score, error) {
	var rows []scoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	out := make([]scoring.Score, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// ReplaceTeamScores swaps one team's per-event point slices wholesale.
// The recompute always produces the full set, so delete-and-insert is
// simpler than diffing.
func (r *ScoringRepository) ReplaceTeamScores(ctx context.Context, teamID string, scores []scoring.TeamScore) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team score replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_scores WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("clear team scores: %w", err)
	}

	const insertQuery = `
INSERT INTO team_scores (team_id, event_id, points)
VALUES ($1, $2, $3)`

	for _, s := range scores {
		if _, err := tx.ExecContext(ctx, insertQuery, s.TeamID, s.EventID, s.Points); err != nil {
			return fmt.Errorf("insert team score for event %s: %w", s.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team score replace: %w", err)
	}

	return nil
}

func (r *ScoringRepository) ListTeamScores(ctx context.Context, teamID string) ([]scoring.TeamScore, error) {
	query, args, err := qb.Select("*").From("team_scores").
		Where(qb.Eq("team_id", teamID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team scores query: %w", err)
	}

	var rows []teamScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team scores: %w", err)
	}

	out := make([]scoring.TeamScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
