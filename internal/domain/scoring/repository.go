package scoring

import (
	"context"
	"errors"
)

// ErrAlreadyScored is returned by InsertScores when any score row for
// the event already exists. Scoring an event is a one-shot operation.
var ErrAlreadyScored = errors.New("event already has score history")

type Repository interface {
	UpsertDistribution(ctx context.Context, d Distribution) error
	GetDistribution(ctx context.Context, tier int) (Distribution, bool, error)
	ListDistributions(ctx context.Context) ([]Distribution, error)

	// InsertScores writes the full score set for one event atomically
	// with the no-prior-scores check. A concurrent or repeated pass
	// gets ErrAlreadyScored and writes nothing.
	InsertScores(ctx context.Context, eventID string, scores []Score) error
	HasScores(ctx context.Context, eventID string) (bool, error)
	ListScoresByEvent(ctx context.Context, eventID string) ([]Score, error)
	ListScoresByPlayer(ctx context.Context, playerName string) ([]Score, error)
	ListScores(ctx context.Context) ([]Score, error)

	ReplaceTeamScores(ctx context.Context, teamID string, scores []TeamScore) error
	ListTeamScores(ctx context.Context, teamID string) ([]TeamScore, error)
}
