package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
)

type ScoringRepository struct {
	mu         sync.RWMutex
	dists      map[int]scoring.Distribution
	scores     []scoring.Score
	teamScores map[string][]scoring.TeamScore
}

func NewScoringRepository(dists []scoring.Distribution) *ScoringRepository {
	byTier := make(map[int]scoring.Distribution, len(dists))
	for _, d := range dists {
		byTier[d.Tier] = cloneDistribution(d)
	}

	return &ScoringRepository{
		dists:      byTier,
		teamScores: make(map[string][]scoring.TeamScore),
	}
}

func (r *ScoringRepository) UpsertDistribution(_ context.Context, d scoring.Distribution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dists[d.Tier] = cloneDistribution(d)

	return nil
}

func (r *ScoringRepository) GetDistribution(_ context.Context, tier int) (scoring.Distribution, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dists[tier]
	if !ok {
		return scoring.Distribution{}, false, nil
	}

	return cloneDistribution(d), true, nil
}

func (r *ScoringRepository) ListDistributions(_ context.Context) ([]scoring.Distribution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.Distribution, 0, len(r.dists))
	for _, d := range r.dists {
		out = append(out, cloneDistribution(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })

	return out, nil
}

// InsertScores checks for existing event rows and appends the batch
// under one lock, the in-memory analogue of the insert transaction
// guarded by the unique (player, event) constraint.
func (r *ScoringRepository) InsertScores(_ context.Context, eventID string, scores []scoring.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.scores {
		if existing.EventID == eventID {
			return scoring.ErrAlreadyScored
		}
	}
	for _, sc := range scores {
		r.scores = append(r.scores, sc)
	}

	return nil
}

func (r *ScoringRepository) HasScores(_ context.Context, eventID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sc := range r.scores {
		if sc.EventID == eventID {
			return true, nil
		}
	}

	return false, nil
}

func (r *ScoringRepository) ListScoresByEvent(_ context.Context, eventID string) ([]scoring.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.Score, 0)
	for _, sc := range r.scores {
		if sc.EventID == eventID {
			out = append(out, sc)
		}
	}

	return out, nil
}

func (r *ScoringRepository) ListScoresByPlayer(_ context.Context, playerName string) ([]scoring.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.Score, 0)
	for _, sc := range r.scores {
		if sc.Player == playerName {
			out = append(out, sc)
		}
	}

	return out, nil
}

func (r *ScoringRepository) ListScores(_ context.Context) ([]scoring.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]scoring.Score(nil), r.scores...), nil
}

func (r *ScoringRepository) ReplaceTeamScores(_ context.Context, teamID string, scores []scoring.TeamScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teamScores[teamID] = append([]scoring.TeamScore(nil), scores...)

	return nil
}

func (r *ScoringRepository) ListTeamScores(_ context.Context, teamID string) ([]scoring.TeamScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]scoring.TeamScore(nil), r.teamScores[teamID]...), nil
}

func cloneDistribution(d scoring.Distribution) scoring.Distribution {
	copied := d
	copied.Points = make(map[int]int, len(d.Points))
	for k, v := range d.Points {
		copied.Points[k] = v
	}
	return copied
}
