package memory

import (
	"context"
	"sync"

	"github.com/fgcfantasy/draft-league/internal/domain/league"
)

type LeagueRepository struct {
	mu    sync.RWMutex
	items map[string]league.League
	order []string
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{items: make(map[string]league.League)}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[l.ID]; !ok {
		r.order = append(r.order, l.ID)
	}
	r.items[l.ID] = cloneLeague(l)

	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return cloneLeague(l), true, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneLeague(r.items[id]))
	}

	return out, nil
}

func (r *LeagueRepository) Update(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[l.ID]
	if !ok {
		return nil
	}
	l.Version = stored.Version + 1
	r.items[l.ID] = cloneLeague(l)

	return nil
}

// UpdateDraftCursor applies the conditional cursor write under the
// repository lock, matching the single-statement compare-and-swap the
// SQL repository issues.
func (r *LeagueRepository) UpdateDraftCursor(_ context.Context, leagueID string, upd league.DraftCursorUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[leagueID]
	if !ok {
		return league.ErrStaleCursor
	}
	if stored.PickTurn != upd.ExpectedTurn || stored.Version != upd.ExpectedVersion {
		return league.ErrStaleCursor
	}

	stored.PickTurn = upd.Turn
	stored.PickDirection = upd.Direction
	stored.DraftComplete = upd.Complete
	stored.Version++
	r.items[leagueID] = stored

	return nil
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, leagueID)
	for i, id := range r.order {
		if id == leagueID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

func cloneLeague(l league.League) league.League {
	copied := l
	copied.DraftOrder = append([]string(nil), l.DraftOrder...)
	return copied
}
