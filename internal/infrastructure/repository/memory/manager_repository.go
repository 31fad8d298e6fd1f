package memory

import (
	"context"
	"sync"

	"github.com/fgcfantasy/draft-league/internal/domain/manager"
)

type ManagerRepository struct {
	mu    sync.RWMutex
	items map[string]manager.Manager
	order []string
}

func NewManagerRepository() *ManagerRepository {
	return &ManagerRepository{items: make(map[string]manager.Manager)}
}

func (r *ManagerRepository) Upsert(_ context.Context, m manager.Manager) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.items[m.ID] = cloneManager(m)

	return nil
}

func (r *ManagerRepository) GetByID(_ context.Context, managerID string) (manager.Manager, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[managerID]
	if !ok {
		return manager.Manager{}, false, nil
	}

	return cloneManager(m), true, nil
}

func (r *ManagerRepository) ListByLeague(_ context.Context, leagueID string) ([]manager.Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]manager.Manager, 0)
	for _, id := range r.order {
		m := r.items[id]
		if m.LeagueID != nil && *m.LeagueID == leagueID {
			out = append(out, cloneManager(m))
		}
	}

	return out, nil
}

// AssignLeague performs the capacity check and the membership write
// under one lock, mirroring the row-locked transaction the SQL
// repository uses.
func (r *ManagerRepository) AssignLeague(_ context.Context, managerID, leagueID string, maxMembers int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := 0
	for _, m := range r.items {
		if m.LeagueID != nil && *m.LeagueID == leagueID {
			members++
		}
	}
	if members >= maxMembers {
		return manager.ErrLeagueFull
	}

	m, ok := r.items[managerID]
	if !ok {
		return nil
	}
	assigned := leagueID
	m.LeagueID = &assigned
	r.items[managerID] = m

	return nil
}

func (r *ManagerRepository) ClearLeague(_ context.Context, managerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[managerID]
	if !ok {
		return nil
	}
	m.LeagueID = nil
	r.items[managerID] = m

	return nil
}

func cloneManager(m manager.Manager) manager.Manager {
	copied := m
	if m.LeagueID != nil {
		id := *m.LeagueID
		copied.LeagueID = &id
	}
	return copied
}
