package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/team"
)

type TeamRepository struct {
	mu        sync.RWMutex
	teams     map[string]team.Team
	teamOrder []string
	slots     map[string]team.Slot
	slotOrder []string
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		teams: make(map[string]team.Team),
		slots: make(map[string]team.Slot),
	}
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.teams[t.ID]; !ok {
		r.teamOrder = append(r.teamOrder, t.ID)
	}
	r.teams[t.ID] = t

	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return t, true, nil
}

func (r *TeamRepository) GetByOwner(_ context.Context, ownerID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.teamOrder {
		t := r.teams[id]
		if t.OwnerID == ownerID {
			return t, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, id := range r.teamOrder {
		t := r.teams[id]
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}

	return out, nil
}

func (r *TeamRepository) SetPoints(_ context.Context, teamID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[teamID]
	if !ok {
		return nil
	}
	t.Points = points
	t.UpdatedAt = time.Now().UTC()
	r.teams[teamID] = t

	return nil
}

// Delete removes the team and its roster slots, matching the cascading
// foreign key in the SQL schema.
func (r *TeamRepository) Delete(_ context.Context, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.teams, teamID)
	for i, id := range r.teamOrder {
		if id == teamID {
			r.teamOrder = append(r.teamOrder[:i], r.teamOrder[i+1:]...)
			break
		}
	}

	kept := r.slotOrder[:0]
	for _, id := range r.slotOrder {
		if r.slots[id].TeamID == teamID {
			delete(r.slots, id)
			continue
		}
		kept = append(kept, id)
	}
	r.slotOrder = kept

	return nil
}

func (r *TeamRepository) AddSlot(_ context.Context, s team.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[s.ID]; !ok {
		r.slotOrder = append(r.slotOrder, s.ID)
	}
	r.slots[s.ID] = cloneSlot(s)

	return nil
}

func (r *TeamRepository) ListSlots(_ context.Context, teamID string) ([]team.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Slot, 0)
	for _, id := range r.slotOrder {
		s := r.slots[id]
		if s.TeamID == teamID {
			out = append(out, cloneSlot(s))
		}
	}

	return out, nil
}

func (r *TeamRepository) ListSlotsByLeague(_ context.Context, leagueID string) ([]team.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Slot, 0)
	for _, id := range r.slotOrder {
		s := r.slots[id]
		if s.LeagueID == leagueID {
			out = append(out, cloneSlot(s))
		}
	}

	return out, nil
}

func (r *TeamRepository) SetSlotPoints(_ context.Context, slotID string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok {
		return nil
	}
	s.Points = points
	r.slots[slotID] = s

	return nil
}

func cloneSlot(s team.Slot) team.Slot {
	copied := s
	if s.LeftAt != nil {
		at := *s.LeftAt
		copied.LeftAt = &at
	}
	return copied
}
