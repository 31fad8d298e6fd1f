package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fgcfantasy/draft-league/internal/domain/event"
)

type EventRepository struct {
	mu    sync.RWMutex
	items map[string]event.Event
	order []string
}

func NewEventRepository(events []event.Event) *EventRepository {
	items := make(map[string]event.Event, len(events))
	order := make([]string, 0, len(events))
	for _, e := range events {
		items[e.ID] = e
		order = append(order, e.ID)
	}

	return &EventRepository{items: items, order: order}
}

func (r *EventRepository) Create(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[e.ID]; !ok {
		r.order = append(r.order, e.ID)
	}
	r.items[e.ID] = e

	return nil
}

func (r *EventRepository) GetByID(_ context.Context, eventID string) (event.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[eventID]
	if !ok {
		return event.Event{}, false, nil
	}

	return e, true, nil
}

func (r *EventRepository) List(_ context.Context) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartWeekend.Before(out[j].StartWeekend)
	})

	return out, nil
}

func (r *EventRepository) MarkComplete(_ context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[eventID]
	if !ok {
		return nil
	}
	e.Complete = true
	r.items[eventID] = e

	return nil
}
