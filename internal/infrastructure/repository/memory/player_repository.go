package memory

import (
	"context"
	"sync"

	"github.com/fgcfantasy/draft-league/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
	order []string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(players))
	order := make([]string, 0, len(players))
	for _, p := range players {
		items[p.Name] = p
		order = append(order, p.Name)
	}

	return &PlayerRepository{items: items, order: order}
}

func (r *PlayerRepository) Upsert(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.Name]; !ok {
		r.order = append(r.order, p.Name)
	}
	r.items[p.Name] = p

	return nil
}

func (r *PlayerRepository) GetByName(_ context.Context, name string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[name]
	if !ok {
		return player.Player{}, false, nil
	}

	return p, true, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.items[name])
	}

	return out, nil
}

func (r *PlayerRepository) SetCumPoints(_ context.Context, name string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[name]
	if !ok {
		return nil
	}
	p.CumPoints = points
	r.items[name] = p

	return nil
}
