package cache

import (
	"context"
	"strconv"

	"github.com/fgcfantasy/draft-league/internal/domain/event"
	"github.com/fgcfantasy/draft-league/internal/domain/player"
	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
	basecache "github.com/fgcfantasy/draft-league/internal/platform/cache"
)

// PlayerRepository is a read-through cache over the player pool. The
// pool and the cumulative totals only move on admin scoring passes, so
// writes just invalidate and the next read reloads.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) error {
	if err := r.next.Upsert(ctx, p); err != nil {
		return err
	}
	r.cache.Delete(ctx, playerByNameKey(p.Name))
	r.cache.Delete(ctx, playerListKey)
	return nil
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, playerByNameKey(name), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByName{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByName)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) SetCumPoints(ctx context.Context, name string, points int) error {
	if err := r.next.SetCumPoints(ctx, name, points); err != nil {
		return err
	}
	r.cache.Delete(ctx, playerByNameKey(name))
	r.cache.Delete(ctx, playerListKey)
	return nil
}

type cachedPlayerByName struct {
	value  player.Player
	exists bool
}

const playerListKey = "player:list"

func playerByNameKey(name string) string {
	return "player:name:" + name
}

// EventRepository caches the event catalog. Events change on append and
// on score completion only.
type EventRepository struct {
	next  event.Repository
	cache *basecache.Store
}

func NewEventRepository(next event.Repository, cache *basecache.Store) *EventRepository {
	return &EventRepository{next: next, cache: cache}
}

func (r *EventRepository) Create(ctx context.Context, e event.Event) error {
	if err := r.next.Create(ctx, e); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, eventKeyPrefix)
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, eventID string) (event.Event, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, eventByIDKey(eventID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, eventID)
		if err != nil {
			return nil, err
		}
		return cachedEventByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return event.Event{}, false, err
	}

	cached, _ := v.(cachedEventByID)
	return cached.value, cached.exists, nil
}

func (r *EventRepository) List(ctx context.Context) ([]event.Event, error) {
	v, err := r.cache.GetOrLoad(ctx, eventListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]event.Event(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]event.Event)
	return append([]event.Event(nil), items...), nil
}

func (r *EventRepository) MarkComplete(ctx context.Context, eventID string) error {
	if err := r.next.MarkComplete(ctx, eventID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, eventKeyPrefix)
	return nil
}

type cachedEventByID struct {
	value  event.Event
	exists bool
}

const (
	eventKeyPrefix = "event:"
	eventListKey   = eventKeyPrefix + "list"
)

func eventByIDKey(eventID string) string {
	return eventKeyPrefix + "id:" + eventID
}

// ScoringRepository caches the distribution tables, which are seeded
// once and practically never change. Score history reads stay on the
// backing repository since the recompute path wants fresh rows.
type ScoringRepository struct {
	next  scoring.Repository
	cache *basecache.Store
}

func NewScoringRepository(next scoring.Repository, cache *basecache.Store) *ScoringRepository {
	return &ScoringRepository{next: next, cache: cache}
}

func (r *ScoringRepository) UpsertDistribution(ctx context.Context, d scoring.Distribution) error {
	if err := r.next.UpsertDistribution(ctx, d); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, distributionKeyPrefix)
	return nil
}

func (r *ScoringRepository) GetDistribution(ctx context.Context, tier int) (scoring.Distribution, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, distributionByTierKey(tier), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetDistribution(ctx, tier)
		if err != nil {
			return nil, err
		}
		return cachedDistributionByTier{value: cloneDistribution(item), exists: exists}, nil
	})
	if err != nil {
		return scoring.Distribution{}, false, err
	}

	cached, _ := v.(cachedDistributionByTier)
	return cloneDistribution(cached.value), cached.exists, nil
}

func (r *ScoringRepository) ListDistributions(ctx context.Context) ([]scoring.Distribution, error) {
	v, err := r.cache.GetOrLoad(ctx, distributionListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.ListDistributions(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]scoring.Distribution, 0, len(items))
		for _, item := range items {
			out = append(out, cloneDistribution(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]scoring.Distribution)
	out := make([]scoring.Distribution, 0, len(items))
	for _, item := range items {
		out = append(out, cloneDistribution(item))
	}
	return out, nil
}

func (r *ScoringRepository) InsertScores(ctx context.Context, eventID string, scores []scoring.Score) error {
	return r.next.InsertScores(ctx, eventID, scores)
}

func (r *ScoringRepository) HasScores(ctx context.Context, eventID string) (bool, error) {
	return r.next.HasScores(ctx, eventID)
}

func (r *ScoringRepository) ListScoresByEvent(ctx context.Context, eventID string) ([]scoring.Score, error) {
	return r.next.ListScoresByEvent(ctx, eventID)
}

func (r *ScoringRepository) ListScoresByPlayer(ctx context.Context, playerName string) ([]scoring.Score, error) {
	return r.next.ListScoresByPlayer(ctx, playerName)
}

func (r *ScoringRepository) ListScores(ctx context.Context) ([]scoring.Score, error) {
	return r.next.ListScores(ctx)
}

func (r *ScoringRepository) ReplaceTeamScores(ctx context.Context, teamID string, scores []scoring.TeamScore) error {
	return r.next.ReplaceTeamScores(ctx, teamID, scores)
}

func (r *ScoringRepository) ListTeamScores(ctx context.Context, teamID string) ([]scoring.TeamScore, error) {
	return r.next.ListTeamScores(ctx, teamID)
}

type cachedDistributionByTier struct {
	value  scoring.Distribution
	exists bool
}

const (
	distributionKeyPrefix = "distribution:"
	distributionListKey   = distributionKeyPrefix + "list"
)

func distributionByTierKey(tier int) string {
	return distributionKeyPrefix + "tier:" + strconv.Itoa(tier)
}

func cloneDistribution(d scoring.Distribution) scoring.Distribution {
	out := scoring.Distribution{Tier: d.Tier, Points: make(map[int]int, len(d.Points))}
	for rank, pts := range d.Points {
		out.Points[rank] = pts
	}
	return out
}
