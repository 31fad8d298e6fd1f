package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/fgcfantasy/draft-league/internal/domain/event"
	"github.com/fgcfantasy/draft-league/internal/domain/league"
	"github.com/fgcfantasy/draft-league/internal/domain/player"
	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
	"github.com/fgcfantasy/draft-league/internal/domain/team"
	idgen "github.com/fgcfantasy/draft-league/internal/platform/id"
	"github.com/fgcfantasy/draft-league/internal/platform/resilience"
)

const (
	defaultResyncWorkers  = 4
	maxResyncWorkers      = 16
	recomputeTeamFanout   = 4
	recomputeSingleflight = "scoring:recompute"
)

type ScoreEventInput struct {
	EventID        string
	OrderedPlayers []string
}

type ScoreEventResult struct {
	EventID string
	Rows    int
}

type ResyncInput struct {
	MaxWorkers int
}

type ResyncResult struct {
	LeagueCount  int   `json:"league_count"`
	SuccessCount int   `json:"success_count"`
	FailedCount  int   `json:"failed_count"`
	WorkerCount  int   `json:"worker_count"`
	DurationMs   int64 `json:"duration_ms"`
}

// ScoringService turns an event's ordered finisher list into score
// history and keeps every derived total consistent with that history.
type ScoringService struct {
	eventRepo   event.Repository
	scoringRepo scoring.Repository
	playerRepo  player.Repository
	teamRepo    team.Repository
	leagueRepo  league.Repository
	idGen       idgen.Generator
	now         func() time.Time

	recomputeFlight resilience.SingleFlight
}

func NewScoringService(
	eventRepo event.Repository,
	scoringRepo scoring.Repository,
	playerRepo player.Repository,
	teamRepo team.Repository,
	leagueRepo league.Repository,
	idGen idgen.Generator,
) *ScoringService {
	return &ScoringService{
		eventRepo:   eventRepo,
		scoringRepo: scoringRepo,
		playerRepo:  playerRepo,
		teamRepo:    teamRepo,
		leagueRepo:  leagueRepo,
		idGen:       idGen,
		now:         time.Now,
	}
}

// ScoreEvent records the score history for one event from its ordered
// finisher list. Each finishing position resolves through the event
// tier's distribution step function; the stored rank is the bracket
// rank, not the raw position. Scoring is one-shot: a second pass for
// the same event fails with ErrConflict and writes nothing. On success
// the event is marked complete and every aggregate is recomputed.
func (s *ScoringService) ScoreEvent(ctx context.Context, input ScoreEventInput) (ScoreEventResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ScoreEvent")
	defer span.End()

	input.EventID = strings.TrimSpace(input.EventID)
	if input.EventID == "" {
		return ScoreEventResult{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	target, exists, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return ScoreEventResult{}, fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return ScoreEventResult{}, fmt.Errorf("%w: event=%s", ErrNotFound, input.EventID)
	}

	scored, err := s.scoringRepo.HasScores(ctx, target.ID)
	if err != nil {
		return ScoreEventResult{}, fmt.Errorf("check existing score history: %w", err)
	}
	if scored {
		return ScoreEventResult{}, fmt.Errorf("%w: event %s already has score history", ErrConflict, target.ID)
	}

	dist, exists, err := s.scoringRepo.GetDistribution(ctx, target.Tier)
	if err != nil {
		return ScoreEventResult{}, fmt.Errorf("get distribution: %w", err)
	}
	if !exists {
		return ScoreEventResult{}, fmt.Errorf("%w: no distribution for tier %d", ErrNotFound, target.Tier)
	}

	if len(input.OrderedPlayers) > scoring.MaxFinishers {
		return ScoreEventResult{}, fmt.Errorf("%w: at most %d finishers allowed, got %d", ErrInvalidInput, scoring.MaxFinishers, len(input.OrderedPlayers))
	}
	if len(input.OrderedPlayers) == 0 {
		return ScoreEventResult{}, fmt.Errorf("%w: finisher list is empty", ErrInvalidInput)
	}

	scores := make([]scoring.Score, 0, len(input.OrderedPlayers))
	seen := make(map[string]struct{}, len(input.OrderedPlayers))
	for idx, name := range input.OrderedPlayers {
		name = strings.TrimSpace(name)
		if name == "" {
			return ScoreEventResult{}, fmt.Errorf("%w: finisher at position %d is empty", ErrInvalidInput, idx+1)
		}
		if _, dup := seen[name]; dup {
			return ScoreEventResult{}, fmt.Errorf("%w: %s appears more than once", ErrInvalidInput, name)
		}
		seen[name] = struct{}{}

		position := idx + 1
		rank, ok := dist.BracketFor(position)
		if !ok {
			return ScoreEventResult{}, fmt.Errorf("%w: no bracket covers position %d in tier %d", ErrInvalidInput, position, target.Tier)
		}

		scoreID, err := s.idGen.NewID()
		if err != nil {
			return ScoreEventResult{}, fmt.Errorf("generate score id: %w", err)
		}
		scores = append(scores, scoring.Score{
			ID:      scoreID,
			Player:  name,
			EventID: target.ID,
			Rank:    rank,
			Points:  dist.Points[rank],
		})
	}

	if err := s.scoringRepo.InsertScores(ctx, target.ID, scores); err != nil {
		if errors.Is(err, scoring.ErrAlreadyScored) || isDuplicateConstraintError(err) {
			return ScoreEventResult{}, fmt.Errorf("%w: event %s already has score history", ErrConflict, target.ID)
		}
		return ScoreEventResult{}, fmt.Errorf("insert score history: %w", err)
	}

	if err := s.eventRepo.MarkComplete(ctx, target.ID); err != nil {
		return ScoreEventResult{}, fmt.Errorf("mark event complete: %w", err)
	}

	if err := s.RecomputeAggregates(ctx); err != nil {
		return ScoreEventResult{}, fmt.Errorf("recompute aggregates after scoring: %w", err)
	}

	return ScoreEventResult{EventID: target.ID, Rows: len(scores)}, nil
}

// RecomputeAggregates rebuilds every derived total from the full score
// history: player cumulative points, roster slot points bounded by the
// slot's membership window, team event slices, and team totals. It is
// never incremental, so re-running it is always safe. Concurrent calls
// collapse into one pass.
func (s *ScoringService) RecomputeAggregates(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.RecomputeAggregates")
	defer span.End()

	_, err, _ := s.recomputeFlight.Do(recomputeSingleflight, func() (any, error) {
		return nil, s.recomputeOnce(ctx)
	})

	return err
}

func (s *ScoringService) recomputeOnce(ctx context.Context) error {
	scores, err := s.scoringRepo.ListScores(ctx)
	if err != nil {
		return fmt.Errorf("list score history: %w", err)
	}

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	eventAt := make(map[string]time.Time, len(events))
	for _, e := range events {
		eventAt[e.ID] = e.StartWeekend
	}

	scoresByPlayer := make(map[string][]scoring.Score)
	for _, sc := range scores {
		scoresByPlayer[sc.Player] = append(scoresByPlayer[sc.Player], sc)
	}

	if err := s.recomputePlayers(ctx, scoresByPlayer); err != nil {
		return err
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list leagues: %w", err)
	}
	for _, lg := range leagues {
		if err := s.recomputeLeague(ctx, lg.ID, scoresByPlayer, eventAt); err != nil {
			return fmt.Errorf("recompute league %s: %w", lg.ID, err)
		}
	}

	return nil
}

func (s *ScoringService) recomputePlayers(ctx context.Context, scoresByPlayer map[string][]scoring.Score) error {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}

	for _, p := range players {
		total := 0
		for _, sc := range scoresByPlayer[p.Name] {
			total += sc.Points
		}
		if total == p.CumPoints {
			continue
		}
		if err := s.playerRepo.SetCumPoints(ctx, p.Name, total); err != nil {
			return fmt.Errorf("set cumulative points for %s: %w", p.Name, err)
		}
	}

	return nil
}

// recomputeLeague rebuilds one league's roster slot points, team event
// slices, and team totals. Teams are independent, so they recompute on
// a bounded panic-safe fan-out.
func (s *ScoringService) recomputeLeague(ctx context.Context, leagueID string, scoresByPlayer map[string][]scoring.Score, eventAt map[string]time.Time) error {
	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}

	workers := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(recomputeTeamFanout)
	for _, t := range teams {
		t := t
		workers.Go(func(ctx context.Context) error {
			return s.recomputeTeam(ctx, t, scoresByPlayer, eventAt)
		})
	}

	return workers.Wait()
}

func (s *ScoringService) recomputeTeam(ctx context.Context, t team.Team, scoresByPlayer map[string][]scoring.Score, eventAt map[string]time.Time) error {
	slots, err := s.teamRepo.ListSlots(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("list roster slots for team %s: %w", t.ID, err)
	}

	teamTotal := 0
	pointsByEvent := make(map[string]int)
	for _, slot := range slots {
		slotPoints := 0
		for _, sc := range scoresByPlayer[slot.PlayerName] {
			at, ok := eventAt[sc.EventID]
			if !ok || !slot.Covers(at) {
				continue
			}
			slotPoints += sc.Points
			pointsByEvent[sc.EventID] += sc.Points
		}

		if slotPoints != slot.Points {
			if err := s.teamRepo.SetSlotPoints(ctx, slot.ID, slotPoints); err != nil {
				return fmt.Errorf("set slot points for %s: %w", slot.ID, err)
			}
		}
		teamTotal += slotPoints
	}

	if err := s.teamRepo.SetPoints(ctx, t.ID, teamTotal); err != nil {
		return fmt.Errorf("set team points for %s: %w", t.ID, err)
	}

	teamScores := make([]scoring.TeamScore, 0, len(pointsByEvent))
	for eventID, pts := range pointsByEvent {
		teamScores = append(teamScores, scoring.TeamScore{TeamID: t.ID, EventID: eventID, Points: pts})
	}
	sort.Slice(teamScores, func(i, j int) bool {
		return eventAt[teamScores[i].EventID].Before(eventAt[teamScores[j].EventID])
	})
	if err := s.scoringRepo.ReplaceTeamScores(ctx, t.ID, teamScores); err != nil {
		return fmt.Errorf("replace team score history for %s: %w", t.ID, err)
	}

	return nil
}

// ResyncAllLeagues forces a full aggregate rebuild, fanning leagues out
// over a bounded worker pool. Operator surface for drift repair after
// manual data fixes.
func (s *ScoringService) ResyncAllLeagues(ctx context.Context, input ResyncInput) (ResyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ResyncAllLeagues")
	defer span.End()

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultResyncWorkers
	}
	if workerCount > maxResyncWorkers {
		workerCount = maxResyncWorkers
	}

	started := s.now()

	scores, err := s.scoringRepo.ListScores(ctx)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("list score history: %w", err)
	}
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("list events: %w", err)
	}
	eventAt := make(map[string]time.Time, len(events))
	for _, e := range events {
		eventAt[e.ID] = e.StartWeekend
	}
	scoresByPlayer := make(map[string][]scoring.Score)
	for _, sc := range scores {
		scoresByPlayer[sc.Player] = append(scoresByPlayer[sc.Player], sc)
	}

	if err := s.recomputePlayers(ctx, scoresByPlayer); err != nil {
		return ResyncResult{}, err
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("list leagues: %w", err)
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		workers sync.WaitGroup
		mu      sync.Mutex
		failed  int
	)
	for _, lg := range leagues {
		lg := lg
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			if err := s.recomputeLeague(ctx, lg.ID, scoresByPlayer, eventAt); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}); err != nil {
			workers.Done()
			return ResyncResult{}, fmt.Errorf("submit league resync task: %w", err)
		}
	}
	workers.Wait()

	return ResyncResult{
		LeagueCount:  len(leagues),
		SuccessCount: len(leagues) - failed,
		FailedCount:  failed,
		WorkerCount:  workerCount,
		DurationMs:   time.Since(started).Milliseconds(),
	}, nil
}

// SeedDistributions upserts the reference distributions. Idempotent.
func (s *ScoringService) SeedDistributions(ctx context.Context, dists []scoring.Distribution) error {
	if len(dists) == 0 {
		return fmt.Errorf("%w: no distributions supplied", ErrInvalidInput)
	}
	for _, d := range dists {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		if err := s.scoringRepo.UpsertDistribution(ctx, d); err != nil {
			return fmt.Errorf("upsert distribution tier %d: %w", d.Tier, err)
		}
	}

	return nil
}

// ListDistributions returns the seeded distributions.
func (s *ScoringService) ListDistributions(ctx context.Context) ([]scoring.Distribution, error) {
	dists, err := s.scoringRepo.ListDistributions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}

	return dists, nil
}
