package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/event"
	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
	idgen "github.com/fgcfantasy/draft-league/internal/platform/id"
)

type AppendEventInput struct {
	Name         string
	Tier         int
	StartWeekend time.Time
}

// TimelinePoint is one step in a running points timeline.
type TimelinePoint struct {
	EventName    string    `json:"event_name"`
	EventDate    time.Time `json:"event_date"`
	PointsGained int       `json:"points_gained"`
	PointsBefore int       `json:"points_before"`
	PointsAfter  int       `json:"points_after"`
}

// PlayerEventScore is one player's result joined with its event.
type PlayerEventScore struct {
	EventName string    `json:"event_name"`
	EventDate time.Time `json:"event_date"`
	Rank      int       `json:"rank"`
	Points    int       `json:"points"`
}

// EventService serves the event catalog, raw score history, and the
// cumulative timelines derived from it.
type EventService struct {
	eventRepo   event.Repository
	scoringRepo scoring.Repository
	idGen       idgen.Generator
	now         func() time.Time
}

func NewEventService(eventRepo event.Repository, scoringRepo scoring.Repository, idGen idgen.Generator) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		scoringRepo: scoringRepo,
		idGen:       idGen,
		now:         time.Now,
	}
}

// ListEvents returns the catalog ordered by start weekend.
func (s *EventService) ListEvents(ctx context.Context) ([]event.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

// AppendEvent adds a new event to the catalog. The tier must already
// have a seeded distribution, and the banner image path derives from
// the event name.
func (s *EventService) AppendEvent(ctx context.Context, input AppendEventInput) (event.Event, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return event.Event{}, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if input.Tier <= 0 {
		return event.Event{}, fmt.Errorf("%w: event tier must be positive", ErrInvalidInput)
	}

	if _, exists, err := s.scoringRepo.GetDistribution(ctx, input.Tier); err != nil {
		return event.Event{}, fmt.Errorf("get distribution: %w", err)
	} else if !exists {
		return event.Event{}, fmt.Errorf("%w: tier %d has no distribution", ErrInvalidInput, input.Tier)
	}

	eventID, err := s.idGen.NewID()
	if err != nil {
		return event.Event{}, fmt.Errorf("generate event id: %w", err)
	}

	start := input.StartWeekend
	if start.IsZero() {
		start = s.now().UTC()
	}

	created := event.Event{
		ID:           eventID,
		Name:         input.Name,
		Tier:         input.Tier,
		StartWeekend: start,
		Image:        event.ImagePath(input.Name),
	}
	if err := s.eventRepo.Create(ctx, created); err != nil {
		if isDuplicateConstraintError(err) {
			return event.Event{}, fmt.Errorf("%w: duplicate event name", ErrInvalidInput)
		}
		return event.Event{}, fmt.Errorf("create event: %w", err)
	}

	return created, nil
}

// EventScoreHistory returns the raw score rows for one event.
func (s *EventService) EventScoreHistory(ctx context.Context, eventID string) ([]scoring.Score, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	if _, exists, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	scores, err := s.scoringRepo.ListScoresByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list score history by event: %w", err)
	}

	return scores, nil
}

// PlayerScoreHistory returns a player's results, optionally filtered
// to a membership window [joinedAt, leftAt). A nil leftAt keeps the
// window open-ended.
func (s *EventService) PlayerScoreHistory(ctx context.Context, playerName string, joinedAt, leftAt *time.Time) ([]PlayerEventScore, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	scores, err := s.scoringRepo.ListScoresByPlayer(ctx, playerName)
	if err != nil {
		return nil, fmt.Errorf("list score history by player: %w", err)
	}

	eventByID, err := s.eventIndex(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]PlayerEventScore, 0, len(scores))
	for _, sc := range scores {
		e, ok := eventByID[sc.EventID]
		if !ok {
			continue
		}
		if joinedAt != nil && e.StartWeekend.Before(*joinedAt) {
			continue
		}
		if leftAt != nil && !e.StartWeekend.Before(*leftAt) {
			continue
		}
		rows = append(rows, PlayerEventScore{
			EventName: e.Name,
			EventDate: e.StartWeekend,
			Rank:      sc.Rank,
			Points:    sc.Points,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].EventDate.Before(rows[j].EventDate)
	})

	return rows, nil
}

// PlayerPointsTimeline returns the event-ordered running total of a
// player's points, optionally bounded by a membership window.
func (s *EventService) PlayerPointsTimeline(ctx context.Context, playerName string, joinedAt, leftAt *time.Time) ([]TimelinePoint, error) {
	history, err := s.PlayerScoreHistory(ctx, playerName, joinedAt, leftAt)
	if err != nil {
		return nil, err
	}

	timeline := make([]TimelinePoint, 0, len(history))
	running := 0
	for _, h := range history {
		timeline = append(timeline, TimelinePoint{
			EventName:    h.EventName,
			EventDate:    h.EventDate,
			PointsGained: h.Points,
			PointsBefore: running,
			PointsAfter:  running + h.Points,
		})
		running += h.Points
	}

	return timeline, nil
}

// TeamPointsTimeline returns the event-ordered running total of one
// team's score history.
func (s *EventService) TeamPointsTimeline(ctx context.Context, teamID string) ([]TimelinePoint, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	teamScores, err := s.scoringRepo.ListTeamScores(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team score history: %w", err)
	}

	eventByID, err := s.eventIndex(ctx)
	if err != nil {
		return nil, err
	}

	type dated struct {
		name   string
		date   time.Time
		points int
	}
	rows := make([]dated, 0, len(teamScores))
	for _, ts := range teamScores {
		e, ok := eventByID[ts.EventID]
		if !ok {
			continue
		}
		rows = append(rows, dated{name: e.Name, date: e.StartWeekend, points: ts.Points})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].date.Before(rows[j].date)
	})

	timeline := make([]TimelinePoint, 0, len(rows))
	running := 0
	for _, r := range rows {
		timeline = append(timeline, TimelinePoint{
			EventName:    r.name,
			EventDate:    r.date,
			PointsGained: r.points,
			PointsBefore: running,
			PointsAfter:  running + r.points,
		})
		running += r.points
	}

	return timeline, nil
}

func (s *EventService) eventIndex(ctx context.Context) (map[string]event.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	byID := make(map[string]event.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	return byID, nil
}
