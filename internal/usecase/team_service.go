package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/draft"
	"github.com/fgcfantasy/draft-league/internal/domain/league"
	"github.com/fgcfantasy/draft-league/internal/domain/manager"
	"github.com/fgcfantasy/draft-league/internal/domain/player"
	"github.com/fgcfantasy/draft-league/internal/domain/team"
	idgen "github.com/fgcfantasy/draft-league/internal/platform/id"
)

type CreateTeamInput struct {
	UserID string
	Name   string
}

type PickPlayerInput struct {
	UserID     string
	PlayerName string
}

// TeamSlotDetail is one roster slot joined with the player's region.
type TeamSlotDetail struct {
	PlayerName string
	Region     string
	Points     int
	JoinedAt   time.Time
	LeftAt     *time.Time
}

type TeamDetail struct {
	Team        team.Team
	Slots       []TeamSlotDetail
	TotalPoints int
}

// PickResult reports the advanced cursor after a successful pick.
type PickResult struct {
	PlayerName    string
	NextTurn      string
	DraftComplete bool
}

// TeamService manages team creation and the draft picks that fill
// rosters while the league is locked.
type TeamService struct {
	managerRepo manager.Repository
	leagueRepo  league.Repository
	teamRepo    team.Repository
	playerRepo  player.Repository
	idGen       idgen.Generator
	now         func() time.Time
}

func NewTeamService(
	managerRepo manager.Repository,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	idGen idgen.Generator,
) *TeamService {
	return &TeamService{
		managerRepo: managerRepo,
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		idGen:       idGen,
		now:         time.Now,
	}
}

// CreateTeam creates the caller's team inside their current league.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	if input.UserID == "" {
		return team.Team{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := league.ValidateName(input.Name); err != nil {
		return team.Team{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	caller, current, err := s.requireMembership(ctx, input.UserID)
	if err != nil {
		return team.Team{}, err
	}

	if _, exists, err := s.teamRepo.GetByOwner(ctx, caller.ID); err != nil {
		return team.Team{}, fmt.Errorf("get team by owner: %w", err)
	} else if exists {
		return team.Team{}, fmt.Errorf("%w: you already have a team", ErrInvalidInput)
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	now := s.now().UTC()
	created := team.Team{
		ID:        teamID,
		OwnerID:   caller.ID,
		LeagueID:  current.ID,
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.teamRepo.Create(ctx, created); err != nil {
		if isDuplicateConstraintError(err) {
			return team.Team{}, fmt.Errorf("%w: duplicate team name", ErrInvalidInput)
		}
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	return created, nil
}

// PickPlayer drafts a player onto the caller's team and advances the
// snake cursor. The preconditions run in a fixed order so the first
// violated rule decides the reported failure. The cursor write is
// conditional on the turn and version the caller observed; losing that
// race returns ErrConflict and the pick can be retried.
func (s *TeamService) PickPlayer(ctx context.Context, input PickPlayerInput) (PickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.PickPlayer")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.PlayerName = strings.TrimSpace(input.PlayerName)
	if input.UserID == "" {
		return PickResult{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.PlayerName == "" {
		return PickResult{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	caller, current, err := s.requireMembership(ctx, input.UserID)
	if err != nil {
		return PickResult{}, err
	}

	myTeam, exists, err := s.teamRepo.GetByOwner(ctx, caller.ID)
	if err != nil {
		return PickResult{}, fmt.Errorf("get team by owner: %w", err)
	}
	if !exists {
		return PickResult{}, fmt.Errorf("%w: you do not have a team", ErrInvalidInput)
	}

	if !current.Locked {
		return PickResult{}, fmt.Errorf("%w: the draft has not begun yet", ErrInvalidInput)
	}
	if current.DraftComplete {
		return PickResult{}, fmt.Errorf("%w: the draft is over", ErrInvalidInput)
	}
	if current.PickTurn != caller.ID {
		return PickResult{}, fmt.Errorf("%w: it is not your turn to pick", ErrInvalidInput)
	}

	if _, exists, err := s.playerRepo.GetByName(ctx, input.PlayerName); err != nil {
		return PickResult{}, fmt.Errorf("get player: %w", err)
	} else if !exists {
		return PickResult{}, fmt.Errorf("%w: %s is not in the player pool", ErrNotFound, input.PlayerName)
	}

	leagueSlots, err := s.teamRepo.ListSlotsByLeague(ctx, current.ID)
	if err != nil {
		return PickResult{}, fmt.Errorf("list league roster slots: %w", err)
	}

	myActive := 0
	for _, slot := range leagueSlots {
		if slot.Active() && slot.TeamID == myTeam.ID {
			myActive++
		}
	}
	if myActive >= draft.RosterSize {
		return PickResult{}, fmt.Errorf("%w: your team is full", ErrInvalidInput)
	}
	for _, slot := range leagueSlots {
		if slot.Active() && slot.PlayerName == input.PlayerName {
			return PickResult{}, fmt.Errorf("%w: %s has already been picked", ErrInvalidInput, input.PlayerName)
		}
	}

	cursor := draft.Cursor{
		Order:     current.DraftOrder,
		Turn:      current.PickTurn,
		Direction: current.PickDirection,
	}
	next, err := cursor.Advance(myActive + 1)
	if err != nil {
		return PickResult{}, fmt.Errorf("advance draft cursor: %w", err)
	}

	upd := league.DraftCursorUpdate{
		ExpectedTurn:    current.PickTurn,
		ExpectedVersion: current.Version,
		Turn:            next.Turn,
		Direction:       next.Direction,
		Complete:        next.Complete,
	}
	if err := s.leagueRepo.UpdateDraftCursor(ctx, current.ID, upd); err != nil {
		if errors.Is(err, league.ErrStaleCursor) {
			return PickResult{}, fmt.Errorf("%w: another pick landed first, retry", ErrConflict)
		}
		return PickResult{}, fmt.Errorf("update draft cursor: %w", err)
	}

	slotID, err := s.idGen.NewID()
	if err != nil {
		return PickResult{}, fmt.Errorf("generate roster slot id: %w", err)
	}
	slot := team.Slot{
		ID:         slotID,
		TeamID:     myTeam.ID,
		LeagueID:   current.ID,
		PlayerName: input.PlayerName,
		JoinedAt:   s.now().UTC(),
	}
	if err := s.teamRepo.AddSlot(ctx, slot); err != nil {
		return PickResult{}, fmt.Errorf("add roster slot: %w", err)
	}

	return PickResult{
		PlayerName:    input.PlayerName,
		NextTurn:      next.Turn,
		DraftComplete: next.Complete,
	}, nil
}

// GetMyTeam returns the caller's full roster, including departed slots
// and their banked points.
func (s *TeamService) GetMyTeam(ctx context.Context, userID string) (TeamDetail, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return TeamDetail{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	caller, _, err := s.requireMembership(ctx, userID)
	if err != nil {
		return TeamDetail{}, err
	}

	myTeam, exists, err := s.teamRepo.GetByOwner(ctx, caller.ID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("get team by owner: %w", err)
	}
	if !exists {
		return TeamDetail{}, fmt.Errorf("%w: you do not have a team", ErrNotFound)
	}

	return s.buildDetail(ctx, myTeam)
}

// GetTeam returns a team in the caller's league by id.
func (s *TeamService) GetTeam(ctx context.Context, userID, teamID string) (TeamDetail, error) {
	userID = strings.TrimSpace(userID)
	teamID = strings.TrimSpace(teamID)
	if userID == "" {
		return TeamDetail{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if teamID == "" {
		return TeamDetail{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	_, current, err := s.requireMembership(ctx, userID)
	if err != nil {
		return TeamDetail{}, err
	}

	target, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("get team: %w", err)
	}
	if !exists || target.LeagueID != current.ID {
		return TeamDetail{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return s.buildDetail(ctx, target)
}

func (s *TeamService) buildDetail(ctx context.Context, t team.Team) (TeamDetail, error) {
	slots, err := s.teamRepo.ListSlots(ctx, t.ID)
	if err != nil {
		return TeamDetail{}, fmt.Errorf("list roster slots: %w", err)
	}

	detail := TeamDetail{Team: t, Slots: make([]TeamSlotDetail, 0, len(slots))}
	for _, slot := range slots {
		region := ""
		if p, exists, err := s.playerRepo.GetByName(ctx, slot.PlayerName); err != nil {
			return TeamDetail{}, fmt.Errorf("get player: %w", err)
		} else if exists {
			region = p.Region
		}

		detail.Slots = append(detail.Slots, TeamSlotDetail{
			PlayerName: slot.PlayerName,
			Region:     region,
			Points:     slot.Points,
			JoinedAt:   slot.JoinedAt,
			LeftAt:     slot.LeftAt,
		})
		detail.TotalPoints += slot.Points
	}

	return detail, nil
}

func (s *TeamService) requireMembership(ctx context.Context, userID string) (manager.Manager, league.League, error) {
	caller, exists, err := s.managerRepo.GetByID(ctx, userID)
	if err != nil {
		return manager.Manager{}, league.League{}, fmt.Errorf("get manager: %w", err)
	}
	if !exists || !caller.InLeague() {
		return manager.Manager{}, league.League{}, fmt.Errorf("%w: you are not in a league", ErrInvalidInput)
	}

	current, exists, err := s.leagueRepo.GetByID(ctx, *caller.LeagueID)
	if err != nil {
		return manager.Manager{}, league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return manager.Manager{}, league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, *caller.LeagueID)
	}

	return caller, current, nil
}
