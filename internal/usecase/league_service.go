package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/league"
	"github.com/fgcfantasy/draft-league/internal/domain/manager"
	"github.com/fgcfantasy/draft-league/internal/domain/team"
	idgen "github.com/fgcfantasy/draft-league/internal/platform/id"
)

type CreateLeagueInput struct {
	UserID      string
	DisplayName string
	Name        string
}

type JoinLeagueInput struct {
	UserID      string
	DisplayName string
	LeagueID    string
}

type SetForfeitInput struct {
	UserID  string
	Forfeit string
}

type AssignDraftOrderInput struct {
	UserID       string
	OrderedNames []string
}

// LeagueDetail is a league together with its current membership.
type LeagueDetail struct {
	League  league.League
	Members []manager.Manager
}

// LeagueService runs the league lifecycle: creation, membership, the
// forfeit clause, and the transition into a locked draft.
type LeagueService struct {
	managerRepo manager.Repository
	leagueRepo  league.Repository
	teamRepo    team.Repository
	idGen       idgen.Generator
	now         func() time.Time
}

func NewLeagueService(
	managerRepo manager.Repository,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	idGen idgen.Generator,
) *LeagueService {
	return &LeagueService{
		managerRepo: managerRepo,
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		idGen:       idGen,
		now:         time.Now,
	}
}

// CreateAndJoin creates a league owned by the caller and joins them as
// its first member. The caller must not already belong to a league.
func (s *LeagueService) CreateAndJoin(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := league.ValidateName(input.Name); err != nil {
		return league.League{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	caller, err := s.ensureManager(ctx, input.UserID, input.DisplayName)
	if err != nil {
		return league.League{}, err
	}
	if caller.InLeague() {
		return league.League{}, fmt.Errorf("%w: you are already in a league", ErrInvalidInput)
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	now := s.now().UTC()
	created := league.League{
		ID:            leagueID,
		Name:          input.Name,
		OwnerID:       caller.ID,
		Locked:        false,
		PickDirection: 1,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.leagueRepo.Create(ctx, created); err != nil {
		if isDuplicateConstraintError(err) {
			return league.League{}, fmt.Errorf("%w: duplicate league name", ErrInvalidInput)
		}
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	if err := s.managerRepo.AssignLeague(ctx, caller.ID, leagueID, league.MaxMembers); err != nil {
		return league.League{}, fmt.Errorf("join own league: %w", err)
	}

	return created, nil
}

// Join adds the caller to an existing unlocked league. The capacity
// check runs inside the repository's guarded mutation, so two racing
// joins on the last seat can never both land.
func (s *LeagueService) Join(ctx context.Context, input JoinLeagueInput) (league.League, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	caller, err := s.ensureManager(ctx, input.UserID, input.DisplayName)
	if err != nil {
		return league.League{}, err
	}
	if caller.InLeague() {
		return league.League{}, fmt.Errorf("%w: you are already in a league", ErrInvalidInput)
	}

	target, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if target.Locked {
		return league.League{}, fmt.Errorf("%w: league is locked", ErrInvalidInput)
	}

	if err := s.managerRepo.AssignLeague(ctx, caller.ID, target.ID, league.MaxMembers); err != nil {
		if errors.Is(err, manager.ErrLeagueFull) {
			return league.League{}, fmt.Errorf("%w: league is full", ErrConflict)
		}
		return league.League{}, fmt.Errorf("assign league membership: %w", err)
	}

	return target, nil
}

// Leave removes the caller from their league. The owner may only leave
// as the sole remaining member, which deletes the league with them; a
// zero-member league never persists.
func (s *LeagueService) Leave(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	caller, current, err := s.requireMembership(ctx, userID)
	if err != nil {
		return err
	}
	if current.Locked {
		return fmt.Errorf("%w: cannot leave a locked league", ErrInvalidInput)
	}

	if current.OwnerID == caller.ID {
		members, err := s.managerRepo.ListByLeague(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("list league members: %w", err)
		}
		if len(members) > 1 {
			return fmt.Errorf("%w: transfer or wait for members to leave before deleting the league", ErrInvalidInput)
		}
		if err := s.deleteCallerTeam(ctx, caller.ID); err != nil {
			return err
		}
		if err := s.managerRepo.ClearLeague(ctx, caller.ID); err != nil {
			return fmt.Errorf("clear league membership: %w", err)
		}
		if err := s.leagueRepo.Delete(ctx, current.ID); err != nil {
			return fmt.Errorf("delete league: %w", err)
		}
		return nil
	}

	if err := s.deleteCallerTeam(ctx, caller.ID); err != nil {
		return err
	}
	if err := s.managerRepo.ClearLeague(ctx, caller.ID); err != nil {
		return fmt.Errorf("clear league membership: %w", err)
	}

	return nil
}

// SetForfeit records the stakes the losing manager owes. Owner only.
func (s *LeagueService) SetForfeit(ctx context.Context, input SetForfeitInput) error {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Forfeit = strings.TrimSpace(input.Forfeit)
	if input.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if err := league.ValidateForfeit(input.Forfeit); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	caller, current, err := s.requireMembership(ctx, input.UserID)
	if err != nil {
		return err
	}
	if current.OwnerID != caller.ID {
		return fmt.Errorf("%w: only the league owner can set the forfeit", ErrUnauthorized)
	}

	current.Forfeit = input.Forfeit
	current.UpdatedAt = s.now().UTC()
	if err := s.leagueRepo.Update(ctx, current); err != nil {
		return fmt.Errorf("update league forfeit: %w", err)
	}

	return nil
}

// AssignDraftOrder stores the first-round pick order. The submitted
// names must be an exact permutation of the current member display
// names; they are resolved to manager ids before storage.
func (s *LeagueService) AssignDraftOrder(ctx context.Context, input AssignDraftOrderInput) error {
	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(input.OrderedNames) == 0 {
		return fmt.Errorf("%w: draft order is required", ErrInvalidInput)
	}

	caller, current, err := s.requireMembership(ctx, input.UserID)
	if err != nil {
		return err
	}
	if current.OwnerID != caller.ID {
		return fmt.Errorf("%w: only the league owner can assign the draft order", ErrUnauthorized)
	}
	if current.Locked {
		return fmt.Errorf("%w: the draft has already begun", ErrInvalidInput)
	}

	members, err := s.managerRepo.ListByLeague(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("list league members: %w", err)
	}

	idByName := make(map[string]string, len(members))
	for _, m := range members {
		idByName[m.Name] = m.ID
	}
	if len(input.OrderedNames) != len(members) {
		return fmt.Errorf("%w: draft order must include every member exactly once", ErrInvalidInput)
	}

	order := make([]string, 0, len(input.OrderedNames))
	seen := make(map[string]struct{}, len(input.OrderedNames))
	for _, name := range input.OrderedNames {
		name = strings.TrimSpace(name)
		id, ok := idByName[name]
		if !ok {
			return fmt.Errorf("%w: %s is not a member of this league", ErrInvalidInput, name)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s appears more than once in the draft order", ErrInvalidInput, name)
		}
		seen[id] = struct{}{}
		order = append(order, id)
	}

	current.DraftOrder = order
	current.PickTurn = order[0]
	current.PickDirection = 1
	current.DraftComplete = false
	current.UpdatedAt = s.now().UTC()
	if err := s.leagueRepo.Update(ctx, current); err != nil {
		return fmt.Errorf("update league draft order: %w", err)
	}

	return nil
}

// BeginDraft locks the league and opens picking. The stored order is
// re-validated against the membership at call time, since members may
// have joined or left after the order was assigned.
func (s *LeagueService) BeginDraft(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	caller, current, err := s.requireMembership(ctx, userID)
	if err != nil {
		return err
	}
	if current.OwnerID != caller.ID {
		return fmt.Errorf("%w: only the league owner can begin the draft", ErrUnauthorized)
	}
	if current.Locked {
		return fmt.Errorf("%w: the draft has already begun", ErrInvalidInput)
	}
	if !current.DraftOrderAssigned() {
		return fmt.Errorf("%w: assign a draft order first", ErrInvalidInput)
	}

	members, err := s.managerRepo.ListByLeague(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("list league members: %w", err)
	}
	if len(members) < 2 {
		return fmt.Errorf("%w: at least 2 members are required to begin the draft", ErrInvalidInput)
	}
	if len(current.DraftOrder) != len(members) {
		return fmt.Errorf("%w: the draft order no longer matches the league membership", ErrInvalidInput)
	}

	current.Locked = true
	current.UpdatedAt = s.now().UTC()
	if err := s.leagueRepo.Update(ctx, current); err != nil {
		return fmt.Errorf("lock league for draft: %w", err)
	}

	return nil
}

// GetMyLeague returns the caller's league and its membership.
func (s *LeagueService) GetMyLeague(ctx context.Context, userID string) (LeagueDetail, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return LeagueDetail{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	_, current, err := s.requireMembership(ctx, userID)
	if err != nil {
		return LeagueDetail{}, err
	}

	members, err := s.managerRepo.ListByLeague(ctx, current.ID)
	if err != nil {
		return LeagueDetail{}, fmt.Errorf("list league members: %w", err)
	}

	return LeagueDetail{League: current, Members: members}, nil
}

// ensureManager upserts the caller's manager row on first contact so
// every authenticated user has one.
func (s *LeagueService) ensureManager(ctx context.Context, userID, displayName string) (manager.Manager, error) {
	existing, exists, err := s.managerRepo.GetByID(ctx, userID)
	if err != nil {
		return manager.Manager{}, fmt.Errorf("get manager: %w", err)
	}
	if exists {
		return existing, nil
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = userID
	}

	now := s.now().UTC()
	created := manager.Manager{
		ID:        userID,
		Name:      displayName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.managerRepo.Upsert(ctx, created); err != nil {
		return manager.Manager{}, fmt.Errorf("create manager: %w", err)
	}

	return created, nil
}

// requireMembership loads the caller and the league they belong to.
func (s *LeagueService) requireMembership(ctx context.Context, userID string) (manager.Manager, league.League, error) {
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

func (s *LeagueService) deleteCallerTeam(ctx context.Context, managerID string) error {
	owned, exists, err := s.teamRepo.GetByOwner(ctx, managerID)
	if err != nil {
		return fmt.Errorf("get team by owner: %w", err)
	}
	if !exists {
		return nil
	}
	if err := s.teamRepo.Delete(ctx, owned.ID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	return nil
}

func isDuplicateConstraintError(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "duplicate key value violates unique constraint")
}
