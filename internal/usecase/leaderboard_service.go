package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fgcfantasy/draft-league/internal/domain/league"
	"github.com/fgcfantasy/draft-league/internal/domain/manager"
	"github.com/fgcfantasy/draft-league/internal/domain/player"
	"github.com/fgcfantasy/draft-league/internal/domain/team"
)

// PlayerStandingRow is one roster slot's contribution to a standing.
type PlayerStandingRow struct {
	PlayerName string `json:"player_name"`
	Points     int    `json:"points"`
}

// TeamStanding is one team's line in the league table.
type TeamStanding struct {
	Rank        int                 `json:"rank"`
	TeamName    string              `json:"team_name"`
	OwnerName   string              `json:"owner_name"`
	Players     []PlayerStandingRow `json:"players"`
	TotalPoints int                 `json:"total_points"`
}

// LeaderboardService builds the read-side standings views from the
// aggregates the scoring recompute maintains.
type LeaderboardService struct {
	managerRepo manager.Repository
	leagueRepo  league.Repository
	teamRepo    team.Repository
	playerRepo  player.Repository
}

func NewLeaderboardService(
	managerRepo manager.Repository,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
) *LeaderboardService {
	return &LeaderboardService{
		managerRepo: managerRepo,
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
	}
}

// MyStandings returns the caller's own team as a single standing line.
func (s *LeaderboardService) MyStandings(ctx context.Context, userID string) ([]TeamStanding, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	caller, _, err := s.requireMembership(ctx, userID)
	if err != nil {
		return nil, err
	}

	myTeam, exists, err := s.teamRepo.GetByOwner(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("get team by owner: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: you do not have a team", ErrNotFound)
	}

	standing, err := s.buildStanding(ctx, myTeam, caller.Name)
	if err != nil {
		return nil, err
	}
	standing.Rank = 1

	return []TeamStanding{standing}, nil
}

// LeagueStandings returns every team in the caller's league ranked by
// total points. Tied totals share a rank and the next distinct total
// resumes at its true position, so [80, 80, 50] ranks as [1, 1, 3].
// The view stays closed until the draft has finished.
func (s *LeaderboardService) LeagueStandings(ctx context.Context, userID string) ([]TeamStanding, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	_, current, err := s.requireMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !current.DraftComplete {
		return nil, fmt.Errorf("%w: the draft is not complete yet", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListByLeague(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	members, err := s.managerRepo.ListByLeague(ctx, current.ID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	nameByID := make(map[string]string, len(members))
	for _, m := range members {
		nameByID[m.ID] = m.Name
	}

	standings := make([]TeamStanding, 0, len(teams))
	for _, t := range teams {
		standing, err := s.buildStanding(ctx, t, nameByID[t.OwnerID])
		if err != nil {
			return nil, err
		}
		standings = append(standings, standing)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TotalPoints > standings[j].TotalPoints
	})

	lastPoints := 0
	currentRank := 0
	for idx := range standings {
		if idx == 0 || standings[idx].TotalPoints != lastPoints {
			currentRank = idx + 1
			lastPoints = standings[idx].TotalPoints
		}
		standings[idx].Rank = currentRank
	}

	return standings, nil
}

// GlobalPlayerStandings returns the full player pool ordered by
// all-time cumulative points.
func (s *LeaderboardService) GlobalPlayerStandings(ctx context.Context) ([]player.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].CumPoints > players[j].CumPoints
	})

	return players, nil
}

func (s *LeaderboardService) buildStanding(ctx context.Context, t team.Team, ownerName string) (TeamStanding, error) {
	slots, err := s.teamRepo.ListSlots(ctx, t.ID)
	if err != nil {
		return TeamStanding{}, fmt.Errorf("list roster slots for team %s: %w", t.ID, err)
	}

	standing := TeamStanding{
		TeamName:  t.Name,
		OwnerName: ownerName,
		Players:   make([]PlayerStandingRow, 0, len(slots)),
	}
	for _, slot := range slots {
		standing.Players = append(standing.Players, PlayerStandingRow{
			PlayerName: slot.PlayerName,
			Points:     slot.Points,
		})
		standing.TotalPoints += slot.Points
	}

	return standing, nil
}

func (s *LeaderboardService) requireMembership(ctx context.Context, userID string) (manager.Manager, league.League, error) {
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
