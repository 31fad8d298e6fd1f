package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fgcfantasy/draft-league/internal/domain/league"
	"github.com/fgcfantasy/draft-league/internal/domain/manager"
	"github.com/fgcfantasy/draft-league/internal/domain/team"
)

// standingsLeague seeds a finished-draft league with one team per
// total, bypassing the membership cap so the tie shapes are free.
func standingsLeague(t *testing.T, f *fixture, totals []int) {
	t.Helper()
	ctx := context.Background()

	leagueID := "lg-standings"
	if err := f.leagues.Create(ctx, league.League{
		ID:            leagueID,
		Name:          "Masters Circuit",
		OwnerID:       "mgr-1",
		Locked:        true,
		DraftComplete: true,
		Version:       1,
	}); err != nil {
		t.Fatalf("create league: %v", err)
	}

	players := memorySeedNames()
	for i, total := range totals {
		managerID := fmt.Sprintf("mgr-%d", i+1)
		if err := f.managers.Upsert(ctx, manager.Manager{ID: managerID, Name: fmt.Sprintf("Manager %d", i+1), LeagueID: &leagueID}); err != nil {
			t.Fatalf("upsert manager: %v", err)
		}
		teamID := fmt.Sprintf("team-%d", i+1)
		if err := f.teams.Create(ctx, team.Team{ID: teamID, OwnerID: managerID, LeagueID: leagueID, Name: fmt.Sprintf("Squad %d", i+1)}); err != nil {
			t.Fatalf("create team: %v", err)
		}
		if err := f.teams.AddSlot(ctx, team.Slot{
			ID:         fmt.Sprintf("slot-%d", i+1),
			TeamID:     teamID,
			LeagueID:   leagueID,
			PlayerName: players[i],
			Points:     total,
			JoinedAt:   testNow,
		}); err != nil {
			t.Fatalf("add slot: %v", err)
		}
	}
}

func memorySeedNames() []string {
	return []string{"Punk", "MenaRD", "Tokido", "Kakeru", "Xiaohai", "Daigo", "NuckleDu", "iDom"}
}

func TestLeaderboardServiceLeagueStandingsRanking(t *testing.T) {
	t.Parallel()

	f := newFixture()
	standingsLeague(t, f, []int{80, 80, 50, 50, 50, 10})

	standings, err := f.boardSvc.LeagueStandings(context.Background(), "mgr-1")
	if err != nil {
		t.Fatalf("LeagueStandings: %v", err)
	}

	wantRanks := []int{1, 1, 3, 3, 3, 6}
	wantTotals := []int{80, 80, 50, 50, 50, 10}
	if len(standings) != len(wantRanks) {
		t.Fatalf("standings = %d rows, want %d", len(standings), len(wantRanks))
	}
	for i, s := range standings {
		if s.Rank != wantRanks[i] {
			t.Fatalf("row %d rank = %d, want %d", i, s.Rank, wantRanks[i])
		}
		if s.TotalPoints != wantTotals[i] {
			t.Fatalf("row %d total = %d, want %d", i, s.TotalPoints, wantTotals[i])
		}
		if s.OwnerName == "" || s.TeamName == "" {
			t.Fatalf("row %d missing display names: %+v", i, s)
		}
	}
}

func TestLeaderboardServiceLeagueStandingsClosedDuringDraft(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
	f.join(t, "user-ryu", "Ryu", created.ID)

	_, err := f.boardSvc.LeagueStandings(ctx, "user-ken")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	if _, err := f.boardSvc.LeagueStandings(ctx, "stranger"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("outsider err = %v, want ErrInvalidInput", err)
	}
}

func TestLeaderboardServiceMyStandings(t *testing.T) {
	t.Parallel()

	f := newFixture()
	standingsLeague(t, f, []int{80, 50})

	rows, err := f.boardSvc.MyStandings(context.Background(), "mgr-2")
	if err != nil {
		t.Fatalf("MyStandings: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Rank != 1 || rows[0].TotalPoints != 50 {
		t.Fatalf("row = %+v", rows[0])
	}
	if len(rows[0].Players) != 1 || rows[0].Players[0].PlayerName != "MenaRD" {
		t.Fatalf("players = %+v", rows[0].Players)
	}
}

func TestLeaderboardServiceGlobalPlayerStandings(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if err := f.players.SetCumPoints(ctx, "Tokido", 150); err != nil {
		t.Fatalf("set points: %v", err)
	}
	if err := f.players.SetCumPoints(ctx, "Punk", 90); err != nil {
		t.Fatalf("set points: %v", err)
	}

	players, err := f.boardSvc.GlobalPlayerStandings(ctx)
	if err != nil {
		t.Fatalf("GlobalPlayerStandings: %v", err)
	}
	if len(players) == 0 {
		t.Fatal("empty player pool")
	}
	if players[0].Name != "Tokido" || players[1].Name != "Punk" {
		t.Fatalf("leaders = %s, %s", players[0].Name, players[1].Name)
	}
	for i := 1; i < len(players); i++ {
		if players[i].CumPoints > players[i-1].CumPoints {
			t.Fatalf("standings not descending at index %d", i)
		}
	}
}
