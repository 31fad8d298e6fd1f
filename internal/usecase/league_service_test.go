package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/league"
	"github.com/fgcfantasy/draft-league/internal/infrastructure/repository/memory"
)

var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%03d", g.n), nil
}

type fixture struct {
	managers *memory.ManagerRepository
	leagues  *memory.LeagueRepository
	teams    *memory.TeamRepository
	players  *memory.PlayerRepository
	events   *memory.EventRepository
	scores   *memory.ScoringRepository

	leagueSvc  *LeagueService
	teamSvc    *TeamService
	scoringSvc *ScoringService
	eventSvc   *EventService
	boardSvc   *LeaderboardService
}

func newFixture() *fixture {
	gen := &seqIDGen{}
	f := &fixture{
		managers: memory.NewManagerRepository(),
		leagues:  memory.NewLeagueRepository(),
		teams:    memory.NewTeamRepository(),
		players:  memory.NewPlayerRepository(memory.SeedPlayers()),
		events:   memory.NewEventRepository(memory.SeedEvents()),
		scores:   memory.NewScoringRepository(memory.SeedDistributions()),
	}

	f.leagueSvc = NewLeagueService(f.managers, f.leagues, f.teams, gen)
	f.leagueSvc.now = func() time.Time { return testNow }
	f.teamSvc = NewTeamService(f.managers, f.leagues, f.teams, f.players, gen)
	f.teamSvc.now = func() time.Time { return testNow }
	f.scoringSvc = NewScoringService(f.events, f.scores, f.players, f.teams, f.leagues, gen)
	f.scoringSvc.now = func() time.Time { return testNow }
	f.eventSvc = NewEventService(f.events, f.scores, gen)
	f.eventSvc.now = func() time.Time { return testNow }
	f.boardSvc = NewLeaderboardService(f.managers, f.leagues, f.teams, f.players)

	return f
}

func (f *fixture) createLeague(t *testing.T, userID, displayName, name string) league.League {
	t.Helper()

	created, err := f.leagueSvc.CreateAndJoin(context.Background(), CreateLeagueInput{
		UserID:      userID,
		DisplayName: displayName,
		Name:        name,
	})
	if err != nil {
		t.Fatalf("CreateAndJoin(%s): %v", userID, err)
	}

	return created
}

func (f *fixture) join(t *testing.T, userID, displayName, leagueID string) {
	t.Helper()

	if _, err := f.leagueSvc.Join(context.Background(), JoinLeagueInput{
		UserID:      userID,
		DisplayName: displayName,
		LeagueID:    leagueID,
	}); err != nil {
		t.Fatalf("Join(%s): %v", userID, err)
	}
}

func TestLeagueServiceCreateAndJoin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
	if created.OwnerID != "user-ken" {
		t.Fatalf("owner = %q, want user-ken", created.OwnerID)
	}
	if created.Locked {
		t.Fatal("a fresh league must not be locked")
	}
	if created.PickDirection != 1 {
		t.Fatalf("pick direction = %d, want 1", created.PickDirection)
	}
	if created.Version != 1 {
		t.Fatalf("version = %d, want 1", created.Version)
	}

	caller, exists, err := f.managers.GetByID(ctx, "user-ken")
	if err != nil || !exists {
		t.Fatalf("owner manager row missing: exists=%t err=%v", exists, err)
	}
	if !caller.InLeague() || *caller.LeagueID != created.ID {
		t.Fatalf("owner not joined to created league: %+v", caller)
	}

	_, err = f.leagueSvc.CreateAndJoin(ctx, CreateLeagueInput{UserID: "user-ken", Name: "Second Circuit"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("second create err = %v, want ErrInvalidInput", err)
	}
}

func TestLeagueServiceCreateAndJoinRejectsBadNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		name  string
	}{
		{"too short", "abc"},
		{"too long", "this league name runs far past the limit"},
		{"bad charset", "cash$only"},
	}
	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			f := newFixture()
			_, err := f.leagueSvc.CreateAndJoin(context.Background(), CreateLeagueInput{
				UserID: "user-ken",
				Name:   tc.name,
			})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestLeagueServiceJoin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")

	joined, err := f.leagueSvc.Join(ctx, JoinLeagueInput{UserID: "user-ryu", DisplayName: "Ryu", LeagueID: created.ID})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined.ID != created.ID {
		t.Fatalf("joined league = %q, want %q", joined.ID, created.ID)
	}

	if _, err := f.leagueSvc.Join(ctx, JoinLeagueInput{UserID: "user-ryu", LeagueID: created.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("double join err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.leagueSvc.Join(ctx, JoinLeagueInput{UserID: "user-chun", LeagueID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing league err = %v, want ErrNotFound", err)
	}
}

func TestLeagueServiceJoinLockedLeague(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
	f.join(t, "user-ryu", "Ryu", created.ID)

	if err := f.leagueSvc.AssignDraftOrder(ctx, AssignDraftOrderInput{UserID: "user-ken", OrderedNames: []string{"Ken", "Ryu"}}); err != nil {
		t.Fatalf("AssignDraftOrder: %v", err)
	}
	if err := f.leagueSvc.BeginDraft(ctx, "user-ken"); err != nil {
		t.Fatalf("BeginDraft: %v", err)
	}

	_, err := f.leagueSvc.Join(ctx, JoinLeagueInput{UserID: "user-chun", LeagueID: created.ID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("join locked err = %v, want ErrInvalidInput", err)
	}
}

func TestLeagueServiceJoinFullLeague(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	created := f.createLeague(t, "owner", "Owner One", "Masters Circuit")

	for i := 1; i < league.MaxMembers; i++ {
		f.join(t, fmt.Sprintf("member-%d", i), fmt.Sprintf("Member %d", i), created.ID)
	}

	_, err := f.leagueSvc.Join(ctx, JoinLeagueInput{UserID: "latecomer", LeagueID: created.ID})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("join full league err = %v, want ErrConflict", err)
	}
}

func TestLeagueServiceLeave(t *testing.T) {
	t.Parallel()

	t.Run("member leaves and their team goes with them", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
		f.join(t, "user-ryu", "Ryu", created.ID)

		if _, err := f.teamSvc.CreateTeam(ctx, CreateTeamInput{UserID: "user-ryu", Name: "Team Ryu"}); err != nil {
			t.Fatalf("CreateTeam: %v", err)
		}
		if err := f.leagueSvc.Leave(ctx, "user-ryu"); err != nil {
			t.Fatalf("Leave: %v", err)
		}

		m, _, err := f.managers.GetByID(ctx, "user-ryu")
		if err != nil {
			t.Fatalf("get manager: %v", err)
		}
		if m.InLeague() {
			t.Fatal("membership not cleared after leave")
		}
		if _, exists, _ := f.teams.GetByOwner(ctx, "user-ryu"); exists {
			t.Fatal("team survived its owner leaving")
		}
	})

	t.Run("owner cannot leave while members remain", func(t *testing.T) {
		f := newFixture()
		created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
		f.join(t, "user-ryu", "Ryu", created.ID)

		if err := f.leagueSvc.Leave(context.Background(), "user-ken"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("owner leave err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("sole owner leaving deletes the league", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")

		if err := f.leagueSvc.Leave(ctx, "user-ken"); err != nil {
			t.Fatalf("Leave: %v", err)
		}
		if _, exists, _ := f.leagues.GetByID(ctx, created.ID); exists {
			t.Fatal("league persisted with zero members")
		}
	})

	t.Run("locked league holds its members", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
		f.join(t, "user-ryu", "Ryu", created.ID)
		if err := f.leagueSvc.AssignDraftOrder(ctx, AssignDraftOrderInput{UserID: "user-ken", OrderedNames: []string{"Ken", "Ryu"}}); err != nil {
			t.Fatalf("AssignDraftOrder: %v", err)
		}
		if err := f.leagueSvc.BeginDraft(ctx, "user-ken"); err != nil {
			t.Fatalf("BeginDraft: %v", err)
		}

		if err := f.leagueSvc.Leave(ctx, "user-ryu"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("leave locked err = %v, want ErrInvalidInput", err)
		}
	})
}

func TestLeagueServiceSetForfeit(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
	f.join(t, "user-ryu", "Ryu", created.ID)

	if err := f.leagueSvc.SetForfeit(ctx, SetForfeitInput{UserID: "user-ken", Forfeit: "loser buys ramen"}); err != nil {
		t.Fatalf("SetForfeit: %v", err)
	}
	stored, _, err := f.leagues.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if stored.Forfeit != "loser buys ramen" {
		t.Fatalf("forfeit = %q", stored.Forfeit)
	}

	if err := f.leagueSvc.SetForfeit(ctx, SetForfeitInput{UserID: "user-ryu", Forfeit: "loser buys ramen"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-owner err = %v, want ErrUnauthorized", err)
	}
	if err := f.leagueSvc.SetForfeit(ctx, SetForfeitInput{UserID: "user-ken", Forfeit: "no"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short forfeit err = %v, want ErrInvalidInput", err)
	}
}

func TestLeagueServiceAssignDraftOrder(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*fixture, league.League) {
		f := newFixture()
		created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
		f.join(t, "user-ryu", "Ryu", created.ID)
		f.join(t, "user-chun", "Chun Li", created.ID)
		return f, created
	}

	t.Run("resolves names to manager ids", func(t *testing.T) {
		f, created := setup(t)
		ctx := context.Background()

		err := f.leagueSvc.AssignDraftOrder(ctx, AssignDraftOrderInput{
			UserID:       "user-ken",
			OrderedNames: []string{"Chun Li", "Ken", "Ryu"},
		})
		if err != nil {
			t.Fatalf("AssignDraftOrder: %v", err)
		}

		stored, _, err := f.leagues.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get league: %v", err)
		}
		wantOrder := []string{"user-chun", "user-ken", "user-ryu"}
		if len(stored.DraftOrder) != len(wantOrder) {
			t.Fatalf("order = %v, want %v", stored.DraftOrder, wantOrder)
		}
		for i, id := range wantOrder {
			if stored.DraftOrder[i] != id {
				t.Fatalf("order[%d] = %q, want %q", i, stored.DraftOrder[i], id)
			}
		}
		if stored.PickTurn != "user-chun" {
			t.Fatalf("pick turn = %q, want user-chun", stored.PickTurn)
		}
		if stored.PickDirection != 1 || stored.DraftComplete {
			t.Fatalf("cursor not reset: direction=%d complete=%t", stored.PickDirection, stored.DraftComplete)
		}
	})

	t.Run("rejects partial and padded orders", func(t *testing.T) {
		f, _ := setup(t)
		err := f.leagueSvc.AssignDraftOrder(context.Background(), AssignDraftOrderInput{
			UserID:       "user-ken",
			OrderedNames: []string{"Ken", "Ryu"},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		f, _ := setup(t)
		err := f.leagueSvc.AssignDraftOrder(context.Background(), AssignDraftOrderInput{
			UserID:       "user-ken",
			OrderedNames: []string{"Ken", "Ryu", "Akuma"},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects repeated names", func(t *testing.T) {
		f, _ := setup(t)
		err := f.leagueSvc.AssignDraftOrder(context.Background(), AssignDraftOrderInput{
			UserID:       "user-ken",
			OrderedNames: []string{"Ken", "Ryu", "Ryu"},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("owner only", func(t *testing.T) {
		f, _ := setup(t)
		err := f.leagueSvc.AssignDraftOrder(context.Background(), AssignDraftOrderInput{
			UserID:       "user-ryu",
			OrderedNames: []string{"Ken", "Ryu", "Chun Li"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("err = %v, want ErrUnauthorized", err)
		}
	})
}

func TestLeagueServiceBeginDraft(t *testing.T) {
	t.Parallel()

	t.Run("locks the league", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
		f.join(t, "user-ryu", "Ryu", created.ID)
		if err := f.leagueSvc.AssignDraftOrder(ctx, AssignDraftOrderInput{UserID: "user-ken", OrderedNames: []string{"Ryu", "Ken"}}); err != nil {
			t.Fatalf("AssignDraftOrder: %v", err)
		}

		if err := f.leagueSvc.BeginDraft(ctx, "user-ken"); err != nil {
			t.Fatalf("BeginDraft: %v", err)
		}
		stored, _, err := f.leagues.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get league: %v", err)
		}
		if !stored.Locked {
			t.Fatal("league not locked after BeginDraft")
		}

		if err := f.leagueSvc.BeginDraft(ctx, "user-ken"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("second BeginDraft err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("requires a draft order", func(t *testing.T) {
		f := newFixture()
		created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
		f.join(t, "user-ryu", "Ryu", created.ID)

		if err := f.leagueSvc.BeginDraft(context.Background(), "user-ken"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("requires two members", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
		if err := f.leagueSvc.AssignDraftOrder(ctx, AssignDraftOrderInput{UserID: "user-ken", OrderedNames: []string{"Ken"}}); err != nil {
			t.Fatalf("AssignDraftOrder: %v", err)
		}

		if err := f.leagueSvc.BeginDraft(ctx, "user-ken"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects a stale order after membership changed", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
		f.join(t, "user-ryu", "Ryu", created.ID)
		if err := f.leagueSvc.AssignDraftOrder(ctx, AssignDraftOrderInput{UserID: "user-ken", OrderedNames: []string{"Ken", "Ryu"}}); err != nil {
			t.Fatalf("AssignDraftOrder: %v", err)
		}
		f.join(t, "user-chun", "Chun Li", created.ID)

		if err := f.leagueSvc.BeginDraft(ctx, "user-ken"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})
}

func TestLeagueServiceGetMyLeague(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	created := f.createLeague(t, "user-ken", "Ken", "Masters Circuit")
	f.join(t, "user-ryu", "Ryu", created.ID)

	detail, err := f.leagueSvc.GetMyLeague(ctx, "user-ryu")
	if err != nil {
		t.Fatalf("GetMyLeague: %v", err)
	}
	if detail.League.ID != created.ID {
		t.Fatalf("league = %q, want %q", detail.League.ID, created.ID)
	}
	if len(detail.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(detail.Members))
	}

	if _, err := f.leagueSvc.GetMyLeague(ctx, "stranger"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("outsider err = %v, want ErrInvalidInput", err)
	}
}
