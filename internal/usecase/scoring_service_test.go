package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/league"
	"github.com/fgcfantasy/draft-league/internal/domain/manager"
	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
	"github.com/fgcfantasy/draft-league/internal/domain/team"
)

// scoredLeague wires one league with a single team of two slots
// directly through the repositories: Punk stays rostered, Tokido
// leaves on March 1st. Seeded events straddle that boundary.
func scoredLeague(t *testing.T, f *fixture) (teamID string) {
	t.Helper()
	ctx := context.Background()

	leagueID := "lg-test"
	if err := f.leagues.Create(ctx, league.League{
		ID:            leagueID,
		Name:          "Masters Circuit",
		OwnerID:       "user-ken",
		Locked:        true,
		DraftOrder:    []string{"user-ken"},
		PickTurn:      "user-ken",
		PickDirection: 1,
		DraftComplete: true,
		Version:       1,
	}); err != nil {
		t.Fatalf("create league: %v", err)
	}
	if err := f.managers.Upsert(ctx, manager.Manager{ID: "user-ken", Name: "Ken", LeagueID: &leagueID}); err != nil {
		t.Fatalf("upsert manager: %v", err)
	}

	teamID = "team-ken"
	if err := f.teams.Create(ctx, team.Team{ID: teamID, OwnerID: "user-ken", LeagueID: leagueID, Name: "Team Ken"}); err != nil {
		t.Fatalf("create team: %v", err)
	}

	joined := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	left := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if err := f.teams.AddSlot(ctx, team.Slot{ID: "slot-punk", TeamID: teamID, LeagueID: leagueID, PlayerName: "Punk", JoinedAt: joined}); err != nil {
		t.Fatalf("add slot: %v", err)
	}
	if err := f.teams.AddSlot(ctx, team.Slot{ID: "slot-tokido", TeamID: teamID, LeagueID: leagueID, PlayerName: "Tokido", JoinedAt: joined, LeftAt: &left}); err != nil {
		t.Fatalf("add slot: %v", err)
	}

	return teamID
}

func TestScoringServiceScoreEventBrackets(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	finishers := []string{"Punk", "MenaRD", "Tokido", "Kakeru", "Xiaohai", "Daigo"}
	result, err := f.scoringSvc.ScoreEvent(ctx, ScoreEventInput{EventID: "evt-capcom-cup", OrderedPlayers: finishers})
	if err != nil {
		t.Fatalf("ScoreEvent: %v", err)
	}
	if result.Rows != 6 {
		t.Fatalf("rows = %d, want 6", result.Rows)
	}

	rows, err := f.scores.ListScoresByEvent(ctx, "evt-capcom-cup")
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	want := map[string]struct {
		rank   int
		points int
	}{
		"Punk":    {1, 100},
		"MenaRD":  {2, 80},
		"Tokido":  {3, 70},
		"Kakeru":  {4, 60},
		"Xiaohai": {5, 50},
		"Daigo":   {5, 50}, // position 6 collapses into the rank-5 bracket
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for _, row := range rows {
		w, ok := want[row.Player]
		if !ok {
			t.Fatalf("unexpected score row for %s", row.Player)
		}
		if row.Rank != w.rank || row.Points != w.points {
			t.Fatalf("%s: rank=%d points=%d, want rank=%d points=%d", row.Player, row.Rank, row.Points, w.rank, w.points)
		}
	}

	scored, _, err := f.events.GetByID(ctx, "evt-capcom-cup")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if !scored.Complete {
		t.Fatal("event not marked complete after scoring")
	}

	punk, _, err := f.players.GetByName(ctx, "Punk")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if punk.CumPoints != 100 {
		t.Fatalf("Punk cumulative = %d, want 100", punk.CumPoints)
	}
}

func TestScoringServiceScoreEventIsOneShot(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.scoringSvc.ScoreEvent(ctx, ScoreEventInput{EventID: "evt-evo", OrderedPlayers: []string{"Punk"}}); err != nil {
		t.Fatalf("first ScoreEvent: %v", err)
	}

	_, err := f.scoringSvc.ScoreEvent(ctx, ScoreEventInput{EventID: "evt-evo", OrderedPlayers: []string{"Tokido"}})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second ScoreEvent err = %v, want ErrConflict", err)
	}

	rows, err := f.scores.ListScoresByEvent(ctx, "evt-evo")
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(rows) != 1 || rows[0].Player != "Punk" {
		t.Fatalf("history changed by rejected re-score: %+v", rows)
	}
}

func TestScoringServiceScoreEventValidation(t *testing.T) {
	t.Parallel()

	oversized := make([]string, scoring.MaxFinishers+1)
	for i := range oversized {
		oversized[i] = fmt.Sprintf("Entrant %d", i+1)
	}

	tests := []struct {
		label     string
		eventID   string
		finishers []string
		wantErr   error
	}{
		{"unknown event", "evt-missing", []string{"Punk"}, ErrNotFound},
		{"empty field", "evt-evo", nil, ErrInvalidInput},
		{"oversized field", "evt-evo", oversized, ErrInvalidInput},
		{"repeated finisher", "evt-evo", []string{"Punk", "Punk"}, ErrInvalidInput},
		{"blank finisher", "evt-evo", []string{"Punk", "  "}, ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			f := newFixture()
			_, err := f.scoringSvc.ScoreEvent(context.Background(), ScoreEventInput{EventID: tc.eventID, OrderedPlayers: tc.finishers})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

// TestScoringServiceRecomputeMembershipWindow checks that a departed
// slot keeps the points earned during its window but stops accruing:
// Tokido left before Evo, so only his Capcom Cup result credits the
// team, while his personal cumulative total still counts both.
func TestScoringServiceRecomputeMembershipWindow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	teamID := scoredLeague(t, f)

	if _, err := f.scoringSvc.ScoreEvent(ctx, ScoreEventInput{EventID: "evt-capcom-cup", OrderedPlayers: []string{"Punk", "Tokido"}}); err != nil {
		t.Fatalf("score capcom cup: %v", err)
	}
	if _, err := f.scoringSvc.ScoreEvent(ctx, ScoreEventInput{EventID: "evt-evo", OrderedPlayers: []string{"Tokido", "Punk"}}); err != nil {
		t.Fatalf("score evo: %v", err)
	}

	slots, err := f.teams.ListSlots(ctx, teamID)
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	pointsBySlot := make(map[string]int, len(slots))
	for _, s := range slots {
		pointsBySlot[s.PlayerName] = s.Points
	}
	if pointsBySlot["Punk"] != 180 {
		t.Fatalf("Punk slot = %d, want 180", pointsBySlot["Punk"])
	}
	if pointsBySlot["Tokido"] != 80 {
		t.Fatalf("Tokido slot = %d, want 80", pointsBySlot["Tokido"])
	}

	stored, _, err := f.teams.GetByID(ctx, teamID)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if stored.Points != 260 {
		t.Fatalf("team total = %d, want 260", stored.Points)
	}

	tokido, _, err := f.players.GetByName(ctx, "Tokido")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if tokido.CumPoints != 180 {
		t.Fatalf("Tokido cumulative = %d, want 180", tokido.CumPoints)
	}

	teamScores, err := f.scores.ListTeamScores(ctx, teamID)
	if err != nil {
		t.Fatalf("list team scores: %v", err)
	}
	if len(teamScores) != 2 {
		t.Fatalf("team score rows = %d, want 2", len(teamScores))
	}
	if teamScores[0].EventID != "evt-capcom-cup" || teamScores[0].Points != 180 {
		t.Fatalf("first team score = %+v", teamScores[0])
	}
	if teamScores[1].EventID != "evt-evo" || teamScores[1].Points != 80 {
		t.Fatalf("second team score = %+v", teamScores[1])
	}
}

func TestScoringServiceResyncAllLeagues(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	teamID := scoredLeague(t, f)

	if _, err := f.scoringSvc.ScoreEvent(ctx, ScoreEventInput{EventID: "evt-capcom-cup", OrderedPlayers: []string{"Punk", "Tokido"}}); err != nil {
		t.Fatalf("score capcom cup: %v", err)
	}

	// Drift the aggregates by hand, then let the resync repair them.
	if err := f.teams.SetSlotPoints(ctx, "slot-punk", 9999); err != nil {
		t.Fatalf("corrupt slot points: %v", err)
	}
	if err := f.teams.SetPoints(ctx, teamID, 9999); err != nil {
		t.Fatalf("corrupt team points: %v", err)
	}
	if err := f.players.SetCumPoints(ctx, "Punk", 9999); err != nil {
		t.Fatalf("corrupt player points: %v", err)
	}

	result, err := f.scoringSvc.ResyncAllLeagues(ctx, ResyncInput{})
	if err != nil {
		t.Fatalf("ResyncAllLeagues: %v", err)
	}
	if result.LeagueCount != 1 || result.SuccessCount != 1 || result.FailedCount != 0 {
		t.Fatalf("resync result = %+v", result)
	}
	if result.WorkerCount != defaultResyncWorkers {
		t.Fatalf("worker count = %d, want default %d", result.WorkerCount, defaultResyncWorkers)
	}

	slots, err := f.teams.ListSlots(ctx, teamID)
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	for _, s := range slots {
		if s.PlayerName == "Punk" && s.Points != 100 {
			t.Fatalf("Punk slot = %d after resync, want 100", s.Points)
		}
	}
	stored, _, err := f.teams.GetByID(ctx, teamID)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if stored.Points != 180 {
		t.Fatalf("team total = %d after resync, want 180", stored.Points)
	}
	punk, _, err := f.players.GetByName(ctx, "Punk")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if punk.CumPoints != 100 {
		t.Fatalf("Punk cumulative = %d after resync, want 100", punk.CumPoints)
	}

	capped, err := f.scoringSvc.ResyncAllLeagues(ctx, ResyncInput{MaxWorkers: 99})
	if err != nil {
		t.Fatalf("ResyncAllLeagues capped: %v", err)
	}
	if capped.WorkerCount != maxResyncWorkers {
		t.Fatalf("worker count = %d, want cap %d", capped.WorkerCount, maxResyncWorkers)
	}
}

func TestScoringServiceSeedDistributions(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if err := f.scoringSvc.SeedDistributions(ctx, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty seed err = %v, want ErrInvalidInput", err)
	}

	missingTop := scoring.Distribution{Tier: 3, Points: map[int]int{2: 10}}
	if err := f.scoringSvc.SeedDistributions(ctx, []scoring.Distribution{missingTop}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("invalid distribution err = %v, want ErrInvalidInput", err)
	}

	valid := scoring.Distribution{Tier: 3, Points: map[int]int{1: 25, 2: 15, 5: 5}}
	if err := f.scoringSvc.SeedDistributions(ctx, []scoring.Distribution{valid}); err != nil {
		t.Fatalf("SeedDistributions: %v", err)
	}
	stored, exists, err := f.scores.GetDistribution(ctx, 3)
	if err != nil || !exists {
		t.Fatalf("seeded tier missing: exists=%t err=%v", exists, err)
	}
	if stored.Points[1] != 25 {
		t.Fatalf("stored distribution = %+v", stored)
	}

	dists, err := f.scoringSvc.ListDistributions(ctx)
	if err != nil {
		t.Fatalf("ListDistributions: %v", err)
	}
	if len(dists) != 3 {
		t.Fatalf("distributions = %d, want 3", len(dists))
	}
}
