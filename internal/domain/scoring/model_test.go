package scoring

import "testing"

func majorDistribution() Distribution {
	return Distribution{
		Tier: 1,
		Points: map[int]int{
			1: 100, 2: 80, 3: 70, 4: 60, 5: 50, 7: 40,
			9: 30, 13: 20, 17: 10, 25: 6, 33: 4, 49: 1,
		},
	}
}

func TestBracketForStepFunction(t *testing.T) {
	dist := majorDistribution()

	tests := []struct {
		position   int
		wantRank   int
		wantPoints int
	}{
		{position: 1, wantRank: 1, wantPoints: 100},
		{position: 2, wantRank: 2, wantPoints: 80},
		{position: 5, wantRank: 5, wantPoints: 50},
		{position: 6, wantRank: 5, wantPoints: 50},
		{position: 7, wantRank: 7, wantPoints: 40},
		{position: 8, wantRank: 7, wantPoints: 40},
		{position: 12, wantRank: 9, wantPoints: 30},
		{position: 16, wantRank: 13, wantPoints: 20},
		{position: 48, wantRank: 33, wantPoints: 4},
		{position: 49, wantRank: 49, wantPoints: 1},
		{position: 64, wantRank: 49, wantPoints: 1},
	}

	for _, tc := range tests {
		rank, ok := dist.BracketFor(tc.position)
		if !ok {
			t.Fatalf("position %d: no bracket resolved", tc.position)
		}
		if rank != tc.wantRank {
			t.Fatalf("position %d: expected rank %d, got %d", tc.position, tc.wantRank, rank)
		}
		points, ok := dist.PointsFor(tc.position)
		if !ok {
			t.Fatalf("position %d: no points resolved", tc.position)
		}
		if points != tc.wantPoints {
			t.Fatalf("position %d: expected %d points, got %d", tc.position, tc.wantPoints, points)
		}
	}
}

func TestBracketForRejectsNonPositive(t *testing.T) {
	dist := majorDistribution()
	if _, ok := dist.BracketFor(0); ok {
		t.Fatal("position 0 must not resolve")
	}
	if _, ok := dist.BracketFor(-3); ok {
		t.Fatal("negative position must not resolve")
	}
}

func TestPointsForMonotonicallyNonIncreasing(t *testing.T) {
	dist := majorDistribution()

	prev, ok := dist.PointsFor(1)
	if !ok {
		t.Fatal("position 1 must resolve")
	}
	for pos := 2; pos <= MaxFinishers; pos++ {
		pts, ok := dist.PointsFor(pos)
		if !ok {
			t.Fatalf("position %d must resolve", pos)
		}
		if pts > prev {
			t.Fatalf("points increased from %d to %d at position %d", prev, pts, pos)
		}
		prev = pts
	}
}

func TestDistributionValidate(t *testing.T) {
	tests := []struct {
		name    string
		dist    Distribution
		wantErr bool
	}{
		{name: "valid", dist: majorDistribution(), wantErr: false},
		{name: "zero tier", dist: Distribution{Tier: 0, Points: map[int]int{1: 10}}, wantErr: true},
		{name: "empty brackets", dist: Distribution{Tier: 1}, wantErr: true},
		{name: "missing position one", dist: Distribution{Tier: 1, Points: map[int]int{2: 10}}, wantErr: true},
		{name: "negative points", dist: Distribution{Tier: 1, Points: map[int]int{1: -5}}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.dist.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
		})
	}
}
