package draft

import (
	"errors"
	"testing"
)

func TestNewCursorStartsAtHead(t *testing.T) {
	cur, err := NewCursor([]string{"m1", "m2", "m3"})
	if err != nil {
		t.Fatalf("NewCursor returned error: %v", err)
	}
	if cur.Turn != "m1" {
		t.Fatalf("expected turn m1, got %s", cur.Turn)
	}
	if cur.Direction != 1 {
		t.Fatalf("expected direction +1, got %d", cur.Direction)
	}
	if cur.Complete {
		t.Fatal("fresh cursor must not be complete")
	}
}

func TestNewCursorRejectsEmptyOrder(t *testing.T) {
	if _, err := NewCursor(nil); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
}

// Runs a full three-manager draft and checks the snake sequence,
// including the double picks at both boundaries and the termination on
// the final reversal.
func TestAdvanceSnakeSequence(t *testing.T) {
	cur, err := NewCursor([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("NewCursor returned error: %v", err)
	}

	wantPickers := []string{
		"a", "b", "c", "c", "b", "a",
		"a", "b", "c", "c", "b", "a",
		"a", "b", "c",
	}

	counts := map[string]int{}
	for pick, want := range wantPickers {
		if cur.Complete {
			t.Fatalf("draft complete before pick %d", pick+1)
		}
		if cur.Turn != want {
			t.Fatalf("pick %d: expected turn %s, got %s", pick+1, want, cur.Turn)
		}
		counts[cur.Turn]++
		cur, err = cur.Advance(counts[cur.Turn])
		if err != nil {
			t.Fatalf("pick %d: advance returned error: %v", pick+1, err)
		}
	}

	if !cur.Complete {
		t.Fatal("draft must be complete after the final pick")
	}
	for id, n := range counts {
		if n != RosterSize {
			t.Fatalf("manager %s drafted %d players, expected %d", id, n, RosterSize)
		}
	}
}

func TestAdvanceRejectsAfterComplete(t *testing.T) {
	cur := Cursor{Order: []string{"a", "b"}, Turn: "a", Direction: 1, Complete: true}
	if _, err := cur.Advance(1); !errors.Is(err, ErrComplete) {
		t.Fatalf("expected ErrComplete, got %v", err)
	}
}

func TestAdvanceRejectsUnknownTurn(t *testing.T) {
	cur := Cursor{Order: []string{"a", "b"}, Turn: "ghost", Direction: 1}
	if _, err := cur.Advance(1); !errors.Is(err, ErrTurnNotInOrder) {
		t.Fatalf("expected ErrTurnNotInOrder, got %v", err)
	}
}

// A forward reversal (direction flips to +1 at the head of the order)
// never finishes the draft even when the roster is full; only the
// backward reversal carries the termination signal.
func TestAdvanceForwardReversalNeverCompletes(t *testing.T) {
	cur := Cursor{Order: []string{"a", "b"}, Turn: "a", Direction: -1}
	next, err := cur.Advance(RosterSize)
	if err != nil {
		t.Fatalf("advance returned error: %v", err)
	}
	if next.Complete {
		t.Fatal("forward reversal must not complete the draft")
	}
	if next.Direction != 1 {
		t.Fatalf("expected direction +1 after reversal, got %d", next.Direction)
	}
	if next.Turn != "a" {
		t.Fatalf("expected double pick for a, got %s", next.Turn)
	}
}

func TestAdvanceTwoManagerDraft(t *testing.T) {
	cur, err := NewCursor([]string{"x", "y"})
	if err != nil {
		t.Fatalf("NewCursor returned error: %v", err)
	}

	counts := map[string]int{}
	picks := 0
	for !cur.Complete {
		picks++
		if picks > 2*RosterSize {
			t.Fatalf("draft did not terminate after %d picks", picks)
		}
		counts[cur.Turn]++
		cur, err = cur.Advance(counts[cur.Turn])
		if err != nil {
			t.Fatalf("pick %d: advance returned error: %v", picks, err)
		}
	}

	if picks != 2*RosterSize {
		t.Fatalf("expected %d picks, got %d", 2*RosterSize, picks)
	}
	if counts["x"] != RosterSize || counts["y"] != RosterSize {
		t.Fatalf("uneven rosters: %v", counts)
	}
}
