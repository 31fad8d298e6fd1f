package scoring

import (
	"fmt"
	"sort"
)

// MaxFinishers caps the ordered finisher list accepted for one event.
const MaxFinishers = 64

// Distribution maps bracket ranks to the points awarded at that rank
// for one event tier. Keys are the top position of each bracket; a
// finishing position resolves to the largest key at or below it.
type Distribution struct {
	Tier   int
	Points map[int]int
}

func (d Distribution) Validate() error {
	if d.Tier <= 0 {
		return fmt.Errorf("distribution tier must be positive")
	}
	if len(d.Points) == 0 {
		return fmt.Errorf("distribution has no brackets")
	}
	if _, ok := d.Points[1]; !ok {
		return fmt.Errorf("distribution must cover position 1")
	}
	for rank, pts := range d.Points {
		if rank <= 0 {
			return fmt.Errorf("distribution rank must be positive, got %d", rank)
		}
		if pts < 0 {
			return fmt.Errorf("distribution points must not be negative, got %d", pts)
		}
	}

	return nil
}

// BracketFor resolves a 1-based finishing position to its bracket rank,
// the largest distribution key at or below the position.
func (d Distribution) BracketFor(position int) (int, bool) {
	if position < 1 {
		return 0, false
	}

	best := 0
	for rank := range d.Points {
		if rank <= position && rank > best {
			best = rank
		}
	}
	if best == 0 {
		return 0, false
	}

	return best, true
}

// PointsFor resolves a 1-based finishing position to awarded points via
// the step function over bracket ranks.
func (d Distribution) PointsFor(position int) (int, bool) {
	rank, ok := d.BracketFor(position)
	if !ok {
		return 0, false
	}

	return d.Points[rank], true
}

// Brackets returns the bracket ranks in ascending order.
func (d Distribution) Brackets() []int {
	ranks := make([]int, 0, len(d.Points))
	for rank := range d.Points {
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)

	return ranks
}

// Score is one player's result in one event. Rank stores the bracket
// rank the finishing position resolved to, not the raw position.
type Score struct {
	ID      string
	Player  string
	EventID string
	Rank    int
	Points  int
}

// TeamScore is the slice of an event's points credited to one team,
// summed over the roster slots whose windows covered the event.
type TeamScore struct {
	TeamID  string
	EventID string
	Points  int
}
