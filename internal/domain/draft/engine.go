package draft

import (
	"errors"
	"fmt"
)

// RosterSize is the number of players each team drafts.
const RosterSize = 5

var (
	ErrComplete       = errors.New("draft is complete")
	ErrEmptyOrder     = errors.New("draft order is empty")
	ErrTurnNotInOrder = errors.New("pick turn is not in the draft order")
)

// Cursor is the turn state of a snake draft. Order holds manager ids in
// first-round pick order; Turn is the manager allowed to pick next.
type Cursor struct {
	Order     []string
	Turn      string
	Direction int
	Complete  bool
}

// NewCursor positions a fresh cursor at the head of the order.
func NewCursor(order []string) (Cursor, error) {
	if len(order) == 0 {
		return Cursor{}, ErrEmptyOrder
	}
	return Cursor{
		Order:     append([]string(nil), order...),
		Turn:      order[0],
		Direction: 1,
	}, nil
}

// Advance moves the cursor after a successful pick. rosterCount is the
// picking team's active slot count measured after the pick landed.
//
// The snake rule: walking off either end of the order reverses the
// direction and leaves the turn in place, so the boundary manager picks
// twice in a row. The draft finishes on the reversal into the backward
// direction once the picking team just filled its roster. Only the
// picking team's count is consulted; with every team drafting once per
// traversal that team is always the last to fill, so the check is the
// final-pick signal.
func (c Cursor) Advance(rosterCount int) (Cursor, error) {
	if c.Complete {
		return c, ErrComplete
	}
	if len(c.Order) == 0 {
		return c, ErrEmptyOrder
	}

	idx := -1
	for i, id := range c.Order {
		if id == c.Turn {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, fmt.Errorf("%w: %s", ErrTurnNotInOrder, c.Turn)
	}

	next := idx + c.Direction
	if next < 0 || next >= len(c.Order) {
		c.Direction = -c.Direction
		if c.Direction == -1 && rosterCount == RosterSize {
			c.Complete = true
		}
		return c, nil
	}

	c.Turn = c.Order[next]
	return c, nil
}
