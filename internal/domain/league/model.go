package league

import (
	"fmt"
	"time"
)

// MaxMembers caps league membership; it matches the widest draft the
// scoring distributions were tuned for.
const MaxMembers = 5

// League is a private draft league owned by the manager who created it.
// Locked flips true when the draft begins and never reverts; the draft
// cursor fields (DraftOrder, PickTurn, PickDirection, DraftComplete)
// are only meaningful once an order has been assigned.
type League struct {
	ID            string
	Name          string
	OwnerID       string
	Locked        bool
	DraftOrder    []string
	PickTurn      string
	PickDirection int
	DraftComplete bool
	Forfeit       string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.OwnerID == "" {
		return fmt.Errorf("league owner id is required")
	}
	if err := ValidateName(l.Name); err != nil {
		return err
	}

	return nil
}

// DraftOrderAssigned reports whether the owner has submitted a draft
// order yet.
func (l League) DraftOrderAssigned() bool {
	return len(l.DraftOrder) > 0 && l.PickTurn != ""
}
