package team

import (
	"fmt"
	"time"
)

// Team is one manager's roster inside a draft league.
type Team struct {
	ID        string
	OwnerID   string
	LeagueID  string
	Name      string
	Points    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.OwnerID == "" {
		return fmt.Errorf("team owner id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// Slot is one drafted player on a team. LeftAt stays nil while the
// player is active; once set, the slot stops accruing points but its
// earned points still count toward the team total.
type Slot struct {
	ID         string
	TeamID     string
	LeagueID   string
	PlayerName string
	Points     int
	JoinedAt   time.Time
	LeftAt     *time.Time
}

// Active reports whether the slot currently occupies roster space.
func (s Slot) Active() bool {
	return s.LeftAt == nil
}

// Covers reports whether an event dated at the given time falls inside
// the slot's membership window [JoinedAt, LeftAt).
func (s Slot) Covers(at time.Time) bool {
	if at.Before(s.JoinedAt) {
		return false
	}
	if s.LeftAt != nil && !at.Before(*s.LeftAt) {
		return false
	}

	return true
}
