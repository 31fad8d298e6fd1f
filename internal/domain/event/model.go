package event

import (
	"fmt"
	"strings"
	"time"
)

// Event is a scoreable tournament weekend. Complete flips true once
// score history has been recorded for it.
type Event struct {
	ID           string
	Name         string
	Tier         int
	StartWeekend time.Time
	Image        string
	Complete     bool
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if e.Tier <= 0 {
		return fmt.Errorf("event tier must be positive")
	}

	return nil
}

// ImagePath derives the storage key for an event's banner image from
// its display name.
func ImagePath(name string) string {
	return strings.ReplaceAll(name, " ", "_") + ".webp"
}
