package manager

import (
	"fmt"
	"time"
)

// Manager is a league participant. LeagueID is nil while the manager is
// between leagues.
type Manager struct {
	ID        string
	Name      string
	LeagueID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m Manager) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("manager id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("manager name is required")
	}

	return nil
}

// InLeague reports whether the manager currently belongs to a league.
func (m Manager) InLeague() bool {
	return m.LeagueID != nil && *m.LeagueID != ""
}
