package player

import "fmt"

// Player is a professional competitor in the draftable pool. CumPoints
// is the all-time total across every scored event, maintained by the
// aggregate recompute.
type Player struct {
	Name      string
	Region    string
	CumPoints int
}

func (p Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Region == "" {
		return fmt.Errorf("player region is required")
	}

	return nil
}
