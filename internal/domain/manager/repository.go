package manager

import (
	"context"
	"errors"
)

// ErrLeagueFull is returned by AssignLeague when the capacity check
// fails inside the guarded membership mutation.
var ErrLeagueFull = errors.New("league is at capacity")

// Repository describes manager persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, m Manager) error
	GetByID(ctx context.Context, managerID string) (Manager, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Manager, error)

	// AssignLeague sets the manager's league reference, enforcing the
	// member cap in the same critical section so concurrent joins can
	// never overshoot. Returns ErrLeagueFull when the league already
	// holds maxMembers managers.
	AssignLeague(ctx context.Context, managerID, leagueID string, maxMembers int) error

	// ClearLeague removes the manager's league reference.
	ClearLeague(ctx context.Context, managerID string) error
}
