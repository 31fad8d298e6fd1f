package team

import "context"

// Repository describes team and roster persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, t Team) error
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByOwner(ctx context.Context, ownerID string) (Team, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
	SetPoints(ctx context.Context, teamID string, points int) error
	Delete(ctx context.Context, teamID string) error

	AddSlot(ctx context.Context, s Slot) error
	ListSlots(ctx context.Context, teamID string) ([]Slot, error)
	ListSlotsByLeague(ctx context.Context, leagueID string) ([]Slot, error)
	SetSlotPoints(ctx context.Context, slotID string, points int) error
}
