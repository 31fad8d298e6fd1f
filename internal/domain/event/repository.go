package event

import "context"

// Repository describes event catalog persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, eventID string) (Event, bool, error)

	// List returns events ordered by start weekend, earliest first.
	List(ctx context.Context) ([]Event, error)
	MarkComplete(ctx context.Context, eventID string) error
}
