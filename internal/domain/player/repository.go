package player

import "context"

// Repository describes player pool persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, p Player) error
	GetByName(ctx context.Context, name string) (Player, bool, error)
	List(ctx context.Context) ([]Player, error)
	SetCumPoints(ctx context.Context, name string, points int) error
}
