package league

import (
	"context"
	"errors"
)

// ErrStaleCursor is returned by UpdateDraftCursor when the stored turn
// or version no longer matches the caller's expectation. The losing
// side of a pick race sees this and may retry against fresh state.
var ErrStaleCursor = errors.New("draft cursor changed concurrently")

// DraftCursorUpdate is a conditional write of the draft cursor. The
// update only lands when the stored pick turn and version both equal
// the expected values; the version is bumped on success.
type DraftCursorUpdate struct {
	ExpectedTurn    string
	ExpectedVersion int64
	Turn            string
	Direction       int
	Complete        bool
}

// Repository describes league persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, l League) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	Update(ctx context.Context, l League) error
	UpdateDraftCursor(ctx context.Context, leagueID string, upd DraftCursorUpdate) error
	Delete(ctx context.Context, leagueID string) error
}
