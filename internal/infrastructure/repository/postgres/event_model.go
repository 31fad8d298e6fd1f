package postgres

import (
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/event"
)

type eventTableModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Tier         int       `db:"tier"`
	StartWeekend time.Time `db:"start_weekend"`
	Image        string    `db:"image"`
	Complete     bool      `db:"complete"`
}

func (m eventTableModel) toDomain() event.Event {
	return event.Event{
		ID:           m.ID,
		Name:         m.Name,
		Tier:         m.Tier,
		StartWeekend: m.StartWeekend,
		Image:        m.Image,
		Complete:     m.Complete,
	}
}
