package postgres

import (
	"database/sql"
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/manager"
)

type managerTableModel struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	LeagueID  sql.NullString `db:"league_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (m managerTableModel) toDomain() manager.Manager {
	out := manager.Manager{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.LeagueID.Valid {
		id := m.LeagueID.String
		out.LeagueID = &id
	}
	return out
}
