package postgres

import (
	"database/sql"
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/team"
)

type teamTableModel struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	LeagueID  string    `db:"league_id"`
	Name      string    `db:"name"`
	Points    int       `db:"points"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		LeagueID:  m.LeagueID,
		Name:      m.Name,
		Points:    m.Points,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type teamSlotTableModel struct {
	ID         string       `db:"id"`
	TeamID     string       `db:"team_id"`
	LeagueID   string       `db:"league_id"`
	PlayerName string       `db:"player_name"`
	Points     int          `db:"points"`
	JoinedAt   time.Time    `db:"joined_at"`
	LeftAt     sql.NullTime `db:"left_at"`
}

func (m teamSlotTableModel) toDomain() team.Slot {
	out := team.Slot{
		ID:         m.ID,
		TeamID:     m.TeamID,
		LeagueID:   m.LeagueID,
		PlayerName: m.PlayerName,
		Points:     m.Points,
		JoinedAt:   m.JoinedAt,
	}
	if m.LeftAt.Valid {
		left := m.LeftAt.Time
		out.LeftAt = &left
	}
	return out
}
