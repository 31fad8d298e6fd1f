package postgres

import (
	"time"

	"github.com/lib/pq"

	"github.com/fgcfantasy/draft-league/internal/domain/league"
)

type leagueTableModel struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	OwnerID       string         `db:"owner_id"`
	Locked        bool           `db:"locked"`
	DraftOrder    pq.StringArray `db:"draft_order"`
	PickTurn      string         `db:"pick_turn"`
	PickDirection int            `db:"pick_direction"`
	DraftComplete bool           `db:"draft_complete"`
	Forfeit       string         `db:"forfeit"`
	Version       int64          `db:"version"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:            m.ID,
		Name:          m.Name,
		OwnerID:       m.OwnerID,
		Locked:        m.Locked,
		DraftOrder:    append([]string(nil), m.DraftOrder...),
		PickTurn:      m.PickTurn,
		PickDirection: m.PickDirection,
		DraftComplete: m.DraftComplete,
		Forfeit:       m.Forfeit,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
