package postgres

import (
	"github.com/fgcfantasy/draft-league/internal/domain/player"
)

type playerTableModel struct {
	Name      string `db:"name"`
	Region    string `db:"region"`
	CumPoints int    `db:"cum_points"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		Name:      m.Name,
		Region:    m.Region,
		CumPoints: m.CumPoints,
	}
}
