package postgres

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
)

type distributionTableModel struct {
	Tier   int    `db:"tier"`
	Points []byte `db:"points"`
}

func (m distributionTableModel) toDomain() (scoring.Distribution, error) {
	points := make(map[int]int)
	if err := sonic.Unmarshal(m.Points, &points); err != nil {
		return scoring.Distribution{}, fmt.Errorf("decode distribution brackets for tier %d: %w", m.Tier, err)
	}

	return scoring.Distribution{Tier: m.Tier, Points: points}, nil
}

func encodeDistributionPoints(points map[int]int) ([]byte, error) {
	raw, err := sonic.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("encode distribution brackets: %w", err)
	}

	return raw, nil
}

type scoreTableModel struct {
	ID         string `db:"id"`
	PlayerName string `db:"player_name"`
	EventID    string `db:"event_id"`
	Rank       int    `db:"rank"`
	Points     int    `db:"points"`
}

func (m scoreTableModel) toDomain() scoring.Score {
	return scoring.Score{
		ID:      m.ID,
		Player:  m.PlayerName,
		EventID: m.EventID,
		Rank:    m.Rank,
		Points:  m.Points,
	}
}

type teamScoreTableModel struct {
	TeamID  string `db:"team_id"`
	EventID string `db:"event_id"`
	Points  int    `db:"points"`
}

func (m teamScoreTableModel) toDomain() scoring.TeamScore {
	return scoring.TeamScore{
		TeamID:  m.TeamID,
		EventID: m.EventID,
		Points:  m.Points,
	}
}
