package memory

import (
	"time"

	"github.com/fgcfantasy/draft-league/internal/domain/event"
	"github.com/fgcfantasy/draft-league/internal/domain/player"
	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
)

// SeedDistributions returns the two reference payout tables: tier 1
// for majors, tier 2 for regionals.
func SeedDistributions() []scoring.Distribution {
	return []scoring.Distribution{
		{
			Tier: 1,
			Points: map[int]int{
				1: 100, 2: 80, 3: 70, 4: 60, 5: 50, 7: 40,
				9: 30, 13: 20, 17: 10, 25: 6, 33: 4, 49: 1,
			},
		},
		{
			Tier: 2,
			Points: map[int]int{
				1: 50, 2: 40, 3: 35, 4: 30, 5: 25, 7: 20,
				9: 15, 13: 10, 17: 5, 25: 3, 33: 2, 49: 1,
			},
		},
	}
}

// SeedPlayers returns the draftable pool of professional competitors.
func SeedPlayers() []player.Player {
	return []player.Player{
		{Name: "MenaRD", Region: "Dominican Republic"},
		{Name: "Punk", Region: "North America"},
		{Name: "Kakeru", Region: "Japan"},
		{Name: "Xiaohai", Region: "China"},
		{Name: "Tokido", Region: "Japan"},
		{Name: "Daigo", Region: "Japan"},
		{Name: "NuckleDu", Region: "North America"},
		{Name: "Problem X", Region: "Europe"},
		{Name: "Big Bird", Region: "Middle East"},
		{Name: "AngryBird", Region: "Middle East"},
		{Name: "EndingWalker", Region: "Europe"},
		{Name: "Blaz", Region: "South America"},
		{Name: "Fuudo", Region: "Japan"},
		{Name: "Gachikun", Region: "Japan"},
		{Name: "Momochi", Region: "Japan"},
		{Name: "iDom", Region: "North America"},
		{Name: "DualKevin", Region: "North America"},
		{Name: "Mister Crimson", Region: "Europe"},
		{Name: "Phenom", Region: "Europe"},
		{Name: "Zhen", Region: "China"},
	}
}

// SeedEvents returns a small catalog covering both tiers for dev and
// test wiring.
func SeedEvents() []event.Event {
	return []event.Event{
		{
			ID:           "evt-capcom-cup",
			Name:         "Capcom Cup",
			Tier:         1,
			StartWeekend: time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC),
			Image:        event.ImagePath("Capcom Cup"),
		},
		{
			ID:           "evt-evo",
			Name:         "Evo",
			Tier:         1,
			StartWeekend: time.Date(2026, time.August, 7, 0, 0, 0, 0, time.UTC),
			Image:        event.ImagePath("Evo"),
		},
		{
			ID:           "evt-battle-arena",
			Name:         "Battle Arena Melbourne",
			Tier:         2,
			StartWeekend: time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC),
			Image:        event.ImagePath("Battle Arena Melbourne"),
		},
	}
}
