package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/mystical-path/internal/types"
)

// DataLoader handles loading game data tables from files
type DataLoader struct {
	basePath string
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string) *DataLoader {
	return &DataLoader{
		basePath: basePath,
	}
}

// LoadBoard loads the board square list from file
func (dl *DataLoader) LoadBoard() ([]*types.Square, error) {
	path := filepath.Join(dl.basePath, "board.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	var board []*types.Square
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("failed to parse board data: %w", err)
	}

	return board, nil
}

// LoadCards loads a card deck (chance.json or penalty.json) from file
func (dl *DataLoader) LoadCards(name string) ([]types.Card, error) {
	path := filepath.Join(dl.basePath, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s deck: %w", name, err)
	}

	var cards []types.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("failed to parse %s deck: %w", name, err)
	}

	return cards, nil
}

func newProperty(id, name string, price, baseRent int) *types.Property {
	return &types.Property{
		ID:          id,
		Name:        name,
		Price:       price,
		BaseRent:    baseRent,
		Rent:        baseRent,
		Level:       1,
		UpgradeCost: price / 2,
	}
}

// DefaultBoard returns the built-in 24-square board used when no board file
// is supplied.
func DefaultBoard() []*types.Square {
	squares := []*types.Square{
		{Type: types.SquareNormal, Name: "Gateway Shrine"},
		{Type: types.SquareProperty, Property: newProperty("moonlit-grove", "Moonlit Grove", 100, 20)},
		{Type: types.SquareProperty, Property: newProperty("whispering-woods", "Whispering Woods", 120, 24)},
		{Type: types.SquareChance, Name: "Card of Fate"},
		{Type: types.SquareProperty, Property: newProperty("crystal-cavern", "Crystal Cavern", 140, 28)},
		{Type: types.SquarePenalty, Name: "Cursed Ground"},
		{Type: types.SquareShop, Name: "Wandering Bazaar"},
		{Type: types.SquareProperty, Property: newProperty("ember-peaks", "Ember Peaks", 160, 32)},
		{Type: types.SquarePark, Name: "Tranquil Glade"},
		{Type: types.SquareProperty, Property: newProperty("frostfall-keep", "Frostfall Keep", 180, 36)},
		{Type: types.SquareBoss, Name: "Gloom Warden's Lair", Boss: &types.Boss{
			Name: "Gloom Warden", Strength: 8, RewardGold: 300, RewardXP: 120, LegendaryChance: 0.25,
		}},
		{Type: types.SquareProperty, Property: newProperty("sunken-temple", "Sunken Temple", 200, 40)},
		{Type: types.SquareBonus, Name: "Font of Fortune"},
		{Type: types.SquareProperty, Property: newProperty("shadowfen", "Shadowfen", 220, 44)},
		{Type: types.SquareChance, Name: "Card of Fate"},
		{Type: types.SquareProperty, Property: newProperty("starfall-plains", "Starfall Plains", 240, 48)},
		{Type: types.SquareSlot, Name: "Gambler's Den"},
		{Type: types.SquareProperty, Property: newProperty("runestone-quarry", "Runestone Quarry", 260, 52)},
		{Type: types.SquarePenalty, Name: "Cursed Ground"},
		{Type: types.SquareProperty, Property: newProperty("gilded-spire", "Gilded Spire", 280, 56)},
		{Type: types.SquarePark, Name: "Tranquil Glade"},
		{Type: types.SquareProperty, Property: newProperty("celestial-bridge", "Celestial Bridge", 300, 60)},
		{Type: types.SquareChance, Name: "Card of Fate"},
		{Type: types.SquareProperty, Property: newProperty("dragons-roost", "Dragon's Roost", 350, 70)},
	}

	for i, sq := range squares {
		sq.Index = i
		if sq.Property != nil {
			sq.Name = sq.Property.Name
		}
	}

	return squares
}

// DefaultChanceCards returns the built-in chance deck.
func DefaultChanceCards() []types.Card {
	return []types.Card{
		{Text: "A grateful spirit rewards your kindness.", Coins: 150},
		{Text: "You find a pouch of gold on the path.", Coins: 100},
		{Text: "An elder shares ancient wisdom with you.", XP: 50},
		{Text: "A tailwind carries you forward.", Move: 3},
		{Text: "You sell rare herbs at the market.", Coins: 80, XP: 10},
		{Text: "A traveling bard sings of your deeds.", XP: 30, Coins: 20},
	}
}

// DefaultPenaltyCards returns the built-in penalty deck.
func DefaultPenaltyCards() []types.Card {
	return []types.Card{
		{Text: "Bandits ambush you on the road.", Coins: -120},
		{Text: "A storm scatters your supplies.", Coins: -80},
		{Text: "You pay tribute to a roadside warlord.", Coins: -100},
		{Text: "A trickster imp steals your coin purse.", Coins: -60},
		{Text: "The town guard locks you away.", JailTurns: 2},
		{Text: "A hex saps your strength.", Coins: -40, XP: 10},
	}
}
