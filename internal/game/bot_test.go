package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/mystical-path/internal/types"
)

// scoreBoard builds a 24-square board with properties placed at the given
// indexes, for exercising the bot's value scoring.
func scoreBoard(props map[int]*types.Property) []*types.Square {
	board := normalBoard(24)
	for idx, prop := range props {
		board[idx] = &types.Square{Index: idx, Type: types.SquareProperty, Name: prop.Name, Property: prop}
	}
	return board
}

func TestMinReserve(t *testing.T) {
	// Floor of 200 when rents are low
	assert.Equal(t, 200, MinReserve(testBoard()))

	// Twice the highest rent once that exceeds the floor
	expensive := newProperty("gilded-spire", "Gilded Spire", 500, 150)
	board := scoreBoard(map[int]*types.Property{5: expensive})
	assert.Equal(t, 300, MinReserve(board))
}

func TestBotSkipsPurchaseBreachingReserve(t *testing.T) {
	bot := NewBotEngine(NewDiceRollerFromSource(fixedSource(0)))
	prop := newProperty("moonlit-grove", "Moonlit Grove", 100, 20)
	board := scoreBoard(map[int]*types.Property{12: prop})

	p := testPlayer("bot")
	p.Coins = 250 // 250 - 100 = 150 < 200 reserve

	assert.False(t, bot.ShouldBuyProperty(p, prop, board))
}

func TestBotBuysWhenFlush(t *testing.T) {
	bot := NewBotEngine(NewDiceRollerFromSource(fixedSource(0)))
	prop := newProperty("moonlit-grove", "Moonlit Grove", 100, 20)
	board := scoreBoard(map[int]*types.Property{1: prop})

	p := testPlayer("bot")
	p.Coins = 1000 // three times the price and then some

	assert.True(t, bot.ShouldBuyProperty(p, prop, board))
}

func TestBotValueScore(t *testing.T) {
	bot := NewBotEngine(NewDiceRollerFromSource(fixedSource(0)))

	// Central, high-yield property surrounded by the bot's own holdings
	target := newProperty("sunken-temple", "Sunken Temple", 200, 60)
	n1 := newProperty("n1", "Near One", 100, 20)
	n2 := newProperty("n2", "Near Two", 100, 20)
	n3 := newProperty("n3", "Near Three", 100, 20)
	board := scoreBoard(map[int]*types.Property{12: target, 10: n1, 11: n2, 14: n3})

	p := testPlayer("bot")
	p.Coins = 450 // below the 3x shortcut, above reserve + price
	for _, prop := range []*types.Property{n1, n2, n3} {
		prop.OwnerID = p.ID
		p.Properties = append(p.Properties, prop.ID)
	}

	assert.True(t, bot.ShouldBuyProperty(p, target, board))

	// Isolated low-yield property at the board's edge scores under 0.6
	dud := newProperty("shadowfen", "Shadowfen", 200, 10)
	dudBoard := scoreBoard(map[int]*types.Property{1: dud})
	loner := testPlayer("loner")
	loner.Coins = 450

	assert.False(t, bot.ShouldBuyProperty(loner, dud, dudBoard))
}

func TestBotMarketRespectsReserve(t *testing.T) {
	bot := NewBotEngine(NewDiceRollerFromSource(fixedSource(0)))
	board := normalBoard(12)

	candidate := &types.Item{
		ID: "c1", Slot: types.SlotWeapon, Rarity: types.RarityLegendary, Value: 600,
		Effects: types.ItemEffects{GoldMultiplier: 0.2},
	}

	rich := testPlayer("rich")
	rich.Coins = 1000
	require.NotNil(t, bot.ChooseMarketItem(rich, []*types.Item{candidate}, board))

	// 850 - 600 = 250 < reserve + 100
	tight := testPlayer("tight")
	tight.Coins = 850
	assert.Nil(t, bot.ChooseMarketItem(tight, []*types.Item{candidate}, board))
}

func TestBotMarketReplacementMargin(t *testing.T) {
	bot := NewBotEngine(NewDiceRollerFromSource(fixedSource(0)))
	board := normalBoard(12)

	p := testPlayer("bot")
	p.Coins = 5000
	p.Inventory[types.SlotWeapon] = &types.Item{
		ID: "old", Slot: types.SlotWeapon, Rarity: types.RarityLegendary,
		Effects: types.ItemEffects{GoldMultiplier: 0.4},
	}

	// Slightly better, but not 20% better than the incumbent
	marginal := &types.Item{
		ID: "new", Slot: types.SlotWeapon, Rarity: types.RarityLegendary, Value: 600,
		Effects: types.ItemEffects{GoldMultiplier: 0.5},
	}
	assert.Nil(t, bot.ChooseMarketItem(p, []*types.Item{marginal}, board))

	// Clearly better candidates do replace
	superior := &types.Item{
		ID: "sup", Slot: types.SlotWeapon, Rarity: types.RarityLegendary, Value: 600,
		Effects: types.ItemEffects{GoldMultiplier: 1.0},
	}
	assert.Equal(t, superior, bot.ChooseMarketItem(p, []*types.Item{superior}, board))
}

func TestBotBossDecision(t *testing.T) {
	bot := NewBotEngine(NewDiceRollerFromSource(fixedSource(0)))

	even := testPlayer("even")
	even.Strength = 10
	assert.True(t, bot.ShouldFightBoss(even, &types.Boss{Strength: 10}))

	weak := testPlayer("weak")
	assert.False(t, bot.ShouldFightBoss(weak, &types.Boss{Strength: 1000}))
}

func TestBotUpgradePlan(t *testing.T) {
	bot := NewBotEngine(NewDiceRollerFromSource(fixedSource(0)))

	good := newProperty("good", "Good Yield", 200, 60)
	good.UpgradeCost = 100
	poor := newProperty("poor", "Poor Yield", 140, 28)
	poor.UpgradeCost = 70
	maxed := newProperty("maxed", "Maxed Out", 100, 20)
	maxed.Level = 5

	board := scoreBoard(map[int]*types.Property{3: good, 7: poor, 9: maxed})

	p := testPlayer("bot")
	p.Coins = 350
	for _, prop := range []*types.Property{good, poor, maxed} {
		prop.OwnerID = p.ID
		p.Properties = append(p.Properties, prop.ID)
	}

	// Budget covers the best-ratio upgrade only; the reserve blocks the rest
	plan := bot.PlanUpgrades(p, board)
	require.Len(t, plan, 1)
	assert.Equal(t, "good", plan[0].ID)
}
