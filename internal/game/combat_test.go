package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/mystical-path/internal/types"
)

func testPlayer(name string) *types.Player {
	return &types.Player{
		ID:        name,
		Name:      name,
		Level:     1,
		Strength:  1,
		Coins:     1000,
		Inventory: make(map[types.ItemSlot]*types.Item),
		Income:    make(map[string]int),
		Expenses:  make(map[string]int),
	}
}

func TestPlayerStrength(t *testing.T) {
	p := testPlayer("hero")
	assert.Equal(t, 1, PlayerStrength(p))

	p.Properties = []string{"a", "b", "c"}
	assert.Equal(t, 4, PlayerStrength(p))

	p.Inventory[types.SlotWeapon] = &types.Item{Rarity: types.RarityLegendary}
	p.Inventory[types.SlotArmor] = &types.Item{Rarity: types.RarityRare}
	p.Inventory[types.SlotBoots] = &types.Item{Rarity: types.RarityCommon}
	assert.Equal(t, 7, PlayerStrength(p))
}

func TestWinChanceClamp(t *testing.T) {
	// Hopeless odds still leave a 10% chance
	assert.Equal(t, 10.0, WinChance(1, 1000))

	// Overwhelming strength is capped at 90%
	assert.Equal(t, 90.0, WinChance(1000, 1))

	// Even match is a coin flip
	assert.Equal(t, 50.0, WinChance(10, 10))
}

func TestResolveCombatAlwaysWinsAtZeroDraw(t *testing.T) {
	// A zero draw is below any clamped win chance, so even terrible odds win.
	dice := NewDiceRollerFromSource(fixedSource(0))
	items := NewItemGenerator(dice)

	p := testPlayer("hero")
	boss := &types.Boss{Name: "Gloom Warden", Strength: 1000, RewardGold: 300, RewardXP: 120, LegendaryChance: 0.25}

	result := ResolveCombat(p, boss, dice, items)
	require.True(t, result.Won)
	assert.Equal(t, 10.0, result.WinChance)
	assert.Equal(t, 300, result.GoldReward)
	assert.Equal(t, 120, result.XPReward)
	assert.Zero(t, result.GoldLost)

	// Drop roll of zero is under the legendary chance
	require.NotNil(t, result.Drop)
	assert.Equal(t, types.RarityLegendary, result.Drop.Rarity)
}

func TestResolveCombatAlwaysLosesAtHighDraw(t *testing.T) {
	// A ~0.95 draw sits above the 90% cap, so even great odds lose.
	dice := NewDiceRollerFromSource(highSource)
	items := NewItemGenerator(dice)

	p := testPlayer("hero")
	p.Strength = 1000
	p.Coins = 501
	boss := &types.Boss{Name: "Gloom Warden", Strength: 1, RewardGold: 300, RewardXP: 120}

	result := ResolveCombat(p, boss, dice, items)
	require.False(t, result.Won)
	assert.Equal(t, 90.0, result.WinChance)
	// Loss costs half the current coins, floored
	assert.Equal(t, 250, result.GoldLost)
	assert.Nil(t, result.Drop)
}

func TestResolveCombatRewardScaling(t *testing.T) {
	dice := NewDiceRollerFromSource(fixedSource(0))
	items := NewItemGenerator(dice)

	p := testPlayer("hero")
	p.Inventory[types.SlotAmulet] = &types.Item{
		Rarity:  types.RarityRare,
		Effects: types.ItemEffects{GoldMultiplier: 0.5, ExpBonus: 0.25},
	}
	boss := &types.Boss{Name: "Gloom Warden", Strength: 8, RewardGold: 300, RewardXP: 120}

	result := ResolveCombat(p, boss, dice, items)
	require.True(t, result.Won)
	assert.Equal(t, 450, result.GoldReward)
	assert.Equal(t, 150, result.XPReward)
}
