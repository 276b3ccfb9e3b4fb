package game

import (
	"math"

	"github.com/user/mystical-path/internal/types"
)

// PlayerStrength derives a player's effective combat strength: base strength
// plus one per owned property plus equipped-item rarity bonuses.
func PlayerStrength(p *types.Player) int {
	strength := p.Strength + len(p.Properties)
	for _, item := range p.Inventory {
		if item == nil {
			continue
		}
		strength += rarityStrengthBonus[item.Rarity]
	}
	return strength
}

// WinChance computes the displayed win probability in percent, clamped to
// [10, 90] so no fight is ever a certainty either way.
func WinChance(strength, bossStrength int) float64 {
	chance := float64(strength) / float64(strength+bossStrength) * 100
	return math.Min(90, math.Max(10, chance))
}

// CombatResult is the outcome of one resolved boss fight.
type CombatResult struct {
	Won        bool
	WinChance  float64
	GoldReward int
	XPReward   int
	GoldLost   int
	Drop       *types.Item
}

// ResolveCombat draws the fight outcome and computes rewards or penalties.
// The caller applies the result to the player; exactly one combat resolves
// per active boss.
func ResolveCombat(p *types.Player, boss *types.Boss, dice *DiceRoller, items *ItemGenerator) CombatResult {
	bonuses := EquipBonuses(p)
	chance := WinChance(PlayerStrength(p), boss.Strength)

	result := CombatResult{WinChance: chance}

	if dice.Float64()*100 < chance {
		result.Won = true
		result.GoldReward = int(float64(boss.RewardGold) * bonuses.GoldMultiplier)
		result.XPReward = int(float64(boss.RewardXP) * (1 + bonuses.ExpBonus))
		if dice.Float64() < boss.LegendaryChance {
			result.Drop = items.Generate(types.RarityLegendary)
		}
		return result
	}

	result.GoldLost = p.Coins / 2
	return result
}
