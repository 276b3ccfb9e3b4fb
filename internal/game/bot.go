package game

import (
	"math"
	"sort"

	"github.com/user/mystical-path/internal/types"
)

// BotEngine makes buy/equip/fight decisions for bot players. All decisions
// preserve a minimum coin reserve sized from the board's highest rent.
type BotEngine struct {
	dice *DiceRoller
}

// NewBotEngine creates a new bot decision engine
func NewBotEngine(dice *DiceRoller) *BotEngine {
	return &BotEngine{dice: dice}
}

// MinReserve is the coin buffer a bot never spends below.
func MinReserve(board []*types.Square) int {
	reserve := 2 * HighestRent(board)
	if reserve < 200 {
		reserve = 200
	}
	return reserve
}

// ShouldBuyProperty decides whether a bot buys the unowned property it
// landed on.
func (be *BotEngine) ShouldBuyProperty(p *types.Player, prop *types.Property, board []*types.Square) bool {
	reserve := MinReserve(board)
	if p.Coins-prop.Price < reserve {
		return false
	}

	// Flush bots buy without deliberation.
	if p.Coins >= 3*prop.Price {
		return true
	}

	return be.propertyScore(p, prop, board) > 0.6
}

// propertyScore weighs rent yield, board centrality and neighborhood
// presence into a 0..1 value.
func (be *BotEngine) propertyScore(p *types.Player, prop *types.Property, board []*types.Square) float64 {
	ratio := math.Min(float64(prop.Rent)*10/float64(prop.Price), 1)

	pos := -1
	for _, sq := range board {
		if sq.Property != nil && sq.Property.ID == prop.ID {
			pos = sq.Index
			break
		}
	}

	half := float64(len(board)) / 2
	centrality := 0.0
	if pos >= 0 {
		centrality = 1 - math.Abs(float64(pos)-half)/half
	}

	nearby := 0
	if pos >= 0 {
		for offset := -3; offset <= 3; offset++ {
			if offset == 0 {
				continue
			}
			idx := ((pos+offset)%len(board) + len(board)) % len(board)
			sq := board[idx]
			if sq.Property != nil && sq.Property.OwnerID == p.ID {
				nearby++
			}
		}
	}
	neighborhood := math.Min(float64(nearby)/3, 1)

	return 0.4*ratio + 0.2*centrality + 0.4*neighborhood
}

// ChooseMarketItem picks the best of the candidate items, or nil to skip.
// A candidate only replaces an equipped item when it beats the incumbent's
// score by at least 20%.
func (be *BotEngine) ChooseMarketItem(p *types.Player, candidates []*types.Item, board []*types.Square) *types.Item {
	reserve := MinReserve(board)

	var best *types.Item
	bestScore := 0.0

	for _, item := range candidates {
		if p.Coins-item.Value < reserve+100 {
			continue
		}

		score := be.itemScore(p, item)
		if equipped := p.Inventory[item.Slot]; equipped != nil {
			if score < be.itemScore(p, equipped)*1.2 {
				continue
			}
		}

		if score > bestScore {
			best = item
			bestScore = score
		}
	}

	if bestScore <= 0.5 {
		return nil
	}
	return best
}

func (be *BotEngine) itemScore(p *types.Player, item *types.Item) float64 {
	score := 0.0

	if p.Inventory[item.Slot] == nil {
		score += 0.3
	}

	switch item.Rarity {
	case types.RarityLegendary:
		score += 0.4
	case types.RarityRare:
		score += 0.3
	default:
		score += 0.1
	}

	score += item.Effects.GoldMultiplier * 0.5
	score += item.Effects.RentReduction * 0.3
	score += item.Effects.ExpBonus * 0.2

	return score
}

// ShouldFightBoss mirrors the combat resolver's win-chance formula and
// fights only at even odds or better.
func (be *BotEngine) ShouldFightBoss(p *types.Player, boss *types.Boss) bool {
	return WinChance(PlayerStrength(p), boss.Strength) >= 50
}

// PlanUpgrades returns the owned properties to upgrade this turn, best
// rent-to-cost ratio first, stopping where the reserve would be breached.
// Costs escalate as upgrades apply, so the budget is simulated here.
func (be *BotEngine) PlanUpgrades(p *types.Player, board []*types.Square) []*types.Property {
	reserve := MinReserve(board)

	var owned []*types.Property
	for _, sq := range board {
		if sq.Property != nil && sq.Property.OwnerID == p.ID && sq.Property.Level < 5 {
			owned = append(owned, sq.Property)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		ri := float64(owned[i].Rent) / float64(owned[i].UpgradeCost)
		rj := float64(owned[j].Rent) / float64(owned[j].UpgradeCost)
		return ri > rj
	})

	budget := p.Coins
	var plan []*types.Property
	for _, prop := range owned {
		if budget-prop.UpgradeCost < reserve {
			continue
		}
		budget -= prop.UpgradeCost
		plan = append(plan, prop)
	}

	return plan
}
