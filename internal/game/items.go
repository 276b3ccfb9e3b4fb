package game

import (
	"github.com/google/uuid"
	"github.com/user/mystical-path/internal/types"
)

// itemTemplate describes one generatable item archetype.
type itemTemplate struct {
	name string
	slot types.ItemSlot
}

var itemTemplates = []itemTemplate{
	{name: "Runed Blade", slot: types.SlotWeapon},
	{name: "Hexwood Staff", slot: types.SlotWeapon},
	{name: "Wyrmscale Mail", slot: types.SlotArmor},
	{name: "Moonweave Cloak", slot: types.SlotArmor},
	{name: "Striders of the Gale", slot: types.SlotBoots},
	{name: "Boggart Treads", slot: types.SlotBoots},
	{name: "Charm of Greed", slot: types.SlotAmulet},
	{name: "Sigil of Warding", slot: types.SlotAmulet},
}

var rarityPrefixes = map[types.Rarity]string{
	types.RarityCommon:    "",
	types.RarityRare:      "Enchanted ",
	types.RarityLegendary: "Mythic ",
}

// rarityStrengthBonus is the combat strength an equipped item of the given
// rarity contributes.
var rarityStrengthBonus = map[types.Rarity]int{
	types.RarityCommon:    0,
	types.RarityRare:      1,
	types.RarityLegendary: 2,
}

var rarityBaseValue = map[types.Rarity]int{
	types.RarityCommon:    100,
	types.RarityRare:      250,
	types.RarityLegendary: 600,
}

// ItemGenerator produces randomized equipment from the template table.
type ItemGenerator struct {
	dice *DiceRoller
}

// NewItemGenerator creates a new item generator
func NewItemGenerator(dice *DiceRoller) *ItemGenerator {
	return &ItemGenerator{dice: dice}
}

// GenerateRandom rolls a rarity tier (60/30/10) and generates an item of it.
func (ig *ItemGenerator) GenerateRandom() *types.Item {
	roll := ig.dice.Roll(100)
	switch {
	case roll <= 60:
		return ig.Generate(types.RarityCommon)
	case roll <= 90:
		return ig.Generate(types.RarityRare)
	default:
		return ig.Generate(types.RarityLegendary)
	}
}

// Generate produces a randomized item of the given rarity tier.
func (ig *ItemGenerator) Generate(rarity types.Rarity) *types.Item {
	tmpl := itemTemplates[ig.dice.Intn(len(itemTemplates))]

	effects := ig.rollEffects(rarity)
	value := rarityBaseValue[rarity]
	value += int((effects.RentReduction + effects.GoldMultiplier + effects.ExpBonus) * 200)

	return &types.Item{
		ID:      uuid.New().String(),
		Name:    rarityPrefixes[rarity] + tmpl.name,
		Slot:    tmpl.slot,
		Rarity:  rarity,
		Effects: effects,
		Value:   value,
	}
}

// rollEffects draws one to two fractional modifiers sized by rarity.
func (ig *ItemGenerator) rollEffects(rarity types.Rarity) types.ItemEffects {
	var scale float64
	switch rarity {
	case types.RarityLegendary:
		scale = 0.15
	case types.RarityRare:
		scale = 0.08
	default:
		scale = 0.04
	}

	effects := types.ItemEffects{}
	count := 1
	if rarity != types.RarityCommon {
		count = 2
	}

	for i := 0; i < count; i++ {
		magnitude := scale * (0.5 + ig.dice.Float64())
		switch ig.dice.Intn(3) {
		case 0:
			effects.RentReduction += magnitude
		case 1:
			effects.GoldMultiplier += magnitude
		default:
			effects.ExpBonus += magnitude
		}
	}

	return effects
}

// BonusSummary is a player's aggregated equipped-item modifiers.
type BonusSummary struct {
	RentReduction  float64
	GoldMultiplier float64
	ExpBonus       float64
}

// EquipBonuses aggregates a player's equipped items into net modifiers.
// Stacking is deliberately unbounded; only the charge path clamps rent
// reduction at 100%.
func EquipBonuses(p *types.Player) BonusSummary {
	summary := BonusSummary{GoldMultiplier: 1}
	for _, item := range p.Inventory {
		if item == nil {
			continue
		}
		summary.RentReduction += item.Effects.RentReduction
		summary.GoldMultiplier += item.Effects.GoldMultiplier
		summary.ExpBonus += item.Effects.ExpBonus
	}
	return summary
}
