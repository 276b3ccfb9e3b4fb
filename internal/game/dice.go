package game

import (
	"math/rand"
	"time"
)

// DiceRoller wraps the game's single random source. Every random outcome
// (dice, cards, combat, loot, slots) draws from it so a seeded roller makes a
// whole game reproducible.
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a dice roller seeded from the clock
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(time.Now().UnixNano())
}

// NewSeededDiceRoller creates a dice roller with a fixed seed
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return NewDiceRollerFromSource(rand.NewSource(seed))
}

// NewDiceRollerFromSource creates a dice roller over an arbitrary random
// source, letting tests pin every outcome.
func NewDiceRollerFromSource(src rand.Source) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(src),
	}
}

// Roll rolls a die with the specified number of sides
func (dr *DiceRoller) Roll(sides int) int {
	return dr.rng.Intn(sides) + 1
}

// RollMovement rolls the pair of movement dice
func (dr *DiceRoller) RollMovement() int {
	return dr.Roll(6) + dr.Roll(6)
}

// Intn returns a uniform value in [0, n)
func (dr *DiceRoller) Intn(n int) int {
	return dr.rng.Intn(n)
}

// Float64 returns a uniform value in [0, 1)
func (dr *DiceRoller) Float64() float64 {
	return dr.rng.Float64()
}

// Chance reports whether a roll lands under the given percent (0-100)
func (dr *DiceRoller) Chance(percent int) bool {
	return dr.Roll(100) <= percent
}
