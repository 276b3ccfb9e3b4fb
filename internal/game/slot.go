package game

import (
	"github.com/user/mystical-path/internal/types"
)

// Slot reel symbols. Sevens pay the mega jackpot, stars the mini.
var slotSymbols = []string{"seven", "star", "bell", "cherry", "lemon"}

// SpinSlots draws three reels and resolves the payout table for the given
// stake. Losing spins contribute half the stake to the jackpot pools.
// Jackpot mutation is applied by the engine.
func SpinSlots(dice *DiceRoller, stake int) types.SpinResult {
	var result types.SpinResult
	for i := range result.Symbols {
		result.Symbols[i] = slotSymbols[dice.Intn(len(slotSymbols))]
	}

	a, b, c := result.Symbols[0], result.Symbols[1], result.Symbols[2]

	switch {
	case a == b && b == c && a == "seven":
		result.WonMega = true
	case a == b && b == c && a == "star":
		result.WonMini = true
	case a == b && b == c:
		result.Payout = stake * 10
	case a == b || b == c || a == c:
		result.Payout = stake * 2
	default:
		result.Contribution = stake / 2
	}

	return result
}
