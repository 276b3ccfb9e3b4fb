package game

import (
	"math"

	"github.com/user/mystical-path/internal/types"
)

// RentContext carries the global state a rent computation depends on.
type RentContext struct {
	RentMultiplier float64
	Weather        types.Weather
	WeatherEnabled bool
	KingPosition   int
	KingEnabled    bool
	SquareIndex    int
}

// ComputeRent is the single source of truth for a property's current rent.
// Both the charged amount and the displayed amount come from here.
func ComputeRent(p *types.Property, ctx RentContext) int {
	rent := float64(p.BaseRent) * (1 + float64(p.Level-1)*0.2) * ctx.RentMultiplier

	if ctx.WeatherEnabled && ctx.Weather == types.WeatherRain {
		rent *= 0.5
	}

	if ctx.KingEnabled && ctx.KingPosition >= 0 && ctx.KingPosition == ctx.SquareIndex {
		rent *= 10
	}

	return int(math.Floor(rent))
}

// HighestRent returns the largest current rent on the board, or 0 when no
// property exists.
func HighestRent(board []*types.Square) int {
	highest := 0
	for _, sq := range board {
		if sq.Property != nil && sq.Property.Rent > highest {
			highest = sq.Property.Rent
		}
	}
	return highest
}
