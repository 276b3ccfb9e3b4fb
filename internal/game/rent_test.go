package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/mystical-path/internal/types"
)

func TestComputeRent(t *testing.T) {
	prop := newProperty("moonlit-grove", "Moonlit Grove", 100, 20)
	base := RentContext{RentMultiplier: 1, SquareIndex: 1}

	// Plain level-1 rent is the base rent
	assert.Equal(t, 20, ComputeRent(prop, base))

	// Rain halves rent when weather is enabled
	rain := base
	rain.Weather = types.WeatherRain
	rain.WeatherEnabled = true
	assert.Equal(t, 10, ComputeRent(prop, rain))

	// Rain without the weather feature changes nothing
	rainDisabled := base
	rainDisabled.Weather = types.WeatherRain
	assert.Equal(t, 20, ComputeRent(prop, rainDisabled))

	// The king amplifies rent tenfold on his square
	king := base
	king.KingEnabled = true
	king.KingPosition = 1
	assert.Equal(t, 200, ComputeRent(prop, king))

	// King elsewhere has no effect
	kingElsewhere := king
	kingElsewhere.KingPosition = 5
	assert.Equal(t, 20, ComputeRent(prop, kingElsewhere))
}

func TestComputeRentLevels(t *testing.T) {
	prop := newProperty("crystal-cavern", "Crystal Cavern", 140, 28)
	ctx := RentContext{RentMultiplier: 1, SquareIndex: 3}

	prop.Level = 3
	// floor(28 * 1.4) = 39
	assert.Equal(t, 39, ComputeRent(prop, ctx))

	prop.Level = 5
	// floor(28 * 1.8) = 50
	assert.Equal(t, 50, ComputeRent(prop, ctx))
}

func TestComputeRentMultiplierStack(t *testing.T) {
	prop := newProperty("gilded-spire", "Gilded Spire", 280, 56)
	ctx := RentContext{
		RentMultiplier: 2,
		Weather:        types.WeatherRain,
		WeatherEnabled: true,
		KingEnabled:    true,
		KingPosition:   7,
		SquareIndex:    7,
	}
	prop.Level = 2

	// floor(56 * 1.2 * 2 * 0.5 * 10) = 672
	assert.Equal(t, 672, ComputeRent(prop, ctx))
}

func TestHighestRent(t *testing.T) {
	board := testBoard()
	assert.Equal(t, 28, HighestRent(board))

	assert.Equal(t, 0, HighestRent(normalBoard(8)))
}
