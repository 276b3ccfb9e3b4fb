package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds all configuration for the application
type Config struct {
	// Game rules configuration
	Game GameConfig `json:"game"`

	// Turn pacing configuration
	Pacing PacingConfig `json:"pacing"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// GameConfig holds game rule specific configuration
type GameConfig struct {
	// Starting coins for every player
	StartingMoney int `json:"starting_money"`

	// Coins granted when passing the start square
	PassStartBonus int `json:"pass_start_bonus"`

	// Global rent multiplier applied to every property
	RentMultiplier float64 `json:"rent_multiplier"`

	// Whether rain halves rent
	WeatherEnabled bool `json:"weather_enabled"`

	// Probability of rain per turn (0-100)
	WeatherChance int `json:"weather_chance"`

	// Whether the roaming king token amplifies rent
	KingEnabled bool `json:"king_enabled"`

	// Whether slot squares are active
	SlotEnabled bool `json:"slot_enabled"`

	// Coins staked per slot spin
	SlotStake int `json:"slot_stake"`

	// Jackpot pools reset to these seeds when won
	JackpotMiniSeed int `json:"jackpot_mini_seed"`
	JackpotMegaSeed int `json:"jackpot_mega_seed"`

	// XP granted on park squares
	ParkXP int `json:"park_xp"`

	// Coins and XP granted on bonus squares (before multipliers)
	BonusCoins int `json:"bonus_coins"`
	BonusXP    int `json:"bonus_xp"`

	// Roster size limits
	MinPlayers int `json:"min_players"`
	MaxPlayers int `json:"max_players"`
}

// PacingConfig holds the delays that keep automatic play legible. Zero values
// make the corresponding step run synchronously, which tests rely on.
type PacingConfig struct {
	// Delay between movement ticks in milliseconds
	MoveTickMs int `json:"move_tick_ms"`

	// Display delay after a card/park/bonus resolution
	CardDelayMs int `json:"card_delay_ms"`

	// Delay before an automatic bot turn begins
	BotThinkMs int `json:"bot_think_ms"`

	// How long the combat result banner stays visible
	CombatBannerMs int `json:"combat_banner_ms"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level"`

	// Base URL encoded into the join QR code
	JoinURL string `json:"join_url"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			StartingMoney:   1500,
			PassStartBonus:  200,
			RentMultiplier:  1.0,
			WeatherEnabled:  true,
			WeatherChance:   15,
			KingEnabled:     true,
			SlotEnabled:     true,
			SlotStake:       50,
			JackpotMiniSeed: 500,
			JackpotMegaSeed: 2000,
			ParkXP:          20,
			BonusCoins:      100,
			BonusXP:         30,
			MinPlayers:      2,
			MaxPlayers:      6,
		},
		Pacing: PacingConfig{
			MoveTickMs:     300,
			CardDelayMs:    1500,
			BotThinkMs:     1200,
			CombatBannerMs: 3000,
		},
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
			JoinURL:  "http://localhost:8080",
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		return config, nil
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
