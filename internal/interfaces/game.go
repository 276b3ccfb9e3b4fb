package interfaces

import "github.com/user/mystical-path/internal/types"

// GameEngine defines the operations the presentation layer drives
type GameEngine interface {
	AddPlayer(name string, isBot bool) (*types.Player, error)
	Start() error
	RollDice(playerID string) error
	PurchaseProperty(playerID string, accept bool) error
	PayRent(playerID string) error
	BuyShopItem(playerID string, index int) error
	FightBoss(playerID string) error
	FleeBoss(playerID string) error
	SpinSlot(playerID string) (*types.SpinResult, error)
	DismissDecision(playerID string) error
	UpgradeProperty(playerID, propertyID string) error
	CreateAlliance(name string, memberIDs []string) (*types.Alliance, error)
	ContributeToAlliance(playerID string, amount int) error
	Snapshot() *types.GameState
	DrainNotifications() []types.Notification
	Halt()
}
