package types

import (
	"time"
)

// SquareType identifies the behavior of a board square.
type SquareType string

const (
	SquareNormal   SquareType = "normal"
	SquareProperty SquareType = "property"
	SquareChance   SquareType = "chance"
	SquarePenalty  SquareType = "penalty"
	SquareShop     SquareType = "shop"
	SquarePark     SquareType = "park"
	SquareBonus    SquareType = "bonus"
	SquareBoss     SquareType = "boss"
	SquareSlot     SquareType = "slot"
)

// ItemSlot identifies the equipment slot an item occupies.
type ItemSlot string

const (
	SlotWeapon ItemSlot = "weapon"
	SlotArmor  ItemSlot = "armor"
	SlotBoots  ItemSlot = "boots"
	SlotAmulet ItemSlot = "amulet"
)

// AllSlots lists every equipment slot in a stable order.
var AllSlots = []ItemSlot{SlotWeapon, SlotArmor, SlotBoots, SlotAmulet}

// Rarity is an item rarity tier.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// ItemEffects holds the fractional modifiers an item grants while equipped.
type ItemEffects struct {
	RentReduction  float64 `json:"rent_reduction"`
	GoldMultiplier float64 `json:"gold_multiplier"`
	ExpBonus       float64 `json:"exp_bonus"`
}

// Item is a piece of equipment. Immutable once generated.
type Item struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Slot    ItemSlot    `json:"slot"`
	Rarity  Rarity      `json:"rarity"`
	Effects ItemEffects `json:"effects"`
	Value   int         `json:"value"`
}

// Property is a purchasable, upgradable square asset.
type Property struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	BaseRent    int    `json:"base_rent"`
	Rent        int    `json:"rent"`
	Level       int    `json:"level"`
	UpgradeCost int    `json:"upgrade_cost"`
	OwnerID     string `json:"owner_id,omitempty"`
}

// Boss is the opponent embedded in a boss square.
type Boss struct {
	Name            string  `json:"name"`
	Strength        int     `json:"strength"`
	RewardGold      int     `json:"reward_gold"`
	RewardXP        int     `json:"reward_xp"`
	LegendaryChance float64 `json:"legendary_chance"`
}

// Square is one fixed position on the cyclic board.
type Square struct {
	Index    int        `json:"index"`
	Type     SquareType `json:"type"`
	Name     string     `json:"name"`
	Property *Property  `json:"property,omitempty"`
	Boss     *Boss      `json:"boss,omitempty"`
}

// Card is a chance or penalty card with its state deltas.
type Card struct {
	Text      string `json:"text"`
	Coins     int    `json:"coins"`
	XP        int    `json:"xp"`
	Move      int    `json:"move"`
	JailTurns int    `json:"jail_turns"`
}

// Player is one participant, human or bot.
type Player struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Color         string             `json:"color"`
	IsBot         bool               `json:"is_bot"`
	Position      int                `json:"position"`
	Coins         int                `json:"coins"`
	Level         int                `json:"level"`
	XP            int                `json:"xp"`
	Strength      int                `json:"strength"`
	InJail        bool               `json:"in_jail"`
	JailTurnsLeft int                `json:"jail_turns_left"`
	Properties    []string           `json:"properties"`
	Inventory     map[ItemSlot]*Item `json:"inventory"`
	AllianceID    string             `json:"alliance_id,omitempty"`
	Income        map[string]int     `json:"income"`
	Expenses      map[string]int     `json:"expenses"`
	CreatedAt     time.Time          `json:"created_at"`
}

// OwnsProperty reports whether the player owns the given property id.
func (p *Player) OwnsProperty(propertyID string) bool {
	for _, id := range p.Properties {
		if id == propertyID {
			return true
		}
	}
	return false
}

// Alliance is a named group of players with a shared treasury.
type Alliance struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
	Treasury  int      `json:"treasury"`
}

// Weather is the global weather mode affecting rent.
type Weather string

const (
	WeatherNone Weather = "none"
	WeatherRain Weather = "rain"
)

// DecisionKind names the human choice a pending decision gates on.
type DecisionKind string

const (
	DecisionProperty DecisionKind = "property"
	DecisionRent     DecisionKind = "rent"
	DecisionShop     DecisionKind = "shop"
	DecisionBoss     DecisionKind = "boss"
	DecisionSlot     DecisionKind = "slot"
)

// PendingDecision is the typed gate that pauses turn advancement until the
// acting human resolves it. At most one is set at a time.
type PendingDecision struct {
	Kind       DecisionKind `json:"kind"`
	PlayerID   string       `json:"player_id"`
	PropertyID string       `json:"property_id,omitempty"`
	RentAmount int          `json:"rent_amount,omitempty"`
	CreditorID string       `json:"creditor_id,omitempty"`
	Items      []*Item      `json:"items,omitempty"`
	Boss       *Boss        `json:"boss,omitempty"`
}

// Phase is the engine's position in the turn state machine.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseMoving    Phase = "moving"
	PhaseResolving Phase = "resolving"
	PhaseAwaiting  Phase = "awaiting"
	PhaseFinished  Phase = "finished"
)

// TurnToken identifies one specific turn. Delayed callbacks carry the token
// they were scheduled under and must not act once it goes stale.
type TurnToken struct {
	PlayerID string
	Seq      uint64
}

// LogCategory tags a log entry with its semantic kind.
type LogCategory string

const (
	LogTurn       LogCategory = "turn"
	LogMove       LogCategory = "move"
	LogPurchase   LogCategory = "purchase"
	LogRent       LogCategory = "rent"
	LogCard       LogCategory = "card"
	LogCombat     LogCategory = "combat"
	LogShop       LogCategory = "shop"
	LogSlot       LogCategory = "slot"
	LogAlliance   LogCategory = "alliance"
	LogBankruptcy LogCategory = "bankruptcy"
	LogSystem     LogCategory = "system"
)

// LogEntry is one append-only, human-readable event record.
type LogEntry struct {
	ID       string      `json:"id"`
	Seq      int         `json:"seq"`
	Category LogCategory `json:"category"`
	Text     string      `json:"text"`
	Time     time.Time   `json:"time"`
}

// Notification is a transient toast-style event for the presentation layer.
type Notification struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// CombatBanner is the transient combat-result payload shown after a boss
// fight. The engine clears it after a fixed delay.
type CombatBanner struct {
	Visible    bool   `json:"visible"`
	Won        bool   `json:"won"`
	BossName   string `json:"boss_name"`
	GoldReward int    `json:"gold_reward"`
	XPReward   int    `json:"xp_reward"`
	GoldLost   int    `json:"gold_lost"`
	Drop       *Item  `json:"drop,omitempty"`
}

// SpinResult is the payout outcome of one slot spin.
type SpinResult struct {
	Symbols      [3]string `json:"symbols"`
	Payout       int       `json:"payout"`
	WonMega      bool      `json:"won_mega"`
	WonMini      bool      `json:"won_mini"`
	Contribution int       `json:"contribution"`
}

// GameState is the single shared mutable root all components read and mutate.
// All mutation goes through engine transition methods.
type GameState struct {
	Players           []*Player            `json:"players"`
	CurrentTurn       int                  `json:"current_turn"`
	TurnSeq           uint64               `json:"turn_seq"`
	Board             []*Square            `json:"board"`
	Weather           Weather              `json:"weather"`
	KingPosition      int                  `json:"king_position"` // -1 when absent
	JackpotMini       int                  `json:"jackpot_mini"`
	JackpotMega       int                  `json:"jackpot_mega"`
	Pending           *PendingDecision     `json:"pending,omitempty"`
	Phase             Phase                `json:"phase"`
	BotTurnInProgress bool                 `json:"bot_turn_in_progress"`
	ActiveBoss        *Boss                `json:"active_boss,omitempty"`
	CombatBanner      *CombatBanner        `json:"combat_banner,omitempty"`
	Alliances         map[string]*Alliance `json:"alliances"`
	Log               []LogEntry           `json:"log"`
	Notifications     []Notification       `json:"notifications"`
	Started           bool                 `json:"started"`
	WinnerID          string               `json:"winner_id,omitempty"`
}

// CurrentPlayer returns the player whose turn it is, or nil before start or
// after the roster empties.
func (gs *GameState) CurrentPlayer() *Player {
	if len(gs.Players) == 0 || gs.CurrentTurn < 0 || gs.CurrentTurn >= len(gs.Players) {
		return nil
	}
	return gs.Players[gs.CurrentTurn]
}

// PlayerByID returns the active-roster player with the given id.
func (gs *GameState) PlayerByID(id string) *Player {
	for _, p := range gs.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PropertyByID scans the board for the property with the given id.
func (gs *GameState) PropertyByID(id string) *Property {
	for _, sq := range gs.Board {
		if sq.Property != nil && sq.Property.ID == id {
			return sq.Property
		}
	}
	return nil
}

// SquareOfProperty returns the board index of the given property, or -1.
func (gs *GameState) SquareOfProperty(id string) int {
	for _, sq := range gs.Board {
		if sq.Property != nil && sq.Property.ID == id {
			return sq.Index
		}
	}
	return -1
}

// WaitingForDecision reports whether automatic advancement is gated on a
// pending human decision or an in-flight movement/resolution step.
func (gs *GameState) WaitingForDecision() bool {
	return gs.Pending != nil || gs.Phase == PhaseMoving || gs.Phase == PhaseResolving
}
