package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"github.com/user/mystical-path/config"
	"github.com/user/mystical-path/internal/interfaces"
	"github.com/user/mystical-path/internal/types"
)

// Ensure Engine satisfies the interfaces.GameEngine interface
var _ interfaces.GameEngine = (*Engine)(nil)

var (
	ErrGameNotStarted     = errors.New("game has not started")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameFinished       = errors.New("game is already finished")
	ErrRosterFull         = errors.New("player roster is full")
	ErrNotEnoughPlayers   = errors.New("not enough players to start")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrWaitingForDecision = errors.New("waiting for a pending decision")
	ErrNoPendingDecision  = errors.New("no matching pending decision")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrNotPropertyOwner   = errors.New("player does not own this property")
	ErrMaxLevel           = errors.New("property is already at max level")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

var playerColors = []string{"crimson", "azure", "emerald", "amber", "violet", "silver"}

// Engine owns the shared GameState and is the only writer to it. Every
// public method locks, validates its precondition, applies the transition
// and schedules any follow-up step.
type Engine struct {
	mu     sync.Mutex
	state  *types.GameState
	cfg    config.Config
	logger *zap.Logger
	dice   *DiceRoller
	items  *ItemGenerator
	bot    *BotEngine

	chanceDeck  []types.Card
	penaltyDeck []types.Card

	timers map[*time.Timer]struct{}
	halted bool
	logSeq int
}

// NewEngine creates an engine over the given board and card decks.
func NewEngine(cfg config.Config, board []*types.Square, chanceDeck, penaltyDeck []types.Card, dice *DiceRoller) *Engine {
	e := &Engine{
		state: &types.GameState{
			Board:        board,
			Weather:      types.WeatherNone,
			KingPosition: -1,
			JackpotMini:  cfg.Game.JackpotMiniSeed,
			JackpotMega:  cfg.Game.JackpotMegaSeed,
			Alliances:    make(map[string]*types.Alliance),
			Phase:        types.PhaseIdle,
		},
		cfg:         cfg,
		logger:      zap.NewNop(),
		dice:        dice,
		chanceDeck:  chanceDeck,
		penaltyDeck: penaltyDeck,
		timers:      make(map[*time.Timer]struct{}),
	}
	e.items = NewItemGenerator(dice)
	e.bot = NewBotEngine(dice)
	e.recomputeRents()
	return e
}

// SetLogger replaces the engine's logger
func (e *Engine) SetLogger(logger *zap.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = logger
}

// AddPlayer adds a player to the roster before the game starts.
func (e *Engine) AddPlayer(name string, isBot bool) (*types.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Started {
		return nil, ErrGameAlreadyStarted
	}
	if len(e.state.Players) >= e.cfg.Game.MaxPlayers {
		return nil, ErrRosterFull
	}

	player := &types.Player{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     playerColors[len(e.state.Players)%len(playerColors)],
		IsBot:     isBot,
		Coins:     e.cfg.Game.StartingMoney,
		Level:     1,
		Strength:  1,
		Inventory: make(map[types.ItemSlot]*types.Item),
		Income:    make(map[string]int),
		Expenses:  make(map[string]int),
		CreatedAt: time.Now(),
	}
	e.state.Players = append(e.state.Players, player)

	e.appendLog(types.LogSystem, "%s joined the game", player.Name)
	return copyPlayer(player), nil
}

// Start locks the roster and begins the first turn.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Started {
		return ErrGameAlreadyStarted
	}
	if len(e.state.Players) < e.cfg.Game.MinPlayers {
		return ErrNotEnoughPlayers
	}

	e.state.Started = true
	e.state.Phase = types.PhaseIdle
	e.appendLog(types.LogSystem, "the game begins with %d players", len(e.state.Players))
	e.logger.Info("game started", zap.Int("players", len(e.state.Players)))

	current := e.state.CurrentPlayer()
	e.appendLog(types.LogTurn, "%s's turn", current.Name)
	if current.IsBot {
		e.scheduleBotTurn()
	}
	return nil
}

// Halt stops all pending timers. Used on shutdown.
func (e *Engine) Halt() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.halted = true
	e.stopTimers()
}

func (e *Engine) stopTimers() {
	for t := range e.timers {
		t.Stop()
	}
	e.timers = make(map[*time.Timer]struct{})
}

// token captures the current turn's identity for delayed callbacks.
func (e *Engine) token() types.TurnToken {
	tok := types.TurnToken{Seq: e.state.TurnSeq}
	if cur := e.state.CurrentPlayer(); cur != nil {
		tok.PlayerID = cur.ID
	}
	return tok
}

// tokenValid reports whether a delayed callback's turn is still the live
// one. Stale callbacks (a dialog was dismissed, the roster changed, the
// game ended) must not mutate state.
func (e *Engine) tokenValid(tok types.TurnToken) bool {
	if e.state.WinnerID != "" {
		return false
	}
	cur := e.state.CurrentPlayer()
	return cur != nil && tok.Seq == e.state.TurnSeq && tok.PlayerID == cur.ID
}

// schedule runs fn after the given delay. Lock must be held; fn runs with
// the lock held too. A zero delay runs fn inline, which keeps tests
// synchronous. When a token is given, fn is skipped if the token went stale
// by the time the timer fires.
func (e *Engine) schedule(ms int, tok *types.TurnToken, fn func()) {
	if e.halted {
		return
	}
	if ms <= 0 {
		fn()
		return
	}

	var t *time.Timer
	t = time.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.timers, t)
		if e.halted {
			return
		}
		if tok != nil && !e.tokenValid(*tok) {
			return
		}
		fn()
	})
	e.timers[t] = struct{}{}
}

// RollDice begins the current player's movement. It is rejected while a
// decision gate is open, while movement is in flight, or out of turn.
func (e *Engine) RollDice(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Started {
		return ErrGameNotStarted
	}
	if e.state.WinnerID != "" {
		return ErrGameFinished
	}
	current := e.state.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return ErrNotYourTurn
	}
	if e.state.WaitingForDecision() || e.state.Phase != types.PhaseIdle {
		return ErrWaitingForDecision
	}

	e.startTurn(current)
	return nil
}

// startTurn handles jail, bot housekeeping and the roll itself.
func (e *Engine) startTurn(p *types.Player) {
	if p.InJail {
		p.JailTurnsLeft--
		if p.JailTurnsLeft <= 0 {
			p.InJail = false
			p.JailTurnsLeft = 0
			e.appendLog(types.LogTurn, "%s is released and moves next turn", p.Name)
		} else {
			e.appendLog(types.LogTurn, "%s sits in jail (%d turns left)", p.Name, p.JailTurnsLeft)
		}
		e.advanceTurn()
		return
	}

	if p.IsBot {
		e.runBotUpgrades(p)
	}

	roll := e.dice.RollMovement()
	e.appendLog(types.LogMove, "%s rolls a %d", p.Name, roll)
	e.beginMove(p, roll)
}

// runBotUpgrades applies the bot's pre-roll upgrade plan.
func (e *Engine) runBotUpgrades(p *types.Player) {
	for _, prop := range e.bot.PlanUpgrades(p, e.state.Board) {
		if p.Coins < prop.UpgradeCost {
			continue
		}
		e.applyUpgrade(p, prop)
	}
}

// applyUpgrade raises a property one level: pay the escalating cost and
// recompute rent. The caller checks affordability and ownership.
func (e *Engine) applyUpgrade(p *types.Player, prop *types.Property) {
	e.spendCoins(p, prop.UpgradeCost, catUpgrade)
	prop.Level++
	prop.UpgradeCost = int(float64(prop.UpgradeCost) * 1.5)
	prop.Rent = ComputeRent(prop, e.rentContext(e.state.SquareOfProperty(prop.ID)))
	e.appendLog(types.LogPurchase, "%s upgrades %s to level %d", p.Name, prop.Name, prop.Level)
}

// beginMove advances the player one square per tick, granting the
// pass-start bonus exactly once per move sequence.
func (e *Engine) beginMove(p *types.Player, steps int) {
	e.state.Phase = types.PhaseMoving
	tok := e.token()
	boardLen := len(e.state.Board)
	granted := false
	remaining := steps

	var step func()
	step = func() {
		prev := p.Position
		p.Position = (p.Position + 1) % boardLen

		// A wrap past the start square pays the bonus.
		if p.Position < prev && !granted {
			granted = true
			bonus := int(float64(e.cfg.Game.PassStartBonus) * EquipBonuses(p).GoldMultiplier)
			e.grantCoins(p, bonus, catStart)
			e.appendLog(types.LogMove, "%s passes the start and collects %d coins", p.Name, bonus)
		}

		remaining--
		if remaining > 0 {
			e.schedule(e.cfg.Pacing.MoveTickMs, &tok, step)
			return
		}

		e.state.Phase = types.PhaseResolving
		e.resolveSquare(p)
	}

	e.schedule(e.cfg.Pacing.MoveTickMs, &tok, step)
}

// resolveSquare dispatches on the landed square's type. Any internal fault
// is contained here: the turn always advances rather than leaving the
// engine gated with no path forward.
func (e *Engine) resolveSquare(p *types.Player) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("square resolution fault",
				zap.Any("panic", r),
				zap.String("player_id", p.ID),
				zap.Int("position", p.Position))
			e.appendLog(types.LogSystem, "something strange happened; the turn moves on")
			e.state.Pending = nil
			e.advanceTurn()
		}
	}()

	sq := e.state.Board[p.Position]
	switch sq.Type {
	case types.SquareProperty:
		e.resolveProperty(p, sq)
	case types.SquareChance:
		e.resolveCard(p, e.chanceDeck)
	case types.SquarePenalty:
		e.resolveCard(p, e.penaltyDeck)
	case types.SquarePark:
		e.appendLog(types.LogCard, "%s rests at %s and gains %d XP", p.Name, sq.Name, e.cfg.Game.ParkXP)
		e.applyXP(p, e.cfg.Game.ParkXP)
		e.scheduleAdvance(e.cfg.Pacing.CardDelayMs)
	case types.SquareBonus:
		bonuses := EquipBonuses(p)
		coins := int(float64(e.cfg.Game.BonusCoins) * bonuses.GoldMultiplier)
		xp := int(float64(e.cfg.Game.BonusXP) * (1 + bonuses.ExpBonus))
		e.grantCoins(p, coins, catBonus)
		e.appendLog(types.LogCard, "%s finds a blessing at %s: %d coins, %d XP", p.Name, sq.Name, coins, xp)
		e.applyXP(p, xp)
		e.scheduleAdvance(e.cfg.Pacing.CardDelayMs)
	case types.SquareShop:
		e.resolveShopSquare(p)
	case types.SquareBoss:
		e.resolveBossSquare(p, sq)
	case types.SquareSlot:
		e.resolveSlotSquare(p)
	default:
		e.advanceTurn()
	}
}

func (e *Engine) resolveProperty(p *types.Player, sq *types.Square) {
	prop := sq.Property

	if prop.OwnerID == "" {
		if p.IsBot {
			if e.bot.ShouldBuyProperty(p, prop, e.state.Board) {
				e.buyProperty(p, prop)
			} else {
				e.appendLog(types.LogPurchase, "%s passes on %s", p.Name, prop.Name)
			}
			e.advanceTurn()
			return
		}
		e.state.Pending = &types.PendingDecision{
			Kind:       types.DecisionProperty,
			PlayerID:   p.ID,
			PropertyID: prop.ID,
		}
		e.state.Phase = types.PhaseAwaiting
		return
	}

	if prop.OwnerID == p.ID {
		e.advanceTurn()
		return
	}

	owner := e.state.PlayerByID(prop.OwnerID)
	rent := e.chargedRent(p, prop, sq.Index)

	if p.Coins < rent {
		e.handleBankruptcy(p, owner)
		return
	}

	if p.IsBot {
		e.payRent(p, owner, rent, prop)
		e.advanceTurn()
		return
	}

	e.state.Pending = &types.PendingDecision{
		Kind:       types.DecisionRent,
		PlayerID:   p.ID,
		PropertyID: prop.ID,
		RentAmount: rent,
		CreditorID: prop.OwnerID,
	}
	e.state.Phase = types.PhaseAwaiting
}

func (e *Engine) buyProperty(p *types.Player, prop *types.Property) {
	e.spendCoins(p, prop.Price, catPurchase)
	prop.OwnerID = p.ID
	p.Properties = append(p.Properties, prop.ID)
	e.appendLog(types.LogPurchase, "%s buys %s for %d coins", p.Name, prop.Name, prop.Price)
	e.notify("Property acquired", fmt.Sprintf("%s now owns %s", p.Name, prop.Name), "info")
}

func (e *Engine) payRent(payer, owner *types.Player, rent int, prop *types.Property) {
	e.spendCoins(payer, rent, catRent)
	if owner != nil {
		e.grantCoins(owner, rent, catRent)
	}
	ownerName := "the bank"
	if owner != nil {
		ownerName = owner.Name
	}
	e.appendLog(types.LogRent, "%s pays %d rent to %s for %s", payer.Name, rent, ownerName, prop.Name)
}

// resolveCard draws uniformly from the deck and applies its deltas. A card
// that drives coins negative triggers bankruptcy immediately.
func (e *Engine) resolveCard(p *types.Player, deck []types.Card) {
	card := deck[e.dice.Intn(len(deck))]

	e.appendLog(types.LogCard, "%s draws a card: %s", p.Name, card.Text)
	e.notify("Card drawn", card.Text, "info")

	if card.Coins > 0 {
		e.grantCoins(p, card.Coins, catCard)
	} else if card.Coins < 0 {
		p.Coins += card.Coins
		p.Expenses[catCard] += -card.Coins
	}

	e.applyXP(p, card.XP)

	if card.JailTurns > 0 {
		p.InJail = true
		p.JailTurnsLeft = card.JailTurns
		e.appendLog(types.LogCard, "%s is jailed for %d turns", p.Name, card.JailTurns)
	}

	if card.Move != 0 {
		boardLen := len(e.state.Board)
		p.Position = ((p.Position+card.Move)%boardLen + boardLen) % boardLen
		e.appendLog(types.LogMove, "%s is carried to %s", p.Name, e.state.Board[p.Position].Name)
	}

	if p.Coins < 0 {
		e.handleBankruptcy(p, nil)
		return
	}

	e.scheduleAdvance(e.cfg.Pacing.CardDelayMs)
}

// resolveShopSquare lays out six random wares. Bots decide on the spot;
// humans get the shop gate.
func (e *Engine) resolveShopSquare(p *types.Player) {
	candidates := make([]*types.Item, 0, 6)
	for i := 0; i < 6; i++ {
		candidates = append(candidates, e.items.GenerateRandom())
	}

	if p.IsBot {
		if pick := e.bot.ChooseMarketItem(p, candidates, e.state.Board); pick != nil {
			e.buyShopItem(p, pick)
		} else {
			e.appendLog(types.LogShop, "%s browses the bazaar and buys nothing", p.Name)
		}
		e.advanceTurn()
		return
	}

	e.state.Pending = &types.PendingDecision{
		Kind:     types.DecisionShop,
		PlayerID: p.ID,
		Items:    candidates,
	}
	e.state.Phase = types.PhaseAwaiting
}

// buyShopItem pays an item's value and equips it. The caller checks funds.
func (e *Engine) buyShopItem(p *types.Player, item *types.Item) {
	e.spendCoins(p, item.Value, catShop)
	e.equipItem(p, item)
	e.appendLog(types.LogShop, "%s buys %s for %d coins", p.Name, item.Name, item.Value)
}

func (e *Engine) resolveBossSquare(p *types.Player, sq *types.Square) {
	boss := *sq.Boss
	e.state.ActiveBoss = &boss

	if p.IsBot {
		chance := WinChance(PlayerStrength(p), boss.Strength)
		if e.bot.ShouldFightBoss(p, &boss) {
			e.appendLog(types.LogCombat, "%s faces %s (%.0f%% odds) and fights", p.Name, boss.Name, chance)
			e.fightBoss(p, &boss)
		} else {
			e.appendLog(types.LogCombat, "%s sizes up %s (%.0f%% odds) and flees", p.Name, boss.Name, chance)
		}
		e.advanceTurn()
		return
	}

	e.state.Pending = &types.PendingDecision{
		Kind:     types.DecisionBoss,
		PlayerID: p.ID,
		Boss:     &boss,
	}
	e.state.Phase = types.PhaseAwaiting
}

// fightBoss resolves combat, applies rewards or the loss penalty, and
// raises the transient combat banner.
func (e *Engine) fightBoss(p *types.Player, boss *types.Boss) {
	result := ResolveCombat(p, boss, e.dice, e.items)

	banner := &types.CombatBanner{
		Visible:  true,
		Won:      result.Won,
		BossName: boss.Name,
	}

	if result.Won {
		e.grantCoins(p, result.GoldReward, catCombat)
		e.appendLog(types.LogCombat, "%s defeats %s: +%d coins, +%d XP", p.Name, boss.Name, result.GoldReward, result.XPReward)
		e.applyXP(p, result.XPReward)
		if result.Drop != nil {
			e.equipItem(p, result.Drop)
			e.appendLog(types.LogCombat, "%s claims %s from the hoard", p.Name, result.Drop.Name)
		}
		banner.GoldReward = result.GoldReward
		banner.XPReward = result.XPReward
		banner.Drop = result.Drop
	} else {
		e.spendCoins(p, result.GoldLost, catCombat)
		e.appendLog(types.LogCombat, "%s is beaten by %s and loses %d coins", p.Name, boss.Name, result.GoldLost)
		banner.GoldLost = result.GoldLost
	}

	e.state.CombatBanner = banner
	e.state.ActiveBoss = nil

	e.schedule(e.cfg.Pacing.CombatBannerMs, nil, func() {
		if e.state.CombatBanner == banner {
			e.state.CombatBanner = nil
		}
	})
}

// equipItem assigns an item into its slot, refunding the value of any prior
// occupant.
func (e *Engine) equipItem(p *types.Player, item *types.Item) {
	if prior := p.Inventory[item.Slot]; prior != nil {
		e.grantCoins(p, prior.Value, catShop)
		e.appendLog(types.LogShop, "%s trades away %s for %d coins", p.Name, prior.Name, prior.Value)
	}
	p.Inventory[item.Slot] = item
}

func (e *Engine) resolveSlotSquare(p *types.Player) {
	if !e.cfg.Game.SlotEnabled {
		e.advanceTurn()
		return
	}

	if p.IsBot {
		e.spinSlotFor(p)
		e.advanceTurn()
		return
	}

	e.state.Pending = &types.PendingDecision{
		Kind:     types.DecisionSlot,
		PlayerID: p.ID,
	}
	e.state.Phase = types.PhaseAwaiting
}

// spinSlotFor pays the stake, resolves the payout table and mutates the
// jackpot pools.
func (e *Engine) spinSlotFor(p *types.Player) *types.SpinResult {
	stake := e.cfg.Game.SlotStake
	if p.Coins < stake {
		e.appendLog(types.LogSlot, "%s cannot afford a spin", p.Name)
		return nil
	}

	e.spendCoins(p, stake, catSlot)
	result := SpinSlots(e.dice, stake)

	switch {
	case result.WonMega:
		result.Payout = e.state.JackpotMega
		e.state.JackpotMega = e.cfg.Game.JackpotMegaSeed
		e.notify("MEGA JACKPOT!", fmt.Sprintf("%s wins %d coins", p.Name, result.Payout), "success")
	case result.WonMini:
		result.Payout = e.state.JackpotMini
		e.state.JackpotMini = e.cfg.Game.JackpotMiniSeed
		e.notify("Mini jackpot!", fmt.Sprintf("%s wins %d coins", p.Name, result.Payout), "success")
	case result.Contribution > 0:
		half := result.Contribution / 2
		e.state.JackpotMini += half
		e.state.JackpotMega += result.Contribution - half
	}

	if result.Payout > 0 {
		e.grantCoins(p, result.Payout, catSlot)
		e.appendLog(types.LogSlot, "%s spins [%s %s %s] and wins %d coins",
			p.Name, result.Symbols[0], result.Symbols[1], result.Symbols[2], result.Payout)
	} else {
		e.appendLog(types.LogSlot, "%s spins [%s %s %s] and loses the stake",
			p.Name, result.Symbols[0], result.Symbols[1], result.Symbols[2])
	}

	return &result
}

// scheduleAdvance advances the turn after a display delay.
func (e *Engine) scheduleAdvance(ms int) {
	tok := e.token()
	e.state.Phase = types.PhaseResolving
	e.schedule(ms, &tok, e.advanceTurn)
}

// advanceTurn clears the decision gates, rolls the ambient effects and
// hands the turn to the next roster player, chaining bots.
func (e *Engine) advanceTurn() {
	e.clearTurnGates()

	if e.state.WinnerID != "" {
		e.state.Phase = types.PhaseFinished
		return
	}

	e.rollAmbientEffects()

	e.state.CurrentTurn = (e.state.CurrentTurn + 1) % len(e.state.Players)
	e.finishTurn()
}

// clearTurnGates resets the per-turn gates. Every path that hands the turn
// over must go through here or the bot chain stalls on a stale guard.
func (e *Engine) clearTurnGates() {
	e.state.Pending = nil
	e.state.ActiveBoss = nil
	e.state.BotTurnInProgress = false
}

// finishTurn starts the (already selected) current player's turn: bump the
// turn sequence, log, and schedule the bot chain when needed.
func (e *Engine) finishTurn() {
	e.state.TurnSeq++
	e.state.Phase = types.PhaseIdle

	next := e.state.CurrentPlayer()
	e.appendLog(types.LogTurn, "%s's turn", next.Name)

	if next.IsBot {
		e.scheduleBotTurn()
	}
}

// rollAmbientEffects updates weather and moves the king token, then
// recomputes rents so charged and displayed values agree.
func (e *Engine) rollAmbientEffects() {
	if e.cfg.Game.WeatherEnabled {
		prev := e.state.Weather
		if e.dice.Chance(e.cfg.Game.WeatherChance) {
			e.state.Weather = types.WeatherRain
		} else {
			e.state.Weather = types.WeatherNone
		}
		if prev != e.state.Weather {
			if e.state.Weather == types.WeatherRain {
				e.appendLog(types.LogSystem, "rain begins to fall; rents are halved")
			} else {
				e.appendLog(types.LogSystem, "the rain clears")
			}
		}
	}

	if e.cfg.Game.KingEnabled {
		var propertySquares []int
		for _, sq := range e.state.Board {
			if sq.Property != nil {
				propertySquares = append(propertySquares, sq.Index)
			}
		}
		if len(propertySquares) > 0 {
			e.state.KingPosition = propertySquares[e.dice.Intn(len(propertySquares))]
		}
	}

	e.recomputeRents()
}

// scheduleBotTurn queues the bot chain continuation for the current player.
// Scheduling is idempotent: the fired callback re-checks the token and the
// re-entrancy guard, so a stale or duplicate timer is a no-op.
func (e *Engine) scheduleBotTurn() {
	tok := e.token()
	e.schedule(e.cfg.Pacing.BotThinkMs, &tok, func() {
		e.botTakeTurn()
	})
}

// botTakeTurn runs one bot turn end to end. The guard prevents two
// scheduled continuations from double-rolling the same player.
func (e *Engine) botTakeTurn() {
	if e.state.BotTurnInProgress {
		return
	}
	if e.state.WinnerID != "" || e.state.Pending != nil || e.state.Phase != types.PhaseIdle {
		return
	}

	p := e.state.CurrentPlayer()
	if p == nil || !p.IsBot {
		return
	}

	e.state.BotTurnInProgress = true
	e.startTurn(p)
}
