package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"github.com/user/mystical-path/internal/types"
)

// Income/expense categories tracked per player.
const (
	catRent     = "rent"
	catCard     = "card"
	catSlot     = "slot"
	catCombat   = "combat"
	catStart    = "start"
	catBonus    = "bonus"
	catPurchase = "purchase"
	catUpgrade  = "upgrade"
	catShop     = "shop"
	catAlliance = "alliance"
)

// appendLog records one human-readable event. Lock must be held.
func (e *Engine) appendLog(category types.LogCategory, format string, args ...interface{}) {
	e.logSeq++
	entry := types.LogEntry{
		ID:       uuid.New().String(),
		Seq:      e.logSeq,
		Category: category,
		Text:     fmt.Sprintf(format, args...),
		Time:     time.Now(),
	}
	e.state.Log = append(e.state.Log, entry)
	e.logger.Debug("game event",
		zap.String("category", string(category)),
		zap.String("text", entry.Text))
}

// notify queues a transient notification for the presentation layer.
func (e *Engine) notify(title, message, severity string) {
	e.state.Notifications = append(e.state.Notifications, types.Notification{
		Title:    title,
		Message:  message,
		Severity: severity,
	})
}

// DrainNotifications returns and clears the queued notifications.
func (e *Engine) DrainNotifications() []types.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.state.Notifications
	e.state.Notifications = nil
	return out
}

// grantCoins credits a player and tracks the income category.
func (e *Engine) grantCoins(p *types.Player, amount int, category string) {
	if amount <= 0 {
		return
	}
	p.Coins += amount
	p.Income[category] += amount
}

// spendCoins debits a player and tracks the expense category. The caller
// checks affordability; committed balances never go negative.
func (e *Engine) spendCoins(p *types.Player, amount int, category string) {
	if amount <= 0 {
		return
	}
	p.Coins -= amount
	p.Expenses[category] += amount
}

// applyXP grants experience and processes level-ups. The check loops until
// XP sits below the threshold so an oversized grant can cross several
// levels.
func (e *Engine) applyXP(p *types.Player, xp int) {
	if xp <= 0 {
		return
	}
	p.XP += xp
	for p.XP >= p.Level*100 {
		p.XP -= p.Level * 100
		p.Level++
		p.Strength++
		e.appendLog(types.LogTurn, "%s reached level %d", p.Name, p.Level)
		e.notify("Level up!", fmt.Sprintf("%s is now level %d", p.Name, p.Level), "success")
	}
}

// rentContext builds the global-state inputs of the rent formula for the
// given square.
func (e *Engine) rentContext(squareIndex int) RentContext {
	return RentContext{
		RentMultiplier: e.cfg.Game.RentMultiplier,
		Weather:        e.state.Weather,
		WeatherEnabled: e.cfg.Game.WeatherEnabled,
		KingPosition:   e.state.KingPosition,
		KingEnabled:    e.cfg.Game.KingEnabled,
		SquareIndex:    squareIndex,
	}
}

// recomputeRents refreshes every property's displayed rent from the single
// rent formula. Called on every rent-sensitive event.
func (e *Engine) recomputeRents() {
	for _, sq := range e.state.Board {
		if sq.Property != nil {
			sq.Property.Rent = ComputeRent(sq.Property, e.rentContext(sq.Index))
		}
	}
}

// chargedRent is the amount a payer actually owes on a property: the
// computed rent net of the payer's rent-reduction bonus, floored at zero.
func (e *Engine) chargedRent(payer *types.Player, prop *types.Property, squareIndex int) int {
	rent := ComputeRent(prop, e.rentContext(squareIndex))
	reduction := EquipBonuses(payer).RentReduction
	if reduction > 1 {
		reduction = 1
	}
	return int(float64(rent) * (1 - reduction))
}

// handleBankruptcy removes a player who cannot meet a required payment.
// Remaining coins go to the creditor when one exists, owned properties
// reset to unowned level-1 state, and the roster shrinks. Declares the
// winner when one player remains.
func (e *Engine) handleBankruptcy(debtor *types.Player, creditor *types.Player) {
	if creditor != nil && debtor.Coins > 0 {
		creditor.Coins += debtor.Coins
		creditor.Income[catRent] += debtor.Coins
		e.appendLog(types.LogBankruptcy, "%s hands their last %d coins to %s", debtor.Name, debtor.Coins, creditor.Name)
	}
	debtor.Coins = 0

	for _, sq := range e.state.Board {
		prop := sq.Property
		if prop == nil || prop.OwnerID != debtor.ID {
			continue
		}
		prop.OwnerID = ""
		prop.Level = 1
		prop.Rent = prop.BaseRent
		prop.UpgradeCost = prop.Price / 2
	}
	debtor.Properties = nil

	e.removeAllianceMember(debtor)

	idx := -1
	for i, p := range e.state.Players {
		if p.ID == debtor.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	e.state.Players = append(e.state.Players[:idx], e.state.Players[idx+1:]...)

	e.appendLog(types.LogBankruptcy, "%s is bankrupt and leaves the game", debtor.Name)
	e.notify("Bankruptcy", fmt.Sprintf("%s is out of the game", debtor.Name), "error")
	e.logger.Info("player bankrupt",
		zap.String("player_id", debtor.ID),
		zap.String("name", debtor.Name))

	if len(e.state.Players) == 1 {
		e.declareWinner(e.state.Players[0])
		return
	}

	if idx < e.state.CurrentTurn {
		e.state.CurrentTurn--
	}
	e.state.CurrentTurn %= len(e.state.Players)

	// The roster shift already selected the next player, so this advance
	// skips the increment but still clears the gates and rolls the ambient
	// effects like any other turn handover.
	e.clearTurnGates()
	e.rollAmbientEffects()
	e.finishTurn()
}

// declareWinner ends the game and suppresses all pending timers.
func (e *Engine) declareWinner(winner *types.Player) {
	e.state.WinnerID = winner.ID
	e.state.Phase = types.PhaseFinished
	e.state.Pending = nil
	e.state.ActiveBoss = nil
	e.state.BotTurnInProgress = false
	e.stopTimers()

	e.appendLog(types.LogSystem, "%s wins the game", winner.Name)
	e.notify("Victory!", fmt.Sprintf("%s has won Mystical Path", winner.Name), "success")
	e.logger.Info("game over", zap.String("winner_id", winner.ID), zap.String("name", winner.Name))
}

// Snapshot is the read-only view handed to the presentation layer.
func (e *Engine) Snapshot() *types.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyState(e.state)
}

func copyState(st *types.GameState) *types.GameState {
	out := *st

	out.Players = make([]*types.Player, len(st.Players))
	for i, p := range st.Players {
		out.Players[i] = copyPlayer(p)
	}

	out.Board = make([]*types.Square, len(st.Board))
	for i, sq := range st.Board {
		sqCopy := *sq
		if sq.Property != nil {
			propCopy := *sq.Property
			sqCopy.Property = &propCopy
		}
		if sq.Boss != nil {
			bossCopy := *sq.Boss
			sqCopy.Boss = &bossCopy
		}
		out.Board[i] = &sqCopy
	}

	if st.Pending != nil {
		pendingCopy := *st.Pending
		if st.Pending.Boss != nil {
			bossCopy := *st.Pending.Boss
			pendingCopy.Boss = &bossCopy
		}
		if len(st.Pending.Items) > 0 {
			pendingCopy.Items = make([]*types.Item, len(st.Pending.Items))
			for i, item := range st.Pending.Items {
				itemCopy := *item
				pendingCopy.Items[i] = &itemCopy
			}
		}
		out.Pending = &pendingCopy
	}
	if st.ActiveBoss != nil {
		bossCopy := *st.ActiveBoss
		out.ActiveBoss = &bossCopy
	}
	if st.CombatBanner != nil {
		bannerCopy := *st.CombatBanner
		if st.CombatBanner.Drop != nil {
			dropCopy := *st.CombatBanner.Drop
			bannerCopy.Drop = &dropCopy
		}
		out.CombatBanner = &bannerCopy
	}

	out.Alliances = make(map[string]*types.Alliance, len(st.Alliances))
	for id, a := range st.Alliances {
		allianceCopy := *a
		allianceCopy.MemberIDs = append([]string(nil), a.MemberIDs...)
		out.Alliances[id] = &allianceCopy
	}

	out.Log = append([]types.LogEntry(nil), st.Log...)
	out.Notifications = append([]types.Notification(nil), st.Notifications...)

	return &out
}

func copyPlayer(p *types.Player) *types.Player {
	out := *p
	out.Properties = append([]string(nil), p.Properties...)
	out.Inventory = make(map[types.ItemSlot]*types.Item, len(p.Inventory))
	for slot, item := range p.Inventory {
		if item == nil {
			continue
		}
		itemCopy := *item
		out.Inventory[slot] = &itemCopy
	}
	out.Income = make(map[string]int, len(p.Income))
	for k, v := range p.Income {
		out.Income[k] = v
	}
	out.Expenses = make(map[string]int, len(p.Expenses))
	for k, v := range p.Expenses {
		out.Expenses[k] = v
	}
	return &out
}
