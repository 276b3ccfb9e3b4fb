package game

import (
	"github.com/user/mystical-path/internal/types"
)

// takePending pops the pending decision if it matches the given kind and
// acting player. Returns nil (and leaves state untouched) otherwise, which
// makes every gated command idempotent: the second invocation finds no gate
// and changes nothing.
func (e *Engine) takePending(kind types.DecisionKind, playerID string) *types.PendingDecision {
	pd := e.state.Pending
	if pd == nil || pd.Kind != kind || pd.PlayerID != playerID {
		return nil
	}
	e.state.Pending = nil
	return pd
}

// PurchaseProperty resolves the property gate. Declining, or accepting
// without the funds, just moves the turn on.
func (e *Engine) PurchaseProperty(playerID string, accept bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pd := e.takePending(types.DecisionProperty, playerID)
	if pd == nil {
		return ErrNoPendingDecision
	}

	p := e.state.PlayerByID(playerID)
	prop := e.state.PropertyByID(pd.PropertyID)

	if accept && p != nil && prop != nil && prop.OwnerID == "" {
		if p.Coins >= prop.Price {
			e.buyProperty(p, prop)
		} else {
			e.notify("Not enough coins", "You cannot afford this property", "warning")
		}
	} else if p != nil && prop != nil {
		e.appendLog(types.LogPurchase, "%s passes on %s", p.Name, prop.Name)
	}

	e.advanceTurn()
	return nil
}

// PayRent resolves the rent gate. Funds were checked when the gate opened
// and nothing else runs while it is up, but a shortfall still bankrupts
// rather than committing a negative balance.
func (e *Engine) PayRent(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pd := e.takePending(types.DecisionRent, playerID)
	if pd == nil {
		return ErrNoPendingDecision
	}

	p := e.state.PlayerByID(playerID)
	owner := e.state.PlayerByID(pd.CreditorID)
	prop := e.state.PropertyByID(pd.PropertyID)
	if p == nil || prop == nil {
		e.advanceTurn()
		return nil
	}

	if p.Coins < pd.RentAmount {
		e.handleBankruptcy(p, owner)
		return nil
	}

	e.payRent(p, owner, pd.RentAmount, prop)
	e.advanceTurn()
	return nil
}

// BuyShopItem resolves the shop gate: index selects one of the offered
// wares, -1 leaves the shop.
func (e *Engine) BuyShopItem(playerID string, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pd := e.takePending(types.DecisionShop, playerID)
	if pd == nil {
		return ErrNoPendingDecision
	}

	p := e.state.PlayerByID(playerID)
	if p != nil && index >= 0 && index < len(pd.Items) {
		item := pd.Items[index]
		if p.Coins >= item.Value {
			e.buyShopItem(p, item)
		} else {
			e.notify("Not enough coins", "You cannot afford this item", "warning")
		}
	}

	e.advanceTurn()
	return nil
}

// FightBoss resolves the boss gate with a fight.
func (e *Engine) FightBoss(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pd := e.takePending(types.DecisionBoss, playerID)
	if pd == nil {
		return ErrNoPendingDecision
	}

	if p := e.state.PlayerByID(playerID); p != nil && pd.Boss != nil {
		e.fightBoss(p, pd.Boss)
	}

	e.advanceTurn()
	return nil
}

// FleeBoss resolves the boss gate with a retreat.
func (e *Engine) FleeBoss(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pd := e.takePending(types.DecisionBoss, playerID)
	if pd == nil {
		return ErrNoPendingDecision
	}

	if p := e.state.PlayerByID(playerID); p != nil && pd.Boss != nil {
		e.appendLog(types.LogCombat, "%s flees from %s", p.Name, pd.Boss.Name)
	}

	e.advanceTurn()
	return nil
}

// SpinSlot resolves the slot gate with one spin and returns the reel
// outcome for the slot UI.
func (e *Engine) SpinSlot(playerID string) (*types.SpinResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pd := e.takePending(types.DecisionSlot, playerID)
	if pd == nil {
		return nil, ErrNoPendingDecision
	}

	var result *types.SpinResult
	if p := e.state.PlayerByID(playerID); p != nil {
		result = e.spinSlotFor(p)
	}

	e.advanceTurn()
	return result, nil
}

// DismissDecision treats a dismissed dialog as decline/flee and moves the
// turn on.
func (e *Engine) DismissDecision(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	pd := e.state.Pending
	if pd == nil || pd.PlayerID != playerID {
		return ErrNoPendingDecision
	}
	e.state.Pending = nil

	if p := e.state.PlayerByID(playerID); p != nil {
		e.appendLog(types.LogTurn, "%s waves the choice away", p.Name)
	}

	e.advanceTurn()
	return nil
}

// UpgradeProperty raises an owned property one level. Valid as pre-roll
// housekeeping on the owner's own turn, outside any gate.
func (e *Engine) UpgradeProperty(playerID, propertyID string) error {
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

	prop := e.state.PropertyByID(propertyID)
	if prop == nil {
		return ErrPropertyNotFound
	}
	if prop.OwnerID != playerID {
		return ErrNotPropertyOwner
	}
	if prop.Level >= 5 {
		return ErrMaxLevel
	}
	if current.Coins < prop.UpgradeCost {
		return ErrInsufficientFunds
	}

	e.applyUpgrade(current, prop)
	return nil
}
