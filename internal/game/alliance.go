package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/user/mystical-path/internal/types"
)

var (
	ErrAllianceTooSmall  = errors.New("an alliance needs at least two members")
	ErrAlreadyInAlliance = errors.New("player already belongs to an alliance")
	ErrNotAllianceMember = errors.New("player does not belong to an alliance")
)

// CreateAlliance forms a named alliance with a shared treasury. Every
// member must exist and belong to no other alliance.
func (e *Engine) CreateAlliance(name string, memberIDs []string) (*types.Alliance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(memberIDs) < 2 {
		return nil, ErrAllianceTooSmall
	}

	members := make([]*types.Player, 0, len(memberIDs))
	for _, id := range memberIDs {
		p := e.state.PlayerByID(id)
		if p == nil {
			return nil, ErrPlayerNotFound
		}
		if p.AllianceID != "" {
			return nil, ErrAlreadyInAlliance
		}
		members = append(members, p)
	}

	alliance := &types.Alliance{
		ID:        uuid.New().String(),
		Name:      name,
		MemberIDs: append([]string(nil), memberIDs...),
	}
	e.state.Alliances[alliance.ID] = alliance
	for _, p := range members {
		p.AllianceID = alliance.ID
	}

	names := members[0].Name
	for _, p := range members[1:] {
		names += ", " + p.Name
	}
	e.appendLog(types.LogAlliance, "the %s alliance forms: %s", name, names)
	e.notify("Alliance formed", fmt.Sprintf("%s banded together as %s", names, name), "info")

	allianceCopy := *alliance
	allianceCopy.MemberIDs = append([]string(nil), alliance.MemberIDs...)
	return &allianceCopy, nil
}

// ContributeToAlliance moves a member's coins into the shared treasury.
func (e *Engine) ContributeToAlliance(playerID string, amount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.state.PlayerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.AllianceID == "" {
		return ErrNotAllianceMember
	}
	if amount <= 0 || p.Coins < amount {
		return ErrInsufficientFunds
	}

	alliance := e.state.Alliances[p.AllianceID]
	if alliance == nil {
		return ErrNotAllianceMember
	}

	e.spendCoins(p, amount, catAlliance)
	alliance.Treasury += amount
	e.appendLog(types.LogAlliance, "%s contributes %d coins to %s (treasury: %d)", p.Name, amount, alliance.Name, alliance.Treasury)
	return nil
}

// removeAllianceMember drops a departing player from their alliance. An
// alliance left with fewer than two members dissolves and its treasury is
// split evenly among the survivors, remainder to the first.
func (e *Engine) removeAllianceMember(p *types.Player) {
	if p.AllianceID == "" {
		return
	}
	alliance := e.state.Alliances[p.AllianceID]
	p.AllianceID = ""
	if alliance == nil {
		return
	}

	for i, id := range alliance.MemberIDs {
		if id == p.ID {
			alliance.MemberIDs = append(alliance.MemberIDs[:i], alliance.MemberIDs[i+1:]...)
			break
		}
	}

	if len(alliance.MemberIDs) >= 2 {
		return
	}

	delete(e.state.Alliances, alliance.ID)

	survivors := make([]*types.Player, 0, len(alliance.MemberIDs))
	for _, id := range alliance.MemberIDs {
		if member := e.state.PlayerByID(id); member != nil {
			member.AllianceID = ""
			survivors = append(survivors, member)
		}
	}

	if alliance.Treasury > 0 && len(survivors) > 0 {
		share := alliance.Treasury / len(survivors)
		remainder := alliance.Treasury - share*len(survivors)
		for i, member := range survivors {
			payout := share
			if i == 0 {
				payout += remainder
			}
			e.grantCoins(member, payout, catAlliance)
		}
	}

	e.appendLog(types.LogAlliance, "the %s alliance dissolves", alliance.Name)
}
