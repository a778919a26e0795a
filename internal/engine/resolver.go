package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Itoshi-web/idksan/internal/game"
)

// ActionType names one of the intents a player (or bot) can submit.
type ActionType string

const (
	ActionRoll         ActionType = "roll"
	ActionShoot        ActionType = "shoot"
	ActionUsePowerUp   ActionType = "use_power_up"
	ActionStorePowerUp ActionType = "store_power_up"
	ActionContinue     ActionType = "continue"
	ActionEndTurn      ActionType = "end_turn"
)

// KnownAction reports whether t is part of the action vocabulary.
func KnownAction(t ActionType) bool {
	switch t {
	case ActionRoll, ActionShoot, ActionUsePowerUp, ActionStorePowerUp, ActionContinue, ActionEndTurn:
		return true
	}
	return false
}

// Action is one intent plus its payload. Target fields are indices into
// GameState.Players and the target player's cells.
type Action struct {
	Type         ActionType       `json:"type"`
	Value        int              `json:"value,omitempty"`
	TargetPlayer int              `json:"target_player"`
	TargetCell   int              `json:"target_cell"`
	PowerUpID    string           `json:"power_up_id,omitempty"`
	PowerUpType  game.PowerUpType `json:"power_up_type,omitempty"`
}

// Resolver interprets actions against a GameState and mutates it. The
// session layer has already verified turn ownership; the resolver still
// validates every index defensively and treats invalid references as no-ops
// that leave the state untouched (a malformed action must never corrupt the
// room).
type Resolver struct {
	rng Rand
}

// NewResolver returns a resolver drawing randomness from rng.
func NewResolver(rng Rand) *Resolver {
	return &Resolver{rng: rng}
}

// Apply resolves a single action for the current player. Unknown action
// types are ignored.
func (r *Resolver) Apply(g *game.GameState, a Action) {
	switch a.Type {
	case ActionRoll:
		r.roll(g, a.Value)
	case ActionShoot:
		r.shoot(g, a.TargetPlayer, a.TargetCell)
	case ActionUsePowerUp:
		r.usePowerUp(g, a.PowerUpID, a.TargetPlayer, a.TargetCell)
	case ActionStorePowerUp:
		r.storePowerUp(g, a.PowerUpType)
	case ActionContinue:
		// Marker only: a trigger roll does not end the turn, the caller may
		// roll again.
	case ActionEndTurn:
		r.endTurn(g)
	}
}

// roll resolves a die roll. A trigger roll grants a random power-up and
// returns control without advancing the turn; any other value targets the
// cell at index value-1.
func (r *Resolver) roll(g *game.GameState, value int) {
	if g.CanShoot {
		// An armed roll is pending; the player must shoot or end the turn.
		return
	}
	trigger := game.TriggerValue(len(g.Players))
	if value < 1 || value > trigger {
		return
	}
	p := g.Current()
	v := value
	g.LastRoll = &v

	if value == trigger {
		pu := game.PowerUp{
			ID:        uuid.NewString(),
			Type:      game.PowerUpTypes[r.rng.Intn(len(game.PowerUpTypes))],
			CreatedAt: time.Now().Unix(),
		}
		p.PowerUps = append(p.PowerUps, pu)
		g.Append(game.LogEntry{
			Event:    game.LogPowerUp,
			Player:   p.Username,
			PlayerID: p.ID,
			Value:    value,
			Message:  fmt.Sprintf("%s rolled %d and drew a %s power-up.", p.Username, value, pu.Type),
		})
		return
	}

	idx := value - 1
	g.RolledCell = &idx

	if p.FirstMove {
		if value != 1 {
			g.Append(game.LogEntry{
				Event:    game.LogMissedFirstMove,
				Player:   p.Username,
				PlayerID: p.ID,
				Value:    value,
				Message:  fmt.Sprintf("%s rolled %d but needs a 1 to start.", p.Username, value),
			})
			advanceTurn(g)
			return
		}
		p.FirstMove = false
	}

	if idx >= len(p.Cells) {
		return
	}
	cell := &p.Cells[idx]

	switch {
	case cell.IsActive && cell.Stage == game.MaxStage && cell.Bullets > 0:
		// Armed: the player now shoots or passes, the turn stays open.
		g.CanShoot = true
		return
	case !cell.IsActive:
		cell.IsActive = true
		cell.Stage = 1
		g.Append(game.LogEntry{
			Event:    game.LogActivate,
			Player:   p.Username,
			PlayerID: p.ID,
			Cell:     idx,
			Value:    value,
			Message:  fmt.Sprintf("%s activated cell %d.", p.Username, value),
		})
	case cell.Stage < game.MaxStage && cell.IsFrozen:
		g.Append(game.LogEntry{
			Event:    game.LogFrozen,
			Player:   p.Username,
			PlayerID: p.ID,
			Cell:     idx,
			Value:    value,
			Message:  fmt.Sprintf("%s's cell %d is frozen and cannot be upgraded.", p.Username, value),
		})
	case cell.Stage < game.MaxStage:
		cell.Stage++
		if cell.Stage == game.MaxStage {
			cell.Bullets = game.MaxBullets
			g.Append(game.LogEntry{
				Event:    game.LogMaxLevel,
				Player:   p.Username,
				PlayerID: p.ID,
				Cell:     idx,
				Value:    value,
				Message:  fmt.Sprintf("%s's cell %d reached max level and is armed.", p.Username, value),
			})
		} else {
			g.Append(game.LogEntry{
				Event:    game.LogUpgrade,
				Player:   p.Username,
				PlayerID: p.ID,
				Cell:     idx,
				Value:    value,
				Message:  fmt.Sprintf("%s upgraded cell %d to stage %d.", p.Username, value, cell.Stage),
			})
		}
	case cell.Bullets == 0:
		cell.Bullets = game.MaxBullets
		g.Append(game.LogEntry{
			Event:    game.LogReload,
			Player:   p.Username,
			PlayerID: p.ID,
			Cell:     idx,
			Value:    value,
			Message:  fmt.Sprintf("%s reloaded cell %d.", p.Username, value),
		})
	}

	advanceTurn(g)
}

// shoot fires the previously rolled cell at an opponent's cell. A
// zero-bullet shooter is a silent no-op that still ends the turn.
func (r *Resolver) shoot(g *game.GameState, targetPlayer, targetCell int) {
	if !g.CanShoot || g.RolledCell == nil {
		return
	}
	p := g.Current()
	if *g.RolledCell < 0 || *g.RolledCell >= len(p.Cells) {
		return
	}
	if targetPlayer < 0 || targetPlayer >= len(g.Players) || targetPlayer == g.CurrentPlayer {
		return
	}
	target := &g.Players[targetPlayer]
	if targetCell < 0 || targetCell >= len(target.Cells) {
		return
	}

	shooter := &p.Cells[*g.RolledCell]
	if shooter.Bullets == 0 {
		advanceTurn(g)
		return
	}

	cell := &target.Cells[targetCell]
	if cell.IsShielded {
		// The shot is spent against the shield.
		shooter.Bullets--
		g.Append(game.LogEntry{
			Event:    game.LogBlocked,
			Player:   p.Username,
			PlayerID: p.ID,
			Target:   target.Username,
			Cell:     targetCell,
			Message:  fmt.Sprintf("%s's shot at %s was blocked by a shield.", p.Username, target.Username),
		})
		advanceTurn(g)
		return
	}

	delete(g.PowerUpState.Frozen, cell.ID)
	cell.Reset()
	shooter.Bullets--
	g.Append(game.LogEntry{
		Event:    game.LogShoot,
		Player:   p.Username,
		PlayerID: p.ID,
		Target:   target.Username,
		Cell:     targetCell,
		Message:  fmt.Sprintf("%s destroyed %s's cell %d.", p.Username, target.Username, targetCell+1),
	})
	if target.RecomputeEliminated() {
		g.Append(game.LogEntry{
			Event:    game.LogEliminate,
			Player:   p.Username,
			PlayerID: p.ID,
			Target:   target.Username,
			Message:  target.Username + " has been eliminated!",
		})
	}
	advanceTurn(g)
}

// usePowerUp consumes one inventory item and applies its effect. The entry
// is logged whether or not the effect actually took hold; the action never
// advances the turn.
func (r *Resolver) usePowerUp(g *game.GameState, powerUpID string, targetPlayer, targetCell int) {
	p := g.Current()
	pu, ok := p.RemovePowerUp(powerUpID)
	if !ok {
		return
	}

	targetName := ""
	if targetPlayer >= 0 && targetPlayer < len(g.Players) {
		target := &g.Players[targetPlayer]
		targetName = target.Username
		switch pu.Type {
		case game.PowerUpFreeze:
			if targetCell >= 0 && targetCell < len(target.Cells) {
				cell := &target.Cells[targetCell]
				if cell.IsActive && !cell.IsShielded {
					cell.IsFrozen = true
					applyExpiry(g.PowerUpState.Frozen, cell.ID, FreezeDuration, g.TurnCount)
				}
			}
		case game.PowerUpShield:
			for i := range target.Cells {
				if target.Cells[i].IsActive {
					target.Cells[i].IsShielded = true
				}
			}
			applyExpiry(g.PowerUpState.Shielded, target.ID, ShieldDuration, g.TurnCount)
		case game.PowerUpTurnSkipper:
			if !target.Eliminated {
				applyExpiry(g.PowerUpState.SkippedTurns, target.ID, SkipDuration, g.TurnCount)
			}
		}
	}

	g.Append(game.LogEntry{
		Event:    game.LogUsePowerUp,
		Player:   p.Username,
		PlayerID: p.ID,
		Target:   targetName,
		Message:  fmt.Sprintf("%s used a %s power-up.", p.Username, pu.Type),
	})
}

// storePowerUp banks a freshly generated power-up of the given type and
// ends the turn. Used when a trigger roll grants a power-up the player
// chooses not to act on.
func (r *Resolver) storePowerUp(g *game.GameState, t game.PowerUpType) {
	switch t {
	case game.PowerUpFreeze, game.PowerUpShield, game.PowerUpTurnSkipper:
	default:
		return
	}
	p := g.Current()
	p.PowerUps = append(p.PowerUps, game.PowerUp{
		ID:        uuid.NewString(),
		Type:      t,
		CreatedAt: time.Now().Unix(),
	})
	g.Append(game.LogEntry{
		Event:    game.LogPowerUp,
		Player:   p.Username,
		PlayerID: p.ID,
		Message:  fmt.Sprintf("%s stored a %s power-up.", p.Username, t),
	})
	advanceTurn(g)
}

// endTurn passes unconditionally.
func (r *Resolver) endTurn(g *game.GameState) {
	p := g.Current()
	g.Append(game.LogEntry{
		Event:    game.LogEndTurn,
		Player:   p.Username,
		PlayerID: p.ID,
		Message:  p.Username + " ended the turn.",
	})
	advanceTurn(g)
}
