package engine

import "github.com/Itoshi-web/idksan/internal/game"

// Effect durations in turns, measured from the turn the power-up was cast.
// A skip only covers the target's immediately following turn.
const (
	FreezeDuration = 2
	ShieldDuration = 2
	SkipDuration   = 1
)

// applyExpiry inserts or overwrites an entry in one of the expiry tables.
// The expiry is computed once here; the sweep never counts down.
func applyExpiry(table map[string]int, key string, duration, turnCount int) {
	table[key] = turnCount + duration
}

// sweepPowerUps reverses and drops every lapsed effect. It runs once per
// turn advance and is evaluated against the turn number being advanced
// into, so an effect cast at turn T with duration D is live through turn
// T+D-1 and gone once the counter reaches T+D.
//
// Skip entries are consumed by the sequencer the moment their player is
// selected, which is by definition that player's immediately following
// turn; the sweep only garbage-collects entries of eliminated players, who
// will never be selected again. Two-pass collect-then-delete keeps the map
// iteration safe.
func sweepPowerUps(g *game.GameState) {
	next := g.TurnCount + 1

	var lapsed []string
	for cellID, expiresAt := range g.PowerUpState.Frozen {
		if expiresAt <= next {
			lapsed = append(lapsed, cellID)
		}
	}
	for _, cellID := range lapsed {
		delete(g.PowerUpState.Frozen, cellID)
		unfreezeCell(g, cellID)
	}

	lapsed = lapsed[:0]
	for playerID, expiresAt := range g.PowerUpState.Shielded {
		if expiresAt <= next {
			lapsed = append(lapsed, playerID)
		}
	}
	for _, playerID := range lapsed {
		delete(g.PowerUpState.Shielded, playerID)
		unshieldPlayer(g, playerID)
	}

	lapsed = lapsed[:0]
	for playerID := range g.PowerUpState.SkippedTurns {
		if p := playerByID(g, playerID); p == nil || p.Eliminated {
			lapsed = append(lapsed, playerID)
		}
	}
	for _, playerID := range lapsed {
		delete(g.PowerUpState.SkippedTurns, playerID)
	}
}

func playerByID(g *game.GameState, playerID string) *game.Player {
	for i := range g.Players {
		if g.Players[i].ID == playerID {
			return &g.Players[i]
		}
	}
	return nil
}

func unfreezeCell(g *game.GameState, cellID string) {
	for i := range g.Players {
		for j := range g.Players[i].Cells {
			if g.Players[i].Cells[j].ID == cellID {
				g.Players[i].Cells[j].IsFrozen = false
				return
			}
		}
	}
}

func unshieldPlayer(g *game.GameState, playerID string) {
	for i := range g.Players {
		if g.Players[i].ID != playerID {
			continue
		}
		for j := range g.Players[i].Cells {
			g.Players[i].Cells[j].IsShielded = false
		}
		return
	}
}
