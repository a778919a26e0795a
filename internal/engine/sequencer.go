package engine

import "github.com/Itoshi-web/idksan/internal/game"

// advanceTurn moves the game to the next turn: sweep lapsed power-ups,
// increment the turn counter, rotate to the next non-eliminated player and
// consume a pending skip by advancing once more. Each recursion strictly
// increments the turn counter, and a consumed skip entry is deleted, so the
// call always terminates.
//
// When the rotation finds no other surviving player it stays on the sole
// survivor (terminal state).
func advanceTurn(g *game.GameState) {
	sweepPowerUps(g)
	g.TurnCount++
	g.CanShoot = false
	g.RolledCell = nil

	n := len(g.Players)
	for step := 1; step <= n; step++ {
		idx := (g.CurrentPlayer + step) % n
		if !g.Players[idx].Eliminated {
			g.CurrentPlayer = idx
			break
		}
	}

	next := g.Current()
	if _, skipped := g.PowerUpState.SkippedTurns[next.ID]; skipped {
		delete(g.PowerUpState.SkippedTurns, next.ID)
		g.Append(game.LogEntry{
			Event:    game.LogSkipTurn,
			Player:   next.Username,
			PlayerID: next.ID,
			Message:  next.Username + "'s turn is skipped.",
		})
		if g.Survivors() > 1 {
			advanceTurn(g)
		}
	}
}
