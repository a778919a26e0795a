// Package ai synthesizes actions for automated players. A bot is a scripted
// client of the same action vocabulary humans use; it never gets a private
// code path inside the rules engine.
package ai

import (
	"github.com/Itoshi-web/idksan/internal/engine"
	"github.com/Itoshi-web/idksan/internal/game"
)

// Bot decides the next action for an automated player.
type Bot struct {
	rng engine.Rand
}

// New returns a bot drawing randomness from rng.
func New(rng engine.Rand) *Bot {
	return &Bot{rng: rng}
}

// NextAction picks the bot's move for the player at index idx:
//   - on the first move, always roll a 1 so the opening cell activates
//   - with a pending armed roll, shoot a uniformly random eligible target
//     (not self, not eliminated, at least one active cell) and a random
//     active cell on it
//   - otherwise roll uniformly from 1..min(playerCount, 6)
//
// Bots never play power-ups; anything a trigger roll grants just sits in
// the inventory.
func (b *Bot) NextAction(g *game.GameState, idx int) engine.Action {
	p := &g.Players[idx]

	if p.FirstMove {
		return engine.Action{Type: engine.ActionRoll, Value: 1}
	}

	if g.CanShoot {
		if target, cell, ok := b.pickTarget(g, idx); ok {
			return engine.Action{Type: engine.ActionShoot, TargetPlayer: target, TargetCell: cell}
		}
		return engine.Action{Type: engine.ActionEndTurn}
	}

	faces := len(g.Players)
	if faces > game.DiceMax {
		faces = game.DiceMax
	}
	return engine.Action{Type: engine.ActionRoll, Value: 1 + b.rng.Intn(faces)}
}

func (b *Bot) pickTarget(g *game.GameState, self int) (int, int, bool) {
	eligible := make([]int, 0, len(g.Players))
	for i := range g.Players {
		if i == self || g.Players[i].Eliminated || !g.Players[i].HasActiveCell() {
			continue
		}
		eligible = append(eligible, i)
	}
	if len(eligible) == 0 {
		return 0, 0, false
	}
	target := eligible[b.rng.Intn(len(eligible))]

	active := make([]int, 0, len(g.Players[target].Cells))
	for i := range g.Players[target].Cells {
		if g.Players[target].Cells[i].IsActive {
			active = append(active, i)
		}
	}
	return target, active[b.rng.Intn(len(active))], true
}
