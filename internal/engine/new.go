package engine

import (
	"github.com/google/uuid"

	"github.com/Itoshi-web/idksan/internal/game"
)

// Seat describes one participant of a match about to start.
type Seat struct {
	ID       string
	Username string
	IsBot    bool
}

// NewGameState builds the initial state for the given seats. Each player
// starts with min(playerCount, 5) dormant cells, an empty inventory and the
// first-move flag set. The turn counter starts at 1 with the first seat to
// act.
func NewGameState(seats []Seat) *game.GameState {
	cellCount := game.CellsPerPlayer(len(seats))
	players := make([]game.Player, 0, len(seats))
	for _, s := range seats {
		cells := make([]game.Cell, cellCount)
		for i := range cells {
			cells[i] = game.Cell{ID: uuid.NewString()}
		}
		players = append(players, game.Player{
			ID:        s.ID,
			Username:  s.Username,
			IsBot:     s.IsBot,
			FirstMove: true,
			PowerUps:  make([]game.PowerUp, 0, 4),
			Cells:     cells,
		})
	}

	g := &game.GameState{
		CurrentPlayer: 0,
		TurnCount:     1,
		Players:       players,
		GameLog:       make([]game.LogEntry, 0, 64),
		PowerUpState:  game.NewPowerUpState(),
	}
	g.Append(game.LogEntry{
		Event:    game.LogGameStart,
		Player:   players[0].Username,
		PlayerID: players[0].ID,
		Message:  "The game has started. " + players[0].Username + " moves first.",
	})
	return g
}
