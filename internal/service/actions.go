package service

import (
	"encoding/json"
	"time"

	"github.com/Itoshi-web/idksan/internal/engine"
	"github.com/Itoshi-web/idksan/internal/game"
	"github.com/Itoshi-web/idksan/internal/logging"
)

// envelope is the wire shape of every broadcast: an event name plus the room
// snapshot that resulted from it.
type envelope struct {
	Type string    `json:"type"`
	Room *RoomView `json:"room"`
}

// SubmitAction validates and applies one action on behalf of actorID. This is
// the single write path into a running game; bot turns arrive here too, via
// their think timer.
func (s *GameService) SubmitAction(code, actorID string, a engine.Action) (*RoomView, error) {
	room, ok := s.store.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if !room.Started || room.Game == nil {
		return nil, ErrRoomNotStarted
	}
	if room.Finished {
		return nil, ErrGameFinished
	}
	if !engine.KnownAction(a.Type) {
		return nil, ErrUnknownAction
	}
	if room.Game.Current().ID != actorID {
		return nil, ErrNotYourTurn
	}

	s.applyActionLocked(room, a)
	return room.viewLocked(), nil
}

// applyActionLocked runs the resolver, detects a terminal state and kicks the
// next bot turn. Caller holds room.mu.
func (s *GameService) applyActionLocked(room *Room, a engine.Action) {
	logMark := len(room.Game.GameLog)
	s.resolver.Apply(room.Game, a)
	room.LastActive = time.Now()

	if room.Game.Survivors() <= 1 {
		s.finishLocked(room, logMark)
		return
	}

	s.recordShotStatsLocked(room, logMark)
	s.publishLocked(room, "game_state")
	s.scheduleBotLocked(room)
}

// finishLocked seals a finished game: persists the match record and final
// stats, stops any pending bot timer and announces the result.
func (s *GameService) finishLocked(room *Room, logMark int) {
	room.Finished = true
	room.stopBotTimerLocked()
	s.recordShotStatsLocked(room, logMark)

	if s.repo != nil {
		rec := &game.MatchRecord{
			RoomCode:    room.Code,
			PlayerCount: len(room.Game.Players),
			BotCount:    room.botCount(),
			Turns:       room.Game.TurnCount,
			FinishedAt:  time.Now(),
		}
		var winnerUUID string
		if w := room.Game.Winner(); w != nil {
			rec.WinnerName = w.Username
			if !w.IsBot {
				winnerUUID = w.ID
				rec.WinnerUUID = w.ID
			}
		}
		participants := make([]string, 0, len(room.Game.Players))
		for i := range room.Game.Players {
			if !room.Game.Players[i].IsBot {
				participants = append(participants, room.Game.Players[i].ID)
			}
		}
		if err := s.repo.RecordMatchEnd(rec, participants, winnerUUID); err != nil {
			logging.Error("failed to record match end", err, logging.Fields{"room": room.Code})
		}
	}

	s.publishLocked(room, "game_over")
}

// recordShotStatsLocked folds the log entries appended since logMark into the
// durable per-player shot and elimination counters. Bots have no profile row,
// so their entries are skipped.
func (s *GameService) recordShotStatsLocked(room *Room, logMark int) {
	if s.repo == nil {
		return
	}
	type delta struct{ shots, eliminations int }
	byPlayer := make(map[string]delta)
	for _, e := range room.Game.GameLog[logMark:] {
		if e.PlayerID == "" {
			continue
		}
		switch e.Event {
		case game.LogShoot:
			d := byPlayer[e.PlayerID]
			d.shots++
			byPlayer[e.PlayerID] = d
		case game.LogEliminate:
			d := byPlayer[e.PlayerID]
			d.eliminations++
			byPlayer[e.PlayerID] = d
		}
	}
	for id, d := range byPlayer {
		if p := playerInGame(room.Game, id); p == nil || p.IsBot {
			continue
		}
		if err := s.repo.AddShotStats(id, d.shots, d.eliminations); err != nil {
			logging.Error("failed to record shot stats", err, logging.Fields{"room": room.Code, "player": id})
		}
	}
}

func playerInGame(g *game.GameState, id string) *game.Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// publishLocked broadcasts the current room snapshot under the room lock so
// every client sees states in apply order. Caller holds room.mu.
func (s *GameService) publishLocked(room *Room, event string) {
	if s.notifier == nil {
		return
	}
	b, err := json.Marshal(envelope{Type: event, Room: room.viewLocked()})
	if err != nil {
		logging.Error("failed to marshal room broadcast", err, logging.Fields{"room": room.Code, "event": event})
		return
	}
	s.notifier.Broadcast(room.Code, b)
}

// scheduleBotLocked arms a think timer when the turn landed on a bot. The
// timer re-checks room existence and turn ownership when it fires, so a
// cancelled room or a human reconnecting as leader can never race it into a
// stale move. Caller holds room.mu.
func (s *GameService) scheduleBotLocked(room *Room) {
	room.stopBotTimerLocked()
	if room.Game == nil || room.Finished {
		return
	}
	cur := room.Game.Current()
	if !cur.IsBot {
		return
	}
	code, botID := room.Code, cur.ID
	room.botTimer = time.AfterFunc(s.thinkDelay, func() {
		s.runBotTurn(code, botID)
	})
}

// runBotTurn executes one bot action when its think timer fires.
func (s *GameService) runBotTurn(code, botID string) {
	room, ok := s.store.Get(code)
	if !ok {
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.Game == nil || room.Finished || room.Game.Current().ID != botID {
		return
	}
	a := s.bot.NextAction(room.Game, room.Game.CurrentPlayer)
	s.applyActionLocked(room, a)
}

// ReapIdleRooms discards rooms whose last activity is older than maxIdle and
// returns how many were removed. The server runs this on a ticker so
// abandoned lobbies and walked-away games do not accumulate.
func (s *GameService) ReapIdleRooms(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	reaped := 0
	for _, room := range s.store.All() {
		room.mu.Lock()
		idle := room.LastActive.Before(cutoff)
		code := room.Code
		room.mu.Unlock()
		if !idle {
			continue
		}
		s.store.Delete(code)
		logging.Info("reaped idle room", logging.Fields{"room": code})
		reaped++
	}
	return reaped
}
