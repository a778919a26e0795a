package main

import (
	"time"

	"github.com/Itoshi-web/idksan/internal/logging"
	"github.com/Itoshi-web/idksan/internal/service"
)

// startRoomReaper discards rooms that have seen no activity for roomTTL.
// Abandoned lobbies and finished games players walked away from are the
// common cases.
func startRoomReaper(svc *service.GameService, roomTTL time.Duration) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := svc.ReapIdleRooms(roomTTL); n > 0 {
				logging.Info("idle room sweep finished", logging.Fields{"reaped": n})
			}
		}
	}()
}
