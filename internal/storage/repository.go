package storage

import "github.com/Itoshi-web/idksan/internal/game"

// Repository persists the durable side records of the game: player profiles,
// aggregate stats and finished-match summaries. Live room and game state is
// deliberately never stored here.
type Repository interface {
	// UpsertUser creates or refreshes a profile for the given identity.
	UpsertUser(playerUUID, username string) error
	GetStatsByUUID(playerUUID string) (*game.UserProfile, error)
	// Leaderboard
	GetTopPlayers(limit int) ([]game.UserProfile, error)
	// RecordMatchEnd stores the match summary and updates aggregate stats:
	// every human participant gets a game counted, the winner (when human)
	// gets a win.
	RecordMatchEnd(rec *game.MatchRecord, participantUUIDs []string, winnerUUID string) error
	// AddShotStats accumulates per-shooter counters collected during play.
	AddShotStats(playerUUID string, shots, eliminations int) error
}
