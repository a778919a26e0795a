package storage

import (
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Itoshi-web/idksan/internal/game"
)

// SQLiteRepository implements Repository on a gorm SQLite handle.
type SQLiteRepository struct {
	db *gorm.DB
	// leaderboard reads are deduplicated: concurrent identical queries share
	// one database round trip.
	sf singleflight.Group
}

// NewSQLiteRepository wraps db in a Repository.
func NewSQLiteRepository(db *gorm.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) UpsertUser(playerUUID, username string) error {
	if playerUUID == "" {
		return errors.New("player uuid is required")
	}
	profile := game.UserProfile{PlayerUUID: playerUUID, Username: username}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"username"}),
	}).Create(&profile).Error
}

func (r *SQLiteRepository) GetStatsByUUID(playerUUID string) (*game.UserProfile, error) {
	var profile game.UserProfile
	if err := r.db.Where("player_uuid = ?", playerUUID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *SQLiteRepository) GetTopPlayers(limit int) ([]game.UserProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	key := fmt.Sprintf("top:%d", limit)
	v, err, _ := r.sf.Do(key, func() (interface{}, error) {
		var out []game.UserProfile
		err := r.db.
			Order("wins DESC, games_played ASC, username ASC").
			Limit(limit).
			Find(&out).Error
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]game.UserProfile), nil
}

func (r *SQLiteRepository) RecordMatchEnd(rec *game.MatchRecord, participantUUIDs []string, winnerUUID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		for _, uuid := range participantUUIDs {
			if err := tx.Model(&game.UserProfile{}).
				Where("player_uuid = ?", uuid).
				Update("games_played", gorm.Expr("games_played + 1")).Error; err != nil {
				return err
			}
		}
		if winnerUUID != "" {
			if err := tx.Model(&game.UserProfile{}).
				Where("player_uuid = ?", winnerUUID).
				Update("wins", gorm.Expr("wins + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) AddShotStats(playerUUID string, shots, eliminations int) error {
	if shots == 0 && eliminations == 0 {
		return nil
	}
	return r.db.Model(&game.UserProfile{}).
		Where("player_uuid = ?", playerUUID).
		Updates(map[string]interface{}{
			"shots":        gorm.Expr("shots + ?", shots),
			"eliminations": gorm.Expr("eliminations + ?", eliminations),
		}).Error
}
