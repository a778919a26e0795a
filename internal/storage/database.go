package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Itoshi-web/idksan/internal/game"
)

// OpenAndMigrate opens the SQLite database at the given path and keeps the
// schema updated via AutoMigrate. The parent directory is created when
// missing so a fresh checkout can start with the default ./data path.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	if dir := filepath.Dir(dataSourceName); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dataSourceName, err)
	}
	if err := db.AutoMigrate(&game.UserProfile{}, &game.MatchRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return db, nil
}
