package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	Room *struct {
		MaxPlayers int `json:"max_players"`
		MinPlayers int `json:"min_players"`
		TTLMinutes int `json:"ttl_minutes"`
	} `json:"room"`
	Bot *struct {
		ThinkDelayMS int `json:"think_delay_ms"`
	} `json:"bot"`
	Session *struct {
		TTLMinutes int `json:"ttl_minutes"`
	} `json:"session"`
}

// LoadedConfig contains the effective server settings after defaults are
// applied.
type LoadedConfig struct {
	ServerAddress string
	MaxPlayers    int
	MinPlayers    int
	RoomTTL       time.Duration
	BotThinkDelay time.Duration
	SessionTTL    time.Duration
}

// Defaults applied when the config file omits a section.
const (
	DefaultAddress       = ":8080"
	DefaultMaxPlayers    = 8
	DefaultMinPlayers    = 2
	DefaultRoomTTL       = 2 * time.Hour
	DefaultBotThinkDelay = 1500 * time.Millisecond
	DefaultSessionTTL    = 24 * time.Hour
)

// Load reads the configuration file at path and returns the effective
// settings. A missing file is not an error: every setting has a default so
// the server can run with no config at all.
func Load(path string) (*LoadedConfig, error) {
	cfg := &LoadedConfig{
		ServerAddress: DefaultAddress,
		MaxPlayers:    DefaultMaxPlayers,
		MinPlayers:    DefaultMinPlayers,
		RoomTTL:       DefaultRoomTTL,
		BotThinkDelay: DefaultBotThinkDelay,
		SessionTTL:    DefaultSessionTTL,
	}
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.Room != nil {
		if rc.Room.MaxPlayers != 0 {
			cfg.MaxPlayers = rc.Room.MaxPlayers
		}
		if rc.Room.MinPlayers != 0 {
			cfg.MinPlayers = rc.Room.MinPlayers
		}
		if rc.Room.TTLMinutes != 0 {
			cfg.RoomTTL = time.Duration(rc.Room.TTLMinutes) * time.Minute
		}
	}
	if rc.Bot != nil && rc.Bot.ThinkDelayMS != 0 {
		cfg.BotThinkDelay = time.Duration(rc.Bot.ThinkDelayMS) * time.Millisecond
	}
	if rc.Session != nil && rc.Session.TTLMinutes != 0 {
		cfg.SessionTTL = time.Duration(rc.Session.TTLMinutes) * time.Minute
	}

	if cfg.MinPlayers < 2 {
		return nil, fmt.Errorf("config file %s: room.min_players must be at least 2", path)
	}
	if cfg.MaxPlayers < cfg.MinPlayers {
		return nil, fmt.Errorf("config file %s: room.max_players (%d) below room.min_players (%d)", path, cfg.MaxPlayers, cfg.MinPlayers)
	}
	if cfg.BotThinkDelay < 0 {
		return nil, fmt.Errorf("config file %s: bot.think_delay_ms must not be negative", path)
	}
	if cfg.RoomTTL <= 0 {
		return nil, fmt.Errorf("config file %s: room.ttl_minutes must be positive", path)
	}

	return cfg, nil
}
