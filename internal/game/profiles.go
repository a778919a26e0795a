package game

import (
	"time"

	"gorm.io/gorm"
)

// UserProfile stores a unique player identity and aggregate stats. Live game
// state is never persisted; profiles and match records are the only durable
// data.
type UserProfile struct {
	gorm.Model
	PlayerUUID   string `json:"player_uuid" gorm:"uniqueIndex"`
	Username     string `json:"username" gorm:"index"`
	GamesPlayed  int    `json:"games_played"`
	Wins         int    `json:"wins"`
	Shots        int    `json:"shots"`
	Eliminations int    `json:"eliminations"`
}

// Unify global users table name as "player_profiles"
func (UserProfile) TableName() string { return "player_profiles" }

// MatchRecord is the durable summary of a finished match.
type MatchRecord struct {
	gorm.Model
	RoomCode    string    `json:"room_code" gorm:"index"`
	WinnerUUID  string    `json:"winner_uuid"`
	WinnerName  string    `json:"winner_name"`
	PlayerCount int       `json:"player_count"`
	BotCount    int       `json:"bot_count"`
	Turns       int       `json:"turns"`
	FinishedAt  time.Time `json:"finished_at"`
}

func (MatchRecord) TableName() string { return "match_records" }
