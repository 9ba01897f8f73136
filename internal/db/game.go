package db

import (
	"time"

	"gorm.io/datatypes"
)

// Game status lifecycle: waiting -> live -> completed, with cancelled
// reachable from waiting or live. Completed and cancelled are terminal.
const (
	StatusWaiting   = "waiting"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	GameTypeCricket    = "cricket"
	GameTypeFootball   = "football"
	GameTypeBasketball = "basketball"
	GameTypeCustom     = "custom"
)

const (
	RoleCreator = "creator"
	RoleScorer  = "scorer"
	RoleViewer  = "viewer"
)

type Game struct {
	ID           uint           `gorm:"primaryKey"`
	GameType     string         `gorm:"size:32;not null;index:idx_games_type_status"`
	Name         string         `gorm:"size:100;not null"`
	RoomCode     string         `gorm:"size:6;uniqueIndex;not null"`
	Status       string         `gorm:"size:32;not null;index:idx_games_type_status;index:idx_games_status_created"`
	CreatorID    uint           `gorm:"index;not null"`
	CurrentScore datatypes.JSON `gorm:"type:jsonb;not null"`
	StartTime    *time.Time
	EndTime      *time.Time
	CreatedAt    time.Time `gorm:"not null;index:idx_games_status_created"`
	UpdatedAt    time.Time `gorm:"not null"`
	Creator      User      `gorm:"foreignKey:CreatorID"`
	Participants []Participant
	Events       []ScoreEvent
}

func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

func ValidGameType(gameType string) bool {
	switch gameType {
	case GameTypeCricket, GameTypeFootball, GameTypeBasketball, GameTypeCustom:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusWaiting, StatusLive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
