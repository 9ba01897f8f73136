package db

import (
	"time"

	"gorm.io/datatypes"
)

// ScoreEvent rows are append-only; they are removed only by cascade when the
// owning game is deleted.
type ScoreEvent struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	UserID    uint           `gorm:"index;not null"`
	EventType string         `gorm:"size:64;not null"`
	EventData datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null;index"`
	User      User           `gorm:"foreignKey:UserID"`
}
