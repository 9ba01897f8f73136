package db

import "time"

type Participant struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"index;not null;uniqueIndex:idx_participants_game_user"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_participants_game_user"`
	Role      string    `gorm:"size:16;not null;default:viewer"`
	JoinedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	User      User      `gorm:"foreignKey:UserID"`
}
