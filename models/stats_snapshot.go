// models/stats_snapshot.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatsSnapshot is a copy of the cumulative statistics a client keeps
// locally, queued for the analytics process. Rows are never updated.
type StatsSnapshot struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    *string   `gorm:"size:64;index" json:"user_id,omitempty"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	GamesPlayed  int `gorm:"not null;check:chk_statssnapshot_games_played,games_played >= 0" json:"games_played"`
	TotalScore   int `gorm:"not null" json:"total_score"`
	HighestScore int `gorm:"not null" json:"highest_score"`
	TotalTime    int `gorm:"not null" json:"total_time"` // seconds
	ApplesEaten  int `gorm:"not null" json:"apples_eaten"`

	WallCollisions int `gorm:"not null" json:"wall_collisions"`
	SelfCollisions int `gorm:"not null" json:"self_collisions"`

	ClientIP  *string `gorm:"size:64" json:"client_ip,omitempty"`
	UserAgent *string `json:"user_agent,omitempty"`
}

func (StatsSnapshot) TableName() string { return "statssnapshot" }

func (s *StatsSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}
	return nil
}
