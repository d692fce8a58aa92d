// models/game_session.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Position is one snake-head grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameSession is one completed play. Rows are written once on submission and
// never updated.
type GameSession struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    *string   `gorm:"size:64;index" json:"user_id,omitempty"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	Score       int        `gorm:"not null;check:chk_gamesession_score,score >= 0" json:"score"`
	GameTime    int        `gorm:"not null" json:"game_time"` // seconds
	Difficulty  Difficulty `gorm:"type:varchar(16);not null;check:chk_gamesession_difficulty,difficulty IN ('EASY','MEDIUM','HARD')" json:"difficulty"`
	SnakeLength int        `gorm:"not null" json:"snake_length"`

	// Chronological: element i was recorded before element i+1.
	MovementPattern datatypes.JSONSlice[Position] `gorm:"not null" json:"movement_pattern"`

	CollisionType     *CollisionType `gorm:"type:varchar(16);check:chk_gamesession_collision_type,collision_type IN ('WALL','COLLISION','NONE')" json:"collision_type,omitempty"`
	PowerUpsCollected int            `gorm:"not null;default:0" json:"power_ups_collected"`
	BoardSize         int            `gorm:"not null" json:"board_size"`

	// Metadata
	ClientIP  *string `gorm:"size:64" json:"client_ip,omitempty"`
	UserAgent *string `json:"user_agent,omitempty"`

	AIInsight *AIInsight `gorm:"foreignKey:GameSessionID;constraint:OnDelete:CASCADE" json:"ai_insight,omitempty"`
}

func (GameSession) TableName() string { return "gamesession" }

func (s *GameSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}
	if s.MovementPattern == nil {
		s.MovementPattern = datatypes.JSONSlice[Position]{}
	}
	return nil
}
