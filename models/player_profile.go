// models/player_profile.go
package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SkillPoint is one entry of a player's skill history.
type SkillPoint struct {
	Timestamp  int64      `json:"timestamp"` // ms since epoch
	SkillLevel SkillLevel `json:"skill_level"`
}

// PlayerProfile is the running aggregate for one user (denormalized for
// performance). The unique index on UserID keeps it 1:1.
type PlayerProfile struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	UserID string `gorm:"size:64;not null;uniqueIndex" json:"user_id"`

	Timestamps

	// Player statistics
	GamesPlayed  int `gorm:"not null;default:0" json:"games_played"`
	TotalScore   int `gorm:"not null;default:0" json:"total_score"`
	HighestScore int `gorm:"not null;default:0" json:"highest_score"`
	TotalTime    int `gorm:"not null;default:0" json:"total_time"` // seconds
	ApplesEaten  int `gorm:"not null;default:0" json:"apples_eaten"`

	// Death statistics
	WallCollisions int `gorm:"not null;default:0" json:"wall_collisions"`
	SelfCollisions int `gorm:"not null;default:0" json:"self_collisions"`

	PlayerStyle     *PlayStyle `gorm:"type:varchar(16);check:chk_playerprofile_player_style,player_style IN ('AGGRESSIVE','CAUTIOUS','STRATEGIC','BALANCED','UNPREDICTABLE')" json:"player_style,omitempty"`
	StyleConfidence float64    `gorm:"not null;default:0;check:chk_playerprofile_style_confidence,style_confidence >= 0 AND style_confidence <= 1" json:"style_confidence"`

	PreferredDifficulty *Difficulty `gorm:"type:varchar(16);check:chk_playerprofile_preferred_difficulty,preferred_difficulty IN ('EASY','MEDIUM','HARD')" json:"preferred_difficulty,omitempty"`

	SkillProgression    datatypes.JSONSlice[SkillPoint] `json:"skill_progression"`
	PracticeAreas       datatypes.JSONSlice[string]     `json:"practice_areas"`
	SuggestedTechniques datatypes.JSONSlice[string]     `json:"suggested_techniques"`
}

func (PlayerProfile) TableName() string { return "playerprofile" }

func (p *PlayerProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.SkillProgression == nil {
		p.SkillProgression = datatypes.JSONSlice[SkillPoint]{}
	}
	if p.PracticeAreas == nil {
		p.PracticeAreas = datatypes.JSONSlice[string]{}
	}
	if p.SuggestedTechniques == nil {
		p.SuggestedTechniques = datatypes.JSONSlice[string]{}
	}
	return nil
}

// RecordSession folds one finished session into the counters. Every point
// scored is one apple eaten.
func (p *PlayerProfile) RecordSession(s *GameSession) {
	p.GamesPlayed++
	p.TotalScore += s.Score
	if s.Score > p.HighestScore {
		p.HighestScore = s.Score
	}
	p.TotalTime += s.GameTime
	p.ApplesEaten += s.Score
	if s.CollisionType != nil {
		switch *s.CollisionType {
		case CollisionWall:
			p.WallCollisions++
		case CollisionSelf:
			p.SelfCollisions++
		}
	}
}

// ResetCounters zeroes the aggregate counters ahead of a rebuild.
func (p *PlayerProfile) ResetCounters() {
	p.GamesPlayed = 0
	p.TotalScore = 0
	p.HighestScore = 0
	p.TotalTime = 0
	p.ApplesEaten = 0
	p.WallCollisions = 0
	p.SelfCollisions = 0
}
