// models/ai_insight.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HeatPoint is one cell of an insight heatmap.
type HeatPoint struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Frequency float64 `json:"frequency"`
}

// Pattern is a named movement habit detected in a session.
type Pattern struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Frequency   float64 `json:"frequency"`
}

// AIInsight holds the analytics generated for exactly one GameSession. The
// unique index on GameSessionID makes the link 1:1 at the storage layer.
type AIInsight struct {
	ID            string     `gorm:"primaryKey;size:64" json:"id"`
	GameSessionID string     `gorm:"size:64;not null;uniqueIndex" json:"game_session_id"`
	Timestamp     time.Time  `gorm:"not null" json:"timestamp"`
	SkillLevel    SkillLevel `gorm:"type:varchar(16);not null;check:chk_aiinsight_skill_level,skill_level IN ('BEGINNER','INTERMEDIATE','ADVANCED','EXPERT')" json:"skill_level"`

	Strengths       datatypes.JSONSlice[string] `gorm:"not null" json:"strengths"`
	Weaknesses      datatypes.JSONSlice[string] `gorm:"not null" json:"weaknesses"`
	Recommendations datatypes.JSONSlice[string] `gorm:"not null" json:"recommendations"`

	Heatmap  datatypes.JSONSlice[HeatPoint] `json:"heatmap,omitempty"`
	Patterns datatypes.JSONSlice[Pattern]   `json:"patterns,omitempty"`

	// Signed percentage deviation from the population average.
	ScoreComparison      *float64 `json:"score_comparison,omitempty"`
	TimeComparison       *float64 `json:"time_comparison,omitempty"`
	EfficiencyComparison *float64 `json:"efficiency_comparison,omitempty"`
}

func (AIInsight) TableName() string { return "aiinsight" }

func (i *AIInsight) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now().UTC()
	}
	if i.Strengths == nil {
		i.Strengths = datatypes.JSONSlice[string]{}
	}
	if i.Weaknesses == nil {
		i.Weaknesses = datatypes.JSONSlice[string]{}
	}
	if i.Recommendations == nil {
		i.Recommendations = datatypes.JSONSlice[string]{}
	}
	return nil
}
