// services/insight.go
package services

import (
	"context"
	"errors"
	"log"

	"snake-analytics/models"
	"snake-analytics/schemas"

	"gorm.io/gorm"
)

type InsightService struct {
	DB *gorm.DB
}

func NewInsightService(db *gorm.DB) *InsightService {
	return &InsightService{DB: db}
}

// Record stores the single insight generated for a session.
func (s *InsightService) Record(ctx context.Context, sessionID string, in *schemas.AIInsightCreate) (*models.AIInsight, error) {
	insight := in.ToModel(sessionID)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.GameSession
		if err := tx.Select("id").First(&session, "id = ?", sessionID).Error; err != nil {
			return persistErr("get game session", err)
		}

		var n int64
		if err := tx.Model(&models.AIInsight{}).Where("game_session_id = ?", sessionID).Count(&n).Error; err != nil {
			return persistErr("look up insight", err)
		}
		if n > 0 {
			return ErrInsightExists
		}

		if err := tx.Create(insight).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrInsightExists
			}
			return persistErr("create insight", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🧠 Insight recorded for session %s (%s)", sessionID, insight.SkillLevel)
	return insight, nil
}

func (s *InsightService) GetBySession(ctx context.Context, sessionID string) (*models.AIInsight, error) {
	var insight models.AIInsight
	if err := s.DB.WithContext(ctx).Where("game_session_id = ?", sessionID).First(&insight).Error; err != nil {
		return nil, persistErr("get insight", err)
	}
	return &insight, nil
}
