// services/stats.go
package services

import (
	"context"
	"log"

	"snake-analytics/models"
	"snake-analytics/schemas"

	"gorm.io/gorm"
)

type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// Submit stores a client's cumulative statistics for later analysis. The
// snapshot is anonymous when userID is nil.
func (s *StatsService) Submit(ctx context.Context, in *schemas.StatsAnalysisCreate, userID *string, p Provenance) (*models.StatsSnapshot, error) {
	snap := in.ToModel(userID)
	snap.ClientIP = p.ClientIP
	snap.UserAgent = p.UserAgent

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if userID != nil {
			var n int64
			if err := tx.Model(&models.User{}).Where("id = ?", *userID).Count(&n).Error; err != nil {
				return persistErr("look up user", err)
			}
			if n == 0 {
				return &PersistenceError{Op: "create stats snapshot", Err: ErrUnknownUser}
			}
		}
		return persistErr("create stats snapshot", tx.Create(snap).Error)
	})
	if err != nil {
		log.Printf("[Stats] Submit failed: %v", err)
		return nil, err
	}

	log.Printf("📈 Stats snapshot stored: %s (%d games)", snap.ID, snap.GamesPlayed)
	return snap, nil
}

func (s *StatsService) Get(ctx context.Context, id string) (*models.StatsSnapshot, error) {
	var snap models.StatsSnapshot
	if err := s.DB.WithContext(ctx).First(&snap, "id = ?", id).Error; err != nil {
		return nil, persistErr("get stats snapshot", err)
	}
	return &snap, nil
}
