// services/profile.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"snake-analytics/models"
	"snake-analytics/schemas"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// RecordSession folds a stored session into its owner's profile, creating the
// profile on the user's first session. It must run inside the transaction
// that created the session.
func (s *ProfileService) RecordSession(tx *gorm.DB, session *models.GameSession) error {
	if session.UserID == nil {
		return nil
	}
	userID := *session.UserID

	// Two first sessions may race here; the loser's insert is a no-op and
	// both continue on the same row.
	created := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.PlayerProfile{UserID: userID})
	if created.Error != nil {
		return persistErr("create player profile", created.Error)
	}
	if created.RowsAffected == 1 {
		log.Printf("🆕 Profile created for user %s", userID)
	}

	prof, err := lockProfile(tx, userID)
	if err != nil {
		return err
	}
	prof.RecordSession(session)
	return persistErr("update player profile", tx.Model(prof).Updates(counterColumns(prof)).Error)
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.PlayerProfile, error) {
	var prof models.PlayerProfile
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&prof).Error; err != nil {
		return nil, persistErr("get player profile", err)
	}
	return &prof, nil
}

// ApplyAnalysis stores the output of the analytics process on a profile.
// Fields the analysis leaves unset keep their current value.
func (s *ProfileService) ApplyAnalysis(ctx context.Context, userID string, a *schemas.ProfileAnalysis) (*models.PlayerProfile, error) {
	if a.StyleConfidence != nil && (*a.StyleConfidence < 0 || *a.StyleConfidence > 1) {
		return nil, schemas.ValidationErrors{{Field: "style_confidence", Message: "must be between 0.0 and 1.0"}}
	}

	var prof *models.PlayerProfile
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if prof, err = lockProfile(tx, userID); err != nil {
			return err
		}

		changed := map[string]interface{}{}
		if a.PlayerStyle != nil {
			prof.PlayerStyle = a.PlayerStyle
			changed["player_style"] = *a.PlayerStyle
		}
		if a.StyleConfidence != nil {
			prof.StyleConfidence = *a.StyleConfidence
			changed["style_confidence"] = *a.StyleConfidence
		}
		if a.PreferredDifficulty != nil {
			prof.PreferredDifficulty = a.PreferredDifficulty
			changed["preferred_difficulty"] = *a.PreferredDifficulty
		}
		if a.SkillLevel != nil {
			prof.SkillProgression = append(prof.SkillProgression, models.SkillPoint{
				Timestamp:  time.Now().UnixMilli(),
				SkillLevel: *a.SkillLevel,
			})
			changed["skill_progression"] = prof.SkillProgression
		}
		if a.HasPracticeAreas() {
			prof.PracticeAreas = datatypes.JSONSlice[string](a.PracticeAreas)
			changed["practice_areas"] = prof.PracticeAreas
		}
		if a.HasSuggestedTechniques() {
			prof.SuggestedTechniques = datatypes.JSONSlice[string](a.SuggestedTechniques)
			changed["suggested_techniques"] = prof.SuggestedTechniques
		}
		if len(changed) == 0 {
			return nil
		}

		return persistErr("update player profile", tx.Model(prof).Updates(changed).Error)
	})
	if err != nil {
		return nil, err
	}
	return prof, nil
}

// Recommendations returns the stored advice for a user. A user who has not
// played yet gets empty advice rather than an error.
func (s *ProfileService) Recommendations(ctx context.Context, userID string) (schemas.Recommendations, error) {
	prof, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return schemas.RecommendationsFromProfile(&models.PlayerProfile{}), nil
	}
	if err != nil {
		return schemas.Recommendations{}, err
	}
	return schemas.RecommendationsFromProfile(prof), nil
}

// Reconcile recomputes every profile's counters from the sessions actually
// stored and returns how many profiles were corrected.
func (s *ProfileService) Reconcile(ctx context.Context) (int, error) {
	var profiles []models.PlayerProfile
	if err := s.DB.WithContext(ctx).Find(&profiles).Error; err != nil {
		return 0, persistErr("list player profiles", err)
	}

	fixed := 0
	for i := range profiles {
		if err := ctx.Err(); err != nil {
			return fixed, err
		}
		changed, err := s.reconcileOne(ctx, profiles[i].UserID)
		if err != nil {
			return fixed, fmt.Errorf("reconciling profile of %s: %w", profiles[i].UserID, err)
		}
		if changed {
			fixed++
		}
	}
	return fixed, nil
}

func (s *ProfileService) reconcileOne(ctx context.Context, userID string) (bool, error) {
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prof, err := lockProfile(tx, userID)
		if err != nil {
			return err
		}

		var sessions []models.GameSession
		if err := tx.Select("id", "score", "game_time", "collision_type").
			Where("user_id = ?", userID).
			Find(&sessions).Error; err != nil {
			return persistErr("list game sessions", err)
		}

		want := *prof
		want.ResetCounters()
		for i := range sessions {
			want.RecordSession(&sessions[i])
		}
		if sameCounters(prof, &want) {
			return nil
		}

		changed = true
		return persistErr("update player profile", tx.Model(prof).Updates(counterColumns(&want)).Error)
	})
	return changed, err
}

func sameCounters(a, b *models.PlayerProfile) bool {
	return a.GamesPlayed == b.GamesPlayed &&
		a.TotalScore == b.TotalScore &&
		a.HighestScore == b.HighestScore &&
		a.TotalTime == b.TotalTime &&
		a.ApplesEaten == b.ApplesEaten &&
		a.WallCollisions == b.WallCollisions &&
		a.SelfCollisions == b.SelfCollisions
}

// lockProfile loads a profile for update. Every writer goes through it so
// concurrent submits and analyses for one user queue on the row.
func lockProfile(tx *gorm.DB, userID string) (*models.PlayerProfile, error) {
	var prof models.PlayerProfile
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&prof).Error; err != nil {
		return nil, persistErr("load player profile", err)
	}
	return &prof, nil
}

func counterColumns(p *models.PlayerProfile) map[string]interface{} {
	return map[string]interface{}{
		"games_played":    p.GamesPlayed,
		"total_score":     p.TotalScore,
		"highest_score":   p.HighestScore,
		"total_time":      p.TotalTime,
		"apples_eaten":    p.ApplesEaten,
		"wall_collisions": p.WallCollisions,
		"self_collisions": p.SelfCollisions,
	}
}
