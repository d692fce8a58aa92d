// services/sessions.go
package services

import (
	"context"
	"errors"
	"log"

	"snake-analytics/models"
	"snake-analytics/schemas"

	"gorm.io/gorm"
)

// Provenance is request metadata stored alongside a submitted session.
type Provenance struct {
	ClientIP  *string
	UserAgent *string
}

type GameSessionService struct {
	DB       *gorm.DB
	Profiles *ProfileService
}

func NewGameSessionService(db *gorm.DB, profiles *ProfileService) *GameSessionService {
	return &GameSessionService{DB: db, Profiles: profiles}
}

// Submit persists one finished game. When the session belongs to a user, the
// user's profile counters are updated in the same transaction.
func (s *GameSessionService) Submit(ctx context.Context, in *schemas.GameSessionCreate, p Provenance) (*models.GameSession, error) {
	session := in.ToModel()
	session.ClientIP = p.ClientIP
	session.UserAgent = p.UserAgent

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if session.UserID != nil {
			var n int64
			if err := tx.Model(&models.User{}).Where("id = ?", *session.UserID).Count(&n).Error; err != nil {
				return persistErr("look up user", err)
			}
			if n == 0 {
				return &PersistenceError{Op: "create game session", Err: ErrUnknownUser}
			}
		}

		if err := tx.Create(session).Error; err != nil {
			return persistErr("create game session", err)
		}

		if session.UserID != nil {
			if err := s.Profiles.RecordSession(tx, session); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[Sessions] Submit failed: %v", err)
		return nil, err
	}

	log.Printf("🐍 Session stored: %s (score=%d, difficulty=%s)", session.ID, session.Score, session.Difficulty)
	return session, nil
}

func (s *GameSessionService) Get(ctx context.Context, id string) (*models.GameSession, error) {
	var session models.GameSession
	if err := s.DB.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, persistErr("get game session", err)
	}
	return &session, nil
}

// ListByUser returns the user's sessions, oldest first. A user with no
// sessions gets an empty slice; an unknown user gets ErrNotFound.
func (s *GameSessionService) ListByUser(ctx context.Context, userID string) ([]models.GameSession, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Preload("GameSessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC")
		}).
		First(&user, "id = ?", userID).Error
	if err != nil {
		return nil, persistErr("list game sessions", err)
	}
	if user.GameSessions == nil {
		return []models.GameSession{}, nil
	}
	return user.GameSessions, nil
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
