package services

import (
	"testing"

	"snake-analytics/config"
	"snake-analytics/models"
	"snake-analytics/schemas"
	"snake-analytics/utils"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := utils.OpenDatabase(&config.Settings{DatabaseURI: "sqlite://:memory:", LogLevel: "ERROR"})
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	if err := utils.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	u := models.NewUser(id, nil)
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("creating user %s: %v", id, err)
	}
	return u
}

func strPtr(s string) *string { return &s }

func collisionPtr(c models.CollisionType) *models.CollisionType { return &c }

func sessionCreate(userID *string, score, gameTime int, collision *models.CollisionType) *schemas.GameSessionCreate {
	return &schemas.GameSessionCreate{
		GameSessionBase: schemas.GameSessionBase{
			Timestamp:         1700000000000,
			Score:             score,
			GameTime:          gameTime,
			Difficulty:        models.DifficultyMedium,
			SnakeLength:       3 + score,
			MovementPattern:   []schemas.Position{{X: 10, Y: 10}, {X: 11, Y: 10}},
			CollisionType:     collision,
			PowerUpsCollected: 0,
			BoardSize:         20,
		},
		UserID: userID,
	}
}
