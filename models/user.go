// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity record. Sessions and stats snapshots survive the
// user's deletion as anonymous telemetry; the profile does not.
type User struct {
	ID             string  `gorm:"primaryKey;size:64" json:"id"`
	Email          *string `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	HashedPassword *string `json:"-"`
	IsActive       bool    `gorm:"not null" json:"is_active"`
	IsSuperuser    bool    `gorm:"not null" json:"is_superuser"`

	Timestamps

	GameSessions   []GameSession   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"game_sessions,omitempty"`
	PlayerProfile  *PlayerProfile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"player_profile,omitempty"`
	StatsSnapshots []StatsSnapshot `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (User) TableName() string { return "user" }

// NewUser returns an active, non-superuser account. A zero User is inactive.
func NewUser(id string, email *string) *User {
	return &User{ID: id, Email: email, IsActive: true}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
