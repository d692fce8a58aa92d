package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"snake-analytics/models"
	"snake-analytics/schemas"
)

func TestSubmitExamplePayload(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameSessionService(db, NewProfileService(db))

	in, err := schemas.DecodeGameSessionCreate([]byte(`{"timestamp": 1000, "score": 42, "game_time": 30,
		"difficulty": "EASY", "snake_length": 5, "movement_pattern": [{"x": 1, "y": 1}, {"x": 1, "y": 2}],
		"power_ups_collected": 1, "board_size": 20}`))
	if err != nil {
		t.Fatal(err)
	}

	session, err := svc.Submit(context.Background(), in, Provenance{ClientIP: strPtr("10.0.0.1")})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if session.ID == "" {
		t.Fatal("Submit() did not assign an id")
	}

	resp := schemas.Accepted(session.ID)
	if id, ok := resp.SessionID(); !ok || id != session.ID {
		t.Errorf("SessionID() = %q, %v", id, ok)
	}

	var profiles int64
	db.Model(&models.PlayerProfile{}).Count(&profiles)
	if profiles != 0 {
		t.Errorf("anonymous session created %d profiles", profiles)
	}
}

func TestSubmitRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameSessionService(db, NewProfileService(db))
	ctx := context.Background()

	in := sessionCreate(nil, 17, 64, collisionPtr(models.CollisionSelf))
	in.Difficulty = models.DifficultyHard
	in.PowerUpsCollected = 2

	session, err := svc.Submit(ctx, in, Provenance{UserAgent: strPtr("test-agent")})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	stored, err := svc.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	out := schemas.FromModel(stored)

	if out.Score != in.Score || out.GameTime != in.GameTime || out.Difficulty != in.Difficulty ||
		out.SnakeLength != in.SnakeLength || out.PowerUpsCollected != in.PowerUpsCollected ||
		out.BoardSize != in.BoardSize {
		t.Errorf("round trip = %+v, want fields of %+v", out, in.GameSessionBase)
	}
	if !reflect.DeepEqual(out.MovementPattern, in.MovementPattern) {
		t.Errorf("MovementPattern = %v, want %v", out.MovementPattern, in.MovementPattern)
	}
	if out.CollisionType == nil || *out.CollisionType != models.CollisionSelf {
		t.Errorf("CollisionType = %v, want collision", out.CollisionType)
	}
	if !out.Timestamp.Equal(time.UnixMilli(in.Timestamp)) {
		t.Errorf("Timestamp = %v, want %v", out.Timestamp, time.UnixMilli(in.Timestamp))
	}
	if out.UserAgent == nil || *out.UserAgent != "test-agent" {
		t.Errorf("UserAgent = %v, want test-agent", out.UserAgent)
	}
}

func TestCollisionTypeStoredUpperCase(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameSessionService(db, NewProfileService(db))

	session, err := svc.Submit(context.Background(), sessionCreate(nil, 1, 1, collisionPtr(models.CollisionWall)), Provenance{})
	if err != nil {
		t.Fatal(err)
	}

	var raw string
	if err := db.Raw("SELECT collision_type FROM gamesession WHERE id = ?", session.ID).Scan(&raw).Error; err != nil {
		t.Fatal(err)
	}
	if raw != "WALL" {
		t.Errorf("stored collision_type = %q, want WALL", raw)
	}
}

func TestSubmitUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameSessionService(db, NewProfileService(db))

	_, err := svc.Submit(context.Background(), sessionCreate(strPtr("ghost"), 5, 10, nil), Provenance{})

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Submit() error = %v, want *PersistenceError", err)
	}
	if !errors.Is(err, ErrUnknownUser) {
		t.Errorf("Submit() error = %v, want ErrUnknownUser", err)
	}

	var n int64
	db.Model(&models.GameSession{}).Count(&n)
	if n != 0 {
		t.Errorf("%d sessions stored after a failed submit", n)
	}
}

func TestGetMissingSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameSessionService(db, NewProfileService(db))

	_, err := svc.Get(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestListByUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameSessionService(db, NewProfileService(db))
	ctx := context.Background()
	newTestUser(t, db, "u1")
	newTestUser(t, db, "u2")

	for _, ts := range []int64{3000, 1000, 2000} {
		in := sessionCreate(strPtr("u1"), 1, 1, nil)
		in.Timestamp = ts
		if _, err := svc.Submit(ctx, in, Provenance{}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		userID  string
		want    []int64
		wantErr error
	}{
		{name: "oldest first", userID: "u1", want: []int64{1000, 2000, 3000}},
		{name: "no sessions", userID: "u2", want: []int64{}},
		{name: "unknown user", userID: "nobody", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListByUser(ctx, tt.userID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ListByUser() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ListByUser() error = %v", err)
			}
			if got == nil {
				t.Fatal("ListByUser() returned nil, want a slice")
			}
			stamps := make([]int64, len(got))
			for i, s := range got {
				stamps[i] = s.Timestamp.UnixMilli()
			}
			if !reflect.DeepEqual(stamps, tt.want) {
				t.Errorf("timestamps = %v, want %v", stamps, tt.want)
			}
		})
	}
}

func TestUserWithoutSessionsHasNoProfile(t *testing.T) {
	db := newTestDB(t)
	newTestUser(t, db, "fresh")

	var user models.User
	if err := db.Preload("GameSessions").Preload("PlayerProfile").First(&user, "id = ?", "fresh").Error; err != nil {
		t.Fatal(err)
	}
	if len(user.GameSessions) != 0 {
		t.Errorf("GameSessions = %v, want none", user.GameSessions)
	}
	if user.PlayerProfile != nil {
		t.Errorf("PlayerProfile = %+v, want nil", user.PlayerProfile)
	}
}

func TestDeletingUserKeepsSessions(t *testing.T) {
	db := newTestDB(t)
	svc := NewGameSessionService(db, NewProfileService(db))
	user := newTestUser(t, db, "leaver")

	session, err := svc.Submit(context.Background(), sessionCreate(strPtr("leaver"), 4, 9, nil), Provenance{})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.Delete(user).Error; err != nil {
		t.Fatalf("deleting user: %v", err)
	}

	stored, err := svc.Get(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Get() after user delete error = %v", err)
	}
	if stored.UserID != nil {
		t.Errorf("UserID = %q, want nil after owner deletion", *stored.UserID)
	}

	var profiles int64
	db.Model(&models.PlayerProfile{}).Count(&profiles)
	if profiles != 0 {
		t.Errorf("%d profiles survived their user", profiles)
	}
}
