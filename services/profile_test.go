package services

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"

	"snake-analytics/models"
	"snake-analytics/schemas"

	"gorm.io/gorm"
)

func TestSubmitUpdatesProfile(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)
	sessions := NewGameSessionService(db, profiles)
	ctx := context.Background()
	newTestUser(t, db, "u1")

	plays := []struct {
		score, gameTime int
		collision       *models.CollisionType
	}{
		{score: 10, gameTime: 30, collision: collisionPtr(models.CollisionWall)},
		{score: 25, gameTime: 45, collision: collisionPtr(models.CollisionSelf)},
		{score: 5, gameTime: 12, collision: collisionPtr(models.CollisionWall)},
		{score: 0, gameTime: 3, collision: nil},
	}
	for _, p := range plays {
		if _, err := sessions.Submit(ctx, sessionCreate(strPtr("u1"), p.score, p.gameTime, p.collision), Provenance{}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	prof, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	got := [7]int{prof.GamesPlayed, prof.TotalScore, prof.HighestScore, prof.TotalTime,
		prof.ApplesEaten, prof.WallCollisions, prof.SelfCollisions}
	want := [7]int{4, 40, 25, 90, 40, 2, 1}
	if got != want {
		t.Errorf("counters = %v, want %v", got, want)
	}
}

func TestProfileMissingBeforeFirstSession(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)
	newTestUser(t, db, "u1")

	if _, err := profiles.Get(context.Background(), "u1"); !IsNotFound(err) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}

	rec, err := profiles.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if rec.Difficulty != nil || len(rec.PracticeAreas) != 0 || rec.PracticeAreas == nil {
		t.Errorf("Recommendations() = %+v, want empty advice", rec)
	}
}

func TestApplyAnalysis(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)
	sessions := NewGameSessionService(db, profiles)
	ctx := context.Background()
	newTestUser(t, db, "u1")

	if _, err := sessions.Submit(ctx, sessionCreate(strPtr("u1"), 8, 20, nil), Provenance{}); err != nil {
		t.Fatal(err)
	}

	a, err := schemas.DecodeProfileAnalysis([]byte(`{"player_style": "cautious", "style_confidence": 0.6,
		"preferred_difficulty": "HARD", "skill_level": "intermediate",
		"practice_areas": ["corners", "long snakes"], "suggested_techniques": ["hug the walls"]}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := profiles.ApplyAnalysis(ctx, "u1", a); err != nil {
		t.Fatalf("ApplyAnalysis() error = %v", err)
	}

	// A second analysis touching only the style keeps the rest.
	b, _ := schemas.DecodeProfileAnalysis([]byte(`{"player_style": "strategic", "skill_level": "advanced"}`))
	if _, err := profiles.ApplyAnalysis(ctx, "u1", b); err != nil {
		t.Fatalf("ApplyAnalysis() error = %v", err)
	}

	prof, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if prof.PlayerStyle == nil || *prof.PlayerStyle != models.StyleStrategic {
		t.Errorf("PlayerStyle = %v, want strategic", prof.PlayerStyle)
	}
	if prof.StyleConfidence != 0.6 {
		t.Errorf("StyleConfidence = %v, want 0.6", prof.StyleConfidence)
	}
	if len(prof.SkillProgression) != 2 ||
		prof.SkillProgression[0].SkillLevel != models.SkillIntermediate ||
		prof.SkillProgression[1].SkillLevel != models.SkillAdvanced {
		t.Errorf("SkillProgression = %+v", prof.SkillProgression)
	}
	if prof.GamesPlayed != 1 || prof.TotalScore != 8 {
		t.Errorf("analysis changed counters: %+v", prof)
	}

	rec, err := profiles.Recommendations(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Difficulty == nil || *rec.Difficulty != models.DifficultyHard {
		t.Errorf("Difficulty = %v, want HARD", rec.Difficulty)
	}
	if !reflect.DeepEqual(rec.PracticeAreas, []string{"corners", "long snakes"}) {
		t.Errorf("PracticeAreas = %v", rec.PracticeAreas)
	}
	if !reflect.DeepEqual(rec.SuggestedTechniques, []string{"hug the walls"}) {
		t.Errorf("SuggestedTechniques = %v", rec.SuggestedTechniques)
	}
}

func TestApplyAnalysisErrors(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)
	ctx := context.Background()

	bad := 1.2
	_, err := profiles.ApplyAnalysis(ctx, "u1", &schemas.ProfileAnalysis{StyleConfidence: &bad})
	var verrs schemas.ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has("style_confidence") {
		t.Errorf("ApplyAnalysis(confidence 1.2) error = %v, want style_confidence error", err)
	}

	_, err = profiles.ApplyAnalysis(ctx, "nobody", &schemas.ProfileAnalysis{})
	if !IsNotFound(err) {
		t.Errorf("ApplyAnalysis(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestReconcile(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)
	sessions := NewGameSessionService(db, profiles)
	ctx := context.Background()
	newTestUser(t, db, "drifted")
	newTestUser(t, db, "clean")

	for _, uid := range []string{"drifted", "clean"} {
		for _, score := range []int{3, 9} {
			if _, err := sessions.Submit(ctx, sessionCreate(strPtr(uid), score, 10, collisionPtr(models.CollisionWall)), Provenance{}); err != nil {
				t.Fatal(err)
			}
		}
	}

	// Simulate an out-of-band write that left the counters wrong.
	if err := db.Model(&models.PlayerProfile{}).Where("user_id = ?", "drifted").
		Updates(map[string]interface{}{"games_played": 7, "highest_score": 100}).Error; err != nil {
		t.Fatal(err)
	}

	fixed, err := profiles.Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if fixed != 1 {
		t.Errorf("Reconcile() fixed %d profiles, want 1", fixed)
	}

	prof, err := profiles.Get(ctx, "drifted")
	if err != nil {
		t.Fatal(err)
	}
	if prof.GamesPlayed != 2 || prof.HighestScore != 9 || prof.TotalScore != 12 || prof.WallCollisions != 2 {
		t.Errorf("reconciled profile = %+v", prof)
	}

	fixed, err = profiles.Reconcile(ctx)
	if err != nil || fixed != 0 {
		t.Errorf("second Reconcile() = %d, %v, want 0, nil", fixed, err)
	}
}

func TestFirstSessionWhenProfileAppearsConcurrently(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)
	sessions := NewGameSessionService(db, profiles)
	ctx := context.Background()
	newTestUser(t, db, "u1")

	// Another first session commits its profile just before ours is inserted.
	inserted := false
	if err := db.Callback().Create().Before("gorm:create").Register("test:rival_profile", func(d *gorm.DB) {
		if inserted || d.Statement.Table != "playerprofile" {
			return
		}
		inserted = true
		rival := &models.PlayerProfile{UserID: "u1", GamesPlayed: 1, TotalScore: 4, HighestScore: 4, ApplesEaten: 4}
		if err := d.Session(&gorm.Session{NewDB: true}).Create(rival).Error; err != nil {
			d.AddError(err)
		}
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := sessions.Submit(ctx, sessionCreate(strPtr("u1"), 6, 10, nil), Provenance{}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !inserted {
		t.Fatal("profile insert never ran")
	}

	prof, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if prof.GamesPlayed != 2 || prof.TotalScore != 10 || prof.HighestScore != 6 {
		t.Errorf("counters = %d/%d/%d, want 2/10/6", prof.GamesPlayed, prof.TotalScore, prof.HighestScore)
	}
}

func TestApplyAnalysisKeepsConcurrentCounters(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)
	sessions := NewGameSessionService(db, profiles)
	ctx := context.Background()
	newTestUser(t, db, "u1")

	if _, err := sessions.Submit(ctx, sessionCreate(strPtr("u1"), 8, 20, nil), Provenance{}); err != nil {
		t.Fatal(err)
	}

	// A session lands between the analysis reading the profile and writing it.
	bumped := false
	if err := db.Callback().Update().Before("gorm:update").Register("test:concurrent_session", func(d *gorm.DB) {
		if bumped || d.Statement.Table != "playerprofile" {
			return
		}
		bumped = true
		if err := d.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE playerprofile SET games_played = games_played + 1, total_score = total_score + 5 WHERE user_id = ?", "u1").Error; err != nil {
			d.AddError(err)
		}
	}); err != nil {
		t.Fatal(err)
	}

	a, _ := schemas.DecodeProfileAnalysis([]byte(`{"player_style": "aggressive", "practice_areas": ["turns"]}`))
	if _, err := profiles.ApplyAnalysis(ctx, "u1", a); err != nil {
		t.Fatalf("ApplyAnalysis() error = %v", err)
	}
	if !bumped {
		t.Fatal("profile update never ran")
	}

	prof, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if prof.GamesPlayed != 2 || prof.TotalScore != 13 {
		t.Errorf("counters = %d/%d, want 2/13", prof.GamesPlayed, prof.TotalScore)
	}
	if prof.PlayerStyle == nil || *prof.PlayerStyle != models.StyleAggressive {
		t.Errorf("PlayerStyle = %v, want aggressive", prof.PlayerStyle)
	}
	if !reflect.DeepEqual([]string(prof.PracticeAreas), []string{"turns"}) {
		t.Errorf("PracticeAreas = %v, want [turns]", prof.PracticeAreas)
	}
}

func TestConcurrentSubmitsCountEveryGame(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)
	sessions := NewGameSessionService(db, profiles)
	ctx := context.Background()
	newTestUser(t, db, "u1")

	const games = 8
	var wg sync.WaitGroup
	errs := make(chan error, games)
	for i := 1; i <= games; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := sessions.Submit(ctx, sessionCreate(strPtr("u1"), score, 10, nil), Provenance{})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Submit() error = %v", err)
		}
	}

	prof, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if prof.GamesPlayed != games || prof.TotalScore != 36 || prof.HighestScore != games {
		t.Errorf("counters = %d/%d/%d, want %d/36/%d", prof.GamesPlayed, prof.TotalScore, prof.HighestScore, games, games)
	}
}

func TestNewProfileListsAreEmptyNotNull(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileService(db)
	sessions := NewGameSessionService(db, profiles)
	ctx := context.Background()
	newTestUser(t, db, "u1")

	if _, err := sessions.Submit(ctx, sessionCreate(strPtr("u1"), 1, 5, nil), Provenance{}); err != nil {
		t.Fatal(err)
	}
	prof, err := profiles.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}

	body, err := json.Marshal(prof)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"skill_progression", "practice_areas", "suggested_techniques"} {
		if string(got[field]) != "[]" {
			t.Errorf("%s = %s, want []", field, got[field])
		}
	}
}
