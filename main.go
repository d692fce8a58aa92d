package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snake-analytics/config"
	"snake-analytics/handlers"
	"snake-analytics/services"
	"snake-analytics/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := utils.OpenDatabase(cfg)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}
	if err := utils.Migrate(db); err != nil {
		log.Fatal("failed to migrate database: ", err)
	}

	modelDir, err := utils.ResolveModelPath(ctx, cfg)
	if err != nil {
		log.Fatal("failed to resolve model path: ", err)
	}

	profileService := services.NewProfileService(db)
	sessionService := services.NewGameSessionService(db, profileService)
	insightService := services.NewInsightService(db)
	statsService := services.NewStatsService(db)

	reconciler, err := profileService.StartProfileReconciler(cfg.ProfileReconcileInterval)
	if err != nil {
		log.Fatal("failed to start profile reconciler: ", err)
	}

	app := handlers.NewApp(cfg, handlers.Deps{
		DB:       db,
		Sessions: sessionService,
		Profiles: profileService,
		Insights: insightService,
		Stats:    statsService,
		ModelDir: modelDir,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s%s", cfg.Port, cfg.APIV1Str)
	log.Printf("✅ Profile reconciler running (every %s)", cfg.ProfileReconcileInterval)
	if len(cfg.BackendCORSOrigins) > 0 {
		log.Printf("✅ CORS configured for origins: %v", cfg.BackendCORSOrigins)
	}

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := reconciler.Shutdown(); err != nil {
		log.Printf("Reconciler shutdown error: %v", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("👋 Bye")
}
