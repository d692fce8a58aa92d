// handlers/app.go
package handlers

import (
	"strings"

	"snake-analytics/config"
	"snake-analytics/middleware"
	"snake-analytics/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs from the rest of the process.
type Deps struct {
	DB       *gorm.DB
	Sessions *services.GameSessionService
	Profiles *services.ProfileService
	Insights *services.InsightService
	Stats    *services.StatsService
	ModelDir string
}

// NewApp builds the fiber app with every route mounted under the API prefix.
func NewApp(cfg *config.Settings, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "snake-analytics",
		BodyLimit: 1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// CORS is only enabled when origins are configured.
	if len(cfg.BackendCORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.BackendCORSOrigins, ","),
			AllowMethods:     "GET,POST,PUT,OPTIONS",
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-User-ID",
			AllowCredentials: true,
			MaxAge:           86400,
		}))
	}

	api := app.Group(cfg.APIV1Str, middleware.UserContextMiddleware())

	SetupHealthRoutes(api, deps.DB, deps.ModelDir)
	SetupGameSessionRoutes(api, deps.Sessions)
	SetupAnalyticsRoutes(api, deps.Insights, deps.Profiles)
	SetupStatsRoutes(api, deps.Stats)

	return app
}
