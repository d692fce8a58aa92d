// handlers/health.go
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupHealthRoutes(router fiber.Router, db *gorm.DB, modelDir string) {
	router.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		dbStatus := "ok"

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			status = fiber.StatusServiceUnavailable
			dbStatus = "unreachable"
		}

		return c.Status(status).JSON(fiber.Map{
			"status":    healthLabel(status),
			"database":  dbStatus,
			"model_dir": modelDir,
		})
	})
}

func healthLabel(status int) string {
	if status == fiber.StatusOK {
		return "ok"
	}
	return "degraded"
}
