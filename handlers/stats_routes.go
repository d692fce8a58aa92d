// handlers/stats_routes.go
package handlers

import (
	"snake-analytics/middleware"
	"snake-analytics/schemas"
	"snake-analytics/services"

	"github.com/gofiber/fiber/v2"
)

func SetupStatsRoutes(router fiber.Router, statsService *services.StatsService) {
	// 📈 The client's cumulative stats, queued for the analytics process.
	router.Post("/stats-analysis", func(c *fiber.Ctx) error {
		in, err := schemas.DecodeStatsAnalysisCreate(c.Body())
		if err != nil {
			return fail(c, err)
		}
		userID := c.Query("user_id")
		if userID == "" {
			userID = middleware.UserID(c)
		}

		snap, err := statsService.Submit(c.UserContext(), in, optional(userID), services.Provenance{
			ClientIP:  optional(c.IP()),
			UserAgent: optional(c.Get(fiber.HeaderUserAgent)),
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(schemas.StatsAnalysisAccepted{Success: true, ID: snap.ID})
	})

	router.Get("/stats-analysis/:id", func(c *fiber.Ctx) error {
		snap, err := statsService.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(snap)
	})
}
