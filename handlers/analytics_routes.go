// handlers/analytics_routes.go
package handlers

import (
	"snake-analytics/middleware"
	"snake-analytics/schemas"
	"snake-analytics/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAnalyticsRoutes(router fiber.Router, insightService *services.InsightService, profileService *services.ProfileService) {
	// 🧠 Insights are written once by the analytics generator and polled by the client.
	router.Get("/ai-insights/:session_id", func(c *fiber.Ctx) error {
		insight, err := insightService.GetBySession(c.UserContext(), c.Params("session_id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(insight)
	})

	router.Post("/ai-insights/:session_id", func(c *fiber.Ctx) error {
		in, err := schemas.DecodeAIInsightCreate(c.Body())
		if err != nil {
			return fail(c, err)
		}
		insight, err := insightService.Record(c.UserContext(), c.Params("session_id"), in)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(insight)
	})

	// 📊 Profiles
	router.Get("/users/:user_id/profile", func(c *fiber.Ctx) error {
		prof, err := profileService.Get(c.UserContext(), c.Params("user_id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(prof)
	})

	router.Put("/users/:user_id/profile/analysis", func(c *fiber.Ctx) error {
		a, err := schemas.DecodeProfileAnalysis(c.Body())
		if err != nil {
			return fail(c, err)
		}
		prof, err := profileService.ApplyAnalysis(c.UserContext(), c.Params("user_id"), a)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(prof)
	})

	recommendations := func(c *fiber.Ctx, userID string) error {
		if userID == "" {
			return fail(c, schemas.ValidationErrors{{Field: "user_id", Message: "field required"}})
		}
		rec, err := profileService.Recommendations(c.UserContext(), userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(rec)
	}

	router.Get("/users/:user_id/recommendations", func(c *fiber.Ctx) error {
		return recommendations(c, c.Params("user_id"))
	})

	// Falls back to the gateway user when no user_id is given.
	router.Get("/personalized-recommendations", func(c *fiber.Ctx) error {
		userID := c.Query("user_id")
		if userID == "" {
			userID = middleware.UserID(c)
		}
		return recommendations(c, userID)
	})
}
