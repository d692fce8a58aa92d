// handlers/game_sessions.go
package handlers

import (
	"snake-analytics/middleware"
	"snake-analytics/schemas"
	"snake-analytics/services"

	"github.com/gofiber/fiber/v2"
)

func SetupGameSessionRoutes(router fiber.Router, sessionService *services.GameSessionService) {
	// Submission always answers with the success/error envelope.
	router.Post("/game-sessions", func(c *fiber.Ctx) error {
		in, err := schemas.DecodeGameSessionCreate(c.Body())
		if err != nil {
			return fail(c, err)
		}
		if in.UserID == nil {
			in.UserID = optional(middleware.UserID(c))
		}

		session, err := sessionService.Submit(c.UserContext(), in, services.Provenance{
			ClientIP:  optional(c.IP()),
			UserAgent: optional(c.Get(fiber.HeaderUserAgent)),
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(schemas.Accepted(session.ID))
	})

	router.Get("/game-sessions/:id", func(c *fiber.Ctx) error {
		session, err := sessionService.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(schemas.FromModel(session))
	})

	router.Get("/users/:user_id/game-sessions", func(c *fiber.Ctx) error {
		sessions, err := sessionService.ListByUser(c.UserContext(), c.Params("user_id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(schemas.FromModels(sessions))
	})
}
