// handlers/respond.go
package handlers

import (
	"errors"
	"log"

	"snake-analytics/schemas"
	"snake-analytics/services"

	"github.com/gofiber/fiber/v2"
)

// fail writes err as a rejected envelope. Storage details are logged, never
// sent to the client.
func fail(c *fiber.Ctx, err error) error {
	var verrs schemas.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(schemas.Rejected(verrs.Error()))
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(schemas.Rejected("not found"))
	case errors.Is(err, services.ErrUnknownUser):
		return c.Status(fiber.StatusConflict).JSON(schemas.Rejected("unknown user"))
	case errors.Is(err, services.ErrInsightExists):
		return c.Status(fiber.StatusConflict).JSON(schemas.Rejected(services.ErrInsightExists.Error()))
	}

	log.Printf("❌ [%s %s] %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(schemas.Rejected("internal error"))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
