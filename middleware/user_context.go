// middleware/user_context.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserIDLocal is the fiber.Ctx locals key holding the gateway-supplied user id.
const UserIDLocal = "user_id"

// UserContextMiddleware picks up the user identity forwarded by an upstream
// gateway in X-User-ID. Nothing is authenticated here; a missing header
// leaves the request anonymous.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		c.Locals(UserIDLocal, userID)

		if userID != "" {
			log.Printf("👤 [USER_CTX] UserID=%s | Path: %s", userID, c.Path())
		}
		return c.Next()
	}
}

// UserID returns the gateway-supplied user id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocal).(string)
	return id
}
