package sec

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

const ModeratorKey = "isModerator"

// MaybeAuthMiddleware marks the request as moderator when it carries the
// configured admin bearer token. Everything downstream only ever sees the
// boolean; there is no identity beyond "moderator or not".
func MaybeAuthMiddleware(c *fiber.Ctx) error {
	token := viper.GetString("security.admin_token")
	header := c.Get(fiber.HeaderAuthorization)

	if len(token) > 0 && strings.HasPrefix(header, "Bearer ") {
		presented := strings.TrimPrefix(header, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1 {
			c.Locals(ModeratorKey, true)
		}
	}

	return c.Next()
}

func IsModerator(c *fiber.Ctx) bool {
	val, ok := c.Locals(ModeratorKey).(bool)
	return ok && val
}

// EnsureModerator guards the moderation surface.
func EnsureModerator(c *fiber.Ctx) error {
	if !IsModerator(c) {
		return fiber.NewError(fiber.StatusUnauthorized, "moderator access required")
	}
	return nil
}
