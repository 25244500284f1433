package middleware

import "github.com/gofiber/fiber/v2"

// APIModeKey is the Locals key marking a request as machine-facing.
const APIModeKey = "api_mode"

// APIMode marks every route in a group as machine-facing: business
// failures come back as structured {error: {kind, message}} payloads
// instead of user-facing notices. The flag is always set explicitly
// at route registration, never inferred from the request.
func APIMode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(APIModeKey, true)
		return c.Next()
	}
}
