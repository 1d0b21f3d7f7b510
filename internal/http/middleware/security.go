package middleware

import "github.com/gofiber/fiber/v2"

// SecurityHeaders sets the Content-Security-Policy of every response and disables mime sniffing.
// An empty csp leaves the policy header unset.
func SecurityHeaders(csp string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if csp != "" {
			c.Set(fiber.HeaderContentSecurityPolicy, csp)
		}
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		return c.Next()
	}
}
