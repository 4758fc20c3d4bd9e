// Package rayid assigns every request a ray id for log correlation.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the ray id on requests and responses.
const Header = "X-Ray-ID"

// LocalKey is the fiber local holding the ray id.
const LocalKey = "ray_id"

// New returns middleware that reuses an incoming ray id or generates one,
// stores it in the request locals and echoes it in the response header.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalKey, id)
		c.Set(Header, id)
		return c.Next()
	}
}
