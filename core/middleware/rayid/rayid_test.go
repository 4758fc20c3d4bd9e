package rayid

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayID(t *testing.T) {
	app := fiber.New()
	app.Use(New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalKey).(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(resp.Header.Get(Header))
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(Header, "given")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "given", resp.Header.Get(Header))
}
