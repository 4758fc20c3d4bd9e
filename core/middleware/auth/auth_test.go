package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/runs", func(c *fiber.Ctx) error { return c.SendString("runs") })
	return app
}

func TestAuth(t *testing.T) {
	app := setupApp(Config{ApiKey: "secret", Public: []string{"/health"}})

	tests := []struct {
		name   string
		path   string
		header string
		value  string
		want   int
	}{
		{"Public path", "/health", "", "", fiber.StatusOK},
		{"Missing key", "/runs", "", "", fiber.StatusUnauthorized},
		{"Wrong key", "/runs", Header, "nope", fiber.StatusUnauthorized},
		{"Header key", "/runs", Header, "secret", fiber.StatusOK},
		{"Bearer key", "/runs", fiber.HeaderAuthorization, "Bearer secret", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuth_Disabled(t *testing.T) {
	resp, err := setupApp(Config{}).Test(httptest.NewRequest("GET", "/runs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
