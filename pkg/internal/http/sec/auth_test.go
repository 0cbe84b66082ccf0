package sec_test

import (
	"net/http/httptest"
	"testing"

	"github.com/adtechademy/wall/pkg/internal/http/sec"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedApp() *fiber.App {
	app := fiber.New()
	app.Use(sec.MaybeAuthMiddleware)
	app.Get("/guarded", func(c *fiber.Ctx) error {
		if err := sec.EnsureModerator(c); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestEnsureModeratorAcceptsConfiguredToken(t *testing.T) {
	viper.Set("security.admin_token", "super-secret")
	defer viper.Set("security.admin_token", "")

	app := newGuardedApp()

	req := httptest.NewRequest(fiber.MethodGet, "/guarded", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer super-secret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestEnsureModeratorRejectsBadOrMissingToken(t *testing.T) {
	viper.Set("security.admin_token", "super-secret")
	defer viper.Set("security.admin_token", "")

	app := newGuardedApp()

	for _, header := range []string{"", "Bearer wrong", "super-secret", "Basic super-secret"} {
		req := httptest.NewRequest(fiber.MethodGet, "/guarded", nil)
		if len(header) > 0 {
			req.Header.Set(fiber.HeaderAuthorization, header)
		}

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestEnsureModeratorRejectsWhenNoTokenConfigured(t *testing.T) {
	viper.Set("security.admin_token", "")

	app := newGuardedApp()

	// An empty configured token must never grant access to an empty bearer.
	req := httptest.NewRequest(fiber.MethodGet, "/guarded", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer ")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
