package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(RequestLogger(zap.New(core).Sugar()))
	app.Get("/ok/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNotFound) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusInternalServerError, "boom") })

	for _, path := range []string{"/ok/s1", "/missing", "/boom"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, "s1", entries[0].ContextMap()["resource_id"])
	require.Equal(t, "/ok/:id", entries[0].ContextMap()["route"])
	require.NotEmpty(t, entries[0].ContextMap()["request_id"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	require.EqualValues(t, http.StatusInternalServerError, entries[2].ContextMap()["status"])
}

func TestCORSAllowList(t *testing.T) {
	app := fiber.New()
	app.Use(CORS([]string{"http://localhost:3000"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:3000")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "http://localhost:3000", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://evil.test")
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}
