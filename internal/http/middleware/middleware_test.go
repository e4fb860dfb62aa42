package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/auth"
)

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		return c.SendString(rid)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	echoed := resp.Header.Get(RequestIDHeader)
	require.NotEmpty(t, echoed)
	_, err = uuid.Parse(echoed)
	assert.NoError(t, err)
}

func TestRequestIDPreservesIncoming(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "caller-supplied", resp.Header.Get(RequestIDHeader))
}

func TestLoggerEmitsOneJSONLine(t *testing.T) {
	var buf bytes.Buffer

	app := fiber.New()
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf))
	app.Get("/api/v1/:model", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/person", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/v1/person", entry["path"])
	assert.Equal(t, "person", entry["model"])
	assert.Equal(t, float64(fiber.StatusOK), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
	assert.Contains(t, entry, "latency")
}

func TestCORSPreflight(t *testing.T) {
	app := fiber.New()
	app.Use(CORS())
	app.Post("/api/v1/person", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(fiber.MethodOptions, "/api/v1/person", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://app.example.com")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Preflight stops here with a plain 200; the route never runs.
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowHeaders), "Authorization")
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowMethods), "DELETE")
}

func TestCORSHeadersOnNormalRequests(t *testing.T) {
	app := fiber.New()
	app.Use(CORS())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}

func TestAuthenticateRejectsWithoutBearer(t *testing.T) {
	// Empty key set: any presented token fails verification anyway.
	authn := auth.NewTokenAuthenticatorWithKeys("https://issuer.example.com/", "aud",
		func(ctx context.Context) (jwk.Set, error) { return jwk.NewSet(), nil })

	app := fiber.New()
	app.Use(Authenticate(authn))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header"},
		{name: "not a bearer scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "bearer with unverifiable token", header: "Bearer abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "Missing or invalid token", body["message"])
		})
	}
}

func TestIdentityFromCtxWithoutAuthentication(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Nil(t, IdentityFromCtx(c))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
}
