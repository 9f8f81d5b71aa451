package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edulearn/backend/config"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testCfg = &config.Config{JWT: config.JWTConfig{Secret: "testsecret", ExpiresIn: time.Hour}}

func newApp(logger *utils.Logger, metrics *Metrics) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler(utils.NewNopLogger())})
	app.Use(LoggingMiddleware(logger))
	if metrics != nil {
		app.Use(metrics.Handler())
	}
	app.Get("/me", Protect(testCfg), func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return utils.Internal("identity missing", nil)
		}
		fromCtx, ok := IdentityFromContext(c.UserContext())
		if !ok || fromCtx.ID != identity.ID {
			return utils.Internal("context identity mismatch", nil)
		}
		return utils.OK(c, identity)
	})
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return utils.NotFound("Item not found.")
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestProtect(t *testing.T) {
	app := newApp(utils.NewNopLogger(), nil)
	identity := utils.Identity{ID: "t-1", Email: "a@x.com", Role: "TEACHER"}
	token, err := utils.GenerateJWTToken(identity, testCfg)
	require.NoError(t, err)

	cases := []struct {
		name   string
		auth   string
		status int
		code   string
	}{
		{"Missing", "", http.StatusUnauthorized, utils.CodeUnauthenticated},
		{"EmptyBearer", "Bearer ", http.StatusUnauthorized, utils.CodeUnauthenticated},
		{"Invalid", "Bearer nope", http.StatusUnauthorized, utils.CodeInvalidToken},
		{"Valid", "Bearer " + token, http.StatusOK, ""},
		{"BareToken", token, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, app, "/me", tc.auth)
			assert.Equal(t, tc.status, resp.StatusCode)

			if tc.code != "" {
				var body utils.ErrorResponse
				require.NoError(t, decode(resp, &body))
				assert.Equal(t, tc.code, body.Code)
				return
			}
			var got utils.Identity
			require.NoError(t, decode(resp, &got))
			assert.Equal(t, identity, got)
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := newApp(&utils.Logger{SugaredLogger: zap.New(core).Sugar()}, nil)

	resp := get(t, app, "/items/42", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
	assert.Equal(t, "/items/42", fields["path"])
	assert.NotContains(t, fields, "identity_id")

	token, err := utils.GenerateJWTToken(utils.Identity{ID: "t-9", Role: "TEACHER"}, testCfg)
	require.NoError(t, err)
	resp = get(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	entries = logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	fields = entries[1].ContextMap()
	assert.Equal(t, "t-9", fields["identity_id"])
	assert.Equal(t, http.MethodGet, fields["method"])
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	app := newApp(utils.NewNopLogger(), metrics)

	get(t, app, "/items/1", "")
	get(t, app, "/items/2", "")
	get(t, app, "/me", "")

	assert.Equal(t, 2.0, requestCount(t, reg, "/items/:id", "404"))
	assert.Equal(t, 1.0, requestCount(t, reg, "/me", "401"))
	assert.Zero(t, requestCount(t, reg, "/items/1", "404"))
}

func requestCount(t *testing.T, reg *prometheus.Registry, route, status string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "edulearn_http_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["route"] == route && labels["status"] == status {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}
