package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signin-screen/internal/config"
	"signin-screen/internal/container"
	"signin-screen/pkg/logger"
)

func newTestContainer(t *testing.T, redisURL string) *container.Container {
	t.Helper()
	c, err := container.New(&config.Config{
		BaseURL:           "http://localhost:8080",
		Environment:       "test",
		GoogleClientID:    "test-client-id",
		SignInFlowTimeout: time.Minute,
		RedisURL:          redisURL,
	}, logger.Nop())
	require.NoError(t, err)
	if c.RedisClient != nil {
		t.Cleanup(func() { _ = c.RedisClient.Close() })
	}
	return c
}

func checkHealth(t *testing.T, c *container.Container) HealthResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	NewHealthHandler(c).Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthHandler_Check(t *testing.T) {
	t.Run("without redis", func(t *testing.T) {
		resp := checkHealth(t, newTestContainer(t, ""))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "signin-screen", resp.Service)
		assert.False(t, resp.SignedIn)
		assert.Equal(t, "disabled", resp.Checks["redis"])
	})

	t.Run("with redis up", func(t *testing.T) {
		mr := miniredis.RunT(t)
		resp := checkHealth(t, newTestContainer(t, "redis://"+mr.Addr()))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "up", resp.Checks["redis"])
	})

	t.Run("with redis down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c := newTestContainer(t, "redis://"+mr.Addr())
		mr.Close()

		resp := checkHealth(t, c)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "down", resp.Checks["redis"])
	})
}
