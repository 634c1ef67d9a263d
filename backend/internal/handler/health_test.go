package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/itchan-dev/attachstore/shared/config"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	handler := &Handler{cfg: &config.Config{}, health: &MockHealthChecker{}}
	rr := httptest.NewRecorder()

	handler.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestReady(t *testing.T) {
	t.Run("returns 200 OK when dependencies answer", func(t *testing.T) {
		handler := &Handler{cfg: &config.Config{}, health: &MockHealthChecker{}}
		rr := httptest.NewRecorder()

		handler.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ok", rr.Body.String())
	})

	t.Run("returns 503 when a dependency is down", func(t *testing.T) {
		health := &MockHealthChecker{PingFunc: func(ctx context.Context) error {
			return errors.New("connection refused")
		}}
		handler := &Handler{cfg: &config.Config{}, health: health}
		rr := httptest.NewRecorder()

		handler.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "dependencies unavailable", rr.Body.String())
	})

	t.Run("passes a deadline to the check", func(t *testing.T) {
		health := &MockHealthChecker{PingFunc: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		}}
		handler := &Handler{cfg: &config.Config{}, health: health}

		handler.Ready(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ready", nil))
	})
}
