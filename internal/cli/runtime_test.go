package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/logstate/internal/config"
	"github.com/aretw0/logstate/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime_MetricsExposed(t *testing.T) {
	cfg := config.Default()
	rt, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	handler, err := rt.Handler()
	require.NoError(t, err)

	_, err = rt.Controller.Start("/m")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "logstate_calls 1")
	assert.Contains(t, body, "logstate_active 1")
	assert.Contains(t, body, `logstate_operations_total{operation="start",success="true"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRuntime_MetricsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = false
	rt, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, rt.Registry)

	handler, err := rt.Handler()
	require.NoError(t, err)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRuntime_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	rt, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, rt.Publisher)
	assert.NoError(t, rt.Close())
}

func TestRuntime_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Redis.Addr = addr
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = NewRuntime(ctx, cfg, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connecting to redis")
}

func TestServe_GracefulShutdown(t *testing.T) {
	rt, err := NewRuntime(context.Background(), config.Default(), logging.NewNop())
	require.NoError(t, err)
	handler, err := rt.Handler()
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, handler, time.Second, logging.NewNop())
	}()

	resp, err := http.Post("http://"+ln.Addr().String()+"/start", "application/json", strings.NewReader(`{"path":"/srv"}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"path":"/srv"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
