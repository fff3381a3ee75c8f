package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ReadyGate(t *testing.T) {
	s := New()
	assert.False(t, s.IsReady(), "starts not-ready")

	s.SetReady(true)
	assert.True(t, s.IsReady())

	s.SetReady(false)
	assert.False(t, s.IsReady())
}

func TestService_ReadinessCheckFailureBlocksReady(t *testing.T) {
	s := New()
	s.SetReady(true)

	var healthy atomic.Bool
	s.AddReadinessCheck("upstream", time.Second, func(context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("upstream unreachable")
	})

	s.Start(context.Background(), 10*time.Millisecond)
	defer s.Stop()

	require.Eventually(t, func() bool { return !s.IsReady() }, time.Second, 5*time.Millisecond)

	healthy.Store(true)
	require.Eventually(t, s.IsReady, time.Second, 5*time.Millisecond)
}

func TestService_Endpoints(t *testing.T) {
	s := New()
	s.AddLivenessCheck("goroutines", time.Second, func(context.Context) error { return nil })
	s.AddReadinessCheck("upstream", time.Second, func(context.Context) error {
		return errors.New("upstream unreachable")
	})

	s.Start(context.Background(), 10*time.Millisecond)
	defer s.Stop()
	s.SetReady(true)

	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		s.ReadyEndpoint(rec, nil)
		return rec.Code == http.StatusServiceUnavailable
	}, time.Second, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	s.ReadyEndpoint(rec, nil)
	assert.Contains(t, rec.Body.String(), "upstream unreachable")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	s.LiveEndpoint(rec, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"goroutines":"ok"`)
}

func TestService_NotReadyEndpointBeforeSetReady(t *testing.T) {
	s := New()
	rec := httptest.NewRecorder()
	s.ReadyEndpoint(rec, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unavailable")
}

func TestGoroutineCountCheck(t *testing.T) {
	ok := GoroutineCountCheck(1 << 20)
	assert.NoError(t, ok(context.Background()))

	tight := GoroutineCountCheck(0)
	assert.Error(t, tight(context.Background()))
}
