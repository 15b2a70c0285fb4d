package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"StanceTimer/timer"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	c := NewCollector()

	c.Observe(timer.Event{Kind: timer.EventSessionStarted, Stance: timer.Sitting})
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SessionRunning))

	c.Observe(timer.Event{Kind: timer.EventCycleFinished, Stance: timer.Sitting, Result: timer.Completed})
	c.Observe(timer.Event{Kind: timer.EventCycleFinished, Stance: timer.Standing, Result: timer.Skipped})
	c.Observe(timer.Event{Kind: timer.EventCycleFinished, Stance: timer.Sitting, Result: timer.Completed})
	c.Observe(timer.Event{Kind: timer.EventNotifyFailed, Err: errors.New("boom")})
	c.Observe(timer.Event{Kind: timer.EventSessionStopped})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.SessionsStarted))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Cycles.WithLabelValues("Sitting", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Cycles.WithLabelValues("Standing", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.NotifyErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.SessionRunning))
}

func TestServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	c := NewCollector()
	c.Observe(timer.Event{Kind: timer.EventSessionStarted})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Serve(ctx, addr) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)
	assert.True(t, strings.Contains(body, "stancetimer_sessions_started_total 1"))

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("metrics server did not shut down")
	}
}
