package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"StanceTimer/timer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector turns session events into Prometheus metrics.
type Collector struct {
	Registry *prometheus.Registry

	SessionsStarted prometheus.Counter
	Cycles          *prometheus.CounterVec
	NotifyErrors    prometheus.Counter
	SessionRunning  prometheus.Gauge
}

// NewCollector creates and registers all metrics on a private registry.
func NewCollector() *Collector {
	c := &Collector{Registry: prometheus.NewRegistry()}

	c.SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stancetimer_sessions_started_total",
			Help: "Total number of sessions started",
		},
	)

	c.Cycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stancetimer_cycles_total",
			Help: "Total number of finished cycles",
		},
		[]string{"stance", "result"},
	)

	c.NotifyErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stancetimer_notify_errors_total",
			Help: "Total number of failed reminder notifications",
		},
	)

	c.SessionRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stancetimer_session_running",
			Help: "1 while a session is running, 0 otherwise",
		},
	)

	c.Registry.MustRegister(c.SessionsStarted, c.Cycles, c.NotifyErrors, c.SessionRunning)
	return c
}

// Observe records a single session event.
func (c *Collector) Observe(ev timer.Event) {
	switch ev.Kind {
	case timer.EventSessionStarted:
		c.SessionsStarted.Inc()
		c.SessionRunning.Set(1)
	case timer.EventCycleFinished:
		c.Cycles.WithLabelValues(ev.Stance.String(), ev.Result.String()).Inc()
	case timer.EventNotifyFailed:
		c.NotifyErrors.Inc()
	case timer.EventSessionStopped:
		c.SessionRunning.Set(0)
	}
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
