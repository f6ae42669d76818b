// Package metrics provides Prometheus metrics for the scoreboard server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every scoreboard metric. All methods are safe to call on a
// nil *Manager, which records nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Board lifecycle
	boardsCreated prometheus.Counter
	boardsReaped  prometheus.Counter
	activeBoards  prometheus.Gauge

	// Roster
	playersAdded   prometheus.Counter
	playersRemoved prometheus.Counter
	scoreChanges   *prometheus.CounterVec
	rejectedAdds   prometheus.Counter

	// Stopwatch
	stopwatchTransitions *prometheus.CounterVec
	stopwatchTicks       prometheus.Counter
	runnersMounted       prometheus.Gauge

	// Push
	sseClients prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Without WithRegistry a fresh
// registry is used so collectors never clash across managers.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scoreboard",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.boardsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "boards_created_total",
		Help:      "Total number of boards created",
	})
	m.boardsReaped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "boards_reaped_total",
		Help:      "Total number of boards removed after going idle",
	})
	m.activeBoards = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "boards_active",
		Help:      "Number of boards currently held in memory",
	})

	m.playersAdded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "roster",
		Name:      "players_added_total",
		Help:      "Total number of players added",
	})
	m.playersRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "roster",
		Name:      "players_removed_total",
		Help:      "Total number of players removed",
	})
	m.scoreChanges = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "roster",
		Name:      "score_changes_total",
		Help:      "Total number of score changes by direction",
	}, []string{"direction"})
	m.rejectedAdds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "roster",
		Name:      "rejected_adds_total",
		Help:      "Total number of add-player requests rejected for a blank name",
	})

	m.stopwatchTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "stopwatch",
		Name:      "transitions_total",
		Help:      "Total number of stopwatch start, stop and reset operations",
	}, []string{"action"})
	m.stopwatchTicks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "stopwatch",
		Name:      "ticks_total",
		Help:      "Total number of ticks applied to running stopwatches",
	})
	m.runnersMounted = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "stopwatch",
		Name:      "runners_mounted",
		Help:      "Number of tick runners currently mounted",
	})

	m.sseClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "sse",
		Name:      "clients_connected",
		Help:      "Number of connected SSE clients",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"method"})
}

// Handler serves the registry in the Prometheus text format
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// BoardCreated records a new board
func (m *Manager) BoardCreated() {
	if m == nil {
		return
	}
	m.boardsCreated.Inc()
	m.activeBoards.Inc()
}

// BoardRemoved records a board leaving memory. reaped is true when the
// janitor removed it for inactivity.
func (m *Manager) BoardRemoved(reaped bool) {
	if m == nil {
		return
	}
	if reaped {
		m.boardsReaped.Inc()
	}
	m.activeBoards.Dec()
}

// PlayerAdded records an added player
func (m *Manager) PlayerAdded() {
	if m == nil {
		return
	}
	m.playersAdded.Inc()
}

// PlayerRemoved records a removed player
func (m *Manager) PlayerRemoved() {
	if m == nil {
		return
	}
	m.playersRemoved.Inc()
}

// AddRejected records an add-player request refused for a blank name
func (m *Manager) AddRejected() {
	if m == nil {
		return
	}
	m.rejectedAdds.Inc()
}

// ScoreChanged records a score change
func (m *Manager) ScoreChanged(delta int) {
	if m == nil {
		return
	}
	direction := "up"
	if delta < 0 {
		direction = "down"
	}
	m.scoreChanges.WithLabelValues(direction).Inc()
}

// StopwatchTransition records a start, stop or reset
func (m *Manager) StopwatchTransition(action string) {
	if m == nil {
		return
	}
	m.stopwatchTransitions.WithLabelValues(action).Inc()
}

// StopwatchTicked records a tick applied to a running stopwatch
func (m *Manager) StopwatchTicked() {
	if m == nil {
		return
	}
	m.stopwatchTicks.Inc()
}

// RunnerMounted records a runner starting (+1) or stopping (-1)
func (m *Manager) RunnerMounted(delta int) {
	if m == nil {
		return
	}
	m.runnersMounted.Add(float64(delta))
}

// SSEClientsChanged adjusts the connected-client gauge
func (m *Manager) SSEClientsChanged(delta int) {
	if m == nil {
		return
	}
	m.sseClients.Add(float64(delta))
}

// ObserveHTTP records one completed request
func (m *Manager) ObserveHTTP(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}
