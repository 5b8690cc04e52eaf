// Package metrics exports engine and persistence counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwebster45206/wasteland/pkg/save"
	"github.com/jwebster45206/wasteland/pkg/survival"
)

const namespace = "wasteland"

// Recorder owns a private registry.
type Recorder struct {
	registry   *prometheus.Registry
	days       *prometheus.CounterVec
	encounters *prometheus.CounterVec
	deaths     *prometheus.CounterVec
	saves      *prometheus.CounterVec
	purchases  *prometheus.CounterVec
	sessions   prometheus.Gauge
}

// Ensure Recorder implements the engine and persistence hooks
var (
	_ survival.Metrics = (*Recorder)(nil)
	_ save.Recorder    = (*Recorder)(nil)
)

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		days: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_completed_total",
			Help:      "Days survived, by game mode.",
		}, []string{"mode"}),
		encounters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encounters_total",
			Help:      "Resolved encounters, by kind and result.",
		}, []string{"kind", "result"}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deaths_total",
			Help:      "Player deaths, by cause.",
		}, []string{"cause"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Snapshot writes, by storage tier and result.",
		}, []string{"tier", "result"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchase attempts, by product and status.",
		}, []string{"product", "status"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_open",
			Help:      "Games currently held in memory.",
		}),
	}
	r.registry.MustRegister(
		r.days, r.encounters, r.deaths, r.saves, r.purchases, r.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) DayCompleted(mode survival.GameMode) {
	r.days.WithLabelValues(string(mode)).Inc()
}

func (r *Recorder) EncounterResolved(kind survival.EncounterKind, result string) {
	r.encounters.WithLabelValues(string(kind), result).Inc()
}

func (r *Recorder) PlayerDied(cause survival.DeathCause) {
	r.deaths.WithLabelValues(string(cause)).Inc()
}

func (r *Recorder) SaveRecorded(tier string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.saves.WithLabelValues(tier, result).Inc()
}

// PurchaseCompleted counts a purchase attempt.
func (r *Recorder) PurchaseCompleted(product, status string) {
	r.purchases.WithLabelValues(product, status).Inc()
}

// SessionsOpen sets the number of games held in memory.
func (r *Recorder) SessionsOpen(n int) {
	r.sessions.Set(float64(n))
}
