package monitoring

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/store"
)

var (
	scanOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_scans_total",
			Help: "Scan attempts by outcome code",
		},
		[]string{"outcome"},
	)

	resolutionStrategies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_resolution_strategy_total",
			Help: "Which lookup strategy resolved the scanned payload",
		},
		[]string{"strategy"},
	)

	validationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkin_validation_duration_seconds",
			Help:    "Duration of the validation transaction",
			Buckets: prometheus.DefBuckets,
		},
	)

	registrationsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "checkin_registrations_total",
			Help: "Current registration count per status",
		},
		[]string{"status"},
	)
)

// TrackScanOutcome counts a finished scan by its outcome code.
func TrackScanOutcome(outcome string) {
	scanOutcomes.WithLabelValues(outcome).Inc()
}

// TrackResolutionStrategy counts which lookup strategy matched.
func TrackResolutionStrategy(strategy string) {
	resolutionStrategies.WithLabelValues(strategy).Inc()
}

// ObserveValidationDuration records how long a validation transaction took.
func ObserveValidationDuration(d time.Duration) {
	validationDuration.Observe(d.Seconds())
}

// Monitor periodically refreshes the per-status registration gauges from the
// store.
type Monitor struct {
	store    store.Store
	interval time.Duration
}

func NewMonitor(st store.Store, interval time.Duration) *Monitor {
	monitor := &Monitor{store: st, interval: interval}
	go monitor.collectMetrics()
	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for range ticker.C {
		m.collectRegistrationMetrics(context.Background())
	}
}

func (m *Monitor) collectRegistrationMetrics(ctx context.Context) {
	recs, err := m.store.ScanAll(ctx)
	if err != nil {
		return
	}

	counts := map[string]int{"PENDING": 0, "VALIDATED": 0, "CANCELLED": 0}
	for _, rec := range recs {
		status := strings.ToUpper(strings.TrimSpace(rec.String("status")))
		if _, known := counts[status]; !known {
			// Unrecognized stored values normalize to PENDING everywhere.
			status = "PENDING"
		}
		counts[status]++
	}
	for status, count := range counts {
		registrationsByStatus.WithLabelValues(status).Set(float64(count))
	}
}
