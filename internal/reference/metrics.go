package reference

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// reloadTotal counts reload attempts by result.
	// Labels: "success", "empty", "malformed", "fetch", "other"
	reloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "afamplan_reference_reloads_total",
		Help: "Reference table reload attempts by result",
	}, []string{"result"})

	reloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "afamplan_reference_reload_duration_seconds",
		Help:    "Reference table fetch and decode duration",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	tableRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "afamplan_reference_records",
		Help: "Number of records in the published reference table",
	})
)

// reloadResult maps a reload error to its metric label.
func reloadResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmpty):
		return "empty"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrFetch):
		return "fetch"
	default:
		return "other"
	}
}
