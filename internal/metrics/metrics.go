package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels operations that completed normally.
	OutcomeSuccess = "success"
	// OutcomeError labels operations that failed (transport or server).
	OutcomeError = "error"
)

var (
	diagnosesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediguide",
			Name:      "diagnoses_total",
			Help:      "Total diagnosis submissions, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	diagnosisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mediguide",
			Name:      "diagnosis_seconds",
			Help:      "Diagnosis round-trip latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 10},
		},
	)

	diagnosisSavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediguide",
			Name:      "diagnosis_saves_total",
			Help:      "Total diagnosis persistence attempts, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediguide",
			Name:      "logins_total",
			Help:      "Total login attempts, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register attaches mediguide collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		diagnosesTotal,
		diagnosisDurationSeconds,
		diagnosisSavesTotal,
		loginsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveDiagnosis records a diagnosis submission duration and outcome.
func ObserveDiagnosis(duration time.Duration, outcome string) {
	diagnosesTotal.WithLabelValues(normalise(outcome)).Inc()
	if duration < 0 {
		duration = 0
	}
	diagnosisDurationSeconds.Observe(duration.Seconds())
}

// ObserveSave records a diagnosis persistence outcome.
func ObserveSave(outcome string) {
	diagnosisSavesTotal.WithLabelValues(normalise(outcome)).Inc()
}

// ObserveLogin records a login attempt outcome.
func ObserveLogin(outcome string) {
	loginsTotal.WithLabelValues(normalise(outcome)).Inc()
}

func normalise(outcome string) string {
	if outcome == OutcomeError {
		return OutcomeError
	}
	return OutcomeSuccess
}
