package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	candidatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tricoach",
		Subsystem: "matching",
		Name:      "candidates_total",
		Help:      "Resolved match candidates by confidence tier.",
	}, []string{"tier"})

	autoMatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tricoach",
		Subsystem: "matching",
		Name:      "auto_match_total",
		Help:      "Auto-match attempts by outcome.",
	}, []string{"outcome"})

	completionsCommittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tricoach",
		Subsystem: "matching",
		Name:      "completions_committed_total",
		Help:      "Workout completions written from matched activities.",
	})
)

// observeResult records tier counts for one resolution pass.
func observeResult(r Result) {
	candidatesTotal.WithLabelValues("high").Add(float64(len(r.HighConfidence)))
	candidatesTotal.WithLabelValues("medium").Add(float64(len(r.MediumConfidence)))
	candidatesTotal.WithLabelValues("low").Add(float64(len(r.LowConfidence)))
}
