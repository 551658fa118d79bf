package echoapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trezcool/shule/core/access"
)

var gateDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "shule",
		Subsystem: "gate",
		Name:      "decisions_total",
		Help:      "Access gate decisions by outcome.",
	},
	[]string{"outcome"},
)

func observeDecision(o access.Outcome) {
	gateDecisions.WithLabelValues(o.String()).Inc()
}
