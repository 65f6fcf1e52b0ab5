package authz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "framevault_authz_decisions_total",
		Help: "Route authorization decisions by role and outcome",
	},
	[]string{"role", "decision"},
)
