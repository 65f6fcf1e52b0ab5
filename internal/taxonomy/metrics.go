package taxonomy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var taxonomyMoves = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "framevault_taxonomy_moves_total",
		Help: "Organizer moves by board and outcome (applied, reverted, noop)",
	},
	[]string{"board", "outcome"},
)
