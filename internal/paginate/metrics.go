package paginate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pageLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framevault_paginator_loads_total",
			Help: "Paginator load attempts by outcome (ok, error, skipped)",
		},
		[]string{"paginator", "outcome"},
	)

	pageItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "framevault_paginator_items_total",
			Help: "Items delivered by paginators",
		},
		[]string{"paginator"},
	)
)
