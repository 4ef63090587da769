package command

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "maintenance_workorder_transitions_total",
		Help: "Committed work-order status transitions",
	},
	[]string{"from", "to"},
)
