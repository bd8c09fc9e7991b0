package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autohost",
		Subsystem: "router",
		Name:      "resolutions_total",
		Help:      "Routing outcomes by final state and source",
	}, []string{"state", "source"})

	gateRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autohost",
		Subsystem: "router",
		Name:      "gate_rejections_total",
		Help:      "Proposals rejected for lacking category intent",
	}, []string{"category"})

	rulesFiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autohost",
		Subsystem: "router",
		Name:      "rules_fired_total",
		Help:      "Repair rules and quick commands that selected a tool",
	}, []string{"rule"})
)
