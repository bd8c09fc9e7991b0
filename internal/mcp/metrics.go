package mcp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var invocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "autohost",
	Subsystem: "mcp",
	Name:      "invocations_total",
	Help:      "Tool invocations by server and outcome (ok, tool_error, invocation_error)",
}, []string{"server", "outcome"})
