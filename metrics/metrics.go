// Package metrics holds the process-wide prometheus instrumentation for
// module activity. Counters are registered on the default registry and
// exposed through the introspection server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Rebuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barkit_module_rebuilds_total",
		Help: "Number of output cache rebuilds per module.",
	}, []string{"module"})

	Actions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barkit_module_actions_total",
		Help: "Number of actions dispatched per module and action name.",
	}, []string{"module", "action"})

	Halts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barkit_module_halts_total",
		Help: "Number of times a module halted itself after a failure.",
	}, []string{"module"})
)
