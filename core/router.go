package core

import (
	"fmt"
	"log/slog"

	"github.com/barkit/barkit/metrics"
)

// NoArgHandler handles an action that carries no payload.
type NoArgHandler func()

// DataHandler handles an action that carries a string payload.
type DataHandler func(data string)

// actionEntry is a tagged variant over the two handler shapes. Exactly one
// of the function fields is set, selected by withData.
type actionEntry struct {
	withData bool
	fn       NoArgHandler
	fnData   DataHandler
}

// Router maps action names to handlers on one module and dispatches
// external input to them.
//
// Each module owns one router and registers its action set during
// construction. The base module's Input uses it for action routing, so a
// module never has to widen the base contract to expose new commands.
type Router struct {
	log     *slog.Logger
	module  string
	actions map[string]actionEntry
}

func NewRouter(log *slog.Logger, moduleName string) *Router {
	return &Router{
		log:     log,
		module:  moduleName,
		actions: make(map[string]actionEntry),
	}
}

// Register binds name to a handler without payload. A previous
// registration under the same name is replaced.
func (r *Router) Register(name string, fn NoArgHandler) {
	r.actions[name] = actionEntry{fn: fn}
}

// RegisterWithData binds name to a payload-accepting handler. A previous
// registration under the same name is replaced.
func (r *Router) RegisterWithData(name string, fn DataHandler) {
	r.actions[name] = actionEntry{withData: true, fnData: fn}
}

// Has reports whether an action is registered under name.
func (r *Router) Has(name string) bool {
	_, ok := r.actions[name]
	return ok
}

// Invoke dispatches the action registered under name.
//
// The action must exist; callers gate on Has first. A payload supplied to
// a handler that takes none is discarded with a diagnostic.
func (r *Router) Invoke(name, data string) {
	entry, ok := r.actions[name]
	if !ok {
		panic(fmt.Sprintf("router: action %q not registered on %s", name, r.module))
	}

	metrics.Actions.WithLabelValues(r.module, name).Inc()

	if entry.withData {
		entry.fnData(data)
		return
	}
	if data != "" {
		r.log.Warn("discarding data for action without data support",
			"action", name, "data", data)
	}
	entry.fn()
}
