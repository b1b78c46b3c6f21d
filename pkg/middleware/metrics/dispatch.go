package metrics

import "time"

// Dispatch outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// UnknownAction is the action label for names no host handles.
const UnknownAction = "unknown"

// ObserveDispatch records one dispatched action.
func ObserveDispatch(controller, action, outcome string, d time.Duration) {
	totalDispatches.WithLabelValues(controller, action, outcome).Inc()
	dispatchTime.WithLabelValues(controller).Observe(d.Seconds())
}
