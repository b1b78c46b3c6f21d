package core

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/joeydtaylor/trifle/pkg/controller"
	"github.com/joeydtaylor/trifle/pkg/manager"
	"github.com/joeydtaylor/trifle/pkg/middleware/metrics"
	"github.com/joeydtaylor/trifle/pkg/store"
)

func writeBody(w http.ResponseWriter, contentType string, payload []byte, status int) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	if strings.HasPrefix(contentType, "application/json") {
		_, _ = w.Write([]byte(`{}`))
	}
}

// statusFor maps dispatch errors to HTTP status and metrics outcome.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, manager.ErrActionNotFound),
		errors.Is(err, controller.ErrUnhandled),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, metrics.OutcomeNotFound
	default:
		return http.StatusInternalServerError, metrics.OutcomeError
	}
}

func splitArgs(rest string) []any {
	var args []any
	for _, s := range strings.Split(strings.Trim(rest, "/"), "/") {
		if s != "" {
			args = append(args, s)
		}
	}
	return args
}

func withTimeout(next http.HandlerFunc, d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

// actionLabel keeps the dispatch metric's action label bounded: names the
// host does not handle are all recorded as metrics.UnknownAction.
func actionLabel(host *controller.Controller, action string) string {
	if host.Handles(action) {
		return action
	}
	return metrics.UnknownAction
}
