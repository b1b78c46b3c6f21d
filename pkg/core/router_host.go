package core

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/trifle/pkg/codec"
	"github.com/joeydtaylor/trifle/pkg/controller"
	"github.com/joeydtaylor/trifle/pkg/delegate"
	"github.com/joeydtaylor/trifle/pkg/loader"
	manifest "github.com/joeydtaylor/trifle/pkg/manifest"
	"github.com/joeydtaylor/trifle/pkg/middleware/auth"
	"github.com/joeydtaylor/trifle/pkg/middleware/metrics"
	"github.com/joeydtaylor/trifle/pkg/view"
	"go.uber.org/zap"
)

// hostHandler serves one controller. A host lives for exactly one request.
func hostHandler(ct manifest.Controller, vc manifest.View, ld *loader.Loader, d BuildDeps) http.HandlerFunc {
	enc, ok := codec.ByName(ct.Codec)
	if !ok {
		enc = codec.JSONStrict
	}
	entries := ct.Entries()

	return func(w http.ResponseWriter, r *http.Request) {
		action := delegate.NormalizeName(chi.URLParam(r, "action"))
		if action == "" {
			action = "index"
		}
		args := splitArgs(chi.URLParam(r, "*"))
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		rv := view.NewRenderer(ct.Name,
			view.WithSuffix(vc.Suffix),
			view.WithSearchPaths(vc.ScriptDirs...),
		)
		log := d.Logger.With(
			zap.String("controller", ct.Name),
			zap.String("action", action),
			zap.String("requestId", chimd.GetReqID(r.Context())),
		)

		opts := append(hostOptions(ct.Name),
			controller.WithView(rv),
			controller.WithDelegates(entries...),
			controller.WithLoader(ld),
			controller.WithLogger(log),
			controller.WithState(controller.KeyParams, r.Form),
			controller.WithState(controller.KeyUser, auth.UserFrom(r.Context())),
		)
		if d.Store != nil {
			opts = append(opts, controller.WithState(controller.KeyStore, d.Store))
		}
		host := controller.New(ct.Name, opts...)

		start := time.Now()
		out, err := host.Dispatch(r.Context(), action+delegate.ActionSuffix, args...)
		if err == nil && len(rv.Rendered()) == 0 {
			// Host template for the action, when the delegate rendered nothing.
			if p := rv.ScriptPathFor(action); rv.ResolveAbsolute(p) != "" {
				err = rv.RenderExplicit(p)
			}
		}
		if err != nil {
			status, outcome := statusFor(err)
			metrics.ObserveDispatch(ct.Name, actionLabel(host, action), outcome, time.Since(start))
			if status >= http.StatusInternalServerError {
				log.Error("dispatch failed", zap.String("hostId", host.ID()), zap.Error(err))
				http.Error(w, http.StatusText(status), status)
				return
			}
			http.Error(w, err.Error(), status)
			return
		}
		metrics.ObserveDispatch(ct.Name, actionLabel(host, action), metrics.OutcomeOK, time.Since(start))

		if len(rv.Rendered()) > 0 {
			writeBody(w, "text/html; charset=utf-8", rv.Output(), http.StatusOK)
			return
		}

		var payload any = rv.Vars()
		if len(rv.Vars()) == 0 && out != nil {
			payload = out
		}
		raw, err := enc.Marshal(payload)
		if err != nil {
			log.Error("encode failed", zap.String("hostId", host.ID()), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		writeBody(w, enc.ContentType(), raw, http.StatusOK)
	}
}
