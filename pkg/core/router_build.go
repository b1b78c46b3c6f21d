package core

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/trifle/pkg/loader"
	manifest "github.com/joeydtaylor/trifle/pkg/manifest"
	hmetrics "github.com/joeydtaylor/trifle/pkg/middleware/metrics"
	"go.uber.org/zap"
)

// BuildRouter mounts every manifest controller under /{controller}/{action}/*.
// Each request gets its own host; delegates are loaded through one loader
// built from the manifest path table.
func BuildRouter(cfg manifest.Config, d BuildDeps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))

	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
		if d.LogMW != nil {
			r.Use(d.LogMW.Middleware(d.Auth))
		}
		r.Use(hmetrics.Collect(d.Auth))
	} else if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(nil))
	}

	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics)
	}

	ld := loader.New(cfg.Paths(), loader.WithCatalog(d.Catalog))

	hosts := make(map[string]http.HandlerFunc, len(cfg.Controllers))
	for _, ct := range cfg.Controllers {
		h := hostHandler(ct, cfg.View, ld, d)
		if ct.TimeoutMS > 0 {
			h = withTimeout(h, time.Duration(ct.TimeoutMS)*time.Millisecond)
		}
		hosts[ct.Name] = withGuard(h, d.Auth, ct.Guard)
	}

	dispatch := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "controller")
		if name == "" {
			name = "index"
		}
		h, ok := hosts[name]
		if !ok {
			http.Error(w, "controller not found", http.StatusNotFound)
			return
		}
		h(w, r)
	})

	r.Any("/", dispatch)
	r.Any("/{controller}", dispatch)
	r.Any("/{controller}/{action}", dispatch)
	r.Any("/{controller}/{action}/*", dispatch)
	return r.Mux()
}
