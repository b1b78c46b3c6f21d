package core

import (
	"net/http"

	"github.com/joeydtaylor/trifle/pkg/loader"
	"github.com/joeydtaylor/trifle/pkg/middleware/auth"
	"github.com/joeydtaylor/trifle/pkg/middleware/logger"
	"github.com/joeydtaylor/trifle/pkg/store"
	httpx "github.com/joeydtaylor/trifle/pkg/transport/httpx"
	"go.uber.org/zap"
)

type BuildDeps struct {
	Auth    *auth.Middleware
	LogMW   *logger.Middleware
	Metrics http.Handler
	Router  httpx.Router
	Store   store.Store
	Catalog *loader.Catalog
	Logger  *zap.Logger
}
