// Package bundlefx groups the HTTP middleware modules for fx.
package bundlefx

import (
	"github.com/joeydtaylor/trifle/pkg/middleware/auth"
	"github.com/joeydtaylor/trifle/pkg/middleware/logger"
	"github.com/joeydtaylor/trifle/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides the auth, logging and metrics middleware.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
