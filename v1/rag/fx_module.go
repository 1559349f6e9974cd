package rag

import (
	"go.uber.org/fx"

	"github.com/ragstack/core/v1/events"
	"github.com/ragstack/core/v1/imagestorage"
	"github.com/ragstack/core/v1/logger"
	"github.com/ragstack/core/v1/metrics"
	"github.com/ragstack/core/v1/postgres"
	"github.com/ragstack/core/v1/ratelimit"
	"github.com/ragstack/core/v1/tracer"
	"github.com/ragstack/core/v1/vectorstore"
	"github.com/ragstack/core/v1/vespa"
)

// FXModule wires the orchestration service into Fx.
//
// Besides the Service itself it binds the shared *logger.Logger to every
// package-local logging interface, so applications only compose the
// package modules:
//
//	app := fx.New(
//	    logger.FXModule,
//	    postgres.FXModule,
//	    metrics.FXModule,
//	    embedding.FXModule,
//	    vectorstore.FXModule,
//	    imagestorage.FXModule,
//	    events.FXModule,
//	    tracer.FXModule,
//	    rag.FXModule,
//	)
var FXModule = fx.Module(
	"rag",

	fx.Provide(
		func(l *logger.Logger) Logger { return l },
		func(l *logger.Logger) postgres.Logger { return l },
		func(l *logger.Logger) ratelimit.Logger { return l },
		func(l *logger.Logger) vespa.Logger { return l },
		func(l *logger.Logger) vectorstore.Logger { return l },
		func(l *logger.Logger) imagestorage.Logger { return l },
		func(l *logger.Logger) events.Logger { return l },
		func(l *logger.Logger) tracer.Logger { return l },
		func(m *metrics.Metrics) Metrics { return m },

		ratelimit.NewLimiter,
		NewService,
	),
)
