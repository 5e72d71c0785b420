package main

import (
	"context"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	adminshandler "github.com/zenGate-Global/palmyra-admins/domains/admins/be/handler"
	platformlogging "github.com/zenGate-Global/palmyra-admins/platform/go/logging"
	platformmiddleware "github.com/zenGate-Global/palmyra-admins/platform/go/middleware"
)

type routerOptions struct {
	logger         *zap.Logger
	admins         *adminshandler.Handler
	auth           func(http.Handler) http.Handler
	contract       *openapi3.T // nil disables request validation
	corsOrigins    []string
	requestTimeout time.Duration
	metrics        http.Handler
	ready          func(ctx context.Context) error
}

func newRouter(opts routerOptions) http.Handler {
	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		platformmiddleware.DefaultCORS(opts.corsOrigins),
	)
	if opts.requestTimeout > 0 {
		rootRouter.Use(chimw.Timeout(opts.requestTimeout))
	}
	rootRouter.Use(platformlogging.RequestLogger(opts.logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if opts.ready != nil {
			if err := opts.ready(r.Context()); err != nil {
				platformlogging.FromRequest(r, opts.logger).Warn("readiness check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	if opts.metrics != nil {
		rootRouter.Handle("/metrics", opts.metrics)
	}
	if opts.contract != nil {
		registerDocsRoutes(rootRouter, opts.contract, opts.logger)
	}

	mountCallables := func(r chi.Router) {
		r.Use(opts.auth)
		r.Use(platformmiddleware.RequestTrace)
		if opts.contract != nil {
			r.Use(platformmiddleware.NewContractValidator(opts.contract))
		}
		opts.admins.Register(r)
	}

	rootRouter.Group(mountCallables)
	rootRouter.Route("/v1", mountCallables)

	return rootRouter
}
