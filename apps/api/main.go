package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zenGate-Global/palmyra-admins/contracts"
	adminshandler "github.com/zenGate-Global/palmyra-admins/domains/admins/be/handler"
	adminsrepo "github.com/zenGate-Global/palmyra-admins/domains/admins/be/repo"
	adminsservice "github.com/zenGate-Global/palmyra-admins/domains/admins/be/service"
	platformlogging "github.com/zenGate-Global/palmyra-admins/platform/go/logging"
	"github.com/zenGate-Global/palmyra-admins/platform/go/metrics"
	"github.com/zenGate-Global/palmyra-admins/platform/go/persistence"
)

type config struct {
	Port               string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	AuthProvider       string        `env:"AUTH_PROVIDER" envDefault:"firebase"`     // firebase | dev
	ProfileStore       string        `env:"PROFILE_STORE" envDefault:"firestore"`    // firestore | postgres | memory
	IdentityProvider   string        `env:"IDENTITY_PROVIDER" envDefault:"firebase"` // firebase | memory
	DatabaseURL        string        `env:"DATABASE_URL"`                            // required when PROFILE_STORE=postgres
	AdminsCollection   string        `env:"ADMINS_COLLECTION" envDefault:"admins"`   // used by PROFILE_STORE=firestore
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	ValidateContract   bool          `env:"VALIDATE_CONTRACT" envDefault:"true"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "admins-api",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	deps, err := buildBackends(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init backends", zap.Error(err))
	}
	defer deps.Close()

	validator, err := persistence.NewProfileValidator()
	if err != nil {
		logger.Fatal("init profile validator", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	provisioningMetrics, err := metrics.NewProvisioning(registry)
	if err != nil {
		logger.Fatal("register provisioning metrics", zap.Error(err))
	}

	adminsRepo := adminsrepo.New(deps.store, validator)
	adminsService := adminsservice.New(adminsRepo, deps.identities, adminsservice.WithMetrics(provisioningMetrics))
	adminsHTTPHandler := adminshandler.New(adminsService, logger)

	authMiddleware, err := buildAuthMiddleware(cfg, deps.firebase, logger)
	if err != nil {
		logger.Fatal("init auth middleware", zap.Error(err))
	}

	opts := routerOptions{
		logger:         logger,
		admins:         adminsHTTPHandler,
		auth:           authMiddleware,
		corsOrigins:    cfg.CORSAllowedOrigins,
		requestTimeout: cfg.RequestTimeout,
		metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ready:          deps.Ready,
	}
	if cfg.ValidateContract {
		opts.contract, err = contracts.GetSwagger()
		if err != nil {
			logger.Fatal("load callable contract", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(opts),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server",
			zap.String("port", cfg.Port),
			zap.String("auth_provider", cfg.AuthProvider),
			zap.String("profile_store", cfg.ProfileStore),
			zap.String("identity_provider", cfg.IdentityProvider),
		)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
