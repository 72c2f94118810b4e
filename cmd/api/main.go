package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ryanolv/doctor-agenda/internal/config"
	appointmentHandler "github.com/ryanolv/doctor-agenda/internal/handler/appointment"
	clinicHandler "github.com/ryanolv/doctor-agenda/internal/handler/clinic"
	dashboardHandler "github.com/ryanolv/doctor-agenda/internal/handler/dashboard"
	doctorHandler "github.com/ryanolv/doctor-agenda/internal/handler/doctor"
	"github.com/ryanolv/doctor-agenda/internal/handler/health"
	patientHandler "github.com/ryanolv/doctor-agenda/internal/handler/patient"
	promHandler "github.com/ryanolv/doctor-agenda/internal/handler/prometheus"
	sessionHandler "github.com/ryanolv/doctor-agenda/internal/handler/session"
	"github.com/ryanolv/doctor-agenda/internal/identity"
	"github.com/ryanolv/doctor-agenda/internal/middleware"
	"github.com/ryanolv/doctor-agenda/internal/repository/postgres"
	"github.com/ryanolv/doctor-agenda/internal/revalidate"
	"github.com/ryanolv/doctor-agenda/internal/router"
	appointmentService "github.com/ryanolv/doctor-agenda/internal/service/appointment"
	clinicService "github.com/ryanolv/doctor-agenda/internal/service/clinic"
	dashboardService "github.com/ryanolv/doctor-agenda/internal/service/dashboard"
	doctorService "github.com/ryanolv/doctor-agenda/internal/service/doctor"
	patientService "github.com/ryanolv/doctor-agenda/internal/service/patient"
	"github.com/ryanolv/doctor-agenda/pkg/auth"
	"github.com/ryanolv/doctor-agenda/pkg/logger"
	"github.com/ryanolv/doctor-agenda/pkg/messaging"
	"github.com/ryanolv/doctor-agenda/pkg/messaging/redis"
	"github.com/ryanolv/doctor-agenda/pkg/metrics"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
	"github.com/ryanolv/doctor-agenda/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})
	// The HTTP middleware logs through the global logger.
	log.Logger = *appLogger.Zerolog()

	tz, err := timezone.New(cfg.Timezone.Location)
	if err != nil {
		appLogger.Fatal(err, "invalid timezone")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry, cfg.Metrics.Namespace)

	broker, err := newBroker(cfg.Redis, appLogger)
	if err != nil {
		appLogger.Fatal(err, "failed to create message broker")
	}
	defer broker.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	views := revalidate.NewViewCache(cfg.Cache.ViewTTL, cfg.Cache.CleanupInterval, m)
	notifier := revalidate.NewNotifier(broker, views, appLogger, m)
	listener := revalidate.NewListener(broker, views, appLogger)
	go func() {
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Error(err, "revalidation listener stopped")
		}
	}()

	v := validator.New(validator.NewRules(tz.Location()))

	// Initialize repositories
	clinicRepo := postgres.NewClinicRepository(db, m)
	doctorRepo := postgres.NewDoctorRepository(db, m)
	patientRepo := postgres.NewPatientRepository(db, m)
	appointmentRepo := postgres.NewAppointmentRepository(db, m)

	// Initialize services
	clinicSvc := clinicService.NewService(clinicRepo, v, notifier)
	doctorSvc := doctorService.NewService(doctorRepo, tz, v, notifier)
	patientSvc := patientService.NewService(patientRepo, tz, v, notifier)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo, tz, v, notifier, views, m)
	dashboardSvc := dashboardService.NewService(appointmentRepo, doctorRepo, appointmentSvc, tz, views)

	tokens := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.TokenTTL())
	resolver := identity.NewResolver(tokens, clinicRepo)

	// Setup router
	r := router.NewRouter(
		resolver,
		health.NewHandler(db),
		promHandler.New(registry, cfg.Metrics.Namespace),
		router.RouterConfig{
			Mode:         cfg.Server.Mode,
			RateLimit:    rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:    cfg.RateLimit.Burst,
			RateLimitOff: !cfg.RateLimit.Enabled,
			CORSConfig:   middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins),
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
		},
		sessionHandler.NewHandler(),
		clinicHandler.NewHandler(clinicSvc),
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		dashboardHandler.NewHandler(dashboardSvc),
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		appLogger.Info("server listening", "addr", srv.Addr, "timezone", cfg.Timezone.Location)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}

// newBroker uses Redis when configured so every API instance sees revalidations;
// otherwise signals stay in-process.
func newBroker(cfg config.RedisConfig, appLogger *logger.Logger) (messaging.Broker, error) {
	if cfg.URL == "" {
		appLogger.Warn("redis.url not set, revalidation is local to this process")
		return messaging.NewMemoryBroker(), nil
	}
	return redis.NewRedisBroker(redis.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}, appLogger.Zerolog())
}
