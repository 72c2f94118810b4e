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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ryanolv/doctor-agenda/internal/config"
	"github.com/ryanolv/doctor-agenda/internal/email"
	"github.com/ryanolv/doctor-agenda/internal/repository/postgres"
	"github.com/ryanolv/doctor-agenda/internal/worker"
	"github.com/ryanolv/doctor-agenda/pkg/logger"
	"github.com/ryanolv/doctor-agenda/pkg/metrics"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
)

const healthAddr = ":8081"

func setupHealthCheck(registry *prometheus.Registry, appLogger *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: healthAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(err, "health check server failed")
		}
	}()
	return srv
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	}).WithFields(map[string]interface{}{"component": "reminder-worker"})

	if !cfg.Reminder.Enabled {
		appLogger.Info("reminders disabled, exiting")
		return
	}
	if cfg.SMTP.Host == "" || cfg.SMTP.From == "" {
		appLogger.Fatal(fmt.Errorf("smtp.host and smtp.from are required"), "invalid smtp configuration")
	}

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
	m := metrics.NewMetrics(registry, cfg.Metrics.Namespace)

	reminders := worker.NewReminderWorker(
		postgres.NewClinicRepository(db, m),
		postgres.NewAppointmentRepository(db, m),
		email.NewSMTPService(cfg.SMTP),
		tz,
		appLogger,
		m,
		cfg.Reminder.Interval,
	)

	healthSrv := setupHealthCheck(registry, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reminders.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = healthSrv.Shutdown(shutdownCtx)
}
