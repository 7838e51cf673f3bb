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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/volumediscount/internal/api"
	"github.com/TimurManjosov/volumediscount/internal/audit"
	"github.com/TimurManjosov/volumediscount/internal/config"
	mydb "github.com/TimurManjosov/volumediscount/internal/db"
	"github.com/TimurManjosov/volumediscount/internal/obs"
	"github.com/TimurManjosov/volumediscount/internal/store"
	"github.com/TimurManjosov/volumediscount/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DatabaseDSN, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.StoreType).Msg("store")
	}
	defer st.Close()

	telemetry.Init()

	auditSvc, auditReader, err := newAuditService(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("audit_sink", cfg.AuditSink).Msg("audit")
	}
	defer auditSvc.Close()

	srvAPI := api.NewServer(st, cfg.AdminAPIKey, api.Options{
		Logger:         logger,
		RateLimitPerIP: cfg.RateLimitPerIP,
		Audit:          auditSvc,
		AuditReader:    auditReader,
	})

	srv := newAPIServer(cfg.HTTPAddr, srvAPI.Router())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux(),
		ReadHeaderTimeout: 3 * time.Second,
	}

	go serve(logger, "api", srv)
	go serve(logger, "metrics", metricsSrv)

	logger.Info().
		Str("env", cfg.AppEnv).
		Str("store", cfg.StoreType).
		Str("addr", cfg.HTTPAddr).
		Str("metrics_addr", cfg.MetricsAddr).
		Msg("volume discount service started")

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShut); err != nil {
		logger.Error().Err(err).Msg("api shutdown")
	}
	if err := metricsSrv.Shutdown(ctxShut); err != nil {
		logger.Error().Err(err).Msg("metrics shutdown")
	}
	logger.Info().Msg("stopped")
}

// newAPIServer bounds every phase of a request; no route streams.
func newAPIServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// newAuditService returns a nil service when auditing is disabled.
// Only the redis sink can be read back, so the reader is nil for the others.
func newAuditService(cfg *config.Config, logger zerolog.Logger) (*audit.Service, audit.Reader, error) {
	switch cfg.AuditSink {
	case config.AuditNone:
		return nil, nil, nil
	case config.AuditRedis:
		client, err := mydb.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		sink := audit.NewRedisSink(client, audit.DefaultRedisKey, int64(cfg.AuditRedisMax))
		return audit.NewService(sink, logger, nil, nil, 1024), sink, nil
	default:
		sink := audit.LogSink{Logger: logger.With().Str("component", "audit").Logger()}
		return audit.NewService(sink, logger, nil, nil, 1024), nil, nil
	}
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func serve(logger zerolog.Logger, name string, srv *http.Server) {
	logger.Info().Str("server", name).Str("addr", srv.Addr).Msg("listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Str("server", name).Msg("server")
	}
}
