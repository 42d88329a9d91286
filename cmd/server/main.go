// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"profreview/internal/audit"
	"profreview/internal/collaborator/gemini"
	"profreview/internal/platform/config"
	"profreview/internal/platform/httpserver"
	"profreview/internal/platform/logger"
	"profreview/internal/platform/metrics"
	"profreview/internal/platform/middleware"
	platformredis "profreview/internal/platform/redis"
	"profreview/internal/privacy/noise"
	"profreview/internal/privacy/piidetect"
	"profreview/internal/privacy/risk"
	"profreview/internal/review/handler"
	"profreview/internal/review/service"
	"profreview/internal/review/store"
	"profreview/internal/stats"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var handlerOpts []handler.Option

	var reviewStore store.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		pg := store.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		reviewStore = pg
		handlerOpts = append(handlerOpts, handler.WithHealthCheck("postgres", db.PingContext))
		log.Info("using postgres store")
	} else {
		reviewStore = store.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	var collab risk.Collaborator
	if cfg.GeminiAPIKey != "" {
		collab = gemini.New(gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.GeminiTimeout,
		})
		log.Info("gemini collaborator enabled", "model", cfg.GeminiModel)
	} else {
		log.Warn("GEMINI_API_KEY not set, running detector-only classification")
	}

	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		handlerOpts = append(handlerOpts, handler.WithHealthCheck("redis", rdb.Health))
		if cfg.RateLimitEnabled {
			limiter := middleware.NewRedisLimiter(rdb.Client, cfg.RateLimitPerMin, time.Minute)
			handlerOpts = append(handlerOpts, handler.WithLimiter(limiter))
			log.Info("rate limiting enabled", "per_minute", cfg.RateLimitPerMin)
		}
	}

	var publisher audit.Publisher = audit.NewLogPublisher(log)
	if len(cfg.AuditBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(cfg.AuditBrokers, cfg.AuditTopic, log)
		if err != nil {
			return err
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("kafka audit publisher enabled", "topic", cfg.AuditTopic)
	}

	classifier := risk.New(piidetect.New(), collab, log)
	releaser := stats.NewReleaser(noise.New(), stats.DefaultBudget())

	svc := service.New(reviewStore, classifier, releaser, log,
		service.WithMetrics(metrics.New()),
		service.WithAudit(publisher),
	)

	h := handler.New(svc, log, handlerOpts...)
	srv := httpserver.New(cfg.Addr, h.Router())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting profreview server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
