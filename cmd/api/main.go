package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/georgemunganga/fuelnow-backend/internal/config"
	"github.com/georgemunganga/fuelnow-backend/internal/httpx"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/auth"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/feedback"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/history"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/history/sqlite"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/order"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/pricing"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/pump"
	"github.com/georgemunganga/fuelnow-backend/internal/modules/user"
	"github.com/georgemunganga/fuelnow-backend/internal/pkg/cache"
	"github.com/georgemunganga/fuelnow-backend/internal/pkg/events"
	"github.com/georgemunganga/fuelnow-backend/internal/pkg/telemetry"
	"github.com/georgemunganga/fuelnow-backend/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fuelnow api stopped", "error", err)
		os.Exit(1)
	}
}

type repos struct {
	users    user.Repository
	pumps    pump.Repository
	orders   order.Repository
	feedback feedback.Repository
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger := telemetry.NewLogger(os.Stdout, cfg.LogJSON, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				slog.Warn("close failed", "error", err)
			}
		}
	}()

	// ── Storage ─────────────────────────────────────────────
	var db *sql.DB
	var r repos
	switch cfg.Store {
	case config.StorePostgres:
		db, err = store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		closers = append(closers, db)
		if err := store.Migrate(ctx, db); err != nil {
			return err
		}
		slog.Info("connected to postgres")
		r = repos{
			users:    user.NewPostgresRepository(db),
			pumps:    pump.NewPostgresRepository(db),
			orders:   order.NewPostgresRepository(db),
			feedback: feedback.NewPostgresRepository(db),
		}
	default:
		slog.Warn("using the in-memory store, data is lost on restart")
		r = repos{
			users:    user.NewMemoryRepository(),
			pumps:    pump.NewMemoryRepository(),
			orders:   order.NewMemoryRepository(),
			feedback: feedback.NewMemoryRepository(),
		}
	}

	c := cache.NewMemory()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 50})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect redis: %w", err)
		}
		closers = append(closers, rdb)
		c = cache.NewRedis(rdb)
		slog.Info("connected to redis", "addr", cfg.RedisAddr)
	}

	var journal history.Journal = history.NewMemory()
	if cfg.HistoryPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.HistoryPath), 0o755); err != nil {
			return err
		}
		j, err := sqlite.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		closers = append(closers, j)
		journal = j
		slog.Info("order history journal opened", "path", cfg.HistoryPath)
	}

	publisher := events.NewLogPublisher(logger)
	if cfg.AMQPURL != "" {
		conn, ch, err := events.SetupConn(cfg.AMQPURL, 5)
		if err != nil {
			return err
		}
		closers = append(closers, conn, ch)
		publisher = events.NewAMQPPublisher(ch)
		slog.Info("connected to rabbitmq", "exchange", events.ExchangeName)
	}

	// ── Services ────────────────────────────────────────────
	userService := user.NewService(r.users, order.CustomerCheck{Orders: r.orders, Pumps: r.pumps})
	pumpService := pump.NewService(r.pumps, userService, c, cfg.DirectoryTTL)
	orderService := order.NewService(r.orders, pumpService, userService,
		order.WithIdempotency(c),
		order.WithJournal(journal),
		order.WithPublisher(publisher),
	)
	feedbackService := feedback.NewService(r.feedback, orderService, pumpService)
	tokens := auth.NewTokens(string(cfg.Secret()), cfg.TokenTTL)
	authService := auth.NewService(user.Accounts{Repo: r.users}, tokens)

	userHandler := user.NewHandler(userService)
	pumpHandler := pump.NewHandler(pumpService)
	feedbackHandler := feedback.NewHandler(feedbackService)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if db != nil {
			if err := db.PingContext(req.Context()); err != nil {
				httpx.Respond(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	auth.NewHandler(authService).RegisterRoutes(router)
	userHandler.RegisterPublicRoutes(router)
	pumpHandler.RegisterPublicRoutes(router)
	feedbackHandler.RegisterPublicRoutes(router)
	pricing.NewHandler(pumpService).RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokens))
		userHandler.RegisterRoutes(r)
		pumpHandler.RegisterRoutes(r)
		order.NewHandler(orderService).RegisterRoutes(r)
		feedbackHandler.RegisterRoutes(r)
	})

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		slog.Info("fuelnow api listening", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
