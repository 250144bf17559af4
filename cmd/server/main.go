package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solar_sizer/internal/api"
	"solar_sizer/internal/config"
	"solar_sizer/internal/logging"
	"solar_sizer/internal/session"
	"solar_sizer/internal/store"
	"solar_sizer/internal/ws"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	frontendDir := flag.String("frontend-dir", "frontend/build", "directory containing frontend build")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "solar-sizer")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *frontendDir, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, frontendDir string, logger *zap.Logger) error {
	st, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(cfg, st, logger)

	// Serve frontend static files
	if _, err := os.Stat(frontendDir); err == nil {
		logger.Info("serving frontend", zap.String("dir", frontendDir))
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(frontendDir))))
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exiting")
	return nil
}

// newRouter wires the hub, bridge, session service and HTTP routes.
func newRouter(cfg config.Config, st session.Store, logger *zap.Logger) *gin.Engine {
	hub := ws.NewHub(logger)
	svc := session.New(st, ws.NewBridge(hub), cfg.Defaults, logger)
	return api.NewRouter(api.Options{
		Service:      svc,
		WebSocket:    ws.NewHandler(hub, svc, logger),
		ReportTitle:  cfg.Report.Title,
		ReportFooter: cfg.Report.Footer,
		Logger:       logger,
	})
}

// newStore builds the configured session store. The returned func releases
// its resources.
func newStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (session.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client := store.NewRedisClient(cfg.Store.Redis)
		rs := store.NewRedis(client, cfg.Store.SessionTTL)
		if err := rs.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Store.Redis.Addr, err)
		}
		return rs, func() { client.Close() }, nil

	default:
		mem := store.NewMemory(cfg.Store.SessionTTL)
		pruneCtx, cancel := context.WithCancel(ctx)
		if cfg.Store.SessionTTL > 0 {
			go pruneLoop(pruneCtx, mem, pruneInterval(cfg.Store.SessionTTL), logger)
		}
		return mem, cancel, nil
	}
}

// pruneInterval checks for expired sessions a few times per TTL, at most
// once a minute.
func pruneInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

func pruneLoop(ctx context.Context, mem *store.Memory, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := mem.Prune()
			if n > 0 {
				logger.Info("expired sessions pruned", zap.Int("count", n))
			}
			logger.Debug("session sweep", zap.Int("pruned", n), zap.Int("live", len(mem.IDs())))
		}
	}
}
