package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/fetcharr/fetcharr/internal/agent"
	"github.com/fetcharr/fetcharr/internal/api"
	"github.com/fetcharr/fetcharr/internal/config"
	"github.com/fetcharr/fetcharr/internal/confirm"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/manager"
	"github.com/fetcharr/fetcharr/internal/migrations"
	"github.com/fetcharr/fetcharr/internal/mover"
	"github.com/fetcharr/fetcharr/internal/plex"
	"github.com/fetcharr/fetcharr/internal/rank"
	"github.com/fetcharr/fetcharr/internal/request"
	"github.com/fetcharr/fetcharr/internal/search"
	"github.com/fetcharr/fetcharr/internal/upgrade"
	"github.com/fetcharr/fetcharr/pkg/mediainfo"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Single instance lock. The mover copies into the library; two daemons
	// racing on the same download dir would double-place files.
	if err := os.MkdirAll(filepath.Dir(cfg.Server.LockPath), 0755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	lock := flock.New(cfg.Server.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another instance holds %s", cfg.Server.LockPath)
	}
	defer func() { _ = lock.Unlock() }()

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Stores ===
	historyStore := history.NewStore(db)
	pendingStore := confirm.NewStore(db)
	cache := search.NewCache(db, cfg.Search.CacheTTL.Duration())

	// === Clients ===
	provider := search.NewWebshareClient(
		cfg.Webshare.URL,
		cfg.Webshare.Username,
		cfg.Webshare.Password,
		cfg.Search.Limit,
		logger,
	)

	gateway := agent.NewPyLoadClient(
		cfg.PyLoad.URL,
		cfg.PyLoad.Username,
		cfg.PyLoad.Password,
		logger,
	)

	managers := make(map[history.Source]manager.Manager)
	if cfg.Sonarr != nil {
		managers[history.SourceSonarr] = manager.NewSonarr(cfg.Sonarr.URL, cfg.Sonarr.APIKey)
	}
	if cfg.Radarr != nil {
		managers[history.SourceRadarr] = manager.NewRadarr(cfg.Radarr.URL, cfg.Radarr.APIKey)
	}

	var plexClient *plex.Client
	if cfg.Plex != nil {
		var opts []plex.Option
		if cfg.Plex.LocalPath != "" {
			opts = append(opts, plex.WithPathMapping(cfg.Plex.LocalPath, cfg.Plex.RemotePath))
		}
		plexClient = plex.NewClient(cfg.Plex.URL, cfg.Plex.Token, logger, opts...)
	}

	// === Services ===
	ranker := rank.New(rank.Config{
		PreferredLanguage: cfg.Search.PreferredLanguage,
		LanguageBonus:     cfg.Search.LanguageBonus,
		MaxSizeGB:         cfg.Search.MaxSizeGB,
		MinResolution:     mediainfo.ResolutionFromString(cfg.Search.MinQuality),
	})
	orchestrator := search.NewOrchestrator(provider, cache, ranker, cfg.Search.TopN, logger)

	confirmer := confirm.NewConfirmer(pendingStore, historyStore, orchestrator, gateway, logger)
	requests := request.NewService(orchestrator, pendingStore, managers, logger)
	upgrades := upgrade.New(historyStore, gateway, managers, plexClient, cfg.PyLoad.DownloadDir, logger)
	mv := mover.New(historyStore, gateway, managers, plexClient, cfg.PyLoad.DownloadDir, logger)

	retention := mover.NewRetention(historyStore, pendingStore, cache,
		time.Duration(cfg.Mover.RetentionDays)*24*time.Hour, logger)
	loop := mover.NewLoop(cfg.Mover.Interval.Duration(), cfg.Mover.Grace.Duration(),
		func(ctx context.Context) {
			mv.ProcessAll(ctx)
			retention.Run()
		}, logger)

	// === HTTP Setup ===
	mux := http.NewServeMux()
	api.New(pendingStore, confirmer, requests, upgrades, historyStore, version).RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"sonarr", cfg.Sonarr != nil,
		"radarr", cfg.Radarr != nil,
		"plex", plexClient != nil,
		"mover_interval", cfg.Mover.Interval.Duration().String(),
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		// Graceful HTTP shutdown with 30s timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
