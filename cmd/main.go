package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fieldgeneral/dynasty/internal/adapters/http/api"
	"github.com/fieldgeneral/dynasty/internal/adapters/sleeper"
	service "github.com/fieldgeneral/dynasty/internal/app"
	"github.com/fieldgeneral/dynasty/internal/config"
	"github.com/fieldgeneral/dynasty/internal/domain/identity"
	"github.com/fieldgeneral/dynasty/internal/domain/tiers"
	"github.com/fieldgeneral/dynasty/internal/domain/tradevalue"
	"github.com/fieldgeneral/dynasty/internal/synthetic"
	"github.com/fieldgeneral/dynasty/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second

	// syntheticLeagueID labels the generated league used when no real
	// league context is configured in synthetic mode.
	syntheticLeagueID = "synthetic"
)

func main() {
	// Disable default Go metrics collection; the service registers its own
	// metrics on a custom registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging before anything else can fail.
	if err := logger.Init(""); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := buildService(cfg, log)

	// First pass before serving so boards exist at startup.
	if err := svc.Refresh(ctx); err != nil {
		log.Error(ctx, "initial analytical pass failed", logger.Error(err))
	}
	go refreshLoop(ctx, svc, cfg.RefreshInterval, log)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildService assembles the board service from configuration.
func buildService(cfg *config.Config, log logger.Logger) *service.Service {
	rankings := synthetic.New()

	curve := tradevalue.New(
		tradevalue.WithCeiling(cfg.TradeCeiling),
		tradevalue.WithStarterCutoff(int(cfg.TradeStarterCutoff)),
		tradevalue.WithSteepLoss(cfg.TradeSteepLoss),
		tradevalue.WithTailLoss(cfg.TradeTailLoss),
		tradevalue.WithTailSpan(int(cfg.TradeTailSpan)),
	)
	engine := tiers.New(tiers.WithSeed(cfg.TierSeed))
	resolver := identity.New(identity.WithTeamAliases(cfg.TeamAliases))

	opts := []service.Option{
		service.WithRankingSource(rankings),
		service.WithTierCandidates(cfg.TierCandidates()),
		service.WithMaxTieredPlayers(cfg.MaxTieredPlayers),
		service.WithBuildWorkers(cfg.BuildWorkers),
		service.WithTradeCurve(curve),
		service.WithTieringEngine(engine),
		service.WithIdentityResolver(resolver),
		service.WithLogger(log.Named("service")),
	}

	switch cfg.DataMode {
	case config.DataModeLive:
		sleeperOpts := []sleeper.Option{
			sleeper.WithCache(sleeper.CacheConfig{Enabled: cfg.FetchCacheEnabled, TTL: cfg.FetchCacheTTL}),
			sleeper.WithLogger(log.Named("sleeper")),
		}
		if cfg.SleeperBaseURL != "" {
			sleeperOpts = append(sleeperOpts, sleeper.WithBaseURL(cfg.SleeperBaseURL))
		}
		opts = append(opts,
			service.WithRosterSource(sleeper.New(sleeperOpts...)),
			service.WithLeagueID(cfg.LeagueID),
		)
	default:
		// Synthetic rosters keep ownership attribution exercised in dev.
		leagueID := cfg.LeagueID
		if leagueID == "" {
			leagueID = syntheticLeagueID
		}
		opts = append(opts,
			service.WithRosterSource(rankings),
			service.WithLeagueID(leagueID),
		)
	}

	return service.New(opts...)
}

// refreshLoop rebuilds boards on the configured interval until ctx is done.
func refreshLoop(ctx context.Context, svc *service.Service, interval time.Duration, log logger.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.Refresh(ctx); err != nil {
				log.Error(ctx, "scheduled analytical pass failed", logger.Error(err))
			}
		}
	}
}
