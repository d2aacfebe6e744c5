package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/okian/streamgem/internal/adapters/gemini"
	"github.com/okian/streamgem/internal/adapters/http/api"
	"github.com/okian/streamgem/internal/adapters/http/swagger"
	service "github.com/okian/streamgem/internal/app"
	"github.com/okian/streamgem/internal/config"
	"github.com/okian/streamgem/internal/domain/discovery"
	"github.com/okian/streamgem/internal/domain/normalize"
	"github.com/okian/streamgem/pkg/logger"
	"github.com/okian/streamgem/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6

	// A discovery call may wait on the provider for the whole upstream
	// timeout, so writes get that plus headroom.
	writeTimeoutHeadroom = 10 * time.Second
)

func main() {
	// Our registry is custom; keep the default Go collectors out of it.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	if cfg.APIKey == "" {
		log.Warn(ctx, "no search provider credential configured; discovery requests will fail",
			logger.String("env", config.EnvPrefix+"API_KEY"))
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc, log),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.UpstreamTimeout() + writeTimeoutHeadroom,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newService wires discovery, normalization and the leaderboard from cfg.
func newService(cfg *config.Config, log logger.Logger) *service.Service {
	registrable := normalize.HeuristicRegistrableDomain
	if strings.EqualFold(cfg.ParentDomainStrategy, config.StrategyPublicSuffix) {
		registrable = normalize.PublicSuffixRegistrableDomain
	}

	norm := normalize.New(
		normalize.WithHostname(cfg.EmbedHostname),
		normalize.WithRegistrableDomain(registrable),
		normalize.WithExtraParentDomains(cfg.ExtraParentDomains...),
		normalize.WithPlayerBaseURL(cfg.PlayerBaseURL),
		normalize.WithThumbnailBaseURL(cfg.ThumbnailBaseURL),
		normalize.WithLogger(log.Named("normalize")),
	)

	searcher := gemini.New(
		gemini.WithModel(cfg.Model),
		gemini.WithBaseURL(cfg.ProviderBaseURL),
	)
	disc := discovery.New(searcher,
		discovery.WithCredential(cfg.APIKey),
		discovery.WithBatchSize(cfg.BatchSize),
		discovery.WithViewerRange(cfg.ViewerMin, cfg.ViewerMax, cfg.ViewerTarget),
		discovery.WithTimeout(cfg.UpstreamTimeout()),
		discovery.WithRateLimit(cfg.UpstreamRPS, cfg.UpstreamBurst),
		discovery.WithLogger(log.Named("discovery")),
	)

	return service.New(
		service.WithLogger(log),
		service.WithDiscoverer(disc),
		service.WithNormalizer(norm),
		service.WithVoteDedupeSize(cfg.VoteDedupeSize),
		service.WithOfflineDedupeSize(cfg.OfflineDedupeSize),
		service.WithCatalogSize(cfg.CatalogSize),
		service.WithLeaderboardLimits(cfg.LeaderboardDefaultLimit, cfg.MaxLeaderboardLimit),
	)
}

// newMux registers the API and documentation routes.
func newMux(ctx context.Context, svc *service.Service, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, log.Named("http")).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes the catalog and leaderboard gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats updates the gauges as a side effect.
			_ = svc.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
