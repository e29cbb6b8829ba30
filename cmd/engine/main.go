package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"jobfeed-engine/internal/config"
	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/fetchutil"
	"jobfeed-engine/internal/httpapi"
	"jobfeed-engine/internal/logging"
	"jobfeed-engine/internal/provider"
	"jobfeed-engine/internal/scheduler"
	"jobfeed-engine/internal/search"
	"jobfeed-engine/internal/secrets"
	"jobfeed-engine/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := os.Getenv("JOBFEED_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// one engine per data dir; a second instance would fight over sqlite
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		return fmt.Errorf("another engine instance holds %s", lock.Path())
	}
	defer lock.Unlock()

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	log, err := logging.New(cfg.App.Debug)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	st, err := store.Open(filepath.Join(dataDir, "jobfeed.db"))
	if err != nil {
		return err
	}
	defer st.Close()
	if err := store.Migrate(st.Pool); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// config-level provider overrides seed settings rows once at boot;
	// stored rows keep winning afterwards
	for id, ov := range cfg.Providers {
		if ov.Endpoint == "" && len(ov.Headers) == 0 {
			continue
		}
		existing, err := st.GetSettings(ctx, id)
		if err != nil {
			return err
		}
		if existing.Endpoint != "" || len(existing.Headers) > 0 {
			continue
		}
		if err := st.UpsertSettings(ctx, id, provider.Settings{
			Endpoint: ov.Endpoint,
			Headers:  ov.Headers,
		}); err != nil {
			return err
		}
	}

	limiter := fetchutil.NewHostLimiter(cfg.Limits.RequestsPerSec, cfg.Limits.Burst)
	registry := provider.NewRegistry(nil, limiter)
	hub := events.NewHub()

	sched := &scheduler.Scheduler{
		Store:           st,
		Registry:        registry,
		RefreshInterval: time.Duration(cfg.Scheduler.RefreshHours) * time.Hour,
		Log:             log,
		Hub:             hub,
		TokenFor:        secrets.GetProviderToken,
	}
	searchSvc := &search.Service{Store: st}

	c := cron.New()
	spec := fmt.Sprintf("@every %dh", cfg.Scheduler.SyncEveryHours)
	if _, err := c.AddFunc(spec, func() {
		if _, err := sched.SyncDueProviders(ctx); err != nil {
			log.Errorw("sync due providers", "err", err)
		}
	}); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	// populate the feed without waiting for the first tick
	go func() {
		if _, err := sched.SyncDueProviders(ctx); err != nil {
			log.Errorw("initial sync", "err", err)
		}
	}()

	mux := httpapi.NewMux(httpapi.Deps{
		Store:       st,
		Hub:         hub,
		Log:         log,
		Scheduler:   sched,
		Search:      searchSvc,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
	}, registry)

	srv := &http.Server{
		Addr: fmt.Sprintf("127.0.0.1:%d", cfg.App.Port),
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover(log),
			httpapi.AccessLog(log),
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("engine listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
