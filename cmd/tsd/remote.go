package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signadot/tsd/cache"
	"github.com/signadot/tsd/config"
	"github.com/signadot/tsd/encode"
	"github.com/signadot/tsd/ir"
	"github.com/signadot/tsd/storage"

	"github.com/google/gops/agent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scott-cotton/cli"
)

const defaultConfigFile = "tsd.yaml"

// openStorage builds a Storage from the configuration file. The returned
// function closes the Storage and then its cache.
func openStorage(path string, log *slog.Logger, edit func(*config.Config, *storage.Spec)) (*storage.Storage, func(), error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	spec, err := cfg.Spec(log)
	if err != nil {
		return nil, nil, err
	}
	if edit != nil {
		edit(cfg, spec)
	}
	s := storage.New(*spec)
	return s, func() {
		s.Close()
		if err := spec.Cache.Close(); err != nil {
			log.Warn("closing cache", "error", err)
		}
	}, nil
}

func initRemote(cfg *InitConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Init.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: init requires 1 argument, the document to publish", cli.ErrUsage)
	}
	doc, err := getDocFile(cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	s, closer, err := openStorage(cfg.ConfigFile, cfg.log(), nil)
	if err != nil {
		return err
	}
	defer closer()
	if err := s.SetDocument(doc); err != nil {
		return err
	}
	if err := s.Publish(context.Background()); err != nil {
		return err
	}
	fmt.Fprintf(cc.Out, "published %s\n", args[0])
	return nil
}

func syncOnce(cfg *SyncConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Sync.Parse(cc, args)
	if err != nil {
		return err
	}
	log := cfg.log()
	s, closer, err := openStorage(cfg.ConfigFile, log, nil)
	if err != nil {
		return err
	}
	defer closer()
	if _, err := s.Sync(context.Background(), cfg.Override); err != nil {
		return err
	}
	if st := s.Status(); st != storage.Online {
		log.Warn("remote unavailable, showing cached document", "status", st)
	}
	if s.HasLocalOnlyChanges() {
		log.Warn("local changes were not uploaded")
	}
	return s.View(func(doc *ir.Element) error {
		return encode.Encode(doc, cc.Out, cfg.encOpts(cc.Out)...)
	})
}

func watch(cfg *WatchConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Watch.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Every <= 0 {
		return fmt.Errorf("%w: -every must be positive", cli.ErrUsage)
	}
	log := cfg.log()
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent failed: %v\n", err)
		}
		defer agent.Close()
	}
	reg := prometheus.NewRegistry()
	s, closer, err := openStorage(cfg.ConfigFile, log, func(_ *config.Config, spec *storage.Spec) {
		spec.Metrics = storage.NewMetrics(reg)
		if p, ok := spec.Cache.(*cache.Pebble); ok {
			reg.MustRegister(cache.NewPebbleCollector(p))
		}
		spec.OnStatusChange = func(old, st storage.Status) {
			if old != st {
				fmt.Fprintf(cc.Out, "%s %s -> %s\n", time.Now().Format(time.RFC3339), old, st)
			}
		}
		spec.OnUploadFailed = func(err error) {
			log.Warn("upload failed", "error", err)
		}
		spec.OnError = func(err error) {
			log.Error("background sync", "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer closer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.Metrics, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", "error", err)
			}
		}()
		defer srv.Close()
		log.Info("serving metrics", "addr", cfg.Metrics)
	}

	ticker := time.NewTicker(cfg.Every)
	defer ticker.Stop()
	for {
		_, err := s.Sync(ctx, false)
		switch {
		case err == nil, errors.Is(err, storage.ErrSyncInProgress):
		case errors.Is(err, storage.ErrNoData):
			log.Warn("no data yet", "error", err)
		default:
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
