package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/wordify/internal/extract"
	"github.com/hyperjump/wordify/internal/metrics"
	"github.com/hyperjump/wordify/internal/scanner"
	"github.com/hyperjump/wordify/internal/server"
	"github.com/hyperjump/wordify/internal/storage"
	"github.com/hyperjump/wordify/internal/watcher"
	"github.com/hyperjump/wordify/internal/wordify"
	"github.com/hyperjump/wordify/pkg/utils"
)

func runServer(args []string, stderr io.Writer) error {
	fs := newFlagSet("server", stderr)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (directory changes, file scans, requests)")
	if err := parseArgs(fs, args); err != nil {
		return err
	}

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()

	m := metrics.New()
	scanOpts := []scanner.Option{
		scanner.WithStorage(store),
		scanner.WithEncoding(cfg.Input.Encoding),
		scanner.WithConvertOptions(wordify.WithSerialCommas(cfg.Output.SerialCommas)),
		scanner.WithIncremental(true),
		scanner.WithRecorder(m),
	}
	watchOpts := []watcher.Option{}
	if debugMode {
		scanOpts = append(scanOpts, scanner.WithLogger(logger))
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	sc := scanner.New(extract.NewExtractor(), scanOpts...)

	watchSvc := watcher.New(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		watcher.Callbacks{
			Changed: func(ctx context.Context, path string) {
				if _, err := sc.ScanFile(ctx, path, nil); err != nil {
					logger.Warn("watch scan file failed", zap.String("path", path), zap.Error(err))
				}
			},
			Removed: func(ctx context.Context, path string) {
				if err := sc.RemoveFile(ctx, path); err != nil {
					logger.Warn("watch remove file failed", zap.String("path", path), zap.Error(err))
				}
			},
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watchSvc.Stop()
	watchSvc.SyncExistingFiles()

	srv := server.NewServer(sc, store, cfg, logger,
		server.WithWatch(watchSvc, resolvedConfigPath),
		server.WithMetrics(m),
	)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
