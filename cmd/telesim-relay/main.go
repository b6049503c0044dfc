// Command telesim-relay runs the telephony-to-Telegram notification relay.
//
// It accepts classified SMS and call events over the ingest API, formats
// them into notification text, and delivers them through a durable
// MySQL-backed dispatch queue with linear-backoff retries.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"

	"github.com/telesim/dispatch"
	"github.com/telesim/dispatch/config"
	"github.com/telesim/dispatch/ingest"
	"github.com/telesim/dispatch/line"
	"github.com/telesim/dispatch/mysql"
	"github.com/telesim/dispatch/pipeline"
	"github.com/telesim/dispatch/telegram"
)

const exitUsage = 2

// slogAdapter bridges log/slog to the dispatch logging hooks.
type slogAdapter struct {
	logger *slog.Logger
}

func (l slogAdapter) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l slogAdapter) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l slogAdapter) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l slogAdapter) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func main() {
	var (
		configPath string
		verbose    bool
	)

	flag.StringVar(&configPath, "config", "/etc/telesim/config.toml", "Path to the TOML config file")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slogAdapter{logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}

	if err := run(configPath, logger); err != nil {
		logger.Error("relay stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, logger slogAdapter) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Store.DSN == "" {
		fmt.Fprintln(os.Stderr, "store.dsn is required (or set TELESIM_STORE_DSN)")
		os.Exit(exitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("mysql", cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	store, err := mysql.NewStore(db, mysql.WithTable(cfg.Store.Table))
	if err != nil {
		return err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	registry := line.NewRegistry(line.StaticProvider{Subscriptions: cfg.Subscriptions()})
	settings := config.NewProvider(configPath)
	client := telegram.NewClient(telegram.WithLogger(logger))
	sender := pipeline.NewSender(settings, client)

	queueOpts := []dispatch.QueueOption{
		dispatch.WithWorkers(cfg.Queue.Workers),
		dispatch.WithMaxAttempts(cfg.Queue.MaxAttempts),
		dispatch.WithBackoffBase(cfg.Queue.Backoff.Duration()),
		dispatch.WithFailureClassifier(pipeline.ClassifyFailure),
		dispatch.WithLogger(logger),
	}
	if cfg.Queue.NetworkProbeAddr != "" {
		queueOpts = append(queueOpts, dispatch.WithNetworkMonitor(&dispatch.DialMonitor{
			Address: cfg.Queue.NetworkProbeAddr,
		}))
	}
	queue := dispatch.NewQueue(store, sender, queueOpts...)

	p := pipeline.New(registry, queue, logger)
	server := ingest.NewServer(cfg.Ingest.Addr, cfg.Ingest.AuthToken, p, registry, logger)

	errCh := make(chan error, 3)

	go func() {
		errCh <- queue.Run(ctx)
	}()
	go func() {
		errCh <- server.Run(ctx)
	}()
	if cfg.Store.Retention.Duration() > 0 {
		maintainer, err := mysql.NewCleanupMaintainer(db, mysql.CleanupMaintainerConfig{
			Table:            cfg.Store.Table,
			Retention:        cfg.Store.Retention.Duration(),
			CheckEvery:       cfg.Store.CleanupEvery.Duration(),
			IncludeAbandoned: true,
			Logger:           logger,
		})
		if err != nil {
			return err
		}
		go func() {
			errCh <- maintainer.Run(ctx)
		}()
	}

	logger.Info("relay started",
		"ingest_addr", cfg.Ingest.Addr,
		"workers", cfg.Queue.Workers,
		"table", cfg.Store.Table)

	err = <-errCh
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
