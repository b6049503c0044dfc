// Command telesim-cleanup removes old terminal jobs from the relay's MySQL
// table.
//
// It wraps mysql.CleanupMaintainer for use in cron when the relay daemon
// itself should not run DELETE statements.
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
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/telesim/dispatch/mysql"
)

const exitUsage = 2

type slogAdapter struct {
	logger *slog.Logger
}

func (l slogAdapter) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l slogAdapter) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l slogAdapter) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l slogAdapter) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func main() {
	var (
		dsn              string
		table            string
		retention        time.Duration
		checkEvery       time.Duration
		limit            int
		includeAbandoned bool
		once             bool
		verbose          bool
	)

	flag.StringVar(&dsn, "dsn", "", "MySQL DSN, e.g. user:pass@tcp(host:3306)/db?parseTime=true")
	flag.StringVar(&table, "table", "notification_jobs", "Jobs table name")
	flag.DurationVar(&retention, "retention", 0, "Delete jobs older than this duration")
	flag.DurationVar(&checkEvery, "check-every", time.Hour, "How often to run cleanup")
	flag.IntVar(&limit, "limit", 0, "Max rows deleted per run (0 uses default)")
	flag.BoolVar(&includeAbandoned, "include-abandoned", false, "Delete abandoned jobs as well")
	flag.BoolVar(&once, "once", false, "Run once and exit")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	if dsn == "" {
		fmt.Fprintln(os.Stderr, "dsn is required")
		flag.Usage()
		os.Exit(exitUsage)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slogAdapter{logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}

	if err := run(dsn, table, retention, checkEvery, limit, includeAbandoned, once, logger); err != nil {
		logger.Error("cleanup failed", "err", err)
		os.Exit(1)
	}
}

func run(dsn, table string, retention, checkEvery time.Duration, limit int, includeAbandoned, once bool, logger slogAdapter) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	maintainer, err := mysql.NewCleanupMaintainer(db, mysql.CleanupMaintainerConfig{
		Table:            table,
		Retention:        retention,
		CheckEvery:       checkEvery,
		Limit:            limit,
		IncludeAbandoned: includeAbandoned,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if once {
		result, err := maintainer.RunOnce(ctx)
		if err != nil {
			return err
		}
		logger.Info("cleanup finished", "delivered", result.Delivered, "abandoned", result.Abandoned)

		return nil
	}

	if err := maintainer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
