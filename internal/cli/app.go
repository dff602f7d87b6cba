// Package cli wires the configured components together for the saletrack command.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/saletrack/internal/adapters/mailbox"
	"github.com/eshaffer321/saletrack/internal/adapters/notify"
	"github.com/eshaffer321/saletrack/internal/application/health"
	"github.com/eshaffer321/saletrack/internal/application/inventory"
	"github.com/eshaffer321/saletrack/internal/application/monitor"
	"github.com/eshaffer321/saletrack/internal/domain/order"
	"github.com/eshaffer321/saletrack/internal/infrastructure/config"
	"github.com/eshaffer321/saletrack/internal/infrastructure/logging"
	"github.com/eshaffer321/saletrack/internal/infrastructure/storage"
)

// App holds the long-lived components built from config
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Mailbox  *mailbox.Spool
	Store    storage.Store
	Notifier monitor.Notifier
	Monitor  *monitor.Monitor
	Ledger   *inventory.Ledger
	Health   *health.Monitor
}

// NewApp opens the store and builds every component
func NewApp(cfg *config.Config, verbose bool) (*App, error) {
	loggingCfg := cfg.Observability.Logging
	if verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "saletrack")

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath, logger.With("system", "storage"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	spool := mailbox.NewSpool(cfg.Mail.SpoolDir, logger.With("system", "mailbox"))

	var notifier monitor.Notifier
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger.With("system", "smtp"))
	} else {
		logger.Warn("no SMTP host configured, notifications are logged only")
		notifier = notify.NewLogNotifier(logger.With("system", "notify"))
	}

	mon := monitor.New(spool, order.NewCollection(), monitor.Options{
		WindowDays:       cfg.Monitor.WindowDays,
		MaxResults:       cfg.Monitor.MaxResults,
		DedupByMessageID: cfg.Monitor.DedupByMessageID,
	}, logger.With("system", "monitor"))

	ledger := inventory.NewLedger(store, inventory.Options{
		VerifyRetries: cfg.Inventory.VerifyRetries,
	}, logger.With("system", "ledger"))
	if err := ledger.EnsureHeaders(context.Background()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("prepare ledger tables: %w", err)
	}

	hm := health.NewMonitor(spool, store, notifier, cfg.Health.Recipient, logger.With("system", "health"))

	return &App{
		Config:   cfg,
		Logger:   logger,
		Mailbox:  spool,
		Store:    store,
		Notifier: notifier,
		Monitor:  mon,
		Ledger:   ledger,
		Health:   hm,
	}, nil
}

// Close releases the store
func (a *App) Close() error {
	return a.Store.Close()
}
