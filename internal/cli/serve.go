package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/saletrack/internal/api"
)

// RunServe runs the API server and the health scheduler until SIGINT/SIGTERM.
func RunServe(app *App, flags Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := app.Config.API.Port
	if flags.Port > 0 {
		port = flags.Port
	}

	server := api.NewServer(api.Config{
		Port:           port,
		AllowedOrigins: app.Config.API.AllowedOrigins,
	}, api.Services{
		Monitor:  app.Monitor,
		Notifier: app.Notifier,
		Ledger:   app.Ledger,
		Health:   app.Health,
		Mailbox:  app.Mailbox,
		Store:    app.Store,
	}, app.Logger.With("system", "api"))

	go app.Health.Schedule(ctx, time.Duration(app.Config.Health.IntervalHours)*time.Hour)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		app.Logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("server shutdown error", slog.Any("error", err))
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// RunCheck runs one scan and prints the orders it found.
func RunCheck(ctx context.Context, app *App, flags Flags, w io.Writer) error {
	PrintHeader(w, "email check")

	batch, err := app.Monitor.CheckEmails(ctx, flags.Force, flags.Days)
	if err != nil {
		return err
	}

	PrintScanSummary(w, batch, app.Monitor.OrderCount())
	return nil
}
