package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eshaffer321/saletrack/internal/cli"
	"github.com/eshaffer321/saletrack/internal/infrastructure/config"
)

func main() {
	flags, err := cli.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	// A missing .env file is fine; the environment may already be set
	if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", flags.EnvFile, err)
		os.Exit(1)
	}

	cfg := config.LoadOrEnv(flags.ConfigPath)

	app, err := cli.NewApp(cfg, flags.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	if flags.Check {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := cli.RunCheck(ctx, app, flags, os.Stdout); err != nil {
			app.Logger.Error("email check failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := cli.RunServe(app, flags); err != nil {
		app.Logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
