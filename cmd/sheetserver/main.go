package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/charsheet/internal/config"
	"github.com/udisondev/charsheet/internal/db"
	"github.com/udisondev/charsheet/internal/sheet"
	"github.com/udisondev/charsheet/internal/sheetserver"
)

const ConfigPath = "config/sheetserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("CHARSHEET_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	})))

	slog.Info("charsheet server starting")
	slog.Info("config loaded", "bind", cfg.BindAddress, "port", cfg.Port, "db_host", cfg.Database.Host)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	svc := sheet.New(
		db.NewSheetRepository(database.Pool()),
		db.NewResultRepository(database.Pool()),
	)

	return sheetserver.NewServer(cfg, svc).Run(ctx)
}
