// recompute computes character sheets from the command line.
//
// Usage:
//
//	go run ./cmd/recompute 1 2 3
//	go run ./cmd/recompute -store -all
//	go run ./cmd/recompute -store -limit 8 42
//
// Without -store the computed sheets are printed as JSON, one document per
// character, and nothing is written back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/udisondev/charsheet/internal/config"
	"github.com/udisondev/charsheet/internal/db"
	"github.com/udisondev/charsheet/internal/sheet"
	"github.com/udisondev/charsheet/internal/sheetserver"
)

func main() {
	cfgPath := flag.String("config", "config/sheetserver.yaml", "path to config file")
	store := flag.Bool("store", false, "write computed results back to the database")
	all := flag.Bool("all", false, "recompute every character")
	limit := flag.Int("limit", 0, "max concurrent computations (default from config)")
	flag.Parse()

	if err := run(context.Background(), *cfgPath, *store, *all, *limit, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string, store, all bool, limit int, args []string) error {
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	})))
	if limit < 1 {
		limit = cfg.RecomputeLimit
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	ids, err := characterIDs(ctx, database, all, args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no characters to recompute")
	}

	svc := sheet.New(
		db.NewSheetRepository(database.Pool()),
		db.NewResultRepository(database.Pool()),
	)

	if store {
		done := svc.RecomputeMany(ctx, ids, limit)
		slog.Info("recompute finished", "done", done, "total", len(ids))
		if done < len(ids) {
			return fmt.Errorf("%d of %d characters failed", len(ids)-done, len(ids))
		}
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, id := range ids {
		computed, err := svc.Recompute(ctx, id)
		if err != nil {
			return fmt.Errorf("recomputing character %d: %w", id, err)
		}
		if err := enc.Encode(sheetserver.NewSheetResponse(computed)); err != nil {
			return fmt.Errorf("encoding sheet %d: %w", id, err)
		}
	}
	return nil
}

// characterIDs resolves the requested character set: every character with
// -all, otherwise the ids given as arguments.
func characterIDs(ctx context.Context, database *db.DB, all bool, args []string) ([]int64, error) {
	if all {
		rows, err := db.NewCharacterRepository(database.Pool()).ListCharacters(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing characters: %w", err)
		}
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		return ids, nil
	}

	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("malformed character id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
