package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"formicarium/internal/config"
	"formicarium/internal/runner"
	sqlitestore "formicarium/internal/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default: ~/.formicarium/config.toml)")
	dbPathFlag := flag.String("db", "", "sqlite database path override")
	seedFlag := flag.Int64("seed", 0, "simulation seed override")
	maxGenFlag := flag.Uint64("max-generations", 0, "generation cap override")
	unthrottled := flag.Bool("unthrottled", false, "run as fast as possible instead of at the configured fps")
	flag.Parse()

	cfg, warn := config.LoadOrDefault(*configPath)
	if warn != nil {
		log.Printf("using default config: %v", warn)
	}

	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if *maxGenFlag > 0 {
		cfg.Runner.MaxGenerations = *maxGenFlag
	}
	if *unthrottled {
		cfg.FPS = 0
	}

	dbPath := firstNonEmpty(*dbPathFlag, cfg.Runner.DBPath, "data/formicarium.db")
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		log.Fatalf("resolve db path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Fatalf("create db directory: %v", err)
	}

	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		log.Fatalf("open sqlite store: %v", err)
	}
	defer func() {
		_ = store.Close()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("migrate sqlite: %v", err)
	}

	svc, err := runner.FromConfig(cfg, store, nil, log.Default())
	if err != nil {
		log.Fatalf("assemble colony: %v", err)
	}

	log.Printf("formicarium started db=%s seed=%d grid=%dx%d ants=%d morsels=%dx%d",
		dbPath, cfg.Seed, cfg.Environment.Width, cfg.Environment.Height,
		cfg.Ants.Count, cfg.Morsels.Count, cfg.Morsels.Supply)

	run, err := svc.Run(ctx)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}
	log.Printf("run %s %s: %d/%d units stored in %d generations",
		run.ID, run.Status, run.Stored, run.TotalSupply, run.Generations)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
