package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/DoyleJ11/vizier-backend/internal/catalog"
	"github.com/DoyleJ11/vizier-backend/internal/config"
	"github.com/DoyleJ11/vizier-backend/internal/console"
	"github.com/DoyleJ11/vizier-backend/internal/engine"
	"github.com/DoyleJ11/vizier-backend/internal/game"
	"github.com/DoyleJ11/vizier-backend/internal/hub"
	"github.com/DoyleJ11/vizier-backend/internal/logging"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	seed := flag.Bool("seed", false, "write the built-in catalog to the configured database and exit")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		config.Exitf("config: %v", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		config.Exitf("logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		if err := seedCatalog(ctx, cfg); err != nil {
			log.Fatal("seed catalog", zap.Error(err))
		}
		log.Info("catalog seeded", zap.String("driver", cfg.CatalogDriver))
		return
	}

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Fatal("load catalog", zap.Error(err))
	}
	log.Info("catalog loaded",
		zap.Int("champions", len(cat.Champions())),
		zap.Int("challenges", len(cat.Challenges())))

	newGame := func() *game.Game {
		return game.New(cat, game.Options{
			StartingTreasury: cfg.StartingTreasury,
			StrictTreasury:   !cfg.AllowNegative,
			Margin:           engine.FactorMargin{Percent: cfg.MarginPercent},
			Logger:           log,
		})
	}

	h := hub.NewHub(ctx, log)
	defer func() { h.Inbox() <- hub.ShutdownHub{} }()

	s, err := h.Open(newGame())
	if err != nil {
		log.Fatal("open session", zap.Error(err))
	}

	if err := console.New(h, newGame, s, os.Stdout, log).Run(ctx, os.Stdin); err != nil {
		log.Error("console", zap.Error(err))
	}
}

func loadCatalog(ctx context.Context, cfg config.Config) (*catalog.Catalog, error) {
	switch {
	case cfg.CatalogDSN != "":
		store, err := catalog.OpenStore(cfg.CatalogDriver, cfg.CatalogDSN)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Load(ctx)
	case cfg.CatalogFile != "":
		return catalog.LoadFile(cfg.CatalogFile)
	default:
		return catalog.Default(), nil
	}
}

func seedCatalog(ctx context.Context, cfg config.Config) error {
	if cfg.CatalogDSN == "" {
		return fmt.Errorf("VIZIER_CATALOG_DSN is required to seed")
	}
	store, err := catalog.OpenStore(cfg.CatalogDriver, cfg.CatalogDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	src := catalog.Default()
	if cfg.CatalogFile != "" {
		if src, err = catalog.LoadFile(cfg.CatalogFile); err != nil {
			return err
		}
	}
	return store.Seed(ctx, src)
}
