package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ta-nakaxx/terraria-collection-manager/internal/logging"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/config"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/maintenance"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store/sqlite"
)

func main() {
	var (
		cfgPath   = flag.String("config", "", "Optional settings file (.yaml, .yml or .toml)")
		dbPath    = flag.String("db", "", "SQLite database holding the catalog (required)")
		rulesPath = flag.String("rules", "", "Rule table YAML (default: built-in tables)")
		dryRun    = flag.Bool("dry-run", false, "Report changes without writing them")
	)
	flag.Parse()

	app, err := config.LoadApp(*cfgPath)
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	if *dbPath != "" {
		app.Database = *dbPath
	}
	if *rulesPath != "" {
		app.Rules = *rulesPath
	}
	if app.Database == "" {
		log.Fatal("--db required")
	}

	logger, err := logging.New(app.Log.Level, app.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.Loader{RulesPath: app.Rules}
	components, err := loader.Load()
	if err != nil {
		logger.Fatal("load configs", zap.Error(err))
	}

	st, err := sqlite.OpenSQLite(ctx, app.Database)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	r := maintenance.Reclassifier{
		Store:      st,
		Classifier: components.Classifier,
		Logger:     logger,
		DryRun:     *dryRun,
	}
	res, err := r.Reclassify(ctx)
	if err != nil {
		logger.Fatal("reclassify", zap.Error(err))
	}
	for _, c := range res.Changes {
		logger.Info("reclassified",
			zap.String("id", c.ID),
			zap.String("from", string(c.Before.Type)+"/"+c.Before.Category),
			zap.String("to", string(c.After.Type)+"/"+c.After.Category),
		)
	}
}
