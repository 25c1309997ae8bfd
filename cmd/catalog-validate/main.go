package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ta-nakaxx/terraria-collection-manager/internal/logging"
	"github.com/ta-nakaxx/terraria-collection-manager/internal/source"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/config"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/report"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store/sqlite"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "Optional settings file (.yaml, .yml or .toml)")
		input      = flag.String("input", "", "Classified items JSON array (default: <out>/all-items.json)")
		policyPath = flag.String("policy", "", "Validation policy YAML (default: built-in policy)")
		dbPath     = flag.String("db", "", "Optional SQLite database to record the run in")
		reportPath = flag.String("report", "", "Write the plain text report to this file")
		plain      = flag.Bool("plain", false, "Print the report without terminal styling")
	)
	flag.Parse()

	app, err := config.LoadApp(*cfgPath)
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	if *policyPath != "" {
		app.Policy = *policyPath
	}
	if *dbPath != "" {
		app.Database = *dbPath
	}
	if *input == "" {
		*input = filepath.Join(app.OutputDir, "all-items.json")
	}

	logger, err := logging.New(app.Log.Level, app.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	valid, err := run(app, *input, *reportPath, !*plain, logger)
	if err != nil {
		logger.Error("validation failed", zap.Error(err))
	}
	if err != nil || !valid {
		logger.Sync()
		os.Exit(1)
	}
}

func run(app *config.App, input, reportPath string, styled bool, logger *zap.Logger) (bool, error) {
	ctx := context.Background()

	loader := config.Loader{RulesPath: app.Rules, PolicyPath: app.Policy}
	components, err := loader.Load()
	if err != nil {
		return false, fmt.Errorf("load configs: %w", err)
	}

	items, err := source.LoadItems(input)
	if err != nil {
		return false, err
	}

	var st store.Store
	if app.Database != "" {
		st, err = sqlite.OpenSQLite(ctx, app.Database)
		if err != nil {
			return false, fmt.Errorf("open store: %w", err)
		}
	}
	cat := catalog.New(catalog.Options{
		Classifier: components.Classifier,
		Validator:  components.Validator,
		Store:      st,
		Logger:     logger,
	})
	defer cat.Close()

	r, err := cat.Validate(ctx, filepath.Base(input), items)
	if err != nil {
		return false, err
	}

	if reportPath != "" {
		if err := os.WriteFile(reportPath, []byte(r.Validation.Text()), 0o644); err != nil {
			return false, fmt.Errorf("write report: %w", err)
		}
		logger.Info("wrote report", zap.String("path", reportPath))
	}
	fmt.Print(report.Renderer{Styled: styled}.Render(r))

	logger.Info("validated catalog",
		zap.String("input", input),
		zap.Int("items", len(items)),
		zap.Bool("valid", r.IsValid),
		zap.Int("quality_score", r.QualityScore),
	)
	return r.IsValid, nil
}
