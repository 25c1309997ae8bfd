package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/ta-nakaxx/terraria-collection-manager/internal/export"
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
		input      = flag.String("input", "", "Raw item file: .json, .jsonl or .html (required)")
		rulesPath  = flag.String("rules", "", "Rule table YAML (default: built-in tables)")
		policyPath = flag.String("policy", "", "Validation policy YAML (default: built-in policy)")
		dbPath     = flag.String("db", "", "SQLite database to store items and the run report")
		outDir     = flag.String("out", "", "Output directory for JSON files")
		format     = flag.String("format", "json", "Output format: json, xlsx or both")
		skipValid  = flag.Bool("skip-validation", false, "Write every classified item without validating")
		maxItems   = flag.Int("max-items", 0, "Only convert the first N items (0 = all)")
		workers    = flag.Int("workers", 0, "Classification workers (default from settings)")
		plain      = flag.Bool("plain", false, "Print the report without terminal styling")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}
	switch *format {
	case "json", "xlsx", "both":
	default:
		log.Fatalf("--format must be json, xlsx or both, got %q", *format)
	}

	app, err := config.LoadApp(*cfgPath)
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	override(&app.Rules, *rulesPath)
	override(&app.Policy, *policyPath)
	override(&app.Database, *dbPath)
	override(&app.OutputDir, *outDir)
	if *workers > 0 {
		app.Workers = *workers
	}

	logger, err := logging.New(app.Log.Level, app.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if err := run(app, *input, *format, *skipValid, *maxItems, !*plain, logger); err != nil {
		logger.Error("build failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func run(app *config.App, input, format string, skipValid bool, maxItems int, styled bool, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.Loader{RulesPath: app.Rules, PolicyPath: app.Policy}
	components, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load configs: %w", err)
	}

	raws, err := source.LoadRaw(input, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded raw items", zap.String("input", input), zap.Int("count", len(raws)))

	var st store.Store
	if app.Database != "" {
		st, err = sqlite.OpenSQLite(ctx, app.Database)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
	}

	cat := catalog.New(catalog.Options{
		Classifier: components.Classifier,
		Validator:  components.Validator,
		Store:      st,
		Logger:     logger,
		Workers:    app.Workers,
	})
	defer cat.Close()

	res, err := cat.Build(ctx, raws, catalog.BuildOptions{
		Source:         filepath.Base(input),
		MaxItems:       maxItems,
		SkipValidation: skipValid,
	})
	if err != nil {
		return err
	}

	if format == "json" || format == "both" {
		paths, err := export.WriteJSON(app.OutputDir, res.Items)
		if err != nil {
			return err
		}
		statsPath, err := export.WriteStats(app.OutputDir, res.Stats)
		if err != nil {
			return err
		}
		logger.Info("wrote json output", zap.Int("files", len(paths)+1), zap.String("stats", statsPath))
	}
	if format == "xlsx" || format == "both" {
		p := filepath.Join(app.OutputDir, "catalog.xlsx")
		if err := export.WriteXLSX(p, res.Items); err != nil {
			return err
		}
		logger.Info("wrote workbook", zap.String("path", p))
	}

	fmt.Print(report.Renderer{Styled: styled}.Render(res.Run))
	return nil
}
