package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ta-nakaxx/terraria-collection-manager/internal/logging"
	"github.com/ta-nakaxx/terraria-collection-manager/internal/server"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/config"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store/memstore"
	"github.com/ta-nakaxx/terraria-collection-manager/pkg/catalog/store/sqlite"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "Optional settings file (.yaml, .yml or .toml)")
		addr    = flag.String("addr", "", "Listen address (default from settings, :8080)")
		dbPath  = flag.String("db", "", "SQLite database (empty: in-memory store)")
	)
	flag.Parse()

	app, err := config.LoadApp(*cfgPath)
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	if *addr != "" {
		app.Server.Addr = *addr
	}
	if *dbPath != "" {
		app.Database = *dbPath
	}

	logger, err := logging.New(app.Log.Level, app.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	loader := config.Loader{RulesPath: app.Rules, PolicyPath: app.Policy}
	components, err := loader.Load()
	if err != nil {
		logger.Fatal("load configs", zap.Error(err))
	}

	var st store.Store
	if app.Database != "" {
		st, err = sqlite.OpenSQLite(context.Background(), app.Database)
		if err != nil {
			logger.Fatal("open store", zap.String("path", app.Database), zap.Error(err))
		}
	} else {
		st = memstore.New()
		logger.Warn("no database configured, using in-memory store")
	}

	cat := catalog.New(catalog.Options{
		Classifier: components.Classifier,
		Validator:  components.Validator,
		Store:      st,
		Logger:     logger,
		Workers:    app.Workers,
	})
	defer cat.Close()

	srv := &http.Server{
		Addr:              app.Server.Addr,
		Handler:           server.New(cat, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
