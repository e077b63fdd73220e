package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/ixdecode/internal/catalog"
	"github.com/specialistvlad/ixdecode/internal/config"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/server"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	modules    []catalog.Module
	catalogs   *catalog.Holder
	service    *server.Service
	httpServer *http.Server
}

// NewApp builds the program catalog and returns a ready App. Decoded output
// goes to outW and logs go to logW. When modules is empty and cfg.Builtin is
// set, the builtin modules are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...catalog.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 && cfg.Builtin {
		modules = builtinModules
	}
	a := &App{
		ctx:     ctx,
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  newLoader(),
		modules: modules,
	}
	if cfg.PrintIDLSchema {
		return a, nil
	}

	c, err := a.buildCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	logger.Info("Schemas loaded.", "programs", c.Names())

	a.catalogs = catalog.NewHolder(c)
	a.service = server.NewService(a.catalogs)
	return a, nil
}

func (a *App) buildCatalog(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.Build(ctx, a.loader, a.config.IDLPaths, a.modules...)
}

// Catalog returns the catalog currently used for decoding.
func (a *App) Catalog() *catalog.Catalog {
	if a.catalogs == nil {
		return nil
	}
	return a.catalogs.Load()
}
