package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/specialistvlad/ixdecode/internal/anchoridl"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/render"
	"github.com/specialistvlad/ixdecode/internal/server"
	"github.com/specialistvlad/ixdecode/internal/watch"
)

// Run executes the main application logic based on the app's configuration.
// In serve mode it blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.")

	if a.config.PrintIDLSchema {
		return a.printIDLSchema()
	}

	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	if a.config.Listen != "" {
		return a.serve(ctx)
	}
	return a.decodeAll(ctx)
}

func (a *App) serve(ctx context.Context) error {
	if a.config.Watch {
		w, err := watch.New(a.catalogs, a.buildCatalog, a.config.IDLPaths)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				a.logger.Error("Schema watcher stopped.", "error", err)
			}
		}()
	}
	return server.New(ctx, a.service).ListenAndServe(ctx, a.config.Listen)
}

// decodeAll decodes every data argument, printing each result. It keeps going
// after a failure and reports all failures together.
func (a *App) decodeAll(ctx context.Context) error {
	format, err := render.ParseFormat(a.config.Output)
	if err != nil {
		return err
	}

	var errs []string
	for i, data := range a.config.Data {
		req := &server.Request{
			Data:      data,
			Encoding:  a.config.Encoding,
			ProgramID: a.config.Program,
			Accounts:  a.config.Accounts,
		}
		res, err := a.service.Decode(ctx, req)
		if err != nil {
			errs = append(errs, fmt.Sprintf("argument %d: %s", i+1, err))
			continue
		}
		if err := render.Write(a.outW, format, res); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("decode failed:\n- %s", strings.Join(errs, "\n- "))
	}
	a.logger.Debug("App.Run method finished.", "decoded", len(a.config.Data))
	return nil
}

func (a *App) printIDLSchema() error {
	out, err := json.MarshalIndent(anchoridl.JSONSchema(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render IDL schema: %w", err)
	}
	_, err = fmt.Fprintln(a.outW, string(out))
	return err
}
