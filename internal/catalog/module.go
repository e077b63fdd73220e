package catalog

import (
	"context"
	"fmt"

	"github.com/specialistvlad/ixdecode/internal/config"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// Module is implemented by packages that ship schema documents compiled into
// the binary.
type Module interface {
	Documents(ctx context.Context) ([]*idl.Document, error)
}

// Build loads the schema files under paths, appends the documents of every
// module and registers them all in a new catalog. A nil loader skips the
// file step.
func Build(ctx context.Context, loader config.Loader, paths []string, modules ...Module) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	var docs []*idl.Document
	for _, m := range modules {
		moduleDocs, err := m.Documents(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load builtin module %T: %w", m, err)
		}
		docs = append(docs, moduleDocs...)
	}
	if loader != nil && len(paths) > 0 {
		fileDocs, err := loader.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fileDocs...)
	}

	c := New()
	if err := c.AddAll(ctx, docs); err != nil {
		return nil, err
	}
	logger.Debug("Catalog built.", "programs", c.Len(), "names", c.Names())
	return c, nil
}
