package config

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// Dispatcher is a Loader that hands each file to the loader registered for
// its extension.
type Dispatcher struct {
	loaders map[string]Loader
}

// NewDispatcher creates a Dispatcher with no registered formats.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{loaders: make(map[string]Loader)}
}

// Register binds a loader to a file extension such as ".json".
func (d *Dispatcher) Register(ext string, l Loader) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		panic(fmt.Sprintf("extension %q must start with a dot", ext))
	}
	d.loaders[ext] = l
}

// Extensions lists the registered extensions in sorted order.
func (d *Dispatcher) Extensions() []string {
	return slices.Sorted(maps.Keys(d.loaders))
}

// Load expands the paths with FindFiles and loads every file, keeping the
// discovery order of the files.
func (d *Dispatcher) Load(ctx context.Context, paths ...string) ([]*idl.Document, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := FindFiles(paths, d.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered schema files.", "count", len(files))

	var docs []*idl.Document
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file))
		l, ok := d.loaders[ext]
		if !ok {
			return nil, fmt.Errorf("no schema loader for %s (supported: %s)", file, strings.Join(d.Extensions(), ", "))
		}
		loaded, err := l.Load(ctx, file)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}
