package anchoridl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// Loader reads Anchor IDL files from disk.
type Loader struct{}

// NewLoader creates a new Anchor IDL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every path as an Anchor IDL. Documents without a name are named
// after their file.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*idl.Document, error) {
	logger := ctxlog.FromContext(ctx)
	docs := make([]*idl.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read Anchor IDL: %w", err)
		}
		doc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if doc.Name == "" {
			doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		logger.Debug("Loaded Anchor IDL.", "path", path, "name", doc.Name, "instructions", len(doc.Variants))
		docs = append(docs, doc)
	}
	return docs, nil
}
