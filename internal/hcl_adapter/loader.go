// Package hcl_adapter loads native HCL schema documents into the
// format-agnostic idl model.
package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL schema loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every file and returns one document per program block, in
// file order.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*idl.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	var docs []*idl.Document
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file: %w", err)
		}
		loaded, err := l.Parse(ctx, src, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}

	logger.Debug("HCL loading complete.", "documents", len(docs))
	return docs, nil
}

// Parse reads schema documents from HCL source. filename is only used in
// diagnostics.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) ([]*idl.Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	docs := make([]*idl.Document, 0, len(root.Programs))
	for _, p := range root.Programs {
		doc, err := l.translateProgram(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
