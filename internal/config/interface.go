package config

import (
	"context"

	"github.com/specialistvlad/ixdecode/internal/idl"
)

// Loader is the interface for a format-specific schema document loader.
type Loader interface {
	// Load reads schema documents from the given files and translates them
	// into the format-agnostic model.
	Load(ctx context.Context, paths ...string) ([]*idl.Document, error)
}
