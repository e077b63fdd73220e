// Package jupiter ships the instruction layout of the Jupiter v6 aggregator
// (the route family) as a builtin schema.
package jupiter

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/specialistvlad/ixdecode/internal/anchoridl"
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// ProgramID is the Jupiter v6 program address.
const ProgramID = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"

//go:embed idl.json
var idlJSON []byte

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Documents parses the embedded Anchor IDL.
func (m *Module) Documents(ctx context.Context) ([]*idl.Document, error) {
	doc, err := anchoridl.Parse(idlJSON)
	if err != nil {
		return nil, fmt.Errorf("jupiter: %w", err)
	}
	return []*idl.Document{doc}, nil
}

// IDL returns the embedded Anchor IDL.
func IDL() []byte {
	out := make([]byte, len(idlJSON))
	copy(out, idlJSON)
	return out
}
