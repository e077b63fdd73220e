// Package raydium ships the Raydium AMM v4 instruction layout as a builtin
// schema written in the native HCL format.
package raydium

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/specialistvlad/ixdecode/internal/hcl_adapter"
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// ProgramID is the Raydium AMM v4 program address.
const ProgramID = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"

//go:embed amm_v4.hcl
var schemaHCL []byte

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Documents parses the embedded schema.
func (m *Module) Documents(ctx context.Context) ([]*idl.Document, error) {
	docs, err := hcl_adapter.NewLoader().Parse(ctx, schemaHCL, "raydium/amm_v4.hcl")
	if err != nil {
		return nil, fmt.Errorf("raydium: %w", err)
	}
	return docs, nil
}
