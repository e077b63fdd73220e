// This file contains the logic for parsing HCL type expressions (e.g., `u64`,
// `vec(option(Side))`) into their corresponding idl.TypeSpec values.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/idl"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// typeExprToTypeSpec converts an HCL type expression into its idl.TypeSpec
// equivalent. Identifiers name primitives or defined types; vec, option,
// array and fixed_bytes are constructors.
func typeExprToTypeSpec(ctx context.Context, expr hcl.Expression) (idl.TypeSpec, error) {
	logger := ctxlog.FromContext(ctx)

	if !isExprDefined(ctx, expr, "type") {
		return nil, fmt.Errorf("missing type expression")
	}

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a constructor.", "call", v.Name)

		switch v.Name {
		case "vec", "option":
			if len(v.Args) != 1 {
				return nil, fmt.Errorf("the %s() type constructor requires exactly one argument, got %d", v.Name, len(v.Args))
			}
			elem, err := typeExprToTypeSpec(ctx, v.Args[0])
			if err != nil {
				return nil, err
			}
			if v.Name == "vec" {
				return idl.Vec{Elem: elem}, nil
			}
			return idl.Option{Elem: elem}, nil

		case "array":
			if len(v.Args) != 2 {
				return nil, fmt.Errorf("the array() type constructor requires an element type and a length, got %d arguments", len(v.Args))
			}
			elem, err := typeExprToTypeSpec(ctx, v.Args[0])
			if err != nil {
				return nil, err
			}
			n, err := lengthArg(v.Args[1])
			if err != nil {
				return nil, fmt.Errorf("in array(): %w", err)
			}
			return idl.Array{Elem: elem, Len: n}, nil

		case "fixed_bytes":
			if len(v.Args) != 1 {
				return nil, fmt.Errorf("the fixed_bytes() type constructor requires exactly one argument, got %d", len(v.Args))
			}
			n, err := lengthArg(v.Args[0])
			if err != nil {
				return nil, fmt.Errorf("in fixed_bytes(): %w", err)
			}
			return idl.FixedBytes{Len: n}, nil

		default:
			return nil, fmt.Errorf("unknown type constructor function %q", v.Name)
		}

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return nil, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		name := v.Traversal.RootName()
		logger.Debug("Parsing type expression as an identifier.", "keyword", name)
		switch name {
		case "pubkey", "publicKey":
			return idl.PublicKey{}, nil
		case "string":
			return idl.String{}, nil
		case "bytes":
			return idl.Bytes{}, nil
		}
		if kind, ok := idl.ParsePrimitiveKind(name); ok {
			return idl.Primitive{Kind: kind}, nil
		}
		return idl.Defined{Name: name}, nil

	default:
		return nil, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// lengthArg evaluates a constant, non-negative length argument.
func lengthArg(expr hcl.Expression) (int, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("length must be a constant: %w", diags)
	}
	if val.IsNull() || val.Type() != cty.Number {
		return 0, fmt.Errorf("length must be a number, got %s", val.Type().FriendlyName())
	}
	var n int
	if err := gocty.FromCtyValue(val, &n); err != nil {
		return 0, fmt.Errorf("invalid length: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("length must not be negative, got %d", n)
	}
	return n, nil
}
