package hcl_adapter

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. gohcl fills omitted optional expressions with zero-width placeholders,
// so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// discriminatorBytes evaluates a discriminator written either as a list of
// byte values (`[9]`) or as a hex string (`"e517cb977ae3ad2a"`).
func discriminatorBytes(expr hcl.Expression) ([]byte, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid discriminator: %w", diags)
	}

	ty := val.Type()
	switch {
	case val.IsNull():
		return nil, fmt.Errorf("discriminator must not be null")

	case ty == cty.String:
		s := strings.TrimPrefix(val.AsString(), "0x")
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid hex discriminator %q: %w", val.AsString(), err)
		}
		return b, nil

	case ty.IsTupleType() || ty.IsListType():
		listVal, err := convert.Convert(val, cty.List(cty.Number))
		if err != nil {
			return nil, fmt.Errorf("discriminator list must contain numbers: %w", err)
		}
		var ints []int
		if err := gocty.FromCtyValue(listVal, &ints); err != nil {
			return nil, fmt.Errorf("invalid discriminator: %w", err)
		}
		out := make([]byte, len(ints))
		for i, n := range ints {
			if n < 0 || n > 255 {
				return nil, fmt.Errorf("discriminator byte %d out of range", n)
			}
			out[i] = byte(n)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("discriminator must be a list of bytes or a hex string, got %s", ty.FriendlyName())
	}
}
