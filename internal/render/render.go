// Package render writes decode results as JSON or HCL.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/ixdecode/internal/decoder"
	"github.com/specialistvlad/ixdecode/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// Format selects the output syntax.
type Format string

const (
	JSON Format = "json"
	HCL  Format = "hcl"
)

// ParseFormat validates a format name. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return JSON, nil
	case JSON, HCL:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: json, hcl)", s)
	}
}

// Write renders res to w followed by a newline.
func Write(w io.Writer, f Format, res *decoder.Result) error {
	var out []byte
	var err error
	switch f {
	case JSON, "":
		out, err = renderJSON(res)
	case HCL:
		out, err = renderHCL(res)
	default:
		return fmt.Errorf("unknown output format %q", string(f))
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func renderJSON(res *decoder.Result) ([]byte, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to render JSON: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to render JSON: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// renderHCL writes one attribute per result field. Object attributes are
// sorted by name, as cty stores them.
func renderHCL(res *decoder.Result) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("program", cty.StringVal(res.Program))
	body.SetAttributeValue("name", cty.StringVal(res.Instruction.Variant))
	body.SetAttributeValue("data", value.ToCty(res.Instruction.Args))
	body.SetAttributeValue("accounts", value.ToCty(res.Accounts))
	if len(res.RemainingAccounts) > 0 {
		keys := make([]cty.Value, len(res.RemainingAccounts))
		for i, k := range res.RemainingAccounts {
			keys[i] = cty.StringVal(k.String())
		}
		body.SetAttributeValue("remaining_accounts", cty.TupleVal(keys))
	}
	return hclwrite.Format(f.Bytes()), nil
}
