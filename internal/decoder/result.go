package decoder

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/gagliardetto/solana-go"
	"github.com/specialistvlad/ixdecode/internal/value"
)

// Result is a decoded instruction together with its labelled accounts.
type Result struct {
	Program     string
	Instruction *value.Instruction
	// Accounts maps the instruction's declared account names, in order, to
	// the keys supplied with the instruction.
	Accounts value.Record
	// RemainingAccounts are supplied keys beyond the declared accounts.
	RemainingAccounts []solana.PublicKey
}

// DecodeInstruction decodes data and labels accounts using the variant's
// declared account names.
func (d *Decoder) DecodeInstruction(ctx context.Context, data []byte, accounts []solana.PublicKey) (*Result, error) {
	ix, err := d.DecodeContext(ctx, data)
	if err != nil {
		return nil, err
	}

	res := &Result{Program: d.reg.Name(), Instruction: ix}
	variant, _ := d.reg.LookupVariantByName(ix.Variant)
	names := variant.Accounts
	for i, key := range accounts {
		if i >= len(names) {
			res.RemainingAccounts = append(res.RemainingAccounts, accounts[i:]...)
			break
		}
		res.Accounts.Fields = append(res.Accounts.Fields, value.Field{
			Name:  names[i],
			Value: value.Bytes{B: key.Bytes(), Hint: value.HintPublicKey},
		})
	}
	return res, nil
}

// MarshalJSON renders {"program", "name", "data", "accounts", "remaining_accounts"}.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	program, err := json.Marshal(r.Program)
	if err != nil {
		return nil, err
	}
	name, err := json.Marshal(r.Instruction.Variant)
	if err != nil {
		return nil, err
	}
	data, err := value.Marshal(r.Instruction.Args)
	if err != nil {
		return nil, err
	}
	accounts, err := value.Marshal(r.Accounts)
	if err != nil {
		return nil, err
	}

	buf.WriteString(`{"program":`)
	buf.Write(program)
	buf.WriteString(`,"name":`)
	buf.Write(name)
	buf.WriteString(`,"data":`)
	buf.Write(data)
	buf.WriteString(`,"accounts":`)
	buf.Write(accounts)
	if len(r.RemainingAccounts) > 0 {
		remaining, err := json.Marshal(r.RemainingAccounts)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"remaining_accounts":`)
		buf.Write(remaining)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
