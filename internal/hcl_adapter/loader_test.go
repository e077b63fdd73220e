package hcl_adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/ixdecode/internal/anchoridl"
	"github.com/specialistvlad/ixdecode/internal/idl"
	"github.com/specialistvlad/ixdecode/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sinkHCL = `
program "sink" {
  instruction "everything" {
    discriminator = "5e115e115e115e11"

    field "u8" { type = u8 }
    field "u16" { type = u16 }
    field "u32" { type = u32 }
    field "u64" { type = u64 }
    field "u128" { type = u128 }
    field "i8" { type = i8 }
    field "i16" { type = i16 }
    field "i32" { type = i32 }
    field "i64" { type = i64 }
    field "i128" { type = i128 }
    field "f32" { type = f32 }
    field "f64" { type = f64 }
    field "flag" { type = bool }
    field "hash" { type = fixed_bytes(4) }
    field "owner" { type = pubkey }
    field "blob" { type = bytes }
    field "memo" { type = string }
    field "maybe" { type = option(u16) }
    field "nothing" { type = option(u16) }
    field "nested" { type = option(option(u8)) }
    field "steps" { type = vec(Step) }
    field "grid" { type = array(array(i16, 2), 2) }
    field "side" { type = Side }
    field "wide" { type = Wide }
  }

  type "Step" {
    kind = "struct"
    field "swap" { type = Swap }
    field "percent" { type = u8 }
  }

  type "Swap" {
    kind = "enum"
    variant "Saber" {}
    variant "Crema" {
      field "a_to_b" { type = bool }
    }
    variant "Serum" {
      field "side" { type = Side }
    }
  }

  type "Side" {
    kind = "enum"
    variant "Bid" {}
    variant "Ask" {}
  }

  type "Wide" {
    kind     = "enum"
    tag_size = 4
    variant "Empty" {}
    variant "Pair" {
      field "0" { type = u32 }
      field "1" { type = string }
    }
  }
}
`

const routeHCL = `
program "router" {
  instruction "route" {
    accounts = ["user", "source", "destination"]
    field "inAmount" { type = u64 }
    field "minOut" { type = u64 }
    field "flags" { type = u8 }
  }
}
`

const routeJSON = `{
  "name": "router",
  "instructions": [{
    "name": "route",
    "accounts": [
      {"name": "user", "isMut": false, "isSigner": true},
      {"name": "source", "isMut": true, "isSigner": false},
      {"name": "destination", "isMut": true, "isSigner": false}
    ],
    "args": [
      {"name": "inAmount", "type": "u64"},
      {"name": "minOut", "type": "u64"},
      {"name": "flags", "type": "u8"}
    ]
  }]
}`

func parse(t *testing.T, src string) ([]*idl.Document, error) {
	t.Helper()
	return NewLoader().Parse(context.Background(), []byte(src), "test.hcl")
}

func TestParseEveryTypeKind(t *testing.T) {
	// --- Arrange ---
	want := testutil.SinkDocument()
	want.DiscriminatorSize = idl.DefaultDiscriminatorSize

	// --- Act ---
	docs, err := parse(t, sinkHCL)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, docs, 1)
	if diff := cmp.Diff(want, docs[0], cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestHCLAndAnchorJSONProduceTheSameDocument(t *testing.T) {
	// --- Arrange ---
	want := testutil.RouteDocument()
	want.DiscriminatorSize = idl.DefaultDiscriminatorSize

	// --- Act ---
	fromHCL, err := parse(t, routeHCL)
	require.NoError(t, err)
	fromJSON, err := anchoridl.Parse([]byte(routeJSON))
	require.NoError(t, err)

	// --- Assert ---
	require.Len(t, fromHCL, 1)
	if diff := cmp.Diff(want, fromHCL[0], cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("HCL document mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fromHCL[0], fromJSON, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("HCL and JSON documents differ (-hcl +json):\n%s", diff)
	}
}

func TestParseProgramSettings(t *testing.T) {
	docs, err := parse(t, `
program "amm" {
  address            = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
  discriminator_size = 1

  instruction "withdraw" {
    description   = "Withdraw liquidity."
    discriminator = [4]
    field "amount" { type = u64 }
  }
}

program "other" {}
`)

	require.NoError(t, err)
	require.Len(t, docs, 2)
	amm := docs[0]
	assert.Equal(t, "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8", amm.ProgramID)
	assert.Equal(t, 1, amm.DiscriminatorSize)
	require.Len(t, amm.Variants, 1)
	assert.Equal(t, []byte{4}, amm.Variants[0].Discriminator)
	assert.Equal(t, []string{"Withdraw liquidity."}, amm.Variants[0].Docs)
	assert.Equal(t, "other", docs[1].Name)
	assert.Empty(t, docs[1].Variants)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `program "x" {`,
			wantErr: "failed to parse HCL file test.hcl",
		},
		{
			name:    "stray top-level attribute",
			src:     `version = 1`,
			wantErr: "failed to decode HCL file test.hcl",
		},
		{
			name: "missing field type",
			src: `program "x" {
  instruction "a" {
    field "f" {}
  }
}`,
			wantErr: "failed to decode HCL file test.hcl",
		},
		{
			name: "unknown constructor",
			src: `program "x" {
  instruction "a" {
    field "f" { type = map(u8) }
  }
}`,
			wantErr: `in program 'x', instruction 'a': in field 'f': unknown type constructor function "map"`,
		},
		{
			name: "quoted type name",
			src: `program "x" {
  instruction "a" {
    field "f" { type = "u8" }
  }
}`,
			wantErr: "unsupported expression for type definition",
		},
		{
			name: "array without length",
			src: `program "x" {
  instruction "a" {
    field "f" { type = array(u8) }
  }
}`,
			wantErr: "the array() type constructor requires an element type and a length",
		},
		{
			name: "negative length",
			src: `program "x" {
  instruction "a" {
    field "f" { type = fixed_bytes(-1) }
  }
}`,
			wantErr: "length must not be negative, got -1",
		},
		{
			name: "discriminator byte out of range",
			src: `program "x" {
  instruction "a" {
    discriminator = [1, 300]
  }
}`,
			wantErr: "discriminator byte 300 out of range",
		},
		{
			name: "bad hex discriminator",
			src: `program "x" {
  instruction "a" {
    discriminator = "zz"
  }
}`,
			wantErr: `invalid hex discriminator "zz"`,
		},
		{
			name: "discriminator of the wrong type",
			src: `program "x" {
  instruction "a" {
    discriminator = true
  }
}`,
			wantErr: "discriminator must be a list of bytes or a hex string, got bool",
		},
		{
			name: "unknown kind",
			src: `program "x" {
  type "T" {
    kind = "alias"
  }
}`,
			wantErr: `in program 'x', type 'T': unknown kind "alias"`,
		},
		{
			name: "struct with variants",
			src: `program "x" {
  type "T" {
    kind = "struct"
    variant "A" {}
  }
}`,
			wantErr: "struct types cannot declare variants",
		},
		{
			name: "enum with fields",
			src: `program "x" {
  type "T" {
    kind = "enum"
    field "f" { type = u8 }
  }
}`,
			wantErr: "enum types declare fields inside variant blocks",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse(t, tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadFiles(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{
		"router.hcl": routeHCL,
		"sink.hcl":   sinkHCL,
	})

	// --- Act ---
	docs, err := NewLoader().Load(context.Background(),
		filepath.Join(dir, "router.hcl"),
		filepath.Join(dir, "sink.hcl"),
	)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "router", docs[0].Name)
	assert.Equal(t, "sink", docs[1].Name)

	_, err = NewLoader().Load(context.Background(), filepath.Join(dir, "missing.hcl"))
	assert.ErrorContains(t, err, "failed to read HCL file")
}
