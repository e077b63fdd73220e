package decoder_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/ixdecode/internal/cursor"
	"github.com/specialistvlad/ixdecode/internal/decoder"
	"github.com/specialistvlad/ixdecode/internal/encoder"
	"github.com/specialistvlad/ixdecode/internal/idl"
	"github.com/specialistvlad/ixdecode/internal/registry"
	"github.com/specialistvlad/ixdecode/internal/testutil"
	"github.com/specialistvlad/ixdecode/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return b
}

func newDecoder(t *testing.T, doc *idl.Document) *decoder.Decoder {
	t.Helper()
	reg, err := registry.Load(context.Background(), doc)
	require.NoError(t, err)
	return decoder.New(reg)
}

func requireDecodeError(t *testing.T, err error, kind decoder.ErrorKind, offset int, path string) *decoder.DecodeError {
	t.Helper()
	require.Error(t, err)
	var de *decoder.DecodeError
	require.True(t, errors.As(err, &de), "expected *DecodeError, got %T: %v", err, err)
	assert.Equal(t, kind, de.Kind, "kind")
	assert.Equal(t, offset, de.Offset, "offset")
	assert.Equal(t, path, de.Path.String(), "path")
	assert.ErrorIs(t, err, kind.Sentinel())
	return de
}

func TestDecodeRoute(t *testing.T) {
	// --- Arrange ---
	dec := newDecoder(t, testutil.RouteDocument())
	data := mustHex(t, "E517CB977AE3AD2A 0100000000000000 1200000000000000 01")

	// --- Act ---
	ix, err := dec.Decode(data)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "route", ix.Variant)
	assert.Equal(t, testutil.RouteDiscriminator, ix.Discriminator)
	want := value.Record{Fields: []value.Field{
		{Name: "inAmount", Value: value.Uint{Bits: 64, V: 1}},
		{Name: "minOut", Value: value.Uint{Bits: 64, V: 18}},
		{Name: "flags", Value: value.Uint{Bits: 8, V: 1}},
	}}
	assert.Empty(t, cmp.Diff(want, ix.Args))

	out, err := json.Marshal(ix)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"route","data":{"inAmount":1,"minOut":18,"flags":1}}`, string(out))
}

func TestDecodeFailures(t *testing.T) {
	testCases := []struct {
		name       string
		data       string
		wantKind   decoder.ErrorKind
		wantOffset int
		wantPath   string
	}{
		{
			name:       "truncated inside the first field",
			data:       "E517CB977AE3AD2A 010000",
			wantKind:   decoder.TruncatedInput,
			wantOffset: 8,
			wantPath:   "inAmount",
		},
		{
			name:       "truncated in the last field",
			data:       "E517CB977AE3AD2A 0100000000000000 1200000000000000",
			wantKind:   decoder.TruncatedInput,
			wantOffset: 24,
			wantPath:   "flags",
		},
		{
			name:       "shorter than the discriminator",
			data:       "E517CB",
			wantKind:   decoder.TruncatedInput,
			wantOffset: 0,
			wantPath:   "",
		},
		{
			name:       "empty buffer",
			data:       "",
			wantKind:   decoder.TruncatedInput,
			wantOffset: 0,
			wantPath:   "",
		},
		{
			name:       "unknown discriminator",
			data:       "0000000000000000",
			wantKind:   decoder.UnknownVariant,
			wantOffset: 0,
			wantPath:   "",
		},
		{
			name:       "unknown discriminator with a valid-looking body",
			data:       "0000000000000000 0100000000000000 1200000000000000 01",
			wantKind:   decoder.UnknownVariant,
			wantOffset: 0,
			wantPath:   "",
		},
		{
			name:       "one trailing byte",
			data:       "E517CB977AE3AD2A 0100000000000000 1200000000000000 01 00",
			wantKind:   decoder.TrailingData,
			wantOffset: 25,
			wantPath:   "",
		},
	}

	dec := newDecoder(t, testutil.RouteDocument())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			ix, err := dec.Decode(mustHex(t, tc.data))

			// --- Assert ---
			assert.Nil(t, ix, "a failed decode must not return a tree")
			requireDecodeError(t, err, tc.wantKind, tc.wantOffset, tc.wantPath)
		})
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	dec := newDecoder(t, testutil.RouteDocument())

	_, err := dec.Decode(mustHex(t, "E517CB977AE3AD2A 010000"))

	assert.EqualError(t, err, "decode 'route' at offset 8 (inAmount): truncated input: truncated input at offset 8: need 8 bytes, 3 remaining")
	assert.ErrorIs(t, err, cursor.ErrTruncated)
}

func TestRoundTrip(t *testing.T) {
	// --- Arrange ---
	reg, err := registry.Load(context.Background(), testutil.SinkDocument())
	require.NoError(t, err)
	want := testutil.SinkInstruction()

	data, err := encoder.Encode(reg, want)
	require.NoError(t, err)

	// --- Act ---
	got, err := decoder.New(reg).Decode(data)

	// --- Assert ---
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	again, err := encoder.Encode(reg, got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestTruncationAtEveryOffset(t *testing.T) {
	fixtures := []struct {
		name string
		doc  *idl.Document
		ix   *value.Instruction
	}{
		{name: "sink", doc: testutil.SinkDocument(), ix: testutil.SinkInstruction()},
		{name: "route", doc: testutil.RouteDocument(), ix: &value.Instruction{
			Variant: "route",
			Args: value.Record{Fields: []value.Field{
				{Name: "inAmount", Value: value.Uint{Bits: 64, V: 1}},
				{Name: "minOut", Value: value.Uint{Bits: 64, V: 18}},
				{Name: "flags", Value: value.Uint{Bits: 8, V: 1}},
			}},
		}},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			reg, err := registry.Load(context.Background(), fx.doc)
			require.NoError(t, err)
			data, err := encoder.Encode(reg, fx.ix)
			require.NoError(t, err)
			dec := decoder.New(reg)

			for n := 0; n < len(data); n++ {
				ix, err := dec.Decode(data[:n])

				require.Nil(t, ix, "prefix %d", n)
				var de *decoder.DecodeError
				require.True(t, errors.As(err, &de), "prefix %d: %v", n, err)
				require.Equal(t, decoder.TruncatedInput, de.Kind, "prefix %d: %v", n, err)

				var te *cursor.TruncatedError
				require.True(t, errors.As(err, &te))
				assert.Equal(t, te.Offset, de.Offset)
				assert.LessOrEqual(t, de.Offset, n, "prefix %d", n)
				assert.Greater(t, de.Offset+te.Need, n, "prefix %d: the failed read must span the cut", n)
			}

			_, err = dec.Decode(append(append([]byte{}, data...), 0))
			requireDecodeError(t, err, decoder.TrailingData, len(data), "")
		})
	}
}

func edgeDocument() *idl.Document {
	f := func(name string, t idl.TypeSpec) []*idl.FieldDefinition {
		return []*idl.FieldDefinition{{Name: name, Type: t}}
	}
	sink := testutil.SinkDocument()
	return &idl.Document{
		Name:              "edge",
		DiscriminatorSize: 1,
		Variants: []*idl.VariantDefinition{
			{Name: "choose", Discriminator: []byte{1}, Fields: f("side", idl.Defined{Name: "Side"})},
			{Name: "flag", Discriminator: []byte{2}, Fields: f("b", idl.Primitive{Kind: idl.Bool})},
			{Name: "text", Discriminator: []byte{3}, Fields: f("s", idl.String{})},
			{Name: "list", Discriminator: []byte{4}, Fields: f("items", idl.Vec{Elem: idl.Defined{Name: "Step"}})},
			{Name: "huge", Discriminator: []byte{5}, Fields: f("v", idl.Vec{Elem: idl.Primitive{Kind: idl.U64}})},
			{Name: "wide", Discriminator: []byte{6}, Fields: f("w", idl.Defined{Name: "Wide"})},
			{Name: "opt", Discriminator: []byte{7}, Fields: f("o", idl.Option{Elem: idl.Primitive{Kind: idl.U32}})},
			{Name: "blob", Discriminator: []byte{8}, Fields: f("b", idl.Bytes{})},
			{Name: "long", Discriminator: []byte{9}, Fields: f("big", idl.Array{Elem: idl.Primitive{Kind: idl.U8}, Len: registry.MaxEncodedSize - 1})},
			{Name: "wide_array", Discriminator: []byte{10}, Fields: f("big", idl.Array{Elem: idl.Primitive{Kind: idl.U64}, Len: 1 << 20})},
		},
		Types: sink.Types,
	}
}

func TestDecodeEdgeFailures(t *testing.T) {
	testCases := []struct {
		name       string
		data       []byte
		wantKind   decoder.ErrorKind
		wantOffset int
		wantPath   string
	}{
		{name: "union tag out of range", data: []byte{1, 5}, wantKind: decoder.InvalidTag, wantOffset: 1, wantPath: "side"},
		{name: "bool byte above one", data: []byte{2, 2}, wantKind: decoder.InvalidEncoding, wantOffset: 1, wantPath: "b"},
		{name: "string is not utf-8", data: []byte{3, 2, 0, 0, 0, 0xff, 0xfe}, wantKind: decoder.InvalidEncoding, wantOffset: 5, wantPath: "s"},
		{name: "string length beyond buffer", data: []byte{3, 9, 0, 0, 0, 'a'}, wantKind: decoder.TruncatedInput, wantOffset: 5, wantPath: "s"},
		{name: "bad tag deep in a vec", data: []byte{4, 2, 0, 0, 0, 0, 0, 9}, wantKind: decoder.InvalidTag, wantOffset: 7, wantPath: "items[1].swap"},
		{name: "nested truncation in a union arm", data: []byte{4, 1, 0, 0, 0, 1}, wantKind: decoder.TruncatedInput, wantOffset: 6, wantPath: "items[0].swap.a_to_b"},
		{name: "forged vec length", data: []byte{5, 0xff, 0xff, 0xff, 0xff}, wantKind: decoder.TruncatedInput, wantOffset: 5, wantPath: "v[0]"},
		{name: "four byte tag out of range", data: []byte{6, 2, 0, 0, 0}, wantKind: decoder.InvalidTag, wantOffset: 1, wantPath: "w"},
		{name: "four byte tag truncated", data: []byte{6, 1, 0}, wantKind: decoder.TruncatedInput, wantOffset: 1, wantPath: "w"},
		{name: "option flag missing", data: []byte{7}, wantKind: decoder.TruncatedInput, wantOffset: 1, wantPath: "o"},
		{name: "option value truncated", data: []byte{7, 1, 0}, wantKind: decoder.TruncatedInput, wantOffset: 2, wantPath: "o"},
		{name: "bytes length beyond buffer", data: []byte{8, 1, 0, 0, 0}, wantKind: decoder.TruncatedInput, wantOffset: 5, wantPath: "b"},
		{name: "schema array longer than buffer", data: []byte{9, 7}, wantKind: decoder.TruncatedInput, wantOffset: 2, wantPath: "big[1]"},
		{name: "wide array element cut short", data: []byte{10, 1, 2, 3, 4, 5, 6, 7, 8, 0}, wantKind: decoder.TruncatedInput, wantOffset: 9, wantPath: "big[1]"},
	}

	dec := newDecoder(t, edgeDocument())
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ix, err := dec.Decode(tc.data)

			assert.Nil(t, ix)
			requireDecodeError(t, err, tc.wantKind, tc.wantOffset, tc.wantPath)
		})
	}
}

func TestDecodeOptionFlag(t *testing.T) {
	dec := newDecoder(t, edgeDocument())

	none, err := dec.Decode([]byte{7, 0})
	require.NoError(t, err)
	assert.Equal(t, value.None{}, none.Args.Fields[0].Value)

	// Any non-zero flag means present.
	some, err := dec.Decode([]byte{7, 2, 9, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, value.Some{Value: value.Uint{Bits: 32, V: 9}}, some.Args.Fields[0].Value)
}

func TestDecodeConcurrently(t *testing.T) {
	reg, err := registry.Load(context.Background(), testutil.SinkDocument())
	require.NoError(t, err)
	data, err := encoder.Encode(reg, testutil.SinkInstruction())
	require.NoError(t, err)
	dec := decoder.New(reg)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := dec.Decode(data); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestDecodeInstructionLabelsAccounts(t *testing.T) {
	// --- Arrange ---
	dec := newDecoder(t, testutil.RouteDocument())
	data := mustHex(t, "E517CB977AE3AD2A 0100000000000000 1200000000000000 01")
	keys := []solana.PublicKey{
		solana.SystemProgramID,
		solana.TokenProgramID,
		solana.MustPublicKeyFromBase58("JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"),
		solana.SysVarRentPubkey,
	}

	// --- Act ---
	res, err := dec.DecodeInstruction(context.Background(), data, keys)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "source", "destination"}, res.Accounts.Names())
	assert.Equal(t, []solana.PublicKey{solana.SysVarRentPubkey}, res.RemainingAccounts)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"program": "router",
		"name": "route",
		"data": {"inAmount": 1, "minOut": 18, "flags": 1},
		"accounts": {
			"user": "11111111111111111111111111111111",
			"source": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
			"destination": "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
		},
		"remaining_accounts": ["SysvarRent111111111111111111111111111111111"]
	}`, string(out))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "TrailingData", decoder.TrailingData.String())
	assert.Equal(t, "ErrorKind(42)", decoder.ErrorKind(42).String())
	assert.Nil(t, decoder.ErrorKind(42).Sentinel())
}
