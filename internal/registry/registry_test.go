package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/ixdecode/internal/dag"
	"github.com/specialistvlad/ixdecode/internal/idl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routeDisc = []byte{0xe5, 0x17, 0xcb, 0x97, 0x7a, 0xe3, 0xad, 0x2a}

func u64() idl.TypeSpec { return idl.Primitive{Kind: idl.U64} }

func field(name string, t idl.TypeSpec) *idl.FieldDefinition {
	return &idl.FieldDefinition{Name: name, Type: t}
}

func routeDocument() *idl.Document {
	return &idl.Document{
		Name:      "jupiter",
		ProgramID: "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
		Variants: []*idl.VariantDefinition{
			{
				Name:          "route",
				Discriminator: routeDisc,
				Fields: []*idl.FieldDefinition{
					field("route_plan", idl.Vec{Elem: idl.Defined{Name: "RoutePlanStep"}}),
					field("in_amount", u64()),
				},
			},
			{
				Name:          "claim",
				Discriminator: []byte{1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		Types: []*idl.TypeDefinition{
			{
				Name: "RoutePlanStep",
				Kind: idl.KindStruct,
				Fields: []*idl.FieldDefinition{
					field("swap", idl.Defined{Name: "Swap"}),
					field("percent", idl.Primitive{Kind: idl.U8}),
				},
			},
			{
				Name:    "Swap",
				Kind:    idl.KindUnion,
				TagSize: 1,
				Variants: []*idl.UnionVariant{
					{Name: "Saber"},
					{Name: "Invariant", Fields: []*idl.FieldDefinition{field("x_to_y", idl.Primitive{Kind: idl.Bool})}},
				},
			},
		},
	}
}

func TestLoad(t *testing.T) {
	// --- Act ---
	reg, err := Load(context.Background(), routeDocument())

	// --- Assert ---
	require.NoError(t, err)
	require.NotNil(t, reg)

	assert.Equal(t, "jupiter", reg.Name())
	assert.Equal(t, "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4", reg.ProgramID())
	assert.Equal(t, 8, reg.DiscriminatorSize())

	v, ok := reg.LookupVariant(routeDisc)
	require.True(t, ok)
	assert.Equal(t, "route", v.Name)

	_, ok = reg.LookupVariant(make([]byte, 8))
	assert.False(t, ok)

	v, ok = reg.LookupVariantByName("claim")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, v.Discriminator)

	td, ok := reg.LookupType("Swap")
	require.True(t, ok)
	assert.Equal(t, idl.KindUnion, td.Kind)

	_, ok = reg.LookupType("Nope")
	assert.False(t, ok)

	names := []string{}
	for _, v := range reg.Variants() {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"route", "claim"}, names)
}

func TestMinSize(t *testing.T) {
	reg, err := Load(context.Background(), routeDocument())
	require.NoError(t, err)

	testCases := []struct {
		name string
		spec idl.TypeSpec
		want int
	}{
		{name: "u64", spec: u64(), want: 8},
		{name: "pubkey", spec: idl.PublicKey{}, want: 32},
		{name: "string", spec: idl.String{}, want: 4},
		{name: "option", spec: idl.Option{Elem: u64()}, want: 1},
		{name: "array", spec: idl.Array{Elem: idl.Primitive{Kind: idl.U16}, Len: 3}, want: 6},
		{name: "union takes smallest arm", spec: idl.Defined{Name: "Swap"}, want: 1},
		{name: "struct sums fields", spec: idl.Defined{Name: "RoutePlanStep"}, want: 2},
		{name: "fixed bytes clamp", spec: idl.FixedBytes{Len: 1 << 40}, want: MaxEncodedSize},
		{
			name: "nested arrays saturate instead of overflowing",
			spec: idl.Array{Elem: idl.Array{Elem: u64(), Len: 1 << 40}, Len: 1 << 40},
			want: MaxEncodedSize,
		},
		{name: "array of zero-sized elements", spec: idl.Array{Elem: idl.Array{Elem: u64(), Len: 0}, Len: 1 << 62}, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reg.MinSize(tc.spec))
		})
	}
}

func TestLoadRejectsInvalidDocuments(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(doc *idl.Document)
		wantKind error
		wantMsg  string
	}{
		{
			name: "duplicate discriminator",
			mutate: func(doc *idl.Document) {
				doc.Variants[1].Discriminator = routeDisc
			},
			wantKind: ErrDuplicateDiscriminator,
			wantMsg:  "instruction 'claim': duplicate discriminator: discriminator e517cb977ae3ad2a is already used by 'route'",
		},
		{
			name: "discriminator of the wrong width",
			mutate: func(doc *idl.Document) {
				doc.Variants[1].Discriminator = []byte{1}
			},
			wantKind: ErrDiscriminatorSize,
			wantMsg:  "instruction 'claim': invalid discriminator size: discriminator has 1 bytes, document uses 8",
		},
		{
			name: "discriminator size out of range",
			mutate: func(doc *idl.Document) {
				doc.DiscriminatorSize = 33
			},
			wantKind: ErrDiscriminatorSize,
		},
		{
			name: "dangling reference",
			mutate: func(doc *idl.Document) {
				doc.Variants[1].Fields = []*idl.FieldDefinition{field("side", idl.Option{Elem: idl.Defined{Name: "Side"}})}
			},
			wantKind: ErrDanglingReference,
			wantMsg:  "instruction 'claim' field 'side': undefined type: 'Side' is not defined",
		},
		{
			name: "tag size not supported",
			mutate: func(doc *idl.Document) {
				doc.Types[1].TagSize = 3
			},
			wantKind: ErrTagWidth,
		},
		{
			name: "union without variants",
			mutate: func(doc *idl.Document) {
				doc.Types[1].Variants = nil
			},
			wantKind: ErrTagWidth,
		},
		{
			name: "too many variants for the tag",
			mutate: func(doc *idl.Document) {
				arms := make([]*idl.UnionVariant, 257)
				for i := range arms {
					arms[i] = &idl.UnionVariant{Name: string(rune('A'+i%26)) + string(rune('a'+i/26))}
				}
				doc.Types[1].Variants = arms
			},
			wantKind: ErrTagWidth,
			wantMsg:  "type 'Swap': inconsistent tag width: 257 variants do not fit a 1-byte tag",
		},
		{
			name: "duplicate type name",
			mutate: func(doc *idl.Document) {
				doc.Types = append(doc.Types, &idl.TypeDefinition{Name: "Swap", Kind: idl.KindStruct})
			},
			wantKind: ErrDuplicateName,
		},
		{
			name: "duplicate instruction name",
			mutate: func(doc *idl.Document) {
				doc.Variants[1].Name = "route"
			},
			wantKind: ErrDuplicateName,
		},
		{
			name: "duplicate field name",
			mutate: func(doc *idl.Document) {
				doc.Variants[0].Fields = append(doc.Variants[0].Fields, field("in_amount", u64()))
			},
			wantKind: ErrDuplicateName,
		},
		{
			name: "field without type",
			mutate: func(doc *idl.Document) {
				doc.Variants[1].Fields = []*idl.FieldDefinition{{Name: "x"}}
			},
			wantKind: ErrInvalidDefinition,
		},
		{
			name: "vec of zero-sized struct",
			mutate: func(doc *idl.Document) {
				doc.Types = append(doc.Types, &idl.TypeDefinition{Name: "Empty", Kind: idl.KindStruct})
				doc.Variants[1].Fields = []*idl.FieldDefinition{field("many", idl.Vec{Elem: idl.Defined{Name: "Empty"}})}
			},
			wantKind: ErrZeroSizedElement,
		},
		{
			name: "array too large for any instruction",
			mutate: func(doc *idl.Document) {
				doc.Variants[1].Fields = []*idl.FieldDefinition{field("big", idl.Array{Elem: u64(), Len: 1 << 50})}
			},
			wantKind: ErrSizeLimit,
		},
		{
			name: "nested array length product overflows",
			mutate: func(doc *idl.Document) {
				inner := idl.Array{Elem: u64(), Len: 1 << 40}
				doc.Variants[1].Fields = []*idl.FieldDefinition{field("grid", idl.Array{Elem: inner, Len: 1 << 40})}
			},
			wantKind: ErrSizeLimit,
		},
		{
			name: "fixed bytes too large",
			mutate: func(doc *idl.Document) {
				doc.Variants[1].Fields = []*idl.FieldDefinition{field("blob", idl.FixedBytes{Len: MaxEncodedSize})}
			},
			wantKind: ErrSizeLimit,
		},
		{
			name: "array of zero-sized struct",
			mutate: func(doc *idl.Document) {
				doc.Types = append(doc.Types, &idl.TypeDefinition{Name: "Empty", Kind: idl.KindStruct})
				doc.Variants[1].Fields = []*idl.FieldDefinition{field("many", idl.Array{Elem: idl.Defined{Name: "Empty"}, Len: 1 << 62})}
			},
			wantKind: ErrZeroSizedElement,
			wantMsg:  "instruction 'claim' field 'many': zero-sized element: 4611686018427387904 elements of Empty encode to zero bytes",
		},
		{
			name: "vec of empty array",
			mutate: func(doc *idl.Document) {
				doc.Variants[1].Fields = []*idl.FieldDefinition{field("many", idl.Vec{Elem: idl.Array{Elem: u64(), Len: 0}})}
			},
			wantKind: ErrZeroSizedElement,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			doc := routeDocument()
			tc.mutate(doc)

			// --- Act ---
			reg, err := Load(context.Background(), doc)

			// --- Assert ---
			require.Error(t, err)
			assert.Nil(t, reg, "a registry that failed to build must not be usable")
			assert.True(t, IsSchemaError(err))
			assert.ErrorIs(t, err, tc.wantKind)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "jupiter", verr.Document)
			if tc.wantMsg != "" {
				require.Len(t, verr.Errors, 1)
				assert.Equal(t, tc.wantMsg, verr.Errors[0].Error())
			}
		})
	}
}

func TestLoadRejectsCycles(t *testing.T) {
	testCases := []struct {
		name     string
		types    []*idl.TypeDefinition
		wantPath []string
		wantMsg  string
	}{
		{
			name: "struct references itself",
			types: []*idl.TypeDefinition{
				{Name: "Node", Kind: idl.KindStruct, Fields: []*idl.FieldDefinition{field("next", idl.Defined{Name: "Node"})}},
			},
			wantPath: []string{"Node", "Node"},
		},
		{
			name: "self reference through a vec",
			types: []*idl.TypeDefinition{
				{Name: "Tree", Kind: idl.KindStruct, Fields: []*idl.FieldDefinition{field("children", idl.Vec{Elem: idl.Defined{Name: "Tree"}})}},
			},
			wantPath: []string{"Tree", "Tree"},
		},
		{
			name: "transitive cycle through a union",
			types: []*idl.TypeDefinition{
				{Name: "A", Kind: idl.KindStruct, Fields: []*idl.FieldDefinition{field("b", idl.Option{Elem: idl.Defined{Name: "B"}})}},
				{Name: "B", Kind: idl.KindUnion, TagSize: 1, Variants: []*idl.UnionVariant{
					{Name: "Leaf"},
					{Name: "Branch", Fields: []*idl.FieldDefinition{field("0", idl.Defined{Name: "C"})}},
				}},
				{Name: "C", Kind: idl.KindStruct, Fields: []*idl.FieldDefinition{field("a", idl.Defined{Name: "A"})}},
			},
			wantPath: []string{"A", "B", "C", "A"},
		},
		{
			name: "cycle embedded by other types",
			types: []*idl.TypeDefinition{
				{Name: "Pool", Kind: idl.KindStruct, Fields: []*idl.FieldDefinition{field("head", idl.Defined{Name: "Node"})}},
				{Name: "Node", Kind: idl.KindStruct, Fields: []*idl.FieldDefinition{field("next", idl.Option{Elem: idl.Defined{Name: "Link"}})}},
				{Name: "Link", Kind: idl.KindStruct, Fields: []*idl.FieldDefinition{field("node", idl.Defined{Name: "Node"})}},
				{Name: "Market", Kind: idl.KindStruct, Fields: []*idl.FieldDefinition{field("links", idl.Vec{Elem: idl.Defined{Name: "Link"}})}},
			},
			wantPath: []string{"Node", "Link", "Node"},
			wantMsg:  "type 'Node': cyclic type definition: cycle detected: Node -> Link -> Node (referenced by Market, Pool)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			doc := &idl.Document{
				Name:     "cyclic",
				Variants: []*idl.VariantDefinition{{Name: "ix", Discriminator: make([]byte, 8)}},
				Types:    tc.types,
			}

			// --- Act ---
			_, err := Load(context.Background(), doc)

			// --- Assert ---
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCyclicType)
			assert.ErrorIs(t, err, dag.ErrCycle)
			assert.Contains(t, err.Error(), "cyclic type definition")

			var cycle *dag.CycleError
			require.True(t, errors.As(err, &cycle))
			assert.Equal(t, tc.wantPath, cycle.Path)

			if tc.wantMsg != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				require.Len(t, verr.Errors, 1)
				assert.Equal(t, tc.wantMsg, verr.Errors[0].Error())
			}
		})
	}
}

func TestLoadCollectsAllProblems(t *testing.T) {
	// --- Arrange ---
	doc := routeDocument()
	doc.Variants[1].Discriminator = routeDisc
	doc.Types[1].TagSize = 8
	doc.Variants[0].Fields = append(doc.Variants[0].Fields, field("mint", idl.Defined{Name: "Mint"}))

	// --- Act ---
	_, err := Load(context.Background(), doc)

	// --- Assert ---
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 3)
	assert.ErrorIs(t, err, ErrDuplicateDiscriminator)
	assert.ErrorIs(t, err, ErrTagWidth)
	assert.ErrorIs(t, err, ErrDanglingReference)
	assert.Contains(t, err.Error(), "schema validation failed for 'jupiter':\n- ")
}

func TestLoadNilDocument(t *testing.T) {
	reg, err := Load(context.Background(), nil)
	assert.Nil(t, reg)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestMustLoadPanics(t *testing.T) {
	doc := routeDocument()
	doc.Variants[1].Discriminator = routeDisc

	assert.Panics(t, func() { MustLoad(doc) })
	assert.NotPanics(t, func() { MustLoad(routeDocument()) })
}

func TestNativeDiscriminatorWidth(t *testing.T) {
	doc := &idl.Document{
		Name:              "raydium",
		DiscriminatorSize: 1,
		Variants: []*idl.VariantDefinition{
			{Name: "swap_base_in", Discriminator: []byte{9}, Fields: []*idl.FieldDefinition{field("amount_in", u64())}},
			{Name: "swap_base_out", Discriminator: []byte{11}},
		},
	}

	reg, err := Load(context.Background(), doc)
	require.NoError(t, err)

	v, ok := reg.LookupVariant([]byte{11})
	require.True(t, ok)
	assert.Equal(t, "swap_base_out", v.Name)
	assert.Equal(t, 1, reg.DiscriminatorSize())
}
