// Package testutil holds schema documents, value trees and helpers shared by
// the decoder, encoder, loader and transport tests.
package testutil

import (
	"math"

	"github.com/specialistvlad/ixdecode/internal/idl"
	"github.com/specialistvlad/ixdecode/internal/value"
)

// RouteDiscriminator is sha256("global:route")[:8].
var RouteDiscriminator = []byte{0xe5, 0x17, 0xcb, 0x97, 0x7a, 0xe3, 0xad, 0x2a}

// SinkDiscriminator tags the instruction exercising every field kind.
var SinkDiscriminator = []byte{0x5e, 0x11, 0x5e, 0x11, 0x5e, 0x11, 0x5e, 0x11}

func field(name string, t idl.TypeSpec) *idl.FieldDefinition {
	return &idl.FieldDefinition{Name: name, Type: t}
}

func prim(k idl.PrimitiveKind) idl.TypeSpec { return idl.Primitive{Kind: k} }

// RouteDocument has a single "route" instruction with fields
// inAmount: u64, minOut: u64, flags: u8.
func RouteDocument() *idl.Document {
	return &idl.Document{
		Name: "router",
		Variants: []*idl.VariantDefinition{{
			Name:          "route",
			Discriminator: RouteDiscriminator,
			Fields: []*idl.FieldDefinition{
				field("inAmount", prim(idl.U64)),
				field("minOut", prim(idl.U64)),
				field("flags", prim(idl.U8)),
			},
			Accounts: []string{"user", "source", "destination"},
		}},
	}
}

// SinkDocument declares one instruction that uses every type kind.
func SinkDocument() *idl.Document {
	return &idl.Document{
		Name: "sink",
		Variants: []*idl.VariantDefinition{{
			Name:          "everything",
			Discriminator: SinkDiscriminator,
			Fields: []*idl.FieldDefinition{
				field("u8", prim(idl.U8)),
				field("u16", prim(idl.U16)),
				field("u32", prim(idl.U32)),
				field("u64", prim(idl.U64)),
				field("u128", prim(idl.U128)),
				field("i8", prim(idl.I8)),
				field("i16", prim(idl.I16)),
				field("i32", prim(idl.I32)),
				field("i64", prim(idl.I64)),
				field("i128", prim(idl.I128)),
				field("f32", prim(idl.F32)),
				field("f64", prim(idl.F64)),
				field("flag", prim(idl.Bool)),
				field("hash", idl.FixedBytes{Len: 4}),
				field("owner", idl.PublicKey{}),
				field("blob", idl.Bytes{}),
				field("memo", idl.String{}),
				field("maybe", idl.Option{Elem: prim(idl.U16)}),
				field("nothing", idl.Option{Elem: prim(idl.U16)}),
				field("nested", idl.Option{Elem: idl.Option{Elem: prim(idl.U8)}}),
				field("steps", idl.Vec{Elem: idl.Defined{Name: "Step"}}),
				field("grid", idl.Array{Elem: idl.Array{Elem: prim(idl.I16), Len: 2}, Len: 2}),
				field("side", idl.Defined{Name: "Side"}),
				field("wide", idl.Defined{Name: "Wide"}),
			},
		}},
		Types: []*idl.TypeDefinition{
			{
				Name: "Step",
				Kind: idl.KindStruct,
				Fields: []*idl.FieldDefinition{
					field("swap", idl.Defined{Name: "Swap"}),
					field("percent", prim(idl.U8)),
				},
			},
			{
				Name:    "Swap",
				Kind:    idl.KindUnion,
				TagSize: 1,
				Variants: []*idl.UnionVariant{
					{Name: "Saber"},
					{Name: "Crema", Fields: []*idl.FieldDefinition{field("a_to_b", prim(idl.Bool))}},
					{Name: "Serum", Fields: []*idl.FieldDefinition{field("side", idl.Defined{Name: "Side"})}},
				},
			},
			{
				Name:     "Side",
				Kind:     idl.KindUnion,
				TagSize:  1,
				Variants: []*idl.UnionVariant{{Name: "Bid"}, {Name: "Ask"}},
			},
			{
				Name:    "Wide",
				Kind:    idl.KindUnion,
				TagSize: 4,
				Variants: []*idl.UnionVariant{
					{Name: "Empty"},
					{Name: "Pair", Fields: []*idl.FieldDefinition{
						field("0", prim(idl.U32)),
						field("1", idl.String{}),
					}},
				},
			},
		},
	}
}

func rec(fields ...value.Field) value.Record { return value.Record{Fields: fields} }

func f(name string, v value.Value) value.Field { return value.Field{Name: name, Value: v} }

// OwnerKey is an arbitrary 32-byte account key.
func OwnerKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

// SinkInstruction is a value tree valid for SinkDocument.
func SinkInstruction() *value.Instruction {
	side := func(i int, name string) value.Choice { return value.Choice{Index: i, Name: name, Fields: rec()} }
	return &value.Instruction{
		Variant:       "everything",
		Discriminator: SinkDiscriminator,
		Args: rec(
			f("u8", value.Uint{Bits: 8, V: 255}),
			f("u16", value.Uint{Bits: 16, V: 513}),
			f("u32", value.Uint{Bits: 32, V: 70000}),
			f("u64", value.Uint{Bits: 64, V: math.MaxUint64}),
			f("u128", value.Uint128{Hi: 1, Lo: 2}),
			f("i8", value.Int{Bits: 8, V: -128}),
			f("i16", value.Int{Bits: 16, V: -300}),
			f("i32", value.Int{Bits: 32, V: math.MinInt32}),
			f("i64", value.Int{Bits: 64, V: -1}),
			f("i128", value.Int128{Hi: math.MaxUint64, Lo: math.MaxUint64 - 4}),
			f("f32", value.Float{Bits: 32, V: 1.5}),
			f("f64", value.Float{Bits: 64, V: -0.25}),
			f("flag", value.Bool(true)),
			f("hash", value.Bytes{B: []byte{0xde, 0xad, 0xbe, 0xef}}),
			f("owner", value.Bytes{B: OwnerKey(), Hint: value.HintPublicKey}),
			f("blob", value.Bytes{B: []byte{}}),
			f("memo", value.String("gm ☀")),
			f("maybe", value.Some{Value: value.Uint{Bits: 16, V: 7}}),
			f("nothing", value.None{}),
			f("nested", value.Some{Value: value.None{}}),
			f("steps", value.Seq{Items: []value.Value{
				rec(
					f("swap", value.Choice{Index: 1, Name: "Crema", Fields: rec(f("a_to_b", value.Bool(false)))}),
					f("percent", value.Uint{Bits: 8, V: 40}),
				),
				rec(
					f("swap", value.Choice{Index: 2, Name: "Serum", Fields: rec(f("side", side(1, "Ask")))}),
					f("percent", value.Uint{Bits: 8, V: 60}),
				),
				rec(
					f("swap", value.Choice{Index: 0, Name: "Saber", Fields: rec()}),
					f("percent", value.Uint{Bits: 8, V: 0}),
				),
			}}),
			f("grid", value.Seq{Items: []value.Value{
				value.Seq{Items: []value.Value{value.Int{Bits: 16, V: 1}, value.Int{Bits: 16, V: -2}}},
				value.Seq{Items: []value.Value{value.Int{Bits: 16, V: 3}, value.Int{Bits: 16, V: -4}}},
			}}),
			f("side", side(0, "Bid")),
			f("wide", value.Choice{Index: 1, Name: "Pair", Fields: rec(
				f("0", value.Uint{Bits: 32, V: 9}),
				f("1", value.String("x")),
			)}),
		),
	}
}
