package idl

import (
	"fmt"
	"strings"
)

// TypeSpec describes how a single value is laid out on the wire. The set of
// implementations is closed; consumers switch over the concrete types.
type TypeSpec interface {
	// String renders the type in the canonical schema syntax, e.g. `vec(option(u64))`.
	String() string
	typeSpec()
}

// PrimitiveKind enumerates fixed-width scalars.
type PrimitiveKind int

const (
	U8 PrimitiveKind = iota
	U16
	U32
	U64
	U128
	I8
	I16
	I32
	I64
	I128
	F32
	F64
	Bool
)

var primitiveNames = [...]string{
	U8: "u8", U16: "u16", U32: "u32", U64: "u64", U128: "u128",
	I8: "i8", I16: "i16", I32: "i32", I64: "i64", I128: "i128",
	F32: "f32", F64: "f64", Bool: "bool",
}

var primitiveSizes = [...]int{
	U8: 1, U16: 2, U32: 4, U64: 8, U128: 16,
	I8: 1, I16: 2, I32: 4, I64: 8, I128: 16,
	F32: 4, F64: 8, Bool: 1,
}

func (k PrimitiveKind) String() string {
	if k < 0 || int(k) >= len(primitiveNames) {
		return fmt.Sprintf("primitive(%d)", int(k))
	}
	return primitiveNames[k]
}

// Size returns the encoded width in bytes.
func (k PrimitiveKind) Size() int {
	if k < 0 || int(k) >= len(primitiveSizes) {
		return 0
	}
	return primitiveSizes[k]
}

// Signed reports whether the kind is a signed integer.
func (k PrimitiveKind) Signed() bool {
	return k >= I8 && k <= I128
}

// ParsePrimitiveKind maps a schema name such as "u64" to its kind.
func ParsePrimitiveKind(name string) (PrimitiveKind, bool) {
	for i, n := range primitiveNames {
		if n == name {
			return PrimitiveKind(i), true
		}
	}
	return 0, false
}

// Primitive is a fixed-width little-endian scalar.
type Primitive struct{ Kind PrimitiveKind }

// FixedBytes is an opaque byte array of a known length.
type FixedBytes struct{ Len int }

// PublicKey is a 32-byte account address. The decoder treats it as opaque
// bytes; renderers display it in base58.
type PublicKey struct{}

// Bytes is a u32 length-prefixed byte string.
type Bytes struct{}

// String is a u32 length-prefixed UTF-8 string.
type String struct{}

// Option is a 1-byte presence flag followed by the value when present.
type Option struct{ Elem TypeSpec }

// Vec is a u32 element count followed by the elements.
type Vec struct{ Elem TypeSpec }

// Array is exactly Len elements with no prefix.
type Array struct {
	Elem TypeSpec
	Len  int
}

// Defined references a TypeDefinition by name.
type Defined struct{ Name string }

// PublicKeySize is the width of an encoded PublicKey.
const PublicKeySize = 32

func (Primitive) typeSpec()  {}
func (FixedBytes) typeSpec() {}
func (PublicKey) typeSpec()  {}
func (Bytes) typeSpec()      {}
func (String) typeSpec()     {}
func (Option) typeSpec()     {}
func (Vec) typeSpec()        {}
func (Array) typeSpec()      {}
func (Defined) typeSpec()    {}

func (t Primitive) String() string  { return t.Kind.String() }
func (t FixedBytes) String() string { return fmt.Sprintf("fixed_bytes(%d)", t.Len) }
func (PublicKey) String() string    { return "pubkey" }
func (Bytes) String() string        { return "bytes" }
func (String) String() string       { return "string" }
func (t Option) String() string     { return "option(" + specString(t.Elem) + ")" }
func (t Vec) String() string        { return "vec(" + specString(t.Elem) + ")" }
func (t Array) String() string      { return fmt.Sprintf("array(%s, %d)", specString(t.Elem), t.Len) }
func (t Defined) String() string    { return t.Name }

func specString(t TypeSpec) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// References returns the names of every TypeDefinition the spec mentions,
// looking through containers, in the order they appear.
func References(t TypeSpec) []string {
	var out []string
	var walk func(TypeSpec)
	walk = func(t TypeSpec) {
		switch s := t.(type) {
		case Option:
			walk(s.Elem)
		case Vec:
			walk(s.Elem)
		case Array:
			walk(s.Elem)
		case Defined:
			out = append(out, s.Name)
		}
	}
	walk(t)
	return out
}

// DescribeFields renders a field list as `name: type, ...`, mostly for logs
// and error messages.
func DescribeFields(fields []*FieldDefinition) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name + ": " + specString(f.Type)
	}
	return strings.Join(parts, ", ")
}
