package idl

// DefaultDiscriminatorSize is the width of Anchor instruction discriminators.
const DefaultDiscriminatorSize = 8

// MaxDiscriminatorSize bounds the discriminator width a document may declare.
const MaxDiscriminatorSize = 32

// Document is the parsed form of a schema document. It is treated as
// immutable once handed to the registry.
type Document struct {
	// Name identifies the program, e.g. "jupiter".
	Name string
	// ProgramID is the base58 address of the program, if known.
	ProgramID string
	// DiscriminatorSize is the width of the variant tag in bytes. Zero means
	// DefaultDiscriminatorSize.
	DiscriminatorSize int
	// Variants are kept in declaration order.
	Variants []*VariantDefinition
	Types    []*TypeDefinition
}

// EffectiveDiscriminatorSize resolves the zero value to the default width.
func (d *Document) EffectiveDiscriminatorSize() int {
	if d.DiscriminatorSize == 0 {
		return DefaultDiscriminatorSize
	}
	return d.DiscriminatorSize
}

// VariantDefinition is one instruction of a program.
type VariantDefinition struct {
	Name          string
	Discriminator []byte
	// Fields are in wire order.
	Fields []*FieldDefinition
	// Accounts lists the account names the instruction expects, in order.
	Accounts []string
	Docs     []string
}

// FieldDefinition is a named, typed slot in a struct, variant or union arm.
type FieldDefinition struct {
	Name string
	Type TypeSpec
}

// TypeKind distinguishes the two composite shapes.
type TypeKind int

const (
	KindStruct TypeKind = iota
	KindUnion
)

func (k TypeKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindUnion:
		return "enum"
	default:
		return "unknown"
	}
}

// TypeDefinition is a named composite type.
type TypeDefinition struct {
	Name string
	Kind TypeKind
	// Fields is used by structs.
	Fields []*FieldDefinition
	// Variants and TagSize are used by unions. TagSize is the width in bytes
	// of the little-endian index that selects a variant.
	Variants []*UnionVariant
	TagSize  int
	Docs     []string
}

// UnionVariant is one arm of a tagged union. Tuple arms use positional
// field names "0", "1", ...
type UnionVariant struct {
	Name   string
	Fields []*FieldDefinition
}
