package registry

import (
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// Registry is a validated, indexed schema document. The document passed to
// Load must not be modified afterwards.
type Registry struct {
	doc      *idl.Document
	discSize int

	byDiscriminator map[string]*idl.VariantDefinition
	byName          map[string]*idl.VariantDefinition
	types           map[string]*idl.TypeDefinition
	// minSizes holds the smallest encoding of every named type.
	minSizes map[string]int
}

// LookupVariant finds the variant whose discriminator equals disc byte for byte.
func (r *Registry) LookupVariant(disc []byte) (*idl.VariantDefinition, bool) {
	v, ok := r.byDiscriminator[string(disc)]
	return v, ok
}

// LookupVariantByName finds a variant by its instruction name.
func (r *Registry) LookupVariantByName(name string) (*idl.VariantDefinition, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// LookupType finds a named composite type.
func (r *Registry) LookupType(name string) (*idl.TypeDefinition, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Variants returns the variants in declaration order.
func (r *Registry) Variants() []*idl.VariantDefinition {
	out := make([]*idl.VariantDefinition, len(r.doc.Variants))
	copy(out, r.doc.Variants)
	return out
}

// Document returns the underlying schema document.
func (r *Registry) Document() *idl.Document { return r.doc }

// Name is the document name.
func (r *Registry) Name() string { return r.doc.Name }

// ProgramID is the program address declared by the document, if any.
func (r *Registry) ProgramID() string { return r.doc.ProgramID }

// DiscriminatorSize is the width of every variant's discriminator.
func (r *Registry) DiscriminatorSize() int { return r.discSize }

// MaxEncodedSize caps every size the registry computes. A field whose
// minimum encoding reaches it can never fit an instruction and is rejected
// at load.
const MaxEncodedSize = 1 << 30

// MinSize returns the smallest number of bytes any value of t encodes to,
// saturating at MaxEncodedSize.
func (r *Registry) MinSize(t idl.TypeSpec) int {
	return minSize(t, r.minSizes)
}

func minSize(t idl.TypeSpec, named map[string]int) int {
	switch s := t.(type) {
	case idl.Primitive:
		return s.Kind.Size()
	case idl.FixedBytes:
		return min(s.Len, MaxEncodedSize)
	case idl.PublicKey:
		return idl.PublicKeySize
	case idl.Bytes, idl.String, idl.Vec:
		return 4
	case idl.Option:
		return 1
	case idl.Array:
		return satMul(s.Len, minSize(s.Elem, named))
	case idl.Defined:
		return named[s.Name]
	default:
		return 0
	}
}

// typeMinSize computes the smallest encoding of a type definition. It must
// only be called on acyclic documents.
func typeMinSize(def *idl.TypeDefinition, types map[string]*idl.TypeDefinition, memo map[string]int) int {
	if n, ok := memo[def.Name]; ok {
		return n
	}
	fieldsSize := func(fields []*idl.FieldDefinition) int {
		total := 0
		for _, f := range fields {
			for _, ref := range idl.References(f.Type) {
				if dep, ok := types[ref]; ok {
					typeMinSize(dep, types, memo)
				}
			}
			total = satAdd(total, minSize(f.Type, memo))
		}
		return total
	}

	var n int
	switch def.Kind {
	case idl.KindUnion:
		smallest := -1
		for _, arm := range def.Variants {
			if s := fieldsSize(arm.Fields); smallest < 0 || s < smallest {
				smallest = s
			}
		}
		if smallest < 0 {
			smallest = 0
		}
		n = satAdd(def.TagSize, smallest)
	default:
		n = fieldsSize(def.Fields)
	}
	memo[def.Name] = n
	return n
}

// satAdd and satMul operate on sizes in [0, MaxEncodedSize] and clamp the
// result to that range.
func satAdd(a, b int) int {
	if a > MaxEncodedSize-b {
		return MaxEncodedSize
	}
	return a + b
}

func satMul(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	if n > MaxEncodedSize/size {
		return MaxEncodedSize
	}
	return n * size
}
