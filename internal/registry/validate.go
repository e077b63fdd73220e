package registry

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/ixdecode/internal/dag"
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// validator collects every problem in a document instead of stopping at the
// first one.
type validator struct {
	doc      *idl.Document
	types    map[string]*idl.TypeDefinition
	minSizes map[string]int
	errs     []*SchemaError
}

func newValidator(doc *idl.Document) *validator {
	return &validator{
		doc:      doc,
		types:    make(map[string]*idl.TypeDefinition, len(doc.Types)),
		minSizes: make(map[string]int, len(doc.Types)),
	}
}

func (v *validator) fail(kind error, subject, format string, args ...any) {
	v.errs = append(v.errs, &SchemaError{Kind: kind, Subject: subject, Detail: fmt.Sprintf(format, args...)})
}

func (v *validator) run() {
	v.indexTypes()
	v.checkVariants()
	for _, def := range v.doc.Types {
		if def != nil {
			v.checkType(def)
		}
	}

	// Sizes are only meaningful for acyclic, fully resolved documents.
	if len(v.errs) > 0 || !v.checkCycles() {
		return
	}
	for _, def := range v.doc.Types {
		typeMinSize(def, v.types, v.minSizes)
	}
	v.checkElementSizes()
}

func (v *validator) indexTypes() {
	for i, def := range v.doc.Types {
		if def == nil {
			v.fail(ErrInvalidDefinition, fmt.Sprintf("types[%d]", i), "type definition is nil")
			continue
		}
		if def.Name == "" {
			v.fail(ErrInvalidDefinition, fmt.Sprintf("types[%d]", i), "type has no name")
			continue
		}
		if _, exists := v.types[def.Name]; exists {
			v.fail(ErrDuplicateName, typeSubject(def.Name), "type is defined more than once")
			continue
		}
		v.types[def.Name] = def
	}
}

func (v *validator) checkVariants() {
	size := v.doc.EffectiveDiscriminatorSize()
	sizeOK := size >= 1 && size <= idl.MaxDiscriminatorSize
	if !sizeOK {
		v.fail(ErrDiscriminatorSize, "document", "discriminator size %d is outside 1..%d", size, idl.MaxDiscriminatorSize)
	}

	names := make(map[string]struct{}, len(v.doc.Variants))
	discs := make(map[string]string, len(v.doc.Variants))
	for i, variant := range v.doc.Variants {
		if variant == nil {
			v.fail(ErrInvalidDefinition, fmt.Sprintf("instructions[%d]", i), "instruction definition is nil")
			continue
		}
		subject := instructionSubject(variant.Name)
		if variant.Name == "" {
			v.fail(ErrInvalidDefinition, fmt.Sprintf("instructions[%d]", i), "instruction has no name")
		} else if _, exists := names[variant.Name]; exists {
			v.fail(ErrDuplicateName, subject, "instruction is defined more than once")
		}
		names[variant.Name] = struct{}{}

		if sizeOK && len(variant.Discriminator) != size {
			v.fail(ErrDiscriminatorSize, subject, "discriminator has %d bytes, document uses %d", len(variant.Discriminator), size)
		} else if other, exists := discs[string(variant.Discriminator)]; exists {
			v.fail(ErrDuplicateDiscriminator, subject, "discriminator %s is already used by '%s'", hex.EncodeToString(variant.Discriminator), other)
		} else {
			discs[string(variant.Discriminator)] = variant.Name
		}

		v.checkFields(subject, variant.Fields)
	}
}

func (v *validator) checkType(def *idl.TypeDefinition) {
	subject := typeSubject(def.Name)
	switch def.Kind {
	case idl.KindStruct:
		v.checkFields(subject, def.Fields)
	case idl.KindUnion:
		v.checkUnion(subject, def)
	default:
		v.fail(ErrInvalidDefinition, subject, "unknown type kind %d", int(def.Kind))
	}
}

func (v *validator) checkUnion(subject string, def *idl.TypeDefinition) {
	switch def.TagSize {
	case 1, 2, 4:
	default:
		v.fail(ErrTagWidth, subject, "tag size %d is not one of 1, 2 or 4", def.TagSize)
		return
	}
	if len(def.Variants) == 0 {
		v.fail(ErrTagWidth, subject, "union has no variants")
		return
	}
	if capacity := uint64(1) << (8 * uint(def.TagSize)); uint64(len(def.Variants)) > capacity {
		v.fail(ErrTagWidth, subject, "%d variants do not fit a %d-byte tag", len(def.Variants), def.TagSize)
	}

	names := make(map[string]struct{}, len(def.Variants))
	for i, arm := range def.Variants {
		if arm == nil || arm.Name == "" {
			v.fail(ErrInvalidDefinition, fmt.Sprintf("%s variant %d", subject, i), "union variant has no name")
			continue
		}
		if _, exists := names[arm.Name]; exists {
			v.fail(ErrDuplicateName, fmt.Sprintf("%s variant '%s'", subject, arm.Name), "variant is defined more than once")
		}
		names[arm.Name] = struct{}{}
		v.checkFields(fmt.Sprintf("%s variant '%s'", subject, arm.Name), arm.Fields)
	}
}

func (v *validator) checkFields(subject string, fields []*idl.FieldDefinition) {
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f == nil || f.Name == "" {
			v.fail(ErrInvalidDefinition, fmt.Sprintf("%s field %d", subject, i), "field has no name")
			continue
		}
		fieldSubject := fmt.Sprintf("%s field '%s'", subject, f.Name)
		if _, exists := seen[f.Name]; exists {
			v.fail(ErrDuplicateName, fieldSubject, "field is defined more than once")
		}
		seen[f.Name] = struct{}{}
		v.checkTypeSpec(fieldSubject, f.Type)
	}
}

func (v *validator) checkTypeSpec(subject string, t idl.TypeSpec) {
	switch s := t.(type) {
	case nil:
		v.fail(ErrInvalidDefinition, subject, "field has no type")
	case idl.Primitive:
		if s.Kind.Size() == 0 {
			v.fail(ErrInvalidDefinition, subject, "unknown primitive %s", s.Kind)
		}
	case idl.FixedBytes:
		if s.Len < 0 {
			v.fail(ErrInvalidDefinition, subject, "negative length %d", s.Len)
		} else if s.Len >= MaxEncodedSize {
			v.fail(ErrSizeLimit, subject, "%d bytes reach the %d byte limit", s.Len, MaxEncodedSize)
		}
	case idl.PublicKey, idl.Bytes, idl.String:
	case idl.Option:
		v.checkTypeSpec(subject, s.Elem)
	case idl.Vec:
		v.checkTypeSpec(subject, s.Elem)
	case idl.Array:
		if s.Len < 0 {
			v.fail(ErrInvalidDefinition, subject, "negative length %d", s.Len)
		}
		v.checkTypeSpec(subject, s.Elem)
	case idl.Defined:
		if _, ok := v.types[s.Name]; !ok {
			v.fail(ErrDanglingReference, subject, "'%s' is not defined", s.Name)
		}
	default:
		v.fail(ErrInvalidDefinition, subject, "unsupported type %T", t)
	}
}

// checkCycles builds the type reference graph and rejects any type that can
// reach itself. Edges point from a type to the types its fields mention.
func (v *validator) checkCycles() bool {
	g := dag.New()
	for _, def := range v.doc.Types {
		g.AddNode(def.Name)
	}
	for _, def := range v.doc.Types {
		for _, f := range typeFields(def) {
			for _, ref := range idl.References(f.Type) {
				if g.HasNode(ref) {
					_ = g.AddEdge(def.Name, ref)
				}
			}
		}
	}

	err := g.DetectCycles()
	if err == nil {
		return true
	}
	se := &SchemaError{Kind: ErrCyclicType, Subject: "document", Detail: err.Error(), Err: err}
	var ce *dag.CycleError
	if errors.As(err, &ce) && len(ce.Path) > 0 {
		se.Subject = typeSubject(ce.Path[0])
		if users := outsideReferrers(g, ce.Path); len(users) > 0 {
			se.Detail += fmt.Sprintf(" (referenced by %s)", strings.Join(users, ", "))
		}
	}
	v.errs = append(v.errs, se)
	return false
}

// outsideReferrers lists the types that embed a member of the cycle without
// being part of it.
func outsideReferrers(g *dag.Graph, cycle []string) []string {
	members := make(map[string]bool, len(cycle))
	for _, name := range cycle {
		members[name] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, name := range cycle[:len(cycle)-1] {
		refs, err := g.Dependencies(name)
		if err != nil {
			continue
		}
		for _, ref := range refs {
			if !members[ref] && !seen[ref] {
				seen[ref] = true
				out = append(out, ref)
			}
		}
	}
	sort.Strings(out)
	return out
}

// checkElementSizes makes every repeated element consume input, so the
// number of elements a decode visits is bounded by the buffer length.
func (v *validator) checkElementSizes() {
	var check func(subject string, t idl.TypeSpec)
	check = func(subject string, t idl.TypeSpec) {
		switch s := t.(type) {
		case idl.Vec:
			if minSize(s.Elem, v.minSizes) == 0 {
				v.fail(ErrZeroSizedElement, subject, "element type %s encodes to zero bytes", s.Elem)
			}
			check(subject, s.Elem)
		case idl.Option:
			check(subject, s.Elem)
		case idl.Array:
			elemSize := minSize(s.Elem, v.minSizes)
			switch {
			case s.Len > 0 && elemSize == 0:
				v.fail(ErrZeroSizedElement, subject, "%d elements of %s encode to zero bytes", s.Len, s.Elem)
			case minSize(s, v.minSizes) >= MaxEncodedSize:
				v.fail(ErrSizeLimit, subject, "%s reaches the %d byte limit", s, MaxEncodedSize)
			default:
				check(subject, s.Elem)
			}
		}
	}
	for _, variant := range v.doc.Variants {
		for _, f := range variant.Fields {
			check(fmt.Sprintf("%s field '%s'", instructionSubject(variant.Name), f.Name), f.Type)
		}
	}
	for _, def := range v.doc.Types {
		for _, f := range typeFields(def) {
			check(fmt.Sprintf("%s field '%s'", typeSubject(def.Name), f.Name), f.Type)
		}
	}
}

// typeFields flattens the fields of a struct or of every union arm.
func typeFields(def *idl.TypeDefinition) []*idl.FieldDefinition {
	if def.Kind != idl.KindUnion {
		return def.Fields
	}
	var out []*idl.FieldDefinition
	for _, arm := range def.Variants {
		out = append(out, arm.Fields...)
	}
	return out
}

func typeSubject(name string) string        { return fmt.Sprintf("type '%s'", name) }
func instructionSubject(name string) string { return fmt.Sprintf("instruction '%s'", name) }
