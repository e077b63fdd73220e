// Package encoder writes a value tree back to instruction bytes. It is the
// inverse of the decoder and exists to build fixtures and check round trips.
package encoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/specialistvlad/ixdecode/internal/fieldpath"
	"github.com/specialistvlad/ixdecode/internal/idl"
	"github.com/specialistvlad/ixdecode/internal/registry"
	"github.com/specialistvlad/ixdecode/internal/value"
)

// ErrMismatch is wrapped by *MismatchError.
var ErrMismatch = errors.New("value does not match schema")

// MismatchError reports a value whose shape disagrees with the schema.
type MismatchError struct {
	Path fieldpath.Path
	Want string
	Got  string
}

func (e *MismatchError) Error() string {
	if e.Path.IsRoot() {
		return fmt.Sprintf("%v: want %s, got %s", ErrMismatch, e.Want, e.Got)
	}
	return fmt.Sprintf("%v at %s: want %s, got %s", ErrMismatch, e.Path, e.Want, e.Got)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Encode serialises ix using the variant it names in reg.
func Encode(reg *registry.Registry, ix *value.Instruction) ([]byte, error) {
	variant, ok := reg.LookupVariantByName(ix.Variant)
	if !ok {
		return nil, fmt.Errorf("unknown instruction '%s'", ix.Variant)
	}
	if len(ix.Discriminator) > 0 && !bytes.Equal(ix.Discriminator, variant.Discriminator) {
		return nil, fmt.Errorf("instruction '%s': discriminator %x does not match schema %x", ix.Variant, ix.Discriminator, variant.Discriminator)
	}

	var buf bytes.Buffer
	w := &writer{reg: reg, enc: bin.NewBorshEncoder(&buf)}
	if err := w.enc.WriteBytes(variant.Discriminator, false); err != nil {
		return nil, err
	}
	if err := w.fields(variant.Fields, ix.Args); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type writer struct {
	reg  *registry.Registry
	enc  *bin.Encoder
	path []fieldpath.Segment
}

func (w *writer) mismatch(want string, got value.Value) error {
	gotName := "nothing"
	if got != nil {
		gotName = got.Kind().String()
	}
	return &MismatchError{Path: fieldpath.Of(w.path), Want: want, Got: gotName}
}

func (w *writer) fields(defs []*idl.FieldDefinition, rec value.Record) error {
	if len(rec.Fields) != len(defs) {
		return &MismatchError{
			Path: fieldpath.Of(w.path),
			Want: fmt.Sprintf("%d fields", len(defs)),
			Got:  fmt.Sprintf("%d fields", len(rec.Fields)),
		}
	}
	for i, def := range defs {
		f := rec.Fields[i]
		w.path = append(w.path, fieldpath.Field(def.Name))
		if f.Name != def.Name {
			return &MismatchError{Path: fieldpath.Of(w.path), Want: "field " + def.Name, Got: "field " + f.Name}
		}
		if err := w.value(def.Type, f.Value); err != nil {
			return err
		}
		w.path = w.path[:len(w.path)-1]
	}
	return nil
}

func (w *writer) value(t idl.TypeSpec, v value.Value) error {
	switch spec := t.(type) {
	case idl.Primitive:
		return w.primitive(spec.Kind, v)

	case idl.FixedBytes:
		b, ok := v.(value.Bytes)
		if !ok || len(b.B) != spec.Len {
			return w.mismatch(spec.String(), v)
		}
		return w.enc.WriteBytes(b.B, false)

	case idl.PublicKey:
		b, ok := v.(value.Bytes)
		if !ok || len(b.B) != idl.PublicKeySize {
			return w.mismatch(spec.String(), v)
		}
		return w.enc.WriteBytes(b.B, false)

	case idl.Bytes:
		b, ok := v.(value.Bytes)
		if !ok {
			return w.mismatch(spec.String(), v)
		}
		return w.prefixed(b.B)

	case idl.String:
		s, ok := v.(value.String)
		if !ok {
			return w.mismatch(spec.String(), v)
		}
		return w.prefixed([]byte(s))

	case idl.Option:
		switch x := v.(type) {
		case value.None:
			return w.enc.WriteUint8(0)
		case value.Some:
			if err := w.enc.WriteUint8(1); err != nil {
				return err
			}
			return w.value(spec.Elem, x.Value)
		default:
			return w.mismatch(spec.String(), v)
		}

	case idl.Vec:
		seq, ok := v.(value.Seq)
		if !ok {
			return w.mismatch(spec.String(), v)
		}
		if uint64(len(seq.Items)) > math.MaxUint32 {
			return w.mismatch(spec.String(), v)
		}
		if err := w.enc.WriteUint32(uint32(len(seq.Items)), binary.LittleEndian); err != nil {
			return err
		}
		return w.items(spec.Elem, seq.Items)

	case idl.Array:
		seq, ok := v.(value.Seq)
		if !ok || len(seq.Items) != spec.Len {
			return w.mismatch(spec.String(), v)
		}
		return w.items(spec.Elem, seq.Items)

	case idl.Defined:
		def, ok := w.reg.LookupType(spec.Name)
		if !ok {
			return fmt.Errorf("type '%s' is not defined", spec.Name)
		}
		if def.Kind == idl.KindUnion {
			return w.union(def, v)
		}
		rec, ok := v.(value.Record)
		if !ok {
			return w.mismatch(spec.Name, v)
		}
		return w.fields(def.Fields, rec)

	default:
		return fmt.Errorf("unsupported type %T", t)
	}
}

func (w *writer) prefixed(b []byte) error {
	if uint64(len(b)) > math.MaxUint32 {
		return fmt.Errorf("%d bytes do not fit a u32 length", len(b))
	}
	if err := w.enc.WriteUint32(uint32(len(b)), binary.LittleEndian); err != nil {
		return err
	}
	return w.enc.WriteBytes(b, false)
}

func (w *writer) items(elem idl.TypeSpec, items []value.Value) error {
	for i, item := range items {
		w.path = append(w.path, fieldpath.Elem(i))
		if err := w.value(elem, item); err != nil {
			return err
		}
		w.path = w.path[:len(w.path)-1]
	}
	return nil
}

func (w *writer) union(def *idl.TypeDefinition, v value.Value) error {
	c, ok := v.(value.Choice)
	if !ok || c.Index < 0 || c.Index >= len(def.Variants) || def.Variants[c.Index].Name != c.Name {
		return w.mismatch(def.Name, v)
	}

	var err error
	switch def.TagSize {
	case 1:
		err = w.enc.WriteUint8(uint8(c.Index))
	case 2:
		err = w.enc.WriteUint16(uint16(c.Index), binary.LittleEndian)
	case 4:
		err = w.enc.WriteUint32(uint32(c.Index), binary.LittleEndian)
	default:
		err = fmt.Errorf("type '%s' has unsupported tag size %d", def.Name, def.TagSize)
	}
	if err != nil {
		return err
	}
	return w.fields(def.Variants[c.Index].Fields, c.Fields)
}

func (w *writer) primitive(kind idl.PrimitiveKind, v value.Value) error {
	switch kind {
	case idl.U8, idl.U16, idl.U32, idl.U64:
		u, ok := v.(value.Uint)
		bits := kind.Size() * 8
		if !ok || (bits < 64 && u.V >= 1<<uint(bits)) {
			return w.mismatch(kind.String(), v)
		}
		switch kind {
		case idl.U8:
			return w.enc.WriteUint8(uint8(u.V))
		case idl.U16:
			return w.enc.WriteUint16(uint16(u.V), binary.LittleEndian)
		case idl.U32:
			return w.enc.WriteUint32(uint32(u.V), binary.LittleEndian)
		default:
			return w.enc.WriteUint64(u.V, binary.LittleEndian)
		}

	case idl.I8, idl.I16, idl.I32, idl.I64:
		n, ok := v.(value.Int)
		bits := kind.Size() * 8
		if !ok || (bits < 64 && (n.V < -(1<<uint(bits-1)) || n.V >= 1<<uint(bits-1))) {
			return w.mismatch(kind.String(), v)
		}
		switch kind {
		case idl.I8:
			return w.enc.WriteInt8(int8(n.V))
		case idl.I16:
			return w.enc.WriteInt16(int16(n.V), binary.LittleEndian)
		case idl.I32:
			return w.enc.WriteInt32(int32(n.V), binary.LittleEndian)
		default:
			return w.enc.WriteInt64(n.V, binary.LittleEndian)
		}

	case idl.U128:
		u, ok := v.(value.Uint128)
		if !ok {
			return w.mismatch(kind.String(), v)
		}
		return w.halves(u.Hi, u.Lo)

	case idl.I128:
		n, ok := v.(value.Int128)
		if !ok {
			return w.mismatch(kind.String(), v)
		}
		return w.halves(n.Hi, n.Lo)

	case idl.F32:
		f, ok := v.(value.Float)
		if !ok {
			return w.mismatch(kind.String(), v)
		}
		return w.enc.WriteFloat32(float32(f.V), binary.LittleEndian)

	case idl.F64:
		f, ok := v.(value.Float)
		if !ok {
			return w.mismatch(kind.String(), v)
		}
		return w.enc.WriteFloat64(f.V, binary.LittleEndian)

	case idl.Bool:
		b, ok := v.(value.Bool)
		if !ok {
			return w.mismatch(kind.String(), v)
		}
		return w.enc.WriteBool(bool(b))

	default:
		return fmt.Errorf("unknown primitive %s", kind)
	}
}

// halves writes a 128-bit integer as its low then high little-endian words.
func (w *writer) halves(hi, lo uint64) error {
	if err := w.enc.WriteUint64(lo, binary.LittleEndian); err != nil {
		return err
	}
	return w.enc.WriteUint64(hi, binary.LittleEndian)
}
