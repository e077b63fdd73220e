package decoder

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/cursor"
	"github.com/specialistvlad/ixdecode/internal/fieldpath"
	"github.com/specialistvlad/ixdecode/internal/idl"
	"github.com/specialistvlad/ixdecode/internal/registry"
	"github.com/specialistvlad/ixdecode/internal/value"
)

// Decoder decodes instructions against one registry. It holds no per-call
// state and is safe for concurrent use.
type Decoder struct {
	reg *registry.Registry
}

// New returns a Decoder for reg.
func New(reg *registry.Registry) *Decoder {
	return &Decoder{reg: reg}
}

// Registry returns the schema the decoder uses.
func (d *Decoder) Registry() *registry.Registry { return d.reg }

// DecodeContext is Decode with debug logging through the context logger.
func (d *Decoder) DecodeContext(ctx context.Context, data []byte) (*value.Instruction, error) {
	ix, err := d.Decode(data)
	if err == nil {
		ctxlog.FromContext(ctx).Debug("Instruction decoded.",
			"program", d.reg.Name(),
			"variant", ix.Variant,
			"bytes", len(data),
		)
	}
	return ix, err
}

// Decode decodes one instruction buffer. The entire buffer must be consumed.
func (d *Decoder) Decode(data []byte) (*value.Instruction, error) {
	s := &state{reg: d.reg, cur: cursor.New(data)}

	disc, err := s.cur.ReadFixed(d.reg.DiscriminatorSize())
	if err != nil {
		return nil, s.wrap(err)
	}
	variant, ok := d.reg.LookupVariant(disc)
	if !ok {
		return nil, &DecodeError{
			Kind: UnknownVariant,
			Err:  fmt.Errorf("no instruction has discriminator %x", disc),
		}
	}
	s.variant = variant.Name

	args, err := s.fields(variant.Fields)
	if err != nil {
		return nil, err
	}

	if n := s.cur.Remaining(); n != 0 {
		return nil, s.fail(TrailingData, s.cur.Offset(), fmt.Errorf("%d unconsumed bytes", n))
	}

	return &value.Instruction{Variant: variant.Name, Discriminator: disc, Args: args}, nil
}

// state is the per-call decoding context.
type state struct {
	reg     *registry.Registry
	cur     *cursor.Cursor
	variant string
	path    []fieldpath.Segment
}

func (s *state) push(seg fieldpath.Segment) { s.path = append(s.path, seg) }
func (s *state) pop()                       { s.path = s.path[:len(s.path)-1] }

func (s *state) fail(kind ErrorKind, offset int, err error) *DecodeError {
	return &DecodeError{
		Kind:    kind,
		Offset:  offset,
		Path:    fieldpath.Of(s.path),
		Variant: s.variant,
		Err:     err,
	}
}

// wrap converts a cursor error into a DecodeError at the current path.
func (s *state) wrap(err error) error {
	var te *cursor.TruncatedError
	if errors.As(err, &te) {
		return s.fail(TruncatedInput, te.Offset, err)
	}
	var be *cursor.InvalidBoolError
	if errors.As(err, &be) {
		return s.fail(InvalidEncoding, be.Offset, err)
	}
	return s.fail(InvalidEncoding, s.cur.Offset(), err)
}

func (s *state) fields(defs []*idl.FieldDefinition) (value.Record, error) {
	rec := value.Record{Fields: make([]value.Field, 0, len(defs))}
	for _, f := range defs {
		s.push(fieldpath.Field(f.Name))
		v, err := s.value(f.Type)
		if err != nil {
			return value.Record{}, err
		}
		s.pop()
		rec.Fields = append(rec.Fields, value.Field{Name: f.Name, Value: v})
	}
	return rec, nil
}

func (s *state) value(t idl.TypeSpec) (value.Value, error) {
	switch spec := t.(type) {
	case idl.Primitive:
		return s.primitive(spec.Kind)

	case idl.FixedBytes:
		b, err := s.cur.ReadFixed(spec.Len)
		if err != nil {
			return nil, s.wrap(err)
		}
		return value.Bytes{B: b}, nil

	case idl.PublicKey:
		b, err := s.cur.ReadFixed(idl.PublicKeySize)
		if err != nil {
			return nil, s.wrap(err)
		}
		return value.Bytes{B: b, Hint: value.HintPublicKey}, nil

	case idl.Bytes:
		b, err := s.cur.ReadLengthPrefixedBytes()
		if err != nil {
			return nil, s.wrap(err)
		}
		return value.Bytes{B: b}, nil

	case idl.String:
		payload := s.cur.Offset() + 4
		b, err := s.cur.ReadLengthPrefixedBytes()
		if err != nil {
			return nil, s.wrap(err)
		}
		if !utf8.Valid(b) {
			return nil, s.fail(InvalidEncoding, payload, errors.New("string is not valid UTF-8"))
		}
		return value.String(b), nil

	case idl.Option:
		flag, err := s.cur.ReadU8()
		if err != nil {
			return nil, s.wrap(err)
		}
		if flag == 0 {
			return value.None{}, nil
		}
		inner, err := s.value(spec.Elem)
		if err != nil {
			return nil, err
		}
		return value.Some{Value: inner}, nil

	case idl.Vec:
		n, err := s.cur.ReadU32()
		if err != nil {
			return nil, s.wrap(err)
		}
		return s.seq(spec.Elem, int(n), s.capacity(spec.Elem, uint64(n)))

	case idl.Array:
		return s.seq(spec.Elem, spec.Len, s.capacity(spec.Elem, uint64(spec.Len)))

	case idl.Defined:
		def, ok := s.reg.LookupType(spec.Name)
		if !ok {
			return nil, s.fail(UnresolvedType, s.cur.Offset(), fmt.Errorf("type '%s' is not defined", spec.Name))
		}
		if def.Kind == idl.KindUnion {
			return s.union(def)
		}
		return s.fields(def.Fields)

	default:
		return nil, s.fail(UnresolvedType, s.cur.Offset(), fmt.Errorf("unsupported type %T", t))
	}
}

// capacity bounds the preallocation for a vec or array by what the rest of
// the buffer can hold.
func (s *state) capacity(elem idl.TypeSpec, n uint64) int {
	size := s.reg.MinSize(elem)
	if size <= 0 {
		return 0
	}
	if limit := s.cur.Remaining() / size; n > uint64(limit) {
		return limit
	}
	return int(n)
}

func (s *state) seq(elem idl.TypeSpec, n, capacity int) (value.Value, error) {
	items := make([]value.Value, 0, capacity)
	for i := 0; i < n; i++ {
		s.push(fieldpath.Elem(i))
		v, err := s.value(elem)
		if err != nil {
			return nil, err
		}
		s.pop()
		items = append(items, v)
	}
	return value.Seq{Items: items}, nil
}

func (s *state) union(def *idl.TypeDefinition) (value.Value, error) {
	offset := s.cur.Offset()
	var tag uint32
	var err error
	switch def.TagSize {
	case 1:
		var t uint8
		t, err = s.cur.ReadU8()
		tag = uint32(t)
	case 2:
		var t uint16
		t, err = s.cur.ReadU16()
		tag = uint32(t)
	case 4:
		tag, err = s.cur.ReadU32()
	default:
		return nil, s.fail(UnresolvedType, offset, fmt.Errorf("type '%s' has unsupported tag size %d", def.Name, def.TagSize))
	}
	if err != nil {
		return nil, s.wrap(err)
	}
	if uint64(tag) >= uint64(len(def.Variants)) {
		return nil, s.fail(InvalidTag, offset, fmt.Errorf("tag %d out of range for '%s' with %d variants", tag, def.Name, len(def.Variants)))
	}

	arm := def.Variants[tag]
	fields, err := s.fields(arm.Fields)
	if err != nil {
		return nil, err
	}
	return value.Choice{Index: int(tag), Name: arm.Name, Fields: fields}, nil
}

func (s *state) primitive(kind idl.PrimitiveKind) (value.Value, error) {
	var (
		v   value.Value
		err error
	)
	switch kind {
	case idl.U8:
		var x uint8
		x, err = s.cur.ReadU8()
		v = value.Uint{Bits: 8, V: uint64(x)}
	case idl.U16:
		var x uint16
		x, err = s.cur.ReadU16()
		v = value.Uint{Bits: 16, V: uint64(x)}
	case idl.U32:
		var x uint32
		x, err = s.cur.ReadU32()
		v = value.Uint{Bits: 32, V: uint64(x)}
	case idl.U64:
		var x uint64
		x, err = s.cur.ReadU64()
		v = value.Uint{Bits: 64, V: x}
	case idl.U128:
		var hi, lo uint64
		hi, lo, err = s.cur.ReadU128()
		v = value.Uint128{Hi: hi, Lo: lo}
	case idl.I8:
		var x int8
		x, err = s.cur.ReadI8()
		v = value.Int{Bits: 8, V: int64(x)}
	case idl.I16:
		var x int16
		x, err = s.cur.ReadI16()
		v = value.Int{Bits: 16, V: int64(x)}
	case idl.I32:
		var x int32
		x, err = s.cur.ReadI32()
		v = value.Int{Bits: 32, V: int64(x)}
	case idl.I64:
		var x int64
		x, err = s.cur.ReadI64()
		v = value.Int{Bits: 64, V: x}
	case idl.I128:
		var hi, lo uint64
		hi, lo, err = s.cur.ReadI128()
		v = value.Int128{Hi: hi, Lo: lo}
	case idl.F32:
		var x float32
		x, err = s.cur.ReadF32()
		v = value.Float{Bits: 32, V: float64(x)}
	case idl.F64:
		var x float64
		x, err = s.cur.ReadF64()
		v = value.Float{Bits: 64, V: x}
	case idl.Bool:
		var x bool
		x, err = s.cur.ReadBool()
		v = value.Bool(x)
	default:
		return nil, s.fail(UnresolvedType, s.cur.Offset(), fmt.Errorf("unknown primitive %s", kind))
	}
	if err != nil {
		return nil, s.wrap(err)
	}
	return v, nil
}
