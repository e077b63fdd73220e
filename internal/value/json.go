package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Marshal renders v as JSON. Record fields keep their order, integers are
// written exactly at any width, public keys become base58 strings, other
// byte strings become arrays of numbers and None becomes null.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r Record) MarshalJSON() ([]byte, error) { return Marshal(r) }

func (s Seq) MarshalJSON() ([]byte, error) { return Marshal(s) }

func (c Choice) MarshalJSON() ([]byte, error) { return Marshal(c) }

// MarshalJSON renders the instruction as {"name": ..., "data": {...}}.
func (i *Instruction) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	if err := writeString(&buf, i.Variant); err != nil {
		return nil, err
	}
	buf.WriteString(`,"data":`)
	if err := writeJSON(&buf, i.Args); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case nil, None:
		buf.WriteString("null")
	case Uint:
		buf.WriteString(strconv.FormatUint(x.V, 10))
	case Int:
		buf.WriteString(strconv.FormatInt(x.V, 10))
	case Uint128:
		buf.WriteString(x.Big().String())
	case Int128:
		buf.WriteString(x.Big().String())
	case Float:
		writeFloat(buf, x)
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case String:
		return writeString(buf, string(x))
	case Bytes:
		if pk, ok := x.PublicKey(); ok {
			return writeString(buf, pk.String())
		}
		buf.WriteByte('[')
		for i, b := range x.B {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Itoa(int(b)))
		}
		buf.WriteByte(']')
	case Some:
		return writeJSON(buf, x.Value)
	case Seq:
		buf.WriteByte('[')
		for i, item := range x.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Record:
		buf.WriteByte('{')
		for i, f := range x.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, f.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Choice:
		buf.WriteByte('{')
		if err := writeString(buf, x.Name); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeJSON(buf, x.Fields); err != nil {
			return err
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("value: cannot render %T as JSON", v)
	}
	return nil
}

// writeFloat writes non-finite numbers as strings, which JSON cannot carry
// as numbers.
func writeFloat(buf *bytes.Buffer, f Float) {
	switch {
	case math.IsNaN(f.V):
		buf.WriteString(`"NaN"`)
	case math.IsInf(f.V, 1):
		buf.WriteString(`"+Inf"`)
	case math.IsInf(f.V, -1):
		buf.WriteString(`"-Inf"`)
	default:
		bits := f.Bits
		if bits != 32 {
			bits = 64
		}
		buf.WriteString(strconv.FormatFloat(f.V, 'g', -1, bits))
	}
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
