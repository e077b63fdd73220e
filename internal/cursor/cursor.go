package cursor

import (
	"encoding/binary"
	"math"
)

// Cursor reads little-endian values from a byte slice. It is not safe for
// concurrent use and cannot be rewound.
type Cursor struct {
	buf []byte
	off int
}

// New wraps buf. The cursor never writes to buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset is the position of the next unread byte.
func (c *Cursor) Offset() int { return c.off }

// Remaining is the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Len is the total buffer length.
func (c *Cursor) Len() int { return len(c.buf) }

// take returns the next n bytes without copying and advances past them.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, &TruncatedError{Offset: c.off, Need: n, Remaining: c.Remaining()}
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// ReadFixed returns a copy of the next n bytes.
func (c *Cursor) ReadFixed(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadLengthPrefixedBytes reads a u32 length and then that many bytes. The
// cursor only advances when both parts are present; a declared length longer
// than the rest of the buffer fails at the payload offset.
func (c *Cursor) ReadLengthPrefixedBytes() ([]byte, error) {
	start := c.off
	n, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(c.Remaining()) {
		err := &TruncatedError{Offset: c.off, Need: int(n), Remaining: c.Remaining()}
		c.off = start
		return nil, err
	}
	return c.ReadFixed(int(n))
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadU128 returns the high and low 64-bit halves of a little-endian u128.
func (c *Cursor) ReadU128() (hi, lo uint64, err error) {
	b, err := c.take(16)
	if err != nil {
		return 0, 0, err
	}
	return binary.LittleEndian.Uint64(b[8:]), binary.LittleEndian.Uint64(b[:8]), nil
}

func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	return int64(v), err
}

// ReadI128 returns the two's complement halves of a little-endian i128.
func (c *Cursor) ReadI128() (hi, lo uint64, err error) {
	return c.ReadU128()
}

func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadF64() (float64, error) {
	v, err := c.ReadU64()
	return math.Float64frombits(v), err
}

// ReadBool accepts only 0 and 1. Any other byte is rejected without
// advancing.
func (c *Cursor) ReadBool() (bool, error) {
	if c.Remaining() < 1 {
		return false, &TruncatedError{Offset: c.off, Need: 1, Remaining: 0}
	}
	switch b := c.buf[c.off]; b {
	case 0, 1:
		c.off++
		return b == 1, nil
	default:
		return false, &InvalidBoolError{Offset: c.off, Value: b}
	}
}
