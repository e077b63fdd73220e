package value

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// Kind identifies the concrete type of a Value.
type Kind int

const (
	KindUint Kind = iota
	KindInt
	KindUint128
	KindInt128
	KindFloat
	KindBool
	KindString
	KindBytes
	KindNone
	KindSome
	KindSeq
	KindRecord
	KindChoice
)

var kindNames = [...]string{
	KindUint: "uint", KindInt: "int", KindUint128: "uint128", KindInt128: "int128",
	KindFloat: "float", KindBool: "bool", KindString: "string", KindBytes: "bytes",
	KindNone: "none", KindSome: "some", KindSeq: "seq", KindRecord: "record", KindChoice: "choice",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a node of the decoded tree.
type Value interface {
	Kind() Kind
	isValue()
}

// Uint is an unsigned integer of up to 64 bits.
type Uint struct {
	Bits int
	V    uint64
}

// Int is a signed integer of up to 64 bits.
type Int struct {
	Bits int
	V    int64
}

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct{ Hi, Lo uint64 }

// Int128 is a two's complement signed 128-bit integer.
type Int128 struct{ Hi, Lo uint64 }

// Float is an IEEE 754 number of 32 or 64 bits.
type Float struct {
	Bits int
	V    float64
}

type Bool bool

type String string

// BytesHint tells renderers how to display a byte string.
type BytesHint int

const (
	HintRaw BytesHint = iota
	HintPublicKey
)

// Bytes is an opaque byte string.
type Bytes struct {
	B    []byte
	Hint BytesHint
}

// None marks an absent optional value.
type None struct{}

// Some wraps a present optional value.
type Some struct{ Value Value }

// Seq is an ordered list, from a vec or a fixed array.
type Seq struct{ Items []Value }

// Field is a named slot of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is a struct value with fields in declaration order.
type Record struct{ Fields []Field }

// Choice is the selected arm of a tagged union.
type Choice struct {
	Index  int
	Name   string
	Fields Record
}

func (Uint) Kind() Kind    { return KindUint }
func (Int) Kind() Kind     { return KindInt }
func (Uint128) Kind() Kind { return KindUint128 }
func (Int128) Kind() Kind  { return KindInt128 }
func (Float) Kind() Kind   { return KindFloat }
func (Bool) Kind() Kind    { return KindBool }
func (String) Kind() Kind  { return KindString }
func (Bytes) Kind() Kind   { return KindBytes }
func (None) Kind() Kind    { return KindNone }
func (Some) Kind() Kind    { return KindSome }
func (Seq) Kind() Kind     { return KindSeq }
func (Record) Kind() Kind  { return KindRecord }
func (Choice) Kind() Kind  { return KindChoice }

func (Uint) isValue()    {}
func (Int) isValue()     {}
func (Uint128) isValue() {}
func (Int128) isValue()  {}
func (Float) isValue()   {}
func (Bool) isValue()    {}
func (String) isValue()  {}
func (Bytes) isValue()   {}
func (None) isValue()    {}
func (Some) isValue()    {}
func (Seq) isValue()     {}
func (Record) isValue()  {}
func (Choice) isValue()  {}

// Big returns the value as a big integer.
func (u Uint128) Big() *big.Int {
	hi := new(big.Int).SetUint64(u.Hi)
	return hi.Lsh(hi, 64).Or(hi, new(big.Int).SetUint64(u.Lo))
}

// Big returns the value as a big integer, applying the sign.
func (i Int128) Big() *big.Int {
	n := Uint128{Hi: i.Hi, Lo: i.Lo}.Big()
	if i.Hi&(1<<63) != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return n
}

// Int128FromBig converts n, which must fit in 128 bits, to two's complement halves.
func Int128FromBig(n *big.Int) Int128 {
	m := new(big.Int).Set(n)
	if m.Sign() < 0 {
		m.Add(m, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	u := Uint128FromBig(m)
	return Int128(u)
}

// Uint128FromBig converts a non-negative n below 2^128.
func Uint128FromBig(n *big.Int) Uint128 {
	mask := new(big.Int).SetUint64(^uint64(0))
	lo := new(big.Int).And(n, mask).Uint64()
	hi := new(big.Int).Rsh(n, 64)
	return Uint128{Hi: new(big.Int).And(hi, mask).Uint64(), Lo: lo}
}

// PublicKey renders the bytes as a base58 address when they hold a key.
func (b Bytes) PublicKey() (solana.PublicKey, bool) {
	if b.Hint != HintPublicKey || len(b.B) != solana.PublicKeyLength {
		return solana.PublicKey{}, false
	}
	return solana.PublicKeyFromBytes(b.B), true
}

// Get returns the value of the named field.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names lists field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

// Instruction is the result of decoding one instruction buffer.
type Instruction struct {
	Variant       string
	Discriminator []byte
	Args          Record
}
