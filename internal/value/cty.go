package value

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// ToCty converts a decoded tree into a cty value. Objects lose field order
// (cty orders attributes by name); integers keep full precision.
func ToCty(v Value) cty.Value {
	switch x := v.(type) {
	case nil, None:
		return cty.NullVal(cty.DynamicPseudoType)
	case Uint:
		return cty.NumberUIntVal(x.V)
	case Int:
		return cty.NumberIntVal(x.V)
	case Uint128:
		return cty.NumberVal(new(big.Float).SetInt(x.Big()))
	case Int128:
		return cty.NumberVal(new(big.Float).SetInt(x.Big()))
	case Float:
		if math.IsNaN(x.V) || math.IsInf(x.V, 0) {
			return cty.StringVal(strconv.FormatFloat(x.V, 'g', -1, 64))
		}
		return cty.NumberFloatVal(x.V)
	case Bool:
		return cty.BoolVal(bool(x))
	case String:
		return cty.StringVal(string(x))
	case Bytes:
		if pk, ok := x.PublicKey(); ok {
			return cty.StringVal(pk.String())
		}
		items := make([]cty.Value, len(x.B))
		for i, b := range x.B {
			items[i] = cty.NumberUIntVal(uint64(b))
		}
		return tuple(items)
	case Some:
		return ToCty(x.Value)
	case Seq:
		items := make([]cty.Value, len(x.Items))
		for i, item := range x.Items {
			items[i] = ToCty(item)
		}
		return tuple(items)
	case Record:
		if len(x.Fields) == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, len(x.Fields))
		for _, f := range x.Fields {
			attrs[f.Name] = ToCty(f.Value)
		}
		return cty.ObjectVal(attrs)
	case Choice:
		return cty.ObjectVal(map[string]cty.Value{x.Name: ToCty(x.Fields)})
	default:
		return cty.DynamicVal
	}
}

func tuple(items []cty.Value) cty.Value {
	if len(items) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(items)
}

// InstructionToCty wraps the instruction's arguments with its name.
func InstructionToCty(i *Instruction) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"name": cty.StringVal(i.Variant),
		"data": ToCty(i.Args),
	})
}
