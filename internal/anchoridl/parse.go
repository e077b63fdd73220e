package anchoridl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/specialistvlad/ixdecode/internal/idl"
)

// ErrUnsupported marks IDL constructs the decoder cannot represent.
var ErrUnsupported = errors.New("unsupported IDL construct")

// Parse reads an Anchor IDL document.
func Parse(data []byte) (*idl.Document, error) {
	var file File
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse Anchor IDL: %w", err)
	}
	return file.Document()
}

// Document converts the parsed file into a schema document.
func (f *File) Document() (*idl.Document, error) {
	doc := &idl.Document{
		Name:              f.Name,
		ProgramID:         f.Address,
		DiscriminatorSize: idl.DefaultDiscriminatorSize,
	}
	if f.Metadata != nil {
		if doc.Name == "" {
			doc.Name = f.Metadata.Name
		}
		if doc.ProgramID == "" {
			doc.ProgramID = f.Metadata.Address
		}
	}

	for _, ix := range f.Instructions {
		variant, err := ix.variant()
		if err != nil {
			return nil, fmt.Errorf("instruction '%s': %w", ix.Name, err)
		}
		doc.Variants = append(doc.Variants, variant)
	}

	for _, td := range f.Types {
		def, err := td.definition()
		if err != nil {
			return nil, fmt.Errorf("type '%s': %w", td.Name, err)
		}
		doc.Types = append(doc.Types, def)
	}

	return doc, nil
}

func (ix *Instruction) variant() (*idl.VariantDefinition, error) {
	v := &idl.VariantDefinition{
		Name:     ix.Name,
		Docs:     ix.Docs,
		Accounts: flattenAccounts(ix.Accounts),
	}

	if len(ix.Discriminator) > 0 {
		v.Discriminator = make([]byte, len(ix.Discriminator))
		for i, b := range ix.Discriminator {
			if b < 0 || b > 255 {
				return nil, fmt.Errorf("discriminator byte %d out of range", b)
			}
			v.Discriminator[i] = byte(b)
		}
	} else {
		v.Discriminator = Discriminator(ix.Name)
	}

	for _, arg := range ix.Args {
		t, err := parseType(arg.Type)
		if err != nil {
			return nil, fmt.Errorf("arg '%s': %w", arg.Name, err)
		}
		v.Fields = append(v.Fields, &idl.FieldDefinition{Name: arg.Name, Type: t})
	}
	return v, nil
}

// flattenAccounts lists account names depth first, the way Anchor lays out
// composite account groups on the wire.
func flattenAccounts(accounts []Account) []string {
	var names []string
	for _, acc := range accounts {
		if len(acc.Accounts) > 0 {
			names = append(names, flattenAccounts(acc.Accounts)...)
			continue
		}
		names = append(names, acc.Name)
	}
	return names
}

func (td *TypeDef) definition() (*idl.TypeDefinition, error) {
	def := &idl.TypeDefinition{Name: td.Name, Docs: td.Docs}
	switch td.Type.Kind {
	case "struct":
		def.Kind = idl.KindStruct
		fields, err := parseFields(td.Type.Fields)
		if err != nil {
			return nil, err
		}
		def.Fields = fields
	case "enum":
		def.Kind = idl.KindUnion
		def.TagSize = 1
		for _, v := range td.Type.Variants {
			fields, err := parseFields(v.Fields)
			if err != nil {
				return nil, fmt.Errorf("variant '%s': %w", v.Name, err)
			}
			def.Variants = append(def.Variants, &idl.UnionVariant{Name: v.Name, Fields: fields})
		}
	default:
		return nil, fmt.Errorf("%w: type kind '%s'", ErrUnsupported, td.Type.Kind)
	}
	return def, nil
}

// parseFields accepts named fields ({"name", "type"}) or bare types, which
// become positional fields "0", "1", ...
func parseFields(raw []json.RawMessage) ([]*idl.FieldDefinition, error) {
	fields := make([]*idl.FieldDefinition, 0, len(raw))
	for i, r := range raw {
		var named struct {
			Name *string         `json:"name"`
			Type json.RawMessage `json:"type"`
		}
		if r = bytes.TrimSpace(r); len(r) > 0 && r[0] == '{' {
			if err := json.Unmarshal(r, &named); err != nil {
				return nil, err
			}
		}
		if named.Name != nil && named.Type != nil {
			t, err := parseType(named.Type)
			if err != nil {
				return nil, fmt.Errorf("field '%s': %w", *named.Name, err)
			}
			fields = append(fields, &idl.FieldDefinition{Name: *named.Name, Type: t})
			continue
		}

		t, err := parseType(r)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		fields = append(fields, &idl.FieldDefinition{Name: strconv.Itoa(i), Type: t})
	}
	return fields, nil
}

func parseType(raw json.RawMessage) (idl.TypeSpec, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("missing type")
	}

	if raw[0] == '"' {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, err
		}
		return namedType(name)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("invalid type %s: %w", raw, err)
	}
	if len(obj) != 1 {
		return nil, fmt.Errorf("invalid type %s: expected exactly one key", raw)
	}

	for key, inner := range obj {
		switch key {
		case "vec":
			elem, err := parseType(inner)
			if err != nil {
				return nil, err
			}
			return idl.Vec{Elem: elem}, nil
		case "option":
			elem, err := parseType(inner)
			if err != nil {
				return nil, err
			}
			return idl.Option{Elem: elem}, nil
		case "array":
			return parseArray(inner)
		case "defined":
			return parseDefined(inner)
		default:
			return nil, fmt.Errorf("%w: '%s' type", ErrUnsupported, key)
		}
	}
	panic("unreachable")
}

func namedType(name string) (idl.TypeSpec, error) {
	switch name {
	case "publicKey", "pubkey":
		return idl.PublicKey{}, nil
	case "string":
		return idl.String{}, nil
	case "bytes":
		return idl.Bytes{}, nil
	}
	if kind, ok := idl.ParsePrimitiveKind(name); ok {
		return idl.Primitive{Kind: kind}, nil
	}
	return nil, fmt.Errorf("%w: type '%s'", ErrUnsupported, name)
}

func parseArray(raw json.RawMessage) (idl.TypeSpec, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil || len(parts) != 2 {
		return nil, fmt.Errorf("invalid array type %s", raw)
	}
	var n int
	if err := json.Unmarshal(parts[1], &n); err != nil {
		return nil, fmt.Errorf("%w: array length %s", ErrUnsupported, parts[1])
	}
	if n < 0 {
		return nil, fmt.Errorf("invalid array length %d", n)
	}
	elem, err := parseType(parts[0])
	if err != nil {
		return nil, err
	}
	// [u8; N] is kept as opaque bytes.
	if p, ok := elem.(idl.Primitive); ok && p.Kind == idl.U8 {
		return idl.FixedBytes{Len: n}, nil
	}
	return idl.Array{Elem: elem, Len: n}, nil
}

func parseDefined(raw json.RawMessage) (idl.TypeSpec, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return idl.Defined{Name: name}, nil
	}
	var ref struct {
		Name     string            `json:"name"`
		Generics []json.RawMessage `json:"generics"`
	}
	if err := json.Unmarshal(raw, &ref); err != nil || ref.Name == "" {
		return nil, fmt.Errorf("invalid defined type %s", raw)
	}
	if len(ref.Generics) > 0 {
		return nil, fmt.Errorf("%w: generic type '%s'", ErrUnsupported, ref.Name)
	}
	return idl.Defined{Name: ref.Name}, nil
}
