package anchoridl

import "encoding/json"

// File is the on-disk shape of an Anchor IDL.
type File struct {
	Address      string        `json:"address,omitempty" jsonschema:"description=Program address (0.30 layout)"`
	Version      string        `json:"version,omitempty"`
	Name         string        `json:"name,omitempty" jsonschema:"description=Program name (legacy layout)"`
	Metadata     *Metadata     `json:"metadata,omitempty"`
	Instructions []Instruction `json:"instructions" jsonschema:"required"`
	Types        []TypeDef     `json:"types,omitempty"`
}

// Metadata carries the program name (0.30) or address (legacy).
type Metadata struct {
	Name        string `json:"name,omitempty"`
	Version     string `json:"version,omitempty"`
	Spec        string `json:"spec,omitempty"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Instruction describes one program instruction.
type Instruction struct {
	Name          string    `json:"name" jsonschema:"required"`
	Docs          []string  `json:"docs,omitempty"`
	Discriminator []int     `json:"discriminator,omitempty" jsonschema:"description=Explicit discriminator bytes; derived from the name when absent"`
	Accounts      []Account `json:"accounts,omitempty"`
	Args          []Field   `json:"args,omitempty"`
}

// Account is an instruction account, or a named group of accounts.
type Account struct {
	Name     string    `json:"name" jsonschema:"required"`
	Docs     []string  `json:"docs,omitempty"`
	IsMut    bool      `json:"isMut,omitempty"`
	IsSigner bool      `json:"isSigner,omitempty"`
	Writable bool      `json:"writable,omitempty"`
	Signer   bool      `json:"signer,omitempty"`
	Optional bool      `json:"optional,omitempty"`
	Accounts []Account `json:"accounts,omitempty"`
}

// Field is a named, typed argument or struct field.
type Field struct {
	Name string          `json:"name" jsonschema:"required"`
	Docs []string        `json:"docs,omitempty"`
	Type json.RawMessage `json:"type" jsonschema:"required,description=A primitive name or one of {vec} {option} {array} {defined}"`
}

// TypeDef is a named type declared in the IDL.
type TypeDef struct {
	Name string      `json:"name" jsonschema:"required"`
	Docs []string    `json:"docs,omitempty"`
	Type TypeDefBody `json:"type" jsonschema:"required"`
}

// TypeDefBody is the struct or enum layout of a TypeDef. Fields hold either
// named fields or bare types (tuple layout).
type TypeDefBody struct {
	Kind     string            `json:"kind" jsonschema:"required,enum=struct,enum=enum"`
	Fields   []json.RawMessage `json:"fields,omitempty"`
	Variants []EnumVariant     `json:"variants,omitempty"`
}

// EnumVariant is one arm of an enum.
type EnumVariant struct {
	Name   string            `json:"name" jsonschema:"required"`
	Fields []json.RawMessage `json:"fields,omitempty"`
}
