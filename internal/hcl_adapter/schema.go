package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a schema file.
type fileRoot struct {
	Programs []*Program `hcl:"program,block"`
}

// Program is one `program "name" { ... }` block. Each block becomes one
// schema document.
type Program struct {
	Name              string         `hcl:"name,label"`
	Address           string         `hcl:"address,optional"`
	DiscriminatorSize *int           `hcl:"discriminator_size,optional"`
	Instructions      []*Instruction `hcl:"instruction,block"`
	Types             []*TypeBlock   `hcl:"type,block"`
}

// Instruction is an `instruction "name" { ... }` block.
type Instruction struct {
	Name          string         `hcl:"name,label"`
	Description   string         `hcl:"description,optional"`
	Discriminator hcl.Expression `hcl:"discriminator,optional"`
	Accounts      []string       `hcl:"accounts,optional"`
	Fields        []*Field       `hcl:"field,block"`
}

// Field is a `field "name" { type = ... }` block.
type Field struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

// TypeBlock is a `type "Name" { kind = "struct" | "enum" ... }` block.
type TypeBlock struct {
	Name        string     `hcl:"name,label"`
	Kind        string     `hcl:"kind"`
	Description string     `hcl:"description,optional"`
	TagSize     *int       `hcl:"tag_size,optional"`
	Fields      []*Field   `hcl:"field,block"`
	Variants    []*Variant `hcl:"variant,block"`
}

// Variant is one arm of an enum type.
type Variant struct {
	Name   string   `hcl:"name,label"`
	Fields []*Field `hcl:"field,block"`
}
