// This file translates decoded HCL blocks into the format-agnostic schema
// model defined in the idl package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/ixdecode/internal/anchoridl"
	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// translateProgram converts a program block into a schema document.
func (l *Loader) translateProgram(ctx context.Context, p *Program) (*idl.Document, error) {
	logger := ctxlog.FromContext(ctx).With("program", p.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	doc := &idl.Document{
		Name:              p.Name,
		ProgramID:         p.Address,
		DiscriminatorSize: idl.DefaultDiscriminatorSize,
	}
	if p.DiscriminatorSize != nil {
		doc.DiscriminatorSize = *p.DiscriminatorSize
	}

	for _, ix := range p.Instructions {
		v, err := l.translateInstruction(ctx, ix)
		if err != nil {
			return nil, fmt.Errorf("in program '%s', instruction '%s': %w", p.Name, ix.Name, err)
		}
		doc.Variants = append(doc.Variants, v)
	}
	for _, tb := range p.Types {
		def, err := l.translateType(ctx, tb)
		if err != nil {
			return nil, fmt.Errorf("in program '%s', type '%s': %w", p.Name, tb.Name, err)
		}
		doc.Types = append(doc.Types, def)
	}

	logger.Debug("Translated HCL program.", "instructions", len(doc.Variants), "types", len(doc.Types))
	return doc, nil
}

func (l *Loader) translateInstruction(ctx context.Context, ix *Instruction) (*idl.VariantDefinition, error) {
	v := &idl.VariantDefinition{
		Name:     ix.Name,
		Accounts: ix.Accounts,
	}
	if ix.Description != "" {
		v.Docs = []string{ix.Description}
	}

	if isExprDefined(ctx, ix.Discriminator, "discriminator") {
		disc, err := discriminatorBytes(ix.Discriminator)
		if err != nil {
			return nil, err
		}
		v.Discriminator = disc
	} else {
		v.Discriminator = anchoridl.Discriminator(ix.Name)
	}

	fields, err := translateFields(ctx, ix.Fields)
	if err != nil {
		return nil, err
	}
	v.Fields = fields
	return v, nil
}

func (l *Loader) translateType(ctx context.Context, tb *TypeBlock) (*idl.TypeDefinition, error) {
	def := &idl.TypeDefinition{Name: tb.Name}
	if tb.Description != "" {
		def.Docs = []string{tb.Description}
	}

	switch tb.Kind {
	case "struct":
		if len(tb.Variants) > 0 {
			return nil, fmt.Errorf("struct types cannot declare variants")
		}
		if tb.TagSize != nil {
			return nil, fmt.Errorf("tag_size is only valid for enum types")
		}
		def.Kind = idl.KindStruct
		fields, err := translateFields(ctx, tb.Fields)
		if err != nil {
			return nil, err
		}
		def.Fields = fields
	case "enum":
		if len(tb.Fields) > 0 {
			return nil, fmt.Errorf("enum types declare fields inside variant blocks")
		}
		def.Kind = idl.KindUnion
		def.TagSize = 1
		if tb.TagSize != nil {
			def.TagSize = *tb.TagSize
		}
		for _, vb := range tb.Variants {
			fields, err := translateFields(ctx, vb.Fields)
			if err != nil {
				return nil, fmt.Errorf("in variant '%s': %w", vb.Name, err)
			}
			def.Variants = append(def.Variants, &idl.UnionVariant{Name: vb.Name, Fields: fields})
		}
	default:
		return nil, fmt.Errorf("unknown kind %q, expected \"struct\" or \"enum\"", tb.Kind)
	}
	return def, nil
}

func translateFields(ctx context.Context, blocks []*Field) ([]*idl.FieldDefinition, error) {
	fields := make([]*idl.FieldDefinition, 0, len(blocks))
	for _, f := range blocks {
		t, err := typeExprToTypeSpec(ctx, f.Type)
		if err != nil {
			return nil, fmt.Errorf("in field '%s': %w", f.Name, err)
		}
		fields = append(fields, &idl.FieldDefinition{Name: f.Name, Type: t})
	}
	return fields, nil
}
