package registry

import (
	"context"
	"errors"

	"github.com/specialistvlad/ixdecode/internal/ctxlog"
	"github.com/specialistvlad/ixdecode/internal/idl"
)

// Load validates doc and builds a Registry from it. On any problem it
// returns a nil Registry and a *ValidationError listing every problem.
func Load(ctx context.Context, doc *idl.Document) (*Registry, error) {
	if doc == nil {
		return nil, &ValidationError{Errors: []*SchemaError{{
			Kind:    ErrInvalidDefinition,
			Subject: "document",
			Detail:  "document is nil",
		}}}
	}

	v := newValidator(doc)
	v.run()
	if len(v.errs) > 0 {
		return nil, &ValidationError{Document: doc.Name, Errors: v.errs}
	}

	reg := &Registry{
		doc:             doc,
		discSize:        doc.EffectiveDiscriminatorSize(),
		byDiscriminator: make(map[string]*idl.VariantDefinition, len(doc.Variants)),
		byName:          make(map[string]*idl.VariantDefinition, len(doc.Variants)),
		types:           v.types,
		minSizes:        v.minSizes,
	}
	for _, variant := range doc.Variants {
		reg.byDiscriminator[string(variant.Discriminator)] = variant
		reg.byName[variant.Name] = variant
	}

	ctxlog.FromContext(ctx).Debug("Schema registry built.",
		"document", doc.Name,
		"program", doc.ProgramID,
		"variants", len(doc.Variants),
		"types", len(doc.Types),
	)
	return reg, nil
}

// MustLoad is like Load but panics on error. It is meant for documents
// compiled into the binary, where a failure is a programming error.
func MustLoad(doc *idl.Document) *Registry {
	reg, err := Load(context.Background(), doc)
	if err != nil {
		panic(err)
	}
	return reg
}

// IsSchemaError reports whether err came from schema validation.
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchema)
}
