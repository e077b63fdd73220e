package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/specialistvlad/ixdecode/internal/decoder"
	"github.com/specialistvlad/ixdecode/internal/idl"
	"github.com/specialistvlad/ixdecode/internal/registry"
)

var (
	// ErrUnknownProgram is returned when no schema is registered for a
	// program id or name.
	ErrUnknownProgram = errors.New("unknown program")
	// ErrDuplicateProgram is returned when two schemas claim the same
	// program id or name.
	ErrDuplicateProgram = errors.New("duplicate program")
	// ErrAmbiguousProgram is returned when a program must be picked
	// implicitly but the catalog holds more than one.
	ErrAmbiguousProgram = errors.New("program is ambiguous")
)

// Program is one registered schema and its decoder.
type Program struct {
	Name string
	// ID is the zero key when the schema declares no address.
	ID      solana.PublicKey
	Decoder *decoder.Decoder
}

// HasID reports whether the schema declared a program address.
func (p *Program) HasID() bool { return !p.ID.IsZero() }

// Registry returns the program's schema registry.
func (p *Program) Registry() *registry.Registry { return p.Decoder.Registry() }

// Catalog indexes programs by id and by name.
type Catalog struct {
	programs []*Program
	byID     map[solana.PublicKey]*Program
	byName   map[string]*Program
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byID:   make(map[solana.PublicKey]*Program),
		byName: make(map[string]*Program),
	}
}

// Add validates a schema document and registers it.
func (c *Catalog) Add(ctx context.Context, doc *idl.Document) (*Program, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("schema document has no name")
	}
	if _, exists := c.byName[doc.Name]; exists {
		return nil, fmt.Errorf("%w: name '%s' is already registered", ErrDuplicateProgram, doc.Name)
	}

	p := &Program{Name: doc.Name}
	if doc.ProgramID != "" {
		id, err := solana.PublicKeyFromBase58(doc.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("invalid program id %q for '%s': %w", doc.ProgramID, doc.Name, err)
		}
		if other, exists := c.byID[id]; exists {
			return nil, fmt.Errorf("%w: program id %s is claimed by '%s' and '%s'", ErrDuplicateProgram, id, other.Name, doc.Name)
		}
		p.ID = id
	}

	reg, err := registry.Load(ctx, doc)
	if err != nil {
		return nil, err
	}
	p.Decoder = decoder.New(reg)

	c.programs = append(c.programs, p)
	c.byName[p.Name] = p
	if p.HasID() {
		c.byID[p.ID] = p
	}
	return p, nil
}

// AddAll registers every document, collecting all failures into one error.
func (c *Catalog) AddAll(ctx context.Context, docs []*idl.Document) error {
	var errs []string
	for _, doc := range docs {
		if _, err := c.Add(ctx, doc); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalog build failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Lookup finds a program by id.
func (c *Catalog) Lookup(id solana.PublicKey) (*Program, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, id)
	}
	return p, nil
}

// LookupName finds a program by schema name.
func (c *Catalog) LookupName(name string) (*Program, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Resolve finds a program by schema name or base58 program id. An empty
// reference selects the only registered program.
func (c *Catalog) Resolve(ref string) (*Program, error) {
	if ref == "" {
		switch len(c.programs) {
		case 0:
			return nil, fmt.Errorf("%w: no schemas are loaded", ErrUnknownProgram)
		case 1:
			return c.programs[0], nil
		default:
			return nil, fmt.Errorf("%w: %d schemas are loaded, choose one of %s", ErrAmbiguousProgram, len(c.programs), strings.Join(c.Names(), ", "))
		}
	}
	if p, ok := c.byName[ref]; ok {
		return p, nil
	}
	id, err := solana.PublicKeyFromBase58(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is neither a schema name nor a program id", ErrUnknownProgram, ref)
	}
	return c.Lookup(id)
}

// Programs lists the registered programs in registration order.
func (c *Catalog) Programs() []*Program {
	out := make([]*Program, len(c.programs))
	copy(out, c.programs)
	return out
}

// Names lists the registered schema names in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.programs))
	for i, p := range c.programs {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of registered programs.
func (c *Catalog) Len() int { return len(c.programs) }
