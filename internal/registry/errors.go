package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema is matched by every schema validation failure.
var ErrSchema = errors.New("schema error")

// Problem kinds. Each SchemaError unwraps to exactly one of these.
var (
	ErrDuplicateDiscriminator = errors.New("duplicate discriminator")
	ErrDiscriminatorSize      = errors.New("invalid discriminator size")
	ErrDuplicateName          = errors.New("duplicate name")
	ErrDanglingReference      = errors.New("undefined type")
	ErrTagWidth               = errors.New("inconsistent tag width")
	ErrCyclicType             = errors.New("cyclic type definition")
	ErrZeroSizedElement       = errors.New("zero-sized element")
	ErrSizeLimit              = errors.New("encoding too large")
	ErrInvalidDefinition      = errors.New("invalid definition")
)

// SchemaError describes one problem in a schema document.
type SchemaError struct {
	// Kind is one of the Err* problem sentinels.
	Kind error
	// Subject names the offending definition, e.g. "instruction 'route'".
	Subject string
	Detail  string
	// Err is an optional underlying cause.
	Err error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(e.Subject)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() []error {
	errs := []error{ErrSchema, e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ValidationError aggregates every problem found while loading a document.
type ValidationError struct {
	Document string
	Errors   []*SchemaError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, se := range e.Errors {
		msgs[i] = se.Error()
	}
	return fmt.Sprintf("schema validation failed for '%s':\n- %s", e.Document, strings.Join(msgs, "\n- "))
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, se := range e.Errors {
		errs[i] = se
	}
	return errs
}
