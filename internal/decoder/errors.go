package decoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/ixdecode/internal/fieldpath"
)

// ErrorKind classifies a decode failure.
type ErrorKind int

const (
	UnknownVariant ErrorKind = iota
	TruncatedInput
	UnresolvedType
	InvalidTag
	InvalidEncoding
	TrailingData
)

var (
	ErrUnknownVariant  = errors.New("unknown variant")
	ErrTruncatedInput  = errors.New("truncated input")
	ErrUnresolvedType  = errors.New("unresolved type")
	ErrInvalidTag      = errors.New("invalid tag")
	ErrInvalidEncoding = errors.New("invalid encoding")
	ErrTrailingData    = errors.New("trailing data")
)

var kindSentinels = [...]error{
	UnknownVariant:  ErrUnknownVariant,
	TruncatedInput:  ErrTruncatedInput,
	UnresolvedType:  ErrUnresolvedType,
	InvalidTag:      ErrInvalidTag,
	InvalidEncoding: ErrInvalidEncoding,
	TrailingData:    ErrTrailingData,
}

var kindNames = [...]string{
	UnknownVariant:  "UnknownVariant",
	TruncatedInput:  "TruncatedInput",
	UnresolvedType:  "UnresolvedType",
	InvalidTag:      "InvalidTag",
	InvalidEncoding: "InvalidEncoding",
	TrailingData:    "TrailingData",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return kindNames[k]
}

// Sentinel returns the error value that errors.Is matches for this kind.
func (k ErrorKind) Sentinel() error {
	if k < 0 || int(k) >= len(kindSentinels) {
		return nil
	}
	return kindSentinels[k]
}

// DecodeError locates a decode failure.
type DecodeError struct {
	Kind ErrorKind
	// Offset is the position in the buffer where the failed read started.
	Offset int
	// Path is the field being decoded; empty for failures outside any field.
	Path fieldpath.Path
	// Variant is the instruction name, once the discriminator was resolved.
	Variant string
	Err     error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode")
	if e.Variant != "" {
		fmt.Fprintf(&b, " '%s'", e.Variant)
	}
	fmt.Fprintf(&b, " at offset %d", e.Offset)
	if !e.Path.IsRoot() {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Sentinel().Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() []error {
	errs := []error{e.Kind.Sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
