package cursor

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is wrapped by *TruncatedError.
	ErrTruncated = errors.New("truncated input")
	// ErrInvalidBool is wrapped by *InvalidBoolError.
	ErrInvalidBool = errors.New("invalid bool")
)

// TruncatedError reports a read that needed more bytes than remained.
type TruncatedError struct {
	Offset    int
	Need      int
	Remaining int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%v at offset %d: need %d bytes, %d remaining", ErrTruncated, e.Offset, e.Need, e.Remaining)
}

func (e *TruncatedError) Unwrap() error { return ErrTruncated }

// InvalidBoolError reports a bool byte that is neither 0 nor 1.
type InvalidBoolError struct {
	Offset int
	Value  byte
}

func (e *InvalidBoolError) Error() string {
	return fmt.Sprintf("%v at offset %d: byte 0x%02x", ErrInvalidBool, e.Offset, e.Value)
}

func (e *InvalidBoolError) Unwrap() error { return ErrInvalidBool }
