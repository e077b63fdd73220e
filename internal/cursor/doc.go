// Package cursor implements a bounds-checked, forward-only reader over an
// instruction buffer.
//
// Every read checks the remaining length first. A short buffer never panics
// and never yields a partial value; it produces a *TruncatedError carrying
// the offset at which the failed read started. A failed read leaves the
// cursor where it was.
package cursor
