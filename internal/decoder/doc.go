// Package decoder turns raw instruction bytes into a value tree using a
// validated schema registry.
//
// Decoding is a single forward pass: the discriminator selects a variant,
// its fields are read in declaration order, and the whole buffer must be
// consumed. Any failure is reported as a *DecodeError carrying the kind of
// failure, the byte offset where the failed read started and the field path
// being decoded. A failed decode never returns a partial tree.
package decoder
