// Package catalog maps Solana program ids and schema names to decoders.
//
// A Catalog is immutable once built. Build assembles one from schema files
// and builtin modules; Holder publishes the current catalog to concurrent
// readers and lets hot reload swap in a rebuilt one.
package catalog
