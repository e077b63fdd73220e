// Package registry validates a schema document and indexes it for decoding.
//
// Load checks the whole document up front (duplicate discriminators,
// dangling references, union tag widths, cyclic type definitions) and
// reports every problem it finds in one error. A Registry that failed to
// build is never returned, and a returned Registry is never mutated, so it
// can be shared by any number of concurrent decodes.
package registry
