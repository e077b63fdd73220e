// Package idl defines the format-agnostic schema document model.
//
// A Document describes the instruction variants of one program and the named
// composite types their fields refer to. Loaders (Anchor IDL JSON, native HCL
// schema files, builtin modules) produce Documents; the registry package
// validates and indexes them. Nothing in this package performs I/O.
package idl
