// Package config defines how schema documents reach the application.
//
// A Loader turns files into format-agnostic idl.Documents. Concrete loaders
// live in their own packages (anchoridl for Anchor JSON, hcl_adapter for
// native HCL schemas); Dispatcher routes each file to the loader registered
// for its extension.
package config
