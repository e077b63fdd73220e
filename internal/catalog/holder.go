package catalog

import "sync/atomic"

// Holder publishes the current catalog. Readers never block writers.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder creates a holder serving c.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Load returns the current catalog.
func (h *Holder) Load() *Catalog { return h.current.Load() }

// Store replaces the current catalog.
func (h *Holder) Store(c *Catalog) { h.current.Store(c) }
