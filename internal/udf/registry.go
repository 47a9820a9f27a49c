// Package udf implements the user-defined function registry. A UDF has a
// stable integer handle that survives redefinition, so call sites compiled
// against the handle keep working when the body is replaced.
package udf

import (
	"fmt"
	"sort"

	"github.com/rtsoliday/SDDS-sub003/internal/code"
)

// Entry describes one user-defined function.
type Entry struct {
	Name   string
	Source string
	Range  code.Range
}

// Registry keeps UDFs in a dense handle-indexed table plus a name-sorted
// index for binary search. Both views always agree.
type Registry struct {
	entries []Entry // handle -> entry
	byName  []int   // handles sorted by entry name

	changed bool

	// reserved reports whether a name belongs to a builtin and may therefore
	// not become a UDF. Injected to avoid a package cycle.
	reserved func(name string) bool
}

// New constructs an empty registry. reserved may be nil.
func New(reserved func(name string) bool) *Registry {
	return &Registry{reserved: reserved}
}

// Declare creates or redefines a UDF's source text and returns its handle.
// The instruction range is attached separately with SetRange once the body
// has been compiled; declaring before compiling is what lets a function body
// refer to itself. Redefinition keeps the handle and the old range until
// SetRange replaces it.
func (r *Registry) Declare(name, source string) (int, error) {
	if r.reserved != nil && r.reserved(name) {
		return -1, fmt.Errorf("cannot create function with reserved name %q", name)
	}
	if handle, ok := r.Find(name); ok {
		r.entries[handle].Source = source
		r.changed = true
		return handle, nil
	}
	handle := len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Source: source, Range: code.Range{}})

	i := sort.Search(len(r.byName), func(i int) bool { return r.entries[r.byName[i]].Name >= name })
	r.byName = append(r.byName, 0)
	copy(r.byName[i+1:], r.byName[i:])
	r.byName[i] = handle

	r.changed = true
	return handle, nil
}

// SetRange attaches the compiled instruction range to a handle.
func (r *Registry) SetRange(handle int, rng code.Range) {
	r.entries[handle].Range = rng
}

// Find returns the handle for name.
func (r *Registry) Find(name string) (int, bool) {
	i := sort.Search(len(r.byName), func(i int) bool { return r.entries[r.byName[i]].Name >= name })
	if i < len(r.byName) && r.entries[r.byName[i]].Name == name {
		return r.byName[i], true
	}
	return -1, false
}

// Exists reports whether name is a UDF.
func (r *Registry) Exists(name string) bool {
	_, ok := r.Find(name)
	return ok
}

// Range returns the instruction range for a handle in O(1).
func (r *Registry) Range(handle int) (code.Range, bool) {
	if handle < 0 || handle >= len(r.entries) {
		return code.Range{}, false
	}
	return r.entries[handle].Range, true
}

// Entry returns a copy of the entry for a handle.
func (r *Registry) Entry(handle int) (Entry, bool) {
	if handle < 0 || handle >= len(r.entries) {
		return Entry{}, false
	}
	return r.entries[handle], true
}

// Name returns the name for a handle, or "" if out of range.
func (r *Registry) Name(handle int) string {
	if handle < 0 || handle >= len(r.entries) {
		return ""
	}
	return r.entries[handle].Name
}

// Len returns the number of UDFs.
func (r *Registry) Len() int { return len(r.entries) }

// All returns entries in name order, for listings.
func (r *Registry) All() []Entry {
	out := make([]Entry, len(r.byName))
	for i, handle := range r.byName {
		out[i] = r.entries[handle]
	}
	return out
}

// Changed reports whether a UDF was created or redefined since the last
// ClearChanged. The linker consults this between top-level inputs.
func (r *Registry) Changed() bool { return r.changed }

// ClearChanged resets the dirty flag.
func (r *Registry) ClearChanged() { r.changed = false }
