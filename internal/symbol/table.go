// Package symbol implements the named-variable table ("memories"): stable
// integer slots with O(1) store/recall and a name-sorted index for lookup.
package symbol

import (
	"fmt"
	"sort"
)

// Kind distinguishes numeric and string variables.
type Kind int

const (
	Number Kind = iota
	String
)

type indexEntry struct {
	name string
	slot int
}

// Table maps names to slots and slots to values. Slots are dense, assigned in
// creation order, and never reused; a variable lives until the table does.
type Table struct {
	index []indexEntry // sorted by name
	nums  []float64
	strs  []string
	kinds []Kind
	names []string // slot -> name

	changed bool

	// reserved reports whether a name belongs to a builtin or UDF and may
	// therefore not become a variable. Injected by the owner to avoid a
	// package cycle with the registries.
	reserved func(name string) bool
}

// New constructs an empty table. reserved may be nil.
func New(reserved func(name string) bool) *Table {
	return &Table{reserved: reserved}
}

// Create returns the slot for name, creating the variable zero-valued if it
// does not exist. Creation is idempotent: an existing name returns its slot
// unchanged (forward references create placeholders that a later sto fills).
// A name held by a builtin or UDF is rejected.
func (t *Table) Create(name string, kind Kind) (int, error) {
	if slot, _, ok := t.Find(name); ok {
		return slot, nil
	}
	if t.reserved != nil && t.reserved(name) {
		return -1, fmt.Errorf("cannot create variable with reserved name %q", name)
	}
	slot := len(t.nums)
	t.nums = append(t.nums, 0)
	t.strs = append(t.strs, "")
	t.kinds = append(t.kinds, kind)
	t.names = append(t.names, name)

	i := sort.Search(len(t.index), func(i int) bool { return t.index[i].name >= name })
	t.index = append(t.index, indexEntry{})
	copy(t.index[i+1:], t.index[i:])
	t.index[i] = indexEntry{name: name, slot: slot}

	t.changed = true
	return slot, nil
}

// Find returns the slot and kind for name.
func (t *Table) Find(name string) (slot int, kind Kind, ok bool) {
	i := sort.Search(len(t.index), func(i int) bool { return t.index[i].name >= name })
	if i < len(t.index) && t.index[i].name == name {
		slot = t.index[i].slot
		return slot, t.kinds[slot], true
	}
	return -1, Number, false
}

// Exists reports whether name is a variable.
func (t *Table) Exists(name string) bool {
	_, _, ok := t.Find(name)
	return ok
}

// Store sets the numeric value of a slot.
func (t *Table) Store(slot int, v float64) {
	t.nums[slot] = v
}

// StoreString sets the string value of a slot.
func (t *Table) StoreString(slot int, s string) {
	t.strs[slot] = s
}

// Recall returns the numeric value of a slot.
func (t *Table) Recall(slot int) float64 {
	return t.nums[slot]
}

// RecallString returns the string value of a slot.
func (t *Table) RecallString(slot int) string {
	return t.strs[slot]
}

// Kind returns the kind recorded when the slot was created.
func (t *Table) Kind(slot int) Kind {
	return t.kinds[slot]
}

// Name returns the name of a slot, or "" if out of range.
func (t *Table) Name(slot int) string {
	if slot < 0 || slot >= len(t.names) {
		return ""
	}
	return t.names[slot]
}

// Len returns the number of variables.
func (t *Table) Len() int { return len(t.nums) }

// Names returns all variable names in sorted order.
func (t *Table) Names() []string {
	out := make([]string, len(t.index))
	for i, e := range t.index {
		out[i] = e.name
	}
	return out
}

// Changed reports whether a variable was created since the last ClearChanged.
// The linker consults this between top-level inputs.
func (t *Table) Changed() bool { return t.changed }

// ClearChanged resets the dirty flag.
func (t *Table) ClearChanged() { t.changed = false }
