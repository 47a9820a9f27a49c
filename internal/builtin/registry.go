// Package builtin holds the registry of leaf operations. Registration
// happens in init functions across the category files; the table is then
// frozen, sorted by name, and searched with binary search. A builtin's id is
// its index in the frozen table.
package builtin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rtsoliday/SDDS-sub003/internal/vm"
)

var (
	pending []vm.Builtin

	once  sync.Once
	table []vm.Builtin
	names []string
)

func register(name string, cat vm.Category, fn func(*vm.Machine) error) {
	if fn == nil {
		panic(fmt.Sprintf("builtin %s has nil handler", name))
	}
	pending = append(pending, vm.Builtin{Name: name, Category: cat, Fn: fn})
}

func finalize() {
	table = make([]vm.Builtin, len(pending))
	copy(table, pending)
	sort.Slice(table, func(i, j int) bool { return table[i].Name < table[j].Name })
	names = make([]string, len(table))
	for i, b := range table {
		if i > 0 && b.Name == table[i-1].Name {
			panic(fmt.Sprintf("builtin %s registered twice", b.Name))
		}
		names[i] = b.Name
	}
}

// Table returns the frozen, name-sorted builtin table.
func Table() []vm.Builtin {
	once.Do(finalize)
	return table
}

// Lookup returns the id for a builtin name.
func Lookup(name string) (int, bool) {
	once.Do(finalize)
	i := sort.SearchStrings(names, name)
	if i < len(names) && names[i] == name {
		return i, true
	}
	return -1, false
}

// Exists reports whether name is a builtin.
func Exists(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Name returns the name for an id, or "" if out of range.
func Name(id int) string {
	once.Do(finalize)
	if id < 0 || id >= len(names) {
		return ""
	}
	return names[id]
}
