package convert

import (
	"maps"
	"slices"
)

// Imports tracks the modules and symbols a generated file depends on.
// Entries are deduplicated, and imports from the file's own source are
// dropped. The zero value tracks without eliding anything.
type Imports struct {
	self    string
	modules map[string]bool
	symbols map[string]map[string]bool
}

// Group is the set of symbols imported from one source.
type Group struct {
	Source  string
	Symbols []string
}

// NewImports returns an empty tracker for a file whose own import source is self.
func NewImports(self string) *Imports {
	return &Imports{self: self}
}

// Self returns the source imports are elided for.
func (im *Imports) Self() string {
	return im.self
}

// AddModule records an import of a whole module, e.g. Python's "import typing".
func (im *Imports) AddModule(source string) {
	if source == "" || (im.self != "" && source == im.self) {
		return
	}
	if im.modules == nil {
		im.modules = make(map[string]bool)
	}
	im.modules[source] = true
}

// Add records an import of symbol from source. An empty symbol is the same
// as AddModule.
func (im *Imports) Add(source, symbol string) {
	if symbol == "" {
		im.AddModule(source)
		return
	}
	if source == "" || (im.self != "" && source == im.self) {
		return
	}
	if im.symbols == nil {
		im.symbols = make(map[string]map[string]bool)
	}
	if im.symbols[source] == nil {
		im.symbols[source] = make(map[string]bool)
	}
	im.symbols[source][symbol] = true
}

// Has reports whether the pair was recorded. An empty symbol asks about a
// whole-module import.
func (im *Imports) Has(source, symbol string) bool {
	if symbol == "" {
		return im.modules[source]
	}
	return im.symbols[source][symbol]
}

// Modules returns the whole-module imports, sorted.
func (im *Imports) Modules() []string {
	return slices.Sorted(maps.Keys(im.modules))
}

// Groups returns the symbol imports grouped by source, sorted by source and
// then by symbol.
func (im *Imports) Groups() []Group {
	groups := make([]Group, 0, len(im.symbols))
	for _, source := range slices.Sorted(maps.Keys(im.symbols)) {
		groups = append(groups, Group{
			Source:  source,
			Symbols: slices.Sorted(maps.Keys(im.symbols[source])),
		})
	}
	return groups
}

// Len returns the number of recorded module imports and symbols.
func (im *Imports) Len() int {
	n := len(im.modules)
	for _, s := range im.symbols {
		n += len(s)
	}
	return n
}

// Merge records every import of other.
func (im *Imports) Merge(other *Imports) {
	for source := range other.modules {
		im.AddModule(source)
	}
	for source, symbols := range other.symbols {
		for symbol := range symbols {
			im.Add(source, symbol)
		}
	}
}
