// Package parsers holds the inventory import parsers and the registry
// the inventory service selects them from.
package parsers

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps parser names to parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]driven.InventoryParser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]driven.InventoryParser),
	}
}

// Register adds a parser under its Name. A later registration with the
// same name replaces the earlier one.
func (r *Registry) Register(p driven.InventoryParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[strings.ToLower(p.Name())] = p
}

// Get returns the named parser. Names are case insensitive.
func (r *Registry) Get(name string) (driven.InventoryParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("parser %q: %w", name, domain.ErrUnsupportedType)
	}
	return p, nil
}

// Has returns true if a parser with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// Names returns all registered parser names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
