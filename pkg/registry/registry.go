// Package registry implements the case-insensitive alias→factory lookup the pipeline orchestrator uses to resolve step
// names to concrete fetchers, chefs, chunkers, refineries, and porters.
package registry

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/wyvernzora/chonkie/pkg/chunkerr"
)

const component = "component registry"

// Kind partitions the registry's alias space by component family.
type Kind string

const (
	KindFetcher  Kind = "fetcher"
	KindChef     Kind = "chef"
	KindChunker  Kind = "chunker"
	KindRefinery Kind = "refinery"
	KindPorter   Kind = "porter"
)

// Factory builds a component instance from a name→value options map. The
// concrete type it returns depends on Kind: fetcher.Fetcher for
// KindFetcher, chef.Chef for KindChef, a chunker exposing Chunk(...) for
// KindChunker, *refinery.Refinery for KindRefinery, porter.Porter for
// KindPorter.
type Factory func(options map[string]any) (any, error)

// Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[Kind]map[string]Factory
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[Kind]map[string]Factory)}
}

// Register adds factory under alias (case-insensitive) within kind.
// Re-registering the same alias with the same underlying factory function
// is a no-op; re-registering it with a different factory is an error.
func (r *Registry) Register(kind Kind, alias string, factory Factory) error {
	key := strings.ToLower(alias)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries[kind] == nil {
		r.entries[kind] = make(map[string]Factory)
	}
	if existing, ok := r.entries[kind][key]; ok {
		if sameFactory(existing, factory) {
			return nil
		}
		return chunkerr.WithReason(chunkerr.KindConfiguration, chunkerr.ReasonDuplicateAlias,
			component, fmt.Sprintf("alias %q is already registered as %s with a different factory", alias, kind), nil)
	}
	r.entries[kind][key] = factory
	return nil
}

// sameFactory reports whether two Factory values point at the same
// underlying function. Go gives function values no equality operator, so
// this compares the code pointer via reflection — sufficient to recognize
// "the same registration happened twice" (e.g. NewDefault called more than
// once), not to compare closures for behavioral equivalence.
func sameFactory(a, b Factory) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Lookup resolves alias within kind. If alias is registered under a
// different kind, returns ReasonWrongComponentType; if it is not
// registered anywhere, returns ReasonUnknownComponent.
func (r *Registry) Lookup(kind Kind, alias string) (Factory, error) {
	key := strings.ToLower(alias)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.entries[kind]; ok {
		if f, ok := m[key]; ok {
			return f, nil
		}
	}
	for k, m := range r.entries {
		if k == kind {
			continue
		}
		if _, ok := m[key]; ok {
			return nil, chunkerr.WithReason(chunkerr.KindConfiguration, chunkerr.ReasonWrongComponentType,
				component, fmt.Sprintf("%q is registered as %s, not %s", alias, k, kind), nil)
		}
	}
	return nil, chunkerr.WithReason(chunkerr.KindConfiguration, chunkerr.ReasonUnknownComponent,
		component, fmt.Sprintf("no component registered under alias %q", alias), nil)
}

// Build resolves alias within kind and invokes its factory with options.
func (r *Registry) Build(kind Kind, alias string, options map[string]any) (any, error) {
	factory, err := r.Lookup(kind, alias)
	if err != nil {
		return nil, err
	}
	return factory(options)
}
