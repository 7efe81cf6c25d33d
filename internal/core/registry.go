package core

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownEntity is returned for an entity-type selector with no registration.
var ErrUnknownEntity = errors.New("unknown entity type")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]EntityDefinition)
)

// Register adds an importable entity. It panics on a duplicate key or a
// definition missing Build or Persist; registration happens in init, so
// either is a programming error.
func Register(def EntityDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := def.Info.Key
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("entity already registered: %s", key))
	}
	if def.Build == nil || def.Persist == nil {
		panic(fmt.Sprintf("entity %s: Build and Persist are required", key))
	}
	registry[key] = def
}

// Get returns the definition registered under key.
func Get(key string) (EntityDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	def, ok := registry[key]
	return def, ok
}

// Lookup is Get with ErrUnknownEntity for a missing key.
func Lookup(key string) (EntityDefinition, error) {
	if def, ok := Get(key); ok {
		return def, nil
	}
	return EntityDefinition{}, fmt.Errorf("%w: %s", ErrUnknownEntity, key)
}

// All returns every registered definition ordered by key.
func All() []EntityDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.SortedFunc(maps.Values(registry), func(a, b EntityDefinition) int {
		return strings.Compare(a.Info.Key, b.Info.Key)
	})
}
