package storage

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Factory creates a store from its options.
type Factory func(ctx context.Context, opts Options) (Store, error)

// DefaultsFunc returns the default options for a backend.
type DefaultsFunc func() Options

type backendEntry struct {
	Factory  Factory
	Defaults DefaultsFunc
}

var (
	backends   = make(map[string]backendEntry)
	backendsMu sync.RWMutex
)

// Register registers a backend factory with the given name.
// Panics if a backend with the same name is already registered.
func Register(name string, factory Factory, defaults DefaultsFunc) {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("storage backend %q already registered", name))
	}
	backends[name] = backendEntry{Factory: factory, Defaults: defaults}
}

// ListBackends returns the names of all registered backends.
func ListBackends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether a backend with the given name is registered.
func IsRegistered(name string) bool {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open creates a store by backend name with opts layered over the backend's
// defaults.
func Open(ctx context.Context, name string, opts Options) (Store, error) {
	slog.InfoContext(ctx, "opening storage backend", "backend", name)

	backendsMu.RLock()
	entry, ok := backends[name]
	backendsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(ListBackends(), ", "))
	}

	var defaults Options
	if entry.Defaults != nil {
		defaults = entry.Defaults()
	}

	store, err := entry.Factory(ctx, defaults.Merge(opts))
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "storage backend opened", "backend", name)
	return store, nil
}
