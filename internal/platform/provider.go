package platform

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// Provider bundles the backends a session needs.
type Provider struct {
	Name     string
	Backend  Backend
	Launcher Launcher
}

// Options configures backend construction.
type Options struct {
	TreeFile string // Tree document served by the memtree backend
}

// ProviderFunc builds a Provider for a named backend.
type ProviderFunc func(opts Options) (*Provider, error)

// ErrUnsupported is returned for backends that are not compiled into this binary.
var ErrUnsupported = fmt.Errorf("accessibility backend not available on %s/%s", runtime.GOOS, runtime.GOARCH)

var (
	registryMu sync.RWMutex
	registry   = map[string]ProviderFunc{}
)

// Register makes a backend available by name. Backend packages call it from
// init(); see internal/platform/memtree for the tree-document backend.
func Register(name string, fn ProviderFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider returns a Provider for the named backend.
func NewProvider(name string, opts Options) (*Provider, error) {
	registryMu.RLock()
	fn, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("backend %q: %w (registered: %v)", name, ErrUnsupported, Backends())
	}
	p, err := fn(opts)
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	if p.Launcher == nil {
		p.Launcher = ExecLauncher{}
	}
	return p, nil
}
