package templates

import (
	"sync"
	"sync/atomic"
)

// Loader is a pluggable source of template text.
//
// Load returns found=false, and no error, when it does not know the template; the next loader or
// the built-in lookup is tried then. An error aborts resolution.
type Loader interface {
	Load(tag, url string) (source string, found bool, err error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(tag, url string) (string, bool, error)

func (f LoaderFunc) Load(tag, url string) (string, bool, error) {
	return f(tag, url)
}

// Registry is an ordered, append-only list of loaders. Registration and iteration may happen
// concurrently: readers iterate over a snapshot.
type Registry struct {
	loaders atomic.Pointer[[]Loader]
	lock    sync.Mutex
}

// Register appends a loader.
func (r *Registry) Register(l Loader) {
	r.lock.Lock()
	defer r.lock.Unlock()
	var next []Loader
	if current := r.loaders.Load(); current != nil {
		next = append(next, *current...)
	}
	next = append(next, l)
	r.loaders.Store(&next)
}

// Loaders returns the registered loaders in registration order.
func (r *Registry) Loaders() []Loader {
	if current := r.loaders.Load(); current != nil {
		return *current
	}
	return nil
}

// DefaultRegistry is consulted by resolvers that have no registry of their own. It is shared by
// every test in the process, so loaders registered here act as test-environment-wide
// configuration.
var DefaultRegistry = &Registry{}

// RegisterLoader appends a loader to DefaultRegistry.
func RegisterLoader(l Loader) {
	DefaultRegistry.Register(l)
}
