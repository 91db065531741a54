package provider

import (
	"fmt"
	"sync"
)

var _ DependencyProvider = new(Registry)

// Registry is a manual DependencyProvider implementation: the host
// application declares its instances explicitly at startup using Provide.
//
// Registry is safe for concurrent use.
type Registry struct {
	mx        sync.RWMutex
	instances map[string][]any
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{instances: make(map[string][]any)}
}

// Provide declares the instances under the specified key, after any
// instance previously declared under the same key.
func (r *Registry) Provide(key string, instances ...any) *Registry {
	r.mx.Lock()
	defer r.mx.Unlock()

	if r.instances == nil {
		r.instances = make(map[string][]any)
	}

	r.instances[key] = append(r.instances[key], instances...)

	return r
}

// SingleInstanceOf implements provider.DependencyProvider.
func (r *Registry) SingleInstanceOf(key string) (any, error) {
	r.mx.RLock()
	defer r.mx.RUnlock()

	switch instances := r.instances[key]; len(instances) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrDependencyNotFound, key)
	case 1:
		return instances[0], nil
	default:
		return nil, fmt.Errorf("%w: %s has %d instances", ErrAmbiguousDependency, key, len(instances))
	}
}

// InstancesOf implements provider.DependencyProvider.
func (r *Registry) InstancesOf(key string) ([]any, error) {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return append([]any(nil), r.instances[key]...), nil
}
