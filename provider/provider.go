// Package provider contains the DependencyProvider abstraction, the only seam
// between the dispatch core and the way the host application constructs
// its Handlers and Consumers.
//
// Any dependency injection container, a manual registry or a static map
// can satisfy the DependencyProvider interface: this package ships a
// manual Registry, and the dispatchfx package an implementation backed
// by go.uber.org/fx value groups.
package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrDependencyNotFound is returned when no instance has been declared
	// for the requested key.
	ErrDependencyNotFound = errors.New("provider: dependency not found")

	// ErrAmbiguousDependency is returned by SingleInstanceOf when more than
	// one instance has been declared for the requested key.
	ErrAmbiguousDependency = errors.New("provider: ambiguous dependency")
)

// DependencyProvider resolves the instances declared by the host application.
//
// Keys identify a declared kind of dependency, e.g. "all the Command Handler
// bindings": see mediator.BindingsKey and eventbus.SubscriptionsKey.
type DependencyProvider interface {
	// SingleInstanceOf returns the only instance declared for the key.
	//
	// ErrDependencyNotFound is returned when none has been declared,
	// ErrAmbiguousDependency when more than one has.
	SingleInstanceOf(key string) (any, error)

	// InstancesOf returns all the instances declared for the key,
	// in declaration order. No instances is not an error.
	InstancesOf(key string) ([]any, error)
}

// InstancesOfType returns all the instances declared for the key, asserting
// each one to T.
//
// An error is returned if any of the instances does not implement T,
// as that is a configuration defect of the host application.
func InstancesOfType[T any](p DependencyProvider, key string) ([]T, error) {
	instances, err := p.InstancesOf(key)
	if err != nil {
		return nil, fmt.Errorf("provider: failed to resolve instances of '%s': %w", key, err)
	}

	result := make([]T, 0, len(instances))

	for i, instance := range instances {
		v, ok := instance.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("provider: instance #%d of '%s' is %T, expected %T", i, key, instance, zero)
		}

		result = append(result, v)
	}

	return result, nil
}
