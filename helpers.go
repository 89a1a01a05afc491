package registry

import (
	"fmt"
)

// Resolve looks up the service for T through p with type safety.
// The boolean is false when the service is not available.
func Resolve[T any](p Provider) (T, bool) {
	var zero T

	if p == nil {
		return zero, false
	}

	typed, ok := p.GetService(IDOf[T]()).(T)
	if !ok {
		return zero, false
	}

	return typed, true
}

// MustResolve resolves or panics - use only during startup.
func MustResolve[T any](p Provider) T {
	service, ok := Resolve[T](p)
	if !ok {
		panic(fmt.Sprintf("failed to resolve: %v", ErrServiceNotFound(IDOf[T]())))
	}

	return service
}

// Add registers instance under the identifier of T.
func Add[T any](c Container, instance T, opts ...ServiceOption) error {
	return c.AddService(IDOf[T](), instance, opts...)
}

// AddFactoryFor registers a typed factory under the identifier of T.
//
// Example:
//
//	registry.AddFactoryFor(r, func(c registry.Container) UndoManager {
//	    return newUndoManager()
//	})
func AddFactoryFor[T any](c Container, factory func(Container) T, opts ...ServiceOption) error {
	if factory == nil {
		return c.AddFactory(IDOf[T](), nil, opts...)
	}

	return c.AddFactory(IDOf[T](), func(c Container, _ ServiceID) any {
		return factory(c)
	}, opts...)
}

// RemoveFor removes the registration for the identifier of T.
func RemoveFor[T any](c Container, opts ...ServiceOption) error {
	return c.RemoveService(IDOf[T](), opts...)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(id ServiceID) any

// GetService implements Provider.
func (f ProviderFunc) GetService(id ServiceID) any {
	return f(id)
}
