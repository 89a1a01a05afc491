package registry

import (
	logger "github.com/xraph/go-utils/log"
)

// Source tells where GetService found a service.
type Source uint8

const (
	// SourceNone means no registry in the chain provided the service.
	SourceNone Source = iota
	// SourceDefault means the id is a default self identifier.
	SourceDefault
	// SourceLocal means a previously resolved local instance.
	SourceLocal
	// SourceFactory means a local factory ran for this lookup.
	SourceFactory
	// SourceParent means the lookup was delegated to the parent.
	SourceParent
)

// String returns the lowercase name of the source.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceLocal:
		return "local"
	case SourceFactory:
		return "factory"
	case SourceParent:
		return "parent"
	default:
		return "none"
	}
}

// Middleware observes service resolution.
// Middleware can be used for logging, metrics, testing, etc.
//
// A registry's middleware sees the lookups made on that registry. When the
// lookup is delegated to a parent Registry, the parent's middleware is not
// called; the result reaches this registry's chain with SourceParent.
type Middleware interface {
	// BeforeResolve is called before resolving a service.
	BeforeResolve(id ServiceID)

	// AfterResolve is called after resolving a service. service is nil when
	// nothing was found.
	AfterResolve(id ServiceID, service any, source Source)
}

// FactoryObserver is an optional Middleware extension notified when a
// factory result is discarded because it does not satisfy its identifier.
type FactoryObserver interface {
	FactoryRejected(id ServiceID, produced any)
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	if middleware != nil {
		m.middleware = append(m.middleware, middleware)
	}
}

// clone returns a chain with the same middleware.
func (m *middlewareChain) clone() *middlewareChain {
	return &middlewareChain{
		middleware: append(make([]Middleware, 0, len(m.middleware)), m.middleware...),
	}
}

// beforeResolve calls BeforeResolve on all middleware.
func (m *middlewareChain) beforeResolve(id ServiceID) {
	for _, mw := range m.middleware {
		mw.BeforeResolve(id)
	}
}

// afterResolve calls AfterResolve on all middleware.
func (m *middlewareChain) afterResolve(id ServiceID, service any, source Source) {
	for _, mw := range m.middleware {
		mw.AfterResolve(id, service, source)
	}
}

// factoryRejected notifies middleware implementing FactoryObserver.
func (m *middlewareChain) factoryRejected(id ServiceID, produced any) {
	for _, mw := range m.middleware {
		if obs, ok := mw.(FactoryObserver); ok {
			obs.FactoryRejected(id, produced)
		}
	}
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeResolveFunc   func(id ServiceID)
	AfterResolveFunc    func(id ServiceID, service any, source Source)
	FactoryRejectedFunc func(id ServiceID, produced any)
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(id ServiceID) {
	if f.BeforeResolveFunc != nil {
		f.BeforeResolveFunc(id)
	}
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(id ServiceID, service any, source Source) {
	if f.AfterResolveFunc != nil {
		f.AfterResolveFunc(id, service, source)
	}
}

// FactoryRejected implements FactoryObserver.
func (f *FuncMiddleware) FactoryRejected(id ServiceID, produced any) {
	if f.FactoryRejectedFunc != nil {
		f.FactoryRejectedFunc(id, produced)
	}
}

// LoggingMiddleware logs every resolution at debug level.
func LoggingMiddleware(l logger.Logger) Middleware {
	return &FuncMiddleware{
		AfterResolveFunc: func(id ServiceID, service any, source Source) {
			if id == nil {
				return
			}

			l.Debug("service resolved",
				logger.String("service", id.String()),
				logger.String("source", source.String()),
				logger.Bool("found", service != nil),
			)
		},
	}
}
