// Package registry provides a hierarchical service registry.
//
// A Registry maps service identifiers (Go types) to service instances or to
// factories that create them on first request. Lookups that miss locally are
// delegated to an optional parent Provider. Registrations can be promoted to
// the nearest ancestor container, and Dispose tears down every resolved
// instance that implements Disposable.
//
// A Registry is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
package registry

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/xraph/go-utils/di"
	logger "github.com/xraph/go-utils/log"
	"go.uber.org/multierr"
)

// Provider resolves services by identifier. GetService returns nil when the
// service is not available.
type Provider interface {
	GetService(id ServiceID) any
}

// Container is a Provider that also accepts registrations.
type Container interface {
	Provider

	// AddService registers an instance, or a Factory passed as the instance.
	AddService(id ServiceID, instance any, opts ...ServiceOption) error

	// AddFactory registers a factory invoked on the first lookup of id.
	AddFactory(id ServiceID, factory Factory, opts ...ServiceOption) error

	// RemoveService removes the registration for id, if any.
	RemoveService(id ServiceID, opts ...ServiceOption) error
}

// ContainerSource is implemented by providers that expose a Container
// without answering GetService for the Container identifier.
type ContainerSource interface {
	AsContainer() Container
}

// Factory creates a service on first request. It receives the registry the
// lookup was made on and the requested identifier, and may return nil.
type Factory func(c Container, id ServiceID) any

// Disposable is implemented by services that release resources on Dispose.
type Disposable = di.Disposable

var (
	providerID  = IDOf[Provider]()
	containerID = IDOf[Container]()
	registryID  = IDOf[*Registry]()
)

// DefaultServices returns the identifiers every Registry resolves to itself.
func DefaultServices() []ServiceID {
	return []ServiceID{providerID, containerID, registryID}
}

// Registry is the hierarchical service container.
type Registry struct {
	instanceID string
	parent     Provider
	comparer   IDComparer
	defaults   []ServiceID
	services   *serviceTable // allocated on first insertion, detached by Dispose
	disposed   bool
	baseLogger logger.Logger
	logger     logger.Logger
	middleware *middlewareChain
}

// New creates a Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		instanceID: uuid.NewString(),
		comparer:   IdentityComparer,
		defaults:   DefaultServices(),
		baseLogger: logger.NewNoopLogger(),
		middleware: newMiddlewareChain(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.logger = r.baseLogger.With(logger.String("registry", r.instanceID))

	return r
}

// InstanceID returns the unique id of this registry, used in logs and ServiceInfo.
func (r *Registry) InstanceID() string {
	return r.instanceID
}

// Parent returns the parent provider, or nil.
func (r *Registry) Parent() Provider {
	return r.parent
}

// AddService registers instance under id.
//
// instance must be assignable to id, be a Foreign object, or be a Factory,
// in which case it is registered as with AddFactory. With Promote the call
// is forwarded to the nearest ancestor container when one is reachable.
func (r *Registry) AddService(id ServiceID, instance any, opts ...ServiceOption) error {
	if mergeServiceOptions(opts).promote {
		if ancestor := r.ancestor(); ancestor != nil {
			return ancestor.AddService(id, instance, opts...)
		}
	}

	if id == nil {
		return ErrInvalidArgument("id")
	}

	if isNil(instance) {
		return ErrInvalidArgument("instance")
	}

	if factory, ok := asFactory(instance); ok {
		return r.store(&entry{id: id, kind: factoryEntry, factory: factory})
	}

	if !isInstanceOf(instance, id, r.comparer) {
		return ErrInvalidServiceInstance(id, instance)
	}

	return r.store(&entry{id: id, kind: instanceEntry, instance: instance})
}

// AddFactory registers factory under id. The factory is invoked at most once,
// on the first GetService for id; its result is type checked then.
func (r *Registry) AddFactory(id ServiceID, factory Factory, opts ...ServiceOption) error {
	if mergeServiceOptions(opts).promote {
		if ancestor := r.ancestor(); ancestor != nil {
			return ancestor.AddFactory(id, factory, opts...)
		}
	}

	if id == nil {
		return ErrInvalidArgument("id")
	}

	if factory == nil {
		return ErrInvalidArgument("factory")
	}

	return r.store(&entry{id: id, kind: factoryEntry, factory: factory})
}

// store inserts e into the local table.
func (r *Registry) store(e *entry) error {
	if r.disposed {
		return ErrRegistryDisposed
	}

	if r.isDefault(e.id) || r.services.lookup(e.id) != nil {
		return ErrServiceAlreadyExists(e.id)
	}

	if r.services == nil {
		r.services = newServiceTable(r.comparer)
	}

	r.services.insert(e)

	r.logger.Debug("service added",
		logger.String("service", e.id.String()),
		logger.Bool("factory", e.kind == factoryEntry),
	)

	return nil
}

// GetService returns the service registered under id, resolving it through
// the default self identifiers, the local table and finally the parent.
// It returns nil when no registry in the chain provides the service.
func (r *Registry) GetService(id ServiceID) any {
	r.middleware.beforeResolve(id)

	service, source := r.resolve(id)

	r.middleware.afterResolve(id, service, source)

	return service
}

// resolve performs the lookup without middleware.
func (r *Registry) resolve(id ServiceID) (any, Source) {
	if id == nil {
		return nil, SourceNone
	}

	if r.isDefault(id) {
		return r, SourceDefault
	}

	if e := r.services.lookup(id); e != nil {
		if e.kind == factoryEntry {
			if service := r.invoke(e); service != nil {
				return service, SourceFactory
			}
		} else if e.instance != nil {
			return e.instance, SourceLocal
		}
	}

	if service := r.delegate(id); !isNil(service) {
		return service, SourceParent
	}

	return nil, SourceNone
}

// delegate looks id up in the parent. A parent Registry is resolved without
// its middleware, so only the registry the lookup was made on observes it.
func (r *Registry) delegate(id ServiceID) any {
	switch p := r.parent.(type) {
	case nil:
		return nil
	case *Registry:
		if p == nil {
			return nil
		}

		service, _ := p.resolve(id)

		return service
	default:
		return p.GetService(id)
	}
}

// invoke runs the factory of e once and caches the outcome. The entry is
// switched to an instance entry before the call, so a factory that looks
// up its own identifier sees no local service instead of recursing.
func (r *Registry) invoke(e *entry) any {
	factory := e.factory
	e.kind = instanceEntry
	e.factory = nil

	service := factory(r, e.id)
	if isNil(service) {
		service = nil
	} else if !isInstanceOf(service, e.id, r.comparer) {
		r.logger.Warn("factory returned a service of the wrong type",
			logger.String("service", e.id.String()),
			logger.String("type", fmt.Sprintf("%T", service)),
		)
		r.middleware.factoryRejected(e.id, service)

		service = nil
	}

	e.instance = service

	return service
}

// RemoveService removes the local registration for id. Removing an absent
// service is a no-op. With Promote the call is forwarded to the nearest
// ancestor container when one is reachable.
func (r *Registry) RemoveService(id ServiceID, opts ...ServiceOption) error {
	if mergeServiceOptions(opts).promote {
		if ancestor := r.ancestor(); ancestor != nil {
			return ancestor.RemoveService(id, opts...)
		}
	}

	if id == nil {
		return ErrInvalidArgument("id")
	}

	if r.services.remove(id) {
		r.logger.Debug("service removed", logger.String("service", id.String()))
	}

	return nil
}

// Dispose clears the registry and disposes every resolved instance that
// implements Disposable. Pending factories are dropped without being invoked.
// Every instance is disposed even if some fail; the failures are returned
// combined. Dispose is idempotent.
//
// After Dispose the registry still resolves its default identifiers and
// still delegates to its parent, but no longer accepts registrations.
func (r *Registry) Dispose() error {
	if r.disposed {
		return nil
	}

	services := r.services
	r.services = nil
	r.disposed = true

	var (
		err  error
		seen = make(map[instanceRef]struct{})
	)

	services.each(func(e *entry) {
		disposable, ok := e.instance.(Disposable)
		if e.kind != instanceEntry || !ok {
			return
		}

		// The same instance may be registered under several identifiers.
		if ref, ok := refOf(disposable); ok {
			if _, done := seen[ref]; done {
				return
			}

			seen[ref] = struct{}{}
		}

		if dErr := disposable.Dispose(); dErr != nil {
			err = multierr.Append(err, fmt.Errorf("dispose %s: %w", e.id, dErr))
		}
	})

	r.logger.Debug("registry disposed", logger.Int("services", services.len()))

	if err != nil {
		r.logger.Error("failed to dispose services", logger.Error(err))

		return ErrDisposeFailed(err)
	}

	return nil
}

// instanceRef identifies the object behind a reference-typed instance.
type instanceRef struct {
	t reflect.Type
	p uintptr
}

// refOf returns the identity of v when v refers to shared state. Values of
// other kinds are copies, so two equal values are still separate instances.
// Funcs are excluded because distinct closures may share a code pointer.
func refOf(v any) (instanceRef, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return instanceRef{t: rv.Type(), p: rv.Pointer()}, true
	default:
		return instanceRef{}, false
	}
}

// Disposed reports whether Dispose has been called.
func (r *Registry) Disposed() bool {
	return r.disposed
}

// Contains reports whether id is registered locally, resolved or not. It
// neither consults the parent nor runs factories.
func (r *Registry) Contains(id ServiceID) bool {
	if id == nil {
		return false
	}

	return r.services.lookup(id) != nil
}

// Services returns the locally registered identifiers in unspecified order.
func (r *Registry) Services() []ServiceID {
	ids := make([]ServiceID, 0, r.services.len())
	r.services.each(func(e *entry) {
		ids = append(ids, e.id)
	})

	return ids
}

// Len returns the number of local registrations.
func (r *Registry) Len() int {
	return r.services.len()
}

// isDefault reports whether id resolves to the registry itself.
func (r *Registry) isDefault(id ServiceID) bool {
	for _, d := range r.defaults {
		if r.comparer.Equal(d, id) {
			return true
		}
	}

	return false
}

// ancestor returns the container capability of the parent, or nil.
func (r *Registry) ancestor() Container {
	c := containerOf(r.parent)
	if c == nil || c == Container(r) {
		return nil
	}

	return c
}

// containerOf asks p for its container capability. Providers may expose it
// through ContainerSource or by answering GetService for the Container id.
// A Registry is its own container and is not asked.
func containerOf(p Provider) Container {
	if p == nil {
		return nil
	}

	if reg, ok := p.(*Registry); ok {
		if reg == nil {
			return nil
		}

		return reg
	}

	if src, ok := p.(ContainerSource); ok {
		if c := src.AsContainer(); !isNil(c) {
			return c
		}

		return nil
	}

	if c, ok := p.GetService(containerID).(Container); ok && !isNil(c) {
		return c
	}

	return nil
}

// asFactory reports whether v is a factory function.
func asFactory(v any) (Factory, bool) {
	switch f := v.(type) {
	case Factory:
		return f, true
	case func(Container, ServiceID) any:
		return f, true
	default:
		return nil, false
	}
}
