package registry

import (
	logger "github.com/xraph/go-utils/log"
)

// Option configures a Registry.
type Option func(*Registry)

// WithParent sets the provider consulted for services not found locally.
// The registry does not own its parent and never disposes it.
func WithParent(parent Provider) Option {
	return func(r *Registry) {
		r.parent = parent
	}
}

// WithComparer sets the identifier equality policy. Defaults to IdentityComparer.
func WithComparer(cmp IDComparer) Option {
	return func(r *Registry) {
		if cmp != nil {
			r.comparer = cmp
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.baseLogger = l
		}
	}
}

// WithDefaultServices adds identifiers that resolve to the registry itself,
// after the package defaults.
func WithDefaultServices(ids ...ServiceID) Option {
	return func(r *Registry) {
		for _, id := range ids {
			if id != nil {
				r.defaults = append(r.defaults, id)
			}
		}
	}
}

// WithMiddleware appends resolution middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Registry) {
		for _, m := range mw {
			r.middleware.add(m)
		}
	}
}

// ServiceOption configures a single AddService, AddFactory or RemoveService call.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	promote bool
}

// Promote applies the operation to the nearest ancestor container instead of
// the local registry. Without a reachable ancestor the operation runs locally.
func Promote() ServiceOption {
	return func(o *serviceOptions) {
		o.promote = true
	}
}

// mergeServiceOptions combines multiple options.
func mergeServiceOptions(opts []ServiceOption) serviceOptions {
	var o serviceOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
