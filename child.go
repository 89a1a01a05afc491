package registry

// NewChild creates a registry whose parent is r. The child starts with r's
// comparer, logger, default identifiers and middleware; opts may override
// them or add to them. The child does not own r, and r does not own the child.
//
// The middleware is copied, not shared: a lookup on the child runs the
// child's chain once, including when it is answered by r.
func (r *Registry) NewChild(opts ...Option) *Registry {
	inherited := []Option{
		WithParent(r),
		WithComparer(r.comparer),
		WithLogger(r.baseLogger),
		func(c *Registry) {
			c.defaults = append([]ServiceID(nil), r.defaults...)
			c.middleware = r.middleware.clone()
		},
	}

	return New(append(inherited, opts...)...)
}
