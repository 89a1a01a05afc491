package registry

// Registration holds a service to be registered by AddServices.
// Exactly one of Instance and Factory should be set.
type Registration struct {
	ID       ServiceID
	Instance any
	Factory  Factory
	Options  []ServiceOption
}

// Service creates an instance Registration for batch registration.
//
// Example:
//
//	registry.AddServices(r,
//	    registry.Service(registry.IDOf[UndoManager](), undo),
//	    registry.FactoryService(registry.IDOf[TypeResolver](), newTypeResolver),
//	)
func Service(id ServiceID, instance any, opts ...ServiceOption) Registration {
	return Registration{
		ID:       id,
		Instance: instance,
		Options:  opts,
	}
}

// FactoryService creates a factory Registration for batch registration.
func FactoryService(id ServiceID, factory Factory, opts ...ServiceOption) Registration {
	return Registration{
		ID:      id,
		Factory: factory,
		Options: opts,
	}
}

// AddServices registers multiple services in a single call. If any
// registration fails, the ones already applied are removed again and the
// error is returned.
func AddServices(c Container, services ...Registration) error {
	for i, svc := range services {
		var err error
		if svc.Factory != nil {
			err = c.AddFactory(svc.ID, svc.Factory, svc.Options...)
		} else {
			err = c.AddService(svc.ID, svc.Instance, svc.Options...)
		}

		if err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.RemoveService(services[j].ID, services[j].Options...)
			}

			return err
		}
	}

	return nil
}
