package registry

import "fmt"

// EntryState describes a local registration.
type EntryState string

const (
	// StateAbsent means the identifier is not registered locally.
	StateAbsent EntryState = "absent"
	// StatePending means a factory is registered and has not run yet.
	StatePending EntryState = "pending"
	// StateResolved means an instance is stored, possibly nil after a
	// factory produced nothing usable.
	StateResolved EntryState = "resolved"
)

// ServiceInfo contains diagnostic information about a local registration.
type ServiceInfo struct {
	ID         ServiceID
	Registry   string
	State      EntryState
	Type       string
	Disposable bool
}

// Inspect returns diagnostic information about the local registration of id.
// It does not run factories or consult the parent.
func (r *Registry) Inspect(id ServiceID) ServiceInfo {
	info := ServiceInfo{ID: id, Registry: r.instanceID, State: StateAbsent}
	if id == nil {
		return info
	}

	e := r.services.lookup(id)
	if e == nil {
		return info
	}

	return describe(r, e)
}

func describe(r *Registry, e *entry) ServiceInfo {
	info := ServiceInfo{ID: e.id, Registry: r.instanceID, State: StatePending}
	if e.kind == factoryEntry {
		return info
	}

	info.State = StateResolved
	if e.instance != nil {
		info.Type = fmt.Sprintf("%T", e.instance)
		_, info.Disposable = e.instance.(Disposable)
	}

	return info
}

// ServiceQuery defines criteria for querying local registrations.
type ServiceQuery struct {
	// State filters by entry state. Empty matches all states.
	State EntryState

	// Disposable filters by whether the stored instance implements Disposable.
	// nil matches all entries.
	Disposable *bool
}

// Query returns information about the local registrations of r matching query.
//
// Example:
//
//	// Find all factories that have not run yet
//	pending := registry.Query(r, registry.ServiceQuery{State: registry.StatePending})
func Query(r *Registry, query ServiceQuery) []ServiceInfo {
	var results []ServiceInfo

	r.services.each(func(e *entry) {
		info := describe(r, e)

		if query.State != "" && info.State != query.State {
			return
		}

		if query.Disposable != nil && info.Disposable != *query.Disposable {
			return
		}

		results = append(results, info)
	})

	return results
}

// FindPending returns all registrations whose factory has not run yet.
func FindPending(r *Registry) []ServiceInfo {
	return Query(r, ServiceQuery{State: StatePending})
}

// FindResolved returns all registrations holding an instance.
func FindResolved(r *Registry) []ServiceInfo {
	return Query(r, ServiceQuery{State: StateResolved})
}
