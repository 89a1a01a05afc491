package registry

// entryKind tags what an entry currently holds.
type entryKind uint8

const (
	instanceEntry entryKind = iota
	factoryEntry
)

// entry is a single registration. A factory entry becomes an instance entry
// the first time it is resolved and never goes back.
type entry struct {
	id       ServiceID
	kind     entryKind
	instance any
	factory  Factory
}

// serviceTable maps identifiers to entries under a pluggable equality policy.
// Entries are bucketed by IDComparer.Hash and matched with IDComparer.Equal.
// All methods are safe on a nil table, which behaves as empty.
type serviceTable struct {
	comparer IDComparer
	buckets  map[uint64][]*entry
	size     int
}

// newServiceTable creates an empty table using cmp.
func newServiceTable(cmp IDComparer) *serviceTable {
	return &serviceTable{
		comparer: cmp,
		buckets:  make(map[uint64][]*entry),
	}
}

// lookup returns the entry registered under id, or nil.
func (t *serviceTable) lookup(id ServiceID) *entry {
	if t == nil {
		return nil
	}

	for _, e := range t.buckets[t.comparer.Hash(id)] {
		if t.comparer.Equal(e.id, id) {
			return e
		}
	}

	return nil
}

// insert adds e. Callers check for duplicates with lookup first.
func (t *serviceTable) insert(e *entry) {
	h := t.comparer.Hash(e.id)
	t.buckets[h] = append(t.buckets[h], e)
	t.size++
}

// remove deletes the entry registered under id and reports whether one existed.
func (t *serviceTable) remove(id ServiceID) bool {
	if t == nil {
		return false
	}

	h := t.comparer.Hash(id)
	bucket := t.buckets[h]

	for i, e := range bucket {
		if !t.comparer.Equal(e.id, id) {
			continue
		}

		if len(bucket) == 1 {
			delete(t.buckets, h)
		} else {
			t.buckets[h] = append(bucket[:i:i], bucket[i+1:]...)
		}

		t.size--

		return true
	}

	return false
}

// len returns the number of entries.
func (t *serviceTable) len() int {
	if t == nil {
		return 0
	}

	return t.size
}

// each calls fn for every entry in unspecified order.
func (t *serviceTable) each(fn func(e *entry)) {
	if t == nil {
		return
	}

	for _, bucket := range t.buckets {
		for _, e := range bucket {
			fn(e)
		}
	}
}
