// Package store implements the keyed record store backing capability
// plugins: opaque values grouped by namespace and addressed by generated
// ids, with copy-in / copy-out semantics.
package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hupe1980/capkit/core"
	"github.com/hupe1980/capkit/internal/util"
)

// InMemoryStore is the process-local core.RecordStore implementation. It
// keeps records in a nested map plus a per-namespace insertion-order index.
// Values are deep-copied on write and on read so callers can never mutate
// internal state through a retained reference.
//
// The store performs no locking of its own: every call must happen under
// the runtime's global lock. It is not safe to use directly outside the
// dispatcher.
//
// Layout: namespace -> id -> value
type InMemoryStore struct {
	records map[string]map[string]any
	order   map[string][]string // ids per namespace in insertion order
}

// NewInMemoryStore returns an empty in-memory record store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]map[string]any),
		order:   make(map[string][]string),
	}
}

// Put stores a copy of value under a freshly generated id and returns the
// id. It never fails; the namespace is created lazily on first write.
func (s *InMemoryStore) Put(namespace string, value any) string {
	id := uuid.NewString()
	s.Set(namespace, id, value)
	return id
}

// Set stores a copy of value under an explicit id. An existing record is
// overwritten in place, keeping its insertion-order position; a new id is
// appended at the end.
func (s *InMemoryStore) Set(namespace, id string, value any) {
	ns, ok := s.records[namespace]
	if !ok {
		ns = make(map[string]any)
		s.records[namespace] = ns
	}
	if _, exists := ns[id]; !exists {
		s.order[namespace] = append(s.order[namespace], id)
	}
	ns[id] = util.DeepCopy(value)
}

// Get returns a copy of the stored record or an error wrapping
// core.ErrNotFound.
func (s *InMemoryStore) Get(namespace, id string) (any, error) {
	ns, ok := s.records[namespace]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", namespace, id, core.ErrNotFound)
	}
	value, ok := ns[id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", namespace, id, core.ErrNotFound)
	}
	return util.DeepCopy(value), nil
}

// List returns copies of all current values in insertion order. The slice
// is a snapshot and safe for caller mutation.
func (s *InMemoryStore) List(namespace string) []any {
	ids := s.order[namespace]
	ns := s.records[namespace]
	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, util.DeepCopy(ns[id]))
	}
	return values
}

// Delete removes the record, reporting whether it existed.
func (s *InMemoryStore) Delete(namespace, id string) bool {
	ns, ok := s.records[namespace]
	if !ok {
		return false
	}
	if _, ok := ns[id]; !ok {
		return false
	}
	delete(ns, id)
	ids := s.order[namespace]
	for i, candidate := range ids {
		if candidate == id {
			s.order[namespace] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of records currently stored in the namespace.
func (s *InMemoryStore) Len(namespace string) int {
	return len(s.records[namespace])
}

var _ core.RecordStore = (*InMemoryStore)(nil)
