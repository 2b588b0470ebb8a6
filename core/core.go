package core

import "time"

// Status is the outcome recorded for a dispatched operation.
type Status string

const (
	// StatusSuccess marks an operation whose handler returned a result.
	StatusSuccess Status = "success"
	// StatusError marks an operation that failed at any stage.
	StatusError Status = "error"
)

// OperationLogEntry is one immutable record in the append-only audit trail.
type OperationLogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	Status    Status         `json:"status"`
	Details   map[string]any `json:"details,omitempty"`
	Actor     string         `json:"actor"`
}

// Stats is the rolling counter snapshot exposed by the runtime.
//
// OperationsCount increments exactly once per dispatched action regardless
// of outcome; ErrorsCount increments exactly once per failed dispatch.
type Stats struct {
	OperationsCount uint64    `json:"operations_count"`
	ErrorsCount     uint64    `json:"errors_count"`
	CacheHits       uint64    `json:"cache_hits"`
	LastCleanup     time.Time `json:"last_cleanup"`
}

// RecordStore is mutable keyed storage: values grouped by an arbitrary
// namespace and addressed by generated ids. Stored values are owned
// exclusively by the store; callers receive copies, never live references.
//
// Implementations perform no locking of their own. All access must happen
// under the runtime's lock (see the dispatch package).
type RecordStore interface {
	// Put stores a copy of value under a freshly generated id and returns
	// the id. It never fails.
	Put(namespace string, value any) string
	// Set stores a copy of value under an explicit id, overwriting any
	// existing record while preserving its insertion-order position.
	Set(namespace, id string, value any)
	// Get returns a copy of the record or an error wrapping ErrNotFound.
	Get(namespace, id string) (any, error)
	// List returns copies of all current values in insertion order.
	List(namespace string) []any
	// Delete removes the record, reporting whether it existed.
	Delete(namespace, id string) bool
	// Len returns the number of records in the namespace.
	Len(namespace string) int
}

// ResultCache wraps computed results with a creation timestamp and a
// time-to-live. Eviction is lazy-on-read plus explicit sweep only; there is
// no background timer.
//
// Implementations perform no locking of their own. All access must happen
// under the runtime's lock.
type ResultCache interface {
	// Set stores a copy of value, stamping its creation time. A ttl <= 0
	// selects the implementation default.
	Set(key string, value any, ttl time.Duration)
	// Get returns the cached value and true on a hit. An expired entry is
	// deleted and reported as a miss.
	Get(key string) (any, bool)
	// Delete removes an entry if present. Idempotent.
	Delete(key string)
	// Sweep evicts every currently expired entry, updates the last-cleanup
	// timestamp and returns the eviction count.
	Sweep() int
	// Len returns the number of physically resident entries, expired or not.
	Len() int
	// Hits returns the total number of cache hits served.
	Hits() uint64
	// LastCleanup returns the time of the most recent Sweep (zero if never).
	LastCleanup() time.Time
}

// AuditTrail is the append-only record of every dispatched operation plus
// its rolling counters. Entries are never mutated or removed.
//
// Implementations perform no locking of their own. All access must happen
// under the runtime's lock.
type AuditTrail interface {
	// Append records one operation outcome and bumps the counters.
	Append(action string, status Status, details map[string]any, actor string)
	// Tail returns copies of the most recent limit entries (or fewer).
	Tail(limit int) []OperationLogEntry
	// OperationCount returns the number of appended entries.
	OperationCount() uint64
	// ErrorCount returns the number of appended entries with StatusError.
	ErrorCount() uint64
}
