// Package dispatch implements the action registry and the dispatcher that
// executes registered handlers under the runtime's single lock, converting
// every outcome into a uniform success or error shape.
package dispatch

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/capkit/audit"
	"github.com/hupe1980/capkit/core"
	"github.com/hupe1980/capkit/logging"
)

// Handler is the function signature executed for a dispatched action. It
// runs while the global write lock is held, so it must be synchronous,
// bounded, in-memory work: no network calls, no blocking I/O, no unbounded
// loops. A stuck handler stalls every subsequent dispatch.
type Handler func(hc *core.HandlerContext, payload map[string]any) (any, error)

// Action is a named capability operation registered with the dispatcher.
//
// Action implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Validate their payload via the schema package where mutation follows
//   - Return *core.Error for typed failures, plain errors otherwise
type Action interface {
	// Name returns the unique identifier for this action.
	Name() string

	// Description returns a human-readable description of what the action does.
	Description() string

	// Handle executes the action with the flattened payload and a
	// HandlerContext granting locked access to store, cache and audit.
	Handle(hc *core.HandlerContext, payload map[string]any) (any, error)
}

// FuncAction is a generic adapter that exposes a plain Go function as an
// Action. It has no internal mutable state after construction.
type FuncAction struct {
	name        string
	description string
	fn          Handler
}

// NewFuncAction constructs a FuncAction from a name, description and handler.
func NewFuncAction(name, description string, fn Handler) *FuncAction {
	return &FuncAction{name: name, description: description, fn: fn}
}

// Name returns the unique action name used in registry lookups.
func (a *FuncAction) Name() string { return a.name }

// Description returns the short natural language description of the action.
func (a *FuncAction) Description() string { return a.description }

// Handle invokes the wrapped function.
func (a *FuncAction) Handle(hc *core.HandlerContext, payload map[string]any) (any, error) {
	return a.fn(hc, payload)
}

// Outcome is the uniform result of one dispatch.
type Outcome struct {
	// Success reports whether the handler completed without error.
	Success bool
	// Result is the handler's return value (nil on failure).
	Result any
	// Err is the classified failure (nil on success). For unknown actions
	// its details carry the sorted list of registered action names under
	// "available_actions".
	Err *core.Error
	// Record is the reported error occurrence (nil on success).
	Record *core.ErrorRecord
}

// Options configures a Dispatcher.
type Options struct {
	// Store, Cache, Audit are the runtime's shared mutable state. The
	// dispatcher is their sole authorized mutator.
	Store core.RecordStore
	Cache core.ResultCache
	Audit core.AuditTrail

	// Reporter funnels every failure into the error log and audit trail.
	Reporter *audit.Reporter

	// Actor is stamped on audit entries (typically the plugin name).
	Actor string

	// Logger defaults to NoOpLogger if nil.
	Logger logging.Logger
}

// Dispatcher validates incoming actions against a static registry and
// executes handlers under a single process-wide lock.
//
// Lifecycle: RECEIVED (raw action/payload pair) -> VALIDATED (registry
// lookup) -> EXECUTING (handler runs under the write lock) -> SUCCEEDED or
// FAILED (uniform Outcome). No failure mode escapes: handler errors and
// panics alike are reported and folded into the Outcome.
//
// Concurrency: the write lock serializes every mutation of store, cache and
// audit, making all mutations linearizable. Introspection (Stats, Tail,
// CacheLen, ErrorRecords) takes the read lock, so reads are race-free
// without serializing against each other. Registration uses a separate
// registry mutex and must complete before dispatching begins.
type Dispatcher struct {
	mu sync.RWMutex // global lock over store, cache and audit

	regMu   sync.RWMutex
	actions map[string]Action

	store    core.RecordStore
	cache    core.ResultCache
	audit    core.AuditTrail
	reporter *audit.Reporter
	actor    string
	logger   logging.Logger
}

// New constructs a dispatcher over the given shared state.
func New(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Dispatcher{
		actions:  make(map[string]Action),
		store:    opts.Store,
		cache:    opts.Cache,
		audit:    opts.Audit,
		reporter: opts.Reporter,
		actor:    opts.Actor,
		logger:   logger,
	}
}

// Register adds an action to the registry. An action with the same name is
// replaced without warning. Registration must complete before the first
// dispatch; the registry is static afterwards by convention.
func (d *Dispatcher) Register(a Action) {
	d.regMu.Lock()
	defer d.regMu.Unlock()
	d.actions[a.Name()] = a
}

// Available returns the sorted names of every registered action.
func (d *Dispatcher) Available() []string {
	d.regMu.RLock()
	defer d.regMu.RUnlock()
	names := make([]string, 0, len(d.actions))
	for name := range d.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookup resolves an action name against the registry.
func (d *Dispatcher) lookup(name string) (Action, bool) {
	d.regMu.RLock()
	defer d.regMu.RUnlock()
	a, ok := d.actions[name]
	return a, ok
}

// Dispatch executes one action against the shared state. The returned
// Outcome is uniform: exactly one of Result or Err is meaningful, the audit
// trail gains exactly one entry, and the error log gains one record iff the
// dispatch failed.
func (d *Dispatcher) Dispatch(action string, payload map[string]any) Outcome {
	dispatchID := uuid.NewString()
	start := time.Now()

	d.logger.Debug("dispatch.start", "action", action, "dispatch_id", dispatchID)

	a, ok := d.lookup(action)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !ok {
		err := core.NewUnknownActionError(action, d.Available())
		rec := d.reporter.Report(action, err)
		d.logger.Warn("dispatch.unknown_action", "action", action, "dispatch_id", dispatchID)
		return Outcome{Err: err, Record: &rec}
	}

	hc := core.NewHandlerContext(dispatchID, action, d.actor, d.store, d.cache, d.audit, d.logger)

	result, err := d.execute(a, hc, payload)
	if err != nil {
		classified := core.Classify(action, err)
		rec := d.reporter.Report(action, classified)
		d.logger.Error("dispatch.failed", "action", action, "dispatch_id", dispatchID, "kind", string(classified.Kind), "error", classified.Message)
		return Outcome{Err: classified, Record: &rec}
	}

	d.audit.Append(action, core.StatusSuccess, map[string]any{
		"dispatch_id": dispatchID,
		"duration_ms": time.Since(start).Milliseconds(),
	}, d.actor)

	d.logger.Info("dispatch.success", "action", action, "dispatch_id", dispatchID, "duration_ms", time.Since(start).Milliseconds())

	return Outcome{Success: true, Result: result}
}

// execute runs the handler, converting a panic into an execution error so
// no failure mode can escape the dispatch boundary.
func (d *Dispatcher) execute(a Action, hc *core.HandlerContext, payload map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = core.NewExecutionError(a.Name(), fmt.Sprintf("handler panic: %v", r))
		}
	}()
	return a.Handle(hc, payload)
}

// Sweep evicts expired cache entries under the write lock.
func (d *Dispatcher) Sweep() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	start := time.Now()
	evicted := d.cache.Sweep()
	d.logger.Info("cache.sweep", "evicted", evicted, "resident", d.cache.Len(), "duration_ms", time.Since(start).Milliseconds())
	return evicted
}

// Stats returns the rolling counter snapshot under the read lock.
func (d *Dispatcher) Stats() core.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return core.Stats{
		OperationsCount: d.audit.OperationCount(),
		ErrorsCount:     d.audit.ErrorCount(),
		CacheHits:       d.cache.Hits(),
		LastCleanup:     d.cache.LastCleanup(),
	}
}

// Tail returns the most recent audit entries under the read lock.
func (d *Dispatcher) Tail(limit int) []core.OperationLogEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.audit.Tail(limit)
}

// ErrorRecords returns all reported errors under the read lock.
func (d *Dispatcher) ErrorRecords() []core.ErrorRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.reporter.Records()
}

// CacheLen returns the resident cache size under the read lock.
func (d *Dispatcher) CacheLen() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cache.Len()
}
