// Package capkit provides a high-level façade over the runtime core shared
// by capability plugins: a keyed record store, a TTL result cache, an
// append-only audit trail and a statically registered action dispatcher
// that wraps every operation in a uniform success/error outcome. Most
// plugins interact with this package by:
//  1. Creating a Runtime via New() (optionally overriding the in-memory components)
//  2. Registering their actions (Register / RegisterFunc)
//  3. Serving one request through the boundary package, or dispatching
//     directly in a warm host (Dispatch / DispatchEach)
//
// All defaults are safe for local development and testing; everything lives
// in process memory and nothing survives a restart by design.
package capkit

import (
	"context"

	"github.com/hupe1980/capkit/audit"
	"github.com/hupe1980/capkit/cache"
	"github.com/hupe1980/capkit/core"
	"github.com/hupe1980/capkit/dispatch"
	"github.com/hupe1980/capkit/logging"
	"github.com/hupe1980/capkit/store"
	"golang.org/x/sync/errgroup"
)

// Options configures the Runtime instance.
type Options struct {
	// Store holds plugin records (defaults to the in-memory implementation).
	Store core.RecordStore

	// Cache memoizes computed results with a TTL (defaults to in-memory).
	Cache core.ResultCache

	// Audit receives one entry per dispatched action (defaults to in-memory).
	Audit core.AuditTrail

	// Actor is stamped on every audit entry, typically the plugin name.
	Actor string

	// MaxConcurrentDispatches bounds DispatchEach. Dispatches serialize on
	// the runtime lock regardless; the bound only limits goroutine fan-out.
	// Set to 0 for unlimited.
	MaxConcurrentDispatches int

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Request pairs an action name with its payload for batch dispatch.
type Request struct {
	Action  string
	Payload map[string]any
}

// Runtime is the high-level façade aggregating the dispatcher and its
// shared in-memory state. Construct one per plugin or per warm host; it is
// the sole authorized mutator of its store, cache and audit trail.
type Runtime struct {
	opts       Options
	dispatcher *dispatch.Dispatcher
}

// New creates a Runtime with optional overrides. Any unset component is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Runtime {
	opts := Options{
		Store:                   store.NewInMemoryStore(),
		Cache:                   cache.NewTTLCache(),
		Audit:                   audit.NewLog(),
		Actor:                   "plugin",
		MaxConcurrentDispatches: 10,
		Logger:                  logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	reporter := audit.NewReporter(opts.Audit, opts.Actor, opts.Logger)

	d := dispatch.New(dispatch.Options{
		Store:    opts.Store,
		Cache:    opts.Cache,
		Audit:    opts.Audit,
		Reporter: reporter,
		Actor:    opts.Actor,
		Logger:   opts.Logger,
	})

	return &Runtime{opts: opts, dispatcher: d}
}

// Register adds an action to the underlying dispatcher. Registration must
// complete before the first dispatch.
func (r *Runtime) Register(a dispatch.Action) { r.dispatcher.Register(a) }

// RegisterFunc registers a plain function as an action.
func (r *Runtime) RegisterFunc(name, description string, fn dispatch.Handler) {
	r.dispatcher.Register(dispatch.NewFuncAction(name, description, fn))
}

// Actions returns the sorted names of every registered action.
func (r *Runtime) Actions() []string { return r.dispatcher.Available() }

// Dispatch executes one action and returns its uniform outcome. It never
// returns an error: failures are folded into the outcome after being
// recorded in the audit trail and error log.
func (r *Runtime) Dispatch(action string, payload map[string]any) dispatch.Outcome {
	return r.dispatcher.Dispatch(action, payload)
}

// DispatchEach executes a batch of independent requests with bounded
// goroutine fan-out and returns the outcomes in request order. Each
// dispatch still serializes on the runtime lock, so outcomes are
// linearizable; requests after a context cancellation fail with an
// execution error instead of running.
func (r *Runtime) DispatchEach(ctx context.Context, reqs []Request) []dispatch.Outcome {
	outcomes := make([]dispatch.Outcome, len(reqs))

	g := new(errgroup.Group)
	if r.opts.MaxConcurrentDispatches > 0 {
		g.SetLimit(r.opts.MaxConcurrentDispatches)
	}

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				classified := core.NewExecutionError(req.Action, "dispatch cancelled: "+err.Error())
				outcomes[i] = dispatch.Outcome{Err: classified}
				return nil
			}
			outcomes[i] = r.dispatcher.Dispatch(req.Action, req.Payload)
			return nil
		})
	}

	_ = g.Wait() // goroutines never return errors; outcomes carry failures

	return outcomes
}

// Stats returns the rolling counter snapshot (race-free read path).
func (r *Runtime) Stats() core.Stats { return r.dispatcher.Stats() }

// AuditTail returns the most recent audit entries (race-free read path).
func (r *Runtime) AuditTail(limit int) []core.OperationLogEntry { return r.dispatcher.Tail(limit) }

// ErrorRecords returns every reported error occurrence (race-free read path).
func (r *Runtime) ErrorRecords() []core.ErrorRecord { return r.dispatcher.ErrorRecords() }

// CacheLen returns the resident cache size (race-free read path).
func (r *Runtime) CacheLen() int { return r.dispatcher.CacheLen() }

// SweepCache evicts every expired cache entry and returns the count.
func (r *Runtime) SweepCache() int { return r.dispatcher.Sweep() }
