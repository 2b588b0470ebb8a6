package core

import "github.com/hupe1980/capkit/logging"

// HandlerContext provides a constrained, auditable surface for action
// handlers invoked by the dispatcher. It grants access to the runtime's
// store, cache and audit trail while the global lock is held, plus a logger
// pre-tagged with the dispatch identity.
//
// A HandlerContext is valid only for the duration of the handler call that
// received it; handlers must not retain it.
type HandlerContext struct {
	dispatchID string
	action     string
	actor      string
	store      RecordStore
	cache      ResultCache
	audit      AuditTrail
	logger     logging.Logger
}

// NewHandlerContext constructs a handler context bound to one dispatch.
func NewHandlerContext(
	dispatchID, action, actor string,
	store RecordStore,
	cache ResultCache,
	audit AuditTrail,
	logger logging.Logger,
) *HandlerContext {
	return &HandlerContext{
		dispatchID: dispatchID,
		action:     action,
		actor:      actor,
		store:      store,
		cache:      cache,
		audit:      audit,
		logger:     logger,
	}
}

// DispatchID returns the unique identifier of the current dispatch.
func (hc *HandlerContext) DispatchID() string { return hc.dispatchID }

// Action returns the action name being dispatched.
func (hc *HandlerContext) Action() string { return hc.action }

// Actor returns the actor recorded for audit entries of this dispatch.
func (hc *HandlerContext) Actor() string { return hc.actor }

// Store returns the runtime's keyed record store.
func (hc *HandlerContext) Store() RecordStore { return hc.store }

// Cache returns the runtime's TTL result cache.
func (hc *HandlerContext) Cache() ResultCache { return hc.cache }

// Audit returns the runtime's audit trail.
func (hc *HandlerContext) Audit() AuditTrail { return hc.audit }

// Logger returns the logger tagged with the dispatch identity.
func (hc *HandlerContext) Logger() logging.Logger { return hc.logger }
