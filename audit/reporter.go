package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/capkit/core"
	"github.com/hupe1980/capkit/logging"
)

// Reporter converts any failure into a uniquely identified, classified
// ErrorRecord and mirrors it into the audit trail as a status=error entry.
// Every handler failure passes through this single path, so the error log
// and the audit trail can never disagree on error counts.
//
// The reporter performs no locking of its own: every call must happen under
// the runtime's global lock.
type Reporter struct {
	trail   core.AuditTrail
	actor   string
	records []core.ErrorRecord
	logger  logging.Logger
}

// NewReporter constructs a reporter feeding the given audit trail. Entries
// are stamped with actor.
func NewReporter(trail core.AuditTrail, actor string, logger logging.Logger) *Reporter {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Reporter{trail: trail, actor: actor, records: []core.ErrorRecord{}, logger: logger}
}

// Report classifies err, assigns a short unique error id, appends the
// resulting record to the error log and mirrors it into the audit trail.
func (r *Reporter) Report(action string, err error) core.ErrorRecord {
	classified := core.Classify(action, err)

	rec := core.ErrorRecord{
		ErrorID:   shortID(),
		Action:    action,
		Message:   classified.Message,
		Kind:      classified.Kind,
		Timestamp: time.Now(),
	}
	r.records = append(r.records, rec)

	details := map[string]any{
		"error_id": rec.ErrorID,
		"kind":     string(rec.Kind),
		"message":  rec.Message,
	}
	for k, v := range classified.Details {
		details[k] = v
	}
	r.trail.Append(action, core.StatusError, details, r.actor)

	r.logger.Error("dispatch.error", "action", action, "error_id", rec.ErrorID, "kind", string(rec.Kind), "error", rec.Message)

	return rec
}

// Records returns a snapshot of all reported error records.
func (r *Reporter) Records() []core.ErrorRecord {
	out := make([]core.ErrorRecord, len(r.records))
	copy(out, r.records)
	return out
}

// shortID returns a compact unique identifier for one error occurrence.
func shortID() string {
	return uuid.NewString()[:8]
}
