// Package audit implements the append-only operation log and the error
// reporter that funnels every handler failure into a uniquely identified,
// classified record.
package audit

import (
	"time"

	"github.com/hupe1980/capkit/core"
	"github.com/hupe1980/capkit/internal/util"
)

// Log is the process-local core.AuditTrail implementation: an append-only
// slice of operation entries plus rolling counters. Entries are never
// mutated or removed.
//
// The log performs no locking of its own: every call must happen under the
// runtime's global lock.
type Log struct {
	entries    []core.OperationLogEntry
	operations uint64
	errors     uint64
}

// NewLog returns an empty audit log.
func NewLog() *Log {
	return &Log{entries: []core.OperationLogEntry{}}
}

// Append records one operation outcome. The operation counter increments on
// every append; the error counter only when status is StatusError.
func (l *Log) Append(action string, status core.Status, details map[string]any, actor string) {
	entry := core.OperationLogEntry{
		Timestamp: time.Now(),
		Action:    action,
		Status:    status,
		Actor:     actor,
	}
	if details != nil {
		entry.Details = util.DeepCopy(details).(map[string]any)
	}
	l.entries = append(l.entries, entry)
	l.operations++
	if status == core.StatusError {
		l.errors++
	}
}

// Tail returns copies of the most recent limit entries (or fewer if the log
// is smaller). A non-positive limit yields an empty slice.
func (l *Log) Tail(limit int) []core.OperationLogEntry {
	if limit <= 0 {
		return []core.OperationLogEntry{}
	}
	start := len(l.entries) - limit
	if start < 0 {
		start = 0
	}
	tail := make([]core.OperationLogEntry, len(l.entries)-start)
	copy(tail, l.entries[start:])
	return tail
}

// OperationCount returns the number of appended entries.
func (l *Log) OperationCount() uint64 { return l.operations }

// ErrorCount returns the number of appended entries with StatusError.
func (l *Log) ErrorCount() uint64 { return l.errors }

var _ core.AuditTrail = (*Log)(nil)
