// Package audit records in-flight worker cancellations during a lane's
// shutdown, so callers can answer "which jobs were killed out from under
// their caller rather than finishing" after the fact.
//
// The append-only entry-slice-plus-mutex shape is adapted from
// pkg/core/cleanup/coordinator.go's AuditEntry/auditLog, repurposed from
// "which chaos artifacts did cleanup remove" to "which jobs did shutdown
// cancel".
package audit

import (
	"sync"
	"time"

	"github.com/jihwankim/hrcls/pkg/jobmodel"
)

// Entry records one cancellation: which job, on which lane, and what stage
// it was in when shutdown reached it.
type Entry struct {
	JobID     uint64
	Lane      jobmodel.Lane
	Stage     jobmodel.Status
	Timestamp time.Time
}

// Log is an append-only, concurrency-safe record of cancellation Entries.
// The zero value is ready to use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// Record appends one Entry. Safe for concurrent use by multiple workers
// shutting down at once.
func (l *Log) Record(jobID uint64, lane jobmodel.Lane, stage jobmodel.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{
		JobID:     jobID,
		Lane:      lane,
		Stage:     stage,
		Timestamp: time.Now(),
	})
}

// Entries returns a copy of every recorded Entry, in recording order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many entries have been recorded.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
