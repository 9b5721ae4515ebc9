// Package wcet implements the worst-case-execution-time classification every
// worker applies to a finished job, plus the per-lane evaluation/violation
// counters a lane reports through get_lane_status.
//
// The counter shape — an evaluations count and a failures count, read and
// reset independently of the classification call itself — follows
// pkg/monitoring/detector/failure_detector.go's CriterionResult, re-keyed
// here by lane instead of by named criterion.
package wcet

import (
	"sync"

	"github.com/jihwankim/hrcls/pkg/jobmodel"
)

// Classify maps a finished job's outcome onto a terminal Status, in order:
//  1. functionOK == false              -> StatusError
//  2. executionTimeUs > wcetUs          -> StatusError (WCET violation)
//  3. otherwise                         -> StatusCompleted
//
// A WCET violation is a terminal Error, not a Timeout: the status reports
// what kind of outcome occurred, and violated distinguishes a function that
// ran over its execution-time budget from one that failed outright. Callers
// use violated to pick halerr.Timeout as the Result's ErrorCode even though
// the Status itself is StatusError.
//
// A WCET violation is also distinct from the caller's wall-clock TimeoutUs:
// WCET is a budget the function itself is expected to honor, while
// TimeoutUs bounds how long a caller's wait blocks.
func Classify(functionOK bool, executionTimeUs, wcetUs uint32) (status jobmodel.Status, violated bool) {
	if !functionOK {
		return jobmodel.StatusError, false
	}
	if executionTimeUs > wcetUs {
		return jobmodel.StatusError, true
	}
	return jobmodel.StatusCompleted, false
}

// Stats accumulates WCET evaluation counts for one lane. The zero value is
// ready to use.
type Stats struct {
	mu          sync.Mutex
	evaluations uint64
	violations  uint64
}

// Record tallies one classification outcome. Call once per finished job,
// after Classify, passing the violated value Classify returned.
func (s *Stats) Record(violated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluations++
	if violated {
		s.violations++
	}
}

// Snapshot is a point-in-time read of a Stats, safe to copy and retain.
type Snapshot struct {
	Evaluations uint64
	Violations  uint64
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Evaluations: s.evaluations, Violations: s.violations}
}

// ViolationRate returns violations/evaluations, or 0 if no evaluations have
// been recorded yet.
func (snap Snapshot) ViolationRate() float64 {
	if snap.Evaluations == 0 {
		return 0
	}
	return float64(snap.Violations) / float64(snap.Evaluations)
}
