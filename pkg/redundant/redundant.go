// Package redundant implements 2-out-of-3 redundant submission: one logical
// job fanned out across multiple lanes under a shared correlation id, so an
// external voter can compare their Results for agreement.
//
// The fan-out shape — a pre-sized result slice written by index inside one
// goroutine per item, synchronized with a single sync.WaitGroup, collected
// only after Wait returns so no goroutine ever touches another's slice
// element — follows the same pattern as the goroutine-per-item fan-out in
// pkg/core/orchestrator/orchestrator.go's executeInject.
package redundant

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jihwankim/hrcls/pkg/halerr"
	"github.com/jihwankim/hrcls/pkg/jobmodel"
)

// Submitter is the subset of a lane's surface redundant submission needs.
// pkg/cpu.Lane, pkg/fpga.Lane, and pkg/dsp.Lane all satisfy it through their
// embedded *lane.Lane.
type Submitter interface {
	Submit(job jobmodel.Job) (jobID uint64, err error)
	Wait(ctx context.Context, jobID uint64, timeoutUs uint32) (jobmodel.Result, error)
	Online() bool
}

// Target pairs a lane's identity with its Submitter, so a caller need not
// import pkg/cpu/pkg/fpga/pkg/dsp directly to use redundant submission.
type Target struct {
	Lane jobmodel.Lane
	Submitter
}

// Outcome is one target lane's contribution to a redundant submission.
type Outcome struct {
	Lane   jobmodel.Lane
	JobID  uint64
	Result jobmodel.Result
	Err    error
}

// Submission is the outcome of one redundant Submit call: the correlation id
// shared by every fanned-out job, and each target's individual Outcome.
type Submission struct {
	CorrelationID string
	Outcomes      []Outcome
}

// Submit fans job out to every online target concurrently under one
// correlation id (generated with uuid.NewString if correlationID is empty).
// Redundant submit is best-effort: a target that is offline or fails to
// accept the job records its error in that target's Outcome rather than
// aborting the others, and lanes that already accepted the job keep running.
// The first target-level submit error encountered, if any, is also returned
// directly so a caller that wants strict all-or-nothing semantics can treat
// it as a failure.
func Submit(ctx context.Context, correlationID string, job jobmodel.Job, timeoutUs uint32, targets []Target) (Submission, error) {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	outcomes := make([]Outcome, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		i, target := i, target
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = submitOne(ctx, target, job, timeoutUs)
		}()
	}
	wg.Wait()

	var firstErr error
	for _, o := range outcomes {
		if o.Err != nil && firstErr == nil {
			firstErr = o.Err
		}
	}

	return Submission{CorrelationID: correlationID, Outcomes: outcomes}, firstErr
}

func submitOne(ctx context.Context, target Target, job jobmodel.Job, timeoutUs uint32) Outcome {
	if !target.Online() {
		return Outcome{Lane: target.Lane, Err: halerr.New(halerr.LaneOffline, "target lane is offline")}
	}

	jobID, err := target.Submit(job)
	if err != nil {
		return Outcome{Lane: target.Lane, Err: err}
	}

	result, err := target.Wait(ctx, jobID, timeoutUs)
	return Outcome{Lane: target.Lane, JobID: jobID, Result: result, Err: err}
}

// Agree reports whether at least two of outcomes agree on both a completed
// status and an identical checksum — the 2-out-of-3 voting majority a
// downstream safety layer applies. Agree does not itself decide which
// Result is authoritative; it only answers "did a majority concur".
func Agree(outcomes []Outcome) bool {
	tally := make(map[uint32]int)
	for _, o := range outcomes {
		if o.Err != nil || o.Result.Status != jobmodel.StatusCompleted {
			continue
		}
		tally[o.Result.Checksum]++
		if tally[o.Result.Checksum] >= 2 {
			return true
		}
	}
	return false
}
