// Package lane implements the generalized per-substrate compute lane: slot
// table, worker lifecycle, submit/wait/poll/cancel, and status/stats
// reporting. It is grounded directly on original_source/.../
// hal_cpu_arm_cortex.c and hal_fpga_xilinx.c, which are roughly 90% identical
// to each other — every concrete difference (slot capacity, job-id base,
// WCET-simulation fraction, an optional submit precondition like "bitstream
// must be loaded") is pulled out into a Config and a precondition hook, so
// pkg/cpu, pkg/fpga, and pkg/dsp each wrap this one implementation instead of
// duplicating it.
//
// One mutex per lane guards the slot table and counters only; it is never
// held across blocking work (function execution, wait). Each admitted job
// runs in its own goroutine (spawned under the lock, matching the
// goroutine-per-item fan-out shape of executeInject in
// pkg/core/orchestrator/orchestrator.go), with completion signaled by a
// per-slot channel rather than joined by a handle.
package lane

import (
	"context"
	"sync"
	"time"

	"github.com/jihwankim/hrcls/pkg/audit"
	"github.com/jihwankim/hrcls/pkg/cancel"
	"github.com/jihwankim/hrcls/pkg/halerr"
	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/jihwankim/hrcls/pkg/registry"
	"github.com/jihwankim/hrcls/pkg/slots"
	"github.com/jihwankim/hrcls/pkg/wcet"
)

// Config parameterizes one concrete lane's identity and simulation behavior.
type Config struct {
	Lane jobmodel.Lane

	// Capacity is the slot table size (32 for CPU, 16 for FPGA per the
	// original HAL; DSP has no original source so this is extrapolated).
	Capacity int

	// IDBase is the first job id this lane assigns; successive submits
	// increment from it. Lanes must use disjoint ranges so a bare job id is
	// unambiguous system-wide.
	IDBase uint64

	// SimulationFraction divides WCETUs to produce the simulated execution
	// delay (original HAL: "usleep(job->wcet_us / 2)" for CPU; the FPGA HAL
	// uses a third). A job whose actual function takes exactly this
	// fraction of its WCET budget will pass; a "WCET violation" test job
	// sets WCETUs below this fraction's output.
	SimulationFraction uint32

	// Registry resolves FunctionName to a deterministic Function. Defaults
	// to registry.Simulated if nil.
	Registry registry.Registry

	// Precondition, if set, runs under the lane's lock during Submit before
	// slot allocation. A non-nil error short-circuits the submit with that
	// error — this is how pkg/fpga enforces "no bitstream loaded" as
	// halerr.NotSupported without lane duplicating FPGA-specific state.
	Precondition func() error
}

// Lane is the generalized compute substrate. Construct with New; it is not
// usable until Init is called — no job may be submitted, polled, or waited
// on before then.
type Lane struct {
	cfg Config

	mu         sync.Mutex
	online     bool
	nextJobID  uint64
	table      *slots.Table
	wg         sync.WaitGroup
	signals    map[int]chan struct{} // per-slot-index completion signal
	jobsSubmit    uint64
	jobsCompleted uint64
	jobsFailed    uint64
	totalExecUs   uint64

	wcetStats wcet.Stats
	auditLog  audit.Log
	controls  controls
}

// New constructs a Lane from cfg. The lane is offline until Init runs.
func New(cfg Config) *Lane {
	if cfg.Registry == nil {
		cfg.Registry = registry.Simulated
	}
	return &Lane{
		cfg:     cfg,
		table:   slots.New(cfg.Capacity),
		signals: make(map[int]chan struct{}),
	}
}

// Init brings the lane online, matching hal_*_init's idempotent semantics:
// calling Init on an already-online lane is a no-op success.
func (l *Lane) Init() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.online {
		return nil
	}
	l.online = true
	l.nextJobID = l.cfg.IDBase
	return nil
}

// Online reports whether the lane has been initialized and not yet shut
// down.
func (l *Lane) Online() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.online
}

// Shutdown cancels every in-flight job (cooperative: each worker's token is
// cancelled, not forcibly killed), waits for all worker goroutines to
// return, tears down every slot, then takes the lane offline. Shutdown on an
// already-offline lane is a no-op success. After Shutdown returns, every
// job id the lane ever held is unknown: Poll and Wait both report
// ErrUnknownJob, matching the original HAL's shutdown clearing active on
// every slot rather than leaving torn-down slots pollable.
func (l *Lane) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	if !l.online {
		l.mu.Unlock()
		return nil
	}
	l.table.Each(func(i int, s *slots.Slot) {
		if !s.Result.Status.Terminal() && s.Cancel != nil {
			l.auditLog.Record(s.Job.JobID, l.cfg.Lane, s.Result.Status)
			s.Cancel()
		}
	})
	l.online = false
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		l.mu.Lock()
		l.table.Each(func(i int, s *slots.Slot) {
			delete(l.signals, i)
			l.table.Release(i)
		})
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit admits job, assigns it a lane-scoped id, and spawns a worker
// goroutine to run it. It returns the assigned JobID.
func (l *Lane) Submit(job jobmodel.Job) (jobID uint64, err error) {
	if job.FunctionName == "" {
		return 0, halerr.New(halerr.InvalidParam, "function name is required")
	}

	l.mu.Lock()
	if !l.online {
		l.mu.Unlock()
		return 0, halerr.New(halerr.LaneOffline, "lane is offline")
	}
	if l.cfg.Precondition != nil {
		if err := l.cfg.Precondition(); err != nil {
			l.mu.Unlock()
			return 0, err
		}
	}

	job.JobID = l.nextJobID
	l.nextJobID++

	index, ok := l.table.Allocate(job, l.cfg.Lane)
	if !ok {
		l.mu.Unlock()
		return 0, halerr.New(halerr.Busy, "slot table full")
	}

	token := cancel.New()
	l.table.At(index).Cancel = token.Cancel
	sig := make(chan struct{})
	l.signals[index] = sig

	l.jobsSubmit++
	jobID = job.JobID

	l.wg.Add(1)
	go l.runWorker(index, job, token, sig)

	l.mu.Unlock()
	return jobID, nil
}

// runWorker executes one job end to end: marks Running, runs the registry
// function under a simulated WCET-proportional delay, classifies the
// outcome, records stats, and signals completion. It never holds the lane
// mutex across the simulated delay or the registry call — only the short
// setup and the final bookkeeping take the lock.
func (l *Lane) runWorker(index int, job jobmodel.Job, token *cancel.Token, sig chan struct{}) {
	defer l.wg.Done()
	defer close(sig)

	l.mu.Lock()
	l.table.At(index).Result.Status = jobmodel.StatusRunning
	l.mu.Unlock()

	start := time.Now()

	fn, ok := l.cfg.Registry.Lookup(job.FunctionName)
	var output []byte
	functionOK := ok
	if ok {
		delay := time.Duration(job.WCETUs/l.cfg.SimulationFraction) * time.Microsecond
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-token.Done():
			timer.Stop()
			l.mu.Lock()
			result := &l.table.At(index).Result
			result.Status = jobmodel.StatusCancelled
			result.ExecutionTimeUs = jobmodel.ElapsedUs(start)
			result.ErrorCode = int32(halerr.Timeout)
			result.ErrorMessage = "cancelled before completion"
			l.jobsFailed++
			l.mu.Unlock()
			return
		}
		output, functionOK = fn(job.Input)
	}

	execUs := jobmodel.ElapsedUs(start)
	status, violated := wcet.Classify(functionOK, execUs, job.WCETUs)
	l.wcetStats.Record(violated)

	actualSize := len(output)
	if job.OutputSize > 0 && actualSize > job.OutputSize {
		actualSize = job.OutputSize
		output = output[:actualSize]
	}

	l.mu.Lock()
	result := &l.table.At(index).Result
	result.Status = status
	result.ExecutionTimeUs = execUs
	result.ActualOutputSize = actualSize
	result.Output = output
	if actualSize > 0 {
		result.Checksum = jobmodel.Checksum(output)
	}
	switch {
	case status == jobmodel.StatusCompleted:
		result.ErrorCode = int32(halerr.Success)
	case violated:
		result.ErrorCode = int32(halerr.Timeout)
		result.ErrorMessage = "WCET violation"
	default:
		result.ErrorCode = int32(halerr.Hardware)
		result.ErrorMessage = "execution failed"
	}
	l.totalExecUs += uint64(execUs)
	if status == jobmodel.StatusCompleted {
		l.jobsCompleted++
	} else {
		l.jobsFailed++
	}
	l.mu.Unlock()
}

// Wait blocks until jobID reaches a terminal status or timeoutUs elapses,
// then returns a copy of its Result and frees its slot. An unknown job id
// returns halerr.ErrUnknownJob.
func (l *Lane) Wait(ctx context.Context, jobID uint64, timeoutUs uint32) (jobmodel.Result, error) {
	l.mu.Lock()
	index, ok := l.table.FindByJobID(jobID)
	if !ok {
		l.mu.Unlock()
		return jobmodel.Result{}, halerr.ErrUnknownJob
	}
	sig := l.signals[index]
	l.mu.Unlock()

	deadline := jobmodel.Deadline(timeoutUs)
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case <-sig:
	case <-timer.C:
		return jobmodel.Result{}, halerr.New(halerr.Timeout, "wait deadline exceeded")
	case <-ctx.Done():
		return jobmodel.Result{}, ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	result := l.table.At(index).Result
	delete(l.signals, index)
	l.table.Release(index)
	return result, nil
}

// Poll returns the current Result for jobID without blocking. halerr.Busy
// indicates the job has not yet reached a terminal status.
func (l *Lane) Poll(jobID uint64) (jobmodel.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index, ok := l.table.FindByJobID(jobID)
	if !ok {
		return jobmodel.Result{}, halerr.ErrUnknownJob
	}
	result := l.table.At(index).Result
	if !result.Status.Terminal() {
		return result, halerr.New(halerr.Busy, "job still in progress")
	}
	return result, nil
}

// Cancel requests cooperative cancellation of jobID. It is a no-op if the
// job has already reached a terminal status.
func (l *Lane) Cancel(jobID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	index, ok := l.table.FindByJobID(jobID)
	if !ok {
		return halerr.ErrUnknownJob
	}
	slot := l.table.At(index)
	if slot.Result.Status.Terminal() {
		return nil
	}
	if slot.Cancel != nil {
		slot.Cancel()
	}
	return nil
}

// Status is a lane's point-in-time health and load report.
type Status struct {
	Lane                jobmodel.Lane
	Online              bool
	Healthy             bool
	PendingJobs          int
	JobsSubmitted       uint64
	JobsCompleted       uint64
	JobsFailed          uint64
	TotalExecutionTimeUs uint64
	WCET                wcet.Snapshot
}

// GetStatus reports the lane's current Status. Healthy defaults to Online;
// concrete lanes (pkg/fpga) override it to additionally require their own
// precondition state.
func (l *Lane) GetStatus() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	pending := l.table.Occupied()
	return Status{
		Lane:                 l.cfg.Lane,
		Online:               l.online,
		Healthy:              l.online,
		PendingJobs:          pending,
		JobsSubmitted:        l.jobsSubmit,
		JobsCompleted:        l.jobsCompleted,
		JobsFailed:           l.jobsFailed,
		TotalExecutionTimeUs: l.totalExecUs,
		WCET:                 l.wcetStats.Snapshot(),
	}
}

// AuditLog exposes the lane's shutdown-cancellation audit trail.
func (l *Lane) AuditLog() *audit.Log {
	return &l.auditLog
}

// Capacity returns the lane's fixed slot count.
func (l *Lane) Capacity() int {
	return l.cfg.Capacity
}
