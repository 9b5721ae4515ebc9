// Package system composes the CPU, FPGA, and DSP lanes into the single
// facade external callers use: submit/wait/poll/cancel across any lane,
// redundant submission, cross-lane barrier sync, system-wide stats, and a
// terminal-result callback registry.
//
// System plays the composition-root role pkg/core/orchestrator.Orchestrator
// plays elsewhere in this codebase: one struct holding every subsystem
// (there, config/injector/collector/detector/emergency controller; here,
// three lanes/metrics/barrier/config/logger), constructed once at startup
// and exposing the operations callers actually invoke. The callback registry
// — register once, invoked on every terminal event — is adapted from
// emergency.Controller's OnStop/callbacks list, generalized from "one
// emergency event" to "every job's terminal Result".
package system

import (
	"context"
	"fmt"
	"sync"

	"github.com/jihwankim/hrcls/pkg/barrier"
	"github.com/jihwankim/hrcls/pkg/config"
	"github.com/jihwankim/hrcls/pkg/cpu"
	"github.com/jihwankim/hrcls/pkg/dsp"
	"github.com/jihwankim/hrcls/pkg/fpga"
	"github.com/jihwankim/hrcls/pkg/halerr"
	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/jihwankim/hrcls/pkg/lane"
	"github.com/jihwankim/hrcls/pkg/logging"
	"github.com/jihwankim/hrcls/pkg/metrics"
	"github.com/jihwankim/hrcls/pkg/redundant"
	"github.com/jihwankim/hrcls/pkg/registry"
)

// System is the top-level HRCLS facade. Construct with New, then Init before
// submitting any job.
type System struct {
	cfg    *config.Config
	log    *logging.Logger
	reg    registry.Registry
	metric *metrics.Registry
	bar    *barrier.Barrier

	cpu  *cpu.Lane
	fpga *fpga.Lane
	dsp  *dsp.Lane

	mu        sync.Mutex
	callbacks []func(jobmodel.Lane, jobmodel.Result)
}

// Options configures a new System. A nil Config uses config.DefaultConfig;
// a nil Logger uses logging.Noop; a nil Registry uses registry.Simulated.
type Options struct {
	Config   *config.Config
	Logger   *logging.Logger
	Registry registry.Registry
}

// New constructs a System. It does not bring any lane online; call Init.
func New(opts Options) *System {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	if opts.Registry == nil {
		opts.Registry = registry.Simulated
	}

	return &System{
		cfg:    opts.Config,
		log:    opts.Logger,
		reg:    opts.Registry,
		metric: metrics.New(),
		bar:    barrier.New(),
		cpu:    cpu.New(opts.Registry),
		fpga:   fpga.New(opts.Registry),
		dsp:    dsp.New(opts.Registry),
	}
}

// Init brings every lane online. It is idempotent.
func (s *System) Init() error {
	if err := s.cpu.Init(); err != nil {
		return fmt.Errorf("init CPU lane: %w", err)
	}
	if err := s.fpga.Init(); err != nil {
		return fmt.Errorf("init FPGA lane: %w", err)
	}
	if err := s.dsp.Init(); err != nil {
		return fmt.Errorf("init DSP lane: %w", err)
	}
	s.log.Info("system initialized", "version", jobmodel.Version())
	return nil
}

// Shutdown cancels every in-flight job across every lane and waits for their
// workers to return, recording each cancellation in that lane's audit log.
func (s *System) Shutdown(ctx context.Context) error {
	for _, l := range []interface {
		Shutdown(context.Context) error
	}{s.cpu, s.fpga, s.dsp} {
		if err := l.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.log.Info("system shut down")
	return nil
}

// laneByTag resolves a jobmodel.Lane tag to its concrete Submitter-capable
// lane, or returns halerr.InvalidParam for an unrecognized tag.
func (s *System) laneByTag(tag jobmodel.Lane) (interface {
	Submit(jobmodel.Job) (uint64, error)
	Wait(context.Context, uint64, uint32) (jobmodel.Result, error)
	Poll(uint64) (jobmodel.Result, error)
	Cancel(uint64) error
	Online() bool
}, error) {
	switch tag {
	case jobmodel.LaneCPU:
		return s.cpu, nil
	case jobmodel.LaneFPGA:
		return s.fpga, nil
	case jobmodel.LaneDSP:
		return s.dsp, nil
	default:
		return nil, halerr.New(halerr.InvalidParam, "unrecognized lane")
	}
}

// laneCore resolves a jobmodel.Lane tag to the generalized *lane.Lane
// underneath its concrete wrapper, for the lane-agnostic control surface
// (power, clock, tracing, self test, status) applied uniformly across
// substrates.
func (s *System) laneCore(tag jobmodel.Lane) (*lane.Lane, error) {
	switch tag {
	case jobmodel.LaneCPU:
		return s.cpu.Lane, nil
	case jobmodel.LaneFPGA:
		return s.fpga.Lane, nil
	case jobmodel.LaneDSP:
		return s.dsp.Lane, nil
	default:
		return nil, halerr.New(halerr.InvalidParam, "unrecognized lane")
	}
}

// ConfigureLane validates per-lane config settings for tag: the lane tag must
// be recognized and DefaultTimeoutUs must be positive. It does not store or
// apply any setting; slot capacity is fixed at construction time, matching
// the original HAL's compiled-in array sizes.
func (s *System) ConfigureLane(tag jobmodel.Lane, cfg config.LaneConfig) error {
	if _, err := s.laneCore(tag); err != nil {
		return err
	}
	if cfg.DefaultTimeoutUs == 0 {
		return halerr.New(halerr.InvalidParam, "default_timeout_us must be positive")
	}
	return nil
}

// SetPowerState transitions a lane's simulated power state.
func (s *System) SetPowerState(tag jobmodel.Lane, state lane.PowerState) error {
	core, err := s.laneCore(tag)
	if err != nil {
		return err
	}
	return core.SetPowerState(state)
}

// SetClockFrequency sets a lane's simulated clock frequency in MHz.
func (s *System) SetClockFrequency(tag jobmodel.Lane, mhz uint32) error {
	core, err := s.laneCore(tag)
	if err != nil {
		return err
	}
	return core.SetClockFrequency(mhz)
}

// RunSelfTest exercises a lane's registry against testVector synchronously.
func (s *System) RunSelfTest(tag jobmodel.Lane, testVector []byte) (lane.SelfTestResult, error) {
	core, err := s.laneCore(tag)
	if err != nil {
		return lane.SelfTestResult{}, err
	}
	return core.RunSelfTest(testVector), nil
}

// SetTracing enables or disables per-job execution tracing on a lane.
func (s *System) SetTracing(tag jobmodel.Lane, enabled bool) error {
	core, err := s.laneCore(tag)
	if err != nil {
		return err
	}
	core.SetTracing(enabled)
	return nil
}

// GetLaneStatus reports one lane's current Status. It dispatches to each
// concrete wrapper's own GetStatus rather than going through laneCore, so
// pkg/fpga's Healthy-requires-bitstream override is honored instead of
// bypassed.
func (s *System) GetLaneStatus(tag jobmodel.Lane) (lane.Status, error) {
	var status lane.Status
	switch tag {
	case jobmodel.LaneCPU:
		status = s.cpu.GetStatus()
	case jobmodel.LaneFPGA:
		status = s.fpga.GetStatus()
	case jobmodel.LaneDSP:
		status = s.dsp.GetStatus()
	default:
		return lane.Status{}, halerr.New(halerr.InvalidParam, "unrecognized lane")
	}
	s.metric.SetQueueDepth(tag, status.PendingJobs)
	return status, nil
}

// SystemStats aggregates every lane's Status into one system-wide report.
type SystemStats struct {
	Lanes map[jobmodel.Lane]lane.Status
}

// GetSystemStats reports GetLaneStatus for every lane in one call.
func (s *System) GetSystemStats() SystemStats {
	stats := SystemStats{Lanes: make(map[jobmodel.Lane]lane.Status, len(jobmodel.Lanes()))}
	for _, tag := range jobmodel.Lanes() {
		status, err := s.GetLaneStatus(tag)
		if err != nil {
			continue
		}
		stats.Lanes[tag] = status
	}
	return stats
}

// SubmitJob admits job to the given lane and returns its assigned id.
func (s *System) SubmitJob(tag jobmodel.Lane, job jobmodel.Job) (uint64, error) {
	target, err := s.laneByTag(tag)
	if err != nil {
		return 0, err
	}
	jobID, err := target.Submit(job)
	if err != nil {
		return 0, err
	}
	s.metric.RecordSubmit(tag)
	return jobID, nil
}

// WaitJob blocks until jobID on tag reaches a terminal status or timeoutUs
// elapses, then fires every registered callback with its Result before
// returning it.
func (s *System) WaitJob(ctx context.Context, tag jobmodel.Lane, jobID uint64, timeoutUs uint32) (jobmodel.Result, error) {
	target, err := s.laneByTag(tag)
	if err != nil {
		return jobmodel.Result{}, err
	}
	result, err := target.Wait(ctx, jobID, timeoutUs)
	if err != nil {
		return result, err
	}
	s.metric.RecordCompletion(tag, result.Status, result.ExecutionTimeUs)
	s.notify(tag, result)
	return result, nil
}

// PollJob reports jobID's current Result without blocking.
func (s *System) PollJob(tag jobmodel.Lane, jobID uint64) (jobmodel.Result, error) {
	target, err := s.laneByTag(tag)
	if err != nil {
		return jobmodel.Result{}, err
	}
	return target.Poll(jobID)
}

// CancelJob requests cooperative cancellation of jobID on tag.
func (s *System) CancelJob(tag jobmodel.Lane, jobID uint64) error {
	target, err := s.laneByTag(tag)
	if err != nil {
		return err
	}
	return target.Cancel(jobID)
}

// SubmitRedundantJob fans job out across every healthy lane (or a caller-
// supplied subset) under one correlation id, and tallies the voting outcome
// in this System's metrics.
func (s *System) SubmitRedundantJob(ctx context.Context, correlationID string, job jobmodel.Job, timeoutUs uint32, lanes []jobmodel.Lane) (redundant.Submission, error) {
	if len(lanes) == 0 {
		for _, tag := range jobmodel.Lanes() {
			if status, err := s.GetLaneStatus(tag); err == nil && status.Healthy {
				lanes = append(lanes, tag)
			}
		}
	}

	targets := make([]redundant.Target, 0, len(lanes))
	for _, tag := range lanes {
		target, err := s.laneByTag(tag)
		if err != nil {
			return redundant.Submission{}, err
		}
		targets = append(targets, redundant.Target{Lane: tag, Submitter: target})
	}

	submission, err := redundant.Submit(ctx, correlationID, job, timeoutUs, targets)
	agreed := redundant.Agree(submission.Outcomes)
	s.metric.RecordRedundantVote(agreed)
	return submission, err
}

// BarrierSync blocks the calling goroutine until expected participants have
// all called BarrierSync with the same groupID.
func (s *System) BarrierSync(groupID string, expected int, timeoutUs uint32) error {
	s.metric.RecordBarrierArrival()
	return s.bar.Arrive(groupID, expected, timeoutUs)
}

// RegisterCallback registers fn to run on every WaitJob completion, across
// every lane. Registration order is preserved; callbacks run synchronously
// in WaitJob's goroutine, matching emergency.Controller.triggerStop's
// synchronous callback execution.
func (s *System) RegisterCallback(fn func(jobmodel.Lane, jobmodel.Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

func (s *System) notify(tag jobmodel.Lane, result jobmodel.Result) {
	s.mu.Lock()
	callbacks := make([]func(jobmodel.Lane, jobmodel.Result), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(tag, result)
	}
}

// CPU, FPGA, and DSP expose the concrete lane wrappers for callers that need
// substrate-specific operations (SetAffinity, LoadBitstream, SetVectorMode,
// and the other substrate-specific callable-surface extensions).
func (s *System) CPU() *cpu.Lane   { return s.cpu }
func (s *System) FPGA() *fpga.Lane { return s.fpga }
func (s *System) DSP() *dsp.Lane   { return s.dsp }

// Metrics exposes the system's Prometheus-typed internal accounting
// registry.
func (s *System) Metrics() *metrics.Registry {
	return s.metric
}
