package lane

import (
	"sync"

	"github.com/jihwankim/hrcls/pkg/halerr"
	"github.com/jihwankim/hrcls/pkg/jobmodel"
)

// PowerState models a lane's power-management state.
type PowerState int

const (
	PowerOff PowerState = iota
	PowerStandby
	PowerActive
	PowerTurbo
)

func (p PowerState) String() string {
	switch p {
	case PowerOff:
		return "Off"
	case PowerStandby:
		return "Standby"
	case PowerActive:
		return "Active"
	case PowerTurbo:
		return "Turbo"
	default:
		return "Unknown"
	}
}

// controls holds the lane-agnostic power/clock/tracing state every concrete
// lane carries, applied uniformly across CPU, FPGA, and DSP. Embedded by
// Lane directly rather than left as a separate type, since every lane needs
// exactly one of these.
type controls struct {
	mu         sync.Mutex
	power      PowerState
	clockMHz   uint32
	tracing    bool
	selfTestOK uint64
	selfTestNG uint64
}

// SetPowerState transitions the lane's simulated power state. A lane in
// PowerOff still reports Online if it was never shut down — power state and
// lifecycle online/offline are independent axes, matching how the original
// HAL's init/shutdown never touches power management.
func (l *Lane) SetPowerState(state PowerState) error {
	if state < PowerOff || state > PowerTurbo {
		return halerr.New(halerr.InvalidParam, "unrecognized power state")
	}
	l.controls.mu.Lock()
	defer l.controls.mu.Unlock()
	l.controls.power = state
	return nil
}

// PowerState reports the lane's current simulated power state.
func (l *Lane) PowerState() PowerState {
	l.controls.mu.Lock()
	defer l.controls.mu.Unlock()
	return l.controls.power
}

// SetClockFrequency sets the lane's simulated clock frequency in MHz. A
// frequency of zero is rejected: a stopped clock means no execution, which
// is what PowerOff already models.
func (l *Lane) SetClockFrequency(mhz uint32) error {
	if mhz == 0 {
		return halerr.New(halerr.InvalidParam, "clock frequency must be positive")
	}
	l.controls.mu.Lock()
	defer l.controls.mu.Unlock()
	l.controls.clockMHz = mhz
	return nil
}

// ClockFrequency reports the lane's current simulated clock frequency in
// MHz.
func (l *Lane) ClockFrequency() uint32 {
	l.controls.mu.Lock()
	defer l.controls.mu.Unlock()
	return l.controls.clockMHz
}

// SetTracing records whether per-job execution tracing is enabled, as
// reported by Tracing. The flag has no other effect: this package carries no
// logger, and workers emit no trace output whether it is set or not.
func (l *Lane) SetTracing(enabled bool) {
	l.controls.mu.Lock()
	defer l.controls.mu.Unlock()
	l.controls.tracing = enabled
}

// Tracing reports whether per-job tracing is currently enabled.
func (l *Lane) Tracing() bool {
	l.controls.mu.Lock()
	defer l.controls.mu.Unlock()
	return l.controls.tracing
}

// SelfTestResult is the outcome of RunSelfTest.
type SelfTestResult struct {
	Passed   bool
	Checksum uint32
}

// RunSelfTest exercises the lane's registry against testVector synchronously
// (it does not consume a slot or go through submit/wait) and reports whether
// the deterministic function executed successfully. A lane whose registry
// has no entry for the self-test function name ("__self_test__") reports
// failure with a zero checksum.
func (l *Lane) RunSelfTest(testVector []byte) SelfTestResult {
	fn, ok := l.cfg.Registry.Lookup(selfTestFunctionName)
	if !ok {
		l.recordSelfTest(false)
		return SelfTestResult{}
	}
	output, ok := fn(testVector)
	if !ok {
		l.recordSelfTest(false)
		return SelfTestResult{}
	}
	l.recordSelfTest(true)
	return SelfTestResult{Passed: true, Checksum: jobmodel.Checksum(output)}
}

const selfTestFunctionName = "__self_test__"

func (l *Lane) recordSelfTest(passed bool) {
	l.controls.mu.Lock()
	defer l.controls.mu.Unlock()
	if passed {
		l.controls.selfTestOK++
	} else {
		l.controls.selfTestNG++
	}
}

// SelfTestCounts reports how many self tests have passed and failed over
// this lane's lifetime.
func (l *Lane) SelfTestCounts() (passed, failed uint64) {
	l.controls.mu.Lock()
	defer l.controls.mu.Unlock()
	return l.controls.selfTestOK, l.controls.selfTestNG
}
