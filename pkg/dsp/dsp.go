// Package dsp wraps pkg/lane with a DSP compute lane's concrete identity. No
// DSP HAL source exists in the underlying hardware reference (only the CPU
// and FPGA lanes shipped), so this package extrapolates one: a third
// disjoint job-id range, a capacity between the CPU and FPGA lanes' sizes,
// and a simulation fraction of one quarter of WCET, a shorter simulated
// delay than both the CPU's half and the FPGA's third. The
// submit/wait/poll/cancel/status
// surface is identical to pkg/cpu and pkg/fpga by construction, since all
// three wrap pkg/lane.
package dsp

import (
	"sync"

	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/jihwankim/hrcls/pkg/lane"
	"github.com/jihwankim/hrcls/pkg/registry"
)

const (
	// Capacity sits between the FPGA lane's 16 and the CPU lane's 32.
	Capacity = 24
	// IDBase is a third range disjoint from both the CPU (1-based) and FPGA
	// (1000-based) lanes.
	IDBase = 2000
	// SimulationFraction of 2 and 3 are already claimed by CPU and FPGA
	// respectively; 4 keeps the DSP lane's simulated delay distinct and
	// faster than the CPU's half-WCET delay.
	SimulationFraction = 4
)

// Lane is the DSP compute lane.
type Lane struct {
	*lane.Lane

	mu         sync.Mutex
	vectorMode bool
}

// New constructs a DSP Lane. It is offline until Init is called.
func New(reg registry.Registry) *Lane {
	return &Lane{Lane: lane.New(lane.Config{
		Lane:               jobmodel.LaneDSP,
		Capacity:           Capacity,
		IDBase:             IDBase,
		SimulationFraction: SimulationFraction,
		Registry:           reg,
	})}
}

// SetVectorMode toggles SIMD vector execution mode. It only records the
// flag, which VectorMode reports and MemoryBandwidth reads: there is no real
// vector unit underneath it.
func (l *Lane) SetVectorMode(enabled bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vectorMode = enabled
	return nil
}

// VectorMode reports whether vector execution mode is currently enabled.
func (l *Lane) VectorMode() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vectorMode
}

// MemoryBandwidth reports a simulated memory bandwidth reading in MB/s.
// Vector mode simulates a wider fetch path, which original_source's FPGA
// utilization jump after bitstream load (25% -> 45% logic) suggests as the
// pattern for "a mode change shifts a simulated resource reading" — here
// applied to DSP memory bandwidth instead of FPGA fabric utilization.
func (l *Lane) MemoryBandwidth() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.vectorMode {
		return 12800
	}
	return 6400
}
