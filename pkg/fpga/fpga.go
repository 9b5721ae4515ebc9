// Package fpga wraps pkg/lane with the Xilinx Zynq UltraScale+ FPGA lane's
// concrete identity: 16 concurrent slots, job ids starting at 1000 (a
// disjoint range from the CPU lane's 1-based ids), a simulated execution
// delay of one-third of WCET, and a bitstream-load precondition on submit —
// all taken directly from original_source/.../hal_fpga_xilinx.c.
package fpga

import (
	"sync"
	"time"

	"github.com/jihwankim/hrcls/pkg/halerr"
	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/jihwankim/hrcls/pkg/lane"
	"github.com/jihwankim/hrcls/pkg/registry"
)

const (
	// Capacity matches "fpga_job_slot_t job_slots[16]".
	Capacity = 16
	// IDBase matches "g_fpga_context.next_job_id = 1000".
	IDBase = 1000
	// SimulationFraction matches "usleep(job->wcet_us / 3)".
	SimulationFraction = 3

	defaultBitstreamID = "default_v1.0"
	loadSimulation      = 100 // milliseconds, matches "usleep(100000)"
	hashWindowBytes     = 1024
)

// Lane is the FPGA compute lane. Submit fails with halerr.NotSupported
// until a bitstream has been loaded.
type Lane struct {
	*lane.Lane

	mu              sync.Mutex
	bitstreamLoaded bool
	bitstreamID     string

	logicUtilization uint32
	dspUtilization   uint32
	bramUtilization  uint32

	// sleep is the simulated bitstream-load delay (100ms, set by New).
	sleep func()
}

// New constructs an FPGA Lane. It is offline until Init is called, and
// cannot accept submits until LoadBitstream succeeds.
func New(reg registry.Registry) *Lane {
	l := &Lane{
		bitstreamID:      defaultBitstreamID,
		logicUtilization: 25,
		dspUtilization:   40,
		bramUtilization:  60,
	}
	l.sleep = func() { time.Sleep(loadSimulation * time.Millisecond) }
	l.Lane = lane.New(lane.Config{
		Lane:               jobmodel.LaneFPGA,
		Capacity:           Capacity,
		IDBase:             IDBase,
		SimulationFraction: SimulationFraction,
		Registry:           reg,
		Precondition:       l.checkBitstreamLoaded,
	})
	return l
}

func (l *Lane) checkBitstreamLoaded() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.bitstreamLoaded {
		return halerr.New(halerr.NotSupported, "no bitstream loaded")
	}
	return nil
}

// LoadBitstream loads bitstream content, deriving a content-addressed
// bitstream id from its first 1024 bytes with the same poly-31 fold the
// checksum helpers use, matching "custom_%08x" formatting in the original
// HAL. A zero-length bitstream is rejected with halerr.InvalidParam.
func (l *Lane) LoadBitstream(bitstream []byte) error {
	if len(bitstream) == 0 {
		return halerr.New(halerr.InvalidParam, "bitstream must not be empty")
	}
	if !l.Online() {
		return halerr.New(halerr.LaneOffline, "lane is offline")
	}

	l.sleep()

	window := bitstream
	if len(window) > hashWindowBytes {
		window = window[:hashWindowBytes]
	}
	var hash uint32
	for _, b := range window {
		hash = hash*31 + uint32(b)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.bitstreamID = customBitstreamID(hash)
	l.bitstreamLoaded = true
	l.logicUtilization = 45
	l.dspUtilization = 70
	l.bramUtilization = 80
	return nil
}

func customBitstreamID(hash uint32) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = hexDigits[hash&0xf]
		hash >>= 4
	}
	return "custom_" + string(buf)
}

// BitstreamID returns the currently loaded bitstream's identifier.
func (l *Lane) BitstreamID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bitstreamID
}

// Utilization reports simulated logic/DSP-slice/BRAM utilization percentages
// (the FPGA-specific callable surface).
type Utilization struct {
	LogicPercent uint32
	DSPPercent   uint32
	BRAMPercent  uint32
}

// GetUtilization returns the lane's current Utilization.
func (l *Lane) GetUtilization() Utilization {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Utilization{
		LogicPercent: l.logicUtilization,
		DSPPercent:   l.dspUtilization,
		BRAMPercent:  l.bramUtilization,
	}
}

// GetStatus reports the lane's Status, overriding the embedded lane.Lane's
// Healthy field: an FPGA lane is only healthy when online AND a bitstream is
// loaded, matching "status->healthy = g_fpga_context.online &&
// g_fpga_context.bitstream_loaded" in the original HAL.
func (l *Lane) GetStatus() lane.Status {
	status := l.Lane.GetStatus()
	l.mu.Lock()
	loaded := l.bitstreamLoaded
	l.mu.Unlock()
	status.Healthy = status.Online && loaded
	return status
}
