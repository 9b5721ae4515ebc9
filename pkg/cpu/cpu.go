// Package cpu wraps pkg/lane with the ARM Cortex-A CPU lane's concrete
// identity: 32 concurrent slots, job ids starting at 1, and a simulated
// execution delay of half the job's WCET budget — all taken directly from
// original_source/.../hal_cpu_arm_cortex.c's g_cpu_context sizing and its
// "usleep(job->wcet_us / 2)" simulation.
package cpu

import (
	"github.com/jihwankim/hrcls/pkg/halerr"
	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/jihwankim/hrcls/pkg/lane"
	"github.com/jihwankim/hrcls/pkg/registry"
)

const (
	// Capacity matches "cpu_job_slot_t job_slots[32]" in the original HAL.
	Capacity = 32
	// IDBase matches "g_cpu_context.next_job_id = 1" on init.
	IDBase = 1
	// SimulationFraction matches "usleep(job->wcet_us / 2)".
	SimulationFraction = 2
)

// Lane is the CPU compute lane.
type Lane struct {
	*lane.Lane
}

// New constructs a CPU Lane. It is offline until Init is called.
func New(reg registry.Registry) *Lane {
	return &Lane{lane.New(lane.Config{
		Lane:               jobmodel.LaneCPU,
		Capacity:           Capacity,
		IDBase:             IDBase,
		SimulationFraction: SimulationFraction,
		Registry:           reg,
	})}
}

// SetAffinity pins the lane's simulated execution to a bitmask of cores. The
// original HAL validates the mask but performs no real sched_setaffinity
// call in its simulation path; this mirrors that validation-only behavior.
func (l *Lane) SetAffinity(coreMask uint32) error {
	if coreMask == 0 || coreMask > 0xFF {
		return halerr.New(halerr.InvalidParam, "core mask must be in 1..0xFF")
	}
	return nil
}

// CacheStats reports simulated L1/L2 hit and miss counters.
type CacheStats struct {
	L1Hits   uint32
	L1Misses uint32
	L2Hits   uint32
	L2Misses uint32
}

// CacheStats derives simulated cache statistics from the lane's live job
// counters rather than returning fixed magic numbers: the hit ratio holds
// steady at the original HAL's simulated 95% L1 / 90% L2 rates, scaled by
// jobs finished (completed plus failed, plus one) so repeated calls against a
// busier lane report proportionally larger counts.
func (l *Lane) CacheStats() CacheStats {
	status := l.GetStatus()
	accesses := uint64(300) * (status.JobsCompleted + status.JobsFailed + 1)
	l1Hits := accesses * 95 / 100
	l2Accesses := accesses / 20
	return CacheStats{
		L1Hits:   uint32(l1Hits),
		L1Misses: uint32(accesses - l1Hits),
		L2Hits:   uint32(l2Accesses * 90 / 100),
		L2Misses: uint32(l2Accesses - l2Accesses*90/100),
	}
}
