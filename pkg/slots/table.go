// Package slots implements the fixed-capacity slot table every lane uses to
// admit and track jobs: a translation of the C original's fixed array of
// tagged slots (original_source/.../hal_cpu_arm_cortex.c: "static
// cpu_job_slot_t job_slots[32]") into an array of slots tagged
// free/occupied, scanned linearly on submit — same O(capacity) admission
// cost, no per-slot mutex, since the lane's single mutex already guards the
// whole table. This package is exactly that array, generalized over
// capacity so pkg/cpu, pkg/fpga, and pkg/dsp can each size their own table.
package slots

import "github.com/jihwankim/hrcls/pkg/jobmodel"

// Slot holds one admitted job's bookkeeping: its descriptor, its in-progress
// or terminal Result, and whether the slot is currently occupied. The
// occupying lane's mutex guards every field — Table performs no locking of
// its own, only ever held around the counters/slot table and never across
// blocking work.
type Slot struct {
	Occupied bool
	Job      jobmodel.Job
	Result   jobmodel.Result
	Cancel   func() // cancels the worker owning this slot, nil until one is assigned
}

// Table is a fixed-capacity array of Slots. The zero value is not usable;
// construct with New.
type Table struct {
	slots []Slot
}

// New returns a Table with room for exactly capacity concurrent jobs.
func New(capacity int) *Table {
	return &Table{slots: make([]Slot, capacity)}
}

// Capacity returns the table's fixed size.
func (t *Table) Capacity() int {
	return len(t.slots)
}

// Allocate linearly scans for a free slot, occupies it with job, and returns
// its index. It reports false if every slot is occupied — the caller's
// submit path turns that into halerr.Busy ("table full"). lane is stamped
// onto the Result so every Result carries its origin lane from admission
// onward. Callers must hold the lane's mutex across this call.
func (t *Table) Allocate(job jobmodel.Job, lane jobmodel.Lane) (index int, ok bool) {
	for i := range t.slots {
		if !t.slots[i].Occupied {
			t.slots[i] = Slot{
				Occupied: true,
				Job:      job,
				Result: jobmodel.Result{
					JobID:  job.JobID,
					Lane:   lane,
					Status: jobmodel.StatusPending,
				},
			}
			return i, true
		}
	}
	return -1, false
}

// FindByJobID linearly scans for the occupied slot holding jobID. Callers
// must hold the lane's mutex across this call and any use of the returned
// index.
func (t *Table) FindByJobID(jobID uint64) (index int, ok bool) {
	for i := range t.slots {
		if t.slots[i].Occupied && t.slots[i].Job.JobID == jobID {
			return i, true
		}
	}
	return -1, false
}

// At returns a pointer to the slot at index for in-place mutation. Callers
// must hold the lane's mutex across any use of the returned pointer.
func (t *Table) At(index int) *Slot {
	return &t.slots[index]
}

// Release frees the slot at index, making it eligible for Allocate again.
// Callers must hold the lane's mutex across this call.
func (t *Table) Release(index int) {
	t.slots[index] = Slot{}
}

// Occupied reports how many slots currently hold a job, for a lane's
// queue-depth and active-job stats. Callers must hold the lane's mutex
// across this call.
func (t *Table) Occupied() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].Occupied {
			n++
		}
	}
	return n
}

// Each calls fn for every occupied slot's index, in table order. Callers
// must hold the lane's mutex across this call; fn may modify or Release the
// slot it is given, since each slot's Occupied flag is read before fn runs.
func (t *Table) Each(fn func(index int, slot *Slot)) {
	for i := range t.slots {
		if t.slots[i].Occupied {
			fn(i, &t.slots[i])
		}
	}
}
