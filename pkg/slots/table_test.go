package slots_test

import (
	"testing"

	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/jihwankim/hrcls/pkg/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateFindRelease(t *testing.T) {
	table := slots.New(2)

	idx1, ok := table.Allocate(jobmodel.Job{JobID: 1}, jobmodel.LaneCPU)
	require.True(t, ok)
	idx2, ok := table.Allocate(jobmodel.Job{JobID: 2}, jobmodel.LaneCPU)
	require.True(t, ok)
	assert.NotEqual(t, idx1, idx2)

	_, ok = table.Allocate(jobmodel.Job{JobID: 3}, jobmodel.LaneCPU)
	assert.False(t, ok, "table should be full")

	found, ok := table.FindByJobID(2)
	require.True(t, ok)
	assert.Equal(t, idx2, found)

	table.Release(idx1)
	assert.Equal(t, 1, table.Occupied())

	idx3, ok := table.Allocate(jobmodel.Job{JobID: 3}, jobmodel.LaneCPU)
	require.True(t, ok)
	assert.Equal(t, idx1, idx3, "released slot should be reused")
}

func TestFindByJobIDMissing(t *testing.T) {
	table := slots.New(4)
	_, ok := table.FindByJobID(999)
	assert.False(t, ok)
}

func TestEachVisitsOnlyOccupied(t *testing.T) {
	table := slots.New(3)
	table.Allocate(jobmodel.Job{JobID: 10}, jobmodel.LaneCPU)
	table.Allocate(jobmodel.Job{JobID: 20}, jobmodel.LaneCPU)

	var seen []uint64
	table.Each(func(_ int, s *slots.Slot) {
		seen = append(seen, s.Job.JobID)
	})
	assert.ElementsMatch(t, []uint64{10, 20}, seen)
}

func TestCapacity(t *testing.T) {
	table := slots.New(32)
	assert.Equal(t, 32, table.Capacity())
}
