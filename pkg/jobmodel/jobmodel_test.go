package jobmodel_test

import (
	"testing"
	"time"

	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "22.0.0", jobmodel.Version())
}

func TestChecksumDeterministic(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	assert.Equal(t, jobmodel.Checksum(data), jobmodel.Checksum(append([]byte{}, data...)))
}

func TestChecksumDiffersOnDifferentInput(t *testing.T) {
	a := jobmodel.Checksum([]byte{1, 2, 3})
	b := jobmodel.Checksum([]byte{1, 2, 4})
	assert.NotEqual(t, a, b)
}

func TestChecksumEmpty(t *testing.T) {
	assert.Equal(t, uint32(0), jobmodel.Checksum(nil))
}

func TestStatusTerminal(t *testing.T) {
	terminal := []jobmodel.Status{
		jobmodel.StatusCompleted,
		jobmodel.StatusError,
		jobmodel.StatusTimeout,
		jobmodel.StatusCancelled,
	}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "%s should be terminal", s)
	}
	assert.False(t, jobmodel.StatusPending.Terminal())
	assert.False(t, jobmodel.StatusRunning.Terminal())
}

func TestLaneString(t *testing.T) {
	assert.Equal(t, "CPU", jobmodel.LaneCPU.String())
	assert.Equal(t, "FPGA", jobmodel.LaneFPGA.String())
	assert.Equal(t, "DSP", jobmodel.LaneDSP.String())
}

func TestLanesOrder(t *testing.T) {
	assert.Equal(t, []jobmodel.Lane{jobmodel.LaneCPU, jobmodel.LaneFPGA, jobmodel.LaneDSP}, jobmodel.Lanes())
}

func TestElapsedUsClampsNegative(t *testing.T) {
	future := time.Now().Add(time.Hour)
	assert.Equal(t, uint32(0), jobmodel.ElapsedUs(future))
}

func TestDeadlineInFuture(t *testing.T) {
	d := jobmodel.Deadline(1000)
	assert.True(t, d.After(time.Now()))
}

func TestPriorityEmergencyIsMostUrgent(t *testing.T) {
	assert.Less(t, int(jobmodel.PriorityEmergency), int(jobmodel.PriorityBackground))
}
