package wcet_test

import (
	"testing"

	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/jihwankim/hrcls/pkg/wcet"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	status, violated := wcet.Classify(false, 10, 100)
	assert.Equal(t, jobmodel.StatusError, status)
	assert.False(t, violated)

	status, violated = wcet.Classify(true, 150, 100)
	assert.Equal(t, jobmodel.StatusError, status)
	assert.True(t, violated)

	status, violated = wcet.Classify(true, 50, 100)
	assert.Equal(t, jobmodel.StatusCompleted, status)
	assert.False(t, violated)

	status, violated = wcet.Classify(true, 100, 100)
	assert.Equal(t, jobmodel.StatusCompleted, status, "exactly at budget should pass")
	assert.False(t, violated)
}

func TestStatsRecordAndSnapshot(t *testing.T) {
	var s wcet.Stats
	s.Record(false)
	s.Record(true)
	s.Record(false)

	snap := s.Snapshot()
	assert.EqualValues(t, 3, snap.Evaluations)
	assert.EqualValues(t, 1, snap.Violations)
	assert.InDelta(t, 1.0/3.0, snap.ViolationRate(), 0.0001)
}

func TestViolationRateWithNoEvaluations(t *testing.T) {
	var snap wcet.Snapshot
	assert.Equal(t, float64(0), snap.ViolationRate())
}
