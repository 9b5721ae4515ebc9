package audit_test

import (
	"sync"
	"testing"

	"github.com/jihwankim/hrcls/pkg/audit"
	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/stretchr/testify/assert"
)

func TestRecordAndEntries(t *testing.T) {
	var log audit.Log
	log.Record(1, jobmodel.LaneCPU, jobmodel.StatusRunning)
	log.Record(2, jobmodel.LaneFPGA, jobmodel.StatusPending)

	entries := log.Entries()
	assert.Len(t, entries, 2)
	assert.Equal(t, uint64(1), entries[0].JobID)
	assert.Equal(t, jobmodel.LaneFPGA, entries[1].Lane)
	assert.Equal(t, 2, log.Len())
}

func TestConcurrentRecord(t *testing.T) {
	var log audit.Log
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Record(uint64(i), jobmodel.LaneDSP, jobmodel.StatusRunning)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, log.Len())
}
