package barrier_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jihwankim/hrcls/pkg/barrier"
	"github.com/jihwankim/hrcls/pkg/halerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArriveReleasesAllOnceEveryoneArrives(t *testing.T) {
	b := barrier.New()
	const n = 3

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = b.Arrive("round-1", n, 2_000_000)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestArriveTimesOutAndPoisonsGroup(t *testing.T) {
	b := barrier.New()

	start := time.Now()
	err := b.Arrive("round-timeout", 2, 10_000) // only 1 of 2 arrives, 10ms timeout
	elapsed := time.Since(start)

	require.Error(t, err)
	code, ok := halerr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, halerr.Timeout, code)
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
}

func TestPoisonedGroupReleasesOtherWaiters(t *testing.T) {
	b := barrier.New()

	var wg sync.WaitGroup
	var firstErr, secondErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		// Long timeout: this waiter is released early by the second
		// waiter's shorter timeout poisoning the shared group (expects 3
		// participants, only these 2 ever arrive).
		firstErr = b.Arrive("round-poison", 3, 2_000_000)
	}()
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		secondErr = b.Arrive("round-poison", 3, 10_000)
	}()
	wg.Wait()

	require.Error(t, firstErr)
	require.Error(t, secondErr)
	code, ok := halerr.CodeOf(firstErr)
	require.True(t, ok)
	assert.Equal(t, halerr.Timeout, code)
}

func TestFreshGroupAfterPoisoning(t *testing.T) {
	b := barrier.New()

	err := b.Arrive("round-reuse", 2, 10_000)
	require.Error(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = b.Arrive("round-reuse", 2, 2_000_000)
		}()
	}
	wg.Wait()

	for _, e := range errs {
		assert.NoError(t, e, "a fresh rendezvous under the same group id should start clean")
	}
}

func TestExpectedMismatchRejected(t *testing.T) {
	b := barrier.New()

	done := make(chan struct{})
	go func() {
		b.Arrive("mismatch", 3, 2_000_000)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)

	err := b.Arrive("mismatch", 4, 10_000)
	require.Error(t, err)
	code, ok := halerr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, halerr.InvalidParam, code)

	<-done
}
