package metrics_test

import (
	"testing"

	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/jihwankim/hrcls/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSubmitIncrementsCounter(t *testing.T) {
	r := metrics.New()
	r.RecordSubmit(jobmodel.LaneCPU)
	r.RecordSubmit(jobmodel.LaneCPU)

	count, err := testutil.GatherAndCount(r.Exporter(), "hrcls_jobs_submitted_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count, "one CPU-labeled series")
}

func TestRecordCompletionSplitsCompletedAndFailed(t *testing.T) {
	r := metrics.New()
	r.RecordCompletion(jobmodel.LaneCPU, jobmodel.StatusCompleted, 500)
	r.RecordCompletion(jobmodel.LaneFPGA, jobmodel.StatusTimeout, 900)

	completedCount, err := testutil.GatherAndCount(r.Exporter(), "hrcls_jobs_completed_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, completedCount)

	failedCount, err := testutil.GatherAndCount(r.Exporter(), "hrcls_jobs_failed_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, failedCount)
}

func TestRecordRedundantVoteLabelsByAgreement(t *testing.T) {
	r := metrics.New()
	r.RecordRedundantVote(true)
	r.RecordRedundantVote(false)
	r.RecordRedundantVote(true)

	count, err := testutil.GatherAndCount(r.Exporter(), "hrcls_redundant_submissions_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count, "two distinct agreed/disagreed label series")
}

func TestExporterNeverStartsAServer(t *testing.T) {
	r := metrics.New()
	assert.NotNil(t, r.Exporter(), "callers may mount the registry themselves, but HRCLS never does")
}
