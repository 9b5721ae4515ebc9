// Package metrics accounts for system-wide job throughput and latency using
// Prometheus client library types as in-process counters, gauges, and
// histograms — not as a telemetry exporter. Telemetry export and dashboards
// are out of scope. The package offers no read-back API of its own, and
// get_system_stats does not use it (lane statuses come from each lane's own
// counters); the recorded values are reachable only by gathering the
// registry returned by Exporter. It never starts an HTTP handler and never
// registers with a pushgateway.
//
// A conventional Prometheus client queries a running Prometheus *server*
// (client_golang/api, a pull client) and polls it on an interval. This
// package inverts that role: there is no external server to query, so it
// uses client_golang's prometheus subpackage directly as typed counters
// local to the process, and nothing polls them.
package metrics

import (
	"github.com/jihwankim/hrcls/pkg/jobmodel"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry owns the metric families for one system instance. The zero value
// is not usable; construct with New.
type Registry struct {
	reg *prometheus.Registry

	jobsSubmitted  *prometheus.CounterVec
	jobsCompleted  *prometheus.CounterVec
	jobsFailed     *prometheus.CounterVec
	executionTime  *prometheus.HistogramVec
	queueDepth     *prometheus.GaugeVec
	barrierWaits   prometheus.Counter
	redundantVotes *prometheus.CounterVec
}

// New constructs a Registry with every metric family registered against a
// fresh *prometheus.Registry, obtained through Exporter for embedding into a
// caller's own metrics surface, should one want to.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		jobsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrcls",
			Name:      "jobs_submitted_total",
			Help:      "Jobs admitted to a lane, by lane.",
		}, []string{"lane"}),
		jobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrcls",
			Name:      "jobs_completed_total",
			Help:      "Jobs that reached StatusCompleted, by lane.",
		}, []string{"lane"}),
		jobsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrcls",
			Name:      "jobs_failed_total",
			Help:      "Jobs that reached StatusError, StatusTimeout, or StatusCancelled, by lane and terminal status.",
		}, []string{"lane", "status"}),
		executionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hrcls",
			Name:      "job_execution_time_us",
			Help:      "Observed job execution time in microseconds, by lane.",
			Buckets:   []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		}, []string{"lane"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hrcls",
			Name:      "queue_depth",
			Help:      "Occupied slot count, by lane.",
		}, []string{"lane"}),
		barrierWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hrcls",
			Name:      "barrier_arrivals_total",
			Help:      "Total barrier arrivals across every group.",
		}),
		redundantVotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrcls",
			Name:      "redundant_submissions_total",
			Help:      "Redundant submissions, by whether a voting majority agreed.",
		}, []string{"agreed"}),
	}
	r.reg.MustRegister(
		r.jobsSubmitted, r.jobsCompleted, r.jobsFailed,
		r.executionTime, r.queueDepth, r.barrierWaits, r.redundantVotes,
	)
	return r
}

// Exporter returns the underlying *prometheus.Registry, for a caller outside
// this module's scope (an external safety layer) to mount behind its own
// HTTP handler if it chooses. HRCLS itself never does this.
func (r *Registry) Exporter() *prometheus.Registry {
	return r.reg
}

// RecordSubmit tallies one job admitted to lane.
func (r *Registry) RecordSubmit(lane jobmodel.Lane) {
	r.jobsSubmitted.WithLabelValues(lane.String()).Inc()
}

// RecordCompletion tallies one job's terminal outcome and its execution
// time.
func (r *Registry) RecordCompletion(lane jobmodel.Lane, status jobmodel.Status, executionTimeUs uint32) {
	r.executionTime.WithLabelValues(lane.String()).Observe(float64(executionTimeUs))
	if status == jobmodel.StatusCompleted {
		r.jobsCompleted.WithLabelValues(lane.String()).Inc()
		return
	}
	r.jobsFailed.WithLabelValues(lane.String(), status.String()).Inc()
}

// SetQueueDepth records lane's current occupied-slot count.
func (r *Registry) SetQueueDepth(lane jobmodel.Lane, depth int) {
	r.queueDepth.WithLabelValues(lane.String()).Set(float64(depth))
}

// RecordBarrierArrival tallies one barrier rendezvous arrival.
func (r *Registry) RecordBarrierArrival() {
	r.barrierWaits.Inc()
}

// RecordRedundantVote tallies one redundant submission's voting outcome.
func (r *Registry) RecordRedundantVote(agreed bool) {
	label := "false"
	if agreed {
		label = "true"
	}
	r.redundantVotes.WithLabelValues(label).Inc()
}
