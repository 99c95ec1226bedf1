// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes the control loop's Prometheus counters, the
// same observability surface class the teacher's own podgroupcontroller
// and queuecontroller packages expose for their control loops.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the collectors this daemon registers.
type Recorder struct {
	Ticks              prometheus.Counter
	JobsScheduled      prometheus.Counter
	JobsSkipped        prometheus.Counter
	CommitFailures     prometheus.Counter
	AssignmentDuration prometheus.Histogram
}

// NewRecorder creates and registers the daemon's metrics against reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "topology_gang_scheduler",
			Name:      "ticks_total",
			Help:      "Number of control loop ticks executed.",
		}),
		JobsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "topology_gang_scheduler",
			Name:      "jobs_scheduled_total",
			Help:      "Number of jobs for which a feasible assignment was found and committed.",
		}),
		JobsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "topology_gang_scheduler",
			Name:      "jobs_skipped_total",
			Help:      "Number of jobs skipped (no feasible assignment, invariant violation, or node listing failure).",
		}),
		CommitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "topology_gang_scheduler",
			Name:      "commit_failures_total",
			Help:      "Number of pod commits that failed (conflict, not-found, or transport error).",
		}),
		AssignmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "topology_gang_scheduler",
			Name:      "assignment_search_duration_seconds",
			Help:      "Wall-clock time spent in the backtracking assignment search per job.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(r.Ticks, r.JobsScheduled, r.JobsSkipped, r.CommitFailures, r.AssignmentDuration)
	return r
}
