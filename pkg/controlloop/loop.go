// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package controlloop is the daemon's single-threaded periodic loop: it
// discovers gated pods, groups them into jobs, and dispatches each job
// through node filtering, assignment search, and commit (spec.md §4.8).
package controlloop

import (
	"context"
	"reflect"
	"sort"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	v1 "k8s.io/api/core/v1"

	"github.com/gpu-topology/scheduler/pkg/assign"
	"github.com/gpu-topology/scheduler/pkg/commit"
	"github.com/gpu-topology/scheduler/pkg/metrics"
	"github.com/gpu-topology/scheduler/pkg/nodefilter"
	"github.com/gpu-topology/scheduler/pkg/orchestrator"
	"github.com/gpu-topology/scheduler/pkg/podfilter"
)

// settlingDelay is the fixed pause after discovering gate names and before
// scheduling against them, a tolerance against the orchestrator making a
// job's pods visible across more than one list call (spec.md §4.8 step 6).
const settlingDelay = 5 * time.Second

// Config is the daemon's CLI-level configuration (spec.md §6).
type Config struct {
	GatePrefix        string
	Interval          time.Duration
	IgnoredNamespaces map[string]struct{}
}

// Loop is the control loop. It holds no state across ticks beyond Config
// (spec.md §5): every PodRecord/NodeRecord is rebuilt from the
// orchestrator on each tick.
type Loop struct {
	client  orchestrator.Client
	cfg     Config
	log     *zap.SugaredLogger
	metrics *metrics.Recorder

	// sleep is overridable in tests so scenario tests don't block on
	// real wall-clock time.
	sleep func(context.Context, time.Duration)
}

// New builds a Loop. metrics may be nil, in which case no Prometheus
// counters are recorded.
func New(client orchestrator.Client, cfg Config, log *zap.SugaredLogger, rec *metrics.Recorder) *Loop {
	return &Loop{
		client:  client,
		cfg:     cfg,
		log:     log,
		metrics: rec,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Run executes ticks until ctx is cancelled. It never returns a non-nil
// error in normal operation (spec.md §6: the loop is infinite); errors
// from individual ticks are logged and the loop continues.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		tickStart := time.Now()
		l.Tick(ctx)

		elapsed := time.Since(tickStart)
		if remaining := l.cfg.Interval - elapsed; remaining > 0 {
			l.sleep(ctx, remaining)
		}
	}
}

// Tick runs exactly one iteration of §4.8's per-tick algorithm.
func (l *Loop) Tick(ctx context.Context) {
	if l.metrics != nil {
		l.metrics.Ticks.Inc()
	}

	pods, err := l.listAllPods(ctx)
	if err != nil {
		l.log.Errorw("failed to list pods", "error", err)
		return
	}

	gates := discoverGates(pods, l.cfg.GatePrefix)
	l.log.Debugw("tick observed pods and gates", "pods", len(pods), "gates", len(gates))
	if len(gates) == 0 {
		return
	}

	// Tolerance against the orchestrator making all of a new job's pods
	// visible across more than one List call.
	l.sleep(ctx, settlingDelay)

	for _, gate := range gates {
		pods, err := l.listAllPods(ctx)
		if err != nil {
			l.log.Errorw("failed to re-list pods before scheduling gate", "gate", gate, "error", err)
			continue
		}
		l.scheduleGate(ctx, pods, gate)
	}
}

func (l *Loop) listAllPods(ctx context.Context) ([]*v1.Pod, error) {
	namespaces, err := l.client.ListNamespaces(ctx)
	if err != nil {
		return nil, err
	}

	var pods []*v1.Pod
	for _, ns := range namespaces {
		if _, ignored := l.cfg.IgnoredNamespaces[ns]; ignored {
			continue
		}
		nsPods, err := l.client.ListPods(ctx, ns)
		if err != nil {
			l.log.Errorw("failed to list pods in namespace, skipping namespace this tick", "namespace", ns, "error", err)
			continue
		}
		pods = append(pods, nsPods...)
	}
	return pods, nil
}

// discoverGates returns the sorted set of scheduling gate names on pods
// that start with prefix — sorted so gate processing order, and therefore
// logging, is deterministic across ticks.
func discoverGates(pods []*v1.Pod, prefix string) []string {
	seen := make(map[string]struct{})
	for _, pod := range pods {
		for _, g := range pod.Spec.SchedulingGates {
			if len(g.Name) >= len(prefix) && g.Name[:len(prefix)] == prefix {
				seen[g.Name] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// scheduleGate implements schedule_pod_with_gate (spec.md §4.8): filter,
// group, sort jobs by admission order, then dispatch each independently.
func (l *Loop) scheduleGate(ctx context.Context, pods []*v1.Pod, gate string) {
	records := podfilter.FromPods(pods, gate)
	l.log.Infow("pods to schedule for gate", "gate", gate, "count", len(records))
	for _, r := range records {
		if !r.HasJob || !r.HasIndex {
			l.log.Infow("pod lacks job-name or integer job-completion-index label",
				"namespace", r.Namespace, "pod", r.Name, "has_job_name", r.HasJob, "has_index", r.HasIndex)
		}
	}

	jobs := toJobSlice(podfilter.GroupByJob(records))
	podfilter.SortJobs(jobs)

	for _, job := range jobs {
		l.scheduleJob(ctx, pods, gate, job)
	}
}

func toJobSlice(groups map[string][]*podfilter.Record) [][]*podfilter.Record {
	jobs := make([][]*podfilter.Record, 0, len(groups))
	for _, job := range groups {
		jobs = append(jobs, job)
	}
	return jobs
}

func (l *Loop) scheduleJob(ctx context.Context, allPods []*v1.Pod, gate string, job []*podfilter.Record) {
	jobName := jobIdentity(job)

	tolerations, ok := commonTolerations(job)
	if !ok {
		l.log.Errorw("pods in job have differing tolerations, skipping job this tick", "job", jobName)
		if l.metrics != nil {
			l.metrics.JobsSkipped.Inc()
		}
		return
	}

	nodes, err := l.client.ListNodes(ctx)
	if err != nil {
		l.log.Errorw("failed to list nodes, skipping job this tick", "job", jobName, "error", err)
		if l.metrics != nil {
			l.metrics.JobsSkipped.Inc()
		}
		return
	}

	nodeRecords := nodefilter.FromNodes(nodes, allPods, tolerations, l.log)
	sortedPods := podfilter.SortPods(job)
	sortedNodes := assign.SortNodes(nodeRecords)

	searchStart := time.Now()
	result, found := assign.Solve(sortedNodes, sortedPods)
	if l.metrics != nil {
		l.metrics.AssignmentDuration.Observe(time.Since(searchStart).Seconds())
	}

	if !found {
		l.log.Infow("no feasible assignment found, skipping job this tick",
			"job", jobName, "pods", len(sortedPods), "candidate_nodes", len(sortedNodes))
		if l.metrics != nil {
			l.metrics.JobsSkipped.Inc()
		}
		return
	}

	assignments := make([]commit.Assignment, len(sortedPods))
	for i, pod := range sortedPods {
		assignments[i] = commit.Assignment{Pod: pod, Node: sortedNodes[result.NodeIndex[i]]}
	}

	l.log.Infow("assignment found, committing job", "job", jobName, "pods", len(sortedPods), "cost", result.Cost)
	if err := commit.All(ctx, l.client, gate, assignments, l.log); err != nil {
		if l.metrics != nil {
			l.metrics.CommitFailures.Add(float64(len(multierr.Errors(err))))
		}
	}
	if l.metrics != nil {
		l.metrics.JobsScheduled.Inc()
	}
}

func jobIdentity(job []*podfilter.Record) string {
	if len(job) == 0 {
		return ""
	}
	if job[0].HasJob {
		return job[0].JobName
	}
	return job[0].Name
}

// commonTolerations enforces spec.md §3's invariant that every pod in one
// job shares identical tolerations. ok is false on a mismatch, in which
// case the job must be skipped rather than scheduled under inconsistent
// constraints (§7, §9 resolution of the source's crash-on-assert bug).
func commonTolerations(job []*podfilter.Record) ([]v1.Toleration, bool) {
	if len(job) == 0 {
		return nil, true
	}
	first := job[0].Tolerations
	for _, pod := range job[1:] {
		if !reflect.DeepEqual(first, pod.Tolerations) {
			return nil, false
		}
	}
	return first, true
}
