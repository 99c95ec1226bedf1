// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package podfilter extracts gate-bearing pods into schedulable records and
// orders them deterministically within a job (spec.md §4.4, §4.5).
package podfilter

import (
	"strconv"
	"time"

	v1 "k8s.io/api/core/v1"

	"github.com/gpu-topology/scheduler/pkg/constants"
	"github.com/gpu-topology/scheduler/pkg/resources"
)

// Record is a schedulable pod: one that currently carries the gate this
// daemon is considering. JobName and Index are nullable, per spec.md §3.
type Record struct {
	Name      string
	Namespace string

	JobName   string
	HasJob    bool
	Index     *int
	HasIndex  bool

	CreationTime time.Time

	Usage resources.Usage

	NodeSelector map[string]string
	Tolerations  []v1.Toleration

	GatesPresent []string
}

// Key returns the map key this record is stored under, namespace-scoped so
// two pods with the same name in different namespaces never collide.
func (r *Record) Key() string {
	return r.Namespace + "/" + r.Name
}

// FromPods restricts pods to those whose scheduling gates contain gate,
// returning a map keyed by Record.Key (namespace/name). Missing job-name/job-completion-index
// labels are tolerated (logged by the caller); index falls back to the
// name-suffix heuristic at sort time (§4.5).
func FromPods(pods []*v1.Pod, gate string) map[string]*Record {
	out := make(map[string]*Record)
	for _, pod := range pods {
		if !hasGate(pod, gate) {
			continue
		}

		record := &Record{
			Name:         pod.Name,
			Namespace:    pod.Namespace,
			NodeSelector: pod.Spec.NodeSelector,
			Tolerations:  pod.Spec.Tolerations,
			Usage:        resources.PodRequests(pod),
			GatesPresent: gateNames(pod),
		}

		if pod.Labels != nil {
			if jobName, found := pod.Labels[constants.JobNameLabel]; found {
				record.JobName = jobName
				record.HasJob = true
			}
			if idxStr, found := pod.Labels[constants.JobCompletionIndexLabel]; found {
				if idx, err := strconv.Atoi(idxStr); err == nil {
					record.Index = &idx
					record.HasIndex = true
				}
			}
		}

		record.CreationTime = pod.CreationTimestamp.Time

		out[record.Key()] = record
	}
	return out
}

func hasGate(pod *v1.Pod, gate string) bool {
	for _, g := range pod.Spec.SchedulingGates {
		if g.Name == gate {
			return true
		}
	}
	return false
}

func gateNames(pod *v1.Pod) []string {
	names := make([]string, 0, len(pod.Spec.SchedulingGates))
	for _, g := range pod.Spec.SchedulingGates {
		names = append(names, g.Name)
	}
	return names
}

// GroupByJob partitions records by JobName. Pods without a job-name label
// form a singleton group keyed on the pod's own name, so they are still
// scheduled (as a one-pod job) rather than silently dropped.
func GroupByJob(records map[string]*Record) map[string][]*Record {
	groups := make(map[string][]*Record)
	for _, r := range records {
		key := r.JobName
		if !r.HasJob {
			key = "pod:" + r.Name
		}
		groups[key] = append(groups[key], r)
	}
	return groups
}
