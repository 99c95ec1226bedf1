// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package nodefilter narrows the cluster's node list to those usable for a
// given job: topology-labeled, tainted only within the job's tolerations,
// and Ready (spec.md §4.3).
package nodefilter

import (
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	v1 "k8s.io/api/core/v1"

	"github.com/gpu-topology/scheduler/pkg/resources"
	"github.com/gpu-topology/scheduler/pkg/topology"
)

// Record is a capacity-annotated, topology-labeled node usable as an
// assignment target.
type Record struct {
	Name     string
	Topology topology.Key
	Free     resources.Usage
	Labels   map[string]string
}

// FromNodes filters nodes down to schedulable Records for a job whose pods
// all carry tolerations (§3's invariant: one set of tolerations per job).
// pods is the full cluster pod list, consulted for capacity accounting.
// Filtering never writes to the orchestrator.
func FromNodes(nodes []*v1.Node, pods []*v1.Pod, tolerations []v1.Toleration, log *zap.SugaredLogger) map[string]*Record {
	toleratedByKey := tolerationsByKey(tolerations)

	out := make(map[string]*Record)
	for _, node := range nodes {
		key, ok := topology.FromLabels(node.Labels)
		if !ok {
			log.Debugw("skipping node without topology labels", "node", node.Name)
			continue
		}

		if !tolerable(node.Spec.Taints, toleratedByKey) {
			log.Debugw("skipping tainted node", "node", node.Name)
			continue
		}

		if !isReady(node) {
			log.Debugw("skipping not-ready node", "node", node.Name)
			continue
		}

		free := resources.FreeCapacity(node, pods)
		log.Debugw("candidate node",
			"node", node.Name,
			"free_cpu_millis", free.CPU.MilliValue(),
			"free_memory", humanize.IBytes(uint64(free.Memory.Value())),
			"free_gpu", free.GPU)

		out[node.Name] = &Record{
			Name:     node.Name,
			Topology: key,
			Free:     free,
			Labels:   node.Labels,
		}
	}
	return out
}

func tolerationsByKey(tolerations []v1.Toleration) map[string]v1.Toleration {
	m := make(map[string]v1.Toleration, len(tolerations))
	for _, t := range tolerations {
		m[t.Key] = t
	}
	return m
}

// tolerable reports whether every taint on the node is matched by the
// job's tolerations: a taint whose key isn't tolerated at all excludes the
// node; a toleration with operator Equal must also match the taint's
// value; Exists matches any value. This mirrors the original daemon's
// dict-keyed matching (schedule-daemon.py's find_schedulable_nodes) rather
// than full Kubernetes taint-effect semantics.
func tolerable(taints []v1.Taint, toleratedByKey map[string]v1.Toleration) bool {
	for _, taint := range taints {
		tol, found := toleratedByKey[taint.Key]
		if !found {
			return false
		}
		if tol.Operator == v1.TolerationOpEqual && tol.Value != taint.Value {
			return false
		}
	}
	return true
}

// isReady reports whether node carries a Ready condition with status True.
// Per spec.md §9, a NotReady node is skipped (continue), not a reason to
// abort the whole node loop — the source's `break` there was a bug.
func isReady(node *v1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == v1.NodeReady {
			return cond.Status == v1.ConditionTrue
		}
	}
	return false
}
