// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package assign implements the backtracking search that maps a job's
// sorted pods onto a strictly-increasing subsequence of topology-sorted
// nodes, keeping the lowest sum of pairwise topology distances among the
// sequences it visits (spec.md §4.6).
package assign

import (
	"sort"

	"github.com/gpu-topology/scheduler/pkg/nodefilter"
	"github.com/gpu-topology/scheduler/pkg/podfilter"
	"github.com/gpu-topology/scheduler/pkg/topology"
)

// CanSchedule reports whether pod can be placed on node: every key in the
// pod's node selector must match the node's labels, and the node must have
// free capacity covering the pod's request in every dimension.
func CanSchedule(node *nodefilter.Record, pod *podfilter.Record) bool {
	for key, value := range pod.NodeSelector {
		if node.Labels[key] != value {
			return false
		}
	}
	return pod.Usage.LessEqual(node.Free)
}

// SortNodes orders nodes by topology key, placing same-rack/same-host
// nodes adjacent so that a monotone assignment favors physical locality.
func SortNodes(records map[string]*nodefilter.Record) []*nodefilter.Record {
	sorted := make([]*nodefilter.Record, 0, len(records))
	for _, r := range records {
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Topology.Less(sorted[j].Topology)
	})
	return sorted
}

// Result maps each pod (by its index in sortedPods) to the node (by index
// in sortedNodes) it was assigned.
type Result struct {
	NodeIndex []int
	Cost      float64
}

// Solve searches for an assignment a[0..N-1] of sortedPods (length N) onto
// distinct, strictly-increasing indices into sortedNodes (length M >= N),
// subject to CanSchedule at every position, and returns the visited
// assignment with the lowest sum of topology distances between consecutive
// assigned nodes (ties go to the first one found). It returns ok=false if
// the scan finds no feasible assignment.
//
// The scan is an odometer over monotone increasing sequences: each round
// advances the rightmost position by one node and moves each position to
// its left forward to a feasible node below its right-hand neighbour. It
// does not visit every strictly-increasing sequence (when every node is
// feasible for every pod, only runs of N consecutive nodes are tried), so
// the result is the cheapest of the visited sequences, not necessarily the
// global minimum.
func Solve(sortedNodes []*nodefilter.Record, sortedPods []*podfilter.Record) (Result, bool) {
	n := len(sortedPods)
	m := len(sortedNodes)
	if n == 0 || m < n {
		return Result{}, false
	}

	assignment := make([]int, n)
	for i := range assignment {
		assignment[i] = i - n
	}

	best := Result{}
	found := false
	bestCost := float64(0)

	for {
		ok := true
		i := n - 1
		for i >= 0 && ok {
			assignment[i]++
			if assignment[i] == m {
				break
			}
			if assignment[i] >= 0 && CanSchedule(sortedNodes[assignment[i]], sortedPods[i]) {
				i--
			} else if i < n-1 && assignment[i] == assignment[i+1]-1 {
				ok = false
			}
		}
		if assignment[n-1] == m {
			break
		}
		if ok {
			cost := sequenceCost(sortedNodes, assignment)
			if !found || cost < bestCost {
				best = Result{NodeIndex: append([]int(nil), assignment...), Cost: cost}
				bestCost = cost
				found = true
			}
		}
	}

	return best, found
}

func sequenceCost(nodes []*nodefilter.Record, assignment []int) float64 {
	cost := 0.0
	for i := 1; i < len(assignment); i++ {
		prev := nodes[assignment[i-1]].Topology
		cur := nodes[assignment[i]].Topology
		cost += topology.Distance(prev, cur)
	}
	return cost
}
