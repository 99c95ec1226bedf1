// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package podfilter

import (
	"sort"
	"strconv"
)

// sortKey is the ordering key for a pod within a job (§4.5): the integer
// completion index when present, otherwise the (name-prefix,
// trailing-number) tuple extracted from the pod's name — so "foo-pod2"
// sorts before "foo-pod10".
type sortKey struct {
	hasIndex bool
	index    int
	prefix   string
	trailing int
}

func keyFor(r *Record) sortKey {
	if r.HasIndex {
		return sortKey{hasIndex: true, index: *r.Index}
	}
	prefix, trailing := splitTrailingNumber(r.Name)
	return sortKey{prefix: prefix, trailing: trailing}
}

// splitTrailingNumber splits name into its maximal trailing run of digits
// and the preceding prefix. A name with no trailing digits returns
// (name, 0).
func splitTrailingNumber(name string) (prefix string, trailing int) {
	end := len(name)
	start := end
	for start > 0 && name[start-1] >= '0' && name[start-1] <= '9' {
		start--
	}
	if start == end {
		return name, 0
	}
	n, err := strconv.Atoi(name[start:end])
	if err != nil {
		return name, 0
	}
	return name[:start], n
}

func less(a, b sortKey) bool {
	if a.hasIndex || b.hasIndex {
		if a.hasIndex != b.hasIndex {
			// Jobs are homogeneous in practice (§3 invariants); if they
			// aren't, indexed pods sort first rather than interleaving
			// unpredictably with name-derived keys.
			return a.hasIndex
		}
		return a.index < b.index
	}
	if a.prefix != b.prefix {
		return a.prefix < b.prefix
	}
	return a.trailing < b.trailing
}

// SortPods orders a job's records per §4.5, in place, and also returns the
// slice for convenience.
func SortPods(records []*Record) []*Record {
	sort.SliceStable(records, func(i, j int) bool {
		return less(keyFor(records[i]), keyFor(records[j]))
	})
	return records
}

// SortJobs orders job groups by their (common) creation time ascending —
// all pods in a job share it per §3's invariants, so the first pod's time
// stands in for the job's.
func SortJobs(jobs [][]*Record) [][]*Record {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i][0].CreationTime.Before(jobs[j][0].CreationTime)
	})
	return jobs
}
