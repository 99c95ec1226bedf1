// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package topology derives a node's physical placement coordinate from its
// labels and defines the distance metric the assignment search minimizes.
package topology

import (
	"github.com/gpu-topology/scheduler/pkg/constants"
)

// Key is the ordered 4-tuple (placement_group, cluster, rack, host)
// identifying a node's position in the physical hierarchy. The zero Key is
// not a valid topology coordinate; use FromLabels and check ok.
type Key struct {
	PlacementGroup string
	Cluster        string
	Rack           string
	Host           string
}

// FromLabels derives a Key from a node's label map. ok is false if any of
// the four required labels is missing, in which case the node is not
// topology-labeled and must be excluded from consideration.
func FromLabels(labels map[string]string) (key Key, ok bool) {
	pg, found := labels[constants.PlacementGroupLabel]
	if !found {
		return Key{}, false
	}
	cluster, found := labels[constants.ClusterLabel]
	if !found {
		return Key{}, false
	}
	rack, found := labels[constants.RackLabel]
	if !found {
		return Key{}, false
	}
	host, found := labels[constants.HostLabel]
	if !found {
		return Key{}, false
	}
	return Key{PlacementGroup: pg, Cluster: cluster, Rack: rack, Host: host}, true
}

// Less orders keys lexicographically over (PlacementGroup, Cluster, Rack,
// Host), which groups nodes hierarchically: same placement group nodes
// cluster together, then by cluster, then by rack.
func (k Key) Less(other Key) bool {
	if k.PlacementGroup != other.PlacementGroup {
		return k.PlacementGroup < other.PlacementGroup
	}
	if k.Cluster != other.Cluster {
		return k.Cluster < other.Cluster
	}
	if k.Rack != other.Rack {
		return k.Rack < other.Rack
	}
	return k.Host < other.Host
}

// firstDiffIndex returns the 0-indexed position of the first coordinate at
// which a and b differ, or 4 if they are identical.
func firstDiffIndex(a, b Key) int {
	av := [4]string{a.PlacementGroup, a.Cluster, a.Rack, a.Host}
	bv := [4]string{b.PlacementGroup, b.Cluster, b.Rack, b.Host}
	for i := range av {
		if av[i] != bv[i] {
			return i
		}
	}
	return 4
}

// Distance computes the topology distance between two keys: 0 if equal,
// otherwise 1_000_000 / 100^i where i is the first differing coordinate
// (0-indexed from the outermost, placement group). Differing only at the
// host level (i=3) costs 1; differing at the placement group (i=0) costs
// 1_000_000. Smaller distance means "closer in the hierarchy".
func Distance(a, b Key) float64 {
	i := firstDiffIndex(a, b)
	if i == 4 {
		return 0
	}
	d := 1_000_000.0
	for ; i > 0; i-- {
		d /= 100
	}
	return d
}
