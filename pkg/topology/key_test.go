// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gpu-topology/scheduler/pkg/constants"
)

func TestFromLabels_MissingLabel(t *testing.T) {
	full := map[string]string{
		constants.PlacementGroupLabel: "pg1",
		constants.ClusterLabel:        "c1",
		constants.RackLabel:           "r1",
		constants.HostLabel:           "h1",
	}
	_, ok := FromLabels(full)
	assert.True(t, ok)

	for _, missing := range []string{
		constants.PlacementGroupLabel,
		constants.ClusterLabel,
		constants.RackLabel,
		constants.HostLabel,
	} {
		partial := map[string]string{}
		for k, v := range full {
			if k != missing {
				partial[k] = v
			}
		}
		_, ok := FromLabels(partial)
		assert.False(t, ok, "expected missing %s to make the node non-topology-labeled", missing)
	}
}

func TestDistance_Law(t *testing.T) {
	k := Key{PlacementGroup: "pg1", Cluster: "c1", Rack: "r1", Host: "h1"}
	assert.Equal(t, 0.0, Distance(k, k))

	sameHost := k
	sameRackDiffHost := Key{PlacementGroup: "pg1", Cluster: "c1", Rack: "r1", Host: "h2"}
	sameClusterDiffRack := Key{PlacementGroup: "pg1", Cluster: "c1", Rack: "r2", Host: "h1"}
	samePGDiffCluster := Key{PlacementGroup: "pg1", Cluster: "c2", Rack: "r1", Host: "h1"}
	diffPG := Key{PlacementGroup: "pg2", Cluster: "c1", Rack: "r1", Host: "h1"}

	dHost := Distance(sameHost, sameRackDiffHost)
	dRack := Distance(sameHost, sameClusterDiffRack)
	dCluster := Distance(sameHost, samePGDiffCluster)
	dPG := Distance(sameHost, diffPG)

	assert.Equal(t, 1.0, dHost)
	assert.Equal(t, 100.0, dRack)
	assert.Equal(t, 10000.0, dCluster)
	assert.Equal(t, 1000000.0, dPG)
	assert.Less(t, dHost, dRack)
	assert.Less(t, dRack, dCluster)
	assert.Less(t, dCluster, dPG)
}

func TestKey_Less_Lexicographic(t *testing.T) {
	a := Key{PlacementGroup: "pg1", Cluster: "c1", Rack: "r1", Host: "h1"}
	b := Key{PlacementGroup: "pg1", Cluster: "c1", Rack: "r1", Host: "h2"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}
