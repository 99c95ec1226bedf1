// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package commit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/gpu-topology/scheduler/pkg/constants"
	"github.com/gpu-topology/scheduler/pkg/nodefilter"
	"github.com/gpu-topology/scheduler/pkg/orchestrator"
	"github.com/gpu-topology/scheduler/pkg/podfilter"
)

const testGate = constants.DefaultGatePrefix + "x"

func gatedPod(name string) *v1.Pod {
	return &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "ns"},
		Spec: v1.PodSpec{
			SchedulingGates: []v1.PodSchedulingGate{{Name: testGate}, {Name: "other/gate"}},
		},
	}
}

func TestOne_RemovesOnlyTargetGateAndPinsAffinity(t *testing.T) {
	fake := orchestrator.NewFake()
	fake.AddPod(gatedPod("p0"))

	assignment := Assignment{
		Pod:  &podfilter.Record{Name: "p0", Namespace: "ns"},
		Node: &nodefilter.Record{Name: "node-1"},
	}
	err := One(context.Background(), fake, testGate, assignment)
	require.NoError(t, err)

	updated, err := fake.ReadPod(context.Background(), "ns", "p0")
	require.NoError(t, err)

	var remaining []string
	for _, g := range updated.Spec.SchedulingGates {
		remaining = append(remaining, g.Name)
	}
	assert.Equal(t, []string{"other/gate"}, remaining)

	require.NotNil(t, updated.Spec.Affinity)
	require.NotNil(t, updated.Spec.Affinity.NodeAffinity)
	term := updated.Spec.Affinity.NodeAffinity.RequiredDuringSchedulingIgnoredDuringExecution.NodeSelectorTerms[0]
	assert.Equal(t, constants.HostnameLabel, term.MatchExpressions[0].Key)
	assert.Equal(t, []string{"node-1"}, term.MatchExpressions[0].Values)
}

func TestOne_AlreadyCommittedIsNoop(t *testing.T) {
	pod := gatedPod("p0")
	pod.Spec.SchedulingGates = []v1.PodSchedulingGate{{Name: "other/gate"}}
	fake := orchestrator.NewFake()
	fake.AddPod(pod)

	assignment := Assignment{
		Pod:  &podfilter.Record{Name: "p0", Namespace: "ns"},
		Node: &nodefilter.Record{Name: "node-1"},
	}
	err := One(context.Background(), fake, testGate, assignment)
	assert.NoError(t, err)

	updated, _ := fake.ReadPod(context.Background(), "ns", "p0")
	assert.Nil(t, updated.Spec.Affinity)
}

func TestAll_ContinuesPastOneFailure(t *testing.T) {
	fake := orchestrator.NewFake()
	fake.AddPod(gatedPod("p0"))
	// p1 is never registered, so its commit will fail with ErrNotFound.

	assignments := []Assignment{
		{Pod: &podfilter.Record{Name: "p1", Namespace: "ns"}, Node: &nodefilter.Record{Name: "node-1"}},
		{Pod: &podfilter.Record{Name: "p0", Namespace: "ns"}, Node: &nodefilter.Record{Name: "node-2"}},
	}

	err := All(context.Background(), fake, testGate, assignments, zap.NewNop().Sugar())
	assert.Error(t, err)

	updated, readErr := fake.ReadPod(context.Background(), "ns", "p0")
	require.NoError(t, readErr)
	assert.NotNil(t, updated.Spec.Affinity, "p0's commit should have proceeded despite p1's failure")
}
