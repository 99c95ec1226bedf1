// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package commit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/gpu-topology/scheduler/pkg/constants"
	"github.com/gpu-topology/scheduler/pkg/nodefilter"
	"github.com/gpu-topology/scheduler/pkg/orchestrator"
	"github.com/gpu-topology/scheduler/pkg/podfilter"
)

// TestOne_ReadThenReplaceArguments exercises the interaction (not just the
// end state) between One and the Client: the re-read pod, with its gate
// stripped and affinity pinned, must be exactly what gets passed to
// ReplacePod. This is the kind of argument-shape assertion a hand-rolled
// Fake can't express as directly as a recorded mock expectation.
func TestOne_ReadThenReplaceArguments(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := orchestrator.NewMockClient(ctrl)

	existing := &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "p0", Namespace: "ns"},
		Spec: v1.PodSpec{
			SchedulingGates: []v1.PodSchedulingGate{{Name: testGate}},
		},
	}

	client.EXPECT().ReadPod(gomock.Any(), "ns", "p0").Return(existing, nil)
	client.EXPECT().ReplacePod(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, pod *v1.Pod) (*v1.Pod, error) {
			assert.Empty(t, pod.Spec.SchedulingGates, "gate must be stripped before replace")
			require.NotNil(t, pod.Spec.Affinity)
			require.NotNil(t, pod.Spec.Affinity.NodeAffinity)
			term := pod.Spec.Affinity.NodeAffinity.RequiredDuringSchedulingIgnoredDuringExecution.NodeSelectorTerms[0]
			assert.Equal(t, constants.HostnameLabel, term.MatchExpressions[0].Key)
			assert.Equal(t, []string{"node-1"}, term.MatchExpressions[0].Values)
			return pod, nil
		})

	assignment := Assignment{
		Pod:  &podfilter.Record{Name: "p0", Namespace: "ns"},
		Node: &nodefilter.Record{Name: "node-1"},
	}
	err := One(context.Background(), client, testGate, assignment)
	require.NoError(t, err)
}

// TestOne_ReplaceFailureIsPropagated verifies a ReplacePod error surfaces
// to the caller unchanged in kind, so All can tell it apart from a no-op.
func TestOne_ReplaceFailureIsPropagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := orchestrator.NewMockClient(ctrl)

	existing := &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "p0", Namespace: "ns"},
		Spec:       v1.PodSpec{SchedulingGates: []v1.PodSchedulingGate{{Name: testGate}}},
	}
	client.EXPECT().ReadPod(gomock.Any(), "ns", "p0").Return(existing, nil)
	client.EXPECT().ReplacePod(gomock.Any(), gomock.Any()).Return(nil, orchestrator.ErrConflict)

	assignment := Assignment{
		Pod:  &podfilter.Record{Name: "p0", Namespace: "ns"},
		Node: &nodefilter.Record{Name: "node-1"},
	}
	err := One(context.Background(), client, testGate, assignment)
	assert.ErrorIs(t, err, orchestrator.ErrConflict)
}
