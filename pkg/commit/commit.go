// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package commit writes the assignment decision back onto a pod: it
// removes the scheduling gate and pins a node affinity so the default
// scheduler has exactly one valid placement left (spec.md §4.7).
package commit

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	v1 "k8s.io/api/core/v1"

	"github.com/gpu-topology/scheduler/pkg/constants"
	"github.com/gpu-topology/scheduler/pkg/nodefilter"
	"github.com/gpu-topology/scheduler/pkg/orchestrator"
	"github.com/gpu-topology/scheduler/pkg/podfilter"
)

// Assignment pairs a schedulable pod with the node it was assigned to.
type Assignment struct {
	Pod  *podfilter.Record
	Node *nodefilter.Record
}

// One re-reads the pod, removes gate if still present, pins its node
// affinity to node.Name, and writes it back. A conflict, not-found, or
// other transport error is returned to the caller to log and skip — the
// pod's gate is untouched, so it is reconsidered on the next tick.
func One(ctx context.Context, client orchestrator.Client, gate string, assignment Assignment) error {
	pod, err := client.ReadPod(ctx, assignment.Pod.Namespace, assignment.Pod.Name)
	if err != nil {
		return fmt.Errorf("re-read pod before commit: %w", err)
	}

	gateIndex := -1
	for i, g := range pod.Spec.SchedulingGates {
		if g.Name == gate {
			gateIndex = i
			break
		}
	}
	if gateIndex == -1 {
		// Already committed (or gated by something else since); nothing
		// to do this tick.
		return nil
	}

	newGates := make([]v1.PodSchedulingGate, 0, len(pod.Spec.SchedulingGates)-1)
	for i, g := range pod.Spec.SchedulingGates {
		if i != gateIndex {
			newGates = append(newGates, g)
		}
	}
	pod.Spec.SchedulingGates = newGates
	pod.Spec.Affinity = hostnameAffinity(assignment.Node.Name)

	if _, err := client.ReplacePod(ctx, pod); err != nil {
		return fmt.Errorf("replace pod: %w", err)
	}
	return nil
}

// hostnameAffinity builds a requiredDuringSchedulingIgnoredDuringExecution
// node affinity matching exactly one node by its kubernetes.io/hostname
// label, giving the default scheduler exactly one valid target.
func hostnameAffinity(nodeName string) *v1.Affinity {
	return &v1.Affinity{
		NodeAffinity: &v1.NodeAffinity{
			RequiredDuringSchedulingIgnoredDuringExecution: &v1.NodeSelector{
				NodeSelectorTerms: []v1.NodeSelectorTerm{{
					MatchExpressions: []v1.NodeSelectorRequirement{{
						Key:      constants.HostnameLabel,
						Operator: v1.NodeSelectorOpIn,
						Values:   []string{nodeName},
					}},
				}},
			},
		},
	}
}

// All commits every assignment, continuing past individual failures so
// one pod's conflict doesn't block its job-mates, and logging each via
// log. Failures are aggregated with multierr so the caller gets one
// combined error describing every pod that needs retrying next tick.
func All(ctx context.Context, client orchestrator.Client, gate string, assignments []Assignment, log *zap.SugaredLogger) error {
	var errs error
	for _, a := range assignments {
		if err := One(ctx, client, gate, a); err != nil {
			log.Warnw("failed to commit pod assignment, will retry next tick",
				"namespace", a.Pod.Namespace, "pod", a.Pod.Name, "node", a.Node.Name, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("%s/%s: %w", a.Pod.Namespace, a.Pod.Name, err))
			continue
		}
		log.Infow("committed pod assignment",
			"namespace", a.Pod.Namespace, "pod", a.Pod.Name, "node", a.Node.Name)
	}
	return errs
}
