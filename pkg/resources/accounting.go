// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package resources sums CPU/memory/GPU requests of live containers and
// computes free node capacity from the cluster's reported allocatable.
//
// Quantity parsing follows the teacher's own resource_info package: values
// come out of k8s.io/apimachinery/pkg/api/resource.Quantity, never a
// hand-rolled SI/binary-suffix parser, so milliCPU and byte comparisons
// never lose precision to rounding.
package resources

import (
	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/gpu-topology/scheduler/pkg/constants"
)

// Usage is a CPU/memory/GPU triple. CPU and Memory are kept as
// apimachinery Quantities so comparisons stay exact; GPU is a plain
// integer count, matching spec.md's "GPU is an integer" contract.
type Usage struct {
	CPU    resource.Quantity
	Memory resource.Quantity
	GPU    int64
}

// Add accumulates other into u in place.
func (u *Usage) Add(other Usage) {
	u.CPU.Add(other.CPU)
	u.Memory.Add(other.Memory)
	u.GPU += other.GPU
}

// Sub subtracts other from u in place.
func (u *Usage) Sub(other Usage) {
	u.CPU.Sub(other.CPU)
	u.Memory.Sub(other.Memory)
	u.GPU -= other.GPU
}

// LessEqual reports whether u's every dimension is <= other's — the
// feasibility check used by the assignment search (node.free >=
// pod.request, §4.6).
func (u Usage) LessEqual(other Usage) bool {
	if u.CPU.Cmp(other.CPU) > 0 {
		return false
	}
	if u.Memory.Cmp(other.Memory) > 0 {
		return false
	}
	return u.GPU <= other.GPU
}

// ContainerIsLive reports whether status indicates the container is not
// terminated. A container with no matching status (not yet reported) is
// treated as live, since its resources are still reserved on the node.
func ContainerIsLive(status *v1.ContainerStatus) bool {
	if status == nil {
		return true
	}
	return status.State.Terminated == nil
}

// PodRequests sums the CPU/memory/GPU requests of pod's non-terminated
// containers. Containers whose matching status reports Terminated are
// excluded; missing request fields default to zero.
func PodRequests(pod *v1.Pod) Usage {
	statuses := make(map[string]*v1.ContainerStatus, len(pod.Status.ContainerStatuses))
	for i := range pod.Status.ContainerStatuses {
		cs := &pod.Status.ContainerStatuses[i]
		statuses[cs.Name] = cs
	}

	total := Usage{}
	for _, c := range pod.Spec.Containers {
		if !ContainerIsLive(statuses[c.Name]) {
			continue
		}
		requests := c.Resources.Requests
		if requests == nil {
			continue
		}
		if q, ok := requests[v1.ResourceCPU]; ok {
			total.CPU.Add(q)
		}
		if q, ok := requests[v1.ResourceMemory]; ok {
			total.Memory.Add(q)
		}
		if q, ok := requests[v1.ResourceName(constants.GPUResourceName)]; ok {
			total.GPU += q.Value()
		}
	}
	return total
}

// NodeAllocatable reads the node's reported allocatable CPU/memory/GPU.
func NodeAllocatable(node *v1.Node) Usage {
	total := Usage{}
	if q, ok := node.Status.Allocatable[v1.ResourceCPU]; ok {
		total.CPU = q.DeepCopy()
	}
	if q, ok := node.Status.Allocatable[v1.ResourceMemory]; ok {
		total.Memory = q.DeepCopy()
	}
	if q, ok := node.Status.Allocatable[v1.ResourceName(constants.GPUResourceName)]; ok {
		total.GPU = q.Value()
	}
	return total
}

// FreeCapacity returns node's allocatable minus the summed requests of
// every pod in pods that is bound to it (pod.Spec.NodeName == node's
// name). Each bound pod is subtracted once, as PodRequests: the requests of
// its non-terminated containers only, so a pod whose containers have all
// terminated subtracts nothing.
func FreeCapacity(node *v1.Node, pods []*v1.Pod) Usage {
	free := NodeAllocatable(node)
	for _, pod := range pods {
		if pod.Spec.NodeName != node.Name {
			continue
		}
		free.Sub(PodRequests(pod))
	}
	return free
}
