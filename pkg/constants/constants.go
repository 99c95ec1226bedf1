// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package constants holds the label, annotation and gate names this
// scheduler agrees on with the rest of the cluster.
package constants

const (
	// Topology labels. A node missing any one of these is not
	// topology-labeled and is excluded from placement consideration.
	PlacementGroupLabel = "cloud.google.com/gke-placement-group"
	ClusterLabel        = "topology.gke.io/cluster"
	RackLabel           = "topology.gke.io/rack"
	HostLabel           = "topology.gke.io/host"

	// HostnameLabel is the label the committer pins on the pod's node
	// affinity to bind it to exactly one node.
	HostnameLabel = "kubernetes.io/hostname"

	JobNameLabel            = "job-name"
	JobCompletionIndexLabel = "batch.kubernetes.io/job-completion-index"

	// DefaultGatePrefix is the default value of --gate.
	DefaultGatePrefix = "gke.io/topology-aware-auto-"

	GPUResourceName = "nvidia.com/gpu"
)
