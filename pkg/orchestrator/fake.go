// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"sync"

	v1 "k8s.io/api/core/v1"
)

// Fake is a hand-written, in-memory Client used by the control-loop
// scenario tests (S1–S6). It keeps pods in a plain map and nodes/namespaces
// in plain slices, and never exercises real client-go, mirroring the narrow-interface-
// plus-fake pattern the teacher uses for its own cache abstractions.
type Fake struct {
	mu         sync.Mutex
	Namespaces []string
	Nodes      []*v1.Node
	Pods       map[string]*v1.Pod // keyed by namespace/name

	// ConflictOnce, if set, makes the next ReplacePod for this pod key
	// fail with ErrConflict exactly once, then succeed.
	ConflictOnce map[string]bool

	// ReplaceLog records the name of every pod successfully replaced, in
	// call order, so tests can assert on commit ordering.
	ReplaceLog []string
}

// NewFake builds an empty Fake.
func NewFake() *Fake {
	return &Fake{
		Pods:         make(map[string]*v1.Pod),
		ConflictOnce: make(map[string]bool),
	}
}

// AddPod registers a pod the fake will serve.
func (f *Fake) AddPod(pod *v1.Pod) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Pods[key(pod.Namespace, pod.Name)] = pod
}

func key(namespace, name string) string {
	return namespace + "/" + name
}

func (f *Fake) ListNamespaces(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Namespaces...), nil
}

func (f *Fake) ListPods(_ context.Context, namespace string) ([]*v1.Pod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*v1.Pod
	for _, pod := range f.Pods {
		if pod.Namespace == namespace {
			out = append(out, pod.DeepCopy())
		}
	}
	return out, nil
}

func (f *Fake) ListNodes(_ context.Context) ([]*v1.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*v1.Node, len(f.Nodes))
	for i, n := range f.Nodes {
		out[i] = n.DeepCopy()
	}
	return out, nil
}

func (f *Fake) ReadPod(_ context.Context, namespace, name string) (*v1.Pod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pod, ok := f.Pods[key(namespace, name)]
	if !ok {
		return nil, ErrNotFound
	}
	return pod.DeepCopy(), nil
}

func (f *Fake) ReplacePod(_ context.Context, pod *v1.Pod) (*v1.Pod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(pod.Namespace, pod.Name)
	if _, ok := f.Pods[k]; !ok {
		return nil, ErrNotFound
	}
	if f.ConflictOnce[k] {
		f.ConflictOnce[k] = false
		return nil, ErrConflict
	}
	f.Pods[k] = pod.DeepCopy()
	f.ReplaceLog = append(f.ReplaceLog, pod.Name)
	return pod.DeepCopy(), nil
}
