// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

// Package orchestrator is the thin adapter over the cluster orchestrator's
// API that the scheduling core consumes (spec.md §6). Everything else in
// this repository depends only on the Client interface, never on
// client-go directly, so the core can be driven by a fake in tests.
package orchestrator

import (
	"context"
	"fmt"

	v1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Client is the set of orchestrator operations the scheduling core
// requires, matching spec.md §6 exactly: namespace/pod/node listing, a
// single-pod read, and a pod replace that distinguishes conflicts from
// other failures.
type Client interface {
	ListNamespaces(ctx context.Context) ([]string, error)
	ListPods(ctx context.Context, namespace string) ([]*v1.Pod, error)
	ListNodes(ctx context.Context) ([]*v1.Node, error)
	ReadPod(ctx context.Context, namespace, name string) (*v1.Pod, error)
	ReplacePod(ctx context.Context, pod *v1.Pod) (*v1.Pod, error)
}

// ErrConflict is returned by ReplacePod when the orchestrator rejects the
// write because the pod was concurrently modified since ReadPod.
var ErrConflict = fmt.Errorf("orchestrator: conflicting pod update")

// ErrNotFound is returned by ReadPod/ReplacePod when the pod no longer
// exists.
var ErrNotFound = fmt.Errorf("orchestrator: pod not found")

// clientsetAdapter implements Client directly over a client-go Clientset,
// the way cmd/gpu-tetris drives the API without a controller-runtime
// manager — this daemon has no reconciler, so a plain clientset is all it
// needs.
type clientsetAdapter struct {
	kube kubernetes.Interface
}

// NewClientsetAdapter wraps a client-go Clientset as a Client.
func NewClientsetAdapter(kube kubernetes.Interface) Client {
	return &clientsetAdapter{kube: kube}
}

func (c *clientsetAdapter) ListNamespaces(ctx context.Context) ([]string, error) {
	list, err := c.kube.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	return names, nil
}

func (c *clientsetAdapter) ListPods(ctx context.Context, namespace string) ([]*v1.Pod, error) {
	list, err := c.kube.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list pods in %q: %w", namespace, err)
	}
	pods := make([]*v1.Pod, 0, len(list.Items))
	for i := range list.Items {
		pods = append(pods, &list.Items[i])
	}
	return pods, nil
}

func (c *clientsetAdapter) ListNodes(ctx context.Context) ([]*v1.Node, error) {
	list, err := c.kube.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	nodes := make([]*v1.Node, 0, len(list.Items))
	for i := range list.Items {
		nodes = append(nodes, &list.Items[i])
	}
	return nodes, nil
}

func (c *clientsetAdapter) ReadPod(ctx context.Context, namespace, name string) (*v1.Pod, error) {
	pod, err := c.kube.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read pod %s/%s: %w", namespace, name, err)
	}
	return pod, nil
}

func (c *clientsetAdapter) ReplacePod(ctx context.Context, pod *v1.Pod) (*v1.Pod, error) {
	updated, err := c.kube.CoreV1().Pods(pod.Namespace).Update(ctx, pod, metav1.UpdateOptions{})
	if apierrors.IsConflict(err) {
		return nil, ErrConflict
	}
	if apierrors.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("replace pod %s/%s: %w", pod.Namespace, pod.Name, err)
	}
	return updated, nil
}
