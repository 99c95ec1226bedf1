// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// BuildRestConfig resolves a rest.Config the same way cmd/gpu-tetris does:
// an explicit kubeconfig wins, then in-cluster config, then the standard
// kubeconfig loading rules.
func BuildRestConfig(kubeconfigPath string) (*rest.Config, error) {
	if kubeconfigPath != "" {
		cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
		if err != nil {
			return nil, fmt.Errorf("build config from kubeconfig %q: %w", kubeconfigPath, err)
		}
		return cfg, nil
	}

	if cfg, err := rest.InClusterConfig(); err == nil {
		return cfg, nil
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{})
	cfg, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("load kube client config: %w", err)
	}
	return cfg, nil
}

// NewKubeClient builds a client-go Clientset from the resolved rest.Config.
func NewKubeClient(kubeconfigPath string) (kubernetes.Interface, error) {
	cfg, err := BuildRestConfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}
	return kubernetes.NewForConfig(cfg)
}
