// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/gpu-topology/scheduler/pkg/constants"
)

// Options is the daemon's command-line configuration, following the
// cmd/binder InitOptions pattern: a flat struct populated by a single
// CommandLine flag set.
type Options struct {
	GatePrefix        string
	IntervalSeconds   float64
	IgnoredNamespaces []string

	LogLevel   string
	MetricsAddr string
	Kubeconfig string
}

// InitOptions registers flags against pflag.CommandLine and returns the
// struct they populate once Parse is called.
func InitOptions() *Options {
	options := &Options{}

	fs := pflag.CommandLine

	fs.StringVarP(&options.GatePrefix,
		"gate", "g", constants.DefaultGatePrefix,
		"Scheduling gate name prefix this daemon resolves")
	fs.Float64VarP(&options.IntervalSeconds,
		"interval", "i", 1.0,
		"Control loop tick interval, in seconds")
	fs.StringSliceVar(&options.IgnoredNamespaces,
		"ignored-namespace", nil,
		"Namespace to exclude from pod listing (may be repeated)")
	fs.StringVar(&options.LogLevel,
		"log-level", "info",
		"Log level: debug, info, warn, or error")
	fs.StringVar(&options.MetricsAddr,
		"metrics-addr", ":8080",
		"Address the /metrics and /healthz HTTP endpoints bind to")
	fs.StringVar(&options.Kubeconfig,
		"kubeconfig", "",
		"Path to kubeconfig (optional; defaults to in-cluster config or standard kubeconfig resolution)")

	return options
}

// Interval converts IntervalSeconds into a time.Duration.
func (o *Options) Interval() time.Duration {
	return time.Duration(o.IntervalSeconds * float64(time.Second))
}

// IgnoredNamespaceSet returns IgnoredNamespaces as a lookup set.
func (o *Options) IgnoredNamespaceSet() map[string]struct{} {
	out := make(map[string]struct{}, len(o.IgnoredNamespaces))
	for _, ns := range o.IgnoredNamespaces {
		out[ns] = struct{}{}
	}
	return out
}
