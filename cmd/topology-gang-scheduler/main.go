// Copyright 2025 NVIDIA CORPORATION
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gpu-topology/scheduler/pkg/controlloop"
	"github.com/gpu-topology/scheduler/pkg/metrics"
	"github.com/gpu-topology/scheduler/pkg/orchestrator"
)

const shutdownTimeout = 5 * time.Second

func main() {
	options := InitOptions()
	pflag.Parse()

	log, err := buildLogger(options.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	sugar := log.Sugar()

	kubeClient, err := NewKubeClient(options.Kubeconfig)
	if err != nil {
		sugar.Fatalw("failed to build kube client", "error", err)
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	client := orchestrator.NewClientsetAdapter(kubeClient)
	loop := controlloop.New(client, controlloop.Config{
		GatePrefix:        options.GatePrefix,
		Interval:          options.Interval(),
		IgnoredNamespaces: options.IgnoredNamespaceSet(),
	}, sugar, recorder)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go serveHTTP(ctx, sugar, options.MetricsAddr, registry)

	sugar.Infow("starting topology gang scheduler",
		"gate_prefix", options.GatePrefix,
		"interval", options.Interval(),
		"ignored_namespaces", options.IgnoredNamespaces)

	if err := loop.Run(ctx); err != nil {
		sugar.Fatalw("control loop exited with error", "error", err)
	}
	sugar.Info("shutting down")
}

func buildLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.Set(level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func serveHTTP(ctx context.Context, log *zap.SugaredLogger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Infow("serving metrics and health endpoints", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorw("metrics server exited with error", "error", err)
	}
}
