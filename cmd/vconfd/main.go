// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Command vconfd is the demo binary tying the value/patch cores to the
// HTTP/1 connection state machine: it serves a JSON configuration tree
// over HTTP, accepting PATCH requests that compile and apply a single
// path-scoped op-chain (spec.md §1 overview). Grounded on
// hexinfra/gorox's cmds/ layout and rawbytedev-fractus/z5labs-bedrock's
// cobra+viper wiring pattern (SPEC_FULL.md "AMBIENT STACK — CLI").
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/hexstack/vconf/internal/arena"
	"github.com/hexstack/vconf/internal/metrics"
	"github.com/hexstack/vconf/internal/value"
	"github.com/hexstack/vconf/internal/vhttp1"
	"github.com/hexstack/vconf/internal/vlog"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "vconfd",
		Short: "Serve a JSON configuration tree over HTTP/1",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), loadServerConfig(v))
		},
	}
	if err := bindFlags(cmd.Flags(), v); err != nil {
		panic(err)
	}
	return cmd
}

func runServe(ctx context.Context, cfg serverConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapCore, err := zap.NewProduction()
	if err != nil {
		return err
	}
	logger := vlog.New(zapCore, 256)
	defer logger.Close()

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := metrics.New(meterProvider.Meter("vconf"))
	if err != nil {
		return err
	}

	pool := arena.DefaultPool
	root, err := loadInitialTree(cfg.DataFile, pool, m)
	if err != nil {
		return err
	}
	store := newConfigStore(pool, root)
	handler := newConfigHandler(store, cfg.UpstreamHealthURL, logger, m)

	httpCfg := vhttp1.DefaultConfig()
	httpCfg.HeaderBufferSize = cfg.HeaderBufferSize
	httpCfg.MaxBodySize = cfg.MaxBodySize
	httpCfg.IdleTimeout = cfg.IdleTimeout

	server := &vhttp1.Server{
		Addrs:   []string{cfg.Addr},
		Gates:   cfg.Gates,
		Config:  httpCfg,
		Handler: handler,
		Logger:  logger,
		Metrics: m,
	}

	logger.Info("vconfd listening", zap.String("addr", cfg.Addr), zap.Int("gates", cfg.Gates))
	return server.Serve(ctx)
}

// loadInitialTree parses cfg.DataFile (or an empty object, if unset)
// into a fresh arena-backed value tree that becomes generation zero of
// the store (spec.md §1 "configuration file loading from disk" external
// collaborator, demonstrated here for real).
func loadInitialTree(path string, pool *arena.Pool, m *metrics.Metrics) (*value.Value, error) {
	a := arena.New(pool)
	if path == "" {
		return value.Parse([]byte("{}"), a)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vconfd: reading %s: %w", path, err)
	}
	v, err := value.Parse(data, a)
	if err != nil {
		if m != nil {
			m.ParseFailures.Add(context.Background(), 1)
		}
		return nil, fmt.Errorf("vconfd: parsing %s: %w", path, err)
	}
	return v, nil
}
