// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// serverConfig is the demo binary's own admin configuration — listen
// address, gate count, buffer sizing, and the file backing the initial
// value tree served over /config. This is ambient CLI/config plumbing
// (SPEC_FULL.md "AMBIENT STACK — Configuration"), unrelated to the
// value-tree "configuration file loading from disk" spec.md §1 treats
// as an external collaborator: vconfd merely demonstrates that
// collaborator by loading one file at startup.
type serverConfig struct {
	Addr              string
	Gates             int
	DataFile          string
	HeaderBufferSize  int
	MaxBodySize       int64
	IdleTimeout       time.Duration
	UpstreamHealthURL string
}

// bindFlags wires cobra pflags into viper the way z5labs-bedrock's
// cmd/*/main.go binds its runtime flags, so a value can come from a
// flag or an environment variable (VCONFD_*) uniformly. No config file
// is read.
func bindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	flags.String("addr", ":8080", "listen address")
	flags.Int("gates", 1, "accept goroutines per listen address")
	flags.String("data", "", "path to the initial JSON configuration tree")
	flags.Int("header-buffer-size", 8<<10, "initial header buffer size in bytes")
	flags.Int64("max-body-size", 16<<20, "maximum accepted request/response body size")
	flags.Duration("idle-timeout", 75*time.Second, "connection idle timeout")
	flags.String("upstream-health-url", "", "URL polled by the circuit-breaker-guarded health check")

	v.SetEnvPrefix("VCONFD")
	v.AutomaticEnv()
	return v.BindPFlags(flags)
}

func loadServerConfig(v *viper.Viper) serverConfig {
	return serverConfig{
		Addr:              v.GetString("addr"),
		Gates:             v.GetInt("gates"),
		DataFile:          v.GetString("data"),
		HeaderBufferSize:  v.GetInt("header-buffer-size"),
		MaxBodySize:       v.GetInt64("max-body-size"),
		IdleTimeout:       v.GetDuration("idle-timeout"),
		UpstreamHealthURL: v.GetString("upstream-health-url"),
	}
}
