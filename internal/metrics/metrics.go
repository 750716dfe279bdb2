// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package metrics wires OpenTelemetry counters/histograms across the
// value and HTTP/1 cores (SPEC_FULL.md "DOMAIN STACK — Metrics"),
// grounded on freekieb7-gravel's and z5labs-bedrock's
// go.opentelemetry.io/otel* stack. This is purely observational — it
// never affects control flow.
package metrics

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics bundles every instrument the two cores emit into.
type Metrics struct {
	ParseFailures     metric.Int64Counter
	PatchApplied      metric.Int64Counter
	PatchDeclined     metric.Int64Counter
	ConnectionsOpened metric.Int64Counter
	RequestsServed    metric.Int64Counter
	ChunkedResponses  metric.Int64Counter
	BodyBytesRead     metric.Int64Histogram
}

// New builds a Metrics bundle from meter, naming instruments after the
// spec.md components they observe.
func New(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	if m.ParseFailures, err = meter.Int64Counter("vconf.value.parse_failures",
		metric.WithDescription("JSON parse failures (spec.md §4.1 failure modes)")); err != nil {
		return nil, err
	}
	if m.PatchApplied, err = meter.Int64Counter("vconf.patch.applied",
		metric.WithDescription("patch op-chains compiled with status OK")); err != nil {
		return nil, err
	}
	if m.PatchDeclined, err = meter.Int64Counter("vconf.patch.declined",
		metric.WithDescription("patch requests not applied: status DECLINED, or a compile/clone error")); err != nil {
		return nil, err
	}
	if m.ConnectionsOpened, err = meter.Int64Counter("vconf.http1.connections_opened"); err != nil {
		return nil, err
	}
	if m.RequestsServed, err = meter.Int64Counter("vconf.http1.requests_served"); err != nil {
		return nil, err
	}
	if m.ChunkedResponses, err = meter.Int64Counter("vconf.http1.chunked_responses"); err != nil {
		return nil, err
	}
	if m.BodyBytesRead, err = meter.Int64Histogram("vconf.http1.body_bytes_read"); err != nil {
		return nil, err
	}
	return &m, nil
}

// Noop returns a Metrics bundle backed by the OTel no-op meter, for
// callers (tests, or a binary run without an exporter configured) that
// don't want to wire a real MeterProvider.
func Noop() *Metrics {
	m, _ := New(noop.NewMeterProvider().Meter("vconf"))
	return m
}
