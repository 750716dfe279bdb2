// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hexstack/vconf/internal/arena"
	"github.com/hexstack/vconf/internal/metrics"
	"github.com/hexstack/vconf/internal/patch"
	"github.com/hexstack/vconf/internal/value"
	"github.com/hexstack/vconf/internal/vhttp1"
	"github.com/hexstack/vconf/internal/vlog"
)

var errUpstreamUnhealthy = errors.New("vconfd: upstream reported an error status")

// configStore holds the live, immutable value tree behind a mutex,
// swapping in a freshly cloned root on every successful patch (spec.md
// §4.4). patch.Clone copies the whole tree into the new generation's
// arena, so a swapped-in tree shares no subtrees with its predecessor.
type configStore struct {
	mu   sync.RWMutex
	pool *arena.Pool
	root *value.Value
}

func newConfigStore(pool *arena.Pool, root *value.Value) *configStore {
	return &configStore{pool: pool, root: root}
}

func (s *configStore) Get() *value.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

func (s *configStore) Apply(path string, newValue *value.Value) (patch.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := arena.New(s.pool)
	op, st, err := patch.Compile(s.root, newValue, path, a)
	if err != nil || st != patch.OK {
		return st, err
	}
	next, err := patch.Clone(s.root, op, a)
	if err != nil {
		return patch.Error, err
	}
	s.root = next
	return patch.OK, nil
}

// configHandler implements vhttp1.Handler over the value-tree store,
// plus a circuit-breaker-guarded upstream health probe demonstrating
// sony/gobreaker and hashicorp/go-retryablehttp (SPEC_FULL.md "DOMAIN
// STACK"). Grounded on hexinfra/gorox's hemi/internal/web_*.go handler
// shape: a Serve method dispatching on method+path.
type configHandler struct {
	store     *configStore
	client    *retryablehttp.Client
	breaker   *gobreaker.CircuitBreaker
	healthURL string
	logger    *vlog.Logger
	metrics   *metrics.Metrics
}

func newConfigHandler(store *configStore, healthURL string, logger *vlog.Logger, m *metrics.Metrics) *configHandler {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "upstream-health",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &configHandler{
		store:     store,
		client:    client,
		breaker:   breaker,
		healthURL: healthURL,
		logger:    logger,
		metrics:   m,
	}
}

func (h *configHandler) Serve(req *vhttp1.Request) *vhttp1.Response {
	target, query := splitTarget(req.Target)

	switch {
	case req.Method == "GET" && target == "/config":
		return h.getConfig(query)
	case req.Method == "PATCH" && target == "/config":
		return h.patchConfig(req, query)
	case req.Method == "GET" && target == "/health/upstream":
		return h.probeUpstream()
	default:
		return &vhttp1.Response{StatusCode: 404, HasContentLength: true}
	}
}

func splitTarget(target string) (path string, query url.Values) {
	i := strings.IndexByte(target, '?')
	if i < 0 {
		return target, url.Values{}
	}
	q, err := url.ParseQuery(target[i+1:])
	if err != nil {
		q = url.Values{}
	}
	return target[:i], q
}

func (h *configHandler) getConfig(query url.Values) *vhttp1.Response {
	root := h.store.Get()
	v, ok := value.Get(root, query.Get("path"))
	if !ok {
		return &vhttp1.Response{StatusCode: 404, HasContentLength: true}
	}
	body := v.Print(query.Get("pretty") == "1")
	return &vhttp1.Response{
		StatusCode:       200,
		Fields:           []vhttp1.Field{{Name: "Content-Type", Value: "application/json"}},
		Body:             body,
		HasContentLength: true,
	}
}

func (h *configHandler) patchConfig(req *vhttp1.Request, query url.Values) *vhttp1.Response {
	path := query.Get("path")
	if path == "" {
		return &vhttp1.Response{StatusCode: 400, HasContentLength: true}
	}

	var newValue *value.Value
	if len(req.Body) > 0 {
		scratch := arena.New(h.store.pool)
		v, err := value.Parse(req.Body, scratch)
		if err != nil {
			if h.metrics != nil {
				h.metrics.ParseFailures.Add(context.Background(), 1)
			}
			return &vhttp1.Response{StatusCode: 400, HasContentLength: true}
		}
		newValue = v
	}

	st, err := h.store.Apply(path, newValue)
	switch {
	case err != nil:
		if h.metrics != nil {
			h.metrics.PatchDeclined.Add(context.Background(), 1)
		}
		return &vhttp1.Response{StatusCode: 500, HasContentLength: true}
	case st == patch.Declined:
		if h.metrics != nil {
			h.metrics.PatchDeclined.Add(context.Background(), 1)
		}
		return &vhttp1.Response{StatusCode: 409, HasContentLength: true}
	default:
		if h.metrics != nil {
			h.metrics.PatchApplied.Add(context.Background(), 1)
		}
		return &vhttp1.Response{StatusCode: 204, HasContentLength: true}
	}
}

// probeUpstream demonstrates the circuit-breaker + retrying-client pair
// SPEC_FULL.md wires as an illustrative "outbound dispatch" collaborator
// (spec.md Non-goals exclude real application dispatch logic, but the
// demo binary still needs somewhere to exercise these two deps).
func (h *configHandler) probeUpstream() *vhttp1.Response {
	if h.healthURL == "" {
		return &vhttp1.Response{StatusCode: 404, HasContentLength: true}
	}
	_, err := h.breaker.Execute(func() (interface{}, error) {
		resp, err := h.client.Get(h.healthURL)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return nil, errUpstreamUnhealthy
		}
		return nil, nil
	})
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("upstream health probe failed", zap.Error(err))
		}
		return &vhttp1.Response{StatusCode: 503, HasContentLength: true}
	}
	return &vhttp1.Response{StatusCode: 200, HasContentLength: true}
}
