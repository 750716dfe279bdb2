// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexstack/vconf/internal/arena"
	"github.com/hexstack/vconf/internal/patch"
	"github.com/hexstack/vconf/internal/value"
	"github.com/hexstack/vconf/internal/vhttp1"
)

func newStoreWithTree(t *testing.T, src string) *configStore {
	t.Helper()
	a := arena.New(arena.DefaultPool)
	root, err := value.Parse([]byte(src), a)
	require.NoError(t, err)
	return newConfigStore(arena.DefaultPool, root)
}

func TestConfigStoreApplyDoesNotMutateSupersededGeneration(t *testing.T) {
	store := newStoreWithTree(t, `{"a":1}`)
	before := store.Get()

	nv := value.IntValue(2)
	st, err := store.Apply("/b", &nv)
	require.NoError(t, err)
	assert.Equal(t, patch.OK, st)

	after := store.Get()
	assert.Equal(t, 1, before.Len(), "the generation captured before Apply must be untouched")
	assert.Equal(t, 2, after.Len())
}

func TestConfigStoreApplyDeclinedOnMissingIntermediate(t *testing.T) {
	store := newStoreWithTree(t, `{"a":1}`)
	nv := value.IntValue(1)
	st, err := store.Apply("/missing/child", &nv)
	require.NoError(t, err)
	assert.Equal(t, patch.Declined, st)
}

func TestSplitTargetWithAndWithoutQuery(t *testing.T) {
	path, query := splitTarget("/config")
	assert.Equal(t, "/config", path)
	assert.Empty(t, query)

	path, query = splitTarget("/config?path=/a/b&pretty=1")
	assert.Equal(t, "/config", path)
	assert.Equal(t, "/a/b", query.Get("path"))
	assert.Equal(t, "1", query.Get("pretty"))
}

func TestConfigHandlerServeGetConfig(t *testing.T) {
	store := newStoreWithTree(t, `{"a":1,"b":{"c":true}}`)
	h := newConfigHandler(store, "", nil, nil)

	resp := h.Serve(&vhttp1.Request{Method: "GET", Target: "/config"})
	require.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"a":1,"b":{"c":true}}`, string(resp.Body))

	resp = h.Serve(&vhttp1.Request{Method: "GET", Target: "/config?path=/b/c"})
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "true", string(resp.Body))

	resp = h.Serve(&vhttp1.Request{Method: "GET", Target: "/config?path=/missing"})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestConfigHandlerServePatchConfig(t *testing.T) {
	store := newStoreWithTree(t, `{"a":1}`)
	h := newConfigHandler(store, "", nil, nil)

	resp := h.Serve(&vhttp1.Request{
		Method: "PATCH",
		Target: "/config?path=/b",
		Body:   []byte("2"),
	})
	require.Equal(t, 204, resp.StatusCode)

	got, ok := value.Get(store.Get(), "/b")
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Int())
}

func TestConfigHandlerServePatchMissingPathIsBadRequest(t *testing.T) {
	store := newStoreWithTree(t, `{"a":1}`)
	h := newConfigHandler(store, "", nil, nil)
	resp := h.Serve(&vhttp1.Request{Method: "PATCH", Target: "/config", Body: []byte("1")})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestConfigHandlerServeUnknownRouteIs404(t *testing.T) {
	store := newStoreWithTree(t, `{}`)
	h := newConfigHandler(store, "", nil, nil)
	resp := h.Serve(&vhttp1.Request{Method: "DELETE", Target: "/config"})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestConfigHandlerProbeUpstreamHealthy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	store := newStoreWithTree(t, `{}`)
	h := newConfigHandler(store, upstream.URL, nil, nil)
	resp := h.Serve(&vhttp1.Request{Method: "GET", Target: "/health/upstream"})
	assert.Equal(t, 200, resp.StatusCode)
}

func TestConfigHandlerProbeUpstreamUnhealthy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	store := newStoreWithTree(t, `{}`)
	h := newConfigHandler(store, upstream.URL, nil, nil)
	h.client.RetryMax = 0 // don't retry the deliberate 500s in this test
	resp := h.Serve(&vhttp1.Request{Method: "GET", Target: "/health/upstream"})
	assert.Equal(t, 503, resp.StatusCode)
}

func TestConfigHandlerProbeUpstreamUnconfiguredIs404(t *testing.T) {
	store := newStoreWithTree(t, `{}`)
	h := newConfigHandler(store, "", nil, nil)
	resp := h.Serve(&vhttp1.Request{Method: "GET", Target: "/health/upstream"})
	assert.Equal(t, 404, resp.StatusCode)
}
