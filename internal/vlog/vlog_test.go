// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package vlog

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(bufSize int) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core), bufSize), logs
}

func waitForCount(t *testing.T, logs *observer.ObservedLogs, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if logs.Len() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("observed %d log entries, want at least %d", logs.Len(), want)
}

func TestLoggerDrainsAsynchronously(t *testing.T) {
	l, logs := newObserved(4)
	l.Info("hello", zap.String("k", "v"))
	waitForCount(t, logs, 1)
	entry := logs.All()[0]
	if entry.Message != "hello" || entry.ContextMap()["k"] != "v" {
		t.Errorf("entry = %+v", entry)
	}
	l.Close()
}

func TestLoggerLevels(t *testing.T) {
	l, logs := newObserved(8)
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
	waitForCount(t, logs, 4)
	l.Close()

	var levels []zapcore.Level
	for _, e := range logs.All() {
		levels = append(levels, e.Level)
	}
	want := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, lvl := range want {
		if levels[i] != lvl {
			t.Errorf("levels[%d] = %v, want %v", i, levels[i], lvl)
		}
	}
}

func TestLoggerDropsOnFullQueueWithoutBlocking(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	l := &Logger{core: zap.New(core), queue: make(chan entry, 1), done: make(chan struct{})}
	// No drain goroutine running: queue fills after one send, further
	// sends must not block the caller.
	l.log(zapcore.InfoLevel, "first")
	done := make(chan struct{})
	go func() {
		l.log(zapcore.InfoLevel, "second") // would block forever on a full unbuffered send
		l.log(zapcore.InfoLevel, "third")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("log() blocked on a saturated queue instead of dropping")
	}
}

func TestLoggerCloseWaitsForDrain(t *testing.T) {
	l, logs := newObserved(16)
	for i := 0; i < 5; i++ {
		l.Info("msg")
	}
	l.Close()
	if logs.Len() != 5 {
		t.Errorf("logs.Len() = %d, want 5 after Close", logs.Len())
	}
}
