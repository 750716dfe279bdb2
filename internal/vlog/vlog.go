// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package vlog is the structured logging ambient concern (SPEC_FULL.md
// "AMBIENT STACK — Logging"). It wraps go.uber.org/zap but keeps the
// shape of hexinfra/gorox's hemi/internal/common.go logger type: a
// buffered channel drained by a single goroutine, so a slow sink never
// blocks the connection goroutine that's logging a request.
package vlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger owns one background drain goroutine writing to a zap core.
// Grounded on gorox's logger.saver()/logger.queue.
type Logger struct {
	core  *zap.Logger
	queue chan entry
	done  chan struct{}
}

type entry struct {
	level  zapcore.Level
	msg    string
	fields []zap.Field
}

// New starts a Logger writing through base (typically zap.NewProduction()
// or a test observer core). bufSize bounds the async queue (256 when
// bufSize <= 0); once it is full, further entries are dropped and the
// caller never blocks.
func New(base *zap.Logger, bufSize int) *Logger {
	if bufSize <= 0 {
		bufSize = 256
	}
	l := &Logger{
		core:  base,
		queue: make(chan entry, bufSize),
		done:  make(chan struct{}),
	}
	go l.drain()
	return l
}

func (l *Logger) drain() {
	defer close(l.done)
	for e := range l.queue {
		if ce := l.core.Check(e.level, e.msg); ce != nil {
			ce.Write(e.fields...)
		}
	}
}

func (l *Logger) log(level zapcore.Level, msg string, fields ...zap.Field) {
	select {
	case l.queue <- entry{level: level, msg: msg, fields: fields}:
	default:
		// Queue saturated: drop rather than stall the connection
		// goroutine, matching the spirit of gorox's logger.clear()
		// path which favors forward progress over durability.
	}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.log(zapcore.DebugLevel, msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.log(zapcore.InfoLevel, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.log(zapcore.WarnLevel, msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.log(zapcore.ErrorLevel, msg, fields...) }

// Close drains remaining entries and waits for the background goroutine
// to exit (gorox's logger.Close()/saver() "over" path).
func (l *Logger) Close() {
	close(l.queue)
	<-l.done
	_ = l.core.Sync()
}
