// Copyright (c) 2026 The vconf Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package vhttp1

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/hexstack/vconf/internal/metrics"
	"github.com/hexstack/vconf/internal/vlog"
)

// Server owns one or more listening gates and fans accepted connections
// out to Conn.run goroutines. Grounded on hexinfra/gorox's
// hemi/internal/server_http1.go gate-per-CPU accept-loop design,
// generalized here with golang.org/x/sync/errgroup for gate lifecycle
// management the way z5labs-bedrock's runtime supervises its listeners.
type Server struct {
	Addrs   []string
	Gates   int
	Config  Config
	Handler Handler
	Logger  *vlog.Logger
	Metrics *metrics.Metrics
}

// Serve listens on every configured address and blocks until ctx is
// canceled or a gate reports an unrecoverable error.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, addr := range s.Addrs {
		addr := addr
		gates := s.Gates
		if gates <= 0 {
			gates = 1
		}
		for i := 0; i < gates; i++ {
			g.Go(func() error { return s.serveGate(ctx, addr) })
		}
	}
	return g.Wait()
}

// serveGate runs one SO_REUSEPORT listener, matching gorox's model of
// several gates sharing a single address for kernel-level load spread.
func (s *Server) serveGate(ctx context.Context, addr string) error {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		nc, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		if tc, ok := nc.(*net.TCPConn); ok {
			if raw, err := tc.SyscallConn(); err == nil {
				_ = raw.Control(func(fd uintptr) {
					_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
				})
			}
		}
		conn := newConn(nc, s.Config, s.Handler, s.Logger, s.Metrics)
		go conn.run(ctx)
	}
}
