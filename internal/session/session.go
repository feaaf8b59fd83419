// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package session implements the Handler Session (spec.md §4.5): the
// per (configuration, handler-endpoint) task that owns a single
// discovery stream and feeds every batch it receives to the
// Reconciler.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/akri-project/discovery-operator/internal/common"
	"github.com/akri-project/discovery-operator/internal/connector"
	"github.com/akri-project/discovery-operator/internal/handlermap"
	"github.com/akri-project/discovery-operator/internal/reconciler"
	"github.com/akri-project/discovery-operator/pkg/akriproto"
)

var log = common.ForComponent("session")

// errUnexpectedEnd is returned by drive when the stream ends without
// the stop signal firing (spec.md §4.5.1, the Discover RPC ending on
// its own is always a protocol violation for this core's handlers).
var errUnexpectedEnd = errors.New("unexpected end of discovery stream")

// errProtocolViolation is returned by drive when a handler sends a
// DiscoverResponse with devices == nil, as opposed to an empty but
// non-nil list (spec.md §7, "Invalid handler input").
var errProtocolViolation = errors.New("discover response: devices field is nil")

// Session drives one HandlerEntry's stream for the lifetime of its
// owning Configuration, per spec.md §4.5.
type Session struct {
	Protocol   string
	Entry      *handlermap.HandlerEntry
	Handlers   *handlermap.Map
	Connector  *connector.Connector
	Reconciler *reconciler.Reconciler
	UDSRoot    string
	Backoff    time.Duration
	Grace      time.Duration

	// DiscoveryDetails are the configuration's discovery_details, sent
	// verbatim as part of every Discover request.
	DiscoveryDetails map[string]string
}

// Run executes the loop of spec.md §4.5 until the entry's stop signal
// fires, the handler is deregistered, or drive returns a terminal,
// non-broken-pipe error.
func (s *Session) Run(ctx context.Context) {
	endpoint := s.Entry.Endpoint

	for {
		status, _ := s.Entry.Connectivity()
		if status == handlermap.HasClient {
			return
		}

		stream, err := s.Connector.Open(ctx, s.Protocol, endpoint, s.UDSRoot, s.DiscoveryDetails)
		if err != nil {
			tErr := common.NewTransientError(fmt.Sprintf("connect to handler %s at %s", s.Protocol, endpoint), err)
			log.WithField("error_kind", tErr.Kind()).WithError(tErr).Debug("transient connect failure")
			if s.markOfflineOrDeregister() {
				return
			}
			if !s.sleepOrStop(ctx) {
				return
			}
			continue
		}

		s.Handlers.UpdateStatus(s.Protocol, endpoint, handlermap.HasClient)

		err = s.drive(ctx, stream)
		stream.Close()

		switch {
		case err == nil:
			s.Handlers.UpdateStatus(s.Protocol, endpoint, handlermap.Online)
			return
		case common.IsBrokenPipe(err):
			if s.markOfflineOrDeregister() {
				return
			}
			if !s.sleepOrStop(ctx) {
				return
			}
			continue
		default:
			log.WithError(err).Warnf("handler session for %s at %s ended", s.Protocol, endpoint)
			s.Handlers.UpdateStatus(s.Protocol, endpoint, handlermap.Online)
			return
		}
	}
}

// drive implements spec.md §4.5.1: a single concurrent wait on the
// entry's stop signal and the next stream message.
func (s *Session) drive(ctx context.Context, stream connector.Stream) error {
	type recvResult struct {
		devices []*akriproto.Device
		err     error
	}

	for {
		resultCh := make(chan recvResult, 1)
		go func() {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				err = errUnexpectedEnd
			}
			if err != nil {
				resultCh <- recvResult{err: err}
				return
			}
			if resp == nil {
				resultCh <- recvResult{err: errUnexpectedEnd}
				return
			}
			if resp.Devices == nil {
				resultCh <- recvResult{err: errProtocolViolation}
				return
			}
			resultCh <- recvResult{devices: resp.Devices}
		}()

		select {
		case <-s.Entry.StopSignal.C:
			return nil
		case r := <-resultCh:
			if r.err != nil {
				return r.err
			}
			if err := s.Reconciler.Reconcile(ctx, r.devices, s.Entry.IsLocal); err != nil {
				return err
			}
		}
	}
}

func (s *Session) markOfflineOrDeregister() bool {
	return s.Handlers.MarkOfflineOrDeregister(s.Protocol, s.Entry.Endpoint, s.Grace)
}

func (s *Session) sleepOrStop(ctx context.Context) bool {
	select {
	case <-s.Entry.StopSignal.C:
		return false
	case <-ctx.Done():
		return false
	case <-time.After(s.Backoff):
		return true
	}
}
