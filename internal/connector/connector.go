// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package connector implements the Stream Connector (spec.md §4.4):
// it classifies a handler endpoint (embedded / UDS / network) and
// hands back a uniform Stream of DiscoverResponse messages.
package connector

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/akri-project/discovery-operator/internal/embedded"
	"github.com/akri-project/discovery-operator/pkg/akriproto"
)

// Stream is the uniform discovery stream a Handler Session drives,
// regardless of which of the three endpoint kinds produced it.
type Stream interface {
	// Recv blocks for the next DiscoverResponse. io.EOF means the
	// stream ended cleanly; any other error is a transport error that
	// may carry the broken-pipe marker (spec.md §4.4, §7).
	Recv() (*akriproto.DiscoverResponse, error)
	Close() error
}

// Connector opens Streams against the three endpoint kinds named in
// spec.md §4.4.
type Connector struct {
	Embedded *embedded.Registry
}

// New returns a Connector backed by registry for embedded lookups.
func New(registry *embedded.Registry) *Connector {
	return &Connector{Embedded: registry}
}

// Open classifies endpoint and connects. A connect failure is reported
// as a non-nil error but must be treated by the caller exactly like an
// absent stream (spec.md §4.4) — it is never a fatal condition.
func (c *Connector) Open(ctx context.Context, protocol, endpoint, udsRoot string, discoveryDetails map[string]string) (Stream, error) {
	switch {
	case endpoint == EmbeddedEndpoint && c.Embedded != nil && c.Embedded.Recognizes(protocol, discoveryDetails):
		return c.openEmbedded(ctx, protocol, discoveryDetails)
	case udsRoot != "" && strings.HasPrefix(endpoint, udsRoot):
		return c.openGRPC(ctx, "unix://"+endpoint, discoveryDetails)
	default:
		return c.openGRPC(ctx, networkTarget(endpoint), discoveryDetails)
	}
}

// EmbeddedEndpoint is the literal endpoint value selecting the
// embedded registry (spec.md §9, EMBEDDED_ENDPOINT).
const EmbeddedEndpoint = "embedded"

func networkTarget(endpoint string) string {
	return strings.TrimPrefix(endpoint, "http://")
}

func (c *Connector) openEmbedded(ctx context.Context, protocol string, details map[string]string) (Stream, error) {
	ctx, cancel := context.WithCancel(ctx)
	ch, err := c.Embedded.Discover(ctx, protocol, details)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("connector: embedded handler for %q: %w", protocol, err)
	}
	return &embeddedStream{ch: ch, cancel: cancel}, nil
}

type embeddedStream struct {
	ch     <-chan *akriproto.DiscoverResponse
	cancel context.CancelFunc
}

func (s *embeddedStream) Recv() (*akriproto.DiscoverResponse, error) {
	resp, ok := <-s.ch
	if !ok {
		return nil, io.EOF
	}
	return resp, nil
}

func (s *embeddedStream) Close() error {
	s.cancel()
	return nil
}

func (c *Connector) openGRPC(ctx context.Context, target string, details map[string]string) (Stream, error) {
	// A blocking dial on an undeadlined ctx never returns for an
	// unreachable endpoint; bound it by gRPC's default 20s connect
	// timeout so a timeout comes back as a connect failure.
	dialCtx, cancelDial := context.WithTimeout(ctx, 20*time.Second)
	defer cancelDial()
	conn, err := grpc.DialContext(dialCtx, target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, fmt.Errorf("connector: dial %s: %w", target, err)
	}

	client := akriproto.NewDiscoveryHandlerClient(conn)
	stream, err := client.Discover(ctx, &akriproto.DiscoverRequest{DiscoveryDetails: details})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("connector: discover %s: %w", target, err)
	}

	return &grpcStream{conn: conn, stream: stream}, nil
}

type grpcStream struct {
	conn   *grpc.ClientConn
	stream akriproto.DiscoveryHandler_DiscoverClient
}

func (s *grpcStream) Recv() (*akriproto.DiscoverResponse, error) {
	return s.stream.Recv()
}

func (s *grpcStream) Close() error {
	return s.conn.Close()
}
