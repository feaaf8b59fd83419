// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package connector

import (
	"context"
	"testing"
	"time"

	"github.com/akri-project/discovery-operator/internal/embedded"
)

func TestOpenEmbeddedRecognized(t *testing.T) {
	c := New(embedded.NewRegistry())

	stream, err := c.Open(context.Background(), embedded.ProtocolDebugEcho, EmbeddedEndpoint, "/var/lib/akri/discovery",
		map[string]string{"descriptions": "cam1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stream.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := stream.Recv()
		if err != nil {
			t.Errorf("unexpected recv error: %v", err)
			return
		}
		if len(resp.Devices) != 1 || resp.Devices[0].ID != "cam1" {
			t.Errorf("unexpected devices: %+v", resp.Devices)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for embedded stream response")
	}
}

func TestOpenEmbeddedUnrecognizedFallsThroughToNetwork(t *testing.T) {
	c := New(embedded.NewRegistry())

	// No "descriptions" detail, and no listener on this address: the
	// connector must not route through the embedded registry and must
	// instead attempt (and fail) a network dial.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := c.Open(ctx, "onvif", EmbeddedEndpoint, "/var/lib/akri/discovery", map[string]string{})
	if err == nil {
		t.Fatal("expected a connect error for an unrecognized embedded endpoint")
	}
}

func TestNetworkTargetStripsHTTPPrefix(t *testing.T) {
	if got := networkTarget("http://1.2.3.4:8080"); got != "1.2.3.4:8080" {
		t.Errorf("expected prefix stripped, got %q", got)
	}
	if got := networkTarget("1.2.3.4:8080"); got != "1.2.3.4:8080" {
		t.Errorf("expected unchanged, got %q", got)
	}
}
