// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package embedded implements the in-process Discovery Handler
// registry classified by Stream Connector rule 1 (spec.md §4.4): a
// protocol whose discovery details the registry recognizes bypasses
// gRPC entirely and streams DiscoverResponse messages over an
// in-process channel.
package embedded

import (
	"context"
	"fmt"
	"strings"

	"github.com/akri-project/discovery-operator/pkg/akriproto"
)

// Handler is an embedded discovery handler: given the discovery
// details forwarded from a Configuration, it streams the complete
// current device list on change or on an interval (debugEcho emits on
// a fixed interval), matching the wire contract of
// spec.md §6 without going over gRPC.
type Handler interface {
	// Recognizes reports whether details are well-formed for this
	// handler, used to decide whether "embedded" applies at all
	// (Stream Connector rule 1).
	Recognizes(details map[string]string) bool
	// Discover starts streaming and returns the channel responses
	// arrive on. The channel is closed when ctx is cancelled.
	Discover(ctx context.Context, details map[string]string) (<-chan *akriproto.DiscoverResponse, error)
}

// Registry maps protocol name to embedded Handler.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a Registry pre-populated with the reference
// debugEcho handler (see DESIGN.md / SPEC_FULL.md §4).
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(ProtocolDebugEcho, NewDebugEcho())
	return r
}

// Register adds or replaces the embedded handler for protocol.
func (r *Registry) Register(protocol string, h Handler) {
	r.handlers[protocol] = h
}

// Recognizes implements the Stream Connector's embedded-endpoint
// classification rule: the registry has a handler for protocol, and
// that handler accepts these discovery details.
func (r *Registry) Recognizes(protocol string, details map[string]string) bool {
	h, ok := r.handlers[protocol]
	if !ok {
		return false
	}
	return h.Recognizes(details)
}

// Discover dispatches to the registered handler for protocol.
func (r *Registry) Discover(ctx context.Context, protocol string, details map[string]string) (<-chan *akriproto.DiscoverResponse, error) {
	h, ok := r.handlers[protocol]
	if !ok {
		return nil, fmt.Errorf("embedded: no handler registered for protocol %q", protocol)
	}
	return h.Discover(ctx, details)
}

// parseDescriptions splits the debugEcho "descriptions" discovery
// detail (a comma-separated device id list) into individual ids,
// trimming whitespace and dropping empties.
func parseDescriptions(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
