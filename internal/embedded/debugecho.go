// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package embedded

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/akri-project/discovery-operator/pkg/akriproto"
)

const (
	// ProtocolDebugEcho is the protocol name debugEcho Configurations
	// register under, grounded on the reference embedded handler
	// shipped with the original agent.
	ProtocolDebugEcho = "debugEcho"

	// availabilityCheckPath is polled on every tick; if its contents
	// contain offlineMarker, debugEcho reports zero devices, mimicking
	// an operator flipping a protocol's devices offline for testing.
	availabilityCheckPath = "/tmp/debug-echo-availability.txt"
	offlineMarker         = "OFFLINE"

	discoveryInterval = 10 * time.Second
)

// DebugEcho is the embedded reference discovery handler: it reports
// the device ids listed in discovery_details["descriptions"] as
// present, unless availabilityCheckPath contains OFFLINE.
type DebugEcho struct{}

// NewDebugEcho returns a DebugEcho handler.
func NewDebugEcho() *DebugEcho {
	return &DebugEcho{}
}

// Recognizes reports whether details carry a non-empty "descriptions"
// entry.
func (d *DebugEcho) Recognizes(details map[string]string) bool {
	v, ok := details["descriptions"]
	return ok && v != ""
}

// Discover streams the device list described by details every
// discoveryInterval, re-checking availabilityCheckPath each tick.
func (d *DebugEcho) Discover(ctx context.Context, details map[string]string) (<-chan *akriproto.DiscoverResponse, error) {
	descriptions := parseDescriptions(details["descriptions"])
	out := make(chan *akriproto.DiscoverResponse, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(discoveryInterval)
		defer ticker.Stop()

		for {
			resp := d.currentResponse(descriptions)
			select {
			case out <- resp:
			case <-ctx.Done():
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (d *DebugEcho) currentResponse(descriptions []string) *akriproto.DiscoverResponse {
	if isOffline() {
		return &akriproto.DiscoverResponse{Devices: []*akriproto.Device{}}
	}

	devices := make([]*akriproto.Device, 0, len(descriptions))
	for _, id := range descriptions {
		devices = append(devices, &akriproto.Device{ID: id, Properties: map[string]string{}})
	}
	return &akriproto.DiscoverResponse{Devices: devices}
}

func isOffline() bool {
	contents, err := os.ReadFile(availabilityCheckPath)
	if err != nil {
		return false
	}
	return strings.Contains(string(contents), offlineMarker)
}
