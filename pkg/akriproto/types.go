// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package akriproto defines the wire contract between the Discovery
// Operator and Discovery Handlers (spec.md §6): a single streaming
// Discover RPC plus the Register message the external registration
// server accepts. Messages are carried over gRPC using the JSON codec
// registered in codec.go rather than compiled protobuf, since this
// module has no protoc toolchain available; see DESIGN.md.
package akriproto

// Device is the transport representation of a discovered device.
// Mounts and DeviceSpecs are opaque to the core — they are forwarded
// to the device-plugin factory untouched (spec.md §3, §4).
type Device struct {
	ID          string            `json:"id"`
	Properties  map[string]string `json:"properties"`
	Mounts      []*Mount          `json:"mounts,omitempty"`
	DeviceSpecs []*DeviceSpec     `json:"device_specs,omitempty"`
}

// Mount describes a host path to bind-mount into a pod consuming the
// device, forwarded untouched to the device-plugin factory.
type Mount struct {
	Name          string `json:"name"`
	HostPath      string `json:"host_path"`
	ContainerPath string `json:"container_path"`
	ReadOnly      bool   `json:"read_only"`
}

// DeviceSpec describes a host device node to expose to the container,
// forwarded untouched to the device-plugin factory.
type DeviceSpec struct {
	ContainerPath string `json:"container_path"`
	HostPath      string `json:"host_path"`
	Permissions   string `json:"permissions"`
}

// DiscoverRequest carries the protocol-specific discovery details a
// Configuration supplies, opaque to the core.
type DiscoverRequest struct {
	DiscoveryDetails map[string]string `json:"discovery_details"`
}

// DiscoverResponse is the complete current device list for a protocol.
// Devices == nil (as opposed to an empty, non-nil slice) is a protocol
// violation per spec.md §7.
type DiscoverResponse struct {
	Devices []*Device `json:"devices"`
}

// RegisterRequest is what the external registration server receives
// from a Discovery Handler on startup (spec.md §6). The core only ever
// consumes the HandlerEntry built from one of these.
type RegisterRequest struct {
	Protocol string `json:"protocol"`
	Endpoint string `json:"endpoint"`
	IsLocal  bool   `json:"is_local"`
}
