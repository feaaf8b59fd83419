// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package deviceplugin declares the external device-plugin factory
// contract (spec.md §6): the core only depends on Build and Terminate,
// never on the plugin's list-and-watch loop body.
package deviceplugin

import (
	"context"

	"github.com/akri-project/discovery-operator/internal/instancemap"
	"github.com/akri-project/discovery-operator/pkg/akriproto"
)

// ConfigMeta carries the Configuration identity a new device plugin is
// built for (spec.md §3).
type ConfigMeta struct {
	Name      string
	UID       string
	Namespace string
}

// BuildRequest bundles everything Factory.Build needs for one new
// instance (spec.md §4.6 step 5).
type BuildRequest struct {
	InstanceName     string
	Config           ConfigMeta
	ConfigSpec       map[string]string
	Shared           bool
	InstanceMap      *instancemap.Map
	PluginSocketRoot string
	Device           *akriproto.Device
}

// Factory builds and tears down per-instance device-plugin endpoints.
// Errors from either method are logged by the caller and swallowed
// (spec.md §4.6 step 5, §7): after a failed Build the same instance is
// offered again on the next reconcile tick. A failed Terminate is
// retried only when the cluster-API delete that follows it also fails,
// since the instance then stays in the Instance Map.
type Factory interface {
	// Build creates the device-plugin socket and starts its
	// list-and-watch loop for req.InstanceName. Must be safe to call
	// again for an instance whose previous Build failed.
	Build(ctx context.Context, req BuildRequest) error

	// Terminate stops and removes the device-plugin endpoint for
	// instanceName. Idempotent: a second call for an already-gone
	// instance returns nil (spec.md §4.6.1, §5).
	Terminate(ctx context.Context, instanceName string) error
}
