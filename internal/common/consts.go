// -*- mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2017-2018 Canonical Ltd
// Copyright (C) 2018-2019 IOTech Ltd
// Copyright (c) 2019 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package common

import "time"

const (
	ConfigDirectory = "./res"
	ConfigFileName  = "configuration.toml"

	// NodeNameEnvVar is the environment variable the agent reads the
	// local node's name from. Required for unshared instance digests.
	NodeNameEnvVar = "AGENT_NODE_NAME"

	// EmbeddedEndpoint is the literal endpoint value that selects the
	// in-process embedded handler registry instead of a gRPC dial.
	EmbeddedEndpoint = "embedded"

	DefaultUDSRoot          = "/var/lib/akri/discovery"
	DefaultPluginSocketRoot = "/var/lib/kubelet/device-plugins"

	DefaultHandlerGrace        = 300 * time.Second
	DefaultSharedInstanceGrace = 300 * time.Second
	DefaultReconnectBackoff    = 60 * time.Second
	DefaultSweepPeriod         = 30 * time.Second

	// BrokenPipeMarker is the substring a transport error message must
	// contain to be classified as a handler-death condition rather than
	// a benign stream end.
	BrokenPipeMarker = "broken pipe"
)
