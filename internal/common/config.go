// -*- mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2017-2018 Canonical Ltd
// Copyright (C) 2018-2019 IOTech Ltd
//
// SPDX-License-Identifier: Apache-2.0

package common

import "time"

// Config is the operator-level configuration loaded from
// ConfigFileName by internal/config. It carries the timing knobs named
// in spec.md §9 plus the socket roots the Stream Connector and the
// device-plugin factory use.
type Config struct {
	Service        ServiceInfo
	Agent          AgentInfo
	Configurations []ConfigurationEntry
}

// ConfigurationEntry is one `[[Configurations]]` TOML table: the
// static description of a Configuration this operator process watches
// (spec.md's Non-goals keep live CRD watching external; this operator
// reads its Configuration set once, at startup, from this file).
type ConfigurationEntry struct {
	Name             string
	Namespace        string
	UID              string
	Protocol         string
	DiscoveryDetails map[string]string
	Spec             map[string]string
}

// ServiceInfo configures process-wide logging/runtime behavior, kept
// under the same field name the teacher's configuration.toml uses.
type ServiceInfo struct {
	LogLevel string
}

// AgentInfo configures the discovery-operator-specific timing and
// filesystem layout. Zero values fall back to the defaults in consts.go.
type AgentInfo struct {
	UDSRoot                string
	PluginSocketRoot       string
	HandlerGraceSeconds    int
	SharedInstanceGraceSec int
	ReconnectBackoffSec    int
	SweepPeriodSeconds     int
}

func (a AgentInfo) udsRoot() string {
	if a.UDSRoot != "" {
		return a.UDSRoot
	}
	return DefaultUDSRoot
}

func (a AgentInfo) pluginSocketRoot() string {
	if a.PluginSocketRoot != "" {
		return a.PluginSocketRoot
	}
	return DefaultPluginSocketRoot
}

func (a AgentInfo) handlerGrace() time.Duration {
	if a.HandlerGraceSeconds > 0 {
		return time.Duration(a.HandlerGraceSeconds) * time.Second
	}
	return DefaultHandlerGrace
}

func (a AgentInfo) sharedInstanceGrace() time.Duration {
	if a.SharedInstanceGraceSec > 0 {
		return time.Duration(a.SharedInstanceGraceSec) * time.Second
	}
	return DefaultSharedInstanceGrace
}

func (a AgentInfo) reconnectBackoff() time.Duration {
	if a.ReconnectBackoffSec > 0 {
		return time.Duration(a.ReconnectBackoffSec) * time.Second
	}
	return DefaultReconnectBackoff
}

func (a AgentInfo) sweepPeriod() time.Duration {
	if a.SweepPeriodSeconds > 0 {
		return time.Duration(a.SweepPeriodSeconds) * time.Second
	}
	return DefaultSweepPeriod
}

// UDSRoot returns the configured or default Unix-domain-socket root for
// discovery-handler endpoints.
func UDSRoot() string {
	if CurrentConfig == nil {
		return DefaultUDSRoot
	}
	return CurrentConfig.Agent.udsRoot()
}

// PluginSocketRoot returns the configured or default root directory for
// device-plugin sockets.
func PluginSocketRoot() string {
	if CurrentConfig == nil {
		return DefaultPluginSocketRoot
	}
	return CurrentConfig.Agent.pluginSocketRoot()
}

// HandlerGrace returns the configured or default handler offline grace
// period (spec.md §3, HANDLER_GRACE).
func HandlerGrace() time.Duration {
	if CurrentConfig == nil {
		return DefaultHandlerGrace
	}
	return CurrentConfig.Agent.handlerGrace()
}

// SharedInstanceGrace returns the configured or default shared-instance
// offline grace period (spec.md §3, SHARED_INSTANCE_GRACE).
func SharedInstanceGrace() time.Duration {
	if CurrentConfig == nil {
		return DefaultSharedInstanceGrace
	}
	return CurrentConfig.Agent.sharedInstanceGrace()
}

// ReconnectBackoff returns the configured or default session reconnect
// backoff (spec.md §9, RECONNECT_BACKOFF).
func ReconnectBackoff() time.Duration {
	if CurrentConfig == nil {
		return DefaultReconnectBackoff
	}
	return CurrentConfig.Agent.reconnectBackoff()
}

// SweepPeriod returns the configured or default offline-sweeper period
// (spec.md §9, SWEEP_PERIOD).
func SweepPeriod() time.Duration {
	if CurrentConfig == nil {
		return DefaultSweepPeriod
	}
	return CurrentConfig.Agent.sweepPeriod()
}
