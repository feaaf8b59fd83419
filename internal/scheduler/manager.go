// -*- Mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2018 IOTech Ltd
//
// SPDX-License-Identifier: Apache-2.0

// Package scheduler manages the set of running Supervisors, one per
// Configuration, the same way the teacher's scheduler managed one
// cron entry per ScheduleEvent: a name-keyed registry guarding against
// duplicate starts and supporting orderly removal.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/akri-project/discovery-operator/internal/common"
	"github.com/akri-project/discovery-operator/internal/supervisor"
)

// Manager owns every running Supervisor, keyed by configuration name.
type Manager struct {
	mu      sync.Mutex
	running map[string]*entry
}

type entry struct {
	sv     *supervisor.Supervisor
	cancel context.CancelFunc
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{running: make(map[string]*entry)}
}

// Add starts sv's Run loop under its own cancellable context and
// registers it under name. Returns an error if name is already
// running, mirroring the teacher's duplicate-schedule-event guard.
func (m *Manager) Add(ctx context.Context, name string, sv *supervisor.Supervisor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.running[name]; ok {
		return fmt.Errorf("scheduler: configuration %s already has a running supervisor", name)
	}

	childCtx, cancel := context.WithCancel(ctx)
	m.running[name] = &entry{sv: sv, cancel: cancel}

	go sv.Run(childCtx)

	common.LoggingClient.Infof("started discovery supervisor for configuration %s", name)
	return nil
}

// Remove stops the supervisor registered under name and waits for its
// finished-discovery signal before returning. Returns an error if name
// isn't running.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	e, ok := m.running[name]
	if ok {
		delete(m.running, name)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("scheduler: configuration %s has no running supervisor", name)
	}

	e.sv.Stop()
	<-e.sv.Finished()
	e.cancel()
	return nil
}

// StopAll stops every running supervisor and waits for each to finish,
// used on process shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.running))
	for name := range m.running {
		entries = append(entries, m.running[name])
		delete(m.running, name)
	}
	m.mu.Unlock()

	for _, e := range entries {
		e.sv.Stop()
		<-e.sv.Finished()
		e.cancel()
	}
	common.LoggingClient.Info("stopped all discovery supervisors")
}
