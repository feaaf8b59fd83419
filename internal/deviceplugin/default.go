// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package deviceplugin

import (
	"context"
	"sync"

	"github.com/akri-project/discovery-operator/internal/instancemap"
)

// DefaultFactory is a reference Factory: it registers an InstanceInfo
// in the Instance Map on Build and drops the instance from its own
// bookkeeping on Terminate; Terminate does not touch the Instance Map,
// whose entry the Reconciler removes itself. It does
// not open a real kubelet device-plugin socket or run a list-and-watch
// loop — that loop's body is out of this core's scope (spec.md §1) —
// but it exercises the exact contract the Reconciler and Offline
// Sweeper depend on, which is what the test suite around those
// packages needs.
type DefaultFactory struct {
	mu      sync.Mutex
	builds  map[string]int
	built   map[string]bool
	onBuild func(BuildRequest)
}

// NewDefaultFactory returns a DefaultFactory.
func NewDefaultFactory() *DefaultFactory {
	return &DefaultFactory{builds: make(map[string]int), built: make(map[string]bool)}
}

// OnBuild installs a hook invoked synchronously inside Build, after
// the instance has been registered. Used by tests to assert on mounts
// and device specs forwarded through a BuildRequest.
func (f *DefaultFactory) OnBuild(hook func(BuildRequest)) {
	f.onBuild = hook
}

// Build implements Factory.
func (f *DefaultFactory) Build(_ context.Context, req BuildRequest) error {
	f.mu.Lock()
	f.builds[req.InstanceName]++
	f.built[req.InstanceName] = true
	f.mu.Unlock()

	req.InstanceMap.Upsert(req.InstanceName, instancemap.NewInstanceInfo())

	if f.onBuild != nil {
		f.onBuild(req)
	}
	return nil
}

// Terminate implements Factory.
func (f *DefaultFactory) Terminate(_ context.Context, instanceName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.built, instanceName)
	return nil
}

// BuildCount returns how many times Build was called for instanceName,
// used to assert the "called exactly once" scenarios of spec.md §8.
func (f *DefaultFactory) BuildCount(instanceName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.builds[instanceName]
}
