// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package instancemap implements the per-configuration Instance Map
// (spec.md §4.3): instance-name -> InstanceInfo, holding connectivity
// status and a broadcast of list-and-watch notifications.
package instancemap

import (
	"sync"
	"time"
)

// NotifyKind is pushed to a device plugin's list-and-watch loop so it
// can re-emit its health bitmap (spec.md §4.6.1).
type NotifyKind int

const (
	// Continue means the instance is still known; re-publish health.
	Continue NotifyKind = iota
	// End means the instance has been removed; the plugin should stop.
	End
)

// Connectivity is an InstanceInfo's connectivity state (spec.md §3).
type Connectivity int

const (
	Online Connectivity = iota
	Offline
)

func (c Connectivity) String() string {
	if c == Online {
		return "Online"
	}
	return "Offline"
}

// Notifier is the broadcast endpoint a device plugin's list-and-watch
// loop subscribes to. Subscribe before selecting on it so a
// notification sent between subscribe and select is never missed.
type Notifier struct {
	mu   sync.Mutex
	subs []chan NotifyKind
}

// NewNotifier returns an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe returns a new channel that receives every future Push.
func (n *Notifier) Subscribe() <-chan NotifyKind {
	ch := make(chan NotifyKind, 4)
	n.mu.Lock()
	n.subs = append(n.subs, ch)
	n.mu.Unlock()
	return ch
}

// Push fans kind out to every current subscriber without blocking.
func (n *Notifier) Push(kind NotifyKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- kind:
		default:
			// slow subscriber drops a stale notification; the next
			// reconcile tick will re-publish the current state anyway.
		}
	}
}

// InstanceInfo is one entry of the Instance Map (spec.md §3).
// connectivity/since have their own mutex: a Snapshot result hands
// back the live *InstanceInfo (so Notify subscriptions stay attached
// to a single instance across ticks), so reads and writes of these two
// fields must not rely on the owning Map's lock, which the reader no
// longer holds once Snapshot returns.
type InstanceInfo struct {
	Notify *Notifier

	mu           sync.Mutex
	connectivity Connectivity
	since        time.Time
}

// NewInstanceInfo returns a freshly-seen, Online InstanceInfo.
func NewInstanceInfo() *InstanceInfo {
	return &InstanceInfo{Notify: NewNotifier(), connectivity: Online}
}

// Connectivity returns a snapshot of the instance's status and, for
// Offline, the instant it went offline.
func (i *InstanceInfo) Connectivity() (Connectivity, time.Time) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.connectivity, i.since
}

// setConnectivity updates status/since under i.mu.
func (i *InstanceInfo) setConnectivity(status Connectivity) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.connectivity = status
	if status == Offline {
		i.since = time.Now()
	} else {
		i.since = time.Time{}
	}
}

// Map is one configuration's Instance Map.
type Map struct {
	mu   sync.RWMutex
	data map[string]*InstanceInfo
}

// New returns an empty Instance Map.
func New() *Map {
	return &Map{data: make(map[string]*InstanceInfo)}
}

// Snapshot returns an unlocked copy of the map, safe to range over
// without holding the Map's lock (spec.md §4.3). The *InstanceInfo
// values are the live entries, not copies; their Connectivity() is
// safe to call concurrently with a mutator because connectivity/since
// are guarded by InstanceInfo's own mutex, not the Map's.
func (m *Map) Snapshot() map[string]*InstanceInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]*InstanceInfo, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// Upsert inserts or replaces the InstanceInfo for name.
func (m *Map) Upsert(name string, info *InstanceInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = info
}

// Remove deletes the entry for name if present.
func (m *Map) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
}

// Contains reports whether name is present.
func (m *Map) Contains(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[name]
	return ok
}

// Get returns the InstanceInfo for name, if present.
func (m *Map) Get(name string) (*InstanceInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.data[name]
	return info, ok
}

// SetConnectivity mutates the connectivity of an existing entry. A
// concurrent Remove wins silently, matching the Registered-Handler
// Map's CAS semantics (spec.md §4.2 applied to instances).
func (m *Map) SetConnectivity(name string, status Connectivity) {
	m.mu.RLock()
	info, ok := m.data[name]
	m.mu.RUnlock()
	if !ok {
		return
	}
	info.setConnectivity(status)
}

// ListAndWatchNotify pushes kind to the stored Notifier for name, a
// convenience wrapping Get+Notify.Push (spec.md §4.3).
func (m *Map) ListAndWatchNotify(name string, kind NotifyKind) {
	if info, ok := m.Get(name); ok {
		info.Notify.Push(kind)
	}
}
