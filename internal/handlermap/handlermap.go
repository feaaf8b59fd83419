// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package handlermap implements the Registered-Handler Map (spec.md
// §4.2): the shared protocol -> endpoint -> HandlerEntry table written
// by the external registration server and read/mutated by the
// operator.
package handlermap

import (
	"sync"
	"time"

	"github.com/akri-project/discovery-operator/pkg/akriproto"
)

// Connectivity is a HandlerEntry's connectivity state (spec.md §3).
type Connectivity int

const (
	// Online means the handler is registered but no session currently
	// holds an open stream to it.
	Online Connectivity = iota
	// HasClient means a session currently holds an open stream.
	HasClient
	// Offline means the handler's stream is closed or unreachable,
	// since the recorded instant.
	Offline
)

func (c Connectivity) String() string {
	switch c {
	case Online:
		return "Online"
	case HasClient:
		return "HasClient"
	case Offline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Stop is a multi-subscriber, one-shot signal: closing the channel
// Stop.C returns notifies every current and future subscriber exactly
// once. Subscribers must call Stop.C before entering a select so a
// signal fired between subscribe and select is never missed.
type Stop struct {
	C chan struct{}
}

// NewStop returns an unsignalled Stop.
func NewStop() *Stop {
	return &Stop{C: make(chan struct{})}
}

// Fire closes the stop channel. Safe to call more than once.
func (s *Stop) Fire() {
	select {
	case <-s.C:
		// already fired
	default:
		close(s.C)
	}
}

// HandlerEntry is one entry of the Registered-Handler Map (spec.md
// §3). Snapshot hands back the live *HandlerEntry (so StopSignal stays
// a single shared instance across callers), so connectivity/since have
// their own mutex rather than relying on the owning Map's, which a
// caller no longer holds once Snapshot returns.
type HandlerEntry struct {
	Protocol string
	Endpoint string
	IsLocal  bool

	StopSignal *Stop

	mu           sync.Mutex
	connectivity Connectivity
	since        time.Time
}

// Connectivity returns a snapshot of the entry's current status and,
// for Offline, the instant it went offline.
func (e *HandlerEntry) Connectivity() (Connectivity, time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connectivity, e.since
}

// setConnectivity updates status/since under e.mu.
func (e *HandlerEntry) setConnectivity(status Connectivity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.connectivity = status
	if status == Offline {
		e.since = time.Now()
	} else {
		e.since = time.Time{}
	}
}

// FromRegisterRequest builds a fresh, Online HandlerEntry from a wire
// RegisterRequest, as the external registration server does on insert.
func FromRegisterRequest(req akriproto.RegisterRequest) *HandlerEntry {
	return &HandlerEntry{
		Protocol:     req.Protocol,
		Endpoint:     req.Endpoint,
		IsLocal:      req.IsLocal,
		StopSignal:   NewStop(),
		connectivity: Online,
	}
}

// Map is the Registered-Handler Map. The zero value is not usable;
// use New.
type Map struct {
	mu   sync.Mutex
	data map[string]map[string]*HandlerEntry

	newHandlerMu   sync.Mutex
	newHandlerSubs []chan string
}

// New returns an empty Registered-Handler Map.
func New() *Map {
	return &Map{data: make(map[string]map[string]*HandlerEntry)}
}

// Insert adds or replaces the HandlerEntry for (protocol, endpoint),
// called by the external registration server, and sends protocol to
// every SubscribeNewHandler subscriber (subscribers filter by protocol
// themselves).
func (m *Map) Insert(protocol, endpoint string, entry *HandlerEntry) {
	m.mu.Lock()
	byEndpoint, ok := m.data[protocol]
	if !ok {
		byEndpoint = make(map[string]*HandlerEntry)
		m.data[protocol] = byEndpoint
	}
	byEndpoint[endpoint] = entry
	m.mu.Unlock()

	m.notifyNewHandler(protocol)
}

// Snapshot returns a cheap copy of the endpoint/entry pairs registered
// for protocol, safe to iterate without holding the map lock. The
// *HandlerEntry values are the live entries, not copies; their
// Connectivity() is safe to call concurrently with a mutator because
// connectivity/since are guarded by HandlerEntry's own mutex, not the
// Map's.
func (m *Map) Snapshot(protocol string) []*HandlerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	byEndpoint := m.data[protocol]
	out := make([]*HandlerEntry, 0, len(byEndpoint))
	for _, e := range byEndpoint {
		out = append(out, e)
	}
	return out
}

// UpdateStatus compare-and-sets an entry's connectivity. A concurrent
// Remove wins silently: if the entry is gone, UpdateStatus is a no-op.
func (m *Map) UpdateStatus(protocol, endpoint string, status Connectivity) {
	m.mu.Lock()
	e, ok := m.data[protocol][endpoint]
	m.mu.Unlock()
	if !ok {
		return
	}
	e.setConnectivity(status)
}

// MarkOfflineOrDeregister implements spec.md §4.5.2 atomically under
// the map lock: Online -> Offline(now) (returns false); Offline past
// grace -> removed (returns true); Offline within grace -> unchanged
// (returns false); HasClient -> no-op (returns false).
func (m *Map) MarkOfflineOrDeregister(protocol, endpoint string, grace time.Duration) (deregistered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byEndpoint, ok := m.data[protocol]
	if !ok {
		return false
	}
	e, ok := byEndpoint[endpoint]
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.connectivity {
	case Online:
		e.connectivity = Offline
		e.since = time.Now()
		return false
	case Offline:
		if time.Since(e.since) > grace {
			delete(byEndpoint, endpoint)
			if len(byEndpoint) == 0 {
				delete(m.data, protocol)
			}
			return true
		}
		return false
	case HasClient:
		return false
	default:
		return false
	}
}

// Remove deletes the entry for (protocol, endpoint) if present.
func (m *Map) Remove(protocol, endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byEndpoint, ok := m.data[protocol]
	if !ok {
		return
	}
	delete(byEndpoint, endpoint)
	if len(byEndpoint) == 0 {
		delete(m.data, protocol)
	}
}

// SubscribeNewHandler returns a channel that receives a protocol name
// every time Insert registers a new handler for it. The channel is
// buffered so a slow subscriber never blocks Insert; subscribe before
// the registration watcher's first read to avoid a missed event.
func (m *Map) SubscribeNewHandler() <-chan string {
	ch := make(chan string, 16)
	m.newHandlerMu.Lock()
	m.newHandlerSubs = append(m.newHandlerSubs, ch)
	m.newHandlerMu.Unlock()
	return ch
}

func (m *Map) notifyNewHandler(protocol string) {
	m.newHandlerMu.Lock()
	defer m.newHandlerMu.Unlock()
	for _, ch := range m.newHandlerSubs {
		select {
		case ch <- protocol:
		default:
			// slow subscriber; this event is dropped, but the next
			// notification for the same protocol makes the watcher
			// re-scan every entry of that protocol.
		}
	}
}
