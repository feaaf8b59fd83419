// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package clusterapi

import (
	"context"
	"sync"
)

// Fake is an in-memory API used by tests: it records every
// DeleteInstance call so the idempotence and call-count invariants of
// spec.md §8 can be asserted directly.
type Fake struct {
	mu      sync.Mutex
	deleted map[string]int
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{deleted: make(map[string]int)}
}

// DeleteInstance implements API.
func (f *Fake) DeleteInstance(_ context.Context, name, namespace string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[namespace+"/"+name]++
	return nil
}

// DeleteCount returns how many times DeleteInstance was called for
// name/namespace.
func (f *Fake) DeleteCount(name, namespace string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted[namespace+"/"+name]
}
