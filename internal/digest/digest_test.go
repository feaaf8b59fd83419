// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package digest

import "testing"

func TestComputeSharedIsNodeIndependent(t *testing.T) {
	a, err := Compute("cam1", true, "node-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compute("cam1", true, "node-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("shared digest must be node-independent: %q != %q", a, b)
	}
	if len(a) != 6 {
		t.Errorf("expected 6 hex characters, got %d (%q)", len(a), a)
	}
}

func TestComputeUnsharedVariesByNode(t *testing.T) {
	a, err := Compute("cam1", false, "node-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Compute("cam1", false, "node-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Errorf("unshared digests for different nodes collided: %q", a)
	}
}

func TestComputeDeterministic(t *testing.T) {
	a, _ := Compute("cam1", false, "node-a")
	b, _ := Compute("cam1", false, "node-a")
	if a != b {
		t.Errorf("expected deterministic digest, got %q and %q", a, b)
	}
}

func TestComputeEmptyRawID(t *testing.T) {
	if _, err := Compute("", true, "node-a"); err == nil {
		t.Error("expected error for empty raw id")
	}
}

func TestInstanceName(t *testing.T) {
	name, err := InstanceName("c1", "cam1", true, "node-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, _ := Compute("cam1", true, "node-a")
	if want := "c1-" + d; name != want {
		t.Errorf("expected %q, got %q", want, name)
	}
}
