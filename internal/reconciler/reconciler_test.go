// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/akri-project/discovery-operator/internal/clusterapi"
	"github.com/akri-project/discovery-operator/internal/configuration"
	"github.com/akri-project/discovery-operator/internal/deviceplugin"
	"github.com/akri-project/discovery-operator/internal/digest"
	"github.com/akri-project/discovery-operator/internal/instancemap"
	"github.com/akri-project/discovery-operator/pkg/akriproto"
)

func newTestReconciler() (*Reconciler, *deviceplugin.DefaultFactory, *clusterapi.Fake) {
	factory := deviceplugin.NewDefaultFactory()
	fake := clusterapi.NewFake()
	r := &Reconciler{
		Config: configuration.Configuration{
			Name:      "c1",
			Namespace: "default",
		},
		Instances:   instancemap.New(),
		Factory:     factory,
		ClusterAPI:  fake,
		NodeName:    "node-a",
		SharedGrace: 300 * time.Second,
	}
	return r, factory, fake
}

// Scenario 1: first sighting (shared).
func TestFirstSightingShared(t *testing.T) {
	r, factory, _ := newTestReconciler()

	err := r.Reconcile(context.Background(), []*akriproto.Device{{ID: "cam1"}}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, _ := digest.InstanceName("c1", "cam1", true, "node-a")
	if !r.Instances.Contains(name) {
		t.Fatalf("expected instance %s to be present", name)
	}
	if factory.BuildCount(name) != 1 {
		t.Fatalf("expected Build called exactly once, got %d", factory.BuildCount(name))
	}
	info, _ := r.Instances.Get(name)
	status, _ := info.Connectivity()
	if status != instancemap.Online {
		t.Fatalf("expected Online, got %v", status)
	}
}

// Scenario 2: flap within grace (shared) — no deletion.
func TestFlapWithinGraceShared(t *testing.T) {
	r, _, fake := newTestReconciler()
	ctx := context.Background()

	r.Reconcile(ctx, []*akriproto.Device{{ID: "cam1"}}, false)
	name, _ := digest.InstanceName("c1", "cam1", true, "node-a")

	r.Reconcile(ctx, nil, false) // empty response: goes Offline
	info, _ := r.Instances.Get(name)
	status, _ := info.Connectivity()
	if status != instancemap.Offline {
		t.Fatalf("expected Offline, got %v", status)
	}

	r.Reconcile(ctx, []*akriproto.Device{{ID: "cam1"}}, false) // back within grace
	status, _ = info.Connectivity()
	if status != instancemap.Online {
		t.Fatalf("expected Online after flap recovery, got %v", status)
	}
	if fake.DeleteCount(name, "default") != 0 {
		t.Fatalf("expected DeleteInstance not called, got %d calls", fake.DeleteCount(name, "default"))
	}
}

// Scenario 3: timeout (shared) — removed once grace elapses.
func TestSharedTimeoutRemovesInstance(t *testing.T) {
	r, _, fake := newTestReconciler()
	r.SharedGrace = 0 // force immediate elapse for the test
	ctx := context.Background()

	r.Reconcile(ctx, []*akriproto.Device{{ID: "cam1"}}, false)
	name, _ := digest.InstanceName("c1", "cam1", true, "node-a")

	r.Reconcile(ctx, nil, false) // Online -> Offline(now)
	r.Reconcile(ctx, nil, false) // Offline, grace already elapsed -> removed

	if r.Instances.Contains(name) {
		t.Fatal("expected instance to be removed after shared grace elapsed")
	}
	if got := fake.DeleteCount(name, "default"); got != 1 {
		t.Fatalf("expected DeleteInstance called exactly once, got %d", got)
	}
}

// Scenario 4: local disappearance — removed immediately, no grace.
func TestLocalDisappearanceIsImmediate(t *testing.T) {
	r, _, fake := newTestReconciler()
	ctx := context.Background()

	r.Reconcile(ctx, []*akriproto.Device{{ID: "cam1"}}, true)
	name, _ := digest.InstanceName("c1", "cam1", false, "node-a")

	r.Reconcile(ctx, nil, true)

	if r.Instances.Contains(name) {
		t.Fatal("expected local instance to be removed immediately")
	}
	if got := fake.DeleteCount(name, "default"); got != 1 {
		t.Fatalf("expected DeleteInstance called exactly once, got %d", got)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	r, factory, _ := newTestReconciler()
	ctx := context.Background()
	devices := []*akriproto.Device{{ID: "cam1"}}

	r.Reconcile(ctx, devices, false)
	r.Reconcile(ctx, devices, false)

	name, _ := digest.InstanceName("c1", "cam1", true, "node-a")
	if factory.BuildCount(name) != 1 {
		t.Fatalf("expected Build called exactly once across repeated identical reconciles, got %d", factory.BuildCount(name))
	}
}

func TestDuplicateDeviceIDsCoalesce(t *testing.T) {
	r, factory, _ := newTestReconciler()
	ctx := context.Background()

	devices := []*akriproto.Device{
		{ID: "cam1", Properties: map[string]string{"v": "1"}},
		{ID: "cam1", Properties: map[string]string{"v": "2"}},
	}
	r.Reconcile(ctx, devices, false)

	name, _ := digest.InstanceName("c1", "cam1", true, "node-a")
	if factory.BuildCount(name) != 1 {
		t.Fatalf("expected a single instance for a duplicated device id, got %d builds", factory.BuildCount(name))
	}
}
