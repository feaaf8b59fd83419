// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/akri-project/discovery-operator/internal/clusterapi"
	"github.com/akri-project/discovery-operator/internal/configuration"
	"github.com/akri-project/discovery-operator/internal/deviceplugin"
	"github.com/akri-project/discovery-operator/internal/instancemap"
	"github.com/akri-project/discovery-operator/internal/reconciler"
)

func TestSweeperRemovesExpiredOfflineInstance(t *testing.T) {
	factory := deviceplugin.NewDefaultFactory()
	fake := clusterapi.NewFake()
	instances := instancemap.New()

	r := &reconciler.Reconciler{
		Config:      configuration.Configuration{Name: "c1", Namespace: "default"},
		Instances:   instances,
		Factory:     factory,
		ClusterAPI:  fake,
		NodeName:    "node-a",
		SharedGrace: 0,
	}

	name := "stale-instance"
	instances.Upsert(name, instancemap.NewInstanceInfo())
	instances.SetConnectivity(name, instancemap.Offline)

	ctx := context.Background()
	stop := make(chan struct{})
	s, err := Start(ctx, "c1", r, "1s", stop)
	if err != nil {
		t.Fatalf("unexpected error starting sweeper: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if !instances.Contains(name) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if instances.Contains(name) {
		t.Fatal("expected sweeper to remove the expired offline instance")
	}
	if got := fake.DeleteCount(name, "default"); got != 1 {
		t.Fatalf("expected DeleteInstance called exactly once, got %d", got)
	}

	close(stop)
}
