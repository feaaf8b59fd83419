// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"context"
	"testing"
	"time"

	"github.com/akri-project/discovery-operator/internal/clusterapi"
	"github.com/akri-project/discovery-operator/internal/configuration"
	"github.com/akri-project/discovery-operator/internal/connector"
	"github.com/akri-project/discovery-operator/internal/deviceplugin"
	"github.com/akri-project/discovery-operator/internal/digest"
	"github.com/akri-project/discovery-operator/internal/embedded"
	"github.com/akri-project/discovery-operator/internal/handlermap"
	"github.com/akri-project/discovery-operator/internal/instancemap"
	"github.com/akri-project/discovery-operator/internal/reconciler"
	"github.com/akri-project/discovery-operator/pkg/akriproto"
)

func TestSupervisorInitialFanoutReachesReconciler(t *testing.T) {
	handlers := handlermap.New()
	entry := handlermap.FromRegisterRequest(akriproto.RegisterRequest{
		Protocol: embedded.ProtocolDebugEcho,
		Endpoint: connector.EmbeddedEndpoint,
		IsLocal:  false,
	})
	handlers.Insert(embedded.ProtocolDebugEcho, connector.EmbeddedEndpoint, entry)

	registry := embedded.NewRegistry()
	conn := connector.New(registry)

	cfg := configuration.Configuration{
		Name:             "c1",
		Namespace:        "default",
		Protocol:         embedded.ProtocolDebugEcho,
		DiscoveryDetails: map[string]string{"descriptions": "cam1"},
	}

	rec := &reconciler.Reconciler{
		Config:      cfg,
		Instances:   instancemap.New(),
		Factory:     deviceplugin.NewDefaultFactory(),
		ClusterAPI:  clusterapi.NewFake(),
		NodeName:    "node-a",
		SharedGrace: 300 * time.Second,
	}

	sv := New(cfg, handlers, conn, rec, Options{
		Backoff:      50 * time.Millisecond,
		HandlerGrace: 300 * time.Second,
		SweepPeriod:  "1h",
	})

	ctx, cancel := context.WithCancel(context.Background())
	go sv.Run(ctx)

	name, err := digest.InstanceName("c1", "cam1", true, "node-a")
	if err != nil {
		t.Fatalf("unexpected digest error: %v", err)
	}

	deadline := time.After(2 * time.Second)
waitLoop:
	for {
		if rec.Instances.Contains(name) {
			break waitLoop
		}
		select {
		case <-deadline:
			t.Fatal("supervisor's initial fanout never reached the reconciler")
		default:
			time.Sleep(20 * time.Millisecond)
		}
	}

	cancel()
	sv.Stop()

	select {
	case <-sv.Finished():
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not emit finished-discovery after stop")
	}
}
