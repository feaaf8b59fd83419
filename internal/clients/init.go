// -*- Mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2018 IOTech Ltd
// Copyright (c) 2019 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

// Package clients brings up the operator's one external dependency:
// the Kubernetes API server the Cluster API client talks to. Adapted
// from the teacher's dependency-client bring-up, which blocked startup
// on Core Metadata/Core Data reachability the same way (spec.md §7,
// "Fatal configuration error" is the only externally-propagated
// failure besides this one).
package clients

import (
	"context"
	"fmt"
	"time"

	"k8s.io/client-go/discovery"
	"k8s.io/client-go/rest"

	"github.com/akri-project/discovery-operator/internal/common"
)

// WaitForClusterAPI blocks until the API server identified by cfg
// answers a version check, retrying up to retries times with pause
// between attempts. The operator cannot usefully start any Supervisor
// before the Cluster API that deletes Instances is reachable.
func WaitForClusterAPI(ctx context.Context, cfg *rest.Config, retries int, pause time.Duration) error {
	disco, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return fmt.Errorf("clients: building discovery client: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if _, err := disco.ServerVersion(); err == nil {
			common.LoggingClient.Info("cluster API reachable")
			return nil
		} else {
			lastErr = err
			common.LoggingClient.Debugf("checked %d times for cluster API availability: %v", attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}

	return fmt.Errorf("clients: cluster API unreachable after %d attempts: %w", retries, lastErr)
}
