// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package clusterapi wraps the cluster-API operations the core depends
// on (spec.md §6): deleting an Instance custom resource once it has
// been reaped by the Reconciler or the Offline Sweeper.
package clusterapi

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
)

// instanceGVR addresses the Akri Instance custom resource the core
// deletes; the Configuration CRD itself is owned entirely by external
// collaborators.
var instanceGVR = schema.GroupVersionResource{
	Group:    "akri.sh",
	Version:  "v0",
	Resource: "instances",
}

// API is the cluster-API surface the core depends on.
type API interface {
	// DeleteInstance deletes the Instance resource name in namespace.
	// Idempotent: deleting an already-gone Instance returns nil
	// (spec.md §5, §7).
	DeleteInstance(ctx context.Context, name, namespace string) error
}

// Client implements API against a live cluster via a dynamic client.
type Client struct {
	dyn dynamic.Interface
}

// NewClient builds a Client from in-cluster (or kubeconfig-resolved)
// REST config.
func NewClient(cfg *rest.Config) (*Client, error) {
	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("clusterapi: building dynamic client: %w", err)
	}
	return &Client{dyn: dyn}, nil
}

// DeleteInstance implements API.
func (c *Client) DeleteInstance(ctx context.Context, name, namespace string) error {
	err := c.dyn.Resource(instanceGVR).Namespace(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("clusterapi: delete instance %s/%s: %w", namespace, name, err)
	}
	return nil
}
