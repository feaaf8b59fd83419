// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package reconciler implements the Reconciler (spec.md §4.6): it
// diffs a Handler Session's discovery batch against the Instance Map,
// builds device plugins for newly-seen devices, and applies connectivity
// transitions for devices that are present or have disappeared.
package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akri-project/discovery-operator/internal/clusterapi"
	"github.com/akri-project/discovery-operator/internal/common"
	"github.com/akri-project/discovery-operator/internal/configuration"
	"github.com/akri-project/discovery-operator/internal/deviceplugin"
	"github.com/akri-project/discovery-operator/internal/digest"
	"github.com/akri-project/discovery-operator/internal/instancemap"
	"github.com/akri-project/discovery-operator/internal/telemetry"
	"github.com/akri-project/discovery-operator/pkg/akriproto"
)

var log = common.ForComponent("reconciler")

// Reconciler owns one Configuration's reconcile loop. A single
// Reconciler is shared by every Handler Session of that Configuration;
// every method is safe under concurrent calls (spec.md §5).
type Reconciler struct {
	Config      configuration.Configuration
	Instances   *instancemap.Map
	Factory     deviceplugin.Factory
	ClusterAPI  clusterapi.API
	NodeName    string
	PluginRoot  string
	SharedGrace time.Duration
}

// Reconcile implements spec.md §4.6. devices is the complete current
// device list from one DiscoverResponse; isLocal comes from the
// owning HandlerEntry's register_request.
func (r *Reconciler) Reconcile(ctx context.Context, devices []*akriproto.Device, isLocal bool) error {
	tick := log.WithField("correlation_id", uuid.New().String())

	visible, err := r.buildVisible(devices, isLocal)
	if err != nil {
		return err
	}
	tick.Debugf("reconciling %d visible device(s) for configuration %s", len(visible), r.Config.Name)

	telemetry.PublishVisibleCount(r.Config.Name, isLocal, len(visible))

	var newNames []string
	for name := range visible {
		if !r.Instances.Contains(name) {
			newNames = append(newNames, name)
		}
	}

	r.updateConnectivity(ctx, visible, isLocal)

	for _, name := range newNames {
		device := visible[name]
		req := deviceplugin.BuildRequest{
			InstanceName: name,
			Config: deviceplugin.ConfigMeta{
				Name:      r.Config.Name,
				UID:       r.Config.UID,
				Namespace: r.Config.Namespace,
			},
			ConfigSpec:       r.Config.Spec,
			Shared:           !isLocal,
			InstanceMap:      r.Instances,
			PluginSocketRoot: r.PluginRoot,
			Device:           device,
		}
		if err := r.Factory.Build(ctx, req); err != nil {
			// Transient per spec.md §7: logged and swallowed. The same
			// device is offered again on the next discovery tick since
			// it is still absent from the Instance Map.
			tErr := common.NewTransientError(fmt.Sprintf("build device plugin for %s", name), err)
			log.WithField("error_kind", tErr.Kind()).WithError(tErr).Warn("reconcile child error")
		}
	}

	return nil
}

// buildVisible implements spec.md §4.6 step 1: duplicate device ids
// within one response are coalesced, last write wins.
func (r *Reconciler) buildVisible(devices []*akriproto.Device, isLocal bool) (map[string]*akriproto.Device, error) {
	visible := make(map[string]*akriproto.Device, len(devices))
	for _, d := range devices {
		name, err := digest.InstanceName(r.Config.Name, d.ID, !isLocal, r.NodeName)
		if err != nil {
			log.WithError(err).Warnf("skipping device with invalid id in configuration %s", r.Config.Name)
			continue
		}
		visible[name] = d
	}
	return visible, nil
}

// updateConnectivity implements spec.md §4.6.1 for Reconcile (visible =
// this tick's devices). The Offline Sweeper does not call it; Sweep
// applies only the Offline-past-grace branch.
func (r *Reconciler) updateConnectivity(ctx context.Context, visible map[string]*akriproto.Device, isLocal bool) {
	snapshot := r.Instances.Snapshot()

	for name, info := range snapshot {
		status, since := info.Connectivity()

		if _, present := visible[name]; present {
			if status == instancemap.Offline {
				r.Instances.SetConnectivity(name, instancemap.Online)
				r.Instances.ListAndWatchNotify(name, instancemap.Continue)
			}
			continue
		}

		switch {
		case status == instancemap.Online && isLocal:
			r.terminateInstance(ctx, name)
		case status == instancemap.Online && !isLocal:
			r.Instances.SetConnectivity(name, instancemap.Offline)
			r.Instances.ListAndWatchNotify(name, instancemap.Continue)
		case status == instancemap.Offline && time.Since(since) >= r.SharedGrace:
			r.terminateInstance(ctx, name)
		}
	}
}

// Sweep implements the Offline Sweeper's tick (spec.md §4.7): it
// catches instances that have been Offline past the shared grace
// period without any new discovery response arriving to say so.
//
// It does not re-run the full update_connectivity rule of §4.6.1 over
// an empty visible set, because an Online-and-local instance is
// already removed immediately by Reconcile the moment it disappears
// (spec.md §4.6.1, I4) — it can never linger as Online with nothing
// reporting it. Matching the original agent's check_offline_status,
// Sweep only needs to examine Offline entries.
func (r *Reconciler) Sweep(ctx context.Context) {
	snapshot := r.Instances.Snapshot()
	for name, info := range snapshot {
		status, since := info.Connectivity()
		if status == instancemap.Offline && time.Since(since) >= r.SharedGrace {
			r.terminateInstance(ctx, name)
		}
	}
}

// terminateInstance implements the mark-for-removal action of spec.md
// §4.6.1: idempotent under races because Terminate/DeleteInstance are
// idempotent and Remove on an absent key is a no-op.
func (r *Reconciler) terminateInstance(ctx context.Context, name string) {
	if !r.Instances.Contains(name) {
		return
	}

	if err := r.Factory.Terminate(ctx, name); err != nil {
		tErr := common.NewTransientError(fmt.Sprintf("terminate device plugin for %s", name), err)
		log.WithField("error_kind", tErr.Kind()).WithError(tErr).Warn("reconcile child error")
	}
	if err := r.ClusterAPI.DeleteInstance(ctx, name, r.Config.Namespace); err != nil {
		tErr := common.NewTransientError(fmt.Sprintf("delete instance %s", name), err)
		log.WithField("error_kind", tErr.Kind()).WithError(tErr).Warn("reconcile child error")
		return
	}
	r.Instances.ListAndWatchNotify(name, instancemap.End)
	r.Instances.Remove(name)
}
