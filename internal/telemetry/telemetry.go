// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package telemetry exposes the instance-count metric named in
// spec.md §4.6 step 2.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// InstanceCount is labelled by configuration name and locality, set to
// the size of the most recently reconciled visible-device set.
var InstanceCount = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "akri",
		Subsystem: "discovery_operator",
		Name:      "visible_instances",
		Help:      "Number of devices visible in the most recent discovery response, by configuration and locality.",
	},
	[]string{"configuration", "is_local"},
)

func init() {
	prometheus.MustRegister(InstanceCount)
}

// PublishVisibleCount records the size of a reconcile tick's visible
// set (spec.md §4.6 step 2).
func PublishVisibleCount(configName string, isLocal bool, count int) {
	InstanceCount.WithLabelValues(configName, isLocalLabel(isLocal)).Set(float64(count))
}

func isLocalLabel(isLocal bool) string {
	if isLocal {
		return "true"
	}
	return "false"
}
