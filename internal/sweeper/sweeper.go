// -*- mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2018 IOTech Ltd
//
// SPDX-License-Identifier: Apache-2.0

// Package sweeper implements the Offline Sweeper (spec.md §4.7): a
// periodic per-configuration task that re-applies the Reconciler's
// offline-grace rule, catching instances that have gone offline
// without a discovery response ever arriving to say so. Adapted from
// the teacher's internal/scheduler, which drives periodic work the
// same way with gopkg.in/robfig/cron.v2.
package sweeper

import (
	"context"
	"fmt"

	cron "gopkg.in/robfig/cron.v2"

	"github.com/akri-project/discovery-operator/internal/common"
	"github.com/akri-project/discovery-operator/internal/reconciler"
)

var log = common.ForComponent("sweeper")

type sweepJob struct {
	ctx  context.Context
	name string
	r    *reconciler.Reconciler
}

func (j *sweepJob) Run() {
	log.Debugf("sweeping configuration %s", j.name)
	j.r.Sweep(j.ctx)
}

// Sweeper runs a Reconciler's offline-grace rule every period, until
// Stop is called.
type Sweeper struct {
	cr *cron.Cron
}

// Start schedules the sweep for r every period (a cron "@every"
// duration string, e.g. "30s") and returns immediately. Call Stop (or
// close stop) to end it; shutdown is immediate because the cron
// scheduler itself is stopped rather than waited on mid-tick (spec.md
// §5, sweeper shutdown latency ≤ SWEEP_PERIOD).
func Start(ctx context.Context, configName string, r *reconciler.Reconciler, period string, stop <-chan struct{}) (*Sweeper, error) {
	s := &Sweeper{cr: cron.New()}
	spec := fmt.Sprintf("@every %s", period)

	job := &sweepJob{ctx: ctx, name: configName, r: r}
	if _, err := s.cr.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("sweeper: scheduling configuration %s: %w", configName, err)
	}
	s.cr.Start()

	go func() {
		<-stop
		s.cr.Stop()
	}()

	return s, nil
}

// Stop ends the sweeper immediately.
func (s *Sweeper) Stop() {
	s.cr.Stop()
}
