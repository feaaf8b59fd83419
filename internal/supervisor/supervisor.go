// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package supervisor implements the Start-Discovery Supervisor
// (spec.md §4.8): the root task for one configuration, owning initial
// fanout, the registration watcher, and the offline sweeper.
package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/akri-project/discovery-operator/internal/common"
	"github.com/akri-project/discovery-operator/internal/configuration"
	"github.com/akri-project/discovery-operator/internal/connector"
	"github.com/akri-project/discovery-operator/internal/handlermap"
	"github.com/akri-project/discovery-operator/internal/reconciler"
	"github.com/akri-project/discovery-operator/internal/session"
	"github.com/akri-project/discovery-operator/internal/sweeper"
)

var log = common.ForComponent("supervisor")

// Options configures a Supervisor's dependencies and timing, set once
// at construction from the loaded configuration (spec.md §9).
type Options struct {
	UDSRoot      string
	Backoff      time.Duration
	HandlerGrace time.Duration
	SweepPeriod  string
}

// Supervisor owns every long-lived task for one Configuration: the
// Handler Sessions it spawns, the registration watcher, and the
// sweeper. Only one Supervisor exists per Configuration at a time.
type Supervisor struct {
	config     configuration.Configuration
	handlers   *handlermap.Map
	connector  *connector.Connector
	reconciler *reconciler.Reconciler
	opts       Options

	wg   sync.WaitGroup
	stop chan struct{}

	finished chan struct{}
}

// New builds a Supervisor for a Configuration. The returned value does
// no work until Run is called.
func New(cfg configuration.Configuration, handlers *handlermap.Map, conn *connector.Connector, rec *reconciler.Reconciler, opts Options) *Supervisor {
	return &Supervisor{
		config:     cfg,
		handlers:   handlers,
		connector:  conn,
		reconciler: rec,
		opts:       opts,
		stop:       make(chan struct{}),
		finished:   make(chan struct{}),
	}
}

// Run starts the three child tasks of spec.md §4.8 and blocks until
// ctx is cancelled or Stop is called, at which point it broadcasts
// stop to every HandlerEntry of this configuration's protocol, awaits
// every child, and closes the finished-discovery signal returned by
// Finished.
func (sv *Supervisor) Run(ctx context.Context) {
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sv.initialFanout(sessionCtx)

	newHandlers := sv.handlers.SubscribeNewHandler()
	sv.wg.Add(1)
	go func() {
		defer sv.wg.Done()
		sv.watchRegistrations(sessionCtx, newHandlers)
	}()

	sw, err := sweeper.Start(sessionCtx, sv.config.Name, sv.reconciler, sv.opts.SweepPeriod, sv.stop)
	if err != nil {
		log.WithError(err).Errorf("start sweeper for configuration %s", sv.config.Name)
	}

	select {
	case <-ctx.Done():
	case <-sv.stop:
	}

	sv.broadcastStop()
	if sw != nil {
		sw.Stop()
	}
	cancel()
	sv.wg.Wait()

	close(sv.finished)
}

// Stop signals the supervisor to begin orderly shutdown. Safe to call
// more than once.
func (sv *Supervisor) Stop() {
	select {
	case <-sv.stop:
	default:
		close(sv.stop)
	}
}

// Finished returns a channel closed once shutdown has completed and
// the finished-discovery signal has been emitted (spec.md §4.8, §7).
func (sv *Supervisor) Finished() <-chan struct{} {
	return sv.finished
}

// initialFanout implements spec.md §4.8 step 1: spawn a session for
// every currently-registered handler of this protocol that isn't
// already HasClient.
func (sv *Supervisor) initialFanout(ctx context.Context) {
	for _, entry := range sv.handlers.Snapshot(sv.config.Protocol) {
		status, _ := entry.Connectivity()
		if status != handlermap.HasClient {
			sv.spawnSession(ctx, entry)
		}
	}
}

// watchRegistrations implements spec.md §4.8 step 2: spawn a new
// session for every subsequent handler registered under this protocol.
func (sv *Supervisor) watchRegistrations(ctx context.Context, newHandlers <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case protocol, ok := <-newHandlers:
			if !ok {
				return
			}
			if protocol != sv.config.Protocol {
				continue
			}
			for _, entry := range sv.handlers.Snapshot(sv.config.Protocol) {
				status, _ := entry.Connectivity()
				if status != handlermap.HasClient {
					sv.spawnSession(ctx, entry)
				}
			}
		}
	}
}

func (sv *Supervisor) spawnSession(ctx context.Context, entry *handlermap.HandlerEntry) {
	s := &session.Session{
		Protocol:         sv.config.Protocol,
		Entry:            entry,
		Handlers:         sv.handlers,
		Connector:        sv.connector,
		Reconciler:       sv.reconciler,
		UDSRoot:          sv.opts.UDSRoot,
		Backoff:          sv.opts.Backoff,
		Grace:            sv.opts.HandlerGrace,
		DiscoveryDetails: sv.config.DiscoveryDetails,
	}
	sv.wg.Add(1)
	go func() {
		defer sv.wg.Done()
		s.Run(ctx)
	}()
}

// broadcastStop fires the stop signal of every HandlerEntry registered
// under this configuration's protocol, per spec.md §4.8 shutdown.
func (sv *Supervisor) broadcastStop() {
	for _, entry := range sv.handlers.Snapshot(sv.config.Protocol) {
		entry.StopSignal.Fire()
	}
}
