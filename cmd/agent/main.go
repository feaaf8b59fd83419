// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// discovery-operator-agent is the process entrypoint. It loads the
// operator configuration, wires the Registered-Handler Map, Stream
// Connector, Cluster API client, and device-plugin factory, then
// starts one Start-Discovery Supervisor per configured Configuration
// (spec.md §4.8) until told to shut down.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"k8s.io/client-go/rest"

	"github.com/akri-project/discovery-operator/internal/clients"
	"github.com/akri-project/discovery-operator/internal/clusterapi"
	"github.com/akri-project/discovery-operator/internal/common"
	"github.com/akri-project/discovery-operator/internal/config"
	"github.com/akri-project/discovery-operator/internal/configuration"
	"github.com/akri-project/discovery-operator/internal/connector"
	"github.com/akri-project/discovery-operator/internal/deviceplugin"
	"github.com/akri-project/discovery-operator/internal/embedded"
	"github.com/akri-project/discovery-operator/internal/handlermap"
	"github.com/akri-project/discovery-operator/internal/instancemap"
	"github.com/akri-project/discovery-operator/internal/reconciler"
	"github.com/akri-project/discovery-operator/internal/scheduler"
	"github.com/akri-project/discovery-operator/internal/supervisor"
)

var confDir string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "discovery-operator-agent",
	Short:         "Akri-style discovery operator agent",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&confDir, "confdir", "c", "", "configuration directory (defaults to "+common.ConfigDirectory+")")
}

// run implements the "Fatal configuration error" path of spec.md §7:
// a missing node name or an unreachable cluster API is propagated to
// the process owner rather than recovered locally.
func run(ctx context.Context) error {
	nodeName := os.Getenv(common.NodeNameEnvVar)
	if nodeName == "" {
		return common.NewFatalError(fmt.Sprintf("%s is not set", common.NodeNameEnvVar), nil)
	}
	common.NodeName = nodeName

	cfg, err := config.LoadConfig(confDir)
	if err != nil {
		return common.NewFatalError("loading configuration", err)
	}
	common.CurrentConfig = cfg

	if level, lerr := logrus.ParseLevel(cfg.Service.LogLevel); lerr == nil {
		logrus.SetLevel(level)
	}

	restCfg, err := rest.InClusterConfig()
	if err != nil {
		return common.NewFatalError("building in-cluster Kubernetes config", err)
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, time.Minute)
	defer cancelWait()
	if err := clients.WaitForClusterAPI(waitCtx, restCfg, 10, 3*time.Second); err != nil {
		return common.NewFatalError("cluster API unreachable", err)
	}

	clusterClient, err := clusterapi.NewClient(restCfg)
	if err != nil {
		return common.NewFatalError("building cluster API client", err)
	}

	handlers := handlermap.New()
	registry := embedded.NewRegistry()
	conn := connector.New(registry)
	factory := deviceplugin.NewDefaultFactory()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	mgr := scheduler.NewManager()
	for _, ce := range cfg.Configurations {
		cfgEntry := configuration.Configuration{
			Name:             ce.Name,
			Namespace:        ce.Namespace,
			UID:              ce.UID,
			Protocol:         ce.Protocol,
			DiscoveryDetails: ce.DiscoveryDetails,
			Spec:             ce.Spec,
		}

		rec := &reconciler.Reconciler{
			Config:      cfgEntry,
			Instances:   instancemap.New(),
			Factory:     factory,
			ClusterAPI:  clusterClient,
			NodeName:    common.NodeName,
			PluginRoot:  common.PluginSocketRoot(),
			SharedGrace: common.SharedInstanceGrace(),
		}

		sv := supervisor.New(cfgEntry, handlers, conn, rec, supervisor.Options{
			UDSRoot:      common.UDSRoot(),
			Backoff:      common.ReconnectBackoff(),
			HandlerGrace: common.HandlerGrace(),
			SweepPeriod:  common.SweepPeriod().String(),
		})

		if err := mgr.Add(runCtx, cfgEntry.Name, sv); err != nil {
			common.LoggingClient.WithError(err).Errorf("starting supervisor for configuration %s", cfgEntry.Name)
		}
	}

	waitForShutdown(ctx)
	mgr.StopAll()
	return nil
}

func waitForShutdown(ctx context.Context) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-sig:
		common.LoggingClient.Info("shutdown signal received")
	}
}
