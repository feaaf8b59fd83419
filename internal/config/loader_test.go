// -*- Mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2017-2018 Canonical Ltd
// Copyright (C) 2018 IOTech Ltd
// Copyright (c) 2019 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
)

func TestLoadConfigFromFile(t *testing.T) {
	config, err := loadConfigFromFile("./test")

	if err != nil {
		t.Fatalf("Fail to load config from file, %v", err)
	} else if config.Service.LogLevel != "debug" {
		t.Errorf("Unexpected test result, LogLevel should be 'debug', got %q", config.Service.LogLevel)
	} else if config.Agent.HandlerGraceSeconds != 300 {
		t.Errorf("Unexpected test result, HandlerGraceSeconds should be 300, got %d", config.Agent.HandlerGraceSeconds)
	} else if config.Agent.SweepPeriodSeconds != 30 {
		t.Errorf("Unexpected test result, SweepPeriodSeconds should be 30, got %d", config.Agent.SweepPeriodSeconds)
	} else if len(config.Configurations) != 1 {
		t.Fatalf("expected exactly one configured Configuration entry, got %d", len(config.Configurations))
	} else if config.Configurations[0].Name != "debug-echo-cameras" {
		t.Errorf("unexpected configuration name %q", config.Configurations[0].Name)
	} else if config.Configurations[0].UID != "8f14e45f-ceea-4a9f-9d3e-aaaaaaaaaaaa" {
		t.Errorf("unexpected configuration UID %q", config.Configurations[0].UID)
	} else if config.Configurations[0].DiscoveryDetails["descriptions"] != "cam1,cam2" {
		t.Errorf("unexpected discovery details: %+v", config.Configurations[0].DiscoveryDetails)
	}
}

func TestLoadConfigFromFileMissing(t *testing.T) {
	if _, err := loadConfigFromFile("./does-not-exist"); err == nil {
		t.Error("expected an error loading a missing configuration file")
	}
}
