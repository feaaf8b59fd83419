// -*- mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2018 IOTech Ltd
//
// SPDX-License-Identifier: Apache-2.0

package common

// CurrentConfig holds the operator-level configuration loaded at
// startup by internal/config. Set once before any Configuration is
// started.
var CurrentConfig *Config

// NodeName is the local node's name, read from NodeNameEnvVar. Used to
// salt unshared instance digests.
var NodeName string
