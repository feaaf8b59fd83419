// -*- mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2018-2019 IOTech Ltd
//
// SPDX-License-Identifier: Apache-2.0

package common

import "github.com/sirupsen/logrus"

// LoggingClient is the package-wide structured logger. It plays the
// same role the teacher's common.LoggingClient handle does: call sites
// reach for common.LoggingClient.Info/Error/Debug rather than wiring a
// logger through every constructor.
var LoggingClient = logrus.WithField("component", "discovery-operator")

// ForComponent returns a logger scoped to a sub-component, preserving
// the "component" field convention used across the operator.
func ForComponent(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
