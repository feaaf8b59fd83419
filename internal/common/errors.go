// -*- mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2017-2018 Canonical Ltd
//
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"strings"

	"github.com/pkg/errors"
)

// AppError is the taxonomy-level error kind used across the reconcile
// and session error paths (spec.md §7): callers classify by Kind()
// rather than by inspecting wrapped error chains.
type AppError interface {
	error
	Kind() string
}

type appError struct {
	kind string
	err  error
}

func (e *appError) Error() string { return e.err.Error() }
func (e *appError) Kind() string  { return e.kind }
func (e *appError) Cause() error  { return e.err }

// NewTransientError wraps a recoverable, locally-handled fault: a
// connect failure, a reconcile child error (device-plugin factory or
// cluster-API delete). Never propagated past the component that caught
// it.
func NewTransientError(msg string, cause error) AppError {
	return &appError{kind: "transient", err: wrapOrNew(msg, cause)}
}

// NewFatalError wraps a configuration error the supervisor cannot
// recover from (spec.md §7, "Fatal configuration error"). cause may be
// nil, e.g. a missing environment variable has no underlying error to
// wrap.
func NewFatalError(msg string, cause error) AppError {
	return &appError{kind: "fatal", err: wrapOrNew(msg, cause)}
}

// wrapOrNew wraps cause with msg, or builds a bare error from msg alone
// when cause is nil — errors.Wrap(nil, ...) returns nil, which would
// otherwise leave appError.err nil.
func wrapOrNew(msg string, cause error) error {
	if cause == nil {
		return errors.New(msg)
	}
	return errors.Wrap(cause, msg)
}

// IsBrokenPipe reports whether a transport error should be classified
// as handler death per spec.md §4.5/§7. This stays a substring match
// deliberately; see DESIGN.md's Open Questions entry.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), BrokenPipeMarker)
}
