// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

// Package digest computes the short, stable instance identifier used
// to key the Instance Map (spec.md §4.1).
package digest

import (
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// Size is the digest length in raw bytes before hex-encoding, yielding
// a 6-hex-character string.
const Size = 3

// Compute returns a 6-lowercase-hex-character BLAKE2b digest of rawID,
// salted with nodeName when the device is not shared. shared devices
// must digest identically on every node; unshared (local) devices must
// digest differently per node with overwhelming probability.
//
// rawID must be non-empty; nodeName is only consulted when !shared.
func Compute(rawID string, shared bool, nodeName string) (string, error) {
	if rawID == "" {
		return "", errors.New("digest: raw id must not be empty")
	}

	input := rawID
	if !shared {
		input += nodeName
	}

	h, err := blake2b.New(Size, nil)
	if err != nil {
		// blake2b.New only errors on an invalid key or out-of-range
		// size; Size is a package constant we control, so this should
		// never happen in practice.
		return "", err
	}
	if _, err := h.Write([]byte(input)); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// InstanceName joins a configuration name with the device digest the
// way the Instance Map keys its entries (spec.md §3 invariant).
func InstanceName(configName, rawID string, shared bool, nodeName string) (string, error) {
	d, err := Compute(rawID, shared, nodeName)
	if err != nil {
		return "", err
	}
	return configName + "-" + d, nil
}
