// -*- mode: Go; indent-tabs-mode: t -*-
//
// Copyright (C) 2017-2018 Canonical Ltd
// Copyright (C) 2018 IOTech Ltd
// Copyright (c) 2019 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"

	"github.com/akri-project/discovery-operator/internal/common"
	"github.com/pelletier/go-toml"
)

// LoadConfig loads the operator's local configuration file from confDir
// (or common.ConfigDirectory if empty) and returns the populated Config.
func LoadConfig(confDir string) (*common.Config, error) {
	fmt.Fprintf(os.Stdout, "Init: confDir: %s\n", confDir)

	return loadConfigFromFile(confDir)
}

func loadConfigFromFile(confDir string) (config *common.Config, err error) {
	if len(confDir) == 0 {
		confDir = common.ConfigDirectory
	}

	path := path.Join(confDir, common.ConfigFileName)
	absPath, err := filepath.Abs(path)
	if err != nil {
		err = fmt.Errorf("could not create absolute path to load configuration: %s; %v", path, err)
		return nil, err
	}
	fmt.Fprintf(os.Stdout, "Loading configuration from: %s\n", absPath)

	// As the toml package can panic if TOML is invalid, or elements are
	// found that don't match members of the given struct, use a
	// deferred func to recover from the panic and output a useful
	// error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("could not load configuration file; invalid TOML (%s): %v", path, r)
		}
	}()

	config = &common.Config{}
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load configuration file (%s): %v", path, err)
	}

	err = toml.Unmarshal(contents, config)
	if err != nil {
		return nil, fmt.Errorf("unable to parse configuration file (%s): %v", path, err)
	}

	return config, nil
}
