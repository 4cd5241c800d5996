// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package ctxt provides the GPU driver used in the engine.
package ctxt

import (
	"errors"
	"strings"

	"github.com/gviegas/mfgl/driver"
)

var (
	drv driver.Driver
	gpu driver.GPU
)

var errNoDriver = errors.New("ctxt: driver not found")

// Load attempts to load any driver whose name contains
// the name string. It is case insensitive.
// If name is the empty string, then all registered
// drivers are considered.
// If a driver is already loaded, Load returns its GPU
// without opening another one.
func Load(name string) (driver.GPU, error) {
	if gpu != nil {
		return gpu, nil
	}
	if err := loadDriver(name); err != nil {
		return nil, err
	}
	return gpu, nil
}

// loadDriver attempts to load any driver whose name
// contains the name string.
// It assumes that the drv and gpu vars hold invalid
// values and replaces both on success.
func loadDriver(name string) error {
	drivers := driver.Drivers()
	err := errNoDriver
	name = strings.ToLower(name)
	for i := range drivers {
		if !strings.Contains(strings.ToLower(drivers[i].Name()), name) {
			continue
		}
		var u driver.GPU
		if u, err = drivers[i].Open(); err != nil {
			continue
		}
		drv = drivers[i]
		gpu = u
		return nil
	}
	return err
}

// Unload closes the loaded driver, if any.
func Unload() {
	if drv != nil {
		drv.Close()
	}
	drv = nil
	gpu = nil
}

// Driver returns the driver.Driver.
func Driver() driver.Driver { return drv }

// GPU returns the driver.GPU.
func GPU() driver.GPU { return gpu }
