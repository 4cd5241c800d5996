// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines a set of interfaces encompassing
// the graphics functionality that the renderer needs.
// It is designed to allow platform-specific APIs to be
// implemented in a mostly straightforward manner.
package driver

import (
	"errors"
	"log/slog"
	"sync"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same GPU instance.
	// Implementations that require a current rendering
	// context (e.g., OpenGL) expect the caller to have
	// made one current on the calling thread.
	// Callers should assume that Open is not safe for
	// parallel execution.
	Open() (GPU, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	// Callers should assume that Close is not safe for
	// parallel execution.
	Close()
}

// ErrNotInstalled means that a platform-specific library
// required for the driver to work is not present in the
// system.
var ErrNotInstalled = errors.New("driver: missing required library")

// ErrNoContext means that the driver requires a current
// rendering context and none was found.
var ErrNoContext = errors.New("driver: no current context")

// ErrNoDeviceMemory means that device memory could not
// be allocated.
var ErrNoDeviceMemory = errors.New("driver: out of device memory")

// ErrEmpty means that a buffer or texture was created
// from empty data.
var ErrEmpty = errors.New("driver: empty data")

// Drivers returns the registered Drivers.
// Client code imports specific driver packages, and then
// call this function. As such, drivers that do not register
// themselves on init will not be considered for selection.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver.
// Driver implementations are expected to call Register
// exactly once, from an init function.
// If a driver with the same name has already been
// registered, it will be replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			slog.Warn("driver replaced", "name", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	slog.Debug("driver registered", "name", drv.Name())
}

// Variables used for driver registration.
var (
	// Test code registers drivers from multiple
	// goroutines when run with -parallel.
	mu      sync.Mutex
	drivers []Driver = make([]Driver, 0, 1)
)
