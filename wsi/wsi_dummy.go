// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"errors"
)

// errMissing is returned by NewWindow when no window
// system can be used.
var errMissing = errors.New("wsi: no window system available")

// initDummy sets up the None platform.
// Every window operation fails or does nothing, so
// headless programs can still link against wsi.
func initDummy() {
	newWindow = func(int, int, string) (Window, error) { return nil, errMissing }
	dispatch = func() {}
	setAppName = func(string) {}
	platform = None
}
