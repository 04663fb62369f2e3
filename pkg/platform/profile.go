// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	goruntime "runtime"
	"sync"
)

const (
	// NativeUnix covers Linux, macOS and the BSDs: the tool runs directly.
	NativeUnix Profile = "native-unix"
	// NativeWindows is a Windows host, where the tool may live behind WSL.
	NativeWindows Profile = "native-windows"
)

// ErrInvalidProfile is the sentinel error wrapped by InvalidProfileError.
var ErrInvalidProfile = errors.New("invalid platform profile")

type (
	// Profile is the detected host platform category.
	Profile string

	// InvalidProfileError is returned when a Profile is not one of the known values.
	InvalidProfileError struct {
		Value Profile
	}
)

// detectProfileOnce caches the profile for the lifetime of the process.
// GOOS cannot change at runtime, so process-wide caching is safe.
var detectProfileOnce = sync.OnceValue(func() Profile {
	return ProfileFor(goruntime.GOOS)
})

// DetectProfile returns the Profile of the current host.
func DetectProfile() Profile {
	return detectProfileOnce()
}

// ProfileFor maps a GOOS value to its Profile. Every non-Windows OS is
// treated as native Unix.
func ProfileFor(goos string) Profile {
	if goos == Windows {
		return NativeWindows
	}
	return NativeUnix
}

// Error implements the error interface.
func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid platform profile %q (valid: %s, %s)", e.Value, NativeUnix, NativeWindows)
}

// Unwrap returns ErrInvalidProfile so callers can use errors.Is for programmatic detection.
func (e *InvalidProfileError) Unwrap() error { return ErrInvalidProfile }

// Validate returns an error if the Profile is not a known value.
func (p Profile) Validate() error {
	switch p {
	case NativeUnix, NativeWindows:
		return nil
	default:
		return &InvalidProfileError{Value: p}
	}
}

// String returns the string representation of the Profile.
func (p Profile) String() string { return string(p) }

// Family returns the human-readable platform family name used in messages.
func (p Profile) Family() string {
	switch p {
	case NativeWindows:
		return "Windows"
	case NativeUnix:
		return "Unix"
	default:
		return "unknown"
	}
}
