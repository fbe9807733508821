//go:build !linux && !darwin && !windows

package drives

import "errors"

// List returns no volumes on platforms without an enumeration
// implementation; single paths can still be scanned explicitly.
func List() ([]Volume, error) {
	return nil, nil
}

// Capacity is unavailable on platforms without a statfs implementation.
func Capacity(path string) (Usage, error) {
	return Usage{}, errors.New("capacity probing is not supported on this platform")
}
