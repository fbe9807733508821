package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoVolumes is returned when volume enumeration finds nothing to scan.
	ErrNoVolumes = errors.New("no fixed volumes found")

	// ErrNotDirectory is returned when a volume root exists but is not a
	// directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrInvalidOptions is returned when scan options fail validation.
	ErrInvalidOptions = errors.New("invalid scan options")
)

func errInvalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOptions, msg)
}
