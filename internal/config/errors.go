package config

import (
	"errors"
	"fmt"
)

// CorruptError reports a store file that exists but cannot be parsed.
// The file is never repaired or overwritten automatically; the path is
// included so the user can fix or delete it by hand.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("config file %s could not be parsed: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// NotFoundError reports a profile name that does not exist in the store.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("profile %q does not exist", e.Name)
}

// PersistenceError reports a failed atomic write of the store file.
// Writes are never retried; the cause is typically not transient.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("writing config file %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsNotFound checks if an error is a profile-not-found error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsCorrupt checks if an error is a corrupt-store error.
func IsCorrupt(err error) bool {
	var ce *CorruptError
	return errors.As(err, &ce)
}
