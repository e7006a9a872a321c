package registry

import "errors"

var (
	// ErrUserNotFound is returned when no user exists with the given id
	ErrUserNotFound = errors.New("user not found")
	// ErrCorruptSnapshot is returned when the persisted snapshot cannot be decoded
	ErrCorruptSnapshot = errors.New("corrupt registry snapshot")
	// ErrSnapshotWrite is returned when the snapshot cannot be written
	ErrSnapshotWrite = errors.New("failed to write registry snapshot")
)
