package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrCorruptStatus marks a stored status document that cannot be decoded.
	ErrCorruptStatus = errors.New("corrupt planning status document")
)
