package domain

import "errors"

var (
	// ErrConfig means a store root or users file is unusable.
	ErrConfig = errors.New("configuration error")

	// ErrValidation means caller input was rejected before touching disk.
	ErrValidation = errors.New("validation error")

	// ErrNotFound means the addressed mark does not exist.
	ErrNotFound = errors.New("mark not found")

	// ErrOutOfFixSlots means all fixup counters of a timestamp are taken.
	ErrOutOfFixSlots = errors.New("out of fix slots")
)
