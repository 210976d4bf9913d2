package cache

import "errors"

var (
	// ErrStorageUnavailable means the durable cache could not be opened or
	// written. Callers must see this; a dropped transaction record has to
	// be visible.
	ErrStorageUnavailable = errors.New("cache: storage unavailable")

	// ErrConstraintViolation means a catalog write collided on the barcode
	// uniqueness index.
	ErrConstraintViolation = errors.New("cache: barcode constraint violation")
)
