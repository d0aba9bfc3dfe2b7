// internal/domain/entity/errors.go
package entity

import "errors"

// Store and pipeline failure sentinels, checked with errors.Is by the
// usecases to map failures to caller-facing outcomes.
var (
	// ErrStoreUnavailable marks a failed connectivity pre-check.
	ErrStoreUnavailable = errors.New("tracking store unavailable")

	// ErrWriteNotAcknowledged marks a write the store did not confirm.
	ErrWriteNotAcknowledged = errors.New("write not acknowledged")
)
