package types

import "errors"

// Error kinds shared by services and handlers. Services wrap them with
// logger.ErrorWithType so handlers can map them with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence error")
)
