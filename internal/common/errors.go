// Package common defines sentinel errors shared by the storage, repository and
// service layers of the ledger. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Index-level errors. Repositories translate both into nil results.
	ErrorNotFound     = errors.New("not found")
	ErrorDuplicateKey = errors.New("duplicate key")

	// Service-level errors.
	ErrorValidation = errors.New("validation error")

	// ErrInconsistentState is wrapped when a cascade failed and its
	// compensation could not restore the previous state either.
	ErrInconsistentState = errors.New("inconsistent state")
)
