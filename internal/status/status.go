package status

import "errors"

var (
	ErrNotFound            = errors.New("registration: record not found")
	ErrTransactionConflict = errors.New("store: transaction conflict")
	ErrStoreUnavailable    = errors.New("store: unavailable")
	ErrInvalidCredentials  = errors.New("operator: invalid credentials")
)
