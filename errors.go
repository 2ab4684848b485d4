package cryptofolio

import "errors"

// Errors reported by the ledger, the stores and the oracles.
//
// They are always wrapped with context, use errors.Is to test for them.
var (
	// ErrInvalidInput reports a missing or malformed argument. Nothing was written.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailableRate reports a failed price fetch, or a reply without a rate.
	ErrUnavailableRate = errors.New("unavailable rate")
	// ErrStoreUnavailable reports a store that cannot be opened, read or written.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrMalformedBatchRow reports a batch row that does not have the transaction shape.
	// The whole batch is rejected.
	ErrMalformedBatchRow = errors.New("malformed batch row")
)
