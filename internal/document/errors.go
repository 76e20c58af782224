package document

import "errors"

// Errors returned by document operations.
var (
	// ErrInvalidPayload indicates a raw payload could not be parsed.
	ErrInvalidPayload = errors.New("invalid document payload")

	// ErrBlockNotFound indicates a block key does not exist in the content.
	ErrBlockNotFound = errors.New("block not found")

	// ErrEntityNotFound indicates an entity key does not exist in the content.
	ErrEntityNotFound = errors.New("entity not found")
)
