package geo

import "errors"

// Errors returned by the geometry API. They describe bad caller input and
// are never retryable.
var (
	ErrAmbiguousPosition    = errors.New("more than one position given")
	ErrMissingPosition      = errors.New("no position given")
	ErrAmbiguousUnit        = errors.New("more than one border unit given")
	ErrUnknownUnit          = errors.New("unknown unit")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
