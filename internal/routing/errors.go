package routing

import "errors"

// ErrInsufficientPoints reports that fewer points were supplied than the
// requested operation needs. User input error, not retried.
var ErrInsufficientPoints = errors.New("insufficient points")

// ErrInvalidJumpRange reports a non-positive jump range.
var ErrInvalidJumpRange = errors.New("jump range must be positive")
