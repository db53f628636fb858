package lprelax

import "github.com/pkg/errors"

// Sentinel errors returned by the package. Call sites wrap them with
// context describing the offending object, so callers can both match the
// failure class with errors.Is and read what happened.
var (
	// ErrInvalidData reports a request that contradicts the current state
	// of the model, such as deleting a coefficient that does not exist or
	// modifying a locked row.
	ErrInvalidData = errors.New("invalid data")

	// ErrSolver reports a failure of the underlying LP solver, including
	// termination states the driver cannot classify.
	ErrSolver = errors.New("LP solver error")
)
