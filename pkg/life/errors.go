package life

import "github.com/pkg/errors"

// Errors surfaced at the operation boundary. The engine never recovers
// internally; callers match these with errors.Is.
var (
	// ErrCoordinateOutOfRange reports a cell write that would force the
	// root beyond the maximum quadtree level.
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")

	// ErrStepTooLarge reports a step exponent above MaxStepLog, or a step
	// whose headroom cannot be created without exceeding the maximum
	// level.
	ErrStepTooLarge = errors.New("step too large")
)
