package causal

import "errors"

var (
	// ErrUnknownActivity is returned when a connection subset references
	// an id that is not an activity of the model.
	ErrUnknownActivity = errors.New("causal: connection references unknown activity")
)
