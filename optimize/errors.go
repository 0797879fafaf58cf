package optimize

import "errors"

var (
	// ErrUnknownRoot is returned when the requested arborescence root is
	// not an activity of the graph.
	ErrUnknownRoot = errors.New("optimize: root is not an activity of the graph")

	// ErrNoArborescence is returned when some activity cannot be spanned
	// from the root because it has no incoming arc.
	ErrNoArborescence = errors.New("optimize: graph has no spanning arborescence")

	// ErrNoCycle is returned by CollapseCycle when the cycle is empty.
	ErrNoCycle = errors.New("optimize: no cycle to collapse")
)
