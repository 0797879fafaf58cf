package dfg

import "errors"

var (
	// ErrUnknownActivity is returned when an arc references an activity
	// that was never added to the graph.
	ErrUnknownActivity = errors.New("dfg: arc references unknown activity")

	// ErrNoUniqueSource is returned by Validate when the graph does not
	// have exactly one activity without incoming arcs.
	ErrNoUniqueSource = errors.New("dfg: graph must have exactly one source activity")

	// ErrNoUniqueSink is returned by Validate when the graph does not
	// have exactly one activity without outgoing arcs.
	ErrNoUniqueSink = errors.New("dfg: graph must have exactly one sink activity")

	// ErrUnsound is returned by Validate when some activity is not on a
	// path from the source to the sink.
	ErrUnsound = errors.New("dfg: graph is not sound")
)
