package replay

import "errors"

// ErrTimeout reports that a replay search ran out of wall-clock time
// before reaching a verdict. Callers must treat it as "undecided",
// never as a non-fitting trace.
var ErrTimeout = errors.New("replay: search timed out")

// ErrStateLimit reports that a replay search expanded more states than
// its configured cap allows.
var ErrStateLimit = errors.New("replay: state limit exceeded")

// ErrNoFiringSequence reports that no firing sequence connects the
// initial marking to the final marking.
var ErrNoFiringSequence = errors.New("replay: final marking unreachable")
