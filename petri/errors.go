package petri

import "errors"

// ErrDuplicateID reports a node id used by more than one place or
// transition.
var ErrDuplicateID = errors.New("petri: duplicate node id")

// ErrUnknownNode reports an arc endpoint that matches no node.
var ErrUnknownNode = errors.New("petri: unknown node")

// ErrSameKindArc reports an arc connecting two places or two
// transitions.
var ErrSameKindArc = errors.New("petri: arc connects nodes of the same kind")
