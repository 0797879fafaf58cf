package store

import "errors"

// ErrModelNotFound reports a lookup or delete for an absent id.
var ErrModelNotFound = errors.New("store: model not found")

// ErrInvalidKind reports a save with a kind outside the known
// formalisms.
var ErrInvalidKind = errors.New("store: invalid model kind")
