package parser

import "errors"

// ErrUnknownSemantics reports a causal document whose semantics tag is
// neither "causal-net" nor "causal-matrix".
var ErrUnknownSemantics = errors.New("parser: unknown semantics tag")
