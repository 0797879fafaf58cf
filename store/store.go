// Package store persists serialized process models. Two
// implementations share one contract: an in-memory store for tests and
// tooling, and a SQLite store for durable repositories.
package store

import (
	"context"
	"time"
)

// Kind tags the formalism a stored payload encodes.
type Kind string

const (
	KindDFG          Kind = "dfg"
	KindCausalNet    Kind = "causal-net"
	KindCausalMatrix Kind = "causal-matrix"
	KindPetriNet     Kind = "petri-net"
)

// Valid reports whether the kind is one of the known formalisms.
func (k Kind) Valid() bool {
	switch k {
	case KindDFG, KindCausalNet, KindCausalMatrix, KindPetriNet:
		return true
	default:
		return false
	}
}

// Model is one stored process model. Payload carries the parser JSON
// for the tagged kind.
type Model struct {
	ID        string
	Name      string
	Kind      Kind
	Payload   []byte
	CreatedAt time.Time
}

// Store is the model repository contract. SaveModel upserts by id,
// minting a fresh id when absent, and returns the id under which the
// model landed.
type Store interface {
	SaveModel(ctx context.Context, m Model) (string, error)
	Model(ctx context.Context, id string) (Model, error)
	Models(ctx context.Context) ([]Model, error)
	DeleteModel(ctx context.Context, id string) error
	Close() error
}
