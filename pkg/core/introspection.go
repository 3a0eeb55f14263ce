package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Key           string `json:"key"`
	StorageType   string `json:"storage_type"`
	ReadOnly      bool   `json:"read_only"`
	ParseFailures int64  `json:"parse_failures"`
	WriteFailures int64  `json:"write_failures"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	storageType := "unknown"
	if comp, ok := s.storage.(introspection.Component); ok {
		storageType = comp.ComponentType()
	}

	return StoreState{
		Key:           StorageKey,
		StorageType:   storageType,
		ReadOnly:      s.readOnly,
		ParseFailures: s.parseFailures.Load(),
		WriteFailures: s.writeFailures.Load(),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
