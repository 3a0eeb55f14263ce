package core

import "context"

// Storage is a string key-value medium with whole-value overwrite semantics,
// shaped after the browser Web Storage API.
// Adhering to this interface keeps the Store independent of the medium
// (memory, filesystem, SQLite).
type Storage interface {
	// GetItem returns the raw value for key. ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem overwrites the value for key unconditionally.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// Initializer is implemented by media that need setup before first use
// (mkdir, schema creation).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Watchable is implemented by media that can observe writes made by other
// processes, the equivalent of the cross-tab "storage" event.
type Watchable interface {
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// EventType represents the kind of change observed on a key.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of a storage key.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.Key
}
