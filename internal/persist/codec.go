package persist

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt marks a document that exists but does not decode.
var ErrCorrupt = errors.New("corrupt document")

// Outcome says how Load arrived at its collection.
type Outcome int

const (
	// Loaded means the document decoded cleanly.
	Loaded Outcome = iota
	// Missing means there was no document yet.
	Missing
	// Corrupt means the document exists but is not a valid collection.
	Corrupt
	// Unreadable means the backend failed to return the document.
	Unreadable
)

func (o Outcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case Missing:
		return "missing"
	case Corrupt:
		return "corrupt"
	case Unreadable:
		return "unreadable"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Encode renders items as a pretty-printed JSON array. A nil slice is
// written as [].
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode parses a JSON array of T. Unknown fields are ignored; any other
// mismatch is reported as ErrCorrupt.
func Decode[T any](data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Load reads and decodes name. It never fails: a missing, corrupt or
// unreadable document yields an empty collection, and the Outcome with
// the underlying error tells which fallback was taken.
func Load[T any](b Backend, name string) ([]T, Outcome, error) {
	data, err := b.Read(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []T{}, Missing, nil
		}
		return []T{}, Unreadable, err
	}
	items, err := Decode[T](data)
	if err != nil {
		return []T{}, Corrupt, err
	}
	return items, Loaded, nil
}
