package enums

import (
	"fmt"
	"sync"
)

// MediableType tags the kind of entity a media record belongs to. Unlike the
// closed enums in this package, the set of known mediable types is registered
// at runtime so new owner kinds can be added without a schema change.
type MediableType string

const (
	MediableTypeProducts MediableType = "products"
)

var (
	mediableTypesMu      sync.RWMutex
	knownMediableTypes   = map[MediableType]struct{}{MediableTypeProducts: {}}
	orderedMediableTypes = []MediableType{MediableTypeProducts}
)

// RegisterMediableType adds an owner kind to the known set. Registering an
// already-known kind is a no-op.
func RegisterMediableType(value MediableType) error {
	if value == "" {
		return fmt.Errorf("mediable type must not be empty")
	}
	mediableTypesMu.Lock()
	defer mediableTypesMu.Unlock()
	if _, ok := knownMediableTypes[value]; ok {
		return nil
	}
	knownMediableTypes[value] = struct{}{}
	orderedMediableTypes = append(orderedMediableTypes, value)
	return nil
}

// String implements fmt.Stringer.
func (m MediableType) String() string {
	return string(m)
}

// IsValid reports whether the value has been registered.
func (m MediableType) IsValid() bool {
	mediableTypesMu.RLock()
	defer mediableTypesMu.RUnlock()
	_, ok := knownMediableTypes[m]
	return ok
}

// ParseMediableType converts the raw string to a registered MediableType.
func ParseMediableType(value string) (MediableType, error) {
	candidate := MediableType(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid mediable type %q", value)
	}
	return candidate, nil
}

// MediableTypes returns the registered owner kinds in registration order.
func MediableTypes() []MediableType {
	mediableTypesMu.RLock()
	defer mediableTypesMu.RUnlock()
	out := make([]MediableType, len(orderedMediableTypes))
	copy(out, orderedMediableTypes)
	return out
}
