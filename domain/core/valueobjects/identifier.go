package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Namespace tags an Identifier with the kind of record it names.
// Node and entity identifiers live in separate namespaces and can never
// collide: the namespace is part of the identifier's value.
type Namespace string

const (
	NamespaceNode   Namespace = "node"
	NamespaceEntity Namespace = "entity"
)

// Identifier is a value object for a stable, namespaced unique key.
// It is assigned once at creation and never regenerated for the same
// logical record; the string form is "<namespace>-<uuid>".
type Identifier struct {
	value string
}

// NewNodeIdentifier creates a new random node identifier
func NewNodeIdentifier() Identifier {
	return newIdentifier(NamespaceNode)
}

// NewEntityIdentifier creates a new random entity identifier
func NewEntityIdentifier() Identifier {
	return newIdentifier(NamespaceEntity)
}

func newIdentifier(ns Namespace) Identifier {
	return Identifier{value: string(ns) + "-" + uuid.New().String()}
}

// ParseIdentifier creates an Identifier from an existing string
func ParseIdentifier(s string) (Identifier, error) {
	if s == "" {
		return Identifier{}, errors.New("identifier cannot be empty")
	}
	ns, rest, ok := strings.Cut(s, "-")
	if !ok {
		return Identifier{}, errors.New("identifier must be namespaced")
	}
	if Namespace(ns) != NamespaceNode && Namespace(ns) != NamespaceEntity {
		return Identifier{}, errors.New("unknown identifier namespace: " + ns)
	}
	if _, err := uuid.Parse(rest); err != nil {
		return Identifier{}, errors.New("identifier suffix must be a valid UUID")
	}
	return Identifier{value: s}, nil
}

// Namespace returns the identifier's namespace
func (id Identifier) Namespace() Namespace {
	ns, _, _ := strings.Cut(id.value, "-")
	return Namespace(ns)
}

// String returns the string representation of the Identifier
func (id Identifier) String() string {
	return id.value
}

// Equals checks if two Identifiers are equal
func (id Identifier) Equals(other Identifier) bool {
	return id.value == other.value
}

// IsZero checks if the Identifier is the zero value
func (id Identifier) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id Identifier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *Identifier) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || string(data) == `""` {
		id.value = ""
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("identifier must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
