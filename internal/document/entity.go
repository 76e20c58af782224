package document

import "maps"

// Mutability controls how an entity reacts to edits of its text range.
type Mutability string

// Entity mutability values.
const (
	Mutable   Mutability = "MUTABLE"
	Immutable Mutability = "IMMUTABLE"
	Segmented Mutability = "SEGMENTED"
)

// Well-known entity types.
const (
	EntityLink             = "LINK"
	EntityImage            = "IMAGE"
	EntityAutocompleteItem = "AC_ITEM"
)

// Entity is an immutable typed data record.
type Entity struct {
	typ        string
	mutability Mutability
	data       map[string]any
}

// NewEntity creates an entity. The data map is copied.
func NewEntity(typ string, mutability Mutability, data map[string]any) *Entity {
	if mutability == "" {
		mutability = Mutable
	}
	return &Entity{typ: typ, mutability: mutability, data: maps.Clone(data)}
}

// Type returns the entity type.
func (e *Entity) Type() string { return e.typ }

// Mutability returns the entity mutability.
func (e *Entity) Mutability() Mutability { return e.mutability }

// Data returns a copy of the entity data.
func (e *Entity) Data() map[string]any {
	if e.data == nil {
		return map[string]any{}
	}
	return maps.Clone(e.data)
}

// String returns the string value stored under key, or "".
func (e *Entity) String(key string) string {
	if v, ok := e.data[key].(string); ok {
		return v
	}
	return ""
}
