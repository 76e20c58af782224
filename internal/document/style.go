package document

import (
	"slices"
	"strings"
)

// Built-in inline style names.
const (
	StyleBold          = "BOLD"
	StyleItalic        = "ITALIC"
	StyleUnderline     = "UNDERLINE"
	StyleCode          = "CODE"
	StyleStrikethrough = "STRIKETHROUGH"
	StyleHighlight     = "HIGHLIGHT"
)

// StyleSet is an immutable, sorted set of inline style names.
// The zero value is the empty set.
type StyleSet struct {
	names []string
}

// NewStyleSet creates a style set from the given names.
func NewStyleSet(names ...string) StyleSet {
	var s StyleSet
	for _, n := range names {
		s = s.Add(n)
	}
	return s
}

// Has reports whether the set contains name.
func (s StyleSet) Has(name string) bool {
	_, ok := slices.BinarySearch(s.names, name)
	return ok
}

// Add returns a set that also contains name.
func (s StyleSet) Add(name string) StyleSet {
	i, ok := slices.BinarySearch(s.names, name)
	if ok || name == "" {
		return s
	}
	names := make([]string, 0, len(s.names)+1)
	names = append(names, s.names[:i]...)
	names = append(names, name)
	names = append(names, s.names[i:]...)
	return StyleSet{names: names}
}

// Remove returns a set without name.
func (s StyleSet) Remove(name string) StyleSet {
	i, ok := slices.BinarySearch(s.names, name)
	if !ok {
		return s
	}
	names := make([]string, 0, len(s.names)-1)
	names = append(names, s.names[:i]...)
	names = append(names, s.names[i+1:]...)
	return StyleSet{names: names}
}

// Toggle adds name if absent, removes it otherwise.
func (s StyleSet) Toggle(name string) StyleSet {
	if s.Has(name) {
		return s.Remove(name)
	}
	return s.Add(name)
}

// Names returns the style names in sorted order.
func (s StyleSet) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of styles in the set.
func (s StyleSet) Len() int {
	return len(s.names)
}

// IsEmpty reports whether the set has no styles.
func (s StyleSet) IsEmpty() bool {
	return len(s.names) == 0
}

// Equal reports whether both sets contain the same styles.
func (s StyleSet) Equal(o StyleSet) bool {
	return slices.Equal(s.names, o.names)
}

// String returns a "+"-joined representation, e.g. "BOLD+ITALIC".
func (s StyleSet) String() string {
	return strings.Join(s.names, "+")
}
