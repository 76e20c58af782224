package autocomplete

import "strings"

// Item is a suggestion offered by a strategy.
type Item struct {
	// Keys are the search keys matched against the search term.
	Keys []string `yaml:"keys" toml:"keys"`

	// Value is inserted into the document when the item is committed.
	Value string `yaml:"value" toml:"value"`

	// Label is the text shown in the suggestion list. Defaults to Value.
	Label string `yaml:"label,omitempty" toml:"label,omitempty"`
}

// DisplayLabel returns the label shown for the item.
func (it Item) DisplayLabel() string {
	if it.Label != "" {
		return it.Label
	}
	return it.Value
}

// matches reports whether any key contains term.
func (it Item) matches(term string) bool {
	for _, k := range it.Keys {
		if strings.Contains(k, term) {
			return true
		}
	}
	return false
}

// Strategy configures autocompletion for one trigger character.
type Strategy struct {
	// TriggerChar opens a session when typed.
	TriggerChar string `yaml:"triggerChar" toml:"triggerChar"`

	// Items are the candidate suggestions, in display order.
	Items []Item `yaml:"items" toml:"items"`

	// InsertSpaceAfter controls the space inserted after a committed
	// item. Nil means true.
	InsertSpaceAfter *bool `yaml:"insertSpaceAfter,omitempty" toml:"insertSpaceAfter,omitempty"`

	// AtomicBlockName, when set, commits items as an atomic block whose
	// entity has this type instead of as inline text.
	AtomicBlockName string `yaml:"atomicBlockName,omitempty" toml:"atomicBlockName,omitempty"`
}

// SpaceAfter reports whether a space follows committed inline items.
func (s *Strategy) SpaceAfter() bool {
	return s.InsertSpaceAfter == nil || *s.InsertSpaceAfter
}
