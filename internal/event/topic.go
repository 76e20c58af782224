package event

import "strings"

// Topic represents a hierarchical event type using dot notation.
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator is the character used to separate topic segments.
	Separator = "."
)

// Session topics.
const (
	TopicDocumentChanged     Topic = "document.changed"
	TopicDocumentSaved       Topic = "document.saved"
	TopicToolbarMoved        Topic = "toolbar.moved"
	TopicAutocompleteOpened  Topic = "autocomplete.opened"
	TopicAutocompleteUpdated Topic = "autocomplete.updated"
	TopicAutocompleteClosed  Topic = "autocomplete.closed"
	TopicPromptOpened        Topic = "prompt.opened"
	TopicPromptClosed        Topic = "prompt.closed"
	TopicEmbedFocused        Topic = "embed.focused"
	TopicSessionUnmounted    Topic = "session.unmounted"
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Validate reports whether the topic is usable as a concrete event type.
// Concrete topics may not contain wildcards or empty segments.
func (t Topic) Validate() error {
	if t == "" {
		return ErrInvalidTopic
	}
	for _, seg := range t.Segments() {
		if seg == "" || seg == WildcardSingle || seg == WildcardMulti {
			return ErrInvalidTopic
		}
	}
	return nil
}

// Matches reports whether the concrete topic t matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(pattern.Segments(), t.Segments())
}

func matchSegments(pattern, topic []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		if head == WildcardMulti {
			rest := pattern[1:]
			for i := 0; i <= len(topic); i++ {
				if matchSegments(rest, topic[i:]) {
					return true
				}
			}
			return false
		}
		if len(topic) == 0 || (head != WildcardSingle && head != topic[0]) {
			return false
		}
		pattern, topic = pattern[1:], topic[1:]
	}
	return len(topic) == 0
}
