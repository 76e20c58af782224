package session

import (
	"github.com/dshills/richedit/internal/autocomplete"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/overlay"
	"github.com/dshills/richedit/internal/prompt"
)

const source = "session"

// ChangeEvent is published on event.TopicDocumentChanged.
type ChangeEvent struct {
	State  *document.State
	Change document.ChangeType
}

// SaveEvent is published on event.TopicDocumentSaved.
type SaveEvent struct {
	Payload string
}

// ToolbarEvent is published on event.TopicToolbarMoved.
type ToolbarEvent struct {
	Shown    bool
	Position overlay.Position
}

// AutocompleteEvent is published on the autocomplete topics. Session is a
// copy of the engine's session and is nil once closed.
type AutocompleteEvent struct {
	Session    *autocomplete.Session
	Candidates []autocomplete.Item
}

// PromptEvent is published on the prompt topics.
type PromptEvent struct {
	Prompt    prompt.Prompt
	Confirmed bool
}

// EmbedEvent is published on event.TopicEmbedFocused.
type EmbedEvent struct {
	BlockKey string
}

// Subscribe registers fn for events whose topic matches pattern.
func (c *Controller) Subscribe(pattern event.Topic, fn event.HandlerFunc, opts ...event.SubscriptionOption) (*event.Subscription, error) {
	return c.bus.Subscribe(pattern, fn, opts...)
}

func publish[T any](c *Controller, topic event.Topic, payload T) {
	if err := c.bus.Publish(event.NewEvent(topic, payload, source)); err != nil {
		c.log.Debug().Err(err).Str("topic", topic.String()).Msg("event handler failed")
	}
}

// acSnapshot captures the observable autocomplete state before an input.
type acSnapshot struct {
	session *autocomplete.Session
	term    string
	index   int
}

func (c *Controller) snapshotAutocomplete() acSnapshot {
	s := c.auto.Session()
	if s == nil {
		return acSnapshot{}
	}
	return acSnapshot{session: s, term: s.SearchTerm, index: s.SelectedIndex}
}

// notifyAutocomplete publishes the transition from prev to the current
// autocomplete state, if any.
func (c *Controller) notifyAutocomplete(prev acSnapshot) {
	cur := c.auto.Session()
	switch {
	case prev.session == nil && cur == nil:
		return
	case cur == nil:
		publish(c, event.TopicAutocompleteClosed, AutocompleteEvent{})
		return
	case prev.session != cur:
		if prev.session != nil {
			publish(c, event.TopicAutocompleteClosed, AutocompleteEvent{})
		}
		publish(c, event.TopicAutocompleteOpened, c.autocompleteEvent())
	case prev.term != cur.SearchTerm || prev.index != cur.SelectedIndex:
		publish(c, event.TopicAutocompleteUpdated, c.autocompleteEvent())
	}
}

func (c *Controller) autocompleteEvent() AutocompleteEvent {
	s := *c.auto.Session()
	return AutocompleteEvent{Session: &s, Candidates: c.auto.Candidates()}
}
