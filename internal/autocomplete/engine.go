package autocomplete

import (
	"github.com/rivo/uniseg"
	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/overlay"
)

// MinSearchLength is the search term length at which suggestions appear.
const MinSearchLength = 2

// DefaultSuggestLimit bounds the number of suggestions shown.
const DefaultSuggestLimit = 5

// Direction is a navigation direction in the suggestion list.
type Direction int

const (
	// Down moves to the next suggestion.
	Down Direction = iota
	// Up moves to the previous suggestion.
	Up
)

// Outcome reports what a keystroke did to the autocomplete state.
type Outcome int

const (
	// Ignored means the keystroke did not concern autocompletion.
	Ignored Outcome = iota
	// Opened means a new session started.
	Opened
	// Updated means the search term changed.
	Updated
	// Cancelled means the session closed without inserting anything.
	Cancelled
)

// Session is the in-progress search between the trigger and a commit or
// cancel.
type Session struct {
	Strategy      *Strategy
	SearchTerm    string
	SelectedIndex int

	// Anchor is the caret position before the trigger character.
	Anchor document.Selection

	// Position is where the suggestion list is drawn.
	Position overlay.Position
}

// typedLength is the rune length of the trigger plus the search term.
func (s *Session) typedLength() int {
	return len([]rune(s.Strategy.TriggerChar)) + len([]rune(s.SearchTerm))
}

// intact reports whether c still holds the trigger and search term at the
// anchor. Undo, a moved caret or a range deletion can break that.
func (s *Session) intact(c *document.Content) bool {
	b := c.BlockForKey(s.Anchor.AnchorKey)
	if b == nil {
		return false
	}
	text := []rune(b.Text())
	start := s.Anchor.AnchorOffset
	end := start + s.typedLength()
	if start < 0 || end > len(text) {
		return false
	}
	return string(text[start:end]) == s.Strategy.TriggerChar+s.SearchTerm
}

// dropLastGrapheme removes the final grapheme cluster of s, the unit a
// document backspace deletes.
func dropLastGrapheme(s string) string {
	g := uniseg.NewGraphemes(s)
	end := 0
	for g.Next() {
		end, _ = g.Positions()
	}
	return s[:end]
}

// Option configures an Engine.
type Option func(*Engine)

// WithSuggestLimit sets the maximum number of suggestions.
func WithSuggestLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.suggestLimit = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// Engine tracks at most one autocomplete session.
type Engine struct {
	strategies   []Strategy
	suggestLimit int
	session      *Session
	log          zerolog.Logger
}

// New creates an engine for the given strategies.
func New(strategies []Strategy, opts ...Option) *Engine {
	e := &Engine{
		strategies:   strategies,
		suggestLimit: DefaultSuggestLimit,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetStrategies replaces the configured strategies. An active session
// keeps the strategy it was opened with.
func (e *Engine) SetStrategies(strategies []Strategy, suggestLimit int) {
	e.strategies = strategies
	if suggestLimit > 0 {
		e.suggestLimit = suggestLimit
	}
}

// Session returns the active session, or nil.
func (e *Engine) Session() *Session {
	return e.session
}

// Active reports whether a session is open.
func (e *Engine) Active() bool {
	return e.session != nil
}

// Searching reports whether a session is open with a non-empty term.
func (e *Engine) Searching() bool {
	return e.session != nil && e.session.SearchTerm != ""
}

// strategyFor returns the strategy triggered by ch.
func (e *Engine) strategyFor(ch string) *Strategy {
	for i := range e.strategies {
		if e.strategies[i].TriggerChar == ch {
			return &e.strategies[i]
		}
	}
	return nil
}

// OnCharacterTyped observes a typed character. anchor is the caret before
// the character is inserted; locate is called only when a session opens.
func (e *Engine) OnCharacterTyped(ch string, anchor document.Selection, locate func() overlay.Position) Outcome {
	if e.session != nil {
		// Any space ends the word, even right after the trigger.
		if ch == " " {
			e.Cancel()
			return Cancelled
		}
		e.session.SearchTerm += ch
		e.clampIndex()
		return Updated
	}
	strategy := e.strategyFor(ch)
	if strategy == nil {
		return Ignored
	}
	e.session = &Session{Strategy: strategy, Anchor: anchor}
	if locate != nil {
		e.session.Position = locate()
	}
	e.log.Debug().Str("trigger", ch).Str("anchor", anchor.String()).Msg("autocomplete opened")
	return Opened
}

// OnBackspace observes a backspace. before is the character immediately
// preceding the caret. Deleting the trigger itself cancels the session.
func (e *Engine) OnBackspace(before rune) Outcome {
	s := e.session
	if s == nil {
		return Ignored
	}
	if s.SearchTerm == "" {
		if string(before) == s.Strategy.TriggerChar {
			e.Cancel()
			return Cancelled
		}
		return Ignored
	}
	s.SearchTerm = dropLastGrapheme(s.SearchTerm)
	e.clampIndex()
	return Updated
}

// Candidates returns the matching items for the active session.
func (e *Engine) Candidates() []Item {
	if e.session == nil {
		return nil
	}
	return Candidates(e.session.Strategy.Items, e.session.SearchTerm, e.suggestLimit)
}

// Candidates returns, in order, at most limit items with a key containing
// term. Terms shorter than MinSearchLength match nothing.
func Candidates(items []Item, term string, limit int) []Item {
	if len([]rune(term)) < MinSearchLength {
		return nil
	}
	var out []Item
	for _, it := range items {
		if len(out) == limit {
			break
		}
		if it.matches(term) {
			out = append(out, it)
		}
	}
	return out
}

// Navigate moves the selected index cyclically.
func (e *Engine) Navigate(dir Direction) {
	if e.session == nil {
		return
	}
	n := len(e.Candidates())
	if n < 1 {
		return
	}
	i := e.session.SelectedIndex
	switch dir {
	case Down:
		i = (i + 1) % n
	case Up:
		i = (i - 1 + n) % n
	}
	e.session.SelectedIndex = i
}

// clampIndex resets the selection when it falls outside the candidates.
func (e *Engine) clampIndex() {
	s := e.session
	if n := len(e.Candidates()); s.SelectedIndex >= n || len([]rune(s.SearchTerm)) < MinSearchLength {
		s.SelectedIndex = 0
	}
}

// Cancel closes the session without touching the document.
func (e *Engine) Cancel() {
	if e.session == nil {
		return
	}
	e.log.Debug().Str("term", e.session.SearchTerm).Msg("autocomplete cancelled")
	e.session = nil
}

// Discard closes the session and removes the trigger and search term
// from the document. When the document no longer holds them at the anchor
// it only closes the session.
func (e *Engine) Discard(s *document.State) *document.State {
	sess := e.session
	if sess == nil {
		return s
	}
	e.session = nil
	c := s.Content()
	if !sess.intact(c) {
		e.log.Debug().Str("term", sess.SearchTerm).Msg("autocomplete cancelled: typed text changed")
		return s
	}
	e.log.Debug().Str("term", sess.SearchTerm).Msg("autocomplete discarded")
	typed := c.Select(sess.Anchor.AnchorKey, sess.Anchor.AnchorOffset, sess.Anchor.AnchorKey, sess.Anchor.AnchorOffset+sess.typedLength())
	return document.Push(s, c.RemoveRange(typed), document.ChangeRemoveRange)
}

// Commit inserts the candidate at index, or at the selected index when
// index is negative, and closes the session. Out-of-range indexes, or a
// document that no longer holds the typed text, close the session without
// changing s.
func (e *Engine) Commit(s *document.State, index int) *document.State {
	sess := e.session
	if sess == nil {
		return s
	}
	e.session = nil
	if !sess.intact(s.Content()) {
		e.log.Debug().Str("term", sess.SearchTerm).Msg("autocomplete cancelled: typed text changed")
		return s
	}

	if index < 0 {
		index = sess.SelectedIndex
	}
	items := Candidates(sess.Strategy.Items, sess.SearchTerm, e.suggestLimit)
	if index >= len(items) {
		e.log.Debug().Int("index", index).Int("candidates", len(items)).Msg("autocomplete commit out of range")
		return s
	}
	item := items[index]
	e.log.Debug().Str("value", item.Value).Msg("autocomplete committed")
	return apply(s, sess, item)
}

// apply replaces the trigger and search term with item.
func apply(s *document.State, sess *Session, item Item) *document.State {
	a := sess.Anchor
	c := s.Content()
	replace := c.Select(a.AnchorKey, a.AnchorOffset, a.AnchorKey, a.AnchorOffset+sess.typedLength())
	data := map[string]any{"value": item.Value}

	var key string
	if name := sess.Strategy.AtomicBlockName; name != "" {
		c, key = c.RemoveRange(replace).CreateEntity(name, document.Immutable, data)
		return document.Push(s, c.InsertAtomicBlock(c.SelectionAfter(), key, " "), document.ChangeInsertFragment)
	}

	c, key = c.CreateEntity(document.EntityAutocompleteItem, document.Immutable, data)
	c = c.ReplaceText(replace, item.Value, document.CurrentInlineStyle(s), key)
	if sess.Strategy.SpaceAfter() {
		c = c.InsertText(c.SelectionAfter(), " ", document.CurrentInlineStyle(s), "")
	}
	return document.Push(s, c, document.ChangeInsertFragment)
}
