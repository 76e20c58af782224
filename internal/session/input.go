package session

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/input/key"
	"github.com/dshills/richedit/internal/overlay"
)

// CommandInsertCharacters is the command reported for plain typing.
const CommandInsertCharacters = "insert-characters"

// CommandPaste is the command reported for a paste.
const CommandPaste = "paste"

// Type inserts text typed at the caret and feeds it to autocompletion.
// It reports whether the text was inserted; text that would exceed the
// maximum length is dropped.
func (c *Controller) Type(text string) bool {
	if c.readOnly || c.unmounted || text == "" {
		return false
	}
	prev := c.snapshotAutocomplete()
	defer c.notifyAutocomplete(prev)
	return c.typeText(text)
}

func (c *Controller) typeText(text string) bool {
	if !c.fits(text) {
		c.log.Debug().Str("text", text).Int("max_length", c.maxLength).Msg("insertion rejected: length limit")
		return false
	}
	anchor := c.state.Selection().CollapseToStart()
	c.auto.OnCharacterTyped(text, anchor, c.locateCaret)
	return c.commit(document.InsertCharacters(c.state, text))
}

// Paste inserts possibly multi-line text. The whole paste is rejected when
// it would exceed the maximum length.
func (c *Controller) Paste(text string) bool {
	if c.readOnly || c.unmounted || text == "" {
		return false
	}
	if !c.fits(text) {
		c.log.Debug().Int("runes", len([]rune(text))).Int("max_length", c.maxLength).Msg("paste rejected: length limit")
		return false
	}
	prev := c.snapshotAutocomplete()
	c.auto.Cancel()
	c.notifyAutocomplete(prev)
	return c.commit(document.InsertFragment(c.state, text))
}

// fits reports whether replacing the selection with text keeps the plain
// text within the maximum length.
func (c *Controller) fits(text string) bool {
	if c.maxLength <= 0 {
		return true
	}
	selected := graphemes(document.SelectedText(c.state))
	n := c.state.Content().PlainTextLength() - selected + graphemes(text)
	return n <= c.maxLength
}

// graphemes counts user-perceived characters, ignoring block separators.
func graphemes(s string) int {
	return uniseg.GraphemeClusterCount(strings.ReplaceAll(s, "\n", ""))
}

// locateCaret positions the autocomplete list at the caret.
func (c *Controller) locateCaret() overlay.Position {
	line := lineOf(c.state.Content(), c.state.Selection().StartKey())
	return c.positioner.AutocompletePosition(c.geometry, line)
}

// KeyDown resolves and runs a key event. Printable characters without a
// command modifier are typed.
func (c *Controller) KeyDown(ev key.Event) dispatcher.Result {
	if c.unmounted {
		return dispatcher.Unhandled("")
	}
	if c.readOnly {
		return dispatcher.NoOp("")
	}

	prev := c.snapshotAutocomplete()
	defer c.notifyAutocomplete(prev)

	cmd := c.dispatch.Resolve(c.state, ev)
	if cmd == "" && ev.IsChar() {
		if c.typeText(string(ev.Rune)) {
			return dispatcher.Success(CommandInsertCharacters)
		}
		return dispatcher.NoOp(CommandInsertCharacters)
	}

	ns, res := c.dispatch.Execute(c.state, cmd)
	c.commit(ns)
	if res.Command == dispatcher.CommandAutocompleteCommit {
		c.Focus()
	}
	return res
}
