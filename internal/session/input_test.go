package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/input/key"
	"github.com/dshills/richedit/internal/overlay"
)

func TestAutocompleteCommitOnEnter(t *testing.T) {
	f := &fakeFocuser{}
	c := newController(t, WithStrategies(people()...), WithSuggestLimit(5), WithFocuser(f))

	typeKeys(c, "@al")
	require.NotNil(t, c.Autocomplete())
	assert.Equal(t, "al", c.Autocomplete().SearchTerm)
	require.Len(t, c.Candidates(), 1)

	res := c.KeyDown(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
	assert.Equal(t, dispatcher.CommandAutocompleteCommit, res.Command)
	assert.Equal(t, "alice ", c.Content().PlainText())
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, 1, c.Content().BlockCount())

	c.Tick()
	c.Tick()
	assert.Equal(t, []string{"blur", "focus"}, f.calls)
}

func TestAutocompleteEscapeRestoresText(t *testing.T) {
	c := newController(t, WithStrategies(people()...))
	typeKeys(c, "hello ")
	before := c.Content().PlainText()

	typeKeys(c, "@zz")
	require.NotNil(t, c.Autocomplete())
	assert.Empty(t, c.Candidates())

	press(c, key.KeyEscape)
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, before, c.Content().PlainText())
}

func TestTriggerTwiceOpensOneSession(t *testing.T) {
	c := newController(t, WithStrategies(people()...))
	var opened, updated int
	_, err := c.Subscribe(event.TopicAutocompleteOpened, func(any) error {
		opened++
		return nil
	})
	require.NoError(t, err)
	_, err = c.Subscribe(event.TopicAutocompleteUpdated, func(ev any) error {
		p, ok := event.PayloadOf[AutocompleteEvent](ev)
		require.True(t, ok)
		require.NotNil(t, p.Session)
		updated++
		return nil
	})
	require.NoError(t, err)

	typeKeys(c, "@")
	first := c.auto.Session()
	typeKeys(c, "@")

	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, updated)
	assert.Same(t, first, c.auto.Session())
	assert.Equal(t, "@", c.Autocomplete().SearchTerm)
}

func TestAutocompleteClosedEvent(t *testing.T) {
	c := newController(t, WithStrategies(people()...))
	var closed int
	_, err := c.Subscribe("autocomplete.*", func(ev any) error {
		if e, ok := ev.(event.Topical); ok && e.EventTopic() == event.TopicAutocompleteClosed {
			closed++
		}
		return nil
	})
	require.NoError(t, err)

	typeKeys(c, "@al ")
	assert.Equal(t, 1, closed)
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, "@al ", c.Content().PlainText())
}

func TestAutocompleteNavigation(t *testing.T) {
	strategies := people()
	strategies[0].Items = append(strategies[0].Items, strategies[0].Items[0])
	strategies[0].Items[2].Value = "alison"
	c := newController(t, WithStrategies(strategies...))

	typeKeys(c, "@al")
	require.Len(t, c.Candidates(), 2)

	press(c, key.KeyDown)
	assert.Equal(t, 1, c.Autocomplete().SelectedIndex)
	press(c, key.KeyDown)
	assert.Equal(t, 0, c.Autocomplete().SelectedIndex)
	press(c, key.KeyUp)
	assert.Equal(t, 1, c.Autocomplete().SelectedIndex)

	press(c, key.KeyEnter)
	assert.Equal(t, "alison ", c.Content().PlainText())
}

func TestAutocompletePositionFallsBackToLine(t *testing.T) {
	g := &fakeGeometry{
		editor: overlay.Rect{Top: 100, Left: 20},
		offset: overlay.Position{Top: 5, Left: 7},
	}
	c := newController(t,
		WithStrategies(people()...),
		WithGeometry(g),
		WithOverlay(overlay.WithLineHeight(10)),
		WithContent(document.NewContentFromText("a\nb")),
	)
	k := c.Content().LastBlock().Key()
	c.SetSelection(document.Collapsed(k, 1))

	typeKeys(c, "@")
	require.NotNil(t, c.Autocomplete())
	assert.Equal(t, overlay.Position{Top: 5 + 10 + 10, Left: 7}, c.Autocomplete().Position)
}

func TestBackspaceOverTriggerClosesSession(t *testing.T) {
	c := newController(t, WithStrategies(people()...))
	typeKeys(c, "@a")

	press(c, key.KeyBackspace)
	require.NotNil(t, c.Autocomplete())
	assert.Equal(t, "", c.Autocomplete().SearchTerm)

	press(c, key.KeyBackspace)
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, "", c.Content().PlainText())
}

func TestBackspaceRemovesCombiningCharacter(t *testing.T) {
	c := newController(t, WithStrategies(people()...), WithContent(document.NewContentFromText("XY")))
	typeKeys(c, "@e\u0301")
	require.Equal(t, "@e\u0301XY", c.Content().PlainText())

	press(c, key.KeyBackspace)
	assert.Equal(t, "@XY", c.Content().PlainText())
	require.NotNil(t, c.Autocomplete())
	assert.Equal(t, "", c.Autocomplete().SearchTerm)

	typeKeys(c, "a")
	press(c, key.KeyEscape)
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, "XY", c.Content().PlainText())
}

func TestCommitAfterCombiningBackspace(t *testing.T) {
	c := newController(t, WithStrategies(people()...), WithContent(document.NewContentFromText("XY")))
	typeKeys(c, "@e\u0301")
	press(c, key.KeyBackspace)
	typeKeys(c, "al")
	press(c, key.KeyEnter)
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, "alice XY", c.Content().PlainText())
}

func TestRangeBackspaceClosesSession(t *testing.T) {
	c := newController(t, WithStrategies(people()...), WithContent(document.NewContentFromText("XY")))
	typeKeys(c, "@abc")
	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 2, k, 4))

	press(c, key.KeyBackspace)
	assert.Equal(t, "@aXY", c.Content().PlainText())
	assert.Nil(t, c.Autocomplete())

	press(c, key.KeyEscape)
	assert.Equal(t, "@aXY", c.Content().PlainText())
}

func TestEscapeAfterUndoKeepsText(t *testing.T) {
	c := newController(t, WithStrategies(people()...), WithContent(document.NewContentFromText("XY")))
	typeKeys(c, "@zz")
	require.NotNil(t, c.Autocomplete())
	c.Undo()
	undone := c.Content().PlainText()
	require.NotEqual(t, "@zzXY", undone)

	press(c, key.KeyEscape)
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, undone, c.Content().PlainText())
}

func TestSplitBlockClosesSession(t *testing.T) {
	c := newController(t, WithStrategies(people()...))
	typeKeys(c, "@")
	press(c, key.KeyEnter)
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, 2, c.Content().BlockCount())
}

func TestMaxLength(t *testing.T) {
	c := newController(t, WithMaxLength(5))

	typeKeys(c, "abcdefg")
	assert.Equal(t, "abcde", c.Content().PlainText())
	assert.False(t, c.Type("x"))
	res := c.KeyDown(key.NewRuneEvent('x', key.ModNone))
	assert.Equal(t, dispatcher.StatusNoOp, res.Status)
	assert.True(t, res.Handled())
	assert.False(t, c.Paste("12"))
	assert.Equal(t, "abcde", c.Content().PlainText())

	press(c, key.KeyBackspace)
	assert.True(t, c.Type("x"))
	assert.Equal(t, "abcdx", c.Content().PlainText())
}

func TestMaxLengthCountsGraphemes(t *testing.T) {
	c := newController(t, WithMaxLength(3))
	assert.True(t, c.Type("👍🏽"))
	assert.True(t, c.Type("é"))
	assert.True(t, c.Type("a"))
	assert.False(t, c.Type("b"))
}

func TestMaxLengthAllowsReplacingSelection(t *testing.T) {
	c := newController(t, WithMaxLength(5), WithContent(document.NewContentFromText("abcde")))
	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 1, k, 3))

	assert.True(t, c.Type("XY"))
	assert.Equal(t, "aXYde", c.Content().PlainText())
}

func TestPaste(t *testing.T) {
	c := newController(t, WithStrategies(people()...))
	typeKeys(c, "@")
	require.NotNil(t, c.Autocomplete())

	assert.True(t, c.Paste("one\ntwo"))
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, "@one\ntwo", c.Content().PlainText())
	assert.Equal(t, 2, c.Content().BlockCount())
	assert.False(t, c.Paste(""))
}

func TestCustomKeyCommand(t *testing.T) {
	c := newController(t, WithKeyCommands(dispatcher.KeyCommand{
		Name: "shout",
		Key:  key.MustParse("C-e"),
		Run: func(s *document.State) *document.State {
			return document.InsertCharacters(s, "!")
		},
	}))

	res := c.KeyDown(key.NewRuneEvent('e', key.ModCtrl))
	assert.True(t, res.IsOK())
	assert.Equal(t, "shout", res.Command)
	assert.Equal(t, "!", c.Content().PlainText())

	c.SetKeyCommands(nil)
	res = c.KeyDown(key.NewRuneEvent('e', key.ModCtrl))
	assert.Equal(t, dispatcher.StatusUnhandled, res.Status)
	assert.Equal(t, "!", c.Content().PlainText())
}

func TestKeyDownStyleCommand(t *testing.T) {
	c := newController(t, WithContent(document.NewContentFromText("bold me")))
	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 0, k, 4))

	res := c.KeyDown(key.MustParse("C-b"))
	assert.Equal(t, document.CommandBold, res.Command)
	assert.True(t, c.Content().FirstBlock().StyleAt(0).Has(document.StyleBold))
	assert.False(t, c.Content().FirstBlock().StyleAt(5).Has(document.StyleBold))
}
