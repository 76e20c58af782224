package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/autocomplete"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/input/key"
)

func people() []autocomplete.Strategy {
	return []autocomplete.Strategy{{
		TriggerChar: "@",
		Items: []autocomplete.Item{
			{Keys: []string{"al", "alice"}, Value: "alice"},
			{Keys: []string{"alfred"}, Value: "alfred"},
			{Keys: []string{"bo", "bob"}, Value: "bob"},
		},
	}}
}

func typeText(e *autocomplete.Engine, s *document.State, text string) *document.State {
	for _, r := range text {
		e.OnCharacterTyped(string(r), s.Selection(), nil)
		s = document.InsertCharacters(s, string(r))
	}
	return s
}

func special(k key.Key) key.Event {
	return key.NewSpecialEvent(k, key.ModNone)
}

func TestCustomCommandTakesPrecedence(t *testing.T) {
	d := New(WithKeyCommands(KeyCommand{
		Name: "stamp",
		Key:  key.MustParse("C-b"),
		Run: func(s *document.State) *document.State {
			return document.InsertCharacters(s, "X")
		},
	}))
	s := document.NewState()

	ev := key.NewRuneEvent('b', key.ModCtrl)
	assert.Equal(t, "stamp", d.Resolve(s, ev))

	s, res := d.Dispatch(s, ev)
	assert.True(t, res.IsOK())
	assert.Equal(t, "stamp", res.Command)
	assert.Equal(t, "X", s.Content().PlainText())
}

func TestCustomCommandMatchesKeyCode(t *testing.T) {
	d := New(WithKeyCommands(KeyCommand{Name: "save", Key: key.MustParse("C-s")}))
	s := document.NewState()

	assert.Equal(t, "save", d.Resolve(s, key.NewRuneEvent('s', key.ModMeta)))
	assert.Equal(t, "save", d.Resolve(s, key.NewRuneEvent('S', key.ModCtrl|key.ModShift)))
	assert.Equal(t, "", d.Resolve(s, key.NewRuneEvent('s', key.ModNone)))
	assert.Equal(t, "", d.Resolve(s, key.NewRuneEvent('s', key.ModAlt)))
}

func TestDefaultBindings(t *testing.T) {
	d := New()
	s := document.NewState()

	tests := []struct {
		name string
		ev   key.Event
		want string
	}{
		{"bold", key.NewRuneEvent('b', key.ModCtrl), document.CommandBold},
		{"enter", special(key.KeyEnter), document.CommandSplitBlock},
		{"backspace", special(key.KeyBackspace), document.CommandBackspace},
		{"plain", key.NewRuneEvent('q', key.ModNone), ""},
		{"arrow without session", special(key.KeyDown), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Resolve(s, tt.ev))
		})
	}
}

func TestAutocompleteNavigationAndCommit(t *testing.T) {
	e := autocomplete.New(people())
	d := New(WithCompleter(e))
	s := typeText(e, document.NewState(), "@al")
	require.True(t, e.Searching())

	assert.Equal(t, CommandAutocompleteNext, d.Resolve(s, special(key.KeyDown)))
	s, res := d.Dispatch(s, special(key.KeyDown))
	assert.True(t, res.IsOK())
	assert.Equal(t, 1, e.Session().SelectedIndex)

	s, _ = d.Dispatch(s, special(key.KeyUp))
	assert.Equal(t, 0, e.Session().SelectedIndex)

	s, res = d.Dispatch(s, special(key.KeyEnter))
	assert.Equal(t, CommandAutocompleteCommit, res.Command)
	assert.False(t, e.Active())
	assert.Equal(t, "alice ", s.Content().PlainText())
}

func TestAutocompleteEscapeDiscards(t *testing.T) {
	e := autocomplete.New(people())
	d := New(WithCompleter(e))
	s := document.InsertCharacters(document.NewState(), "hey ")
	s = typeText(e, s, "@zz")

	s, res := d.Dispatch(s, special(key.KeyEscape))
	assert.Equal(t, CommandAutocompleteCancel, res.Command)
	assert.False(t, e.Active())
	assert.Equal(t, "hey ", s.Content().PlainText())
}

func TestEnterWithEmptyTermSplitsAndCancels(t *testing.T) {
	e := autocomplete.New(people())
	d := New(WithCompleter(e))
	s := typeText(e, document.NewState(), "@")
	require.True(t, e.Active())
	require.False(t, e.Searching())

	s, res := d.Dispatch(s, special(key.KeyEnter))
	assert.Equal(t, document.CommandSplitBlock, res.Command)
	assert.False(t, e.Active())
	assert.Equal(t, 2, s.Content().BlockCount())
}

func TestBackspaceShrinksSearchTerm(t *testing.T) {
	e := autocomplete.New(people())
	d := New(WithCompleter(e))
	s := typeText(e, document.NewState(), "@al")

	s, res := d.Dispatch(s, special(key.KeyBackspace))
	assert.True(t, res.IsOK())
	assert.Equal(t, "a", e.Session().SearchTerm)
	assert.Equal(t, "@a", s.Content().PlainText())

	s, _ = d.Dispatch(s, special(key.KeyBackspace))
	assert.True(t, e.Active())
	assert.Equal(t, "", e.Session().SearchTerm)

	s, _ = d.Dispatch(s, special(key.KeyBackspace))
	assert.False(t, e.Active())
	assert.Equal(t, "", s.Content().PlainText())
}

func TestExecuteUnknownCommand(t *testing.T) {
	d := New()
	s := document.NewState()

	ns, res := d.Execute(s, "no-such-command")
	assert.Same(t, s, ns)
	assert.Equal(t, StatusUnhandled, res.Status)
	assert.False(t, res.Handled())

	ns, res = d.Execute(s, "")
	assert.Same(t, s, ns)
	assert.Equal(t, StatusUnhandled, res.Status)
}

func TestExecuteNoOp(t *testing.T) {
	d := New(WithKeyCommands(KeyCommand{Name: "nothing", Key: key.MustParse("C-k")}))
	s := document.NewState()

	ns, res := d.Execute(s, document.CommandUndo)
	assert.Same(t, s, ns)
	assert.Equal(t, StatusNoOp, res.Status)
	assert.True(t, res.Handled())

	ns, res = d.Execute(s, "nothing")
	assert.Same(t, s, ns)
	assert.Equal(t, StatusNoOp, res.Status)
}

func TestCustomCommandPanicRecovered(t *testing.T) {
	d := New()
	d.Register(KeyCommand{
		Name: "boom",
		Key:  key.MustParse("C-x"),
		Run:  func(*document.State) *document.State { panic("bad script") },
	})
	s := document.NewState()

	ns, res := d.Execute(s, "boom")
	assert.Same(t, s, ns)
	assert.Equal(t, StatusError, res.Status)
	assert.ErrorIs(t, res.Error, ErrPanic)
}

func TestRegisterReplacesByName(t *testing.T) {
	d := New()
	d.Register(KeyCommand{Name: "a", Key: key.MustParse("C-a")})
	d.Register(KeyCommand{Name: "a", Key: key.MustParse("C-e")})

	cmds := d.KeyCommands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "a", d.Resolve(document.NewState(), key.NewRuneEvent('e', key.ModCtrl)))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "no-op", StatusNoOp.String())
	assert.Equal(t, "unhandled", StatusUnhandled.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", Status(42).String())
	assert.Equal(t, "hi", Success("x").WithMessage("hi").Message)
}
