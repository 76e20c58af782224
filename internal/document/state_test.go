package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/input/key"
)

func typeText(s *State, text string) *State {
	for _, r := range text {
		s = InsertCharacters(s, string(r))
	}
	return s
}

func TestNewStateCaretAtStart(t *testing.T) {
	s := NewState(WithContent(NewContentFromText("abc")))
	assert.Equal(t, Collapsed(s.Content().FirstBlock().Key(), 0), s.Selection())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestTypingCoalescesIntoOneUndoStep(t *testing.T) {
	s := typeText(NewState(), "hello")
	assert.Equal(t, "hello", s.Content().PlainText())
	assert.Equal(t, 1, s.UndoDepth())

	u := Undo(s)
	assert.Equal(t, "", u.Content().PlainText())
	assert.Equal(t, 0, u.Selection().AnchorOffset)
	assert.True(t, u.CanRedo())

	r := Redo(u)
	assert.True(t, r.Content().Equal(s.Content()))
	assert.Equal(t, s.Selection(), r.Selection())
}

func TestMovingCaretBreaksCoalescing(t *testing.T) {
	s := typeText(NewState(), "ab")
	k := s.Content().FirstBlock().Key()
	s = ForceSelection(s, Collapsed(k, 1))
	s = InsertCharacters(s, "x")
	assert.Equal(t, "axb", s.Content().PlainText())
	assert.Equal(t, 2, s.UndoDepth())
}

func TestPushClearsRedo(t *testing.T) {
	s := typeText(NewState(), "ab")
	s = SplitBlock(s)
	s = Undo(s)
	require.True(t, s.CanRedo())
	s = InsertCharacters(s, "c")
	assert.False(t, s.CanRedo())
}

func TestUndoWithoutHistoryIsNoop(t *testing.T) {
	s := NewState()
	assert.Same(t, s, Undo(s))
	assert.Same(t, s, Redo(s))
}

func TestMaxUndoEntries(t *testing.T) {
	s := NewState(WithMaxUndoEntries(2))
	for i := 0; i < 5; i++ {
		s = SplitBlock(s)
	}
	assert.Equal(t, 2, s.UndoDepth())
}

func TestToggleInlineStyleCollapsedAffectsNextInsert(t *testing.T) {
	s := ToggleInlineStyle(NewState(), StyleBold)
	assert.True(t, CurrentInlineStyle(s).Has(StyleBold))
	s = InsertCharacters(s, "x")
	assert.True(t, s.Content().FirstBlock().StyleAt(0).Has(StyleBold))
	s = InsertCharacters(s, "y")
	assert.True(t, s.Content().FirstBlock().StyleAt(1).Has(StyleBold), "style follows preceding character")
}

func TestToggleInlineStyleOnRange(t *testing.T) {
	s := NewState(WithContent(NewContentFromText("abc")))
	k := s.Content().FirstBlock().Key()
	s = ForceSelection(s, s.Content().Select(k, 0, k, 3))

	s = ToggleInlineStyle(s, StyleItalic)
	assert.Equal(t, []Range{{Offset: 0, Length: 3, Value: StyleItalic}}, s.Content().FirstBlock().StyleRanges())

	s = ToggleInlineStyle(s, StyleItalic)
	assert.Empty(t, s.Content().FirstBlock().StyleRanges())
}

func TestToggleBlockType(t *testing.T) {
	s := NewState(WithContent(NewContentFromText("title")))
	s = ToggleBlockType(s, BlockHeaderOne)
	assert.Equal(t, BlockHeaderOne, CurrentBlockType(s))
	s = ToggleBlockType(s, BlockHeaderOne)
	assert.Equal(t, BlockUnstyled, CurrentBlockType(s))
}

func TestBackspace(t *testing.T) {
	s := typeText(NewState(), "ab👍🏽")
	s = Backspace(s)
	assert.Equal(t, "ab", s.Content().PlainText())

	s = SplitBlock(s)
	s = typeText(s, "c")
	s = ForceSelection(s, Collapsed(s.Content().LastBlock().Key(), 0))
	s = Backspace(s)
	assert.Equal(t, "abc", s.Content().PlainText())
	assert.Equal(t, 1, s.Content().BlockCount())
	assert.Equal(t, 2, s.Selection().AnchorOffset)
}

func TestBackspaceAtStartResetsBlockType(t *testing.T) {
	s := NewState(WithContent(NewContent(NewBlock("a", BlockQuote, "q"))))
	s = Backspace(s)
	assert.Equal(t, BlockUnstyled, CurrentBlockType(s))
	assert.Equal(t, "q", s.Content().PlainText())
}

func TestBackspaceRemovesPrecedingAtomicBlock(t *testing.T) {
	s := typeText(NewState(), "a")
	s, ent := CreateEntity(s, EntityImage, Immutable, map[string]any{"url": "img.png"})
	s = InsertAtomicBlock(s, ent, " ")
	require.Equal(t, 3, s.Content().BlockCount())

	s = Backspace(s)
	assert.Equal(t, 2, s.Content().BlockCount())
	_, ok := s.Content().Entity(ent)
	assert.False(t, ok)
}

func TestBackspaceWord(t *testing.T) {
	s := typeText(NewState(), "one two  ")
	s = BackspaceWord(s)
	assert.Equal(t, "one ", s.Content().PlainText())
}

func TestDeleteForward(t *testing.T) {
	s := NewState(WithContent(NewContentFromText("ab\ncd")))
	s = DeleteForward(s)
	assert.Equal(t, "b\ncd", s.Content().PlainText())

	s = ForceSelection(s, Collapsed(s.Content().FirstBlock().Key(), 1))
	s = DeleteForward(s)
	assert.Equal(t, "bcd", s.Content().PlainText())
}

func TestToggleLinkKeepsSelection(t *testing.T) {
	s := NewState(WithContent(NewContentFromText("site")))
	k := s.Content().FirstBlock().Key()
	sel := s.Content().Select(k, 0, k, 4)
	s = ForceSelection(s, sel)

	s, ent := CreateEntity(s, EntityLink, Mutable, map[string]any{"url": "https://x"})
	assert.Equal(t, 0, s.UndoDepth())
	s = ToggleLink(s, sel, ent)

	assert.Equal(t, sel, s.Selection())
	assert.Equal(t, ent, EntityAt(s.Content(), k, 2))

	s = ToggleLink(s, sel, "")
	assert.Equal(t, "", EntityAt(s.Content(), k, 2))
}

func TestSelectedText(t *testing.T) {
	s := NewState(WithContent(NewContentFromText("abc\ndef")))
	c := s.Content()
	s = ForceSelection(s, c.Select(c.LastBlock().Key(), 2, c.FirstBlock().Key(), 1))
	assert.Equal(t, "bc\nde", SelectedText(s))
}

func TestCharBefore(t *testing.T) {
	s := NewState()
	assert.Equal(t, rune(0), CharBefore(s))
	s = typeText(s, "@")
	assert.Equal(t, '@', CharBefore(s))
}

func TestDefaultKeyBinding(t *testing.T) {
	tests := []struct {
		name string
		ev   key.Event
		want string
	}{
		{"enter", key.NewSpecialEvent(key.KeyEnter, key.ModNone), CommandSplitBlock},
		{"backspace", key.NewSpecialEvent(key.KeyBackspace, key.ModNone), CommandBackspace},
		{"alt backspace", key.NewSpecialEvent(key.KeyBackspace, key.ModAlt), CommandBackspaceWord},
		{"delete", key.NewSpecialEvent(key.KeyDelete, key.ModNone), CommandDelete},
		{"ctrl b", key.NewRuneEvent('b', key.ModCtrl), CommandBold},
		{"meta i", key.NewRuneEvent('i', key.ModMeta), CommandItalic},
		{"ctrl u", key.NewRuneEvent('u', key.ModCtrl), CommandUnderline},
		{"ctrl shift x", key.NewRuneEvent('x', key.ModCtrl|key.ModShift), CommandStrikethrough},
		{"ctrl z", key.NewRuneEvent('z', key.ModCtrl), CommandUndo},
		{"ctrl shift z", key.NewRuneEvent('Z', key.ModCtrl|key.ModShift), CommandRedo},
		{"ctrl y", key.NewRuneEvent('y', key.ModCtrl), CommandRedo},
		{"plain b", key.NewRuneEvent('b', key.ModNone), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultKeyBinding(tt.ev))
		})
	}
}

func TestHandleKeyCommand(t *testing.T) {
	s := typeText(NewState(), "x")
	s, ok := HandleKeyCommand(s, string(BlockCode))
	require.True(t, ok)
	assert.Equal(t, BlockCode, CurrentBlockType(s))

	s, ok = HandleKeyCommand(s, CommandUndo)
	require.True(t, ok)
	assert.Equal(t, BlockUnstyled, CurrentBlockType(s))

	_, ok = HandleKeyCommand(s, "no-such-command")
	assert.False(t, ok)
}
