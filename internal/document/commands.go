package document

import (
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/dshills/richedit/internal/input/key"
)

// Built-in command names resolved by DefaultKeyBinding and handled by
// HandleKeyCommand.
const (
	CommandBold          = "bold"
	CommandItalic        = "italic"
	CommandUnderline     = "underline"
	CommandCode          = "code"
	CommandStrikethrough = "strikethrough"
	CommandBackspace     = "backspace"
	CommandBackspaceWord = "backspace-word"
	CommandDelete        = "delete"
	CommandSplitBlock    = "split-block"
	CommandUndo          = "undo"
	CommandRedo          = "redo"
	CommandClear         = "clear"
)

var styleCommands = map[string]string{
	CommandBold:          StyleBold,
	CommandItalic:        StyleItalic,
	CommandUnderline:     StyleUnderline,
	CommandCode:          StyleCode,
	CommandStrikethrough: StyleStrikethrough,
}

var blockCommands = map[string]BlockType{
	string(BlockHeaderOne):     BlockHeaderOne,
	string(BlockHeaderTwo):     BlockHeaderTwo,
	string(BlockHeaderThree):   BlockHeaderThree,
	string(BlockQuote):         BlockQuote,
	string(BlockCode):          BlockCode,
	string(BlockUnorderedList): BlockUnorderedList,
	string(BlockOrderedList):   BlockOrderedList,
}

// DefaultKeyBinding maps a key event to a built-in command name, or ""
// when the event should be treated as plain input.
func DefaultKeyBinding(ev key.Event) string {
	mods := ev.Modifiers
	switch ev.Key {
	case key.KeyEnter:
		return CommandSplitBlock
	case key.KeyBackspace:
		if mods.HasAlt() || mods.HasCtrl() {
			return CommandBackspaceWord
		}
		return CommandBackspace
	case key.KeyDelete:
		return CommandDelete
	}
	if !ev.HasCommandModifier() || ev.Key != key.KeyRune {
		return ""
	}
	switch unicode.ToLower(ev.Rune) {
	case 'b':
		return CommandBold
	case 'i':
		return CommandItalic
	case 'u':
		return CommandUnderline
	case 'j':
		return CommandCode
	case 'x':
		if mods.HasShift() {
			return CommandStrikethrough
		}
	case 'z':
		if mods.HasShift() {
			return CommandRedo
		}
		return CommandUndo
	case 'y':
		return CommandRedo
	}
	return ""
}

// HandleKeyCommand applies a built-in command. The boolean reports whether
// the command was recognized; unrecognized commands return s unchanged.
func HandleKeyCommand(s *State, command string) (*State, bool) {
	if style, ok := styleCommands[command]; ok {
		return ToggleInlineStyle(s, style), true
	}
	if typ, ok := blockCommands[command]; ok {
		return ToggleBlockType(s, typ), true
	}
	switch command {
	case CommandBackspace:
		return Backspace(s), true
	case CommandBackspaceWord:
		return BackspaceWord(s), true
	case CommandDelete:
		return DeleteForward(s), true
	case CommandSplitBlock:
		return SplitBlock(s), true
	case CommandUndo:
		return Undo(s), true
	case CommandRedo:
		return Redo(s), true
	case CommandClear:
		return ClearInlineStyles(s), true
	}
	return s, false
}

// InsertCharacters replaces the selection with text using the current
// inline style.
func InsertCharacters(s *State, text string) *State {
	c := s.content.ReplaceText(s.selection, text, CurrentInlineStyle(s), "")
	return Push(s, c, ChangeInsertCharacters)
}

// InsertFragment replaces the selection with possibly multi-line text.
func InsertFragment(s *State, text string) *State {
	c := s.content.InsertFragment(s.selection, text, CurrentInlineStyle(s))
	return Push(s, c, ChangeInsertFragment)
}

// ToggleInlineStyle toggles style over the selection. With a collapsed
// caret it toggles the style used by the next insertion instead.
func ToggleInlineStyle(s *State, style string) *State {
	current := CurrentInlineStyle(s)
	if s.selection.IsCollapsed() {
		next := current.Toggle(style)
		ns := s.copy()
		ns.styleOverride = &next
		return ns
	}
	var c *Content
	if current.Has(style) {
		c = s.content.RemoveInlineStyle(s.selection, style)
	} else {
		c = s.content.ApplyInlineStyle(s.selection, style)
	}
	return Push(s, c, ChangeInlineStyle)
}

// ClearInlineStyles removes every inline style from the selection.
func ClearInlineStyles(s *State) *State {
	if s.selection.IsCollapsed() {
		ns := s.copy()
		ns.styleOverride = &StyleSet{}
		return ns
	}
	c := s.content.mapRange(s.selection, func(m CharMeta) CharMeta {
		m.Style = StyleSet{}
		return m
	})
	return Push(s, c, ChangeInlineStyle)
}

// ToggleBlockType sets the selected blocks to typ, or back to unstyled
// when the start block already has that type.
func ToggleBlockType(s *State, typ BlockType) *State {
	if CurrentBlockType(s) == BlockAtomic {
		return s
	}
	if CurrentBlockType(s) == typ {
		typ = BlockUnstyled
	}
	return Push(s, s.content.SetBlockType(s.selection, typ), ChangeBlockType)
}

// ToggleLink applies entity over sel; an empty entity unwraps any link.
func ToggleLink(s *State, sel Selection, entity string) *State {
	c := s.content.ApplyEntity(sel, entity)
	return Push(s, c.withSelections(s.selection, s.selection), ChangeApplyEntity)
}

// ReplaceEntityData replaces an entity's data, keeping its key, and
// records an apply-entity change. The selection is unchanged.
func ReplaceEntityData(s *State, key string, data map[string]any) *State {
	c := s.content.ReplaceEntityData(key, data)
	if c == s.content {
		return s
	}
	return Push(s, c.withSelections(s.selection, s.selection), ChangeApplyEntity)
}

// SplitBlock splits the current block at the selection.
func SplitBlock(s *State) *State {
	return Push(s, s.content.SplitBlock(s.selection), ChangeSplitBlock)
}

// Backspace deletes the selection, or the grapheme cluster before the
// caret. At the start of a block it removes a preceding atomic block,
// resets a styled block to unstyled, or merges into the previous block.
func Backspace(s *State) *State {
	sel := s.selection
	if !sel.IsCollapsed() {
		return Push(s, s.content.RemoveRange(sel), ChangeRemoveRange)
	}
	c := s.content
	b := c.BlockForKey(sel.AnchorKey)
	if b == nil {
		return s
	}
	o := sel.AnchorOffset
	if o > 0 {
		n := lastGraphemeLen(b.text[:o])
		return Push(s, c.RemoveRange(Selection{AnchorKey: b.key, AnchorOffset: o - n, FocusKey: b.key, FocusOffset: o}), ChangeBackspace)
	}
	prev := c.BlockBefore(b.key)
	switch {
	case b.typ != BlockUnstyled && b.typ != BlockAtomic:
		return Push(s, c.SetBlockType(sel, BlockUnstyled), ChangeBlockType)
	case prev == nil:
		return s
	case prev.typ == BlockAtomic:
		nc := c.RemoveBlock(prev.key)
		return Push(s, nc.withSelections(sel, sel), ChangeRemoveRange)
	}
	return Push(s, c.RemoveRange(Selection{AnchorKey: prev.key, AnchorOffset: prev.Len(), FocusKey: b.key}), ChangeBackspace)
}

// BackspaceWord deletes back to the previous word boundary.
func BackspaceWord(s *State) *State {
	sel := s.selection
	b := s.content.BlockForKey(sel.AnchorKey)
	if !sel.IsCollapsed() || b == nil || sel.AnchorOffset == 0 {
		return Backspace(s)
	}
	o := sel.AnchorOffset
	i := o
	for i > 0 && unicode.IsSpace(b.text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.text[i-1]) {
		i--
	}
	return Push(s, s.content.RemoveRange(Selection{AnchorKey: b.key, AnchorOffset: i, FocusKey: b.key, FocusOffset: o}), ChangeRemoveRange)
}

// DeleteForward deletes the selection, or the grapheme cluster after the
// caret, merging the next block at the end of a block.
func DeleteForward(s *State) *State {
	sel := s.selection
	if !sel.IsCollapsed() {
		return Push(s, s.content.RemoveRange(sel), ChangeRemoveRange)
	}
	c := s.content
	b := c.BlockForKey(sel.AnchorKey)
	if b == nil {
		return s
	}
	o := sel.AnchorOffset
	if o < b.Len() {
		n := firstGraphemeLen(b.text[o:])
		return Push(s, c.RemoveRange(Selection{AnchorKey: b.key, AnchorOffset: o, FocusKey: b.key, FocusOffset: o + n}), ChangeDeleteCharacter)
	}
	next := c.BlockAfter(b.key)
	if next == nil {
		return s
	}
	if next.typ == BlockAtomic {
		nc := c.RemoveBlock(next.key)
		return Push(s, nc.withSelections(sel, sel), ChangeRemoveRange)
	}
	return Push(s, c.RemoveRange(Selection{AnchorKey: b.key, AnchorOffset: o, FocusKey: next.key}), ChangeDeleteCharacter)
}

// RemoveBlock deletes the block at key and records the change.
func RemoveBlock(s *State, key string) *State {
	if s.content.BlockForKey(key) == nil {
		return s
	}
	return Push(s, s.content.RemoveBlock(key), ChangeRemoveRange)
}

// InsertAtomicBlock inserts an atomic block carrying entity at the selection.
func InsertAtomicBlock(s *State, entity, char string) *State {
	return Push(s, s.content.InsertAtomicBlock(s.selection, entity, char), ChangeInsertFragment)
}

// EntityAt returns the entity key at offset in block key, or "".
func EntityAt(c *Content, key string, offset int) string {
	if b := c.BlockForKey(key); b != nil {
		return b.EntityAt(offset)
	}
	return ""
}

// CharBefore returns the rune immediately preceding a collapsed caret,
// or 0 at the start of a block.
func CharBefore(s *State) rune {
	sel := s.selection
	b := s.content.BlockForKey(sel.FocusKey)
	if b == nil || sel.FocusOffset == 0 {
		return 0
	}
	return b.RuneAt(sel.FocusOffset - 1)
}

func lastGraphemeLen(prefix []rune) int {
	n := 1
	g := uniseg.NewGraphemes(string(prefix))
	for g.Next() {
		n = len(g.Runes())
	}
	return n
}

func firstGraphemeLen(suffix []rune) int {
	g := uniseg.NewGraphemes(string(suffix))
	if g.Next() {
		return len(g.Runes())
	}
	return 1
}
