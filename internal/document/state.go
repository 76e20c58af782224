package document

// ChangeType labels the kind of change recorded by Push.
type ChangeType string

// Change types recorded in the undo history.
const (
	ChangeNone             ChangeType = ""
	ChangeInsertCharacters ChangeType = "insert-characters"
	ChangeBackspace        ChangeType = "backspace-character"
	ChangeDeleteCharacter  ChangeType = "delete-character"
	ChangeRemoveRange      ChangeType = "remove-range"
	ChangeSplitBlock       ChangeType = "split-block"
	ChangeInsertFragment   ChangeType = "insert-fragment"
	ChangeInlineStyle      ChangeType = "change-inline-style"
	ChangeBlockType        ChangeType = "change-block-type"
	ChangeBlockData        ChangeType = "change-block-data"
	ChangeApplyEntity      ChangeType = "apply-entity"
	ChangeUndo             ChangeType = "undo"
	ChangeRedo             ChangeType = "redo"
)

// coalesces reports whether consecutive changes of this type share one
// undo step.
func (t ChangeType) coalesces() bool {
	switch t {
	case ChangeInsertCharacters, ChangeBackspace, ChangeDeleteCharacter:
		return true
	}
	return false
}

// DefaultMaxUndoEntries bounds the undo stack.
const DefaultMaxUndoEntries = 1000

// State is an immutable editor state: content, selection and history.
type State struct {
	content    *Content
	selection  Selection
	undo       *stack
	redo       *stack
	lastChange ChangeType
	maxUndo    int

	// styleOverride is the inline style to use for the next insertion at a
	// collapsed caret, set by toggling a style with nothing selected.
	styleOverride *StyleSet
}

// StateOption configures a State during creation.
type StateOption func(*State)

// WithContent sets the initial content.
func WithContent(c *Content) StateOption {
	return func(s *State) {
		if c != nil {
			s.content = c
		}
	}
}

// WithMaxUndoEntries bounds the number of undo steps retained.
func WithMaxUndoEntries(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.maxUndo = n
		}
	}
}

// NewState creates a state with an empty document unless WithContent is given.
// The caret starts at the beginning of the first block.
func NewState(opts ...StateOption) *State {
	s := &State{maxUndo: DefaultMaxUndoEntries}
	for _, opt := range opts {
		opt(s)
	}
	if s.content == nil {
		s.content = NewContent()
	}
	s.selection = Collapsed(s.content.FirstBlock().key, 0)
	return s
}

// Content returns the current content.
func (s *State) Content() *Content { return s.content }

// Selection returns the current selection.
func (s *State) Selection() Selection { return s.selection }

// LastChangeType returns the type of the most recent pushed change.
func (s *State) LastChangeType() ChangeType { return s.lastChange }

// CanUndo reports whether an undo step is available.
func (s *State) CanUndo() bool { return s.undo.len() > 0 }

// CanRedo reports whether a redo step is available.
func (s *State) CanRedo() bool { return s.redo.len() > 0 }

// UndoDepth returns the number of undo steps available.
func (s *State) UndoDepth() int { return s.undo.len() }

func (s *State) copy() *State {
	ns := *s
	return &ns
}

// Push records content as the new current content. The previous content
// goes on the undo stack unless the change coalesces with the last one.
// The redo stack is cleared.
func Push(s *State, c *Content, change ChangeType) *State {
	if c == nil || c == s.content {
		return s
	}
	ns := s.copy()
	boundary := change != s.lastChange || !change.coalesces() || !s.CanUndo() ||
		s.selection != s.content.selectionAfter
	if boundary {
		ns.undo = s.undo.push(s.content).truncate(s.maxUndo)
		c = c.withSelections(s.selection, c.selectionAfter)
	} else {
		c = c.withSelections(s.content.selectionBefore, c.selectionAfter)
	}
	ns.redo = nil
	ns.content = c
	ns.selection = c.clampSelection(c.selectionAfter)
	ns.lastChange = change
	ns.styleOverride = nil
	return ns
}

// Undo restores the previous content and the selection held before the
// undone change. Without history it returns s.
func Undo(s *State) *State {
	prev := s.undo.peek()
	if prev == nil {
		return s
	}
	ns := s.copy()
	ns.undo = s.undo.pop()
	ns.redo = s.redo.push(s.content)
	ns.content = prev
	ns.selection = prev.clampSelection(s.content.selectionBefore)
	ns.lastChange = ChangeUndo
	ns.styleOverride = nil
	return ns
}

// Redo re-applies the most recently undone content.
func Redo(s *State) *State {
	next := s.redo.peek()
	if next == nil {
		return s
	}
	ns := s.copy()
	ns.redo = s.redo.pop()
	ns.undo = s.undo.push(s.content)
	ns.content = next
	ns.selection = next.clampSelection(next.selectionAfter)
	ns.lastChange = ChangeRedo
	ns.styleOverride = nil
	return ns
}

// ForceSelection returns a state with the given selection. The change is
// not recorded in the history.
func ForceSelection(s *State, sel Selection) *State {
	ns := s.copy()
	ns.selection = s.content.clampSelection(sel)
	ns.styleOverride = nil
	ns.lastChange = ChangeNone
	return ns
}

// CurrentInlineStyle returns the style that the next insertion will use.
// With a collapsed caret it is the style of the preceding character; with
// a range it is the style of the first selected character.
func CurrentInlineStyle(s *State) StyleSet {
	if s.styleOverride != nil {
		return *s.styleOverride
	}
	sel := s.selection
	b := s.content.BlockForKey(sel.StartKey())
	if b == nil {
		return StyleSet{}
	}
	if sel.IsCollapsed() {
		if sel.StartOffset() > 0 {
			return b.StyleAt(sel.StartOffset() - 1)
		}
		return StyleSet{}
	}
	if sel.StartOffset() < b.Len() {
		return b.StyleAt(sel.StartOffset())
	}
	return StyleSet{}
}

// CurrentBlockType returns the type of the block holding the selection start.
func CurrentBlockType(s *State) BlockType {
	if b := s.content.BlockForKey(s.selection.StartKey()); b != nil {
		return b.typ
	}
	return BlockUnstyled
}

// SelectedText returns the plain text covered by the selection, with
// blocks joined by newlines.
func SelectedText(s *State) string {
	sel := s.selection
	if sel.IsCollapsed() {
		return ""
	}
	c := s.content
	si, ei := c.blockIndex(sel.StartKey()), c.blockIndex(sel.EndKey())
	if si < 0 || ei < 0 {
		return ""
	}
	var out []rune
	for i := si; i <= ei; i++ {
		b := c.blocks[i]
		start, end := 0, b.Len()
		if i == si {
			start = sel.StartOffset()
		}
		if i == ei {
			end = sel.EndOffset()
		}
		if i > si {
			out = append(out, '\n')
		}
		out = append(out, b.text[start:end]...)
	}
	return string(out)
}

// CreateEntity adds an entity to the current content without recording a
// history step. The selection is unchanged.
func CreateEntity(s *State, typ string, mutability Mutability, data map[string]any) (*State, string) {
	c, key := s.content.CreateEntity(typ, mutability, data)
	ns := s.copy()
	ns.content = c
	return ns, key
}
