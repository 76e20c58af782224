// Package overlay places the floating selection toolbar and the
// autocomplete list relative to the editor.
//
// Geometry comes from the host through the Geometry interface. Coordinates
// are in whatever unit the host measures in: pixels for a browser-like
// host, cells for a terminal.
package overlay

// Default layout constants.
const (
	DefaultHeaderHeight = 48
	DefaultLineHeight   = 26
)

// Rect is a bounding rectangle.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Position is the top-left corner of a floating overlay, relative to the
// editor's container.
type Position struct {
	Top  float64
	Left float64
}

// SelectionOffsets are the document-wide plain-text offsets of a selection.
type SelectionOffsets struct {
	Start int
	End   int
}

// Geometry measures the host's rendered editor.
type Geometry interface {
	// EditorRect returns the editor's bounding rectangle.
	EditorRect() Rect

	// EditorOffset returns the editor's offset within its container.
	EditorOffset() Position

	// SelectionRect returns the bounding rectangle of the current selection
	// or caret. The boolean is false when nothing can be measured, such as
	// a caret in an empty block.
	SelectionRect() (Rect, bool)
}

// Option configures a Positioner.
type Option func(*Positioner)

// WithHeaderHeight sets how far above the selection the toolbar floats.
func WithHeaderHeight(h float64) Option {
	return func(p *Positioner) {
		p.headerHeight = h
	}
}

// WithLineHeight sets the line height used for the autocomplete list
// offset and for carets that cannot be measured.
func WithLineHeight(h float64) Option {
	return func(p *Positioner) {
		p.lineHeight = h
	}
}

// Positioner holds the toolbar placement and the last selection it was
// placed for.
type Positioner struct {
	headerHeight float64
	lineHeight   float64

	toolbar *Position
	last    SelectionOffsets
}

// New creates a Positioner with the default header and line heights.
func New(opts ...Option) *Positioner {
	p := &Positioner{
		headerHeight: DefaultHeaderHeight,
		lineHeight:   DefaultLineHeight,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Toolbar returns the toolbar position, if the toolbar is shown.
func (p *Positioner) Toolbar() (Position, bool) {
	if p.toolbar == nil {
		return Position{}, false
	}
	return *p.toolbar, true
}

// HideToolbar hides the toolbar.
func (p *Positioner) HideToolbar() {
	p.toolbar = nil
}

// ShouldHide reports whether a pointer-up over sel must hide the toolbar:
// the selection is collapsed, or the toolbar is already shown for the same
// offsets because the user clicked inside the existing selection.
func (p *Positioner) ShouldHide(sel SelectionOffsets, collapsed bool) bool {
	return collapsed || (p.toolbar != nil && sel == p.last)
}

// PlaceToolbar records sel and positions the toolbar above the measured
// selection rectangle. When the selection cannot be measured the toolbar
// is left as it was and PlaceToolbar returns false.
func (p *Positioner) PlaceToolbar(g Geometry, sel SelectionOffsets) (Position, bool) {
	p.last = sel
	rect, ok := g.SelectionRect()
	if !ok {
		return Position{}, false
	}
	editor, offset := g.EditorRect(), g.EditorOffset()
	pos := Position{
		Top:  offset.Top - p.headerHeight + (rect.Top - editor.Top),
		Left: offset.Left + (rect.Left - editor.Left),
	}
	p.toolbar = &pos
	return pos, true
}

// AutocompletePosition places the suggestion list one line below the
// caret. Without a measurable caret it falls back to line × line height
// from the top of the editor.
func (p *Positioner) AutocompletePosition(g Geometry, line int) Position {
	editor, offset := g.EditorRect(), g.EditorOffset()
	top := editor.Top + p.lineHeight*float64(line)
	left := editor.Left
	if rect, ok := g.SelectionRect(); ok {
		top, left = rect.Top, rect.Left
	}
	return Position{
		Top:  offset.Top + (top - editor.Top) + p.lineHeight,
		Left: offset.Left + (left - editor.Left),
	}
}
