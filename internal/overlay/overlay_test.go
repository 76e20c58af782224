package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeGeometry struct {
	editor    Rect
	offset    Position
	selection Rect
	measured  bool
}

func (g fakeGeometry) EditorRect() Rect       { return g.editor }
func (g fakeGeometry) EditorOffset() Position { return g.offset }
func (g fakeGeometry) SelectionRect() (Rect, bool) {
	return g.selection, g.measured
}

func TestPlaceToolbar(t *testing.T) {
	p := New()
	g := fakeGeometry{
		editor:    Rect{Top: 100, Left: 20},
		offset:    Position{Top: 60, Left: 10},
		selection: Rect{Top: 150, Left: 70, Width: 40, Height: 20},
		measured:  true,
	}
	pos, ok := p.PlaceToolbar(g, SelectionOffsets{Start: 3, End: 8})
	assert.True(t, ok)
	assert.Equal(t, Position{Top: 60 - 48 + 50, Left: 10 + 50}, pos)

	shown, ok := p.Toolbar()
	assert.True(t, ok)
	assert.Equal(t, pos, shown)
}

func TestPlaceToolbarUnmeasured(t *testing.T) {
	p := New()
	_, ok := p.PlaceToolbar(fakeGeometry{}, SelectionOffsets{Start: 1, End: 2})
	assert.False(t, ok)
	_, shown := p.Toolbar()
	assert.False(t, shown)
}

func TestShouldHide(t *testing.T) {
	p := New(WithHeaderHeight(1), WithLineHeight(1))
	sel := SelectionOffsets{Start: 2, End: 5}
	g := fakeGeometry{measured: true}

	assert.True(t, p.ShouldHide(sel, true), "collapsed selections hide the toolbar")
	assert.False(t, p.ShouldHide(sel, false))

	p.PlaceToolbar(g, sel)
	assert.True(t, p.ShouldHide(sel, false), "re-clicking the same selection hides the toolbar")
	assert.False(t, p.ShouldHide(SelectionOffsets{Start: 2, End: 6}, false))

	p.HideToolbar()
	assert.False(t, p.ShouldHide(sel, false), "same offsets show again once hidden")
}

func TestAutocompletePosition(t *testing.T) {
	p := New()
	g := fakeGeometry{
		editor:    Rect{Top: 100, Left: 20},
		offset:    Position{Top: 5, Left: 5},
		selection: Rect{Top: 130, Left: 60},
		measured:  true,
	}
	assert.Equal(t, Position{Top: 5 + 30 + 26, Left: 5 + 40}, p.AutocompletePosition(g, 3))

	g.measured = false
	assert.Equal(t, Position{Top: 5 + 26*3 + 26, Left: 5}, p.AutocompletePosition(g, 3))
}
