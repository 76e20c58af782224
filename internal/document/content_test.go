package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContentEmpty(t *testing.T) {
	c := NewContent()
	require.Equal(t, 1, c.BlockCount())
	assert.Equal(t, BlockUnstyled, c.FirstBlock().Type())
	assert.False(t, c.HasText())
	assert.Equal(t, "", c.PlainText())
}

func TestNewContentFromText(t *testing.T) {
	c := NewContentFromText("one\ntwo\nthree")
	require.Equal(t, 3, c.BlockCount())
	assert.Equal(t, "one\ntwo\nthree", c.PlainText())
	assert.Equal(t, 11, c.PlainTextLength())
	assert.Equal(t, 4, c.GlobalOffset(c.Blocks()[1].Key(), 0))
	assert.Equal(t, -1, c.GlobalOffset("missing", 0))
}

func TestPlainTextLengthCountsGraphemes(t *testing.T) {
	c := NewContentFromText("é👍🏽")
	assert.Equal(t, 2, c.PlainTextLength())
}

func TestSelectDirection(t *testing.T) {
	c := NewContentFromText("ab\ncd")
	blocks := c.Blocks()
	a, b := blocks[0].Key(), blocks[1].Key()

	fwd := c.Select(a, 1, b, 1)
	assert.False(t, fwd.Backward)
	assert.Equal(t, a, fwd.StartKey())
	assert.Equal(t, 1, fwd.EndOffset())

	back := c.Select(b, 1, a, 0)
	assert.True(t, back.Backward)
	assert.Equal(t, a, back.StartKey())
	assert.Equal(t, 0, back.StartOffset())
	assert.Equal(t, b, back.EndKey())
}

func TestRemoveRangeAcrossBlocks(t *testing.T) {
	c := NewContentFromText("hello\nworld")
	blocks := c.Blocks()
	nc := c.RemoveRange(c.Select(blocks[0].Key(), 2, blocks[1].Key(), 3))

	assert.Equal(t, "held", nc.PlainText())
	assert.Equal(t, Collapsed(blocks[0].Key(), 2), nc.SelectionAfter())
	assert.Equal(t, "hello\nworld", c.PlainText(), "original content must not change")
}

func TestReplaceTextCarriesStyleAndEntity(t *testing.T) {
	c := NewContentFromText("hi there")
	c, ent := c.CreateEntity(EntityLink, Mutable, map[string]any{"url": "u"})
	k := c.FirstBlock().Key()

	nc := c.ReplaceText(c.Select(k, 3, k, 8), "you", NewStyleSet(StyleBold), ent)
	b := nc.FirstBlock()
	assert.Equal(t, "hi you", b.Text())
	assert.True(t, b.StyleAt(3).Has(StyleBold))
	assert.False(t, b.StyleAt(2).Has(StyleBold))
	assert.Equal(t, ent, b.EntityAt(5))
	assert.Equal(t, Collapsed(k, 6), nc.SelectionAfter())
}

func TestInsertFragmentSplitsLines(t *testing.T) {
	c := NewContentFromText("ab")
	k := c.FirstBlock().Key()
	nc := c.InsertFragment(Collapsed(k, 1), "x\ny\nz", StyleSet{})

	assert.Equal(t, "ax\ny\nzb", nc.PlainText())
	last := nc.LastBlock()
	assert.Equal(t, Collapsed(last.Key(), 1), nc.SelectionAfter())
}

func TestSplitBlockKeepsType(t *testing.T) {
	c := NewContent(NewBlock("a", BlockQuote, "quoted"))
	nc := c.SplitBlock(Collapsed("a", 3))

	require.Equal(t, 2, nc.BlockCount())
	blocks := nc.Blocks()
	assert.Equal(t, "quo", blocks[0].Text())
	assert.Equal(t, "ted", blocks[1].Text())
	assert.Equal(t, BlockQuote, blocks[1].Type())
	assert.NotEqual(t, "a", blocks[1].Key())
	assert.Equal(t, Collapsed(blocks[1].Key(), 0), nc.SelectionAfter())
}

func TestInlineStyleRanges(t *testing.T) {
	c := NewContentFromText("abcdef")
	k := c.FirstBlock().Key()
	c = c.ApplyInlineStyle(c.Select(k, 1, k, 4), StyleBold)
	c = c.ApplyInlineStyle(c.Select(k, 3, k, 5), StyleItalic)

	ranges := c.FirstBlock().StyleRanges()
	assert.Equal(t, []Range{
		{Offset: 1, Length: 3, Value: StyleBold},
		{Offset: 3, Length: 2, Value: StyleItalic},
	}, ranges)

	c = c.RemoveInlineStyle(c.Select(k, 0, k, 6), StyleBold)
	assert.Equal(t, []Range{{Offset: 3, Length: 2, Value: StyleItalic}}, c.FirstBlock().StyleRanges())
}

func TestEntityLifecycle(t *testing.T) {
	c := NewContentFromText("link")
	c, ent := c.CreateEntity(EntityLink, Mutable, map[string]any{"url": "a"})
	assert.Equal(t, "1", ent)
	assert.False(t, c.EntityReferenced(ent))

	k := c.FirstBlock().Key()
	c = c.ApplyEntity(c.Select(k, 0, k, 4), ent)
	assert.True(t, c.EntityReferenced(ent))
	assert.Equal(t, []Range{{Offset: 0, Length: 4, Value: ent}}, c.FirstBlock().EntityRanges())

	c = c.MergeEntityData(ent, map[string]any{"title": "t"})
	e, ok := c.Entity(ent)
	require.True(t, ok)
	assert.Equal(t, "a", e.String("url"))
	assert.Equal(t, "t", e.String("title"))

	c = c.ReplaceEntityData(ent, map[string]any{"url": "b"})
	e, _ = c.Entity(ent)
	assert.Equal(t, map[string]any{"url": "b"}, e.Data())

	_, second := c.CreateEntity(EntityImage, Immutable, nil)
	assert.Equal(t, "2", second)
}

func TestInsertAndRemoveAtomicBlock(t *testing.T) {
	c := NewContentFromText("before")
	c, ent := c.CreateEntity(EntityImage, Immutable, map[string]any{"url": "img.png"})
	k := c.FirstBlock().Key()

	nc := c.InsertAtomicBlock(Collapsed(k, 6), ent, " ")
	require.Equal(t, 3, nc.BlockCount())
	atomic := nc.Blocks()[1]
	assert.Equal(t, BlockAtomic, atomic.Type())
	assert.Equal(t, ent, atomic.EntityAt(0))
	assert.Equal(t, Collapsed(nc.LastBlock().Key(), 0), nc.SelectionAfter())

	removed := nc.RemoveBlock(atomic.Key())
	assert.Equal(t, 2, removed.BlockCount())
	_, ok := removed.Entity(ent)
	assert.False(t, ok, "unreferenced entity should be pruned")
	assert.Equal(t, Collapsed(k, 6), removed.SelectionAfter())

	assert.Same(t, nc, nc.RemoveBlock("missing"))
}

func TestRemoveOnlyBlockLeavesEmptyBlock(t *testing.T) {
	c := NewContent(NewBlock("only", BlockUnstyled, "x"))
	nc := c.RemoveBlock("only")
	require.Equal(t, 1, nc.BlockCount())
	assert.NotEqual(t, "only", nc.FirstBlock().Key())
	assert.Equal(t, nc.FirstBlock().Key(), nc.SelectionAfter().AnchorKey)
}

func TestContentEqual(t *testing.T) {
	a := NewContentFromText("same")
	b := NewContentFromText("same")
	assert.True(t, a.Equal(b), "block keys are ignored")
	assert.False(t, a.Equal(NewContentFromText("other")))

	k := a.FirstBlock().Key()
	styled := a.ApplyInlineStyle(a.Select(k, 0, k, 1), StyleCode)
	assert.False(t, a.Equal(styled))
}
