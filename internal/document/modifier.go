package document

import (
	"maps"
	"slices"
	"strings"
)

// clampSelection bounds the selection offsets to their blocks. Selections
// naming unknown blocks collapse to the start of the document.
func (c *Content) clampSelection(sel Selection) Selection {
	sb, eb := c.BlockForKey(sel.StartKey()), c.BlockForKey(sel.EndKey())
	if sb == nil || eb == nil {
		return Collapsed(c.FirstBlock().key, 0)
	}
	start := min(max(sel.StartOffset(), 0), sb.Len())
	end := min(max(sel.EndOffset(), 0), eb.Len())
	return c.Select(sb.key, start, eb.key, end)
}

// RemoveRange deletes the selected text, merging the end block into the
// start block when the selection spans blocks.
func (c *Content) RemoveRange(sel Selection) *Content {
	sel = c.clampSelection(sel)
	caret := sel.CollapseToStart()
	if sel.IsCollapsed() {
		return c.withSelections(sel, caret)
	}
	si, ei := c.blockIndex(sel.StartKey()), c.blockIndex(sel.EndKey())
	sb, eb := c.blocks[si], c.blocks[ei]
	start, end := sel.StartOffset(), sel.EndOffset()

	merged := sb.clone()
	merged.text = slices.Concat(sb.text[:start], eb.text[end:])
	merged.chars = slices.Concat(sb.chars[:start], eb.chars[end:])

	blocks := slices.Concat(c.blocks[:si], []*Block{merged}, c.blocks[ei+1:])
	return c.derive(blocks, c.entities, sel, caret)
}

// InsertText inserts single-line text at a collapsed selection. A
// non-collapsed selection is removed first.
func (c *Content) InsertText(sel Selection, text string, style StyleSet, entity string) *Content {
	return c.ReplaceText(sel, text, style, entity)
}

// ReplaceText replaces the selected range with text carrying the given
// style and entity. Newlines in text are inserted literally; use
// InsertFragment to split blocks.
func (c *Content) ReplaceText(sel Selection, text string, style StyleSet, entity string) *Content {
	removed := c.RemoveRange(sel)
	at := removed.selectionAfter
	i := removed.blockIndex(at.AnchorKey)
	b := removed.blocks[i]
	runes := []rune(text)
	nb := b.splice(at.AnchorOffset, at.AnchorOffset, runes, metaRun(len(runes), style, entity))

	blocks := slices.Clone(removed.blocks)
	blocks[i] = nb
	return removed.derive(blocks, removed.entities, c.clampSelection(sel), Collapsed(b.key, at.AnchorOffset+len(runes)))
}

// InsertFragment inserts possibly multi-line text, splitting blocks at
// each newline.
func (c *Content) InsertFragment(sel Selection, text string, style StyleSet) *Content {
	lines := strings.Split(text, "\n")
	out := c.RemoveRange(sel)
	for i, line := range lines {
		if i > 0 {
			out = out.SplitBlock(out.selectionAfter)
		}
		if line != "" {
			out = out.ReplaceText(out.selectionAfter, line, style, "")
		}
	}
	return out.withSelections(c.clampSelection(sel), out.selectionAfter)
}

// SplitBlock splits the block at the selection. The new block keeps the
// original type, except that atomic blocks split into unstyled ones.
func (c *Content) SplitBlock(sel Selection) *Content {
	removed := c.RemoveRange(sel)
	at := removed.selectionAfter
	i := removed.blockIndex(at.AnchorKey)
	b := removed.blocks[i]
	o := at.AnchorOffset

	head := b.clone()
	head.text = slices.Clone(b.text[:o])
	head.chars = slices.Clone(b.chars[:o])

	tail := &Block{
		key:   newBlockKey(),
		typ:   b.typ,
		text:  slices.Clone(b.text[o:]),
		chars: slices.Clone(b.chars[o:]),
		depth: b.depth,
	}
	if tail.typ == BlockAtomic {
		tail.typ = BlockUnstyled
	}

	blocks := slices.Concat(removed.blocks[:i], []*Block{head, tail}, removed.blocks[i+1:])
	return removed.derive(blocks, removed.entities, c.clampSelection(sel), Collapsed(tail.key, 0))
}

// mapRange rewrites the characters covered by sel with fn, one block at a
// time, keeping the selection as-is.
func (c *Content) mapRange(sel Selection, fn func(CharMeta) CharMeta) *Content {
	sel = c.clampSelection(sel)
	si, ei := c.blockIndex(sel.StartKey()), c.blockIndex(sel.EndKey())
	blocks := slices.Clone(c.blocks)
	for i := si; i <= ei; i++ {
		b := c.blocks[i]
		start, end := 0, b.Len()
		if i == si {
			start = sel.StartOffset()
		}
		if i == ei {
			end = sel.EndOffset()
		}
		if start >= end {
			continue
		}
		nb := b.clone()
		for j := start; j < end; j++ {
			nb.chars[j] = fn(nb.chars[j])
		}
		blocks[i] = nb
	}
	return c.derive(blocks, c.entities, sel, sel)
}

// ApplyEntity attaches entity to the selected characters. An empty key
// removes any entity from them.
func (c *Content) ApplyEntity(sel Selection, entity string) *Content {
	return c.mapRange(sel, func(m CharMeta) CharMeta {
		m.Entity = entity
		return m
	})
}

// ApplyInlineStyle adds style to the selected characters.
func (c *Content) ApplyInlineStyle(sel Selection, style string) *Content {
	return c.mapRange(sel, func(m CharMeta) CharMeta {
		m.Style = m.Style.Add(style)
		return m
	})
}

// RemoveInlineStyle removes style from the selected characters.
func (c *Content) RemoveInlineStyle(sel Selection, style string) *Content {
	return c.mapRange(sel, func(m CharMeta) CharMeta {
		m.Style = m.Style.Remove(style)
		return m
	})
}

// SetBlockType sets the type of every block touched by sel.
func (c *Content) SetBlockType(sel Selection, typ BlockType) *Content {
	sel = c.clampSelection(sel)
	si, ei := c.blockIndex(sel.StartKey()), c.blockIndex(sel.EndKey())
	blocks := slices.Clone(c.blocks)
	for i := si; i <= ei; i++ {
		nb := c.blocks[i].clone()
		nb.typ = typ
		blocks[i] = nb
	}
	return c.derive(blocks, c.entities, sel, sel)
}

// SetBlockData replaces the metadata of the block at key.
func (c *Content) SetBlockData(key string, data map[string]any) *Content {
	i := c.blockIndex(key)
	if i < 0 {
		return c
	}
	blocks := slices.Clone(c.blocks)
	nb := c.blocks[i].clone()
	nb.data = maps.Clone(data)
	blocks[i] = nb
	return c.derive(blocks, c.entities, c.selectionBefore, c.selectionAfter)
}

// InsertAtomicBlock splits the block at sel and inserts an atomic block
// whose text is char, with every character tagged by entity. The caret
// ends at the start of the block following the atomic block.
func (c *Content) InsertAtomicBlock(sel Selection, entity, char string) *Content {
	split := c.SplitBlock(sel)
	tail := split.selectionAfter.AnchorKey
	i := split.blockIndex(tail)

	runes := []rune(char)
	atomic := &Block{
		key:   newBlockKey(),
		typ:   BlockAtomic,
		text:  runes,
		chars: metaRun(len(runes), StyleSet{}, entity),
	}
	blocks := slices.Concat(split.blocks[:i], []*Block{atomic}, split.blocks[i:])
	return split.derive(blocks, split.entities, c.clampSelection(sel), Collapsed(tail, 0))
}

// RemoveBlock deletes the block at key. Entities referenced only by that
// block are dropped from the entity map. Unknown keys leave the content
// unchanged.
func (c *Content) RemoveBlock(key string) *Content {
	i := c.blockIndex(key)
	if i < 0 {
		return c
	}
	removed := c.blocks[i]
	blocks := slices.Concat(c.blocks[:i], c.blocks[i+1:])

	var caret Selection
	switch {
	case i > 0:
		prev := blocks[i-1]
		caret = Collapsed(prev.key, prev.Len())
	case len(blocks) > 0:
		caret = Collapsed(blocks[0].key, 0)
	}
	nc := c.derive(blocks, c.entities, Collapsed(key, 0), caret)
	if len(blocks) == 0 {
		nc.selectionAfter = Collapsed(nc.blocks[0].key, 0)
	}

	entities, cloned := c.entities, false
	for _, ch := range removed.chars {
		if ch.Entity == "" || nc.EntityReferenced(ch.Entity) {
			continue
		}
		if _, ok := entities[ch.Entity]; !ok {
			continue
		}
		if !cloned {
			entities, cloned = maps.Clone(c.entities), true
		}
		delete(entities, ch.Entity)
	}
	nc.entities = entities
	return nc
}
