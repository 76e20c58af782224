package document

import (
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// Content is an immutable document: ordered blocks plus an entity map.
//
// Content also remembers the selection before and after the change that
// produced it, which State uses to restore carets on undo and redo.
type Content struct {
	blocks     []*Block
	entities   map[string]*Entity
	lastEntity int

	selectionBefore Selection
	selectionAfter  Selection
}

// NewContent creates content from blocks. An empty list yields a single
// empty unstyled block.
func NewContent(blocks ...*Block) *Content {
	if len(blocks) == 0 {
		blocks = []*Block{NewBlock("", BlockUnstyled, "")}
	}
	sel := Collapsed(blocks[0].key, 0)
	return &Content{
		blocks:          slices.Clone(blocks),
		entities:        map[string]*Entity{},
		selectionBefore: sel,
		selectionAfter:  sel,
	}
}

// NewContentFromText creates content with one unstyled block per line.
func NewContentFromText(text string) *Content {
	lines := strings.Split(text, "\n")
	blocks := make([]*Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, NewBlock("", BlockUnstyled, line))
	}
	return NewContent(blocks...)
}

// derive returns a sibling content with new blocks/entities and selections.
func (c *Content) derive(blocks []*Block, entities map[string]*Entity, before, after Selection) *Content {
	if len(blocks) == 0 {
		blocks = []*Block{NewBlock("", BlockUnstyled, "")}
	}
	return &Content{
		blocks:          blocks,
		entities:        entities,
		lastEntity:      c.lastEntity,
		selectionBefore: before,
		selectionAfter:  after,
	}
}

// withSelections returns a shallow copy carrying new selection markers.
func (c *Content) withSelections(before, after Selection) *Content {
	nc := *c
	nc.selectionBefore = before
	nc.selectionAfter = after
	return &nc
}

// SelectionBefore returns the selection recorded before this content was produced.
func (c *Content) SelectionBefore() Selection { return c.selectionBefore }

// SelectionAfter returns the selection recorded after this content was produced.
func (c *Content) SelectionAfter() Selection { return c.selectionAfter }

// Blocks returns the blocks in document order.
func (c *Content) Blocks() []*Block { return slices.Clone(c.blocks) }

// BlockCount returns the number of blocks.
func (c *Content) BlockCount() int { return len(c.blocks) }

// FirstBlock returns the first block.
func (c *Content) FirstBlock() *Block { return c.blocks[0] }

// LastBlock returns the last block.
func (c *Content) LastBlock() *Block { return c.blocks[len(c.blocks)-1] }

// BlockForKey returns the block with the given key, or nil.
func (c *Content) BlockForKey(key string) *Block {
	if i := c.blockIndex(key); i >= 0 {
		return c.blocks[i]
	}
	return nil
}

// BlockBefore returns the block preceding key, or nil.
func (c *Content) BlockBefore(key string) *Block {
	if i := c.blockIndex(key); i > 0 {
		return c.blocks[i-1]
	}
	return nil
}

// BlockAfter returns the block following key, or nil.
func (c *Content) BlockAfter(key string) *Block {
	if i := c.blockIndex(key); i >= 0 && i < len(c.blocks)-1 {
		return c.blocks[i+1]
	}
	return nil
}

func (c *Content) blockIndex(key string) int {
	return slices.IndexFunc(c.blocks, func(b *Block) bool { return b.key == key })
}

// Entity returns the entity stored under key.
func (c *Content) Entity(key string) (*Entity, bool) {
	e, ok := c.entities[key]
	return e, ok
}

// EntityKeys returns all entity keys in allocation order.
func (c *Content) EntityKeys() []string {
	keys := slices.Collect(maps.Keys(c.entities))
	slices.SortFunc(keys, func(a, b string) int {
		x, _ := strconv.Atoi(a)
		y, _ := strconv.Atoi(b)
		return x - y
	})
	return keys
}

// CreateEntity adds an entity and returns the new content and its key.
func (c *Content) CreateEntity(typ string, mutability Mutability, data map[string]any) (*Content, string) {
	entities := maps.Clone(c.entities)
	key := strconv.Itoa(c.lastEntity + 1)
	entities[key] = NewEntity(typ, mutability, data)
	nc := c.derive(c.blocks, entities, c.selectionBefore, c.selectionAfter)
	nc.lastEntity = c.lastEntity + 1
	return nc, key
}

// ReplaceEntityData replaces the data of an entity, keeping its key.
// Unknown keys leave the content unchanged.
func (c *Content) ReplaceEntityData(key string, data map[string]any) *Content {
	e, ok := c.entities[key]
	if !ok {
		return c
	}
	entities := maps.Clone(c.entities)
	entities[key] = NewEntity(e.typ, e.mutability, data)
	return c.derive(c.blocks, entities, c.selectionBefore, c.selectionAfter)
}

// MergeEntityData merges data into an entity's existing data.
func (c *Content) MergeEntityData(key string, data map[string]any) *Content {
	e, ok := c.entities[key]
	if !ok {
		return c
	}
	merged := e.Data()
	maps.Copy(merged, data)
	return c.ReplaceEntityData(key, merged)
}

// EntityReferenced reports whether any character references key.
func (c *Content) EntityReferenced(key string) bool {
	for _, b := range c.blocks {
		for _, ch := range b.chars {
			if ch.Entity == key {
				return true
			}
		}
	}
	return false
}

// PlainText returns the block texts joined by newlines.
func (c *Content) PlainText() string {
	parts := make([]string, len(c.blocks))
	for i, b := range c.blocks {
		parts[i] = string(b.text)
	}
	return strings.Join(parts, "\n")
}

// PlainTextLength returns the number of user-perceived characters
// (grapheme clusters) across all blocks, excluding block separators.
func (c *Content) PlainTextLength() int {
	n := 0
	for _, b := range c.blocks {
		n += uniseg.GraphemeClusterCount(string(b.text))
	}
	return n
}

// HasText reports whether any block holds text.
func (c *Content) HasText() bool {
	for _, b := range c.blocks {
		if len(b.text) > 0 {
			return true
		}
	}
	return false
}

// GlobalOffset converts a block-relative offset into a document-wide
// plain-text offset, counting one separator per preceding block.
func (c *Content) GlobalOffset(key string, offset int) int {
	n := 0
	for _, b := range c.blocks {
		if b.key == key {
			return n + offset
		}
		n += len(b.text) + 1
	}
	return -1
}

// Select builds a selection between two positions, computing direction
// from document order.
func (c *Content) Select(anchorKey string, anchorOffset int, focusKey string, focusOffset int) Selection {
	sel := Selection{
		AnchorKey:    anchorKey,
		AnchorOffset: anchorOffset,
		FocusKey:     focusKey,
		FocusOffset:  focusOffset,
	}
	ai, fi := c.blockIndex(anchorKey), c.blockIndex(focusKey)
	sel.Backward = fi < ai || (fi == ai && focusOffset < anchorOffset)
	return sel
}

// SelectAll returns a selection spanning the whole document.
func (c *Content) SelectAll() Selection {
	last := c.LastBlock()
	return c.Select(c.FirstBlock().key, 0, last.key, len(last.text))
}

// Equal reports whether two contents hold the same blocks and entities.
func (c *Content) Equal(o *Content) bool {
	if c == o {
		return true
	}
	if o == nil || len(c.blocks) != len(o.blocks) || len(c.entities) != len(o.entities) {
		return false
	}
	for i := range c.blocks {
		if !c.blocks[i].equal(o.blocks[i]) {
			return false
		}
	}
	for k, e := range c.entities {
		oe, ok := o.entities[k]
		if !ok || oe.typ != e.typ || oe.mutability != e.mutability || !reflect.DeepEqual(oe.data, e.data) {
			return false
		}
	}
	return true
}
