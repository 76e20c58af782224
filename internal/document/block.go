package document

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// BlockType names the kind of a block.
type BlockType string

// Built-in block types.
const (
	BlockUnstyled      BlockType = "unstyled"
	BlockHeaderOne     BlockType = "header-one"
	BlockHeaderTwo     BlockType = "header-two"
	BlockHeaderThree   BlockType = "header-three"
	BlockHeaderFour    BlockType = "header-four"
	BlockHeaderFive    BlockType = "header-five"
	BlockHeaderSix     BlockType = "header-six"
	BlockQuote         BlockType = "blockquote"
	BlockCode          BlockType = "code-block"
	BlockUnorderedList BlockType = "unordered-list-item"
	BlockOrderedList   BlockType = "ordered-list-item"
	BlockAtomic        BlockType = "atomic"
)

// IsHeader reports whether t is one of the header types.
func (t BlockType) IsHeader() bool {
	return strings.HasPrefix(string(t), "header-")
}

// CharMeta is the per-character metadata of a block.
type CharMeta struct {
	// Style is the set of inline styles applied to the character.
	Style StyleSet

	// Entity is the key of the entity attached to the character, or "".
	Entity string
}

// Block is an immutable paragraph-level unit of content.
type Block struct {
	key   string
	typ   BlockType
	text  []rune
	chars []CharMeta
	depth int
	data  map[string]any
}

// NewBlock creates a block with unstyled characters.
// An empty key allocates a fresh one.
func NewBlock(key string, typ BlockType, text string) *Block {
	if key == "" {
		key = newBlockKey()
	}
	if typ == "" {
		typ = BlockUnstyled
	}
	runes := []rune(text)
	return &Block{
		key:   key,
		typ:   typ,
		text:  runes,
		chars: make([]CharMeta, len(runes)),
	}
}

// newBlockKey returns a short random block key.
func newBlockKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Key returns the block's unique key.
func (b *Block) Key() string { return b.key }

// Type returns the block type.
func (b *Block) Type() BlockType { return b.typ }

// Text returns the block text.
func (b *Block) Text() string { return string(b.text) }

// Len returns the block length in runes.
func (b *Block) Len() int { return len(b.text) }

// Depth returns the nesting depth (used by list items).
func (b *Block) Depth() int { return b.depth }

// Data returns a copy of the block metadata.
func (b *Block) Data() map[string]any { return maps.Clone(b.data) }

// RuneAt returns the rune at offset, or 0 when out of range.
func (b *Block) RuneAt(offset int) rune {
	if offset < 0 || offset >= len(b.text) {
		return 0
	}
	return b.text[offset]
}

// CharAt returns the metadata at offset. Out-of-range offsets yield the zero value.
func (b *Block) CharAt(offset int) CharMeta {
	if offset < 0 || offset >= len(b.chars) {
		return CharMeta{}
	}
	return b.chars[offset]
}

// StyleAt returns the inline style at offset.
func (b *Block) StyleAt(offset int) StyleSet {
	return b.CharAt(offset).Style
}

// EntityAt returns the entity key at offset, or "".
func (b *Block) EntityAt(offset int) string {
	return b.CharAt(offset).Entity
}

// Range is a half-open run of characters sharing a value.
type Range struct {
	Offset int
	Length int
	Value  string
}

// StyleRanges returns one run per (style, contiguous range) pair.
func (b *Block) StyleRanges() []Range {
	var out []Range
	open := map[string]int{}
	for i := 0; i <= len(b.chars); i++ {
		var cur StyleSet
		if i < len(b.chars) {
			cur = b.chars[i].Style
		}
		for _, name := range slices.Sorted(maps.Keys(open)) {
			if !cur.Has(name) {
				start := open[name]
				out = append(out, Range{Offset: start, Length: i - start, Value: name})
				delete(open, name)
			}
		}
		for _, name := range cur.names {
			if _, ok := open[name]; !ok {
				open[name] = i
			}
		}
	}
	slices.SortStableFunc(out, func(a, b Range) int { return a.Offset - b.Offset })
	return out
}

// EntityRanges returns one run per contiguous entity key.
func (b *Block) EntityRanges() []Range {
	var out []Range
	start, cur := 0, ""
	for i := 0; i <= len(b.chars); i++ {
		key := ""
		if i < len(b.chars) {
			key = b.chars[i].Entity
		}
		if key == cur {
			continue
		}
		if cur != "" {
			out = append(out, Range{Offset: start, Length: i - start, Value: cur})
		}
		start, cur = i, key
	}
	return out
}

// clone returns a deep copy that may be modified before publication.
func (b *Block) clone() *Block {
	return &Block{
		key:   b.key,
		typ:   b.typ,
		text:  slices.Clone(b.text),
		chars: slices.Clone(b.chars),
		depth: b.depth,
		data:  maps.Clone(b.data),
	}
}

// splice returns a copy with [start,end) replaced by the given runes and metadata.
func (b *Block) splice(start, end int, text []rune, chars []CharMeta) *Block {
	nb := b.clone()
	nb.text = slices.Concat(b.text[:start], text, b.text[end:])
	nb.chars = slices.Concat(b.chars[:start], chars, b.chars[end:])
	return nb
}

// equal compares everything but the key.
func (b *Block) equal(o *Block) bool {
	if b.typ != o.typ || b.depth != o.depth || !slices.Equal(b.text, o.text) {
		return false
	}
	return slices.EqualFunc(b.chars, o.chars, func(x, y CharMeta) bool {
		return x.Entity == y.Entity && x.Style.Equal(y.Style)
	})
}

// metaRun builds n copies of the given metadata.
func metaRun(n int, style StyleSet, entity string) []CharMeta {
	out := make([]CharMeta, n)
	for i := range out {
		out[i] = CharMeta{Style: style, Entity: entity}
	}
	return out
}
