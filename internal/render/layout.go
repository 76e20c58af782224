package render

import (
	"github.com/dshills/richedit/internal/document"
)

// Span is a run of text drawn with one style.
type Span struct {
	Text   string
	Style  Style
	Entity string
}

// Line is one rendered block, or one line of an atomic block.
type Line struct {
	BlockKey  string
	BlockType document.BlockType
	Prefix    string
	Spans     []Span

	// Atomic marks lines produced by an atomic renderer.
	Atomic bool
}

// Text returns the line's text without its prefix.
func (l Line) Text() string {
	var out string
	for _, s := range l.Spans {
		out += s.Text
	}
	return out
}

// Render lays out every block of c.
func (r *Registry) Render(c *document.Content) []Line {
	var (
		lines   []Line
		prev    *document.Block
		ordinal int
	)
	for _, b := range c.Blocks() {
		if prev != nil && prev.Type() == b.Type() && prev.Depth() == b.Depth() {
			ordinal++
		} else {
			ordinal = 1
		}
		prev = b

		if b.Type() == document.BlockAtomic {
			lines = append(lines, r.renderAtomic(c, b)...)
			continue
		}
		lines = append(lines, r.renderText(c, b, ordinal))
	}
	return lines
}

func (r *Registry) renderAtomic(c *document.Content, b *document.Block) []Line {
	if b.Len() == 0 {
		return nil
	}
	e, ok := c.Entity(b.EntityAt(0))
	if !ok {
		return nil
	}
	fn, ok := r.Atomic(e.Type())
	if !ok {
		return nil
	}
	var lines []Line
	for _, text := range fn(e) {
		lines = append(lines, Line{
			BlockKey:  b.Key(),
			BlockType: b.Type(),
			Spans:     []Span{{Text: text, Entity: b.EntityAt(0)}},
			Atomic:    true,
		})
	}
	return lines
}

func (r *Registry) renderText(c *document.Content, b *document.Block, ordinal int) Line {
	line := Line{BlockKey: b.Key(), BlockType: b.Type()}
	base := DefaultStyle()
	if fn, ok := r.Block(string(b.Type())); ok {
		d := fn(b, ordinal)
		line.Prefix, base = d.Prefix, d.Style
	}

	runes := []rune(b.Text())
	styles := make([]Style, len(runes))
	for i := range runes {
		s := base
		for _, name := range b.StyleAt(i).Names() {
			if fn, ok := r.Style(name); ok {
				s = fn(s)
			}
		}
		if key := b.EntityAt(i); key != "" {
			if e, ok := c.Entity(key); ok && e.Type() == document.EntityLink {
				s = s.With(AttrUnderline)
			}
		}
		styles[i] = s
	}
	r.decorate(runes, styles)

	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && styles[j] == styles[i] && b.EntityAt(j) == b.EntityAt(i) {
			j++
		}
		line.Spans = append(line.Spans, Span{Text: string(runes[i:j]), Style: styles[i], Entity: b.EntityAt(i)})
		i = j
	}
	return line
}

// decorate applies every decorator to the matching runes.
func (r *Registry) decorate(runes []rune, styles []Style) {
	for _, d := range r.decorators {
		m, err := d.Pattern.FindRunesMatch(runes)
		for err == nil && m != nil {
			for i := m.Index; i < m.Index+m.Length && i < len(styles); i++ {
				styles[i] = d.Style(styles[i])
			}
			m, err = d.Pattern.FindNextMatch(m)
		}
	}
}
