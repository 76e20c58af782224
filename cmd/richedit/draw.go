package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/prompt"
	"github.com/dshills/richedit/internal/render"
)

var (
	barStyle    = tcell.StyleDefault.Reverse(true)
	popupStyle  = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	activeStyle = popupStyle.Reverse(true)
)

// convertStyle maps a render style onto tcell.
func convertStyle(s render.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		r, g, b := s.Foreground.RGB()
		style = style.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	if !s.Background.IsDefault() {
		r, g, b := s.Background.RGB()
		style = style.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	a := s.Attributes
	return style.
		Bold(a.Has(render.AttrBold)).
		Dim(a.Has(render.AttrDim)).
		Italic(a.Has(render.AttrItalic)).
		Underline(a.Has(render.AttrUnderline)).
		Reverse(a.Has(render.AttrReverse)).
		StrikeThrough(a.Has(render.AttrStrikethrough))
}

// put draws text from x and returns the column after it.
func (h *host) put(x, y int, text string, style tcell.Style) int {
	w, _ := h.screen.Size()
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		if x >= w {
			break
		}
		runes := gr.Runes()
		h.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += gr.Width()
	}
	return x
}

func (h *host) draw() {
	h.screen.Clear()
	h.hits = h.hits[:0]
	h.keepCaretVisible()

	h.drawToolbar()
	h.drawLines()
	h.drawInlineToolbar()
	h.drawAutocomplete()
	h.drawBottom()
	h.screen.Show()
}

func (h *host) keepCaretVisible() {
	_, ht := h.screen.Size()
	rows := ht - editorTop - 1
	sel := h.ctrl.State().Selection()
	for i, line := range h.lines {
		if line.BlockKey != sel.FocusKey {
			continue
		}
		if i < h.scroll {
			h.scroll = i
		} else if rows > 0 && i >= h.scroll+rows {
			h.scroll = i - rows + 1
		}
		return
	}
}

func (h *host) drawToolbar() {
	tb := h.ctrl.Toolbar()
	w, _ := h.screen.Size()
	for x := 0; x < w; x++ {
		h.screen.SetContent(x, 0, ' ', nil, barStyle)
	}
	if !tb.Visible {
		h.put(0, 0, " richedit", barStyle)
		return
	}
	x := 0
	for i, name := range tb.Controls {
		label := fmt.Sprintf(" F%d %s ", i+1, name)
		if i >= 12 {
			label = " " + name + " "
		}
		end := h.put(x, 0, label, barStyle)
		h.hits = append(h.hits, hit{y: 0, x0: x, x1: end, name: name})
		x = end
	}
}

func (h *host) drawLines() {
	_, ht := h.screen.Size()
	c := h.ctrl.Content()
	sel := h.ctrl.State().Selection()
	order := make(map[string]int, c.BlockCount())
	for i, b := range c.Blocks() {
		order[b.Key()] = i
	}

	for i := h.scroll; i < len(h.lines); i++ {
		y := editorTop + i - h.scroll
		if y >= ht-1 {
			break
		}
		line := h.lines[i]
		start, end := selectedRange(sel, order, line)
		x := h.put(0, y, line.Prefix, tcell.StyleDefault.Dim(true))
		offset := 0
		for _, span := range line.Spans {
			base := convertStyle(span.Style)
			if span.Entity != "" {
				base = base.Underline(true)
			}
			for _, r := range span.Text {
				style := base
				if offset >= start && offset < end {
					style = style.Reverse(true)
				}
				x = h.put(x, y, string(r), style)
				offset++
			}
		}
		if line.Atomic && h.ctrl.FocusedEmbed() == line.BlockKey {
			h.put(x, y, " ◀", tcell.StyleDefault.Bold(true))
		}
	}
}

// selectedRange returns the rune range of line covered by sel.
func selectedRange(sel document.Selection, order map[string]int, line render.Line) (int, int) {
	if sel.IsCollapsed() || line.Atomic {
		return 0, 0
	}
	i, ok := order[line.BlockKey]
	if !ok {
		return 0, 0
	}
	si, ei := order[sel.StartKey()], order[sel.EndKey()]
	if i < si || i > ei {
		return 0, 0
	}
	start, end := 0, len([]rune(line.Text()))
	if i == si {
		start = sel.StartOffset()
	}
	if i == ei {
		end = sel.EndOffset()
	}
	return start, end
}

func (h *host) drawInlineToolbar() {
	tb := h.ctrl.Toolbar()
	if !tb.InlineVisible || !tb.Shown {
		return
	}
	x, y := int(tb.Position.Left), int(tb.Position.Top)
	if y < editorTop {
		y = editorTop
	}
	for _, name := range tb.InlineControls {
		end := h.put(x, y, " "+name+" ", popupStyle)
		h.hits = append(h.hits, hit{y: y, x0: x, x1: end, name: name})
		x = end
	}
}

func (h *host) drawAutocomplete() {
	s := h.ctrl.Autocomplete()
	if s == nil {
		return
	}
	x, y := int(s.Position.Left), int(s.Position.Top)
	items := h.ctrl.Candidates()
	if len(items) == 0 {
		h.put(x, y, " no matches ", popupStyle)
		return
	}
	for i, it := range items {
		style := popupStyle
		if i == s.SelectedIndex {
			style = activeStyle
		}
		h.put(x, y+i, " "+it.DisplayLabel()+" ", style)
	}
}

func (h *host) drawBottom() {
	w, ht := h.screen.Size()
	y := ht - 1
	for x := 0; x < w; x++ {
		h.screen.SetContent(x, y, ' ', nil, barStyle)
	}

	if p := h.ctrl.Prompt(); p != nil {
		label := " Link URL: "
		if p.Mode == prompt.ModeMedia {
			label = " Image URL: "
		}
		if p.Editing() {
			label = " Edit" + label[1:]
		}
		x := h.put(0, y, label, barStyle)
		x = h.put(x, y, string(h.input), barStyle)
		h.screen.ShowCursor(x, y)
		return
	}

	help := " ^S save  ^Q quit  ^L link  ^G image"
	if h.ctrl.ReadOnly() {
		help += "  [read-only]"
	}
	x := h.put(0, y, help, barStyle)
	if h.status != "" {
		h.put(x+2, y, h.status, barStyle)
	}

	sel := h.ctrl.State().Selection()
	if cx, cy, ok := h.cellOf(sel.FocusKey, sel.FocusOffset); ok && h.focused && cy >= editorTop && cy < y {
		h.screen.ShowCursor(cx, cy)
	} else {
		h.screen.HideCursor()
	}
}
