// Package prompt manages the link and media popovers: opening them for a
// new entity or for an existing one, and applying or discarding the
// user's input.
package prompt

import (
	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/embed"
)

// Mode selects the kind of prompt.
type Mode int

const (
	// ModeLink edits a LINK entity over a text range.
	ModeLink Mode = iota
	// ModeMedia edits the IMAGE entity of an atomic block.
	ModeMedia
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeMedia {
		return "media"
	}
	return "link"
}

// Prompt is an open popover.
type Prompt struct {
	Mode Mode

	// Anchor identifies the host element the popover is attached to.
	Anchor string

	// EntityKey is set when editing an existing entity.
	EntityKey string

	// Data is the existing entity's data, for preloading the form.
	Data map[string]any

	// Selection is the range a new link wraps, or the media block's caret.
	Selection document.Selection
}

// Editing reports whether the prompt edits an existing entity.
func (p *Prompt) Editing() bool {
	return p.EntityKey != ""
}

// URL returns the preloaded url, if any.
func (p *Prompt) URL() string {
	s, _ := p.Data["url"].(string)
	return s
}

// Input is what the user entered in the popover.
type Input struct {
	URL       string
	Width     int
	Height    int
	Alignment string
	Type      string
}

// data returns the entity data for in, omitting unset fields.
func (in Input) data(mode Mode) map[string]any {
	d := map[string]any{"url": in.URL}
	if mode == ModeLink {
		return d
	}
	if in.Width > 0 {
		d["width"] = in.Width
	}
	if in.Height > 0 {
		d["height"] = in.Height
	}
	if in.Alignment != "" {
		d["alignment"] = in.Alignment
	}
	if in.Type != "" {
		d["type"] = in.Type
	}
	return d
}

// Coordinator holds at most one open prompt.
type Coordinator struct {
	open *Prompt
	log  zerolog.Logger
}

// New creates a coordinator.
func New(log zerolog.Logger) *Coordinator {
	return &Coordinator{log: log}
}

// Current returns the open prompt, or nil.
func (c *Coordinator) Current() *Prompt {
	return c.open
}

// IsOpen reports whether a prompt is open.
func (c *Coordinator) IsOpen() bool {
	return c.open != nil
}

// OpenLink opens the link prompt over the current selection. A collapsed
// selection cannot be linked. When the selection starts inside a link,
// the prompt edits that link.
func (c *Coordinator) OpenLink(s *document.State, anchor string) bool {
	sel := s.Selection()
	if sel.IsCollapsed() {
		return false
	}
	p := &Prompt{Mode: ModeLink, Anchor: anchor, Selection: sel}
	key := document.EntityAt(s.Content(), sel.StartKey(), sel.StartOffset())
	if e, ok := s.Content().Entity(key); ok && e.Type() == document.EntityLink {
		p.EntityKey, p.Data = key, e.Data()
	}
	c.open = p
	c.log.Debug().Str("mode", p.Mode.String()).Bool("edit", p.Editing()).Msg("prompt opened")
	return true
}

// OpenMedia opens the media prompt. With a blockKey naming an atomic
// block the prompt edits that block's entity; otherwise it creates one.
func (c *Coordinator) OpenMedia(s *document.State, anchor, blockKey string) {
	p := &Prompt{Mode: ModeMedia, Anchor: anchor, Selection: s.Selection()}
	if key, e, ok := embed.EntityOf(s.Content(), blockKey); ok {
		p.EntityKey, p.Data = key, e.Data()
		p.Selection = document.Collapsed(blockKey, 0)
	}
	c.open = p
	c.log.Debug().Str("mode", p.Mode.String()).Bool("edit", p.Editing()).Msg("prompt opened")
}

// Cancel closes the prompt without changing the document.
func (c *Coordinator) Cancel() {
	if c.open != nil {
		c.log.Debug().Str("mode", c.open.Mode.String()).Msg("prompt cancelled")
	}
	c.open = nil
}

// Confirm applies in to the document and closes the prompt. Without an
// open prompt it returns s unchanged.
func (c *Coordinator) Confirm(s *document.State, in Input) *document.State {
	p := c.open
	if p == nil {
		return s
	}
	c.open = nil
	c.log.Debug().Str("mode", p.Mode.String()).Bool("edit", p.Editing()).Bool("remove", in.URL == "").Msg("prompt confirmed")

	switch {
	case in.URL == "" && !p.Editing():
		return s
	case in.URL == "" && p.Mode == ModeLink:
		return document.ToggleLink(s, p.Selection, "")
	case in.URL == "":
		return embed.Remove(document.ForceSelection(s, p.Selection))
	case p.Editing():
		return document.ReplaceEntityData(s, p.EntityKey, in.data(p.Mode))
	case p.Mode == ModeLink:
		s, key := document.CreateEntity(s, document.EntityLink, document.Mutable, in.data(p.Mode))
		return document.ToggleLink(s, p.Selection, key)
	default:
		return embed.Insert(document.ForceSelection(s, p.Selection), document.EntityImage, in.data(p.Mode))
	}
}
