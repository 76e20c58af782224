// Package embed coordinates atomic blocks: inserting embedded objects,
// tracking which one has focus, removing them, and dispatching them to
// renderers.
package embed

import (
	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/render"
)

// AtomicChar is the placeholder text of an atomic block.
const AtomicChar = " "

// Coordinator tracks the focused embedded object.
type Coordinator struct {
	registry *render.Registry
	focused  string
	log      zerolog.Logger
}

// New creates a coordinator that renders through registry.
func New(registry *render.Registry, log zerolog.Logger) *Coordinator {
	if registry == nil {
		registry = render.NewRegistry()
	}
	return &Coordinator{registry: registry, log: log}
}

// Insert adds an atomic block at the selection whose immutable entity has
// the given type and data.
func Insert(s *document.State, entityType string, data map[string]any) *document.State {
	s, key := document.CreateEntity(s, entityType, document.Immutable, data)
	return document.InsertAtomicBlock(s, key, AtomicChar)
}

// Remove deletes the block holding the start of the selection.
func Remove(s *document.State) *document.State {
	return document.RemoveBlock(s, s.Selection().StartKey())
}

// EntityOf returns the entity of an atomic block.
func EntityOf(c *document.Content, blockKey string) (string, *document.Entity, bool) {
	b := c.BlockForKey(blockKey)
	if b == nil || b.Type() != document.BlockAtomic || b.Len() == 0 {
		return "", nil, false
	}
	key := b.EntityAt(0)
	e, ok := c.Entity(key)
	return key, e, ok
}

// Focus records blockKey as the focused object and collapses the selection
// onto it. Blocks that are not atomic, or carry no entity, are ignored.
func (c *Coordinator) Focus(s *document.State, blockKey string) (*document.State, bool) {
	if _, _, ok := EntityOf(s.Content(), blockKey); !ok {
		return s, false
	}
	c.focused = blockKey
	c.log.Debug().Str("block", blockKey).Msg("embedded object focused")
	return document.ForceSelection(s, document.Collapsed(blockKey, 0)), true
}

// Focused returns the key of the focused block, or "".
func (c *Coordinator) Focused() string {
	return c.focused
}

// ClearFocus forgets the focused block.
func (c *Coordinator) ClearFocus() {
	c.focused = ""
}

// Render returns the lines of an atomic block, or nil when its entity type
// has no renderer.
func (c *Coordinator) Render(content *document.Content, blockKey string) []string {
	_, e, ok := EntityOf(content, blockKey)
	if !ok {
		return nil
	}
	fn, ok := c.registry.Atomic(e.Type())
	if !ok {
		c.log.Debug().Str("type", e.Type()).Msg("no renderer for embedded object")
		return nil
	}
	return fn(e)
}
