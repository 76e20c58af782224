package session

import (
	"github.com/dshills/richedit/internal/embed"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/overlay"
	"github.com/dshills/richedit/internal/prompt"
)

// Prompt anchors used for the popovers the controller opens itself.
const (
	AnchorLink  = "link"
	AnchorMedia = "media"
)

// PointerUp closes any autocomplete session and, on the next tick, places
// or hides the selection toolbar. A click on an embedded object focuses
// it and opens the media prompt instead. The deferred step reads the
// selection current at that time.
func (c *Controller) PointerUp() {
	if c.unmounted {
		return
	}
	prev := c.snapshotAutocomplete()
	c.auto.Cancel()
	c.notifyAutocomplete(prev)
	c.later("pointer-up", c.settleSelection)
}

func (c *Controller) settleSelection() {
	sel := c.state.Selection()
	content := c.state.Content()
	offsets := overlay.SelectionOffsets{
		Start: content.GlobalOffset(sel.StartKey(), sel.StartOffset()),
		End:   content.GlobalOffset(sel.EndKey(), sel.EndOffset()),
	}

	if c.positioner.ShouldHide(offsets, sel.IsCollapsed()) {
		if !c.readOnly && c.focusEmbed(sel.StartKey()) {
			return
		}
		c.hideToolbar()
		return
	}
	if c.readOnly || !c.toolbar.InlineVisible || c.prompts.IsOpen() {
		return
	}
	if pos, ok := c.positioner.PlaceToolbar(c.geometry, offsets); ok {
		c.log.Debug().Float64("top", pos.Top).Float64("left", pos.Left).Msg("toolbar placed")
		publish(c, event.TopicToolbarMoved, ToolbarEvent{Shown: true, Position: pos})
	}
}

// focusEmbed focuses the embedded object in blockKey and opens the media
// prompt over it.
func (c *Controller) focusEmbed(blockKey string) bool {
	ns, ok := c.embeds.Focus(c.state, blockKey)
	if !ok {
		return false
	}
	c.hideToolbar()
	c.commit(ns)
	publish(c, event.TopicEmbedFocused, EmbedEvent{BlockKey: blockKey})
	c.prompts.OpenMedia(c.state, AnchorMedia, blockKey)
	c.publishPrompt(event.TopicPromptOpened, false)
	return true
}

func (c *Controller) publishPrompt(topic event.Topic, confirmed bool) {
	ev := PromptEvent{Confirmed: confirmed}
	if p := c.prompts.Current(); p != nil {
		ev.Prompt = *p
	}
	publish(c, topic, ev)
}

// InsertEmbeddedObject inserts an atomic block for a registered embedded
// object type. Unknown types are ignored.
func (c *Controller) InsertEmbeddedObject(typeName string, data map[string]any) bool {
	if c.readOnly || c.unmounted {
		return false
	}
	if _, ok := c.registry.Atomic(typeName); !ok {
		c.log.Debug().Str("type", typeName).Msg("unknown embedded object type")
		return false
	}
	return c.commit(embed.Insert(c.state, canonical(typeName), data))
}

// RemoveEmbeddedObject deletes the embedded object at the start of the
// selection.
func (c *Controller) RemoveEmbeddedObject() bool {
	if c.readOnly || c.unmounted {
		return false
	}
	blockKey := c.state.Selection().StartKey()
	if _, _, ok := embed.EntityOf(c.state.Content(), blockKey); !ok {
		return false
	}
	if c.embeds.Focused() == blockKey {
		c.embeds.ClearFocus()
	}
	return c.commit(embed.Remove(c.state))
}

// OpenLinkPrompt opens the link prompt over the selection. It fails for a
// collapsed selection.
func (c *Controller) OpenLinkPrompt() bool {
	if c.readOnly || c.unmounted {
		return false
	}
	if !c.prompts.OpenLink(c.state, AnchorLink) {
		return false
	}
	c.hideToolbar()
	c.publishPrompt(event.TopicPromptOpened, false)
	return true
}

// OpenMediaPrompt opens the media prompt, editing the focused embedded
// object if there is one.
func (c *Controller) OpenMediaPrompt() bool {
	if c.readOnly || c.unmounted {
		return false
	}
	c.prompts.OpenMedia(c.state, AnchorMedia, c.embeds.Focused())
	c.hideToolbar()
	c.publishPrompt(event.TopicPromptOpened, false)
	return true
}

// ConfirmPrompt applies in and closes the prompt. Without an open prompt
// it does nothing.
func (c *Controller) ConfirmPrompt(in prompt.Input) bool {
	if c.readOnly || c.unmounted || !c.prompts.IsOpen() {
		return false
	}
	p := *c.prompts.Current()
	ns := c.prompts.Confirm(c.state, in)
	c.embeds.ClearFocus()
	c.commit(ns)
	publish(c, event.TopicPromptClosed, PromptEvent{Prompt: p, Confirmed: true})
	c.Focus()
	return true
}

// CancelPrompt closes the prompt without touching the document.
func (c *Controller) CancelPrompt() {
	if c.unmounted || !c.prompts.IsOpen() {
		return
	}
	p := *c.prompts.Current()
	c.prompts.Cancel()
	c.embeds.ClearFocus()
	publish(c, event.TopicPromptClosed, PromptEvent{Prompt: p})
	c.Focus()
}
