package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/overlay"
	"github.com/dshills/richedit/internal/prompt"
)

func atomicBlock(t *testing.T, c *document.Content) string {
	t.Helper()
	for _, b := range c.Blocks() {
		if b.Type() == document.BlockAtomic {
			return b.Key()
		}
	}
	t.Fatal("no atomic block")
	return ""
}

func TestPointerUpPlacesAndHidesToolbar(t *testing.T) {
	g := &fakeGeometry{
		editor:    overlay.Rect{Top: 100, Left: 50},
		offset:    overlay.Position{Top: 10, Left: 5},
		selection: overlay.Rect{Top: 140, Left: 80},
		measured:  true,
	}
	c := newController(t,
		WithGeometry(g),
		WithInlineToolbar(true, nil),
		WithContent(document.NewContentFromText("select some words")),
	)
	var moves []ToolbarEvent
	_, err := c.Subscribe(event.TopicToolbarMoved, func(ev any) error {
		p, _ := event.PayloadOf[ToolbarEvent](ev)
		moves = append(moves, p)
		return nil
	})
	require.NoError(t, err)

	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 7, k, 11))
	c.PointerUp()
	assert.False(t, c.Toolbar().Shown)

	c.Tick()
	tb := c.Toolbar()
	require.True(t, tb.Shown)
	assert.Equal(t, overlay.Position{Top: 10 - overlay.DefaultHeaderHeight + 40, Left: 35}, tb.Position)
	assert.Equal(t, DefaultInlineControls(), tb.InlineControls)

	// Clicking inside the same selection hides the toolbar.
	c.PointerUp()
	c.Tick()
	assert.False(t, c.Toolbar().Shown)

	c.SetSelection(document.Collapsed(k, 3))
	c.PointerUp()
	c.Tick()
	assert.False(t, c.Toolbar().Shown)

	require.Len(t, moves, 2)
	assert.True(t, moves[0].Shown)
	assert.False(t, moves[1].Shown)
}

func TestPointerUpReadsSelectionWhenRun(t *testing.T) {
	g := &fakeGeometry{measured: true}
	c := newController(t,
		WithGeometry(g),
		WithInlineToolbar(true, nil),
		WithContent(document.NewContentFromText("select some words")),
	)
	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 0, k, 6))
	c.PointerUp()
	c.SetSelection(document.Collapsed(k, 2))
	c.Tick()
	assert.False(t, c.Toolbar().Shown)
}

func TestInlineToolbarDisabled(t *testing.T) {
	c := newController(t,
		WithGeometry(&fakeGeometry{measured: true}),
		WithContent(document.NewContentFromText("select some words")),
	)
	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 0, k, 6))
	c.PointerUp()
	c.Tick()
	assert.False(t, c.Toolbar().Shown)
}

func TestBlurClosesOverlays(t *testing.T) {
	c := newController(t,
		WithStrategies(people()...),
		WithGeometry(&fakeGeometry{measured: true}),
		WithInlineToolbar(true, nil),
		WithContent(document.NewContentFromText("text")),
	)
	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 0, k, 4))
	c.PointerUp()
	c.Tick()
	require.True(t, c.Toolbar().Shown)
	c.SetSelection(document.Collapsed(k, 4))
	typeKeys(c, "@a")
	require.NotNil(t, c.Autocomplete())

	c.Blur()
	assert.False(t, c.Toolbar().Shown)
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, "text@a", c.Content().PlainText())
}

func TestPointerUpCancelsAutocomplete(t *testing.T) {
	c := newController(t, WithStrategies(people()...))
	typeKeys(c, "@al")
	c.PointerUp()
	assert.Nil(t, c.Autocomplete())
	assert.Equal(t, "@al", c.Content().PlainText())
}

func TestLinkPromptLifecycle(t *testing.T) {
	f := &fakeFocuser{}
	c := newController(t, WithFocuser(f), WithContent(document.NewContentFromText("visit example now")))
	k := c.Content().FirstBlock().Key()

	c.SetSelection(document.Collapsed(k, 6))
	assert.False(t, c.OpenLinkPrompt())
	assert.Nil(t, c.Prompt())

	sel := c.Content().Select(k, 6, k, 13)
	c.SetSelection(sel)
	require.True(t, c.OpenLinkPrompt())
	require.NotNil(t, c.Prompt())
	assert.False(t, c.Prompt().Editing())

	require.True(t, c.ConfirmPrompt(prompt.Input{URL: "https://example.com"}))
	assert.Nil(t, c.Prompt())
	key := document.EntityAt(c.Content(), k, 6)
	require.NotEmpty(t, key)
	ent, ok := c.Content().Entity(key)
	require.True(t, ok)
	assert.Equal(t, document.EntityLink, ent.Type())
	assert.Equal(t, map[string]any{"url": "https://example.com"}, ent.Data())
	assert.Equal(t, key, document.EntityAt(c.Content(), k, 12))
	assert.Empty(t, document.EntityAt(c.Content(), k, 13))

	c.SetSelection(sel)
	require.True(t, c.OpenLinkPrompt())
	assert.True(t, c.Prompt().Editing())
	assert.Equal(t, "https://example.com", c.Prompt().URL())

	require.True(t, c.ConfirmPrompt(prompt.Input{}))
	assert.Empty(t, document.EntityAt(c.Content(), k, 6))
	assert.Equal(t, "visit example now", c.Content().PlainText())

	c.Tick()
	c.Tick()
	c.Tick()
	c.Tick()
	assert.Equal(t, []string{"blur", "blur", "focus", "focus"}, f.calls)
}

func TestConfirmWithoutPrompt(t *testing.T) {
	c := newController(t)
	before := c.State()
	assert.False(t, c.ConfirmPrompt(prompt.Input{URL: "x"}))
	c.CancelPrompt()
	assert.Same(t, before, c.State())
}

func TestCancelPrompt(t *testing.T) {
	c := newController(t, WithContent(document.NewContentFromText("abc")))
	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 0, k, 3))
	require.True(t, c.OpenLinkPrompt())
	before := c.State()

	var closed []PromptEvent
	_, err := c.Subscribe(event.TopicPromptClosed, func(ev any) error {
		p, _ := event.PayloadOf[PromptEvent](ev)
		closed = append(closed, p)
		return nil
	})
	require.NoError(t, err)

	c.CancelPrompt()
	assert.Nil(t, c.Prompt())
	assert.Same(t, before, c.State())
	require.Len(t, closed, 1)
	assert.False(t, closed[0].Confirmed)
	assert.Equal(t, prompt.ModeLink, closed[0].Prompt.Mode)
}

func TestMediaInsertAndRemove(t *testing.T) {
	c := newController(t)

	require.True(t, c.InsertEmbeddedObject("image", map[string]any{"url": "img.png"}))
	count := c.Content().BlockCount()
	block := atomicBlock(t, c.Content())
	assert.Equal(t, []string{"[image: img.png]"}, c.RenderEmbed(block))

	c.SetSelection(document.Collapsed(block, 0))
	require.True(t, c.RemoveEmbeddedObject())
	assert.Equal(t, count-1, c.Content().BlockCount())
	for _, k := range c.Content().EntityKeys() {
		e, _ := c.Content().Entity(k)
		assert.NotEqual(t, "img.png", e.String("url"))
	}
	assert.False(t, c.RemoveEmbeddedObject())
}

func TestInsertUnknownEmbeddedObject(t *testing.T) {
	c := newController(t)
	before := c.State()
	assert.False(t, c.InsertEmbeddedObject("video", map[string]any{"url": "v.mp4"}))
	assert.Same(t, before, c.State())
}

func TestMediaPromptCreatesImage(t *testing.T) {
	c := newController(t, WithContent(document.NewContentFromText("caption")))
	require.True(t, c.ToolbarAction(ControlMedia))
	require.NotNil(t, c.Prompt())
	assert.Equal(t, prompt.ModeMedia, c.Prompt().Mode)
	assert.False(t, c.Prompt().Editing())

	require.True(t, c.ConfirmPrompt(prompt.Input{URL: "pic.png", Width: 300, Alignment: "center"}))
	block := atomicBlock(t, c.Content())
	_, ent, ok := entityOf(c, block)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"url": "pic.png", "width": 300, "alignment": "center"}, ent.Data())
	assert.Equal(t, "caption", c.Content().LastBlock().Text())
}

func TestClickOnEmbedOpensMediaPrompt(t *testing.T) {
	c := newController(t)
	require.True(t, c.InsertEmbeddedObject("image", map[string]any{"url": "img.png"}))
	block := atomicBlock(t, c.Content())

	var focused []string
	_, err := c.Subscribe(event.TopicEmbedFocused, func(ev any) error {
		p, _ := event.PayloadOf[EmbedEvent](ev)
		focused = append(focused, p.BlockKey)
		return nil
	})
	require.NoError(t, err)

	c.SetSelection(document.Collapsed(block, 0))
	c.PointerUp()
	c.Tick()

	assert.Equal(t, []string{block}, focused)
	assert.Equal(t, block, c.FocusedEmbed())
	require.NotNil(t, c.Prompt())
	assert.True(t, c.Prompt().Editing())
	assert.Equal(t, "img.png", c.Prompt().URL())

	require.True(t, c.ConfirmPrompt(prompt.Input{URL: "other.png"}))
	assert.Empty(t, c.FocusedEmbed())
	_, ent, ok := entityOf(c, block)
	require.True(t, ok)
	assert.Equal(t, "other.png", ent.String("url"))
	assert.Equal(t, document.ChangeApplyEntity, c.State().LastChangeType())
}

func TestMediaPromptEmptyURLRemovesBlock(t *testing.T) {
	c := newController(t)
	require.True(t, c.InsertEmbeddedObject("image", map[string]any{"url": "img.png"}))
	count := c.Content().BlockCount()
	block := atomicBlock(t, c.Content())

	c.SetSelection(document.Collapsed(block, 0))
	c.PointerUp()
	c.Tick()
	require.NotNil(t, c.Prompt())

	require.True(t, c.ConfirmPrompt(prompt.Input{}))
	assert.Equal(t, count-1, c.Content().BlockCount())
	assert.Nil(t, c.Content().BlockForKey(block))
	assert.Empty(t, c.FocusedEmbed())
}

func entityOf(c *Controller, block string) (string, *document.Entity, bool) {
	b := c.Content().BlockForKey(block)
	if b == nil {
		return "", nil, false
	}
	e, ok := c.Content().Entity(b.EntityAt(0))
	return b.EntityAt(0), e, ok
}
