package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/render"
)

func TestToolbarDefaults(t *testing.T) {
	c := newController(t)
	tb := c.Toolbar()
	assert.True(t, tb.Visible)
	assert.Equal(t, DefaultControls(), tb.Controls)
	assert.False(t, tb.InlineVisible)
	assert.False(t, tb.Shown)

	c = newController(t, WithToolbar(false, []string{ControlBold}))
	tb = c.Toolbar()
	assert.False(t, tb.Visible)
	assert.Equal(t, []string{ControlBold}, tb.Controls)
}

func TestToolbarBuiltinActions(t *testing.T) {
	c := newController(t, WithContent(document.NewContentFromText("make this bold")))
	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 10, k, 14))

	require.True(t, c.ToolbarAction(ControlBold))
	assert.True(t, c.Content().FirstBlock().StyleAt(10).Has(document.StyleBold))

	require.True(t, c.ToolbarAction(ControlHighlight))
	assert.True(t, c.Content().FirstBlock().StyleAt(12).Has(document.StyleHighlight))

	require.True(t, c.ToolbarAction(ControlTitle))
	assert.Equal(t, document.BlockHeaderTwo, c.Content().FirstBlock().Type())

	require.True(t, c.ToolbarAction(ControlUndo))
	assert.Equal(t, document.BlockUnstyled, c.Content().FirstBlock().Type())
	require.True(t, c.ToolbarAction(ControlRedo))
	assert.Equal(t, document.BlockHeaderTwo, c.Content().FirstBlock().Type())

	require.True(t, c.ToolbarAction(ControlClear))
	assert.False(t, c.Content().FirstBlock().StyleAt(10).Has(document.StyleBold))

	assert.False(t, c.ToolbarAction("no-such-control"))
}

func TestToolbarLinkNeedsSelection(t *testing.T) {
	c := newController(t, WithContent(document.NewContentFromText("abc")))
	assert.False(t, c.ToolbarAction(ControlLink))

	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 0, k, 2))
	assert.True(t, c.ToolbarAction(ControlLink))
	assert.NotNil(t, c.Prompt())
}

func TestToolbarSave(t *testing.T) {
	var saved string
	c := newController(t, WithOnSave(func(p string) { saved = p }))
	assert.True(t, c.ToolbarAction(ControlSave))
	assert.Contains(t, saved, `"blocks"`)
}

func TestCustomControls(t *testing.T) {
	red, err := render.ParseColor("#ff0000")
	require.NoError(t, err)

	c := newController(t,
		WithContent(document.NewContentFromText("custom text")),
		WithControls(
			Control{
				Name:  "redText",
				Type:  ControlStyle,
				Style: func(s render.Style) render.Style { return s.WithForeground(red) },
			},
			Control{
				Name:  "callout",
				Type:  ControlBlock,
				Block: func(*document.Block, int) render.Decoration { return render.Decoration{Prefix: "! "} },
			},
			Control{
				Name: "stamp",
				Type: ControlCallback,
				Callback: func(s *document.State) *document.State {
					return document.InsertCharacters(s, "*")
				},
			},
			Control{
				Name:   "card",
				Type:   ControlAtomic,
				Atomic: func(e *document.Entity) []string { return []string{"[card]"} },
			},
		),
	)
	_, ok := c.Registry().Style("REDTEXT")
	assert.True(t, ok)
	_, ok = c.Registry().Block("callout")
	assert.True(t, ok)

	k := c.Content().FirstBlock().Key()
	c.SetSelection(c.Content().Select(k, 0, k, 6))
	require.True(t, c.ToolbarAction("redText"))
	assert.True(t, c.Content().FirstBlock().StyleAt(0).Has("REDTEXT"))

	require.True(t, c.ToolbarAction("callout"))
	assert.Equal(t, document.BlockType("CALLOUT"), c.Content().FirstBlock().Type())
	lines := c.Render()
	require.NotEmpty(t, lines)
	assert.Equal(t, "! ", lines[0].Prefix)

	c.SetSelection(document.Collapsed(k, 0))
	require.True(t, c.ToolbarAction("stamp"))
	assert.Equal(t, "*custom text", c.Content().PlainText())

	require.True(t, c.ToolbarAction("card"))
	block := atomicBlock(t, c.Content())
	assert.Equal(t, []string{"[card]"}, c.RenderEmbed(block))
}
