package session

import (
	"slices"

	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/overlay"
	"github.com/dshills/richedit/internal/render"
)

// Built-in toolbar control names.
const (
	ControlTitle         = "title"
	ControlBold          = "bold"
	ControlItalic        = "italic"
	ControlUnderline     = "underline"
	ControlStrikethrough = "strikethrough"
	ControlHighlight     = "highlight"
	ControlUndo          = "undo"
	ControlRedo          = "redo"
	ControlLink          = "link"
	ControlMedia         = "media"
	ControlNumberList    = "numberList"
	ControlBulletList    = "bulletList"
	ControlQuote         = "quote"
	ControlCode          = "code"
	ControlClear         = "clear"
	ControlSave          = "save"
)

var toolbarStyles = map[string]string{
	ControlBold:          document.StyleBold,
	ControlItalic:        document.StyleItalic,
	ControlUnderline:     document.StyleUnderline,
	ControlStrikethrough: document.StyleStrikethrough,
	ControlHighlight:     document.StyleHighlight,
}

var toolbarBlocks = map[string]document.BlockType{
	ControlTitle:      document.BlockHeaderTwo,
	ControlNumberList: document.BlockOrderedList,
	ControlBulletList: document.BlockUnorderedList,
	ControlQuote:      document.BlockQuote,
	ControlCode:       document.BlockCode,
}

var toolbarCommands = map[string]string{
	ControlUndo:  document.CommandUndo,
	ControlRedo:  document.CommandRedo,
	ControlClear: document.CommandClear,
}

// DefaultControls returns the main toolbar's default buttons.
func DefaultControls() []string {
	return []string{
		ControlTitle, ControlBold, ControlItalic, ControlUnderline,
		ControlStrikethrough, ControlHighlight, ControlUndo, ControlRedo,
		ControlLink, ControlMedia, ControlNumberList, ControlBulletList,
		ControlQuote, ControlCode, ControlClear, ControlSave,
	}
}

// DefaultInlineControls returns the selection toolbar's default buttons.
func DefaultInlineControls() []string {
	return []string{ControlBold, ControlItalic, ControlUnderline, ControlClear}
}

// ControlType is the kind of a custom control.
type ControlType int

const (
	// ControlStyle toggles an inline style named after the control.
	ControlStyle ControlType = iota
	// ControlBlock toggles a block type named after the control.
	ControlBlock
	// ControlCallback runs a function over the current state.
	ControlCallback
	// ControlAtomic inserts an embedded object whose type is the control
	// name.
	ControlAtomic
)

// Control is a host-defined toolbar button. Style, Block and Atomic
// renderers are registered under the control's uppercased name.
type Control struct {
	Name     string
	Type     ControlType
	Style    render.StyleFunc
	Block    render.BlockFunc
	Atomic   render.AtomicFunc
	Callback dispatcher.CommandFunc
}

func (ctl Control) register(r *render.Registry) {
	switch {
	case ctl.Type == ControlStyle && ctl.Style != nil:
		r.RegisterStyle(ctl.Name, ctl.Style)
	case ctl.Type == ControlBlock && ctl.Block != nil:
		r.RegisterBlock(ctl.Name, ctl.Block)
	case ctl.Type == ControlAtomic && ctl.Atomic != nil:
		r.RegisterAtomic(ctl.Name, ctl.Atomic)
	}
}

// ToolbarConfig is the visibility and button set of both toolbars.
type ToolbarConfig struct {
	Visible        bool
	Controls       []string
	InlineVisible  bool
	InlineControls []string
}

// Toolbar is the toolbar configuration plus the selection toolbar's
// current placement.
type Toolbar struct {
	ToolbarConfig

	// Shown reports whether the selection toolbar is on screen.
	Shown    bool
	Position overlay.Position
}

// Toolbar returns the toolbar state.
func (c *Controller) Toolbar() Toolbar {
	t := Toolbar{ToolbarConfig: c.toolbar}
	t.Controls = slices.Clone(c.toolbar.Controls)
	t.InlineControls = slices.Clone(c.toolbar.InlineControls)
	t.Position, t.Shown = c.positioner.Toolbar()
	return t
}

// ToolbarAction runs the toolbar button name and reports whether it did
// anything. Unknown names are ignored.
func (c *Controller) ToolbarAction(name string) bool {
	if c.readOnly || c.unmounted {
		return false
	}
	if ctl, ok := c.controls[name]; ok {
		return c.runControl(ctl)
	}
	switch name {
	case ControlLink:
		return c.OpenLinkPrompt()
	case ControlMedia:
		return c.OpenMediaPrompt()
	case ControlSave:
		_, err := c.Save()
		return err == nil
	}
	if style, ok := toolbarStyles[name]; ok {
		return c.commit(document.ToggleInlineStyle(c.state, style))
	}
	if typ, ok := toolbarBlocks[name]; ok {
		return c.commit(document.ToggleBlockType(c.state, typ))
	}
	if cmd, ok := toolbarCommands[name]; ok {
		ns, res := c.dispatch.Execute(c.state, cmd)
		c.commit(ns)
		return res.IsOK()
	}
	c.log.Debug().Str("control", name).Msg("unknown toolbar control")
	return false
}

// canonical returns the stored tag for a control or embed type name.
func canonical(name string) string {
	return string(render.Canonical(name))
}

func (c *Controller) runControl(ctl Control) bool {
	tag := canonical(ctl.Name)
	switch ctl.Type {
	case ControlStyle:
		return c.commit(document.ToggleInlineStyle(c.state, tag))
	case ControlBlock:
		return c.commit(document.ToggleBlockType(c.state, document.BlockType(tag)))
	case ControlAtomic:
		return c.InsertEmbeddedObject(ctl.Name, nil)
	case ControlCallback:
		if ctl.Callback == nil {
			return false
		}
		ns := ctl.Callback(c.state)
		if ns == nil {
			return false
		}
		return c.commit(ns)
	}
	return false
}
