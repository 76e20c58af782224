package lua

import (
	"strings"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/render"
)

var builtinBlocks = map[document.BlockType]bool{
	document.BlockUnstyled:      true,
	document.BlockHeaderOne:     true,
	document.BlockHeaderTwo:     true,
	document.BlockHeaderThree:   true,
	document.BlockHeaderFour:    true,
	document.BlockHeaderFive:    true,
	document.BlockHeaderSix:     true,
	document.BlockQuote:         true,
	document.BlockCode:          true,
	document.BlockUnorderedList: true,
	document.BlockOrderedList:   true,
}

// editor is the API table handed to a command function. Each mutating
// call replaces state.
type editor struct {
	state *document.State
	log   zerolog.Logger
}

func (e *editor) table(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":           e.text,
		"selected_text":  e.selectedText,
		"selection":      e.selection,
		"block_type":     e.blockType,
		"insert":         e.insert,
		"toggle_style":   e.toggleStyle,
		"set_block_type": e.setBlockType,
		"command":        e.command,
		"log":            e.logf,
	})
}

func (e *editor) text(L *lua.LState) int {
	L.Push(lua.LString(e.state.Content().PlainText()))
	return 1
}

func (e *editor) selectedText(L *lua.LState) int {
	L.Push(lua.LString(document.SelectedText(e.state)))
	return 1
}

func (e *editor) selection(L *lua.LState) int {
	sel := e.state.Selection()
	t := L.NewTable()
	t.RawSetString("anchor_key", lua.LString(sel.AnchorKey))
	t.RawSetString("anchor_offset", lua.LNumber(sel.AnchorOffset))
	t.RawSetString("focus_key", lua.LString(sel.FocusKey))
	t.RawSetString("focus_offset", lua.LNumber(sel.FocusOffset))
	t.RawSetString("collapsed", lua.LBool(sel.IsCollapsed()))
	L.Push(t)
	return 1
}

func (e *editor) blockType(L *lua.LState) int {
	L.Push(lua.LString(document.CurrentBlockType(e.state)))
	return 1
}

func (e *editor) insert(L *lua.LState) int {
	text := L.CheckString(1)
	if text == "" {
		return 0
	}
	if strings.Contains(text, "\n") {
		e.state = document.InsertFragment(e.state, text)
	} else {
		e.state = document.InsertCharacters(e.state, text)
	}
	return 0
}

func (e *editor) toggleStyle(L *lua.LState) int {
	name := L.CheckString(1)
	e.state = document.ToggleInlineStyle(e.state, string(render.Canonical(name)))
	return 0
}

func (e *editor) setBlockType(L *lua.LState) int {
	typ := document.BlockType(strings.ToLower(L.CheckString(1)))
	if !builtinBlocks[typ] {
		typ = document.BlockType(render.Canonical(string(typ)))
	}
	if document.CurrentBlockType(e.state) != typ {
		e.state = document.ToggleBlockType(e.state, typ)
	}
	return 0
}

func (e *editor) command(L *lua.LState) int {
	ns, ok := document.HandleKeyCommand(e.state, L.CheckString(1))
	e.state = ns
	L.Push(lua.LBool(ok))
	return 1
}

func (e *editor) logf(L *lua.LState) int {
	e.log.Debug().Str("source", "lua").Msg(L.CheckString(1))
	return 0
}
