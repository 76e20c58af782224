// Package lua runs custom editor commands written in Lua.
//
// A script is a chunk that returns a function. The function is called with
// an editor table each time the command runs:
//
//	return function(editor)
//	    if editor.selected_text() ~= "" then
//	        editor.toggle_style("highlight")
//	    else
//	        editor.insert("TODO: ")
//	    end
//	end
//
// The editor table exposes:
//
//	text()               plain text of the document
//	selected_text()      text covered by the selection
//	selection()          {anchor_key, anchor_offset, focus_key, focus_offset, collapsed}
//	block_type()         type of the block holding the selection start
//	insert(s)            replace the selection with s
//	toggle_style(name)   toggle an inline style
//	set_block_type(name) set the type of the selected blocks
//	command(name)        run a built-in command, returning whether it exists
//	log(msg)             write a debug log line
//
// Every call works on the document snapshot left by the previous one; the
// final snapshot replaces the editor state. A script that raises an error
// or runs past its timeout leaves the state unchanged.
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened, and
// dofile, loadfile, load, loadstring and require are removed.
package lua
