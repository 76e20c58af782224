// Package document provides the immutable rich-text document engine used by
// the editing session.
//
// The engine is built from a handful of value types:
//
//   - Block: one paragraph-level unit (text, per-character style and entity
//     metadata, block type, depth)
//   - Entity: a typed data record attached to a text range or an atomic block
//   - Content: an ordered list of blocks plus the entity map
//   - Selection: anchor/focus positions addressed by block key and rune offset
//   - State: the current Content and Selection plus undo/redo stacks
//
// # Immutability
//
// Nothing in this package mutates a value after it has been handed out.
// Every modifier returns a new Content that shares unchanged blocks with its
// predecessor, and every State transition returns a new State:
//
//	st := document.NewState()
//	st = document.InsertCharacters(st, "Hello")
//	st = document.ToggleInlineStyle(st, document.StyleBold)
//	st = document.Undo(st)
//
// # Undo/Redo
//
// State carries persistent undo and redo stacks of Content. Consecutive
// character insertions (and consecutive backspaces) coalesce into a single
// undo step. Undo restores the selection recorded before the undone change;
// redo restores the selection recorded after it.
//
// # Raw payloads
//
// Load and Save convert Content to and from the raw JSON payload:
//
//	{"blocks":[{"key":"a1","text":"Hi","type":"unstyled","depth":0,
//	  "inlineStyleRanges":[{"offset":0,"length":2,"style":"BOLD"}],
//	  "entityRanges":[],"data":{}}],
//	 "entityMap":{}}
//
// # Offsets
//
// All offsets inside a block are rune offsets, not byte offsets.
package document
