// Package dispatcher turns key events into editor commands and runs them.
//
// Resolution follows a fixed precedence for every key event:
//
//  1. Custom key commands registered by the host. These only match when a
//     command modifier (Ctrl or Meta) is held.
//  2. Autocomplete navigation while a search is in progress: Up and Down
//     move the selection, Enter commits and Escape discards.
//  3. The document's default bindings (split-block, backspace, style
//     toggles, undo and redo). Backspace and split-block are also reported
//     to the autocomplete engine so its search term stays in sync.
//
// Execution delegates built-in commands to the document package, then
// looks up custom commands by name. Anything else is reported as
// unhandled and leaves the document untouched.
package dispatcher
