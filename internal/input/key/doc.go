// Package key provides key event types and parsing for editor input.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers
//
// # Key Specifications
//
// Key specifications are used for custom key commands and can be written in
// multiple formats:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+K", "Alt+F4", "Ctrl+Shift+P"
//   - Short form: "<C-k>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
//
// Terminal hosts convert tcell events with FromTcell.
package key
