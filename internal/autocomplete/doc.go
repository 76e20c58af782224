// Package autocomplete implements trigger-character autocompletion for the
// editor.
//
// A Strategy pairs a trigger character with a list of items. Typing the
// trigger opens a Session anchored at the caret position before the
// trigger; following characters accumulate into the search term until the
// user commits an item, cancels, or types a space. Suggestions are only
// offered once the search term reaches MinSearchLength characters.
//
// Committing replaces the trigger and search term in the document either
// with the item's value as text tagged with an AC_ITEM entity, or, for
// strategies that name an atomic block type, with an atomic block.
package autocomplete
