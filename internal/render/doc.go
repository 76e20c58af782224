// Package render turns document content into styled lines for a host to
// draw.
//
// Renderers are registered by tag in a Registry: inline styles, block
// types and atomic entity types each have their own table. Tags are
// canonicalized to upper case when registered and when looked up, so
// "bold", "Bold" and "BOLD" name the same renderer. Unregistered inline
// styles and block types render as plain text; atomic blocks whose entity
// type has no renderer produce no output.
//
// Decorators add styling to text matching a regular expression, such as
// hashtags or mentions, independent of the stored inline styles.
package render
