// Package event provides the synchronous notification bus for an editing
// session.
//
// The session publishes an event every time it commits a new document
// snapshot or changes UI mode state. Views subscribe by topic and re-read
// whatever they render; nothing is delivered asynchronously because the
// session is driven from a single goroutine.
//
// # Topics
//
// Topics use dot notation:
//
//	document.changed       - a new document snapshot was committed
//	document.saved         - the document was serialized
//	toolbar.moved          - the selection toolbar was placed or hidden
//	autocomplete.opened    - an autocomplete session started
//	autocomplete.closed    - an autocomplete session was committed or cancelled
//	prompt.opened          - a link or media prompt opened
//
// # Wildcard Patterns
//
// Subscriptions may use wildcards:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
//	autocomplete.*   matches autocomplete.opened, autocomplete.closed
//	**               matches everything
package event
