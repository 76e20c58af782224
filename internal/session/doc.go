// Package session implements the controller behind one mounted rich-text
// editor.
//
// A Controller is the only owner of the editor's document.State and of
// the transient UI state around it: the autocomplete session, the
// selection toolbar, the link and media prompts and the focused embedded
// object. Hosts feed it input (Type, Paste, KeyDown, PointerUp) and read
// back state to draw. Every committed replacement of the document state
// is announced to WithOnChange and to subscribers of
// event.TopicDocumentChanged.
//
// The controller is single-threaded. Work that must wait for the host to
// settle, such as measuring the selection after a pointer-up or moving
// focus after a prompt closes, is deferred through a schedule.Scheduler
// and re-reads the current state when it runs. After Unmount every
// deferred callback is a no-op.
package session
