package session

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/autocomplete"
	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/embed"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/overlay"
	"github.com/dshills/richedit/internal/prompt"
	"github.com/dshills/richedit/internal/render"
	"github.com/dshills/richedit/internal/schedule"
)

// Controller owns the editor state of one mounted editor. Methods must be
// called from a single goroutine, the one that drains the scheduler.
type Controller struct {
	state *document.State

	auto       *autocomplete.Engine
	positioner *overlay.Positioner
	prompts    *prompt.Coordinator
	embeds     *embed.Coordinator
	dispatch   *dispatcher.Dispatcher
	registry   *render.Registry
	bus        *event.Bus

	geometry  overlay.Geometry
	focuser   Focuser
	scheduler schedule.Scheduler
	queue     *schedule.Queue
	ownsQueue bool

	controls  map[string]Control
	toolbar   ToolbarConfig
	maxLength int
	readOnly  bool
	pretty    bool
	onChange  func(*document.State)
	onSave    func(string)

	unmounted bool
	log       zerolog.Logger
}

// New creates a controller. It fails only when the initial payload or a
// decorator pattern is malformed.
func New(opts ...Option) (*Controller, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	content := o.content
	if o.payload != "" {
		loaded, err := document.Load(o.payload)
		if err != nil {
			return nil, fmt.Errorf("load document: %w", err)
		}
		content = loaded
	}

	registry := o.registry
	if registry == nil {
		registry = render.NewRegistry()
	}
	controls := make(map[string]Control, len(o.controls))
	for _, ctl := range o.controls {
		ctl.register(registry)
		controls[ctl.Name] = ctl
	}
	for _, d := range o.decorators {
		if err := registry.AddDecorator(d.name, d.pattern, d.style); err != nil {
			return nil, err
		}
	}

	c := &Controller{
		state:      document.NewState(document.WithContent(content), document.WithMaxUndoEntries(o.maxUndo)),
		positioner: overlay.New(o.overlay...),
		prompts:    prompt.New(o.log),
		embeds:     embed.New(registry, o.log),
		registry:   registry,
		bus:        event.NewBus(),
		geometry:   o.geometry,
		focuser:    o.focuser,
		controls:   controls,
		toolbar:    o.toolbar,
		maxLength:  o.maxLength,
		readOnly:   o.readOnly,
		pretty:     o.pretty,
		onChange:   o.onChange,
		onSave:     o.onSave,
		log:        o.log,
	}
	if c.geometry == nil {
		c.geometry = noGeometry{}
	}

	c.scheduler = o.scheduler
	if c.scheduler == nil {
		c.queue, c.ownsQueue = schedule.New(), true
		c.scheduler = c.queue
	} else if q, ok := c.scheduler.(*schedule.Queue); ok {
		c.queue = q
	}

	c.auto = autocomplete.New(o.strategies, autocomplete.WithSuggestLimit(o.limit), autocomplete.WithLogger(o.log))
	c.dispatch = dispatcher.New(
		dispatcher.WithLogger(o.log),
		dispatcher.WithCompleter(c.auto),
		dispatcher.WithKeyCommands(o.commands...),
	)
	return c, nil
}

// noGeometry is used when the host measures nothing.
type noGeometry struct{}

func (noGeometry) EditorRect() overlay.Rect { return overlay.Rect{} }

func (noGeometry) EditorOffset() overlay.Position { return overlay.Position{} }

func (noGeometry) SelectionRect() (overlay.Rect, bool) { return overlay.Rect{}, false }

// State returns the current state.
func (c *Controller) State() *document.State { return c.state }

// Content returns the current document.
func (c *Controller) Content() *document.Content { return c.state.Content() }

// ReadOnly reports whether editing is disabled.
func (c *Controller) ReadOnly() bool { return c.readOnly }

// Registry returns the renderer registry.
func (c *Controller) Registry() *render.Registry { return c.registry }

// Render lays out the current document.
func (c *Controller) Render() []render.Line {
	return c.registry.Render(c.state.Content())
}

// Autocomplete returns a copy of the active autocomplete session, or nil.
func (c *Controller) Autocomplete() *autocomplete.Session {
	s := c.auto.Session()
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// Candidates returns the current suggestions.
func (c *Controller) Candidates() []autocomplete.Item {
	return c.auto.Candidates()
}

// Prompt returns a copy of the open prompt, or nil.
func (c *Controller) Prompt() *prompt.Prompt {
	p := c.prompts.Current()
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// FocusedEmbed returns the key of the focused embedded object, or "".
func (c *Controller) FocusedEmbed() string {
	return c.embeds.Focused()
}

// RenderEmbed renders an atomic block through the registry.
func (c *Controller) RenderEmbed(blockKey string) []string {
	return c.embeds.Render(c.state.Content(), blockKey)
}

// SetStrategies replaces the autocomplete strategies.
func (c *Controller) SetStrategies(strategies []autocomplete.Strategy, suggestLimit int) {
	c.auto.SetStrategies(strategies, suggestLimit)
}

// SetKeyCommands replaces the custom key commands.
func (c *Controller) SetKeyCommands(cmds []dispatcher.KeyCommand) {
	c.dispatch.SetKeyCommands(cmds)
}

// SetSelection moves the selection without recording history.
func (c *Controller) SetSelection(sel document.Selection) {
	if c.unmounted || sel == c.state.Selection() {
		return
	}
	c.commit(document.ForceSelection(c.state, sel))
}

// commit makes ns current and notifies observers. It reports whether the
// state changed.
func (c *Controller) commit(ns *document.State) bool {
	if ns == nil || ns == c.state || c.unmounted {
		return false
	}
	c.state = ns
	if c.onChange != nil {
		c.onChange(ns)
	}
	publish(c, event.TopicDocumentChanged, ChangeEvent{State: ns, Change: ns.LastChangeType()})
	return true
}

// later defers fn, dropping it if the controller has unmounted by the
// time it runs.
func (c *Controller) later(name string, fn func()) {
	c.scheduler.Defer(func() {
		if c.unmounted {
			c.log.Debug().Str("task", name).Msg("deferred callback after unmount")
			return
		}
		fn()
	})
}

// Tick runs the callbacks deferred so far. Hosts using their own
// scheduler drain it themselves.
func (c *Controller) Tick() int {
	if c.queue == nil {
		return 0
	}
	return c.queue.RunPending()
}

// Focus releases and then reacquires the host input element on the
// following ticks.
func (c *Controller) Focus() {
	if c.focuser == nil || c.unmounted {
		return
	}
	c.later("focus-release", func() {
		c.focuser.Blur()
		c.later("focus-acquire", c.focuser.Focus)
	})
}

// Blur hides the selection toolbar and closes any autocomplete session.
func (c *Controller) Blur() {
	if c.unmounted {
		return
	}
	prev := c.snapshotAutocomplete()
	c.auto.Cancel()
	c.notifyAutocomplete(prev)
	c.hideToolbar()
}

// Undo reverts the last change.
func (c *Controller) Undo() bool {
	if c.readOnly {
		return false
	}
	return c.commit(document.Undo(c.state))
}

// Redo re-applies the last undone change.
func (c *Controller) Redo() bool {
	if c.readOnly {
		return false
	}
	return c.commit(document.Redo(c.state))
}

// Save serializes the document and hands it to the save callback.
func (c *Controller) Save() (string, error) {
	var (
		payload string
		err     error
	)
	if c.pretty {
		payload, err = document.SaveIndent(c.state.Content())
	} else {
		payload, err = document.Save(c.state.Content())
	}
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}
	if c.onSave != nil {
		c.onSave(payload)
	}
	publish(c, event.TopicDocumentSaved, SaveEvent{Payload: payload})
	c.log.Debug().Int("bytes", len(payload)).Msg("document saved")
	return payload, nil
}

// Unmount tears the controller down. Pending deferrals become no-ops and
// further input is ignored. It is safe to call more than once.
func (c *Controller) Unmount() {
	if c.unmounted {
		return
	}
	publish(c, event.TopicSessionUnmounted, struct{}{})
	c.unmounted = true
	if c.ownsQueue {
		c.queue.Close()
	}
	c.bus.Close()
	c.log.Debug().Msg("session unmounted")
}

// Unmounted reports whether Unmount has been called.
func (c *Controller) Unmounted() bool {
	return c.unmounted
}

func (c *Controller) hideToolbar() {
	if _, shown := c.positioner.Toolbar(); !shown {
		return
	}
	c.positioner.HideToolbar()
	publish(c, event.TopicToolbarMoved, ToolbarEvent{})
}

// lineOf returns the index of block key, used as the caret's line when
// the host cannot measure it.
func lineOf(content *document.Content, key string) int {
	for i, b := range content.Blocks() {
		if b.Key() == key {
			return i
		}
	}
	return 0
}
