package session

import (
	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/autocomplete"
	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/overlay"
	"github.com/dshills/richedit/internal/render"
	"github.com/dshills/richedit/internal/schedule"
)

// Focuser is the host's native input element.
type Focuser interface {
	Blur()
	Focus()
}

// Option configures a Controller.
type Option func(*options)

type decorator struct {
	name    string
	pattern string
	style   render.StyleFunc
}

type options struct {
	log        zerolog.Logger
	content    *document.Content
	payload    string
	maxLength  int
	maxUndo    int
	readOnly   bool
	strategies []autocomplete.Strategy
	limit      int
	commands   []dispatcher.KeyCommand
	controls   []Control
	toolbar    ToolbarConfig
	decorators []decorator
	registry   *render.Registry
	geometry   overlay.Geometry
	overlay    []overlay.Option
	focuser    Focuser
	scheduler  schedule.Scheduler
	onChange   func(*document.State)
	onSave     func(string)
	pretty     bool
}

func defaultOptions() options {
	return options{
		log:   zerolog.Nop(),
		limit: autocomplete.DefaultSuggestLimit,
		toolbar: ToolbarConfig{
			Visible:        true,
			Controls:       DefaultControls(),
			InlineVisible:  false,
			InlineControls: DefaultInlineControls(),
		},
	}
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithContent sets the initial document.
func WithContent(c *document.Content) Option {
	return func(o *options) { o.content = c }
}

// WithPayload sets the initial document from a raw payload. It takes
// precedence over WithContent. An empty payload yields an empty document.
func WithPayload(payload string) Option {
	return func(o *options) { o.payload = payload }
}

// WithMaxLength rejects insertions that would make the plain text longer
// than n characters. Zero means no limit.
func WithMaxLength(n int) Option {
	return func(o *options) { o.maxLength = n }
}

// WithMaxUndo bounds the undo history.
func WithMaxUndo(n int) Option {
	return func(o *options) { o.maxUndo = n }
}

// WithReadOnly turns every mutating entry point into a no-op.
func WithReadOnly(readOnly bool) Option {
	return func(o *options) { o.readOnly = readOnly }
}

// WithStrategies sets the autocomplete strategies.
func WithStrategies(strategies ...autocomplete.Strategy) Option {
	return func(o *options) { o.strategies = strategies }
}

// WithSuggestLimit sets the maximum number of suggestions.
func WithSuggestLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithKeyCommands registers custom key commands.
func WithKeyCommands(cmds ...dispatcher.KeyCommand) Option {
	return func(o *options) { o.commands = append(o.commands, cmds...) }
}

// WithControls registers custom toolbar controls.
func WithControls(controls ...Control) Option {
	return func(o *options) { o.controls = append(o.controls, controls...) }
}

// WithToolbar sets the main toolbar's visibility and buttons. Nil
// controls keep the defaults.
func WithToolbar(visible bool, controls []string) Option {
	return func(o *options) {
		o.toolbar.Visible = visible
		if controls != nil {
			o.toolbar.Controls = controls
		}
	}
}

// WithInlineToolbar sets the selection toolbar's visibility and buttons.
// Nil controls keep the defaults.
func WithInlineToolbar(visible bool, controls []string) Option {
	return func(o *options) {
		o.toolbar.InlineVisible = visible
		if controls != nil {
			o.toolbar.InlineControls = controls
		}
	}
}

// WithDecorator styles every match of pattern. The pattern is compiled
// when the controller is created.
func WithDecorator(name, pattern string, style render.StyleFunc) Option {
	return func(o *options) {
		o.decorators = append(o.decorators, decorator{name: name, pattern: pattern, style: style})
	}
}

// WithRegistry sets the renderer registry. Custom controls and decorators
// are added to it.
func WithRegistry(r *render.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithGeometry sets the host's geometry adapter.
func WithGeometry(g overlay.Geometry) Option {
	return func(o *options) { o.geometry = g }
}

// WithOverlay configures the overlay positioner.
func WithOverlay(opts ...overlay.Option) Option {
	return func(o *options) { o.overlay = append(o.overlay, opts...) }
}

// WithFocuser sets the host input element that Focus releases and
// reacquires.
func WithFocuser(f Focuser) Option {
	return func(o *options) { o.focuser = f }
}

// WithScheduler sets where deferred callbacks are queued. By default the
// controller owns a queue that the host drains with Tick.
func WithScheduler(s schedule.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithOnChange is called after every committed state replacement.
func WithOnChange(fn func(*document.State)) Option {
	return func(o *options) { o.onChange = fn }
}

// WithOnSave receives the payload produced by Save.
func WithOnSave(fn func(payload string)) Option {
	return func(o *options) { o.onSave = fn }
}

// WithPrettySave indents saved payloads.
func WithPrettySave(pretty bool) Option {
	return func(o *options) { o.pretty = pretty }
}
