package dispatcher

import (
	"fmt"
	"runtime"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/autocomplete"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/input/key"
)

// Commands resolved while an autocomplete search is in progress.
const (
	CommandAutocompleteNext   = "autocomplete-next"
	CommandAutocompletePrev   = "autocomplete-prev"
	CommandAutocompleteCommit = "autocomplete-commit"
	CommandAutocompleteCancel = "autocomplete-cancel"
)

// CommandFunc runs a custom command against the current state and
// returns its replacement.
type CommandFunc func(s *document.State) *document.State

// KeyCommand is a host-registered shortcut.
type KeyCommand struct {
	// Name identifies the command for execution and toolbar controls.
	Name string

	// Key is matched by key code. Modifiers in Key are ignored except that
	// the event must carry a command modifier.
	Key key.Event

	// Run may be nil, in which case the command resolves but does nothing.
	Run CommandFunc
}

// Completer is the autocomplete surface the dispatcher drives.
type Completer interface {
	Searching() bool
	Navigate(dir autocomplete.Direction)
	Commit(s *document.State, index int) *document.State
	Discard(s *document.State) *document.State
	OnBackspace(before rune) autocomplete.Outcome
	Cancel()
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithCompleter attaches the autocomplete engine.
func WithCompleter(c Completer) Option {
	return func(d *Dispatcher) {
		d.completer = c
	}
}

// WithKeyCommands registers custom key commands.
func WithKeyCommands(cmds ...KeyCommand) Option {
	return func(d *Dispatcher) {
		d.SetKeyCommands(cmds)
	}
}

// Dispatcher resolves key events to command names and executes them.
type Dispatcher struct {
	commands  []KeyCommand
	byName    map[string]int
	completer Completer
	log       zerolog.Logger
}

// New creates a dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		byName: make(map[string]int),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetKeyCommands replaces the custom key commands. Later commands with a
// duplicate name win.
func (d *Dispatcher) SetKeyCommands(cmds []KeyCommand) {
	d.commands = append([]KeyCommand(nil), cmds...)
	d.byName = make(map[string]int, len(cmds))
	for i, c := range d.commands {
		d.byName[c.Name] = i
	}
}

// Register adds or replaces a single custom key command.
func (d *Dispatcher) Register(cmd KeyCommand) {
	if i, ok := d.byName[cmd.Name]; ok {
		d.commands[i] = cmd
		return
	}
	d.byName[cmd.Name] = len(d.commands)
	d.commands = append(d.commands, cmd)
}

// KeyCommands returns the registered custom commands.
func (d *Dispatcher) KeyCommands() []KeyCommand {
	return append([]KeyCommand(nil), d.commands...)
}

// Resolve maps ev to a command name, or "" for plain input. s is the
// state before the key is applied; backspace and split-block update the
// autocomplete engine as a side effect.
func (d *Dispatcher) Resolve(s *document.State, ev key.Event) string {
	if ev.HasCommandModifier() {
		for _, c := range d.commands {
			if sameKeyCode(c.Key, ev) {
				return c.Name
			}
		}
	}

	if d.completer != nil && d.completer.Searching() && !ev.IsModified() {
		switch ev.Key {
		case key.KeyDown:
			return CommandAutocompleteNext
		case key.KeyUp:
			return CommandAutocompletePrev
		case key.KeyEnter:
			return CommandAutocompleteCommit
		case key.KeyEscape:
			return CommandAutocompleteCancel
		}
	}

	cmd := document.DefaultKeyBinding(ev)
	if d.completer != nil {
		collapsed := s.Selection().IsCollapsed()
		switch {
		case cmd == document.CommandBackspace && collapsed:
			d.completer.OnBackspace(document.CharBefore(s))
		case cmd == document.CommandBackspace, cmd == document.CommandDelete && !collapsed,
			cmd == document.CommandBackspaceWord, cmd == document.CommandSplitBlock:
			// A range deletion can take the typed term with it.
			d.completer.Cancel()
		}
	}
	return cmd
}

// sameKeyCode compares the key, and for rune keys the letter, ignoring
// case and modifiers.
func sameKeyCode(a, b key.Event) bool {
	a.Rune, b.Rune = unicode.ToLower(a.Rune), unicode.ToLower(b.Rune)
	b.Modifiers = a.Modifiers
	return a.Equals(b)
}

// Execute runs command against s.
func (d *Dispatcher) Execute(s *document.State, command string) (*document.State, Result) {
	if command == "" {
		return s, Unhandled(command)
	}

	if ns, res, ok := d.executeAutocomplete(s, command); ok {
		return ns, res
	}

	if ns, ok := document.HandleKeyCommand(s, command); ok {
		return ns, changed(s, ns, command)
	}

	if i, ok := d.byName[command]; ok {
		return d.executeWithRecovery(s, d.commands[i])
	}

	d.log.Debug().Str("command", command).Msg("unhandled command")
	return s, Unhandled(command)
}

// Dispatch resolves and executes ev in one step.
func (d *Dispatcher) Dispatch(s *document.State, ev key.Event) (*document.State, Result) {
	return d.Execute(s, d.Resolve(s, ev))
}

func (d *Dispatcher) executeAutocomplete(s *document.State, command string) (*document.State, Result, bool) {
	if d.completer == nil {
		return s, Result{}, false
	}
	switch command {
	case CommandAutocompleteNext:
		d.completer.Navigate(autocomplete.Down)
		return s, Success(command), true
	case CommandAutocompletePrev:
		d.completer.Navigate(autocomplete.Up)
		return s, Success(command), true
	case CommandAutocompleteCommit:
		ns := d.completer.Commit(s, -1)
		return ns, Success(command), true
	case CommandAutocompleteCancel:
		ns := d.completer.Discard(s)
		return ns, Success(command), true
	}
	return s, Result{}, false
}

// executeWithRecovery runs a custom command with panic recovery.
func (d *Dispatcher) executeWithRecovery(s *document.State, cmd KeyCommand) (ns *document.State, result Result) {
	if cmd.Run == nil {
		return s, NoOp(cmd.Name)
	}
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			d.log.Error().Str("command", cmd.Name).Interface("panic", r).Bytes("stack", stack[:n]).Msg("custom command panicked")
			ns, result = s, Error(cmd.Name, fmt.Errorf("%w: %s: %v", ErrPanic, cmd.Name, r))
		}
	}()

	ns = cmd.Run(s)
	if ns == nil {
		return s, NoOp(cmd.Name)
	}
	return ns, changed(s, ns, cmd.Name)
}

func changed(before, after *document.State, command string) Result {
	if before == after {
		return NoOp(command)
	}
	return Success(command)
}
