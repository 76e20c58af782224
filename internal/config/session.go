package config

import (
	"fmt"

	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/input/key"
	"github.com/dshills/richedit/internal/render"
	"github.com/dshills/richedit/internal/session"
)

// ScriptCompiler turns a script into a command.
type ScriptCompiler func(script string) (dispatcher.CommandFunc, error)

// SessionOptions converts the configuration into controller options.
// compile may be nil when no control or key command carries a script.
func (o Options) SessionOptions(compile ScriptCompiler) ([]session.Option, error) {
	opts := []session.Option{
		session.WithReadOnly(o.ReadOnly),
		session.WithMaxLength(o.MaxLength),
		session.WithPrettySave(o.PrettySave),
		session.WithStrategies(o.Autocomplete.Strategies...),
		session.WithSuggestLimit(o.Autocomplete.SuggestLimit),
	}
	if o.MaxUndo > 0 {
		opts = append(opts, session.WithMaxUndo(o.MaxUndo))
	}
	if o.Toolbar.Visible != nil || o.Toolbar.Controls != nil {
		visible := o.Toolbar.Visible == nil || *o.Toolbar.Visible
		opts = append(opts, session.WithToolbar(visible, o.Toolbar.Controls))
	}
	if o.InlineToolbar.Visible != nil || o.InlineToolbar.Controls != nil {
		visible := o.InlineToolbar.Visible != nil && *o.InlineToolbar.Visible
		opts = append(opts, session.WithInlineToolbar(visible, o.InlineToolbar.Controls))
	}

	for _, d := range o.Decorators {
		fn, err := d.styleFunc()
		if err != nil {
			return nil, fmt.Errorf("decorator %s: %w", d.Name, err)
		}
		opts = append(opts, session.WithDecorator(d.Name, d.Pattern, fn))
	}

	controls, err := o.controls(compile)
	if err != nil {
		return nil, err
	}
	opts = append(opts, session.WithControls(controls...))

	cmds, err := o.KeyCommandList(compile)
	if err != nil {
		return nil, err
	}
	opts = append(opts, session.WithKeyCommands(cmds...))
	return opts, nil
}

// KeyCommandList builds the configured key commands. A command without a
// script runs the built-in command of the same name.
func (o Options) KeyCommandList(compile ScriptCompiler) ([]dispatcher.KeyCommand, error) {
	cmds := make([]dispatcher.KeyCommand, 0, len(o.KeyCommands))
	for _, k := range o.KeyCommands {
		ev, err := key.Parse(k.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidKeyCommand, k.Name, err)
		}
		cmd := dispatcher.KeyCommand{Name: k.Name, Key: ev}
		if k.Script != "" {
			run, err := compileScript(compile, k.Name, k.Script)
			if err != nil {
				return nil, err
			}
			cmd.Run = run
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (o Options) controls(compile ScriptCompiler) ([]session.Control, error) {
	out := make([]session.Control, 0, len(o.Controls))
	for _, c := range o.Controls {
		ctl := session.Control{Name: c.Name}
		style, err := c.styleFunc()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidControl, c.Name, err)
		}
		switch c.Type {
		case "style":
			ctl.Type = session.ControlStyle
			ctl.Style = style
		case "block":
			ctl.Type = session.ControlBlock
			prefix := c.Prefix
			ctl.Block = func(*document.Block, int) render.Decoration {
				return render.Decoration{Prefix: prefix, Style: style(render.DefaultStyle())}
			}
		case "atomic":
			ctl.Type = session.ControlAtomic
			label := c.Label
			if label == "" {
				label = c.Name
			}
			ctl.Atomic = func(e *document.Entity) []string {
				if url := e.String("url"); url != "" {
					return []string{fmt.Sprintf("[%s: %s]", label, url)}
				}
				return []string{"[" + label + "]"}
			}
		case "callback":
			ctl.Type = session.ControlCallback
			run, err := compileScript(compile, c.Name, c.Script)
			if err != nil {
				return nil, err
			}
			ctl.Callback = run
		default:
			return nil, fmt.Errorf("%w: %s: unknown type %q", ErrInvalidControl, c.Name, c.Type)
		}
		out = append(out, ctl)
	}
	return out, nil
}

func compileScript(compile ScriptCompiler, name, script string) (dispatcher.CommandFunc, error) {
	if compile == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoCompiler, name)
	}
	run, err := compile(script)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return run, nil
}
