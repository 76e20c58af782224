package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/autocomplete"
	"github.com/dshills/richedit/internal/input/key"
	"github.com/dshills/richedit/internal/render"
)

// Options is the declarative form of a session's configuration.
type Options struct {
	ReadOnly   bool   `yaml:"readOnly" toml:"readOnly"`
	MaxLength  int    `yaml:"maxLength" toml:"maxLength"`
	MaxUndo    int    `yaml:"maxUndo" toml:"maxUndo"`
	PrettySave bool   `yaml:"prettySave" toml:"prettySave"`
	LogLevel   string `yaml:"logLevel" toml:"logLevel"`

	Toolbar       ToolbarOptions      `yaml:"toolbar" toml:"toolbar"`
	InlineToolbar ToolbarOptions      `yaml:"inlineToolbar" toml:"inlineToolbar"`
	Controls      []ControlOptions    `yaml:"customControls" toml:"customControls"`
	Decorators    []DecoratorOptions  `yaml:"decorators" toml:"decorators"`
	Autocomplete  AutocompleteOptions `yaml:"autocomplete" toml:"autocomplete"`
	KeyCommands   []KeyCommandOptions `yaml:"keyCommands" toml:"keyCommands"`
}

// ToolbarOptions configures one toolbar. Unset fields keep the session
// defaults.
type ToolbarOptions struct {
	Visible  *bool    `yaml:"visible" toml:"visible"`
	Controls []string `yaml:"controls" toml:"controls"`
}

// StyleOptions describes a text style.
type StyleOptions struct {
	Color      string   `yaml:"color" toml:"color"`
	Background string   `yaml:"background" toml:"background"`
	Attributes []string `yaml:"attributes" toml:"attributes"`
}

// ControlOptions describes a custom toolbar control.
type ControlOptions struct {
	Name string `yaml:"name" toml:"name"`
	// Type is one of style, block, callback or atomic.
	Type string `yaml:"type" toml:"type"`

	StyleOptions `yaml:",inline"`

	// Prefix is drawn before blocks of a block control.
	Prefix string `yaml:"prefix" toml:"prefix"`
	// Label names the embed drawn by an atomic control.
	Label string `yaml:"label" toml:"label"`
	// Script is the Lua chunk run by a callback control.
	Script string `yaml:"script" toml:"script"`
}

// DecoratorOptions styles every match of a pattern.
type DecoratorOptions struct {
	Name    string `yaml:"name" toml:"name"`
	Pattern string `yaml:"pattern" toml:"pattern"`

	StyleOptions `yaml:",inline"`
}

// AutocompleteOptions configures suggestion lists.
type AutocompleteOptions struct {
	Strategies   []autocomplete.Strategy `yaml:"strategies" toml:"strategies"`
	SuggestLimit int                     `yaml:"suggestLimit" toml:"suggestLimit"`
}

// KeyCommandOptions binds a key to a command. Without a script the name
// must be a built-in command.
type KeyCommandOptions struct {
	Key    string `yaml:"key" toml:"key"`
	Name   string `yaml:"name" toml:"name"`
	Script string `yaml:"script" toml:"script"`
}

// Default returns the configuration used when no file is given.
func Default() Options {
	return Options{
		LogLevel: zerolog.InfoLevel.String(),
		Autocomplete: AutocompleteOptions{
			SuggestLimit: autocomplete.DefaultSuggestLimit,
		},
	}
}

func (o *Options) applyDefaults() {
	if o.Autocomplete.SuggestLimit == 0 {
		o.Autocomplete.SuggestLimit = autocomplete.DefaultSuggestLimit
	}
	if o.LogLevel == "" {
		o.LogLevel = zerolog.InfoLevel.String()
	}
}

var controlTypes = map[string]bool{
	"style":    true,
	"block":    true,
	"callback": true,
	"atomic":   true,
}

var attributes = map[string]render.Attribute{
	"bold":          render.AttrBold,
	"dim":           render.AttrDim,
	"italic":        render.AttrItalic,
	"underline":     render.AttrUnderline,
	"reverse":       render.AttrReverse,
	"strikethrough": render.AttrStrikethrough,
}

// Validate checks the configuration and returns the first problem found.
func (o *Options) Validate() error {
	if o.MaxLength < 0 {
		return invalid(ErrValidationFailed, "maxLength", "must not be negative")
	}
	if o.Autocomplete.SuggestLimit < 0 {
		return invalid(ErrValidationFailed, "autocomplete.suggestLimit", "must not be negative")
	}
	if o.LogLevel != "" {
		if _, err := zerolog.ParseLevel(o.LogLevel); err != nil {
			return invalid(ErrValidationFailed, "logLevel", "%v", err)
		}
	}

	triggers := make(map[string]bool)
	for i, s := range o.Autocomplete.Strategies {
		field := fmt.Sprintf("autocomplete.strategies[%d]", i)
		if utf8.RuneCountInString(s.TriggerChar) != 1 {
			return invalid(ErrInvalidStrategy, field, "trigger %q must be a single character", s.TriggerChar)
		}
		if triggers[s.TriggerChar] {
			return invalid(ErrInvalidStrategy, field, "duplicate trigger %q", s.TriggerChar)
		}
		triggers[s.TriggerChar] = true
		for j, it := range s.Items {
			if it.Value == "" {
				return invalid(ErrInvalidStrategy, fmt.Sprintf("%s.items[%d]", field, j), "empty value")
			}
		}
	}

	for i, c := range o.Controls {
		field := fmt.Sprintf("customControls[%d]", i)
		if strings.TrimSpace(c.Name) == "" {
			return invalid(ErrInvalidControl, field, "missing name")
		}
		if !controlTypes[c.Type] {
			return invalid(ErrInvalidControl, field, "unknown type %q", c.Type)
		}
		if c.Type == "callback" && c.Script == "" {
			return invalid(ErrInvalidControl, field, "callback control needs a script")
		}
		if _, err := c.StyleOptions.styleFunc(); err != nil {
			return invalid(ErrInvalidControl, field, "%v", err)
		}
	}

	for i, d := range o.Decorators {
		field := fmt.Sprintf("decorators[%d]", i)
		if d.Pattern == "" {
			return invalid(ErrInvalidDecorator, field, "missing pattern")
		}
		if _, err := regexp2.Compile(d.Pattern, regexp2.ECMAScript); err != nil {
			return invalid(ErrInvalidDecorator, field, "%v", err)
		}
		if _, err := d.StyleOptions.styleFunc(); err != nil {
			return invalid(ErrInvalidDecorator, field, "%v", err)
		}
	}

	for i, k := range o.KeyCommands {
		field := fmt.Sprintf("keyCommands[%d]", i)
		if k.Name == "" {
			return invalid(ErrInvalidKeyCommand, field, "missing name")
		}
		if _, err := key.Parse(k.Key); err != nil {
			return invalid(ErrInvalidKeyCommand, field, "key %q: %v", k.Key, err)
		}
	}
	return nil
}

// styleFunc builds the renderer for the style. A style with no settings
// is the identity.
func (s StyleOptions) styleFunc() (render.StyleFunc, error) {
	fg, err := render.ParseColor(s.Color)
	if err != nil {
		return nil, err
	}
	bg, err := render.ParseColor(s.Background)
	if err != nil {
		return nil, err
	}
	var attrs render.Attribute
	for _, name := range s.Attributes {
		a, ok := attributes[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown attribute %q", name)
		}
		attrs = attrs.With(a)
	}
	return func(st render.Style) render.Style {
		if !fg.IsDefault() {
			st = st.WithForeground(fg)
		}
		if !bg.IsDefault() {
			st = st.WithBackground(bg)
		}
		return st.With(attrs)
	}, nil
}
