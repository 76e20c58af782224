package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/richedit/internal/document"
)

// Tag is a canonical, upper-case renderer key.
type Tag string

var upper = cases.Upper(language.Und)

// Canonical returns the tag for name.
func Canonical(name string) Tag {
	return Tag(upper.String(strings.TrimSpace(name)))
}

// StyleFunc applies an inline style or decorator to a text style.
type StyleFunc func(Style) Style

// Decoration is the presentation of a text block.
type Decoration struct {
	// Prefix is drawn before the block text, e.g. a list bullet.
	Prefix string

	// Style is the base style for the block's text.
	Style Style
}

// BlockFunc decorates a block. ordinal is the 1-based position of the
// block within a run of blocks of the same type and depth.
type BlockFunc func(b *document.Block, ordinal int) Decoration

// AtomicFunc renders the entity of an atomic block as lines of text.
type AtomicFunc func(e *document.Entity) []string

// Decorator styles every match of a pattern.
type Decorator struct {
	Name    string
	Pattern *regexp2.Regexp
	Style   StyleFunc
}

// Registry maps tags to renderers.
type Registry struct {
	styles     map[Tag]StyleFunc
	blocks     map[Tag]BlockFunc
	atomics    map[Tag]AtomicFunc
	decorators []Decorator
}

// NewRegistry creates a registry holding the built-in renderers.
func NewRegistry() *Registry {
	r := &Registry{
		styles:  map[Tag]StyleFunc{},
		blocks:  map[Tag]BlockFunc{},
		atomics: map[Tag]AtomicFunc{},
	}
	r.registerBuiltins()
	return r
}

// RegisterStyle registers an inline style renderer.
func (r *Registry) RegisterStyle(name string, fn StyleFunc) {
	r.styles[Canonical(name)] = fn
}

// RegisterBlock registers a block type renderer.
func (r *Registry) RegisterBlock(name string, fn BlockFunc) {
	r.blocks[Canonical(name)] = fn
}

// RegisterAtomic registers a renderer for atomic blocks whose entity has
// type name.
func (r *Registry) RegisterAtomic(name string, fn AtomicFunc) {
	r.atomics[Canonical(name)] = fn
}

// DecoratorMatchTimeout bounds one decorator match so a backtracking
// pattern cannot stall rendering. A timed-out decorator stops styling the
// current block.
const DecoratorMatchTimeout = 50 * time.Millisecond

// AddDecorator compiles pattern with ECMAScript semantics and styles its
// matches with fn.
func (r *Registry) AddDecorator(name, pattern string, fn StyleFunc) error {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return fmt.Errorf("decorator %s: %w", name, err)
	}
	re.MatchTimeout = DecoratorMatchTimeout
	r.decorators = append(r.decorators, Decorator{Name: name, Pattern: re, Style: fn})
	return nil
}

// Style looks up an inline style renderer.
func (r *Registry) Style(name string) (StyleFunc, bool) {
	fn, ok := r.styles[Canonical(name)]
	return fn, ok
}

// Block looks up a block renderer.
func (r *Registry) Block(name string) (BlockFunc, bool) {
	fn, ok := r.blocks[Canonical(name)]
	return fn, ok
}

// Atomic looks up an atomic renderer.
func (r *Registry) Atomic(name string) (AtomicFunc, bool) {
	fn, ok := r.atomics[Canonical(name)]
	return fn, ok
}

// Decorators returns the registered decorators in order.
func (r *Registry) Decorators() []Decorator {
	return r.decorators
}

var highlight, _ = ParseColor("#fff59d")

func attr(a Attribute) StyleFunc {
	return func(s Style) Style { return s.With(a) }
}

func prefixed(prefix string, a Attribute) BlockFunc {
	return func(*document.Block, int) Decoration {
		return Decoration{Prefix: prefix, Style: DefaultStyle().With(a)}
	}
}

func (r *Registry) registerBuiltins() {
	r.RegisterStyle(document.StyleBold, attr(AttrBold))
	r.RegisterStyle(document.StyleItalic, attr(AttrItalic))
	r.RegisterStyle(document.StyleUnderline, attr(AttrUnderline))
	r.RegisterStyle(document.StyleStrikethrough, attr(AttrStrikethrough))
	r.RegisterStyle(document.StyleCode, attr(AttrReverse))
	r.RegisterStyle(document.StyleHighlight, func(s Style) Style { return s.WithBackground(highlight) })

	r.RegisterBlock(string(document.BlockHeaderOne), prefixed("# ", AttrBold))
	r.RegisterBlock(string(document.BlockHeaderTwo), prefixed("## ", AttrBold))
	r.RegisterBlock(string(document.BlockHeaderThree), prefixed("### ", AttrBold))
	r.RegisterBlock(string(document.BlockHeaderFour), prefixed("#### ", AttrBold))
	r.RegisterBlock(string(document.BlockHeaderFive), prefixed("##### ", AttrBold))
	r.RegisterBlock(string(document.BlockHeaderSix), prefixed("###### ", AttrBold))
	r.RegisterBlock(string(document.BlockQuote), prefixed("│ ", AttrItalic))
	r.RegisterBlock(string(document.BlockCode), prefixed("    ", AttrReverse))
	r.RegisterBlock(string(document.BlockUnorderedList), func(b *document.Block, _ int) Decoration {
		return Decoration{Prefix: strings.Repeat("  ", b.Depth()) + "• "}
	})
	r.RegisterBlock(string(document.BlockOrderedList), func(b *document.Block, n int) Decoration {
		return Decoration{Prefix: fmt.Sprintf("%s%d. ", strings.Repeat("  ", b.Depth()), n)}
	})

	r.RegisterAtomic(document.EntityImage, renderMedia)
}

// renderMedia is the built-in renderer for IMAGE entities.
func renderMedia(e *document.Entity) []string {
	kind := e.String("type")
	if kind == "" {
		kind = "image"
	}
	line := fmt.Sprintf("[%s: %s", kind, e.String("url"))
	data := e.Data()
	if w, h := data["width"], data["height"]; w != nil && h != nil {
		line += fmt.Sprintf(" %vx%v", w, h)
	}
	if a := e.String("alignment"); a != "" {
		line += " " + a
	}
	return []string{line + "]"}
}
