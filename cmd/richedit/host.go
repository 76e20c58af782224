package main

import (
	"os"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	"github.com/rs/zerolog"

	"github.com/dshills/richedit/internal/config"
	"github.com/dshills/richedit/internal/dispatcher"
	"github.com/dshills/richedit/internal/document"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/input/key"
	"github.com/dshills/richedit/internal/overlay"
	"github.com/dshills/richedit/internal/plugin/lua"
	"github.com/dshills/richedit/internal/prompt"
	"github.com/dshills/richedit/internal/render"
	"github.com/dshills/richedit/internal/schedule"
	"github.com/dshills/richedit/internal/session"
)

// editorTop is the first screen row of the document; row 0 holds the
// main toolbar and the last row the status line or prompt.
const editorTop = 1

// Interrupt payloads posted to the event loop from other goroutines.
type (
	quit   struct{}
	tick   struct{}
	reload struct {
		opts config.Options
		err  error
	}
)

// hit is a clickable toolbar button.
type hit struct {
	y, x0, x1 int
	name      string
}

// host drives a session from a tcell screen. It is the session's geometry
// adapter and focus target; everything runs on the event loop goroutine.
type host struct {
	screen   tcell.Screen
	ctrl     *session.Controller
	queue    *schedule.Queue
	scripts  *lua.State
	log      zerolog.Logger
	savePath string

	lines   []render.Line
	scroll  int
	focused bool
	hits    []hit

	input    []rune
	pasting  bool
	pasted   []rune
	dragging bool
	anchor   document.Selection
	status   string
	done     bool
}

func newHost(screen tcell.Screen, log zerolog.Logger, savePath string) *host {
	return &host{
		screen:   screen,
		log:      log,
		savePath: savePath,
		focused:  true,
	}
}

// attach wires the controller's events into the host.
func (h *host) attach(ctrl *session.Controller) error {
	h.ctrl = ctrl
	h.relayout()
	if _, err := ctrl.Subscribe(event.TopicDocumentChanged, func(any) error {
		h.relayout()
		return nil
	}); err != nil {
		return err
	}
	_, err := ctrl.Subscribe(event.TopicPromptOpened, func(ev any) error {
		if p, ok := event.PayloadOf[session.PromptEvent](ev); ok {
			h.input = []rune(p.Prompt.URL())
		}
		return nil
	})
	return err
}

func (h *host) relayout() {
	h.lines = h.ctrl.Render()
}

// wake asks the event loop to drain deferred callbacks.
func (h *host) wake() {
	_ = h.screen.PostEvent(tcell.NewEventInterrupt(tick{}))
}

// write stores a saved payload.
func (h *host) write(payload string) {
	if h.savePath == "" {
		h.status = "no save path (use --save)"
		return
	}
	if err := os.WriteFile(h.savePath, []byte(payload), 0o644); err != nil {
		h.log.Error().Err(err).Str("path", h.savePath).Msg("save failed")
		h.status = "save failed: " + err.Error()
		return
	}
	h.status = "saved " + h.savePath
}

// Blur implements session.Focuser.
func (h *host) Blur() { h.focused = false }

// Focus implements session.Focuser.
func (h *host) Focus() { h.focused = true }

// EditorRect implements overlay.Geometry in screen cells.
func (h *host) EditorRect() overlay.Rect {
	w, ht := h.screen.Size()
	return overlay.Rect{Top: editorTop, Width: float64(w), Height: float64(ht - editorTop - 1)}
}

// EditorOffset implements overlay.Geometry. Overlays are positioned in
// absolute screen cells, so the offset is the editor's own origin.
func (h *host) EditorOffset() overlay.Position {
	return overlay.Position{Top: editorTop}
}

// SelectionRect implements overlay.Geometry.
func (h *host) SelectionRect() (overlay.Rect, bool) {
	sel := h.ctrl.State().Selection()
	x0, y0, ok := h.cellOf(sel.StartKey(), sel.StartOffset())
	if !ok {
		return overlay.Rect{}, false
	}
	x1, y1, ok := h.cellOf(sel.EndKey(), sel.EndOffset())
	if !ok || y1 != y0 {
		x1 = x0
	}
	return overlay.Rect{Top: float64(y0), Left: float64(x0), Width: float64(x1 - x0), Height: float64(y1 - y0 + 1)}, true
}

// cellOf returns the screen cell of a document position.
func (h *host) cellOf(blockKey string, offset int) (x, y int, ok bool) {
	for i, line := range h.lines {
		if line.BlockKey != blockKey {
			continue
		}
		y = editorTop + i - h.scroll
		if line.Atomic {
			return 0, y, true
		}
		runes := []rune(line.Text())
		if offset > len(runes) {
			offset = len(runes)
		}
		return uniseg.StringWidth(line.Prefix) + uniseg.StringWidth(string(runes[:offset])), y, true
	}
	return 0, 0, false
}

// positionAt maps a screen cell to a document position.
func (h *host) positionAt(x, y int) (string, int, bool) {
	if len(h.lines) == 0 {
		return "", 0, false
	}
	i := y - editorTop + h.scroll
	if i < 0 {
		i = 0
	}
	if i >= len(h.lines) {
		i = len(h.lines) - 1
	}
	line := h.lines[i]
	if line.Atomic {
		return line.BlockKey, 0, true
	}
	col := x - uniseg.StringWidth(line.Prefix)
	offset := 0
	for _, r := range line.Text() {
		w := uniseg.StringWidth(string(r))
		if col < w {
			break
		}
		col -= w
		offset++
	}
	return line.BlockKey, offset, true
}

func (h *host) loop() {
	for !h.done {
		h.draw()
		switch ev := h.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			h.screen.Sync()
		case *tcell.EventPaste:
			h.handlePaste(ev)
		case *tcell.EventKey:
			h.handleKey(ev)
		case *tcell.EventMouse:
			h.handleMouse(ev)
		case *tcell.EventInterrupt:
			h.handleInterrupt(ev)
		}
	}
}

func (h *host) handleInterrupt(ev *tcell.EventInterrupt) {
	switch data := ev.Data().(type) {
	case quit:
		h.done = true
	case tick:
		h.queue.RunPending()
	case reload:
		h.reload(data)
	}
}

func (h *host) reload(r reload) {
	if r.err != nil {
		h.status = "config: " + r.err.Error()
		return
	}
	cmds, err := r.opts.KeyCommandList(h.scripts.Command)
	if err != nil {
		h.status = "config: " + err.Error()
		return
	}
	h.ctrl.SetStrategies(r.opts.Autocomplete.Strategies, r.opts.Autocomplete.SuggestLimit)
	h.ctrl.SetKeyCommands(cmds)
	h.status = "config reloaded"
}

func (h *host) handlePaste(ev *tcell.EventPaste) {
	if ev.Start() {
		h.pasting, h.pasted = true, h.pasted[:0]
		return
	}
	h.pasting = false
	if h.ctrl.Prompt() != nil {
		h.input = append(h.input, h.pasted...)
		return
	}
	if !h.ctrl.Paste(string(h.pasted)) {
		h.status = "paste rejected"
	}
}

func (h *host) handleKey(ev *tcell.EventKey) {
	if h.pasting {
		switch ev.Key() {
		case tcell.KeyRune:
			h.pasted = append(h.pasted, ev.Rune())
		case tcell.KeyEnter:
			h.pasted = append(h.pasted, '\n')
		}
		return
	}

	switch ctrlLetter(ev) {
	case 'q':
		h.done = true
		return
	case 's':
		if _, err := h.ctrl.Save(); err != nil {
			h.status = "save failed: " + err.Error()
		}
		return
	case 'l':
		h.ctrl.ToolbarAction(session.ControlLink)
		return
	case 'g':
		h.ctrl.ToolbarAction(session.ControlMedia)
		return
	}
	if n := int(ev.Key() - tcell.KeyF1); ev.Key() >= tcell.KeyF1 && ev.Key() <= tcell.KeyF12 {
		controls := h.ctrl.Toolbar().Controls
		if n < len(controls) {
			h.ctrl.ToolbarAction(controls[n])
		}
		return
	}

	if h.ctrl.Prompt() != nil {
		h.promptKey(ev)
		return
	}

	kev := key.FromTcell(ev)
	res := h.ctrl.KeyDown(kev)
	switch {
	case res.Status == dispatcher.StatusUnhandled,
		res.Status == dispatcher.StatusNoOp && h.ctrl.ReadOnly():
		h.navigate(kev)
	case res.Status == dispatcher.StatusError:
		h.status = res.Error.Error()
	}
}

// ctrlLetter returns the letter of a Ctrl chord, or 0. Terminals report
// these either as tcell.KeyCtrlA..KeyCtrlZ or as a rune with ModCtrl.
func ctrlLetter(ev *tcell.EventKey) rune {
	k := ev.Key()
	switch {
	case k == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0:
		return unicode.ToLower(ev.Rune())
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ &&
		k != tcell.KeyTab && k != tcell.KeyEnter && k != tcell.KeyBackspace:
		return rune('a' + (k - tcell.KeyCtrlA))
	}
	return 0
}

func (h *host) promptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		p := h.ctrl.Prompt()
		in := prompt.Input{URL: string(h.input)}
		if p.Mode == prompt.ModeMedia {
			in.Type = "image"
		}
		h.ctrl.ConfirmPrompt(in)
		h.input = h.input[:0]
	case tcell.KeyEscape:
		h.ctrl.CancelPrompt()
		h.input = h.input[:0]
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(h.input) > 0 {
			h.input = h.input[:len(h.input)-1]
		}
	case tcell.KeyRune:
		h.input = append(h.input, ev.Rune())
	}
}

// navigate moves or extends the selection for keys the session leaves to
// the host. A keyboard selection change settles like a pointer release.
func (h *host) navigate(ev key.Event) {
	c := h.ctrl.Content()
	sel := h.ctrl.State().Selection()
	k, off := sel.FocusKey, sel.FocusOffset
	b := c.BlockForKey(k)
	if b == nil {
		return
	}

	switch ev.Key {
	case key.KeyLeft:
		if off > 0 {
			off--
		} else if prev := c.BlockBefore(k); prev != nil {
			k, off = prev.Key(), prev.Len()
		}
	case key.KeyRight:
		if off < b.Len() {
			off++
		} else if next := c.BlockAfter(k); next != nil {
			k, off = next.Key(), 0
		}
	case key.KeyUp:
		if prev := c.BlockBefore(k); prev != nil {
			k, off = prev.Key(), min(off, prev.Len())
		}
	case key.KeyDown:
		if next := c.BlockAfter(k); next != nil {
			k, off = next.Key(), min(off, next.Len())
		}
	case key.KeyHome:
		off = 0
	case key.KeyEnd:
		off = b.Len()
	default:
		return
	}

	if ev.Modifiers.HasShift() {
		h.ctrl.SetSelection(c.Select(sel.AnchorKey, sel.AnchorOffset, k, off))
	} else {
		h.ctrl.SetSelection(document.Collapsed(k, off))
	}
	h.ctrl.PointerUp()
}

func (h *host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		if h.dragging {
			if k, off, ok := h.positionAt(x, y); ok {
				h.ctrl.SetSelection(h.ctrl.Content().Select(h.anchor.AnchorKey, h.anchor.AnchorOffset, k, off))
			}
			return
		}
		for _, b := range h.hits {
			if y == b.y && x >= b.x0 && x < b.x1 {
				h.ctrl.ToolbarAction(b.name)
				return
			}
		}
		if y < editorTop {
			return
		}
		if k, off, ok := h.positionAt(x, y); ok {
			h.dragging = true
			h.anchor = document.Collapsed(k, off)
			h.ctrl.SetSelection(h.anchor)
		}
	case ev.Buttons() == tcell.ButtonNone && h.dragging:
		h.dragging = false
		h.ctrl.PointerUp()
	}
}
