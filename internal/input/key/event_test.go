package key

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestEventIsChar(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{"letter", NewRuneEvent('a', ModNone), true},
		{"shifted letter", NewRuneEvent('A', ModShift), true},
		{"ctrl letter", NewRuneEvent('a', ModCtrl), false},
		{"control char", NewRuneEvent('\x01', ModNone), false},
		{"special", NewSpecialEvent(KeyEnter, ModNone), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.IsChar(); got != tt.want {
				t.Errorf("IsChar() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventHasCommandModifier(t *testing.T) {
	if !NewRuneEvent('b', ModCtrl).HasCommandModifier() {
		t.Error("Ctrl should be a command modifier")
	}
	if !NewRuneEvent('b', ModMeta).HasCommandModifier() {
		t.Error("Meta should be a command modifier")
	}
	if NewRuneEvent('b', ModAlt).HasCommandModifier() {
		t.Error("Alt should not be a command modifier")
	}
}

func TestEventEquals(t *testing.T) {
	if !NewRuneEvent('K', ModCtrl).Equals(NewRuneEvent('k', ModCtrl)) {
		t.Error("command combos should ignore letter case")
	}
	if NewRuneEvent('K', ModNone).Equals(NewRuneEvent('k', ModNone)) {
		t.Error("plain characters should compare case-sensitively")
	}
	if NewRuneEvent('k', ModCtrl).Equals(NewRuneEvent('k', ModAlt)) {
		t.Error("different modifiers should not be equal")
	}
}

func TestEventEqualsParsed(t *testing.T) {
	ev := NewRuneEvent('s', ModCtrl)
	for _, spec := range []string{"Ctrl+S", "<C-s>", "ctrl+s", "C-s"} {
		if !ev.Equals(MustParse(spec)) {
			t.Errorf("expected %v to equal %q", ev, spec)
		}
	}
	if ev.Equals(MustParse("Alt+S")) {
		t.Error("unexpected match for Alt+S")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{NewRuneEvent('a', ModNone), "a"},
		{NewRuneEvent(' ', ModNone), "Space"},
		{NewRuneEvent('s', ModCtrl), "C-s"},
		{NewSpecialEvent(KeyUp, ModShift|ModCtrl), "C-S-Up"},
		{NewSpecialEvent(KeyF3, ModNone), "F3"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFromTcell(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want Event
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), NewRuneEvent('x', ModNone)},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), NewSpecialEvent(KeyEnter, ModNone)},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), NewSpecialEvent(KeyEscape, ModNone)},
		{"shift up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), NewSpecialEvent(KeyUp, ModShift)},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModAlt), NewRuneEvent('f', ModAlt)},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), NewSpecialEvent(KeyBackspace, ModNone)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromTcell(tt.ev); got != tt.want {
				t.Errorf("FromTcell() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
