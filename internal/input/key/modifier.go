package key

import "strings"

// Modifier is a set of held modifier keys.
type Modifier uint8

// Modifier bits. Alt is Option on macOS; Meta is Cmd or the Windows key.
const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every bit of mod is held.
func (m Modifier) Has(mod Modifier) bool { return mod != ModNone && m&mod == mod }

func (m Modifier) HasShift() bool { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool  { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool   { return m.Has(ModAlt) }
func (m Modifier) HasMeta() bool  { return m.Has(ModMeta) }

// With adds mod to the set.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

var modifierLabels = []struct {
	mod   Modifier
	label string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModMeta, "Meta"},
}

// String joins the held modifiers with "+", e.g. "Ctrl+Shift".
func (m Modifier) String() string {
	var held []string
	for _, l := range modifierLabels {
		if m.Has(l.mod) {
			held = append(held, l.label)
		}
	}
	return strings.Join(held, "+")
}

// ModifierFromName maps a long modifier name used in "Ctrl+S" notation to
// its bit, or ModNone.
func ModifierFromName(name string) Modifier {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ctrl", "control":
		return ModCtrl
	case "alt", "option", "opt":
		return ModAlt
	case "shift":
		return ModShift
	case "meta", "cmd", "command", "super":
		return ModMeta
	}
	return ModNone
}
