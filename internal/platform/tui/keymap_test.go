package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/apple-arcade/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"vim down", runeKey('j'), core.ActionDown, false},
		{"wasd left", runeKey('a'), core.ActionLeft, false},
		{"vim right", runeKey('l'), core.ActionRight, false},
		{"space selects", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionSelect, false},
		{"enter selects", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionSelect, false},
		{"cancel", runeKey('x'), core.ActionCancel, false},
		{"hint", runeKey('?'), core.ActionHint, false},
		{"pause", runeKey('p'), core.ActionPause, false},
		{"restart", runeKey('r'), core.ActionRestart, false},
		{"escape goes back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"quit", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, quit := km.MapKey(tc.msg)
			if action != tc.action || quit != tc.quit {
				t.Errorf("MapKey(%q) = (%v, %v), expected (%v, %v)", tc.msg.String(), action, quit, tc.action, tc.quit)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey('r'), &frame) {
		t.Error("r should not quit")
	}
	if !frame.Has(core.ActionRestart) {
		t.Error("frame should hold restart")
	}

	km.MapKeyToFrame(runeKey('z'), &frame)
	if len(frame.Actions) != 1 {
		t.Errorf("unbound keys should not add actions: %v", frame.Actions)
	}
}

func TestMapMouseToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	km.MapMouseToFrame(tea.MouseMsg{X: 10, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, &frame)
	km.MapMouseToFrame(tea.MouseMsg{X: 13, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}, &frame)
	km.MapMouseToFrame(tea.MouseMsg{X: 13, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}, &frame)

	want := []core.PointerEvent{
		{Kind: core.PointerDown, X: 10, Y: 4},
		{Kind: core.PointerMove, X: 13, Y: 5},
		{Kind: core.PointerUp, X: 13, Y: 5},
	}
	if len(frame.Pointer) != len(want) {
		t.Fatalf("Pointer = %v, expected %v", frame.Pointer, want)
	}
	for i := range want {
		if frame.Pointer[i] != want[i] {
			t.Errorf("Pointer[%d] = %+v, expected %+v", i, frame.Pointer[i], want[i])
		}
	}
}

func TestMapMouseIgnoresOtherButtons(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapMouseToFrame(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, &frame) {
		t.Error("right button should be ignored")
	}
	if km.MapMouseToFrame(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp}, &frame) {
		t.Error("wheel should be ignored")
	}
	if !frame.Empty() {
		t.Error("frame should stay empty")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('b'), MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}

	for _, tc := range tests {
		if got := km.MapKeyToMenuAction(tc.msg); got != tc.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.msg.String(), got, tc.want)
		}
	}
}
