package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chazu/meshdims/pkg/addon"
	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/kernel"
	"github.com/chazu/meshdims/pkg/menu"
	"github.com/chazu/meshdims/pkg/scene"
)

func cuboid(x, y, z float32) *kernel.Mesh {
	m := &kernel.Mesh{}
	for _, c := range [][3]float32{
		{0, 0, 0}, {x, 0, 0}, {x, y, 0}, {0, y, 0},
		{0, 0, z}, {x, 0, z}, {x, y, z}, {0, y, z},
	} {
		m.Vertices = append(m.Vertices, c[0], c[1], c[2])
	}
	m.SelectAll()
	return m
}

func setup(t *testing.T, mode dimensions.Mode) (*scene.Scene, *addon.OperatorRegistry, *menu.Registry) {
	t.Helper()
	s := scene.New()
	if err := s.Add(scene.NewObject("Cube", cuboid(2, 3, 4))); err != nil {
		t.Fatal(err)
	}
	if err := s.SetMode(mode); err != nil {
		t.Fatal(err)
	}
	ops, menus := addon.NewOperatorRegistry(), menu.NewRegistry()
	if err := addon.New().Register(ops, menus); err != nil {
		t.Fatal(err)
	}
	return s, ops, menus
}

func newModel(t *testing.T) Model {
	t.Helper()
	s, ops, menus := setup(t, dimensions.ModeEdit)
	m, err := New(s, ops, menus, Options{Unit: "m", Precision: 3})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	back  = tea.KeyMsg{Type: tea.KeyShiftTab}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func wantValues(t *testing.T, m Model, want ...string) {
	t.Helper()
	got := m.Values()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", got, want)
		}
	}
}

func TestNewSeedsFields(t *testing.T) {
	m := newModel(t)
	wantValues(t, m, "2.000", "3.000", "4.000")
	if !strings.Contains(m.Status(), "Cube") {
		t.Errorf("Status() = %q", m.Status())
	}
}

func TestNewErrors(t *testing.T) {
	s, ops, menus := setup(t, dimensions.ModeObject)
	if _, err := New(s, ops, menus, Options{}); !errors.Is(err, scene.ErrWrongContext) {
		t.Errorf("New() in object mode error = %v, want ErrWrongContext", err)
	}

	s, _, menus = setup(t, dimensions.ModeEdit)
	if _, err := New(s, addon.NewOperatorRegistry(), menus, Options{}); !errors.Is(err, addon.ErrUnknownOperator) {
		t.Errorf("New() without the add-on error = %v, want ErrUnknownOperator", err)
	}
}

func TestApply(t *testing.T) {
	m := newModel(t)
	m.inputs[0].SetValue("4")
	m.inputs[2].SetValue("2 m")
	m = press(t, m, enter)

	if m.failed {
		t.Fatalf("apply failed: %s", m.Status())
	}
	applied := m.Applied()
	if len(applied) != 1 {
		t.Fatalf("Applied() = %v", applied)
	}
	if f := applied[0]; f.X != 2 || f.Y != 1 || f.Z != 0.5 {
		t.Errorf("factors = %+v, want {2 1 0.5}", f)
	}
	wantValues(t, m, "4.000", "3.000", "2.000")
	if h := m.scene.History(); len(h) != 1 || h[0] != dimensions.OperatorLabel {
		t.Errorf("History() = %v", h)
	}
}

func TestApplyRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"negative", "-1", "negative"},
		{"text", "wide", "not a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t)
			m.inputs[1].SetValue(tt.value)
			m = press(t, m, enter)
			if !m.failed || !strings.Contains(m.Status(), tt.want) {
				t.Errorf("status = %q (failed=%v), want %q", m.Status(), m.failed, tt.want)
			}
			if len(m.Applied()) != 0 || len(m.scene.History()) != 0 {
				t.Error("rejected input changed the scene")
			}
		})
	}
}

func TestUndoKey(t *testing.T) {
	m := newModel(t)
	m.inputs[0].SetValue("8")
	m = press(t, m, enter)
	wantValues(t, m, "8.000")

	m = press(t, m, runes("u"))
	wantValues(t, m, "2.000", "3.000", "4.000")
	if !strings.Contains(m.Status(), "undo") {
		t.Errorf("Status() = %q", m.Status())
	}

	m = press(t, m, runes("u"))
	if !m.failed {
		t.Error("undo with empty history did not report an error")
	}
}

func TestFocusCycling(t *testing.T) {
	m := newModel(t)
	m = press(t, m, tab, tab, tab)
	if m.focus != 0 {
		t.Errorf("focus after 3 tabs = %d, want 0", m.focus)
	}
	m = press(t, m, back)
	if m.focus != 2 || !m.inputs[2].Focused() || m.inputs[0].Focused() {
		t.Errorf("focus after shift+tab = %d", m.focus)
	}
}

func TestQuit(t *testing.T) {
	m := newModel(t)
	for _, key := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s: no command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command is not quit", key)
		}
	}
}

func TestView(t *testing.T) {
	m := newModel(t)
	v := m.View()
	for _, want := range []string{"New dimensions:", dimensions.OperatorLabel, "Transform", menu.EditMeshContextMenu, "Cube"} {
		if !strings.Contains(v, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
