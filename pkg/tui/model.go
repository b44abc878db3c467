// Package tui is a terminal front end for the Set Dimensions operator:
// it shows the menus the add-on hooks into and the operator's form for
// the active object.
package tui

import (
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chazu/meshdims/pkg/addon"
	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/menu"
	"github.com/chazu/meshdims/pkg/scene"
	"github.com/chazu/meshdims/pkg/ui"
)

// Options control how lengths are displayed.
type Options struct {
	Unit      string
	Precision int
}

type Model struct {
	width  int
	height int

	scene *scene.Scene
	menus *menu.Registry
	opts  Options

	op     *dimensions.Operator
	props  []*ui.FloatProperty
	inputs []textinput.Model
	focus  int

	status  string
	failed  bool
	applied []dimensions.ScaleFactors
}

// New builds the form for the active object of s. The operator is created
// through ops, so the add-on must be registered, and the object must be in
// edit mode. The fields are seeded with the selection's current size.
func New(s *scene.Scene, ops *addon.OperatorRegistry, menus *menu.Registry, opts Options) (Model, error) {
	op, err := ops.New(dimensions.OperatorID)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		scene: s,
		menus: menus,
		opts:  opts,
		op:    op,
	}

	var collected ui.Props
	op.Draw(&collected)
	m.props = collected.List
	for range m.props {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 32
		ti.Width = 16
		m.inputs = append(m.inputs, ti)
	}
	if err := m.seed(); err != nil {
		return Model{}, err
	}
	m.inputs[0].Focus()
	m.status = "editing " + s.Active().Name
	return m, nil
}

// seed runs Invoke and copies the operator's properties into the fields.
func (m *Model) seed() error {
	if _, err := m.scene.InvokeOperator(m.op); err != nil {
		return err
	}
	for i, p := range m.props {
		m.inputs[i].SetValue(p.Format(m.opts.Precision, ""))
	}
	return nil
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Applied returns the scale factors of every successful apply, in order.
// Undo does not remove entries.
func (m Model) Applied() []dimensions.ScaleFactors {
	return m.applied
}

// Values returns the text of the form fields.
func (m Model) Values() []string {
	out := make([]string, len(m.inputs))
	for i, ti := range m.inputs {
		out[i] = ti.Value()
	}
	return out
}

// Status returns the message shown under the form.
func (m Model) Status() string {
	return m.status
}

// Run starts the form full screen and returns the final model.
func Run(m Model) (Model, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return m, err
	}
	return final.(Model), nil
}
