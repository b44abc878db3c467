package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chazu/meshdims/pkg/dimensions"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "enter":
			m.apply()
			return m, nil
		case "u", "ctrl+z":
			m.undo()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = ((i % n) + n) % n
	return m.inputs[m.focus].Focus()
}

// request reads the fields. Unlike the properties, which clamp, it reports
// negative or malformed values so the user can correct them.
func (m *Model) request() (dimensions.DimensionRequest, error) {
	var vals [3]float64
	for i, ti := range m.inputs {
		s := strings.TrimSpace(ti.Value())
		if m.opts.Unit != "" {
			s = strings.TrimSpace(strings.TrimSuffix(s, m.opts.Unit))
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return dimensions.DimensionRequest{}, fmt.Errorf("%s: %q is not a number", m.props[i].Name, ti.Value())
		}
		vals[i] = v
	}
	req := dimensions.DimensionRequest{X: vals[0], Y: vals[1], Z: vals[2]}
	return req, req.Validate()
}

func (m *Model) apply() {
	req, err := m.request()
	if err != nil {
		m.fail(err)
		return
	}
	if err := m.op.SetRequest(req); err != nil {
		m.fail(err)
		return
	}
	f, err := m.scene.ExecuteOperator(m.op)
	if err != nil {
		m.fail(err)
		return
	}
	m.applied = append(m.applied, f)
	if err := m.seed(); err != nil {
		m.fail(err)
		return
	}
	m.failed = false
	m.status = fmt.Sprintf("%s: scaled by %g x %g x %g", dimensions.OperatorLabel, f.X, f.Y, f.Z)
}

func (m *Model) undo() {
	name, err := m.scene.Undo()
	if err != nil {
		m.fail(err)
		return
	}
	if err := m.seed(); err != nil {
		m.fail(err)
		return
	}
	m.failed = false
	m.status = "undo " + name
}

func (m *Model) fail(err error) {
	m.failed = true
	m.status = err.Error()
}
