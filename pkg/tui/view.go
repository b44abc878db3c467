package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chazu/meshdims/pkg/dimensions"
)

func (m Model) View() string {
	header := titleStyle.Render(" meshdims ─ " + dimensions.OperatorLabel + " ")

	var info string
	if o := m.scene.Active(); o != nil {
		mesh := o.Working()
		info = fmt.Sprintf("%s  %s  %d/%d vertices selected  pivot %s",
			o.Name, o.Mode(), mesh.SelectedCount(), mesh.VertexCount(), m.scene.Pivot)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewForm(), " ", m.viewMenus())

	status := dimStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}
	help := dimStyle.Render("enter apply · tab/shift+tab field · u undo · q quit")

	out := lipgloss.JoinVertical(lipgloss.Left, header, dimStyle.Render(info), body, status, help)
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return appStyle.Render(out)
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString("New dimensions:\n")
	for i, p := range m.props {
		label := fmt.Sprintf("%-2s", p.Name)
		if i == m.focus {
			label = focusStyle.Render(label)
		}
		unit := ""
		if m.opts.Unit != "" {
			unit = " " + dimStyle.Render(m.opts.Unit)
		}
		b.WriteString(label + " " + m.inputs[i].View() + unit)
		if i < len(m.props)-1 {
			b.WriteString("\n")
		}
	}
	return boxStyle.Render(b.String())
}

func (m Model) viewMenus() string {
	var b strings.Builder
	ids := m.menus.IDs()
	for i, id := range ids {
		mn := m.menus.Lookup(id)
		b.WriteString(titleStyle.Render(mn.Label) + dimStyle.Render("  "+id) + "\n")
		for _, e := range mn.Entries() {
			b.WriteString("  " + e.Label + dimStyle.Render("  "+e.OperatorID) + "\n")
		}
		if i < len(ids)-1 {
			b.WriteString("\n")
		}
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
