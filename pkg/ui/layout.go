package ui

import (
	"strings"
)

// Layout receives an operator's drawing calls.
type Layout interface {
	// Box opens a framed group and returns the layout for its contents.
	Box() Layout
	Label(text string)
	Prop(p *FloatProperty)
}

// TextLayout renders drawing calls as indented plain text.
type TextLayout struct {
	Precision int
	Unit      string

	depth int
	lines *[]string
}

// NewTextLayout returns an empty text layout.
func NewTextLayout(precision int, unit string) *TextLayout {
	return &TextLayout{Precision: precision, Unit: unit, lines: new([]string)}
}

func (l *TextLayout) indent() string {
	return strings.Repeat("  ", l.depth)
}

// Box starts a nested group one indentation level deeper.
func (l *TextLayout) Box() Layout {
	*l.lines = append(*l.lines, l.indent()+"+")
	return &TextLayout{Precision: l.Precision, Unit: l.Unit, depth: l.depth + 1, lines: l.lines}
}

// Label adds a line of text.
func (l *TextLayout) Label(text string) {
	*l.lines = append(*l.lines, l.indent()+text)
}

// Prop adds a "Name: value" line.
func (l *TextLayout) Prop(p *FloatProperty) {
	*l.lines = append(*l.lines, l.indent()+p.Name+": "+p.Format(l.Precision, l.Unit))
}

// String returns everything drawn so far.
func (l *TextLayout) String() string {
	return strings.Join(*l.lines, "\n")
}

// Props collects the properties drawn into a layout, in order.
type Props struct {
	List []*FloatProperty
}

func (c *Props) Box() Layout { return c }
func (c *Props) Label(string) {}
func (c *Props) Prop(p *FloatProperty) {
	c.List = append(c.List, p)
}

var (
	_ Layout = (*TextLayout)(nil)
	_ Layout = (*Props)(nil)
)
