// Package ui describes operator properties and the layout calls an
// operator makes to present them. Hosts supply the Layout implementation.
package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is the physical quantity a property is displayed as.
type Unit int

const (
	UnitNone Unit = iota
	UnitLength
)

func (u Unit) String() string {
	switch u {
	case UnitLength:
		return "LENGTH"
	}
	return "NONE"
}

// FloatProperty is a numeric operator field with a lower bound and a default.
type FloatProperty struct {
	ID      string
	Name    string
	Min     float64
	Default float64
	Unit    Unit

	value float64
	set   bool
}

// NewFloatProperty returns a property holding its default value.
func NewFloatProperty(id, name string, min, def float64, unit Unit) *FloatProperty {
	return &FloatProperty{ID: id, Name: name, Min: min, Default: def, Unit: unit}
}

// Get returns the current value, or Default if the property was never set.
func (p *FloatProperty) Get() float64 {
	if !p.set {
		return p.Default
	}
	return p.value
}

// Set stores v clamped to Min. NaN is rejected and leaves the value unchanged.
func (p *FloatProperty) Set(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%s: value is not a number", p.Name)
	}
	if v < p.Min {
		v = p.Min
	}
	p.value = v
	p.set = true
	return nil
}

// Parse sets the property from user text such as "2.5" or "2.5 m".
func (p *FloatProperty) Parse(s string, unit string) error {
	s = strings.TrimSpace(s)
	if unit != "" {
		s = strings.TrimSpace(strings.TrimSuffix(s, unit))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", p.Name, s)
	}
	return p.Set(v)
}

// Format renders the value with the given precision, appending unit for
// length properties.
func (p *FloatProperty) Format(precision int, unit string) string {
	s := strconv.FormatFloat(p.Get(), 'f', precision, 64)
	if p.Unit == UnitLength && unit != "" {
		s += " " + unit
	}
	return s
}
