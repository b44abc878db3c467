package dimensions

import (
	"github.com/pkg/errors"

	"github.com/chazu/meshdims/pkg/ui"
)

const (
	OperatorID          = "view3d.set_dimensions_mt"
	OperatorLabel       = "Set Dimensions"
	OperatorDescription = "Sets dimensions of selected vertices"
	OperatorContext     = "editmode"
	OperatorIcon        = "PLUGIN"
)

// Options are the host flags an operator declares.
type Options uint8

const (
	OptRegister Options = 1 << iota
	OptUndo
)

// Operator is the Set Dimensions command. It holds the three dimension
// properties between Invoke and Execute.
type Operator struct {
	NewX *ui.FloatProperty
	NewY *ui.FloatProperty
	NewZ *ui.FloatProperty
}

// NewOperator returns an operator with every dimension at its default of 1.
func NewOperator() *Operator {
	return &Operator{
		NewX: ui.NewFloatProperty("new_x", "X", 0, 1, ui.UnitLength),
		NewY: ui.NewFloatProperty("new_y", "Y", 0, 1, ui.UnitLength),
		NewZ: ui.NewFloatProperty("new_z", "Z", 0, 1, ui.UnitLength),
	}
}

// Options reports REGISTER|UNDO: the host must record Execute as one undo step.
func (o *Operator) Options() Options {
	return OptRegister | OptUndo
}

// Request returns the dimensions currently held by the properties.
func (o *Operator) Request() DimensionRequest {
	return DimensionRequest{X: o.NewX.Get(), Y: o.NewY.Get(), Z: o.NewZ.Get()}
}

// SetRequest stores r in the properties. Negative values clamp to zero.
func (o *Operator) SetRequest(r DimensionRequest) error {
	if err := o.NewX.Set(r.X); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	if err := o.NewY.Set(r.Y); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	if err := o.NewZ.Set(r.Z); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	return nil
}

// Invoke seeds the properties from the selection's current size so the
// first presentation matches what is on screen. It returns the bounds it
// computed so callers need not scan again.
func (o *Operator) Invoke(h HostBindings) (BoundingBox, error) {
	box, err := SelectionBounds(h)
	if err != nil {
		return BoundingBox{}, err
	}
	if err := o.SetRequest(RequestFromExtents(box.Extents())); err != nil {
		return BoundingBox{}, err
	}
	return box, nil
}

// Execute rescales the selection to the requested dimensions and returns
// the factors it applied.
func (o *Operator) Execute(h HostBindings) (ScaleFactors, error) {
	req := o.Request()
	if err := req.Validate(); err != nil {
		return ScaleFactors{}, err
	}
	box, err := SelectionBounds(h)
	if err != nil {
		return ScaleFactors{}, err
	}
	if err := h.SetMode(ModeEdit); err != nil {
		return ScaleFactors{}, errors.Wrap(err, "enter edit mode")
	}
	f := Resolve(box, req)
	if err := h.ApplyScale(f); err != nil {
		return ScaleFactors{}, errors.Wrap(err, "apply scale")
	}
	return f, nil
}

// Draw lays out the dimension fields.
func (o *Operator) Draw(layout ui.Layout) {
	box := layout.Box()
	box.Label("New dimensions:")
	box.Prop(o.NewX)
	box.Prop(o.NewY)
	box.Prop(o.NewZ)
}
