package scene

import (
	"github.com/pkg/errors"

	"github.com/chazu/meshdims/pkg/dimensions"
)

// ErrWrongContext is returned when an operator runs outside edit mode.
var ErrWrongContext = errors.New("operator requires an object in edit mode")

// Bindings exposes the scene's active object to the dimensions operator.
type Bindings struct {
	Scene *Scene
}

var _ dimensions.HostBindings = Bindings{}

// SelectedPoints returns the selected vertices of the active object.
// It fails in edit mode, where the object data lags the edit buffer.
func (b Bindings) SelectedPoints() ([]dimensions.Point3D, error) {
	o, err := b.Scene.requireActive()
	if err != nil {
		return nil, err
	}
	if o.Mode() != dimensions.ModeObject {
		return nil, ErrStaleSelection
	}
	return o.Mesh.SelectedVertices(), nil
}

func (b Bindings) Mode() dimensions.Mode {
	return b.Scene.Mode()
}

func (b Bindings) SetMode(m dimensions.Mode) error {
	return b.Scene.SetMode(m)
}

func (b Bindings) ApplyScale(f dimensions.ScaleFactors) error {
	return b.Scene.Resize(f)
}

func (s *Scene) checkContext() error {
	o, err := s.requireActive()
	if err != nil {
		return err
	}
	if o.Mode() != dimensions.ModeEdit {
		return ErrWrongContext
	}
	return nil
}

// InvokeOperator seeds op from the current selection. No undo step is
// recorded since nothing changes.
func (s *Scene) InvokeOperator(op *dimensions.Operator) (dimensions.BoundingBox, error) {
	if err := s.checkContext(); err != nil {
		return dimensions.BoundingBox{}, err
	}
	return op.Invoke(Bindings{Scene: s})
}

// ExecuteOperator runs op as one undo step. On failure the scene is left
// as it was.
func (s *Scene) ExecuteOperator(op *dimensions.Operator) (dimensions.ScaleFactors, error) {
	if err := s.checkContext(); err != nil {
		return dimensions.ScaleFactors{}, err
	}
	var f dimensions.ScaleFactors
	err := s.Undoable(dimensions.OperatorLabel, func() error {
		var err error
		f, err = op.Execute(Bindings{Scene: s})
		return err
	})
	return f, err
}
