package dimensions

import (
	"github.com/pkg/errors"
)

// Mode is the editing mode of the object being worked on.
type Mode string

const (
	ModeObject Mode = "OBJECT"
	ModeEdit   Mode = "EDIT"
)

// HostBindings is everything the operator needs from the editing host.
type HostBindings interface {
	// SelectedPoints returns the coordinates of the selected vertices.
	// Hosts may only guarantee up-to-date data in ModeObject.
	SelectedPoints() ([]Point3D, error)
	Mode() Mode
	SetMode(m Mode) error
	// ApplyScale rescales the selection non-uniformly about the host's
	// current pivot, in a single step.
	ApplyScale(f ScaleFactors) error
}

// SelectionBounds computes the bounds of the host's current selection.
// The host is switched to ModeObject for the read and its previous mode is
// restored on every return path.
func SelectionBounds(h HostBindings) (box BoundingBox, err error) {
	prev := h.Mode()
	if err := h.SetMode(ModeObject); err != nil {
		return BoundingBox{}, errors.Wrap(err, "enter object mode")
	}
	defer func() {
		if rerr := h.SetMode(prev); rerr != nil && err == nil {
			err = errors.Wrapf(rerr, "restore %s mode", prev)
		}
	}()

	points, err := h.SelectedPoints()
	if err != nil {
		return BoundingBox{}, errors.Wrap(err, "read selection")
	}
	box, err = CalcBounds(points)
	if err != nil {
		return BoundingBox{}, err
	}
	if !box.Valid() {
		return BoundingBox{}, errors.Wrap(ErrInvalidInput, "selection has non-finite coordinates")
	}
	return box, nil
}
