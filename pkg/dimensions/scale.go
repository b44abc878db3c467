package dimensions

import (
	"math"

	"github.com/pkg/errors"
)

// DimensionRequest is the desired size of the selection along each axis.
type DimensionRequest struct {
	X, Y, Z float64
}

// ScaleFactors are the per-axis multipliers handed to the host's
// non-uniform scale transform.
type ScaleFactors struct {
	X, Y, Z float64
}

// Identity reports whether applying f would leave the selection unchanged.
func (f ScaleFactors) Identity() bool {
	return f.X == 1 && f.Y == 1 && f.Z == 1
}

// RequestFromExtents returns a request that keeps the current size.
func RequestFromExtents(e Extents) DimensionRequest {
	return DimensionRequest{X: e.X, Y: e.Y, Z: e.Z}
}

// Validate rejects negative or NaN sizes.
func (r DimensionRequest) Validate() error {
	for _, axis := range [...]struct {
		name string
		v    float64
	}{{"x", r.X}, {"y", r.Y}, {"z", r.Z}} {
		if math.IsNaN(axis.v) || math.IsInf(axis.v, 0) {
			return errors.Wrapf(ErrInvalidInput, "dimension %s is not a finite number", axis.name)
		}
		if axis.v < 0 {
			return errors.Wrapf(ErrInvalidInput, "dimension %s is negative (%g)", axis.name, axis.v)
		}
	}
	return nil
}

// SafeDivide returns desired/current, or exactly 1 when current is zero.
// An axis with no extent cannot be scaled to a size, so it is left alone.
func SafeDivide(desired, current float64) float64 {
	if current != 0 {
		return desired / current
	}
	return 1
}

// Resolve computes the factors that take box to the requested size.
// Axes are independent.
func Resolve(box BoundingBox, req DimensionRequest) ScaleFactors {
	e := box.Extents()
	return ScaleFactors{
		X: SafeDivide(req.X, e.X),
		Y: SafeDivide(req.Y, e.Y),
		Z: SafeDivide(req.Z, e.Z),
	}
}
