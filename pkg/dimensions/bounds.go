// Package dimensions computes the bounding box of a vertex selection and
// the per-axis scale factors that bring it to requested dimensions.
//
// The package never touches a host directly. Everything it needs from the
// editing application is reached through HostBindings.
package dimensions

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidInput is returned for an empty point set or an unusable
// dimension request.
var ErrInvalidInput = errors.New("invalid input")

// Point3D is a vertex coordinate. It is owned by the mesh that supplied it.
type Point3D = r3.Vec

// BoundingBox is the axis-aligned box around a point set, stored as the
// six extrema in +x, -x, +y, -y, +z, -z order.
type BoundingBox struct {
	MaxX, MinX float64
	MaxY, MinY float64
	MaxZ, MinZ float64
}

// Extents holds the size of a box along each axis.
type Extents struct {
	X, Y, Z float64
}

// CalcBounds returns the smallest axis-aligned box enclosing points.
// An empty slice is rejected with ErrInvalidInput.
func CalcBounds(points []Point3D) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, errors.Wrap(ErrInvalidInput, "bounds of empty point set")
	}

	p := points[0]
	b := BoundingBox{
		MaxX: p.X, MinX: p.X,
		MaxY: p.Y, MinY: p.Y,
		MaxZ: p.Z, MinZ: p.Z,
	}
	for _, p := range points[1:] {
		if b.MaxX < p.X {
			b.MaxX = p.X
		}
		if b.MinX > p.X {
			b.MinX = p.X
		}
		if b.MaxY < p.Y {
			b.MaxY = p.Y
		}
		if b.MinY > p.Y {
			b.MinY = p.Y
		}
		if b.MaxZ < p.Z {
			b.MaxZ = p.Z
		}
		if b.MinZ > p.Z {
			b.MinZ = p.Z
		}
	}
	return b, nil
}

// Extents returns max - min along each axis.
func (b BoundingBox) Extents() Extents {
	return Extents{
		X: b.MaxX - b.MinX,
		Y: b.MaxY - b.MinY,
		Z: b.MaxZ - b.MinZ,
	}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Point3D {
	return Point3D{
		X: (b.MaxX + b.MinX) / 2,
		Y: (b.MaxY + b.MinY) / 2,
		Z: (b.MaxZ + b.MinZ) / 2,
	}
}

// Box3 converts the box to the sdfx representation.
func (b BoundingBox) Box3() sdf.Box3 {
	return sdf.Box3{
		Min: v3.Vec{X: b.MinX, Y: b.MinY, Z: b.MinZ},
		Max: v3.Vec{X: b.MaxX, Y: b.MaxY, Z: b.MaxZ},
	}
}

// Valid reports whether every axis satisfies max >= min and no value is NaN.
func (b BoundingBox) Valid() bool {
	for _, v := range [...]float64{b.MaxX, b.MinX, b.MaxY, b.MinY, b.MaxZ, b.MinZ} {
		if math.IsNaN(v) {
			return false
		}
	}
	return b.MaxX >= b.MinX && b.MaxY >= b.MinY && b.MaxZ >= b.MinZ
}
