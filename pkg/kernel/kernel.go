// Package kernel defines the abstract geometry kernel used to create
// primitive meshes, and the editable Mesh those primitives produce.
// The sdfx subpackage provides the implementation.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel creates solids and tessellates them into meshes.
type Kernel interface {
	// Primitives, centered on the origin.
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	Translate(s Solid, x, y, z float64) Solid

	// ToMesh tessellates a solid. Every vertex of the result is selected.
	ToMesh(s Solid) (*Mesh, error)
}
