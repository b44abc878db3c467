package scene

import (
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/meshdims/pkg/dimensions"
)

// Pivot selects the point scale transforms are centered on.
type Pivot string

const (
	PivotMedian       Pivot = "MEDIAN_POINT"
	PivotBoundsCenter Pivot = "BOUNDING_BOX_CENTER"
	PivotCursor       Pivot = "CURSOR"
)

// ParsePivot accepts a pivot constant or the short forms median, bounds
// and cursor.
func ParsePivot(s string) (Pivot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "median", "median_point", "":
		return PivotMedian, nil
	case "bounds", "bounding_box_center":
		return PivotBoundsCenter, nil
	case "cursor":
		return PivotCursor, nil
	}
	return "", errors.Errorf("unknown pivot %q", s)
}

// DefaultMaxUndo bounds the undo history.
const DefaultMaxUndo = 32

// Scene holds objects and the editor settings that apply to them.
type Scene struct {
	Pivot   Pivot
	Cursor  r3.Vec
	MaxUndo int

	objects []*Object
	active  *Object
	history
}

// New returns an empty scene pivoting on the median point.
func New() *Scene {
	return &Scene{Pivot: PivotMedian, MaxUndo: DefaultMaxUndo}
}

// Add inserts obj and makes it active.
func (s *Scene) Add(obj *Object) error {
	for _, o := range s.objects {
		if o.Name == obj.Name {
			return errors.Wrapf(ErrDuplicateObject, "%q", obj.Name)
		}
	}
	s.objects = append(s.objects, obj)
	s.active = obj
	return nil
}

// Objects returns the scene's objects in insertion order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// Object returns the object called name, or nil.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Active returns the active object, or nil.
func (s *Scene) Active() *Object {
	return s.active
}

// SetActive makes the named object active. The previously active object
// is returned to object mode first.
func (s *Scene) SetActive(name string) error {
	o := s.Object(name)
	if o == nil {
		return errors.Wrapf(ErrUnknownObject, "%q", name)
	}
	if s.active != nil && s.active != o {
		if err := s.active.SetMode(dimensions.ModeObject); err != nil {
			return err
		}
	}
	s.active = o
	return nil
}

func (s *Scene) requireActive() (*Object, error) {
	if s.active == nil {
		return nil, ErrNoActiveObject
	}
	return s.active, nil
}

// Mode returns the active object's mode, or object mode when nothing is
// active.
func (s *Scene) Mode() dimensions.Mode {
	if s.active == nil {
		return dimensions.ModeObject
	}
	return s.active.Mode()
}

// SetMode switches the active object's mode.
func (s *Scene) SetMode(m dimensions.Mode) error {
	o, err := s.requireActive()
	if err != nil {
		return err
	}
	return o.SetMode(m)
}

// SelectAll selects every vertex of the active object.
func (s *Scene) SelectAll() error {
	o, err := s.requireActive()
	if err != nil {
		return err
	}
	o.Working().SelectAll()
	return nil
}

// DeselectAll clears the active object's selection.
func (s *Scene) DeselectAll() error {
	o, err := s.requireActive()
	if err != nil {
		return err
	}
	o.Working().DeselectAll()
	return nil
}

// SelectBox adds the vertices inside [min, max], bounds included, to the
// selection and returns how many were added.
func (s *Scene) SelectBox(min, max r3.Vec) (int, error) {
	o, err := s.requireActive()
	if err != nil {
		return 0, err
	}
	box := dimensions.BoundingBox{
		MaxX: max.X, MinX: min.X,
		MaxY: max.Y, MinY: min.Y,
		MaxZ: max.Z, MinZ: min.Z,
	}
	if !box.Valid() {
		return 0, errors.Wrapf(dimensions.ErrInvalidInput, "select box min %v exceeds max %v", min, max)
	}
	region := box.Box3()
	m := o.Working()
	n := 0
	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		if !region.Contains(v3.Vec{X: v.X, Y: v.Y, Z: v.Z}) {
			continue
		}
		if !m.IsSelected(i) {
			m.Select(i, true)
			n++
		}
	}
	return n, nil
}

// pivotPoint returns the scale center for the selected vertices.
func (s *Scene) pivotPoint(selected []r3.Vec) r3.Vec {
	switch s.Pivot {
	case PivotCursor:
		return s.Cursor
	case PivotBoundsCenter:
		box, err := dimensions.CalcBounds(selected)
		if err != nil {
			return r3.Vec{}
		}
		return box.Center()
	}
	var sum r3.Vec
	for _, v := range selected {
		sum = r3.Add(sum, v)
	}
	return r3.Scale(1/float64(len(selected)), sum)
}

// Resize scales the active object's selected vertices by f about the
// pivot. It is only available in edit mode. Normals of moved vertices are
// corrected for the non-uniform scale. Identity factors leave the mesh
// untouched, so no rounding creeps in.
func (s *Scene) Resize(f dimensions.ScaleFactors) error {
	o, err := s.requireActive()
	if err != nil {
		return err
	}
	if o.Mode() != dimensions.ModeEdit {
		return errors.Wrap(ErrWrongMode, "resize requires edit mode")
	}
	m := o.Working()
	selected := m.SelectedVertices()
	if len(selected) == 0 || f.Identity() {
		return nil
	}

	p := s.pivotPoint(selected)
	xf := mgl64.Translate3D(p.X, p.Y, p.Z).
		Mul4(mgl64.Scale3D(f.X, f.Y, f.Z)).
		Mul4(mgl64.Translate3D(-p.X, -p.Y, -p.Z))

	hasNormals := len(m.Normals) == len(m.Vertices)
	for i := 0; i < m.VertexCount(); i++ {
		if !m.IsSelected(i) {
			continue
		}
		v := m.Vertex(i)
		out := xf.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 1})
		m.SetVertex(i, r3.Vec{X: out[0], Y: out[1], Z: out[2]})
		if hasNormals {
			scaleNormal(m.Normals[i*3:i*3+3], f)
		}
	}
	return nil
}

// scaleNormal applies the inverse transpose of a diagonal scale. Axes
// with a zero factor are left as they are.
func scaleNormal(n []float32, f dimensions.ScaleFactors) {
	v := mgl64.Vec3{float64(n[0]), float64(n[1]), float64(n[2])}
	for i, k := range [3]float64{f.X, f.Y, f.Z} {
		if k != 0 {
			v[i] /= k
		}
	}
	if v.Len() == 0 {
		return
	}
	v = v.Normalize()
	n[0], n[1], n[2] = float32(v[0]), float32(v[1]), float32(v[2])
}
