package kernel

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an editable triangle mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// Selected has one flag per vertex.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Selected []bool    `json:"selected"`
	PartName string    `json:"partName"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) r3.Vec {
	return r3.Vec{
		X: float64(m.Vertices[i*3]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// SetVertex overwrites vertex i.
func (m *Mesh) SetVertex(i int, v r3.Vec) {
	m.Vertices[i*3] = float32(v.X)
	m.Vertices[i*3+1] = float32(v.Y)
	m.Vertices[i*3+2] = float32(v.Z)
}

// IsSelected reports whether vertex i is selected.
func (m *Mesh) IsSelected(i int) bool {
	return i < len(m.Selected) && m.Selected[i]
}

// Select sets the selection flag of vertex i.
func (m *Mesh) Select(i int, on bool) {
	m.ensureSelection()
	m.Selected[i] = on
}

// SelectAll selects every vertex.
func (m *Mesh) SelectAll() {
	m.ensureSelection()
	for i := range m.Selected {
		m.Selected[i] = true
	}
}

// DeselectAll clears the selection.
func (m *Mesh) DeselectAll() {
	m.ensureSelection()
	for i := range m.Selected {
		m.Selected[i] = false
	}
}

// SelectedCount returns the number of selected vertices.
func (m *Mesh) SelectedCount() int {
	n := 0
	for i := 0; i < m.VertexCount(); i++ {
		if m.IsSelected(i) {
			n++
		}
	}
	return n
}

// SelectedVertices returns the coordinates of the selected vertices in
// index order.
func (m *Mesh) SelectedVertices() []r3.Vec {
	var out []r3.Vec
	for i := 0; i < m.VertexCount(); i++ {
		if m.IsSelected(i) {
			out = append(out, m.Vertex(i))
		}
	}
	return out
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{PartName: m.PartName}
	c.Vertices = append([]float32(nil), m.Vertices...)
	c.Normals = append([]float32(nil), m.Normals...)
	c.Indices = append([]uint32(nil), m.Indices...)
	c.Selected = append([]bool(nil), m.Selected...)
	return c
}

func (m *Mesh) ensureSelection() {
	if n := m.VertexCount(); len(m.Selected) != n {
		sel := make([]bool, n)
		copy(sel, m.Selected)
		m.Selected = sel
	}
}
