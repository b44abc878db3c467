// Package scene is an in-memory editing host: objects holding meshes, an
// object/edit mode per object, a transform pivot setting and an undo
// history. Bindings adapts it to dimensions.HostBindings.
package scene

import (
	"github.com/pkg/errors"

	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/kernel"
)

var (
	ErrUnknownMode     = errors.New("unknown mode")
	ErrWrongMode       = errors.New("operation not available in current mode")
	ErrStaleSelection  = errors.New("selection data is only current in object mode")
	ErrNoActiveObject  = errors.New("no active object")
	ErrDuplicateObject = errors.New("object name already in use")
	ErrUnknownObject   = errors.New("unknown object")
)

// Object is a named mesh. While in edit mode, edits go to a working copy
// that is written back to Mesh when the object returns to object mode.
type Object struct {
	Name string
	Mesh *kernel.Mesh

	mode dimensions.Mode
	edit *kernel.Mesh
}

// NewObject returns an object in object mode.
func NewObject(name string, mesh *kernel.Mesh) *Object {
	if mesh == nil {
		mesh = &kernel.Mesh{}
	}
	mesh.PartName = name
	return &Object{Name: name, Mesh: mesh, mode: dimensions.ModeObject}
}

// Mode returns the object's editing mode.
func (o *Object) Mode() dimensions.Mode {
	return o.mode
}

// Working returns the mesh edits currently apply to: the edit buffer in
// edit mode, the object data otherwise.
func (o *Object) Working() *kernel.Mesh {
	if o.edit != nil {
		return o.edit
	}
	return o.Mesh
}

// SetMode switches modes, loading or flushing the edit buffer.
func (o *Object) SetMode(m dimensions.Mode) error {
	switch m {
	case dimensions.ModeObject, dimensions.ModeEdit:
	default:
		return errors.Wrapf(ErrUnknownMode, "%q", m)
	}
	if m == o.mode {
		return nil
	}
	if m == dimensions.ModeEdit {
		o.edit = o.Mesh.Clone()
	} else {
		o.Mesh = o.edit
		o.edit = nil
	}
	o.mode = m
	return nil
}
