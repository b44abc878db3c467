package scene

import (
	"github.com/pkg/errors"

	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/kernel"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

type objectState struct {
	obj  *Object
	mesh *kernel.Mesh
	edit *kernel.Mesh
	mode dimensions.Mode
}

type snapshot struct {
	objects []objectState
	active  *Object
}

type step struct {
	name          string
	before, after snapshot
}

type history struct {
	undo []step
	redo []step
}

func cloneOrNil(m *kernel.Mesh) *kernel.Mesh {
	if m == nil {
		return nil
	}
	return m.Clone()
}

func (s *Scene) snapshot() snapshot {
	snap := snapshot{active: s.active}
	for _, o := range s.objects {
		snap.objects = append(snap.objects, objectState{
			obj:  o,
			mesh: cloneOrNil(o.Mesh),
			edit: cloneOrNil(o.edit),
			mode: o.mode,
		})
	}
	return snap
}

func (s *Scene) restore(snap snapshot) {
	s.objects = s.objects[:0]
	for _, st := range snap.objects {
		st.obj.Mesh = cloneOrNil(st.mesh)
		st.obj.edit = cloneOrNil(st.edit)
		st.obj.mode = st.mode
		s.objects = append(s.objects, st.obj)
	}
	s.active = snap.active
}

// Undoable runs fn as a single undo step called name. If fn fails, the
// scene is rolled back to its state before the call and no step is
// recorded.
func (s *Scene) Undoable(name string, fn func() error) error {
	before := s.snapshot()
	if err := fn(); err != nil {
		s.restore(before)
		return err
	}
	s.undo = append(s.undo, step{name: name, before: before, after: s.snapshot()})
	if s.MaxUndo > 0 && len(s.undo) > s.MaxUndo {
		s.undo = s.undo[len(s.undo)-s.MaxUndo:]
	}
	s.redo = nil
	return nil
}

// Undo reverts the most recent step and returns its name.
func (s *Scene) Undo() (string, error) {
	if len(s.undo) == 0 {
		return "", ErrNothingToUndo
	}
	st := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.restore(st.before)
	s.redo = append(s.redo, st)
	return st.name, nil
}

// Redo reapplies the most recently undone step and returns its name.
func (s *Scene) Redo() (string, error) {
	if len(s.redo) == 0 {
		return "", ErrNothingToRedo
	}
	st := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.restore(st.after)
	s.undo = append(s.undo, st)
	return st.name, nil
}

// History returns the names of the undoable steps, oldest first.
func (s *Scene) History() []string {
	names := make([]string, len(s.undo))
	for i, st := range s.undo {
		names[i] = st.name
	}
	return names
}
