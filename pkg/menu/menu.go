// Package menu models host menus as ordered lists of operator buttons.
package menu

import (
	"sort"
	"sync"
)

// Well-known menu ids the add-on hooks into.
const (
	TransformMenu       = "VIEW3D_MT_transform"
	EditMeshContextMenu = "VIEW3D_MT_edit_mesh_context_menu"
)

// Entry is a button that runs an operator.
type Entry struct {
	OperatorID string `json:"operatorId"`
	Label      string `json:"label"`
	Icon       string `json:"icon"`
}

// Menu is an ordered list of entries. It is safe for concurrent use.
type Menu struct {
	ID    string
	Label string

	mu      sync.Mutex
	entries []Entry
}

// Append adds e at the end of the menu.
func (m *Menu) Append(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

// Prepend adds e at the start of the menu.
func (m *Menu) Prepend(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]Entry{e}, m.entries...)
}

// Remove drops every entry for operatorID and reports whether any existed.
func (m *Menu) Remove(operatorID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	removed := false
	for _, e := range m.entries {
		if e.OperatorID == operatorID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return removed
}

// Entries returns a copy of the menu contents.
func (m *Menu) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Registry holds the host's menus by id.
type Registry struct {
	mu    sync.Mutex
	menus map[string]*Menu
}

// NewRegistry returns a registry containing the well-known menus.
func NewRegistry() *Registry {
	r := &Registry{menus: make(map[string]*Menu)}
	r.menus[TransformMenu] = &Menu{ID: TransformMenu, Label: "Transform"}
	r.menus[EditMeshContextMenu] = &Menu{ID: EditMeshContextMenu, Label: "Vertex Context Menu"}
	return r
}

// Menu returns the menu with id, creating it if needed.
func (r *Registry) Menu(id string) *Menu {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.menus[id]
	if !ok {
		m = &Menu{ID: id, Label: id}
		r.menus[id] = m
	}
	return m
}

// Lookup returns the menu with id, or nil.
func (r *Registry) Lookup(id string) *Menu {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.menus[id]
}

// IDs returns the sorted menu ids.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.menus))
	for id := range r.menus {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
