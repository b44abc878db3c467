// Package addon registers the Set Dimensions operator with a host and
// hooks its button into the host menus.
package addon

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/menu"
)

var (
	ErrAlreadyRegistered = errors.New("add-on already registered")
	ErrNotRegistered     = errors.New("add-on not registered")
	ErrUnknownOperator   = errors.New("unknown operator")
)

// Version is a three part version number.
type Version [3]int

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// Info describes the add-on to the host.
type Info struct {
	Name        string
	Author      string
	Version     Version
	Host        Version
	Location    string
	Description string
	Category    string
}

// SetDimensionsInfo is the metadata shown in the host's add-on list.
var SetDimensionsInfo = Info{
	Name:        "Set Dimensions",
	Author:      "Jake Dube, Laurent Tesson",
	Version:     Version{1, 1, 1},
	Host:        Version{2, 80, 0},
	Location:    "View3D > Mesh > Transform > Set Dimensions, View3D > Specials Menu",
	Description: "Sets dimensions for selected vertices.",
	Category:    "Mesh",
}

// OperatorRegistry maps operator ids to constructors.
type OperatorRegistry struct {
	mu        sync.Mutex
	factories map[string]func() *dimensions.Operator
}

// NewOperatorRegistry returns an empty registry.
func NewOperatorRegistry() *OperatorRegistry {
	return &OperatorRegistry{factories: make(map[string]func() *dimensions.Operator)}
}

// Register adds an operator class.
func (r *OperatorRegistry) Register(id string, factory func() *dimensions.Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[id]; ok {
		return errors.Wrapf(ErrAlreadyRegistered, "operator %s", id)
	}
	r.factories[id] = factory
	return nil
}

// Unregister removes an operator class.
func (r *OperatorRegistry) Unregister(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[id]; !ok {
		return errors.Wrapf(ErrUnknownOperator, "operator %s", id)
	}
	delete(r.factories, id)
	return nil
}

// New instantiates the operator registered under id.
func (r *OperatorRegistry) New(id string) (*dimensions.Operator, error) {
	r.mu.Lock()
	f, ok := r.factories[id]
	r.mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownOperator, "operator %s", id)
	}
	return f(), nil
}

// IDs returns the registered operator ids, sorted.
func (r *OperatorRegistry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Addon is the registration state of Set Dimensions. A host creates one at
// startup, calls Register once and Unregister once at shutdown.
type Addon struct {
	Info Info

	mu         sync.Mutex
	registered bool
	ops        *OperatorRegistry
	menus      *menu.Registry
}

// New returns an unregistered add-on.
func New() *Addon {
	return &Addon{Info: SetDimensionsInfo}
}

// Button is the menu entry the add-on contributes.
func Button() menu.Entry {
	return menu.Entry{
		OperatorID: dimensions.OperatorID,
		Label:      dimensions.OperatorLabel,
		Icon:       dimensions.OperatorIcon,
	}
}

// Register installs the operator and adds its button to the end of the
// Transform menu and the start of the edit-mesh context menu.
func (a *Addon) Register(ops *OperatorRegistry, menus *menu.Registry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.registered {
		return ErrAlreadyRegistered
	}
	if err := ops.Register(dimensions.OperatorID, dimensions.NewOperator); err != nil {
		return err
	}
	menus.Menu(menu.TransformMenu).Append(Button())
	menus.Menu(menu.EditMeshContextMenu).Prepend(Button())

	a.ops, a.menus = ops, menus
	a.registered = true
	return nil
}

// Unregister removes the operator and its button from both menus.
func (a *Addon) Unregister() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.registered {
		return ErrNotRegistered
	}
	err := a.ops.Unregister(dimensions.OperatorID)
	a.menus.Menu(menu.TransformMenu).Remove(dimensions.OperatorID)
	a.menus.Menu(menu.EditMeshContextMenu).Remove(dimensions.OperatorID)

	a.ops, a.menus = nil, nil
	a.registered = false
	return err
}

// Registered reports whether Register has been called without a matching
// Unregister.
func (a *Addon) Registered() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registered
}
