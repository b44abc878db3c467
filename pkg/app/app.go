// Package app is the desktop backend. App's exported methods are bound to
// the web frontend, so every result is a JSON-friendly struct that carries
// failures in an Error string rather than a Go error.
package app

import (
	"context"
	"log"
	"sync"

	"github.com/chazu/meshdims/pkg/addon"
	"github.com/chazu/meshdims/pkg/config"
	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/engine"
	"github.com/chazu/meshdims/pkg/kernel"
	"github.com/chazu/meshdims/pkg/kernel/sdfx"
	"github.com/chazu/meshdims/pkg/menu"
	"github.com/chazu/meshdims/pkg/meshio"
	"github.com/chazu/meshdims/pkg/scene"
	"github.com/chazu/meshdims/pkg/ui"
)

// colorPalette is a default palette used to assign distinct colors to objects.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx context.Context
	cfg *config.Config

	mu     sync.Mutex
	scene  *scene.Scene
	engine *engine.Engine
	kernel kernel.Kernel
	path   string

	addon *addon.Addon
	ops   *addon.OperatorRegistry
	menus *menu.Registry
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Selected []bool    `json:"selected"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// ObjectData describes one scene object.
type ObjectData struct {
	Name   string   `json:"name"`
	Mode   string   `json:"mode"`
	Active bool     `json:"active"`
	Mesh   MeshData `json:"mesh"`
}

// SceneResult is the scene state returned after any change.
type SceneResult struct {
	Path    string       `json:"path"`
	Pivot   string       `json:"pivot"`
	Objects []ObjectData `json:"objects"`
	History []string     `json:"history"`
	Error   string       `json:"error"`
}

// FieldData is one operator property as the frontend form shows it.
type FieldData struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Unit  string  `json:"unit"`
	Text  string  `json:"text"`
}

// DimensionsResult is the operator form seeded from the selection.
type DimensionsResult struct {
	Label  string      `json:"label"`
	Fields []FieldData `json:"fields"`
	Error  string      `json:"error"`
}

// OperatorResult reports a Set Dimensions run.
type OperatorResult struct {
	Factors [3]float64  `json:"factors"`
	Scene   SceneResult `json:"scene"`
	Error   string      `json:"error"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// CallData is one operator run made by a script.
type CallData struct {
	Operator string     `json:"operator"`
	Object   string     `json:"object"`
	Factors  [3]float64 `json:"factors"`
}

// EvalResult is the full result of a console evaluation.
type EvalResult struct {
	Value  string          `json:"value"`
	Calls  []CallData      `json:"calls"`
	Errors []EvalErrorData `json:"errors"`
	Scene  SceneResult     `json:"scene"`
}

// MenuData is a host menu with its buttons.
type MenuData struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Entries []menu.Entry `json:"entries"`
}

// SaveResult reports where a mesh was written.
type SaveResult struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// NewApp creates an App with an empty scene, the sdfx kernel and the Set
// Dimensions add-on registered.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &App{
		cfg:    cfg,
		kernel: sdfx.NewWithCells(cfg.MeshCells),
		addon:  addon.New(),
		ops:    addon.NewOperatorRegistry(),
		menus:  menu.NewRegistry(),
	}
	if err := a.addon.Register(a.ops, a.menus); err != nil {
		log.Printf("register %s: %v", a.addon.Info.Name, err)
	}
	a.reset()
	return a
}

// reset replaces the scene with an empty one configured from cfg.
func (a *App) reset() {
	a.scene = scene.New()
	if err := a.cfg.Apply(a.scene); err != nil {
		log.Printf("apply config: %v", err)
	}
	a.engine = engine.NewEngine(a.scene, a.kernel)
	a.path = ""
}

// Startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
}

// Shutdown is called by Wails when the window closes.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.addon.Unregister(); err != nil {
		log.Printf("unregister %s: %v", a.addon.Info.Name, err)
	}
}

// Open loads a mesh file into a fresh scene and enters edit mode on it.
func (a *App) Open(path string) SceneResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := meshio.Load(path)
	if err != nil {
		log.Printf("Open %s: %v", path, err)
		return SceneResult{Objects: []ObjectData{}, History: []string{}, Error: err.Error()}
	}
	a.reset()
	if err := a.scene.Add(scene.NewObject(m.PartName, m)); err != nil {
		return a.sceneResult(err)
	}
	a.path = path
	return a.sceneResult(a.scene.SetMode(dimensions.ModeEdit))
}

// Scene returns the current scene state.
func (a *App) Scene() SceneResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sceneResult(nil)
}

// Dimensions runs the operator's invoke step and returns its form.
func (a *App) Dimensions() DimensionsResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := DimensionsResult{Label: dimensions.OperatorLabel, Fields: []FieldData{}}
	op, err := a.ops.New(dimensions.OperatorID)
	if err == nil {
		_, err = a.scene.InvokeOperator(op)
	}
	if err != nil {
		log.Printf("Dimensions: %v", err)
		result.Error = err.Error()
		return result
	}

	var props ui.Props
	op.Draw(&props)
	for _, p := range props.List {
		result.Fields = append(result.Fields, FieldData{
			ID:    p.ID,
			Name:  p.Name,
			Value: p.Get(),
			Min:   p.Min,
			Unit:  a.cfg.Unit,
			Text:  p.Format(a.cfg.Precision, a.cfg.Unit),
		})
	}
	return result
}

// SetDimensions resizes the selection of the active object to x, y, z as
// one undo step.
func (a *App) SetDimensions(x, y, z float64) OperatorResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	var result OperatorResult
	op, err := a.ops.New(dimensions.OperatorID)
	if err == nil {
		req := dimensions.DimensionRequest{X: x, Y: y, Z: z}
		if err = req.Validate(); err == nil {
			err = op.SetRequest(req)
		}
	}
	var f dimensions.ScaleFactors
	if err == nil {
		f, err = a.scene.ExecuteOperator(op)
	}
	if err != nil {
		log.Printf("SetDimensions: %v", err)
		result.Error = err.Error()
	}
	result.Factors = [3]float64{f.X, f.Y, f.Z}
	result.Scene = a.sceneResult(nil)
	return result
}

// Undo reverts the last step.
func (a *App) Undo() SceneResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.scene.Undo()
	return a.sceneResult(err)
}

// Redo reapplies the last undone step.
func (a *App) Redo() SceneResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.scene.Redo()
	return a.sceneResult(err)
}

// Evaluate runs console source against the scene.
func (a *App) Evaluate(source string) EvalResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := EvalResult{
		Calls:  []CallData{},
		Errors: []EvalErrorData{},
	}

	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	if res != nil {
		result.Value = res.Value
		for _, c := range res.Calls {
			result.Calls = append(result.Calls, CallData{
				Operator: c.Operator,
				Object:   c.Object,
				Factors:  [3]float64{c.Factors.X, c.Factors.Y, c.Factors.Z},
			})
		}
	}
	result.Scene = a.sceneResult(nil)
	return result
}

// Save writes the active object's mesh. An empty path saves over the
// opened file.
func (a *App) Save(path string) SaveResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if path == "" {
		path = a.path
	}
	result := SaveResult{Path: path}
	o := a.scene.Active()
	switch {
	case path == "":
		result.Error = "no file name"
	case o == nil:
		result.Error = scene.ErrNoActiveObject.Error()
	default:
		// Leave edit mode long enough to flush the edit buffer.
		mode := o.Mode()
		err := o.SetMode(dimensions.ModeObject)
		if err == nil {
			err = meshio.Save(path, o.Mesh)
			if rerr := o.SetMode(mode); err == nil {
				err = rerr
			}
		}
		if err != nil {
			log.Printf("Save %s: %v", path, err)
			result.Error = err.Error()
		}
	}
	return result
}

// MenuEntries returns the host menus and their buttons.
func (a *App) MenuEntries() []MenuData {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []MenuData{}
	for _, id := range a.menus.IDs() {
		m := a.menus.Lookup(id)
		out = append(out, MenuData{ID: id, Label: m.Label, Entries: m.Entries()})
	}
	return out
}

// sceneResult snapshots the scene, attaching err if non-nil.
func (a *App) sceneResult(err error) SceneResult {
	result := SceneResult{
		Path:    a.path,
		Pivot:   string(a.scene.Pivot),
		Objects: []ObjectData{},
		History: a.scene.History(),
	}
	if err != nil {
		log.Printf("scene: %v", err)
		result.Error = err.Error()
	}
	active := a.scene.Active()
	for i, o := range a.scene.Objects() {
		m := o.Working()
		result.Objects = append(result.Objects, ObjectData{
			Name:   o.Name,
			Mode:   string(o.Mode()),
			Active: o == active,
			Mesh: MeshData{
				Vertices: m.Vertices,
				Normals:  m.Normals,
				Indices:  m.Indices,
				Selected: m.Selected,
				PartName: o.Name,
				Color:    colorPalette[i%len(colorPalette)],
			},
		})
	}
	return result
}
