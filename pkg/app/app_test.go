package app

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/meshdims/pkg/config"
	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/menu"
	"github.com/chazu/meshdims/pkg/meshio"
)

func newTestApp() *App {
	cfg := config.DefaultConfig()
	cfg.MeshCells = 16
	return NewApp(cfg)
}

// extents measures every vertex of the object's mesh.
func extents(t *testing.T, o ObjectData) [3]float64 {
	t.Helper()
	v := o.Mesh.Vertices
	if len(v) == 0 {
		t.Fatalf("object %q has no vertices", o.Name)
	}
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < len(v); i += 3 {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], float64(v[i+k]))
			hi[k] = math.Max(hi[k], float64(v[i+k]))
		}
	}
	return [3]float64{hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]}
}

func wantExtents(t *testing.T, got [3]float64, want [3]float64) {
	t.Helper()
	for k := range want {
		if math.Abs(got[k]-want[k]) > 1e-4 {
			t.Fatalf("extents = %v, want %v", got, want)
		}
	}
}

func openCube(t *testing.T, a *App) SceneResult {
	t.Helper()
	res := a.Open(filepath.Join("..", "..", "examples", "cube.obj"))
	if res.Error != "" {
		t.Fatalf("Open() error = %s", res.Error)
	}
	return res
}

// TestE2EOpenResizeSave drives the same path the desktop form takes:
// open, seed the form, apply, undo, save.
func TestE2EOpenResizeSave(t *testing.T) {
	a := newTestApp()
	res := openCube(t, a)

	if len(res.Objects) != 1 || !res.Objects[0].Active {
		t.Fatalf("objects = %+v", res.Objects)
	}
	if res.Objects[0].Mode != string(dimensions.ModeEdit) {
		t.Errorf("mode = %s, want EDIT after open", res.Objects[0].Mode)
	}

	form := a.Dimensions()
	if form.Error != "" {
		t.Fatalf("Dimensions() error = %s", form.Error)
	}
	if len(form.Fields) != 3 || form.Fields[0].ID != "new_x" || form.Fields[0].Value != 2 {
		t.Fatalf("fields = %+v", form.Fields)
	}
	if form.Fields[0].Text != "2.000 m" {
		t.Errorf("field text = %q", form.Fields[0].Text)
	}

	op := a.SetDimensions(4, 2, 1)
	if op.Error != "" {
		t.Fatalf("SetDimensions() error = %s", op.Error)
	}
	if op.Factors != [3]float64{2, 1, 0.5} {
		t.Errorf("factors = %v", op.Factors)
	}
	wantExtents(t, extents(t, op.Scene.Objects[0]), [3]float64{4, 2, 1})
	if h := op.Scene.History; len(h) != 1 || h[0] != dimensions.OperatorLabel {
		t.Errorf("history = %v", h)
	}

	undone := a.Undo()
	if undone.Error != "" {
		t.Fatalf("Undo() error = %s", undone.Error)
	}
	wantExtents(t, extents(t, undone.Objects[0]), [3]float64{2, 2, 2})
	redone := a.Redo()
	wantExtents(t, extents(t, redone.Objects[0]), [3]float64{4, 2, 1})

	out := filepath.Join(t.TempDir(), "out.obj")
	if s := a.Save(out); s.Error != "" {
		t.Fatalf("Save() error = %s", s.Error)
	}
	m, err := meshio.Load(out)
	if err != nil {
		t.Fatalf("Load(saved) error = %v", err)
	}
	if m.VertexCount() != 8 {
		t.Errorf("saved vertices = %d", m.VertexCount())
	}
	if a.Scene().Objects[0].Mode != string(dimensions.ModeEdit) {
		t.Error("Save() did not restore edit mode")
	}
}

func TestSetDimensionsErrors(t *testing.T) {
	a := newTestApp()
	if r := a.SetDimensions(1, 1, 1); r.Error == "" {
		t.Error("SetDimensions() without an object succeeded")
	}

	openCube(t, a)
	r := a.SetDimensions(1, -1, 1)
	if !strings.Contains(r.Error, "negative") {
		t.Errorf("error = %q, want negative dimension", r.Error)
	}
	if len(r.Scene.History) != 0 {
		t.Errorf("rejected request recorded history %v", r.Scene.History)
	}
	if r := a.Undo(); r.Error == "" {
		t.Error("Undo() with empty history succeeded")
	}
}

func TestDimensionsRequiresEditMode(t *testing.T) {
	a := newTestApp()
	openCube(t, a)
	ev := a.Evaluate("(object-mode)")
	if len(ev.Errors) != 0 {
		t.Fatalf("Evaluate() errors = %v", ev.Errors)
	}
	if d := a.Dimensions(); !strings.Contains(d.Error, "edit mode") {
		t.Errorf("Dimensions() error = %q", d.Error)
	}
}

// TestE2EPlankExample runs examples/plank.lisp through the console.
func TestE2EPlankExample(t *testing.T) {
	a := newTestApp()

	source, err := os.ReadFile(filepath.Join("..", "..", "examples", "plank.lisp"))
	if err != nil {
		t.Fatalf("failed to read plank.lisp: %v", err)
	}

	result := a.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(result.Calls))
	}
	if f := result.Calls[1].Factors; math.Abs(f[1]-2) > 1e-4 || f[0] != 1 {
		t.Errorf("widen factors = %v, want y doubled", f)
	}
	objs := result.Scene.Objects
	if len(objs) != 1 || objs[0].Name != "Plank" || objs[0].Mesh.Color == "" {
		t.Fatalf("objects = %+v", objs)
	}
	wantExtents(t, extents(t, objs[0]), [3]float64{2, 0.4, 0.02})
	if result.Scene.Pivot != "BOUNDING_BOX_CENTER" {
		t.Errorf("pivot = %s", result.Scene.Pivot)
	}
}

func TestEvaluateErrors(t *testing.T) {
	a := newTestApp()

	result := a.Evaluate("(box 1 1")
	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if result.Calls == nil || result.Scene.Objects == nil {
		t.Error("slices should be non-nil so JSON has [] not null")
	}

	result = a.Evaluate("")
	if len(result.Errors) != 0 || len(result.Scene.Objects) != 0 {
		t.Errorf("empty source: %+v", result)
	}
}

func TestOpenErrors(t *testing.T) {
	a := newTestApp()
	if r := a.Open(filepath.Join(t.TempDir(), "missing.obj")); r.Error == "" {
		t.Error("Open() of a missing file succeeded")
	}
	if r := a.Open("mesh.stl"); !strings.Contains(r.Error, "unsupported") {
		t.Errorf("Open(stl) error = %q", r.Error)
	}
	if r := a.Save(""); r.Error == "" {
		t.Error("Save() with no path succeeded")
	}
}

func TestMenuEntries(t *testing.T) {
	a := newTestApp()
	menus := a.MenuEntries()
	if len(menus) != 2 {
		t.Fatalf("menus = %+v", menus)
	}
	for _, m := range menus {
		if len(m.Entries) != 1 || m.Entries[0].OperatorID != dimensions.OperatorID {
			t.Errorf("menu %s entries = %+v", m.ID, m.Entries)
		}
	}

	a.Shutdown(context.Background())
	for _, m := range a.MenuEntries() {
		if len(m.Entries) != 0 {
			t.Errorf("menu %s still has %+v after shutdown", m.ID, m.Entries)
		}
	}
	if menus[0].ID != menu.EditMeshContextMenu || menus[1].ID != menu.TransformMenu {
		t.Errorf("menus not sorted by id: %s, %s", menus[0].ID, menus[1].ID)
	}
}

func TestMenuEntriesDuringShutdown(t *testing.T) {
	a := newTestApp()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.Shutdown(context.Background())
	}()
	go func() {
		defer wg.Done()
		for _, m := range a.MenuEntries() {
			if len(m.Entries) > 1 {
				t.Errorf("menu %s entries = %+v", m.ID, m.Entries)
			}
		}
	}()
	wg.Wait()
	for _, m := range a.MenuEntries() {
		if len(m.Entries) != 0 {
			t.Errorf("menu %s still has %+v", m.ID, m.Entries)
		}
	}
}

// TestTimedOutScriptReleasesScene runs a script that never finishes and
// checks that nothing changes the scene once Evaluate has reported the
// timeout.
func TestTimedOutScriptReleasesScene(t *testing.T) {
	a := newTestApp()
	openCube(t, a)
	a.scene.MaxUndo = 0
	a.engine.Timeout = 100 * time.Millisecond

	res := a.Evaluate("(for [(def i 0) true (set i (+ i 1))] (set-dimensions (+ 1 (mod i 3)) 2 2))")
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Message, "timed out") {
		t.Fatalf("errors = %+v, want a timeout", res.Errors)
	}

	first := a.Scene()
	want := append([]float32(nil), first.Objects[0].Mesh.Vertices...)
	for i := 0; i < 10; i++ {
		time.Sleep(10 * time.Millisecond)
		now := a.Scene()
		if len(now.History) != len(first.History) {
			t.Fatalf("history grew from %d to %d steps after timeout", len(first.History), len(now.History))
		}
		got := now.Objects[0].Mesh.Vertices
		for k := range want {
			if got[k] != want[k] {
				t.Fatalf("vertex data changed after timeout at %d", k)
			}
		}
	}

	if op := a.SetDimensions(3, 2, 2); op.Error != "" {
		t.Fatalf("SetDimensions() after timeout: %s", op.Error)
	}
}
