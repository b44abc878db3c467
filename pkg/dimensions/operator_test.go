package dimensions

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/meshdims/pkg/ui"
)

// --- Stub host ---

// stubHost records mode switches and scale calls. Points are only
// readable in object mode, like a host whose edit buffer is not flushed.
type stubHost struct {
	points  []Point3D
	mode    Mode
	modes   []Mode
	scales  []ScaleFactors
	readErr error
	setErr  map[Mode]error
}

func (h *stubHost) SelectedPoints() ([]Point3D, error) {
	if h.readErr != nil {
		return nil, h.readErr
	}
	if h.mode != ModeObject {
		return nil, errors.New("selection read outside object mode")
	}
	return h.points, nil
}

func (h *stubHost) Mode() Mode { return h.mode }

func (h *stubHost) SetMode(m Mode) error {
	if err := h.setErr[m]; err != nil {
		return err
	}
	h.mode = m
	h.modes = append(h.modes, m)
	return nil
}

func (h *stubHost) ApplyScale(f ScaleFactors) error {
	if h.mode != ModeEdit {
		return errors.New("scale outside edit mode")
	}
	h.scales = append(h.scales, f)
	return nil
}

var _ HostBindings = (*stubHost)(nil)

func corners() []Point3D {
	return []Point3D{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0}, {X: 0, Y: 0, Z: 4}}
}

// --- SelectionBounds ---

func TestSelectionBoundsRestoresMode(t *testing.T) {
	h := &stubHost{points: corners(), mode: ModeEdit}
	box, err := SelectionBounds(h)
	if err != nil {
		t.Fatalf("SelectionBounds() error = %v", err)
	}
	if box.Extents() != (Extents{X: 2, Y: 3, Z: 4}) {
		t.Errorf("extents = %+v", box.Extents())
	}
	if h.mode != ModeEdit {
		t.Errorf("mode after = %s, want EDIT", h.mode)
	}
	if len(h.modes) != 2 || h.modes[0] != ModeObject || h.modes[1] != ModeEdit {
		t.Errorf("mode switches = %v, want [OBJECT EDIT]", h.modes)
	}
}

func TestSelectionBoundsRestoresModeOnEmptySelection(t *testing.T) {
	h := &stubHost{mode: ModeEdit}
	_, err := SelectionBounds(h)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("SelectionBounds() error = %v, want ErrInvalidInput", err)
	}
	if h.mode != ModeEdit {
		t.Errorf("mode after failure = %s, want EDIT", h.mode)
	}
}

func TestSelectionBoundsRestoresModeOnReadError(t *testing.T) {
	readErr := errors.New("mesh gone")
	h := &stubHost{mode: ModeEdit, readErr: readErr}
	_, err := SelectionBounds(h)
	if !errors.Is(err, readErr) {
		t.Fatalf("SelectionBounds() error = %v, want %v", err, readErr)
	}
	if h.mode != ModeEdit {
		t.Errorf("mode after failure = %s, want EDIT", h.mode)
	}
}

func TestSelectionBoundsRejectsNaN(t *testing.T) {
	h := &stubHost{points: []Point3D{{X: math.NaN()}, {X: 1, Y: 1, Z: 1}}, mode: ModeEdit}
	_, err := SelectionBounds(h)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("SelectionBounds() error = %v, want ErrInvalidInput", err)
	}
	if h.mode != ModeEdit {
		t.Errorf("mode after failure = %s, want EDIT", h.mode)
	}
}

func TestSelectionBoundsReportsRestoreFailure(t *testing.T) {
	restoreErr := errors.New("cannot re-enter edit mode")
	h := &stubHost{points: corners(), mode: ModeEdit, setErr: map[Mode]error{}}
	// Allow the switch to OBJECT, then fail on the way back.
	h.setErr[ModeEdit] = restoreErr
	_, err := SelectionBounds(h)
	if !errors.Is(err, restoreErr) {
		t.Fatalf("SelectionBounds() error = %v, want %v", err, restoreErr)
	}
}

// --- Operator ---

func TestOperatorDefaults(t *testing.T) {
	op := NewOperator()
	if got := op.Request(); got != (DimensionRequest{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Request() = %+v, want {1 1 1}", got)
	}
	for _, p := range []*ui.FloatProperty{op.NewX, op.NewY, op.NewZ} {
		if p.Min != 0 || p.Unit != ui.UnitLength {
			t.Errorf("property %s: min=%v unit=%v", p.Name, p.Min, p.Unit)
		}
	}
	if op.Options() != OptRegister|OptUndo {
		t.Errorf("Options() = %b", op.Options())
	}
}

func TestOperatorInvokeSeedsFromExtents(t *testing.T) {
	h := &stubHost{points: corners(), mode: ModeEdit}
	op := NewOperator()
	box, err := op.Invoke(h)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got := op.Request(); got != (DimensionRequest{X: 2, Y: 3, Z: 4}) {
		t.Errorf("Request() after Invoke = %+v, want {2 3 4}", got)
	}
	if box.MaxZ != 4 {
		t.Errorf("Invoke() box = %+v", box)
	}
	if len(h.scales) != 0 {
		t.Errorf("Invoke applied %d scales", len(h.scales))
	}
}

func TestOperatorExecute(t *testing.T) {
	h := &stubHost{points: corners(), mode: ModeEdit}
	op := NewOperator()
	if err := op.SetRequest(DimensionRequest{X: 4, Y: 3, Z: 8}); err != nil {
		t.Fatalf("SetRequest() error = %v", err)
	}
	f, err := op.Execute(h)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := ScaleFactors{X: 2, Y: 1, Z: 2}
	if f != want {
		t.Errorf("Execute() = %+v, want %+v", f, want)
	}
	if len(h.scales) != 1 || h.scales[0] != want {
		t.Errorf("scales applied = %v, want one call with %+v", h.scales, want)
	}
	if h.mode != ModeEdit {
		t.Errorf("mode after Execute = %s, want EDIT", h.mode)
	}
}

func TestOperatorExecuteFromObjectModeEndsInEdit(t *testing.T) {
	h := &stubHost{points: corners(), mode: ModeObject}
	op := NewOperator()
	if _, err := op.Execute(h); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if h.mode != ModeEdit {
		t.Errorf("mode after Execute = %s, want EDIT", h.mode)
	}
}

func TestOperatorExecuteEmptySelection(t *testing.T) {
	h := &stubHost{mode: ModeEdit}
	op := NewOperator()
	_, err := op.Execute(h)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Execute() error = %v, want ErrInvalidInput", err)
	}
	if len(h.scales) != 0 {
		t.Error("Execute applied a scale after failing")
	}
}

func TestOperatorSetRequestClampsNegative(t *testing.T) {
	op := NewOperator()
	if err := op.SetRequest(DimensionRequest{X: -3, Y: 2, Z: 0}); err != nil {
		t.Fatalf("SetRequest() error = %v", err)
	}
	if got := op.Request(); got != (DimensionRequest{X: 0, Y: 2, Z: 0}) {
		t.Errorf("Request() = %+v, want {0 2 0}", got)
	}
}

func TestOperatorDraw(t *testing.T) {
	op := NewOperator()
	_ = op.SetRequest(DimensionRequest{X: 2, Y: 3, Z: 4})

	l := ui.NewTextLayout(2, "m")
	op.Draw(l)
	out := l.String()
	for _, want := range []string{"New dimensions:", "X: 2.00 m", "Y: 3.00 m", "Z: 4.00 m"} {
		if !strings.Contains(out, want) {
			t.Errorf("Draw output missing %q:\n%s", want, out)
		}
	}

	var props ui.Props
	op.Draw(&props)
	if len(props.List) != 3 || props.List[0] != op.NewX || props.List[2] != op.NewZ {
		t.Errorf("drawn props = %v", props.List)
	}
}
