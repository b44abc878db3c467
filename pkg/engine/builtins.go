package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/kernel"
	"github.com/chazu/meshdims/pkg/scene"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpFactors wraps the scale factors returned by set-dimensions.
type sexpFactors struct {
	f dimensions.ScaleFactors
}

func (s *sexpFactors) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(factors %g %g %g)", s.f.X, s.f.Y, s.f.Z)
}
func (s *sexpFactors) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// A keyword followed by another keyword, or at the end, is a flag.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			if _, next := isKW(args[i+1]); !next {
				result.kw[name] = args[i+1]
				i += 2
				continue
			}
		}
		result.kw[name] = zygo.SexpNull
		i++
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toAxis converts a keyword or string to an axis index 0, 1 or 2.
func toAxis(s zygo.Sexp) (int, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	switch name {
	case "x":
		return 0, nil
	case "y":
		return 1, nil
	case "z":
		return 2, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// numbers extracts exactly n positional numbers.
func numbers(fn string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s: expected %d numbers, got %d arguments", fn, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// toVec extracts a point from a three element array such as [1 0 2].
func toVec(s zygo.Sexp) (r3.Vec, error) {
	arr, ok := s.(*zygo.SexpArray)
	if !ok || len(arr.Val) != 3 {
		return r3.Vec{}, fmt.Errorf("expected [x y z], got %s", s.SexpString(nil))
	}
	var v [3]float64
	for i, a := range arr.Val {
		f, err := toFloat64(a)
		if err != nil {
			return r3.Vec{}, err
		}
		v[i] = f
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

// solidBounds returns the bounds of s, rejecting solids without volume:
// marching cubes would turn them into an empty mesh.
func solidBounds(s kernel.Solid) (dimensions.BoundingBox, error) {
	lo, hi := s.BoundingBox()
	b := dimensions.BoundingBox{
		MaxX: hi[0], MinX: lo[0],
		MaxY: hi[1], MinY: lo[1],
		MaxZ: hi[2], MinZ: lo[2],
	}
	ext := b.Extents()
	if !b.Valid() || ext.X <= 0 || ext.Y <= 0 || ext.Z <= 0 {
		return b, fmt.Errorf("solid has no volume (%g x %g x %g)", ext.X, ext.Y, ext.Z)
	}
	return b, nil
}

// uniqueName returns base, or base.001, base.002 ... if it is taken.
func uniqueName(s *scene.Scene, base string) string {
	if s.Object(base) == nil {
		return base
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s.%03d", base, n)
		if s.Object(name) == nil {
			return name
		}
	}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the console builtins into a zygomys environment.
// They operate on the engine's scene and append operator runs to res.
// Each builtin runs under c, so a stopped evaluation fails at its next
// builtin call instead of touching the scene.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the underscore names registered here.
func registerBuiltins(env *zygo.Zlisp, e *Engine, c *claim, res *Result) {
	s := e.scene

	add := func(name string, fn zygo.ZlispUserFunction) {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			out := zygo.Sexp(zygo.SexpNull)
			err := c.do(func() error {
				var err error
				out, err = fn(env, name, args)
				return err
			})
			if err != nil {
				return zygo.SexpNull, err
			}
			return out, nil
		})
	}

	// addPrimitive tessellates solid and adds it as the new active object.
	addPrimitive := func(fn, base string, pa kwArgs, build func() (kernel.Solid, error)) (zygo.Sexp, error) {
		name := uniqueName(s, base)
		if v, ok := pa.kw["name"]; ok {
			n, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
			}
			name = n
		}

		solid, err := build()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
		if v, ok := pa.kw["at"]; ok {
			at, err := toVec(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: at: %w", fn, err)
			}
			solid = e.kernel.Translate(solid, at.X, at.Y, at.Z)
		}
		if _, err := solidBounds(solid); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
		mesh, err := e.kernel.ToMesh(solid)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: tessellate: %w", fn, err)
		}
		mesh.PartName = name

		err = s.Undoable("Add "+base, func() error {
			if a := s.Active(); a != nil {
				if err := a.SetMode(dimensions.ModeObject); err != nil {
					return err
				}
			}
			return s.Add(scene.NewObject(name, mesh))
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
		return &zygo.SexpStr{S: name}, nil
	}

	// -----------------------------------------------------------------------
	// (box 2 1 1 :name "Plank" :at [0 0 1])
	// -----------------------------------------------------------------------
	add("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v, err := numbers("box", pa.positional, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return addPrimitive("box", "Cube", pa, func() (kernel.Solid, error) {
			return e.kernel.Box(v[0], v[1], v[2])
		})
	})

	// -----------------------------------------------------------------------
	// (cylinder height radius)
	// -----------------------------------------------------------------------
	add("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v, err := numbers("cylinder", pa.positional, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return addPrimitive("cylinder", "Cylinder", pa, func() (kernel.Solid, error) {
			return e.kernel.Cylinder(v[0], v[1])
		})
	})

	// -----------------------------------------------------------------------
	// (sphere radius)
	// -----------------------------------------------------------------------
	add("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v, err := numbers("sphere", pa.positional, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return addPrimitive("sphere", "Sphere", pa, func() (kernel.Solid, error) {
			return e.kernel.Sphere(v[0])
		})
	})

	// -----------------------------------------------------------------------
	// (activate "Cube")
	// -----------------------------------------------------------------------
	add("activate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("activate: expected object name")
		}
		obj, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("activate: %w", err)
		}
		if err := s.SetActive(obj); err != nil {
			return zygo.SexpNull, fmt.Errorf("activate: %w", err)
		}
		return &zygo.SexpStr{S: obj}, nil
	})

	// -----------------------------------------------------------------------
	// (select-all) (deselect-all)
	// -----------------------------------------------------------------------
	add("select_all", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.Undoable("Select All", s.SelectAll); err != nil {
			return zygo.SexpNull, fmt.Errorf("select-all: %w", err)
		}
		return zygo.SexpNull, nil
	})
	add("deselect_all", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.Undoable("Deselect All", s.DeselectAll); err != nil {
			return zygo.SexpNull, fmt.Errorf("deselect-all: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (select-box minx miny minz maxx maxy maxz) -> number newly selected
	// -----------------------------------------------------------------------
	add("select_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("select-box", args, 6)
		if err != nil {
			return zygo.SexpNull, err
		}
		var n int
		err = s.Undoable("Box Select", func() error {
			var err error
			n, err = s.SelectBox(r3.Vec{X: v[0], Y: v[1], Z: v[2]}, r3.Vec{X: v[3], Y: v[4], Z: v[5]})
			return err
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select-box: %w", err)
		}
		return &zygo.SexpInt{Val: int64(n)}, nil
	})

	// -----------------------------------------------------------------------
	// (edit-mode) (object-mode)
	// -----------------------------------------------------------------------
	setMode := func(fn string, m dimensions.Mode) {
		add(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if s.Mode() == m {
				return &zygo.SexpStr{S: string(m)}, nil
			}
			err := s.Undoable("Toggle Edit Mode", func() error { return s.SetMode(m) })
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", strings.ReplaceAll(fn, "_", "-"), err)
			}
			return &zygo.SexpStr{S: string(m)}, nil
		})
	}
	setMode("edit_mode", dimensions.ModeEdit)
	setMode("object_mode", dimensions.ModeObject)

	// -----------------------------------------------------------------------
	// (pivot :median|:bounds|:cursor) -> the pivot in effect
	// -----------------------------------------------------------------------
	add("pivot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return &zygo.SexpStr{S: string(s.Pivot)}, nil
		}
		kw, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pivot: %w", err)
		}
		p, err := scene.ParsePivot(kw)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pivot: %w", err)
		}
		s.Pivot = p
		return &zygo.SexpStr{S: string(p)}, nil
	})

	// -----------------------------------------------------------------------
	// (dimensions) -> (x y z)    (dimensions :x) -> x
	// -----------------------------------------------------------------------
	add("dimensions", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		box, err := dimensions.SelectionBounds(scene.Bindings{Scene: s})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dimensions: %w", err)
		}
		ext := box.Extents()
		vals := [3]float64{ext.X, ext.Y, ext.Z}
		if len(args) == 0 {
			return zygo.MakeList([]zygo.Sexp{
				&zygo.SexpFloat{Val: vals[0]},
				&zygo.SexpFloat{Val: vals[1]},
				&zygo.SexpFloat{Val: vals[2]},
			}), nil
		}
		axis, err := toAxis(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("dimensions: %w", err)
		}
		return &zygo.SexpFloat{Val: vals[axis]}, nil
	})

	// -----------------------------------------------------------------------
	// (set-dimensions 2 1 1)    (set-dimensions :x 2)
	// Axes left out keep their current size.
	// -----------------------------------------------------------------------
	add("set_dimensions", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		op := dimensions.NewOperator()
		if _, err := s.InvokeOperator(op); err != nil {
			return zygo.SexpNull, fmt.Errorf("set-dimensions: %w", err)
		}
		req := op.Request()
		axes := [3]*float64{&req.X, &req.Y, &req.Z}

		switch len(pa.positional) {
		case 0:
		case 3:
			for i, a := range pa.positional {
				f, err := toFloat64(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("set-dimensions: argument %d: %w", i+1, err)
				}
				*axes[i] = f
			}
		default:
			return zygo.SexpNull, fmt.Errorf("set-dimensions: expected 3 numbers or :x/:y/:z keywords, got %d arguments", len(pa.positional))
		}
		for i, k := range [...]string{"x", "y", "z"} {
			v, ok := pa.kw[k]
			if !ok {
				continue
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("set-dimensions: %s: %w", k, err)
			}
			*axes[i] = f
		}

		// Properties clamp negatives to zero; a script gets an error instead.
		if err := req.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("set-dimensions: %w", err)
		}
		if err := op.SetRequest(req); err != nil {
			return zygo.SexpNull, fmt.Errorf("set-dimensions: %w", err)
		}
		f, err := s.ExecuteOperator(op)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-dimensions: %w", err)
		}
		res.Calls = append(res.Calls, Call{
			Operator: dimensions.OperatorID,
			Object:   s.Active().Name,
			Factors:  f,
		})
		return &sexpFactors{f: f}, nil
	})

	// -----------------------------------------------------------------------
	// (undo) (redo) -> name of the step
	// -----------------------------------------------------------------------
	add("undo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		step, err := s.Undo()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("undo: %w", err)
		}
		return &zygo.SexpStr{S: step}, nil
	})
	add("redo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		step, err := s.Redo()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("redo: %w", err)
		}
		return &zygo.SexpStr{S: step}, nil
	})
}
