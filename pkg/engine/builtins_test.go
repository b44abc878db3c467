package engine

import (
	"testing"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/meshdims/pkg/scene"
)

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(pivot :cursor)`,
			expect: `(pivot "__kw_cursor")`,
		},
		{
			name:   "keyword arguments",
			input:  `(set-dimensions :x 2 :z 0.5)`,
			expect: `(set_dimensions "__kw_x" 2 "__kw_z" 0.5)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "placement keyword before array",
			input:  `(box 1 1 1 :at [0 0 2])`,
			expect: `(box 1 1 1 "__kw_at" [0 0 2])`,
		},
		{
			name:   "mode builtins",
			input:  `(edit-mode) (object-mode) (deselect-all)`,
			expect: `(edit_mode) (object_mode) (deselect_all)`,
		},
		{
			name:   "exponent minus preserved",
			input:  `(set-dimensions 1e-3 2 2)`,
			expect: `(set_dimensions 1e-3 2 2)`,
		},
		{
			name:   "escaped quote in string",
			input:  `(activate "a\"b-c") (select-all)`,
			expect: `(activate "a\"b-c") (select_all)`,
		},
		{
			name:   "unterminated string copied",
			input:  `(activate "open-end`,
			expect: `(activate "open-end`,
		},
		{
			name:   "trailing comment without newline",
			input:  "(dimensions :x) ; width",
			expect: `(dimensions "__kw_x") // width`,
		},
		{
			name:   "kebab-case builtin",
			input:  `(select-box 0 0 0 1 1 1)`,
			expect: `(select_box 0 0 0 1 1 1)`,
		},
		{
			name:   "negative number preserved",
			input:  `(box 1 -2 3)`,
			expect: `(box 1 -2 3)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; resize the plank :x`,
			expect: `// resize the plank :x`,
		},
		{
			name:   "hyphen in string preserved",
			input:  `(activate "left-leg")`,
			expect: `(activate "left-leg")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	kw := func(name string) zygo.Sexp { return &zygo.SexpStr{S: kwPrefix + name} }
	num := func(v int64) zygo.Sexp { return &zygo.SexpInt{Val: v} }

	pa := parseArgs([]zygo.Sexp{num(1), kw("x"), num(2), kw("flag"), kw("y"), num(3), kw("last")})
	if len(pa.positional) != 1 {
		t.Errorf("positional = %d, want 1", len(pa.positional))
	}
	for name, want := range map[string]float64{"x": 2, "y": 3} {
		f, err := toFloat64(pa.kw[name])
		if err != nil || f != want {
			t.Errorf("kw[%s] = %v, %v; want %g", name, f, err, want)
		}
	}
	for _, flag := range []string{"flag", "last"} {
		if pa.kw[flag] != zygo.SexpNull {
			t.Errorf("kw[%s] = %v, want null flag", flag, pa.kw[flag])
		}
	}
}

func TestToAxis(t *testing.T) {
	for i, name := range []string{"x", "y", "z"} {
		got, err := toAxis(&zygo.SexpStr{S: kwPrefix + name})
		if err != nil || got != i {
			t.Errorf("toAxis(:%s) = %d, %v", name, got, err)
		}
	}
	if _, err := toAxis(&zygo.SexpStr{S: "w"}); err == nil {
		t.Error("toAxis(w) succeeded")
	}
	if _, err := toAxis(&zygo.SexpInt{Val: 1}); err == nil {
		t.Error("toAxis(1) succeeded")
	}
}

func TestUniqueName(t *testing.T) {
	s := scene.New()
	if got := uniqueName(s, "Cube"); got != "Cube" {
		t.Errorf("uniqueName() on empty scene = %q", got)
	}
	for _, name := range []string{"Cube", "Cube.001"} {
		m, _ := stubKernel{}.ToMesh(stubSolid{})
		if err := s.Add(scene.NewObject(name, m)); err != nil {
			t.Fatal(err)
		}
	}
	if got := uniqueName(s, "Cube"); got != "Cube.002" {
		t.Errorf("uniqueName() = %q, want Cube.002", got)
	}
}
