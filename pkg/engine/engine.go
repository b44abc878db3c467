// Package engine provides the scripting console for meshdims.
// It wraps zygomys in a sandboxed environment whose builtins drive a
// scene: adding primitives, selecting vertices, switching modes and
// running the Set Dimensions operator.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/meshdims/pkg/dimensions"
	"github.com/chazu/meshdims/pkg/kernel"
	"github.com/chazu/meshdims/pkg/scene"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Call records one operator run made by a script.
type Call struct {
	Operator string
	Object   string
	Factors  dimensions.ScaleFactors
}

// Result is the outcome of a successful evaluation.
type Result struct {
	// Value is the printed form of the last expression.
	Value string
	Calls []Call
	// Active and Mode describe the scene after the script ran.
	Active string
	Mode   dimensions.Mode
}

// Engine wraps the zygomys interpreter for a single scene.
// Each call to Evaluate creates a fresh sandboxed environment; state
// carries over between calls only through the scene.
type Engine struct {
	// Timeout bounds each evaluation. Zero means EvalTimeout.
	Timeout time.Duration

	mu         sync.Mutex
	generation uint64
	current    *claim

	scene  *scene.Scene
	kernel kernel.Kernel
}

// NewEngine creates an engine operating on s, building primitives with k.
func NewEngine(s *scene.Scene, k kernel.Kernel) *Engine {
	return &Engine{scene: s, kernel: k}
}

// Scene returns the scene the engine operates on.
func (e *Engine) Scene() *scene.Scene {
	return e.scene
}

// Evaluate runs Lisp source code against the scene.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
//
// Builtins that change the scene record their own undo steps, so a script
// that fails part way keeps the steps that completed. When Evaluate
// returns, the scene is no longer touched by this evaluation or by any
// earlier one it superseded.
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	c := &claim{}
	e.mu.Lock()
	e.generation++
	gen := e.generation
	prev := e.current
	e.current = c
	timeout := e.Timeout
	e.mu.Unlock()

	if prev != nil {
		prev.stop()
	}
	if timeout <= 0 {
		timeout = EvalTimeout
	}

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source, c)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, c, timeout, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
// Every scene access goes through c.
func (e *Engine) evaluate(source string, c *claim) (*Result, []EvalError, error) {
	res := &Result{}
	if strings.TrimSpace(source) == "" {
		if err := c.do(func() error { e.describe(res); return nil }); err != nil {
			return nil, nil, err
		}
		return res, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, e, c, res)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}

	v, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}
	if v != nil && v != zygo.SexpNull {
		res.Value = v.SexpString(nil)
	}
	if err := c.do(func() error { e.describe(res); return nil }); err != nil {
		return nil, nil, err
	}
	return res, nil, nil
}

func (e *Engine) describe(res *Result) {
	if o := e.scene.Active(); o != nil {
		res.Active = o.Name
	}
	res.Mode = e.scene.Mode()
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
