package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// errStopped is returned by builtins of an evaluation that was abandoned.
var errStopped = errors.New("evaluation stopped")

// evalResult passes evaluation results through channels.
type evalResult struct {
	result *Result
	errors []EvalError
	err    error
}

// claim is one evaluation's right to touch the scene. Builtins run while
// holding it, so once stop returns no builtin of that evaluation is
// running and none will run again.
type claim struct {
	mu      sync.Mutex
	stopped bool
}

// do runs fn unless the claim was stopped.
func (c *claim) do(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return errStopped
	}
	return fn()
}

// stop waits for a running builtin to finish and fails every later one.
// The interpreter unwinds at the next builtin call; a loop that makes no
// builtin calls keeps its goroutine but can no longer reach the scene.
func (c *claim) stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
}

// waitWithTimeout waits for a result from ch for at most timeout. On
// timeout the evaluation's claim is stopped before returning, so the
// caller owns the scene again. A result from an evaluation that a newer
// one superseded (gen no longer current) is discarded.
func waitWithTimeout(
	ch <-chan evalResult,
	c *claim,
	timeout time.Duration,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Result, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.result, res.errors, res.err

	case <-timer.C:
		c.stop()
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
	}
}
