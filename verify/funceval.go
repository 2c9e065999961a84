package verify

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FunctionEvaluator discharges the predicate language's "named function
// application" form (§3 "Predicates") against a registry of user-supplied
// pure expr-lang expressions, one per function name, compiled once and
// cached for reuse across obligations. This is an LRU-cached adaptation of
// the teacher's engine.ConditionCache / ExprConditionEvaluator
// (pkg/engine/condition_cache.go) from conditional-edge routing expressions
// to obligation predicate evaluation: the same compile-once/run-many shape,
// generalized to positional numeric arguments instead of a single "output"
// binding.
type FunctionEvaluator struct {
	mu       sync.Mutex
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	funcs    map[string]string // function name -> expr-lang source, e.g. "args[0] > args[1]"
}

type compiledFunc struct {
	name    string
	program *vm.Program
}

// NewFunctionEvaluator returns an evaluator with the given named function
// definitions and an LRU cache sized to the function count (at least 16).
func NewFunctionEvaluator(funcs map[string]string) *FunctionEvaluator {
	capacity := len(funcs)
	if capacity < 16 {
		capacity = 16
	}
	return &FunctionEvaluator{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
		funcs:    funcs,
	}
}

// Register adds or replaces a named function's expr-lang source.
func (e *FunctionEvaluator) Register(name, source string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.funcs == nil {
		e.funcs = make(map[string]string)
	}
	e.funcs[name] = source
	if el, ok := e.cache[name]; ok {
		e.lru.Remove(el)
		delete(e.cache, name)
	}
}

// Call evaluates the named function against positional float64 arguments,
// returning the boolean-as-float64 result (0 or 1) a predicate application
// is expected to produce.
func (e *FunctionEvaluator) Call(name string, args []float64) (float64, error) {
	program, err := e.compile(name)
	if err != nil {
		return 0, err
	}
	env := map[string]interface{}{"args": args}
	result, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("evaluating function %q: %w", name, err)
	}
	switch v := result.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("function %q returned unsupported type %T", name, result)
	}
}

func (e *FunctionEvaluator) compile(name string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if el, ok := e.cache[name]; ok {
		e.lru.MoveToFront(el)
		return el.Value.(*compiledFunc).program, nil
	}

	source, ok := e.funcs[name]
	if !ok {
		return nil, fmt.Errorf("no registered function %q", name)
	}
	program, err := expr.Compile(source, expr.Env(map[string]interface{}{"args": []float64{}}))
	if err != nil {
		return nil, fmt.Errorf("compiling function %q: %w", name, err)
	}

	el := e.lru.PushFront(&compiledFunc{name: name, program: program})
	e.cache[name] = el
	if e.lru.Len() > e.capacity {
		oldest := e.lru.Back()
		e.lru.Remove(oldest)
		delete(e.cache, oldest.Value.(*compiledFunc).name)
	}
	return program, nil
}
