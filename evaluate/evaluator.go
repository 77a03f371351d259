// Package evaluate decides whether a single run record satisfies a logic tree.
// Predicates are translated to a CEL expression, compiled once per distinct
// expression and evaluated against the record.
package evaluate

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
	"github.com/patrickmn/go-cache"

	"github.com/lunary-ai/checklogic/checks"
)

// ErrNotBoolean is returned when an expression does not produce a boolean.
var ErrNotBoolean = errors.New("expression did not evaluate to a boolean")

// Config controls program caching and evaluation limits.
type Config struct {
	// ProgramTTL is how long a compiled program stays cached.
	// Zero keeps programs until the evaluator is dropped.
	ProgramTTL time.Duration

	// CostLimit bounds the runtime cost of a single evaluation.
	CostLimit uint64
}

// DefaultConfig returns the defaults used by the server.
func DefaultConfig() Config {
	return Config{
		ProgramTTL: 10 * time.Minute,
		CostLimit:  1000000,
	}
}

// Plan is a compiled logic tree.
type Plan struct {
	Expression string
	Skipped    []string
	program    cel.Program
}

// Result is the outcome of evaluating a tree against one run.
type Result struct {
	Expression string   `json:"expression"`
	Passed     bool     `json:"passed"`
	Skipped    []string `json:"skipped,omitempty"`
}

// Evaluator compiles logic trees to CEL programs. It is safe for concurrent use.
type Evaluator struct {
	env      *cel.Env
	registry *checks.Registry
	programs *cache.Cache
	config   Config
}

// NewEvaluator creates an evaluator for the checks of reg.
func NewEvaluator(reg *checks.Registry, config Config) (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("run", cel.MapType(cel.StringType, cel.DynType)),
		ext.Strings(),
		jsonFunctions(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	if config.CostLimit == 0 {
		config.CostLimit = DefaultConfig().CostLimit
	}
	cleanup := config.ProgramTTL * 2
	if config.ProgramTTL <= 0 {
		cleanup = 0
	}

	return &Evaluator{
		env:      env,
		registry: reg,
		programs: cache.New(config.ProgramTTL, cleanup),
		config:   config,
	}, nil
}

// Compile translates g and compiles the resulting expression. Checks that
// cannot be evaluated in memory are listed in Plan.Skipped.
func (ev *Evaluator) Compile(g checks.Group) (*Plan, error) {
	expr, skipped := ev.translate(g)
	prog, err := ev.program(expr)
	if err != nil {
		return nil, err
	}
	return &Plan{Expression: expr, Skipped: skipped, program: prog}, nil
}

func (ev *Evaluator) program(expr string) (cel.Program, error) {
	if cached, ok := ev.programs.Get(expr); ok {
		return cached.(cel.Program), nil
	}

	ast, issues := ev.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prog, err := ev.env.Program(ast, cel.CostLimit(ev.config.CostLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}

	ev.programs.Set(expr, prog, cache.DefaultExpiration)
	return prog, nil
}

// Evaluate reports whether run satisfies g.
func (ev *Evaluator) Evaluate(g checks.Group, run map[string]any) (*Result, error) {
	plan, err := ev.Compile(g)
	if err != nil {
		return nil, err
	}
	return plan.Eval(run)
}

// EvaluateWire decodes wire with the evaluator's registry and evaluates it.
func (ev *Evaluator) EvaluateWire(wire string, run map[string]any) (*Result, error) {
	return ev.Evaluate(checks.Deserialize(ev.registry, wire), run)
}

// CachedPrograms returns the number of compiled programs currently cached.
func (ev *Evaluator) CachedPrograms() int {
	return ev.programs.ItemCount()
}

// Eval runs the plan against one record.
func (p *Plan) Eval(run map[string]any) (*Result, error) {
	out, _, err := p.program.Eval(map[string]any{"run": prepareRun(run)})
	if err != nil {
		return nil, fmt.Errorf("evaluation error: %w", err)
	}
	passed, ok := out.Value().(bool)
	if !ok {
		return nil, ErrNotBoolean
	}
	return &Result{Expression: p.Expression, Passed: passed, Skipped: p.Skipped}, nil
}
