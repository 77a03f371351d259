package evaluate

import (
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lunary-ai/checklogic/checks"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	ev, err := NewEvaluator(checks.DefaultRegistry(), DefaultConfig())
	if err != nil {
		t.Fatalf("NewEvaluator() failed: %v", err)
	}
	return ev
}

func pred(id string, params checks.Params) *checks.Predicate {
	return &checks.Predicate{CheckID: id, Params: params}
}

func sampleRun() map[string]any {
	return map[string]any{
		"type":   "llm",
		"name":   "gpt-4o",
		"status": "success",
		"userId": "user-1",
		"tags":   []any{"eng.team", "beta"},
		"metadata": map[string]any{
			"env": "prod",
		},
		"input": []any{
			map[string]any{"role": "system", "content": "You are helpful"},
			map[string]any{"role": "user", "content": "Say hello in JSON"},
		},
		"output":           map[string]any{"role": "assistant", "content": `Sure: {"hello": "world"}`},
		"createdAt":        "2023-11-14T22:13:20Z",
		"duration":         2.5,
		"cost":             0.75,
		"promptTokens":     120.0,
		"completionTokens": 30.0,
	}
}

func TestEvaluateChecks(t *testing.T) {
	ev := newTestEvaluator(t)

	testCases := []struct {
		name string
		node checks.Node
		want bool
	}{
		{"Type matches", pred("type", checks.Params{"type": "llm"}), true},
		{"Type differs", pred("type", checks.Params{"type": "tool"}), false},
		{"Model in list", pred("models", checks.Params{"names": []string{"gpt-4o", "claude"}}), true},
		{"Tags overlap", pred("tags", checks.Params{"tags": []string{"beta"}}), true},
		{"Tags disjoint", pred("tags", checks.Params{"tags": []string{"ops"}}), false},
		{"Status", pred("status", checks.Params{"status": "error"}), false},
		{"Users", pred("users", checks.Params{"users": []string{"user-1"}}), true},
		{"Metadata match", pred("metadata", checks.Params{"key": "env", "value": "prod"}), true},
		{"Metadata missing key", pred("metadata", checks.Params{"key": "region", "value": "eu"}), false},
		{"Regex on last message", pred("regex", checks.Params{"field": "input", "type": "contains", "regex": "^Say"}), true},
		{"Regex not contains", pred("regex", checks.Params{"field": "output", "type": "notcontains", "regex": "hello"}), false},
		{"JSON contains", pred("json", checks.Params{"field": "output", "type": "contains"}), true},
		{"JSON valid", pred("json", checks.Params{"field": "output", "type": "valid"}), false},
		{"JSON invalid", pred("json", checks.Params{"field": "output", "type": "invalid"}), true},
		{"Length", pred("length", checks.Params{"field": "input", "operator": "lt", "length": 100}), true},
		{"Date after", pred("date", checks.Params{"operator": "gte", "date": time.UnixMilli(1700000000000)}), true},
		{"Date before", pred("date", checks.Params{"operator": "lt", "date": time.UnixMilli(1600000000000)}), false},
		{"Duration", pred("duration", checks.Params{"operator": "gt", "duration": 2}), true},
		{"Cost", pred("cost", checks.Params{"operator": "lte", "cost": 0.5}), false},
		{"Total tokens", pred("tokens", checks.Params{"field": "total", "operator": "eq", "tokens": 150}), true},
		{"Prompt tokens", pred("tokens", checks.Params{"field": "prompt", "operator": "gt", "tokens": 200}), false},
		{"Search is case insensitive", pred("search", checks.Params{"query": "HELLO"}), true},
		{"String starts with", pred("string", checks.Params{"fields": "output", "type": "starts", "sensitive": "false", "text": "SURE"}), true},
		{"String case sensitive", pred("string", checks.Params{"fields": "output", "type": "contains", "sensitive": "true", "text": "SURE"}), false},
		{"String any field not contains", pred("string", checks.Params{"fields": "any", "type": "notcontains", "sensitive": "false", "text": "goodbye"}), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ev.Evaluate(checks.NewGroup(checks.OperatorAnd, tc.node), sampleRun())
			if err != nil {
				t.Fatalf("Evaluate() failed: %v", err)
			}
			if result.Passed != tc.want {
				t.Errorf("Evaluate() passed = %v, want %v (expression %s)", result.Passed, tc.want, result.Expression)
			}
			if len(result.Skipped) != 0 {
				t.Errorf("Skipped = %v, want none", result.Skipped)
			}
		})
	}
}

func TestEvaluateGroups(t *testing.T) {
	ev := newTestEvaluator(t)
	llm := pred("type", checks.Params{"type": "llm"})
	failed := pred("status", checks.Params{"status": "error"})
	pii := pred("pii", checks.Params{"field": "input", "type": "contains", "entities": []string{"email"}})

	testCases := []struct {
		name        string
		group       checks.Group
		wantPassed  bool
		wantSkipped []string
		wantExpr    string
	}{
		{
			name:       "Empty group",
			group:      checks.NewGroup(checks.OperatorAnd),
			wantPassed: true,
			wantExpr:   "true",
		},
		{
			name:       "AND",
			group:      checks.NewGroup(checks.OperatorAnd, llm, failed),
			wantPassed: false,
		},
		{
			name:       "OR",
			group:      checks.NewGroup(checks.OperatorOr, llm, failed),
			wantPassed: true,
		},
		{
			name:        "AND skips unsupported child",
			group:       checks.NewGroup(checks.OperatorAnd, llm, pii),
			wantPassed:  true,
			wantSkipped: []string{"pii"},
			wantExpr:    `run.type == "llm"`,
		},
		{
			name:        "OR with unsupported child is dropped",
			group:       checks.NewGroup(checks.OperatorAnd, failed, &checks.Group{Operator: checks.OperatorOr, Children: []checks.Node{llm, pii}}),
			wantPassed:  false,
			wantSkipped: []string{"type", "pii"},
			wantExpr:    `run.status == "error"`,
		},
		{
			name:       "Nil children are ignored",
			group:      checks.NewGroup(checks.OperatorAnd, llm, (*checks.Predicate)(nil), (*checks.Group)(nil)),
			wantPassed: true,
			wantExpr:   `run.type == "llm"`,
		},
		{
			name:       "Nil child in OR",
			group:      checks.NewGroup(checks.OperatorOr, (*checks.Predicate)(nil), failed),
			wantPassed: false,
			wantExpr:   `run.status == "error"`,
		},
		{
			name:        "Unknown check",
			group:       checks.NewGroup(checks.OperatorAnd, pred("doesNotExist", checks.Params{})),
			wantPassed:  true,
			wantSkipped: []string{"doesNotExist"},
			wantExpr:    "true",
		},
		{
			name:        "Missing param",
			group:       checks.NewGroup(checks.OperatorAnd, pred("cost", checks.Params{"operator": "gt"})),
			wantPassed:  true,
			wantSkipped: []string{"cost"},
			wantExpr:    "true",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ev.Evaluate(tc.group, sampleRun())
			if err != nil {
				t.Fatalf("Evaluate() failed: %v", err)
			}
			if result.Passed != tc.wantPassed {
				t.Errorf("Passed = %v, want %v (expression %s)", result.Passed, tc.wantPassed, result.Expression)
			}
			if !reflect.DeepEqual(result.Skipped, tc.wantSkipped) {
				t.Errorf("Skipped = %v, want %v", result.Skipped, tc.wantSkipped)
			}
			if tc.wantExpr != "" && result.Expression != tc.wantExpr {
				t.Errorf("Expression = %s, want %s", result.Expression, tc.wantExpr)
			}
		})
	}
}

func TestEvaluateWire(t *testing.T) {
	ev := newTestEvaluator(t)

	result, err := ev.EvaluateWire("type=llm&tags=eng%2Eteam,ops&cost=gte.0%2E5", sampleRun())
	if err != nil {
		t.Fatalf("EvaluateWire() failed: %v", err)
	}
	if !result.Passed {
		t.Errorf("EvaluateWire() passed = false, expression %s", result.Expression)
	}

	result, err = ev.EvaluateWire("cost=gte.1", sampleRun())
	if err != nil {
		t.Fatalf("EvaluateWire() failed: %v", err)
	}
	if result.Passed {
		t.Error("cost >= 1 should not pass")
	}
}

func TestEvaluateEmptyRun(t *testing.T) {
	ev := newTestEvaluator(t)
	g := checks.NewGroup(checks.OperatorAnd,
		pred("metadata", checks.Params{"key": "env", "value": "prod"}),
		pred("tokens", checks.Params{"field": "total", "operator": "gt", "tokens": 0}),
		pred("search", checks.Params{"query": "x"}),
	)

	result, err := ev.Evaluate(g, map[string]any{})
	if err != nil {
		t.Fatalf("Evaluate() on an empty run failed: %v", err)
	}
	if result.Passed {
		t.Error("empty run should not pass")
	}
}

func TestProgramsAreCached(t *testing.T) {
	ev := newTestEvaluator(t)
	g := checks.NewGroup(checks.OperatorAnd, pred("status", checks.Params{"status": "success"}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ev.Evaluate(g, sampleRun()); err != nil {
				t.Errorf("Evaluate() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := ev.CachedPrograms(); got != 1 {
		t.Errorf("CachedPrograms() = %d, want 1", got)
	}
}

func TestQuotingIsSafe(t *testing.T) {
	ev := newTestEvaluator(t)
	g := checks.NewGroup(checks.OperatorAnd,
		pred("string", checks.Params{"fields": "input", "type": "contains", "sensitive": "true", "text": `") || true || ("`}),
	)

	result, err := ev.Evaluate(g, sampleRun())
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if result.Passed {
		t.Errorf("injected text changed the expression: %s", result.Expression)
	}
}

func TestInvalidRegexIsSkipped(t *testing.T) {
	ev := newTestEvaluator(t)
	g := checks.NewGroup(checks.OperatorAnd,
		pred("regex", checks.Params{"field": "output", "type": "contains", "regex": "(unclosed"}),
	)

	plan, err := ev.Compile(g)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if plan.Expression != "true" || !strings.Contains(strings.Join(plan.Skipped, ","), "regex") {
		t.Errorf("plan = %+v, want regex skipped", plan)
	}
}

func TestTextOf(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want string
	}{
		{"Nil", nil, ""},
		{"String", "hi", "hi"},
		{"Message", map[string]any{"role": "user", "content": "hey"}, "hey"},
		{"Message list", []any{map[string]any{"role": "user", "content": "a"}, map[string]any{"role": "assistant", "content": "b"}}, "b"},
		{"Other object", map[string]any{"k": 1}, `{"k":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textOf(tc.in); got != tc.want {
				t.Errorf("textOf() = %q, want %q", got, tc.want)
			}
		})
	}
}
