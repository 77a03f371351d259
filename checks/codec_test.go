package checks

import (
	"reflect"
	"testing"
	"time"
)

func pred(id string, params Params) *Predicate {
	return &Predicate{CheckID: id, Params: params}
}

func TestSerializeWireExample(t *testing.T) {
	reg := DefaultRegistry()
	tree := NewGroup(OperatorAnd,
		pred("type", Params{"type": "llm"}),
		pred("tags", Params{"tags": []string{"eng.team", "ops"}}),
		pred("cost", Params{"operator": "gte", "cost": 0.5}),
	)

	want := "type=llm&tags=eng%2Eteam,ops&cost=gte.0%2E5"
	if got := Serialize(reg, tree); got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestDeserializeWireExample(t *testing.T) {
	got := Deserialize(DefaultRegistry(), "type=llm&tags=eng%2Eteam,ops&cost=gte.0%2E5")

	want := NewGroup(OperatorAnd,
		pred("type", Params{"type": "llm"}),
		pred("tags", Params{"tags": []string{"eng.team", "ops"}}),
		pred("cost", Params{"operator": "gte", "cost": 0.5}),
	)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deserialize() = %#v, want %#v", got, want)
	}
}

// Flat trees of fully defined predicates survive a round trip unchanged.
func TestRoundTripFlatPredicates(t *testing.T) {
	reg := DefaultRegistry()
	children := []Node{
		pred("type", Params{"type": "trace"}),
		pred("models", Params{"names": []string{"gpt-4o", "claude 3.5"}}),
		pred("status", Params{"status": "error"}),
		pred("metadata", Params{"key": "env.name", "value": "prod & staging"}),
		pred("regex", Params{"field": "output", "type": "contains", "regex": `^[0-9]+\.[0-9]*$`}),
		pred("length", Params{"field": "input", "operator": "lt", "length": 250.0}),
		pred("date", Params{"operator": "gte", "date": time.UnixMilli(1700000000123).UTC()}),
		pred("duration", Params{"operator": "gt", "duration": 1.5}),
		pred("tokens", Params{"field": "total", "operator": "lte", "tokens": 4096.0}),
		pred("search", Params{"query": "hello, world: 50% off."}),
		pred("string", Params{"fields": "any", "type": "starts", "sensitive": "true", "text": "Dear"}),
		pred("pii", Params{"field": "input", "type": "notcontains", "entities": []string{"email", "ssn"}}),
		pred("similarity", Params{"percent": 75.0, "algorithm": "cosine"}),
	}

	for _, op := range []Operator{OperatorAnd, OperatorOr} {
		tree := NewGroup(op, children...)
		got := Deserialize(reg, Serialize(reg, tree))
		want := NewGroup(OperatorAnd, children...)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip with root %s:\n got %#v\nwant %#v", op, got, want)
		}
	}
}

func TestRootOperatorIsNotEncoded(t *testing.T) {
	reg := DefaultRegistry()
	d1 := pred("status", Params{"status": "success"})

	and := Serialize(reg, NewGroup(OperatorAnd, d1))
	or := Serialize(reg, NewGroup(OperatorOr, d1))
	if and != or {
		t.Fatalf("Serialize(AND) = %q, Serialize(OR) = %q, want identical", and, or)
	}

	got := Deserialize(reg, or)
	if got.Operator != OperatorAnd {
		t.Errorf("Deserialize() operator = %s, want AND", got.Operator)
	}
	if !reflect.DeepEqual(got, NewGroup(OperatorAnd, d1)) {
		t.Errorf("Deserialize() = %#v", got)
	}
}

func TestSerializeDropsNestedGroups(t *testing.T) {
	reg := DefaultRegistry()
	d1 := pred("type", Params{"type": "llm"})
	d2 := pred("status", Params{"status": "error"})
	d3 := pred("tags", Params{"tags": []string{"a"}})

	nested := NewGroup(OperatorOr, d2, d3)
	withNested := NewGroup(OperatorAnd, d1, &nested)

	if got, want := Serialize(reg, withNested), Serialize(reg, NewGroup(OperatorAnd, d1)); got != want {
		t.Errorf("Serialize(with nested) = %q, want %q", got, want)
	}
}

func TestTextWithPeriodRoundTrips(t *testing.T) {
	reg := DefaultRegistry()
	tree := NewGroup(OperatorAnd, pred("search", Params{"query": "a.b"}))

	wire := Serialize(reg, tree)
	if wire != "search=a%2Eb" {
		t.Fatalf("Serialize() = %q, want %q", wire, "search=a%2Eb")
	}

	p, ok := Deserialize(reg, wire).Find("search")
	if !ok {
		t.Fatal("search predicate missing after round trip")
	}
	if p.Params["query"] != "a.b" {
		t.Errorf("query = %q, want %q", p.Params["query"], "a.b")
	}
}

func TestSerializeOmitsUnencodablePredicates(t *testing.T) {
	reg := DefaultRegistry()
	keep := pred("type", Params{"type": "llm"})

	testCases := []struct {
		name string
		drop Node
	}{
		{"Empty multi select", pred("tags", Params{"tags": []string{}})},
		{"Missing param", pred("cost", Params{"operator": "gt"})},
		{"Nil value", pred("cost", Params{"operator": "gt", "cost": nil})},
		{"Nil value outside declared params", pred("status", Params{"status": "error", "extra": nil})},
		{"Unknown check", pred("doesNotExist", Params{"x": "y"})},
		{"Nil params", pred("status", nil)},
		{"Bad number", pred("cost", Params{"operator": "gt", "cost": "cheap"})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Serialize(reg, NewGroup(OperatorAnd, keep, tc.drop))
			if got != "type=llm" {
				t.Errorf("Serialize() = %q, want %q", got, "type=llm")
			}
		})
	}
}

func TestSerializeEmptyTree(t *testing.T) {
	if got := Serialize(DefaultRegistry(), NewGroup(OperatorAnd)); got != "" {
		t.Errorf("Serialize(empty) = %q, want empty string", got)
	}
}

func TestDeserializeDropsMalformedSegments(t *testing.T) {
	reg := DefaultRegistry()

	testCases := []struct {
		name string
		wire string
		want Group
	}{
		{"Unknown check", "doesNotExist=foo", NewGroup(OperatorAnd)},
		{"Empty string", "", NewGroup(OperatorAnd)},
		{"Empty segments", "&&status=error&", NewGroup(OperatorAnd, pred("status", Params{"status": "error"}))},
		{"Too few tokens", "cost=gte", NewGroup(OperatorAnd)},
		{"Too many tokens", "status=error.extra", NewGroup(OperatorAnd)},
		{"Missing equals", "status", NewGroup(OperatorAnd)},
		{"Bad number", "cost=gte.abc", NewGroup(OperatorAnd)},
		{"Bad escape", "search=%E0%A4%A", NewGroup(OperatorAnd)},
		{
			"Bad segment among good ones",
			"type=llm&cost=gte&status=error",
			NewGroup(OperatorAnd, pred("type", Params{"type": "llm"}), pred("status", Params{"status": "error"})),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Deserialize(reg, tc.wire)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Deserialize(%q) = %#v, want %#v", tc.wire, got, tc.want)
			}
		})
	}
}

func TestDeserializeSplitsOnFirstEquals(t *testing.T) {
	got := Deserialize(DefaultRegistry(), "search=a=b")
	p, ok := got.Find("search")
	if !ok {
		t.Fatal("search predicate missing")
	}
	if p.Params["query"] != "a=b" {
		t.Errorf("query = %q, want %q", p.Params["query"], "a=b")
	}
}

func TestDeserializeRawColonIsPositional(t *testing.T) {
	reg := DefaultRegistry()
	testCases := []struct {
		wire string
		want Group
	}{
		{"search=a:b", NewGroup(OperatorAnd, pred("search", Params{"query": "a:b"}))},
		{"search=query:42", NewGroup(OperatorAnd, pred("search", Params{"query": "query:42"}))},
		{"metadata=env.region:eu", NewGroup(OperatorAnd, pred("metadata", Params{"key": "env", "value": "region:eu"}))},
		{"~search=a:b", NewGroup(OperatorAnd)},
	}

	for _, tc := range testCases {
		t.Run(tc.wire, func(t *testing.T) {
			if got := Deserialize(reg, tc.wire); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Deserialize(%q) = %#v, want %#v", tc.wire, got, tc.want)
			}
		})
	}
}

func TestTaggedParamsRoundTrip(t *testing.T) {
	reg := DefaultRegistry()
	codec := NewCodec(reg, WithTaggedParams())
	tree := NewGroup(OperatorAnd,
		pred("cost", Params{"operator": "gte", "cost": 0.5}),
		pred("tags", Params{"tags": []string{"eng.team", "ops"}}),
	)

	wire := codec.Serialize(tree)
	want := "~cost=operator:gte;cost:0%2E5&~tags=tags:eng%2Eteam,ops"
	if wire != want {
		t.Fatalf("Serialize() = %q, want %q", wire, want)
	}

	// Positional codecs read the tagged form too.
	if got := Deserialize(reg, wire); !reflect.DeepEqual(got, tree) {
		t.Errorf("Deserialize() = %#v, want %#v", got, tree)
	}
}

func TestTaggedParamsAnyOrder(t *testing.T) {
	got := Deserialize(DefaultRegistry(), "~cost=cost:1;operator:lt")
	want := NewGroup(OperatorAnd, pred("cost", Params{"operator": "lt", "cost": 1.0}))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deserialize() = %#v, want %#v", got, want)
	}
}

func TestTaggedParamsMalformed(t *testing.T) {
	reg := DefaultRegistry()
	for _, wire := range []string{
		"~cost=operator:gte",               // missing param
		"~cost=operator:gte;cost:1;cost:2", // duplicate
		"~cost=operator:gte;price:1",       // unknown param id
		"~cost=operator:gte;1",             // untagged part
		"~cost=operator:gte;cost:not-a-number",
	} {
		if got := Deserialize(reg, wire); len(got.Children) != 0 {
			t.Errorf("Deserialize(%q) = %#v, want empty AND", wire, got)
		}
	}
}

func TestCodecWithFixtureRegistry(t *testing.T) {
	reg := MustNewRegistry(
		Check{ID: "pair", Params: []Param{
			{ID: "left", Type: TypeText},
			label("and"),
			{ID: "right", Type: TypeText},
		}},
	)

	wire := Serialize(reg, NewGroup(OperatorAnd, pred("pair", Params{"left": "x", "right": "y"})))
	if wire != "pair=x.y" {
		t.Fatalf("Serialize() = %q, want %q", wire, "pair=x.y")
	}

	// The default catalog's checks are unknown to the fixture registry.
	got := Deserialize(reg, wire+"&type=llm&pair=only-one")
	if len(got.Children) != 1 {
		t.Fatalf("Deserialize() kept %d predicates, want 1", len(got.Children))
	}
}

func TestSerializeIsStableUnderConcurrency(t *testing.T) {
	reg := DefaultRegistry()
	tree := NewGroup(OperatorAnd, pred("tags", Params{"tags": []string{"a", "b"}}))
	want := Serialize(reg, tree)

	done := make(chan string, 16)
	for i := 0; i < cap(done); i++ {
		go func() {
			done <- Serialize(reg, Deserialize(reg, want))
		}()
	}
	for i := 0; i < cap(done); i++ {
		if got := <-done; got != want {
			t.Errorf("concurrent round trip = %q, want %q", got, want)
		}
	}
}
