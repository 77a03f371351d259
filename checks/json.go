package checks

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The JSON form of a tree is the array shape used by the dashboard:
//
//	["AND", {"id": "tags", "params": {"tags": ["a"]}}, ["OR", ...]]

type predicateJSON struct {
	ID     string `json:"id"`
	Params Params `json:"params"`
}

// MarshalJSON encodes p as {"id": ..., "params": {...}}.
func (p *Predicate) MarshalJSON() ([]byte, error) {
	params := p.Params
	if params == nil {
		params = Params{}
	}
	return json.Marshal(predicateJSON{ID: p.CheckID, Params: params})
}

// UnmarshalJSON decodes {"id": ..., "params": {...}}.
func (p *Predicate) UnmarshalJSON(data []byte) error {
	var raw predicateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid predicate: %w", err)
	}
	if raw.ID == "" {
		return fmt.Errorf("invalid predicate: missing id")
	}
	p.CheckID = raw.ID
	p.Params = raw.Params
	return nil
}

// MarshalJSON encodes g as [operator, child...].
func (g Group) MarshalJSON() ([]byte, error) {
	op := g.Operator
	if op == "" {
		op = OperatorAnd
	}
	items := make([]any, 0, len(g.Children)+1)
	items = append(items, op)
	for _, child := range g.Children {
		switch c := child.(type) {
		case *Predicate:
			items = append(items, c)
		case *Group:
			items = append(items, *c)
		default:
			return nil, fmt.Errorf("unsupported node type %T", child)
		}
	}
	return json.Marshal(items)
}

// UnmarshalJSON decodes [operator, child...]. Objects become predicates and
// arrays become nested groups.
func (g *Group) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("logic must be an array: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("logic must start with an operator")
	}

	var op Operator
	if err := json.Unmarshal(items[0], &op); err != nil {
		return fmt.Errorf("invalid operator: %w", err)
	}
	if op != OperatorAnd && op != OperatorOr {
		return fmt.Errorf("unknown operator %q", op)
	}

	children := make([]Node, 0, len(items)-1)
	for i, item := range items[1:] {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 {
			continue
		}
		switch trimmed[0] {
		case '[':
			var nested Group
			if err := json.Unmarshal(trimmed, &nested); err != nil {
				return fmt.Errorf("child %d: %w", i+1, err)
			}
			children = append(children, &nested)
		case '{':
			var p Predicate
			if err := json.Unmarshal(trimmed, &p); err != nil {
				return fmt.Errorf("child %d: %w", i+1, err)
			}
			children = append(children, &p)
		default:
			return fmt.Errorf("child %d: expected object or array", i+1)
		}
	}

	g.Operator = op
	g.Children = children
	return nil
}
