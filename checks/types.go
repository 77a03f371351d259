// Package checks implements the check registry and the compact wire format used to
// carry a filter composition between the UI, URLs, saved views and the evaluator.
package checks

// ParamType identifies how a parameter value is edited and encoded.
type ParamType string

const (
	TypeSelect ParamType = "select"
	TypeText   ParamType = "text"
	TypeNumber ParamType = "number"
	TypeDate   ParamType = "date"

	// TypeLabel marks a display-only token. It has no value and no wire position.
	TypeLabel ParamType = "label"
)

// Category groups checks in the picker.
type Category string

const (
	CategoryBasic Category = "basic"
	CategorySmart Category = "smart"
	CategoryAI    Category = "ai"
)

// Operator joins the children of a Group.
type Operator string

const (
	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
)

// Option is a selectable value of a select parameter.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// OptionsResolver returns where the dynamic options of a parameter can be fetched
// from. ok is false when the parameter has no choices yet, for instance because a
// parameter it depends on is still empty.
type OptionsResolver func(scopeID, contextType string, prior Params) (locator string, ok bool)

// Param is one entry of a check's parameter list. Labels share the list with real
// parameters so the UI can render them in place.
type Param struct {
	ID           string
	Type         ParamType
	Label        string
	Multiple     bool
	Options      []Option
	Resolver     OptionsResolver
	DefaultValue any
	Placeholder  string
	Unit         string
	Width        int
	Min          *float64
	Step         *float64
	Searchable   bool
}

// IsLabel reports whether p is a display-only token.
func (p Param) IsLabel() bool {
	return p.Type == TypeLabel
}

// Check is a predicate kind. The order of its non-label params is part of the wire
// format and must not change without a migration of stored strings.
type Check struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Params      []Param

	EvalOnly           bool
	ExcludedFromEvals  bool
	UniquePerFilterSet bool
	Soon               bool
}

// Param returns the non-label parameter with the given id.
func (c Check) Param(id string) (Param, bool) {
	for _, p := range c.Params {
		if !p.IsLabel() && p.ID == id {
			return p, true
		}
	}
	return Param{}, false
}

// ResolveOptions returns the options locator of a dynamic parameter.
func (c Check) ResolveOptions(paramID, scopeID, contextType string, prior Params) (string, bool) {
	p, ok := c.Param(paramID)
	if !ok || p.Resolver == nil {
		return "", false
	}
	return p.Resolver(scopeID, contextType, prior)
}

// Params holds the values of a predicate keyed by parameter id.
type Params map[string]any

// Node is an element of a logic tree: either a *Predicate or a *Group.
type Node interface {
	isNode()
}

// Predicate is an atomic condition referencing a check by id.
type Predicate struct {
	CheckID string
	Params  Params
}

func (*Predicate) isNode() {}

// Group applies Operator to all of its direct children.
type Group struct {
	Operator Operator
	Children []Node
}

func (*Group) isNode() {}

// NewGroup builds a group from its children.
func NewGroup(op Operator, children ...Node) Group {
	return Group{Operator: op, Children: children}
}

// Predicates returns the direct predicate children of g in order.
func (g Group) Predicates() []*Predicate {
	var out []*Predicate
	for _, child := range g.Children {
		if p, ok := child.(*Predicate); ok {
			out = append(out, p)
		}
	}
	return out
}
