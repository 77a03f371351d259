package checks

import "strings"

// Params shared by several checks. Their ids are part of the wire format.

func fieldParam() Param {
	return Param{
		ID:           "field",
		Type:         TypeSelect,
		Width:        100,
		DefaultValue: "output",
		Options: []Option{
			{Label: "Input", Value: "input"},
			{Label: "Output", Value: "output"},
		},
	}
}

func fieldParamAny() Param {
	p := fieldParam()
	p.DefaultValue = "any"
	p.Options = append(p.Options, Option{Label: "Any", Value: "any"})
	return p
}

func matchParam() Param {
	return Param{
		ID:           "type",
		Type:         TypeSelect,
		Width:        120,
		DefaultValue: "contains",
		Options: []Option{
			{Label: "Contains", Value: "contains"},
			{Label: "Does not contain", Value: "notcontains"},
		},
	}
}

func formatParam() Param {
	return Param{
		ID:           "type",
		Type:         TypeSelect,
		Width:        120,
		DefaultValue: "valid",
		Options: []Option{
			{Label: "Is valid", Value: "valid"},
			{Label: "Is invalid", Value: "invalid"},
			{Label: "Contains", Value: "contains"},
		},
	}
}

func operatorParam() Param {
	return Param{
		ID:           "operator",
		Type:         TypeSelect,
		Width:        60,
		DefaultValue: "gt",
		Options: []Option{
			{Label: ">", Value: "gt"},
			{Label: ">=", Value: "gte"},
			{Label: "<", Value: "lt"},
			{Label: "<=", Value: "lte"},
			{Label: "=", Value: "eq"},
			{Label: "!=", Value: "neq"},
		},
	}
}

func percentParam() Param {
	return Param{
		ID:           "percent",
		Type:         TypeNumber,
		Width:        60,
		DefaultValue: 80.0,
		Min:          float(0),
		Unit:         "%",
	}
}

func label(text string) Param {
	return Param{Type: TypeLabel, Label: text}
}

// staticResolver points every scope at the same options endpoint.
func staticResolver(path string) OptionsResolver {
	return func(string, string, Params) (string, bool) {
		return path, true
	}
}

// dependentResolver yields no locator until every required param has a value.
// "{id}" placeholders in path are replaced by the escaped value of that param.
func dependentResolver(path string, requires ...string) OptionsResolver {
	return func(_ string, _ string, prior Params) (string, bool) {
		locator := path
		for _, id := range requires {
			v, ok := prior[id]
			if !ok || v == nil {
				return "", false
			}
			s, ok := scalarString(v)
			if !ok || s == "" {
				return "", false
			}
			locator = strings.ReplaceAll(locator, "{"+id+"}", escape(s))
		}
		return locator, true
	}
}

func float(f float64) *float64 {
	return &f
}
