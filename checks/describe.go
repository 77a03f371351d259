package checks

// CheckInfo is the serializable description of a check served to pickers.
type CheckInfo struct {
	ID                 string      `json:"id" yaml:"id"`
	Name               string      `json:"name" yaml:"name"`
	Description        string      `json:"description,omitempty" yaml:"description,omitempty"`
	Category           Category    `json:"uiType" yaml:"category"`
	Params             []ParamInfo `json:"params" yaml:"params"`
	EvalOnly           bool        `json:"onlyInEvals,omitempty" yaml:"evalOnly,omitempty"`
	ExcludedFromEvals  bool        `json:"disableInEvals,omitempty" yaml:"excludedFromEvals,omitempty"`
	UniquePerFilterSet bool        `json:"uniquePerFilterSet,omitempty" yaml:"uniquePerFilterSet,omitempty"`
	Soon               bool        `json:"soon,omitempty" yaml:"soon,omitempty"`
}

// ParamInfo describes one param. OptionsLocator is set for dynamic selects whose
// resolver produced a locator for the requested scope.
type ParamInfo struct {
	ID             string    `json:"id,omitempty" yaml:"id,omitempty"`
	Type           ParamType `json:"type" yaml:"type"`
	Label          string    `json:"label,omitempty" yaml:"label,omitempty"`
	Multiple       bool      `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Options        []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	OptionsLocator string    `json:"optionsLocator,omitempty" yaml:"optionsLocator,omitempty"`
	Dynamic        bool      `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	DefaultValue   any       `json:"defaultValue,omitempty" yaml:"default,omitempty"`
	Placeholder    string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Unit           string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	Width          int       `json:"width,omitempty" yaml:"width,omitempty"`
	Min            *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Step           *float64  `json:"step,omitempty" yaml:"step,omitempty"`
	Searchable     bool      `json:"searchable,omitempty" yaml:"searchable,omitempty"`
}

// Describe renders c for a scope. Resolvers see prior as the values already
// chosen for the check's other params and may return no locator.
func Describe(c Check, scopeID, contextType string, prior Params) CheckInfo {
	info := CheckInfo{
		ID:                 c.ID,
		Name:               c.Name,
		Description:        c.Description,
		Category:           c.Category,
		EvalOnly:           c.EvalOnly,
		ExcludedFromEvals:  c.ExcludedFromEvals,
		UniquePerFilterSet: c.UniquePerFilterSet,
		Soon:               c.Soon,
		Params:             make([]ParamInfo, 0, len(c.Params)),
	}
	for _, p := range c.Params {
		pi := ParamInfo{
			ID:           p.ID,
			Type:         p.Type,
			Label:        p.Label,
			Multiple:     p.Multiple,
			Options:      p.Options,
			Dynamic:      p.Resolver != nil,
			DefaultValue: p.DefaultValue,
			Placeholder:  p.Placeholder,
			Unit:         p.Unit,
			Width:        p.Width,
			Min:          p.Min,
			Step:         p.Step,
			Searchable:   p.Searchable,
		}
		if p.Resolver != nil {
			if locator, ok := p.Resolver(scopeID, contextType, prior); ok {
				pi.OptionsLocator = locator
			}
		}
		info.Params = append(info.Params, pi)
	}
	return info
}

// DescribeAll renders every check in list for a scope.
func DescribeAll(list []Check, scopeID, contextType string) []CheckInfo {
	out := make([]CheckInfo, 0, len(list))
	for _, c := range list {
		out = append(out, Describe(c, scopeID, contextType, nil))
	}
	return out
}
