package checks

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// registryFile is the YAML layout accepted by LoadRegistryYAML:
//
//	checks:
//	  - id: tags
//	    name: Tags
//	    category: basic
//	    params:
//	      - type: label
//	        label: Has tags
//	      - id: tags
//	        type: select
//	        multiple: true
//	        optionsPath: /filters/tags
type registryFile struct {
	Checks []checkFile `yaml:"checks"`
}

type checkFile struct {
	ID                 string      `yaml:"id"`
	Name               string      `yaml:"name"`
	Description        string      `yaml:"description"`
	Category           Category    `yaml:"category"`
	EvalOnly           bool        `yaml:"evalOnly"`
	ExcludedFromEvals  bool        `yaml:"excludedFromEvals"`
	UniquePerFilterSet bool        `yaml:"uniquePerFilterSet"`
	Soon               bool        `yaml:"soon"`
	Params             []paramFile `yaml:"params"`
}

type paramFile struct {
	ID           string    `yaml:"id"`
	Type         ParamType `yaml:"type"`
	Label        string    `yaml:"label"`
	Multiple     bool      `yaml:"multiple"`
	Options      []Option  `yaml:"options"`
	OptionsPath  string    `yaml:"optionsPath"`
	Requires     []string  `yaml:"requires"`
	DefaultValue any       `yaml:"default"`
	Placeholder  string    `yaml:"placeholder"`
	Unit         string    `yaml:"unit"`
	Width        int       `yaml:"width"`
	Min          *float64  `yaml:"min"`
	Step         *float64  `yaml:"step"`
	Searchable   bool      `yaml:"searchable"`
}

// LoadRegistryYAML builds a registry from a YAML catalog. A param's optionsPath
// becomes a resolver; with requires set, the resolver yields nothing until those
// params have values and "{id}" in the path is substituted.
func LoadRegistryYAML(r io.Reader) (*Registry, error) {
	var file registryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}

	checks := make([]Check, 0, len(file.Checks))
	for _, cf := range file.Checks {
		c := Check{
			ID:                 cf.ID,
			Name:               cf.Name,
			Description:        cf.Description,
			Category:           cf.Category,
			EvalOnly:           cf.EvalOnly,
			ExcludedFromEvals:  cf.ExcludedFromEvals,
			UniquePerFilterSet: cf.UniquePerFilterSet,
			Soon:               cf.Soon,
		}
		if c.Category == "" {
			c.Category = CategoryBasic
		}
		for _, pf := range cf.Params {
			p := Param{
				ID:           pf.ID,
				Type:         pf.Type,
				Label:        pf.Label,
				Multiple:     pf.Multiple,
				Options:      pf.Options,
				DefaultValue: pf.DefaultValue,
				Placeholder:  pf.Placeholder,
				Unit:         pf.Unit,
				Width:        pf.Width,
				Min:          pf.Min,
				Step:         pf.Step,
				Searchable:   pf.Searchable,
			}
			if pf.OptionsPath != "" {
				if len(pf.Requires) > 0 {
					p.Resolver = dependentResolver(pf.OptionsPath, pf.Requires...)
				} else {
					p.Resolver = staticResolver(pf.OptionsPath)
				}
			}
			c.Params = append(c.Params, p)
		}
		checks = append(checks, c)
	}

	reg, err := NewRegistry(checks...)
	if err != nil {
		return nil, fmt.Errorf("invalid registry: %w", err)
	}
	return reg, nil
}
