package checks

import (
	"fmt"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// validateChecks rejects catalogs the codec could not round-trip: duplicate or
// malformed ids would make positional decoding ambiguous.
func validateChecks(checks []Check) error {
	if len(checks) == 0 {
		return fmt.Errorf("registry must contain at least one check")
	}

	seen := make(map[string]bool, len(checks))
	for _, c := range checks {
		if err := validateIdentifier(c.ID); err != nil {
			return fmt.Errorf("invalid check id %q: %w", c.ID, err)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate check id %q", c.ID)
		}
		seen[c.ID] = true

		if err := validateParams(c); err != nil {
			return fmt.Errorf("check %q: %w", c.ID, err)
		}
	}
	return nil
}

func validateParams(c Check) error {
	paramIDs := make(map[string]bool, len(c.Params))
	for i, p := range c.Params {
		switch p.Type {
		case TypeLabel:
			if p.Label == "" {
				return fmt.Errorf("label at position %d has no text", i)
			}
			continue
		case TypeSelect:
			if len(p.Options) == 0 && p.Resolver == nil {
				return fmt.Errorf("select param %q has neither options nor a resolver", p.ID)
			}
		case TypeText, TypeNumber, TypeDate:
		default:
			return fmt.Errorf("param at position %d has unknown type %q", i, p.Type)
		}

		if err := validateIdentifier(p.ID); err != nil {
			return fmt.Errorf("invalid param id %q: %w", p.ID, err)
		}
		if paramIDs[p.ID] {
			return fmt.Errorf("duplicate param id %q", p.ID)
		}
		paramIDs[p.ID] = true

		if p.Multiple && p.Type != TypeSelect {
			return fmt.Errorf("param %q: only select params can be multiple", p.ID)
		}
	}
	return nil
}

func validateIdentifier(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("identifier length %d exceeds maximum of 100 characters", len(name))
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("must match pattern %s", identifierPattern)
	}
	return nil
}
