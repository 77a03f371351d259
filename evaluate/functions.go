package evaluate

import (
	"encoding/json"
	"regexp"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

var objectPattern = regexp.MustCompile(`(?s)\{.*?\}`)

// jsonFunctions declares isJSON(string) and containsJSON(string).
func jsonFunctions() cel.EnvOption {
	return cel.Lib(jsonLib{})
}

type jsonLib struct{}

func (jsonLib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		cel.Function("isJSON",
			cel.Overload("isJSON_string", []*cel.Type{cel.StringType}, cel.BoolType,
				cel.UnaryBinding(stringPredicate(isJSON)),
			),
		),
		cel.Function("containsJSON",
			cel.Overload("containsJSON_string", []*cel.Type{cel.StringType}, cel.BoolType,
				cel.UnaryBinding(stringPredicate(containsJSON)),
			),
		),
	}
}

func (jsonLib) ProgramOptions() []cel.ProgramOption {
	return nil
}

func stringPredicate(fn func(string) bool) func(ref.Val) ref.Val {
	return func(v ref.Val) ref.Val {
		s, ok := v.(types.String)
		if !ok {
			return types.MaybeNoSuchOverloadErr(v)
		}
		return types.Bool(fn(string(s)))
	}
}

func isJSON(s string) bool {
	return json.Valid([]byte(s))
}

// containsJSON reports whether s embeds a valid JSON object.
func containsJSON(s string) bool {
	for _, match := range objectPattern.FindAllString(s, -1) {
		if isJSON(match) {
			return true
		}
	}
	return false
}
