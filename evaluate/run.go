package evaluate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// prepareRun copies the fields the generated expressions read into a record
// with fixed types, so that a missing field compares as empty instead of
// failing the evaluation.
//
// Input, output and error are reduced to text: a chat message contributes its
// content and a message list its last message.
func prepareRun(run map[string]any) map[string]any {
	metadata, _ := run["metadata"].(map[string]any)
	if metadata == nil {
		metadata = map[string]any{}
	}

	return map[string]any{
		"type":             stringField(run["type"]),
		"parentRunId":      stringField(run["parentRunId"]),
		"name":             stringField(run["name"]),
		"status":           stringField(run["status"]),
		"userId":           stringField(run["userId"]),
		"tags":             stringsField(run["tags"]),
		"metadata":         metadata,
		"input":            textOf(run["input"]),
		"output":           textOf(run["output"]),
		"error":            textOf(run["error"]),
		"createdAt":        timeField(run["createdAt"]),
		"duration":         numberField(run["duration"]),
		"cost":             numberField(run["cost"]),
		"promptTokens":     numberField(run["promptTokens"]),
		"completionTokens": numberField(run["completionTokens"]),
	}
}

func stringField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func stringsField(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			out = append(out, stringField(item))
		}
		return out
	}
	return []string{}
}

func numberField(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, _ := x.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(x, 64)
		return f
	}
	return 0
}

func timeField(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return t
		}
	case float64:
		return time.UnixMilli(int64(x))
	case int64:
		return time.UnixMilli(x)
	}
	return time.Unix(0, 0).UTC()
}

func isMessage(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	if role, _ := m["role"].(string); role == "" {
		return nil, false
	}
	return m, true
}

// textOf returns the text a check inspects for a run field.
func textOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []any:
		if len(x) > 0 {
			if _, ok := isMessage(x[0]); ok {
				last, _ := isMessage(x[len(x)-1])
				return stringField(last["content"])
			}
		}
	case map[string]any:
		if m, ok := isMessage(x); ok {
			return stringField(m["content"])
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
