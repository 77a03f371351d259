package evaluate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lunary-ai/checklogic/checks"
)

var comparisons = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
	"eq":  "==",
	"neq": "!=",
}

// fragmentFunc renders one predicate. ok is false when the check or one of its
// values cannot be evaluated in memory.
type fragmentFunc func(v values) (expr string, ok bool)

var fragments = map[string]fragmentFunc{
	"type":     typeFragment,
	"models":   listFragment("run.name", "names"),
	"tags":     tagsFragment,
	"status":   equalFragment("run.status", "status"),
	"users":    listFragment("run.userId", "users"),
	"metadata": metadataFragment,
	"regex":    regexFragment,
	"json":     jsonFragment,
	"length":   lengthFragment,
	"date":     dateFragment,
	"duration": numberFragment("run.duration", "duration"),
	"cost":     numberFragment("run.cost", "cost"),
	"tokens":   tokensFragment,
	"search":   searchFragment,
	"string":   stringFragment,
}

// translate renders g as a CEL expression. AND groups drop children they cannot
// evaluate. An OR group with such a child is dropped whole. An empty group is
// true.
func (ev *Evaluator) translate(g checks.Group) (string, []string) {
	var skipped []string
	expr, ok := ev.translateGroup(g, &skipped)
	if !ok || expr == "" {
		return "true", skipped
	}
	return expr, skipped
}

func (ev *Evaluator) translateGroup(g checks.Group, skipped *[]string) (string, bool) {
	parts := make([]string, 0, len(g.Children))
	var dropped []string

	for _, child := range g.Children {
		var (
			expr string
			ok   bool
		)
		switch c := child.(type) {
		case *checks.Predicate:
			if c == nil {
				continue
			}
			expr, ok = ev.translatePredicate(c)
			if !ok {
				dropped = append(dropped, c.CheckID)
			}
		case *checks.Group:
			if c == nil {
				continue
			}
			var nested []string
			expr, ok = ev.translateGroup(*c, &nested)
			dropped = append(dropped, nested...)
		}
		if ok && expr != "" {
			parts = append(parts, expr)
		}
	}

	if g.Operator == checks.OperatorOr {
		if len(dropped) > 0 {
			*skipped = append(*skipped, predicateIDs(g)...)
			return "", false
		}
		*skipped = append(*skipped, dropped...)
		return join(parts, " || "), true
	}
	*skipped = append(*skipped, dropped...)
	return join(parts, " && "), true
}

func (ev *Evaluator) translatePredicate(p *checks.Predicate) (string, bool) {
	render, ok := fragments[p.CheckID]
	if !ok {
		return "", false
	}
	check, ok := ev.registry.Lookup(p.CheckID)
	if !ok {
		return "", false
	}
	v, ok := normalize(check, p.Params)
	if !ok {
		return "", false
	}
	return render(v)
}

func join(parts []string, sep string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func predicateIDs(g checks.Group) []string {
	var ids []string
	for _, child := range g.Children {
		switch c := child.(type) {
		case *checks.Predicate:
			if c != nil {
				ids = append(ids, c.CheckID)
			}
		case *checks.Group:
			if c != nil {
				ids = append(ids, predicateIDs(*c)...)
			}
		}
	}
	return ids
}

// lowerASCII matches the lowerAscii CEL string function.
func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// values holds the normalized params of one predicate.
type values map[string]any

func normalize(c checks.Check, params checks.Params) (values, bool) {
	out := make(values, len(params))
	for _, p := range c.Params {
		if p.IsLabel() {
			continue
		}
		raw, ok := params[p.ID]
		if !ok {
			return nil, false
		}
		v, ok := checks.NormalizeValue(p, raw)
		if !ok {
			return nil, false
		}
		out[p.ID] = v
	}
	return out, true
}

func (v values) str(id string) string {
	s, _ := v[id].(string)
	return s
}

func (v values) list(id string) []string {
	l, _ := v[id].([]string)
	return l
}

func (v values) number(id string) float64 {
	f, _ := v[id].(float64)
	return f
}

func quote(s string) string {
	return strconv.Quote(s)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = quote(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// double renders f as a CEL double literal.
func double(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func compare(lhs, operator, rhs string) (string, bool) {
	op, ok := comparisons[operator]
	if !ok {
		return "", false
	}
	return lhs + " " + op + " " + rhs, true
}

// textField maps a field param to the prepared text of the record.
func textField(field string) (string, bool) {
	switch field {
	case "input", "output", "error":
		return "run." + field, true
	}
	return "", false
}

func typeFragment(v values) (string, bool) {
	t := v.str("type")
	if t == "trace" {
		return `(run.type in ["agent", "chain"] && run.parentRunId == "")`, true
	}
	return "run.type == " + quote(t), true
}

func listFragment(field, id string) fragmentFunc {
	return func(v values) (string, bool) {
		return field + " in " + quoteList(v.list(id)), true
	}
}

func equalFragment(field, id string) fragmentFunc {
	return func(v values) (string, bool) {
		return field + " == " + quote(v.str(id)), true
	}
}

func numberFragment(field, id string) fragmentFunc {
	return func(v values) (string, bool) {
		return compare(field, v.str("operator"), double(v.number(id)))
	}
}

func tagsFragment(v values) (string, bool) {
	return "run.tags.exists(t, t in " + quoteList(v.list("tags")) + ")", true
}

func metadataFragment(v values) (string, bool) {
	key := quote(v.str("key"))
	return "(" + key + " in run.metadata && string(run.metadata[" + key + "]) == " + quote(v.str("value")) + ")", true
}

func regexFragment(v values) (string, bool) {
	field, ok := textField(v.str("field"))
	if !ok {
		return "", false
	}
	pattern := v.str("regex")
	if _, err := regexp.Compile(pattern); err != nil {
		return "", false
	}
	expr := field + ".matches(" + quote(pattern) + ")"
	switch v.str("type") {
	case "contains":
		return expr, true
	case "notcontains":
		return "!" + expr, true
	}
	return "", false
}

func jsonFragment(v values) (string, bool) {
	field, ok := textField(v.str("field"))
	if !ok {
		return "", false
	}
	switch v.str("type") {
	case "valid":
		return "isJSON(" + field + ")", true
	case "invalid":
		return "!isJSON(" + field + ")", true
	case "contains":
		return "containsJSON(" + field + ")", true
	}
	return "", false
}

func lengthFragment(v values) (string, bool) {
	field, ok := textField(v.str("field"))
	if !ok {
		return "", false
	}
	return compare("double(size("+field+"))", v.str("operator"), double(v.number("length")))
}

func dateFragment(v values) (string, bool) {
	t, ok := v["date"].(time.Time)
	if !ok {
		return "", false
	}
	return compare("run.createdAt", v.str("operator"), "timestamp("+quote(t.UTC().Format(time.RFC3339Nano))+")")
}

func tokensFragment(v values) (string, bool) {
	var field string
	switch v.str("field") {
	case "total":
		field = "(run.promptTokens + run.completionTokens)"
	case "prompt":
		field = "run.promptTokens"
	case "completion":
		field = "run.completionTokens"
	default:
		return "", false
	}
	return compare(field, v.str("operator"), double(v.number("tokens")))
}

func searchFragment(v values) (string, bool) {
	q := quote(lowerASCII(v.str("query")))
	return "(run.input.lowerAscii().contains(" + q + ") || run.output.lowerAscii().contains(" + q + ") || run.error.lowerAscii().contains(" + q + "))", true
}

func stringFragment(v values) (string, bool) {
	var field string
	switch v.str("fields") {
	case "input", "output":
		field = "run." + v.str("fields")
	case "any":
		field = `(run.input + " " + run.output)`
	default:
		return "", false
	}

	text := v.str("text")
	if v.str("sensitive") != "true" {
		field += ".lowerAscii()"
		text = lowerASCII(text)
	}
	arg := "(" + quote(text) + ")"

	switch v.str("type") {
	case "contains":
		return field + ".contains" + arg, true
	case "notcontains":
		return "!" + field + ".contains" + arg, true
	case "starts":
		return field + ".startsWith" + arg, true
	case "ends":
		return field + ".endsWith" + arg, true
	}
	return "", false
}
