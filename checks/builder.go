package checks

// Upsert sets, replaces or removes the predicate for checkID among the direct
// children of a group. A nil params removes every matching predicate; otherwise
// the first match is replaced in place (later duplicates are dropped) or a new
// predicate is appended. Nested groups are left untouched and never searched.
// The input slice is not modified.
func Upsert(children []Node, checkID string, params Params) []Node {
	out := make([]Node, 0, len(children)+1)
	replaced := false

	for _, child := range children {
		p, ok := child.(*Predicate)
		if !ok || p.CheckID != checkID {
			out = append(out, child)
			continue
		}
		if params == nil || replaced {
			continue
		}
		out = append(out, &Predicate{CheckID: checkID, Params: params})
		replaced = true
	}

	if params != nil && !replaced {
		out = append(out, &Predicate{CheckID: checkID, Params: params})
	}
	return out
}

// Upsert applies Upsert to the direct children of g.
func (g *Group) Upsert(checkID string, params Params) {
	g.Children = Upsert(g.Children, checkID, params)
}

// Find returns the first direct predicate child with the given check id.
func (g Group) Find(checkID string) (*Predicate, bool) {
	for _, child := range g.Children {
		if p, ok := child.(*Predicate); ok && p.CheckID == checkID {
			return p, true
		}
	}
	return nil, false
}
