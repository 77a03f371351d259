package checks

import (
	"strings"
)

// Deserialize decodes a wire string with reg. See (*Codec).Deserialize.
func Deserialize(reg *Registry, wire string) Group {
	return NewCodec(reg).Deserialize(wire)
}

// Deserialize parses a wire string into a flat AND group. Segments naming an
// unknown check, carrying the wrong number of tokens, or holding a token that
// does not decode are dropped whole; malformed input never fails the call.
func (c *Codec) Deserialize(wire string) Group {
	g := Group{Operator: OperatorAnd}
	for _, segment := range strings.Split(wire, segmentSep) {
		if segment == "" {
			continue
		}
		if p, ok := c.deserializeSegment(segment); ok {
			g.Children = append(g.Children, p)
		}
	}
	return g
}

func (c *Codec) deserializeSegment(segment string) (*Predicate, bool) {
	checkID, blob, ok := strings.Cut(segment, idSep)
	if !ok {
		return nil, false
	}
	checkID, tagged := strings.CutPrefix(checkID, taggedMarker)
	if _, ok := c.registry.Lookup(checkID); !ok {
		return nil, false
	}
	params := c.registry.NonLabelParams(checkID)
	if len(params) == 0 {
		return nil, false
	}

	var values Params
	if tagged {
		values, ok = decodeTagged(params, blob)
	} else {
		values, ok = decodePositional(params, blob)
	}
	if !ok {
		return nil, false
	}
	return &Predicate{CheckID: checkID, Params: values}, true
}

func decodePositional(params []Param, blob string) (Params, bool) {
	tokens := strings.Split(blob, paramSep)
	if len(tokens) != len(params) {
		return nil, false
	}

	values := make(Params, len(params))
	for i, param := range params {
		v, ok := DecodeValue(param, tokens[i])
		if !ok {
			return nil, false
		}
		values[param.ID] = v
	}
	return values, true
}

// decodeTagged reads the blob of ~checkID=paramID:token;paramID:token. Every
// declared param must be present exactly once; order is free.
func decodeTagged(params []Param, blob string) (Params, bool) {
	byID := make(map[string]Param, len(params))
	for _, p := range params {
		byID[p.ID] = p
	}

	values := make(Params, len(params))
	for _, part := range strings.Split(blob, taggedParamSep) {
		id, token, ok := strings.Cut(part, taggedIDSep)
		if !ok {
			return nil, false
		}
		param, known := byID[id]
		if !known {
			return nil, false
		}
		if _, dup := values[id]; dup {
			return nil, false
		}
		v, ok := DecodeValue(param, token)
		if !ok {
			return nil, false
		}
		values[id] = v
	}

	if len(values) != len(params) {
		return nil, false
	}
	return values, true
}
