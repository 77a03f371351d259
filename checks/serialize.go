package checks

import (
	"strings"
)

const (
	segmentSep = "&"
	idSep      = "="
	paramSep   = "."
	listSep    = ","

	// tagged form: ~checkID=paramID:token;paramID:token. Check ids never start
	// with the marker, so a segment is tagged exactly when it carries it.
	taggedMarker   = "~"
	taggedParamSep = ";"
	taggedIDSep    = ":"
)

// Codec converts logic trees to and from wire strings using one registry.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	registry *Registry
	tagged   bool
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithTaggedParams makes the serializer name every token by its parameter id
// instead of relying on the registry's parameter order. The deserializer reads
// both forms regardless of this option.
func WithTaggedParams() CodecOption {
	return func(c *Codec) { c.tagged = true }
}

// NewCodec returns a codec bound to reg.
func NewCodec(reg *Registry, opts ...CodecOption) *Codec {
	c := &Codec{registry: reg}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the codec was built with.
func (c *Codec) Registry() *Registry {
	return c.registry
}

// Serialize encodes g with the positional form. See (*Codec).Serialize.
func Serialize(reg *Registry, g Group) string {
	return NewCodec(reg).Serialize(g)
}

// Serialize encodes the direct predicate children of g. The root operator is
// not encoded and nested groups are dropped, so the result always reads back as
// a flat AND. A predicate that cannot be fully encoded contributes nothing.
func (c *Codec) Serialize(g Group) string {
	segments := make([]string, 0, len(g.Children))
	for _, child := range g.Children {
		p, ok := child.(*Predicate)
		if !ok {
			continue
		}
		if s := c.serializePredicate(p); s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, segmentSep)
}

func (c *Codec) serializePredicate(p *Predicate) string {
	if p == nil || p.Params == nil {
		return ""
	}
	if _, ok := c.registry.Lookup(p.CheckID); !ok {
		return ""
	}
	for _, v := range p.Params {
		if v == nil {
			return ""
		}
	}

	params := c.registry.NonLabelParams(p.CheckID)
	if len(params) == 0 {
		return ""
	}

	tokens := make([]string, len(params))
	for i, param := range params {
		token, ok := EncodeValue(param, p.Params[param.ID])
		if !ok {
			return ""
		}
		if c.tagged {
			token = param.ID + taggedIDSep + token
		}
		tokens[i] = token
	}

	if c.tagged {
		return taggedMarker + p.CheckID + idSep + strings.Join(tokens, taggedParamSep)
	}
	return p.CheckID + idSep + strings.Join(tokens, paramSep)
}
