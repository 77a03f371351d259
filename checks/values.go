package checks

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const upperhex = "0123456789ABCDEF"

// escape percent-encodes s the way encodeURIComponent does, then escapes '.',
// which separates parameter tokens on the wire.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '.' && isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

func unescape(s string) (string, bool) {
	v, err := url.PathUnescape(s)
	if err != nil {
		return "", false
	}
	return v, true
}

// EncodeValue turns a parameter value into its wire token. ok is false when the
// value cannot be represented, which makes the whole predicate unencodable.
func EncodeValue(p Param, v any) (token string, ok bool) {
	if v == nil {
		return "", false
	}
	switch p.Type {
	case TypeSelect:
		if p.Multiple {
			items, ok := stringList(v)
			if !ok || len(items) == 0 {
				return "", false
			}
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = escape(item)
			}
			return strings.Join(parts, listSep), true
		}
		s, ok := scalarString(v)
		if !ok {
			return "", false
		}
		return escape(s), true
	case TypeText:
		s, ok := scalarString(v)
		if !ok {
			return "", false
		}
		return escape(s), true
	case TypeNumber:
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return escape(strconv.FormatFloat(f, 'f', -1, 64)), true
	case TypeDate:
		t, ok := toTime(v)
		if !ok {
			return "", false
		}
		return escape(strconv.FormatInt(t.UnixMilli(), 10)), true
	default:
		return "", false
	}
}

// DecodeValue is the inverse of EncodeValue.
func DecodeValue(p Param, token string) (any, bool) {
	switch p.Type {
	case TypeSelect:
		if p.Multiple {
			parts := strings.Split(token, listSep)
			out := make([]string, len(parts))
			for i, part := range parts {
				s, ok := unescape(part)
				if !ok {
					return nil, false
				}
				out[i] = s
			}
			return out, true
		}
		return unescapeAny(token)
	case TypeText:
		return unescapeAny(token)
	case TypeNumber:
		s, ok := unescape(token)
		if !ok {
			return nil, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case TypeDate:
		s, ok := unescape(token)
		if !ok {
			return nil, false
		}
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false
		}
		return time.UnixMilli(ms).UTC(), true
	default:
		return nil, false
	}
}

// NormalizeValue converts v to the type DecodeValue yields for p: string for
// single selects and text, []string for multi selects, float64 for numbers and
// a UTC time.Time for dates.
func NormalizeValue(p Param, v any) (any, bool) {
	token, ok := EncodeValue(p, v)
	if !ok {
		return nil, false
	}
	return DecodeValue(p, token)
}

func unescapeAny(token string) (any, bool) {
	s, ok := unescape(token)
	if !ok {
		return nil, false
	}
	return s, true
}

// stringList accepts []string as well as the []any produced by encoding/json.
func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := scalarString(item)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case fmt.Stringer:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toTime accepts time values, RFC 3339 strings and epoch milliseconds.
func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case string:
		if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return t, true
		}
		ms, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(ms), true
	}
	if f, ok := toFloat(v); ok {
		return time.UnixMilli(int64(f)), true
	}
	return time.Time{}, false
}
