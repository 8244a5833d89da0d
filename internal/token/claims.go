package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Recognized claim names.
const (
	ClaimName     = "name"
	ClaimEmail    = "email"
	ClaimPicture  = "picture"
	ClaimIssuedAt = "iat"
	ClaimExpiry   = "exp"
)

// Kind classifies a raw claim value by its JSON type.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// Claims is the decoded token payload. Keys keep the order in which the
// issuer serialized them.
type Claims struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewClaims returns an empty claim set.
func NewClaims() *Claims {
	return &Claims{values: make(map[string]json.RawMessage)}
}

// Set stores the raw value for key. A key seen before keeps its original
// position and takes the new value.
func (c *Claims) Set(key string, raw json.RawMessage) {
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = append(json.RawMessage(nil), raw...)
}

// Keys returns claim names in payload order.
func (c *Claims) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Len returns the number of claims.
func (c *Claims) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Has reports whether the claim is present.
func (c *Claims) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.values[key]
	return ok
}

// Raw returns the JSON text of a claim.
func (c *Claims) Raw(key string) (json.RawMessage, bool) {
	if c == nil {
		return nil, false
	}
	raw, ok := c.values[key]
	return raw, ok
}

// Kind returns the JSON type of a claim.
func (c *Claims) Kind(key string) (Kind, bool) {
	raw, ok := c.Raw(key)
	if !ok {
		return KindNull, false
	}
	return kindOf(raw), true
}

// String returns a string claim. Non-string claims report false.
func (c *Claims) String(key string) (string, bool) {
	raw, ok := c.Raw(key)
	if !ok || kindOf(raw) != KindString {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Number returns a numeric claim exactly as issued.
func (c *Claims) Number(key string) (json.Number, bool) {
	raw, ok := c.Raw(key)
	if !ok || kindOf(raw) != KindNumber {
		return "", false
	}
	return json.Number(bytes.TrimSpace(raw)), true
}

// Truthy mirrors how the viewer treats optional display claims: empty
// strings, zero, false and null count as absent.
func (c *Claims) Truthy(key string) bool {
	raw, ok := c.Raw(key)
	if !ok {
		return false
	}
	switch kindOf(raw) {
	case KindNull:
		return false
	case KindString:
		s, _ := c.String(key)
		return s != ""
	case KindNumber:
		n, _ := c.Number(key)
		f, err := n.Float64()
		return err == nil && f != 0
	case KindBool:
		return string(bytes.TrimSpace(raw)) == "true"
	default:
		return true
	}
}

// Text returns the plain textual form of a claim: strings unquoted, numbers
// in shortest decimal form, other scalars as their JSON literal.
func (c *Claims) Text(key string) string {
	raw, ok := c.Raw(key)
	if !ok {
		return ""
	}
	switch kindOf(raw) {
	case KindString:
		s, _ := c.String(key)
		return s
	case KindNumber:
		n, _ := c.Number(key)
		return NumberText(n)
	}
	return string(bytes.TrimSpace(raw))
}

// NumberText formats n the way a browser prints a number: 1.8e9 and
// 1800000000.0 both become "1800000000". Values outside the plain decimal
// range keep their issued form.
func NumberText(n json.Number) string {
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) {
		return n.String()
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Value decodes a claim into a generic Go value. Numbers decode as json.Number.
func (c *Claims) Value(key string) (any, bool) {
	raw, ok := c.Raw(key)
	if !ok {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// Map returns the claims as a plain map. Ordering is lost.
func (c *Claims) Map() map[string]any {
	out := make(map[string]any, c.Len())
	for _, key := range c.Keys() {
		v, _ := c.Value(key)
		out[key] = v
	}
	return out
}

// MarshalJSON writes the claims as a JSON object in payload order.
func (c *Claims) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("marshal claim name %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(c.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func kindOf(raw json.RawMessage) Kind {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return KindNull
	}
	switch trimmed[0] {
	case '"':
		return KindString
	case '{':
		return KindObject
	case '[':
		return KindArray
	case 't', 'f':
		return KindBool
	case 'n':
		return KindNull
	default:
		return KindNumber
	}
}
