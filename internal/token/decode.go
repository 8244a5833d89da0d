package token

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	urlAlphabet = strings.NewReplacer("-", "+", "_", "/")
	utf8BOM     = []byte{0xef, 0xbb, 0xbf}
)

// Decode extracts the claims from the payload segment of a compact token.
// The signature is not checked.
func Decode(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, newError(ErrCodeMalformed, fmt.Errorf("expected 3 segments, got %d", len(parts)))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, newError(ErrCodeDecode, err)
	}
	if !utf8.Valid(payload) {
		return nil, newError(ErrCodeDecode, errors.New("payload is not valid UTF-8"))
	}
	payload = bytes.TrimPrefix(payload, utf8BOM)

	claims, err := parseObject(payload)
	if err != nil {
		return nil, newError(ErrCodeDecode, err)
	}
	return claims, nil
}

// decodeSegment accepts URL-safe base64 with or without padding. Padding
// is only stripped from a segment whose length is a multiple of 4, and at
// most two '=' are removed.
func decodeSegment(seg string) ([]byte, error) {
	std := urlAlphabet.Replace(seg)
	if len(std)%4 == 0 {
		std = strings.TrimSuffix(std, "=")
		std = strings.TrimSuffix(std, "=")
	}
	b, err := base64.RawStdEncoding.DecodeString(std)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return b, nil
}

func parseObject(payload []byte) (*Claims, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("payload is not a JSON object")
	}

	claims := NewClaims()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid JSON: unexpected %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid JSON value for %q: %w", key, err)
		}
		claims.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after object")
	}
	return claims, nil
}
