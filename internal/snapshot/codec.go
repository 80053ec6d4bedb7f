package snapshot

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"studymatrix-backend/internal/studies"
)

// Marker prefixes a URL fragment carrying a snapshot token.
const Marker = "#share="

// DefaultMaxTokenChars bounds tokens to a practical URL length.
const DefaultMaxTokenChars = 8000

// ErrTooLarge reports a record list whose encoded token exceeds the
// practical URL budget.
var ErrTooLarge = errors.New("matrix too large to share by link")

// Codec serializes a record list to and from an opaque, fragment-safe
// token: JSON wrapped in base64, the original share-link wire format.
type Codec struct {
	// MaxTokenChars caps Encode output length; zero means the default.
	MaxTokenChars int
}

// Encode serializes records into a share token. It never mutates state;
// oversized payloads return ErrTooLarge.
func (c *Codec) Encode(records []studies.StudyRecord) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	token := base64.StdEncoding.EncodeToString(data)

	limit := c.MaxTokenChars
	if limit <= 0 {
		limit = DefaultMaxTokenChars
	}
	if len(token) > limit {
		return "", ErrTooLarge
	}
	return token, nil
}

// Decode reverses Encode. The decoded value must be a JSON array; any
// other shape, or a malformed token, is a decode failure.
func (c *Codec) Decode(token string) ([]studies.StudyRecord, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if !isJSONArray(data) {
		return nil, errors.New("decode snapshot: not a record list")
	}
	var records []studies.StudyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return records, nil
}

func isJSONArray(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "[")
}

// FromFragment extracts the token from a URL fragment carrying the share
// marker. A leading '#' is optional.
func FromFragment(fragment string) (string, bool) {
	if !strings.HasPrefix(fragment, "#") {
		fragment = "#" + fragment
	}
	if !strings.HasPrefix(fragment, Marker) {
		return "", false
	}
	token := strings.TrimPrefix(fragment, Marker)
	if token == "" {
		return "", false
	}
	return token, true
}

// ShareURL builds the shareable link for a token.
func ShareURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/" + Marker + token
}
