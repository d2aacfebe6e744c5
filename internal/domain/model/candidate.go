package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCandidateShape reports a candidate that could not be read field by field.
var ErrCandidateShape = errors.New("candidate has unexpected shape")

// RawCandidate is an unvalidated record proposed by the search provider.
// Every field is optional at decode time. Decoding never fails for a single
// candidate: a wrong shape is kept in Err so the batch survives and the
// normalizer can drop just this record.
type RawCandidate struct {
	Name        string   `json:"name"`
	Username    string   `json:"username,omitempty"`
	Platform    string   `json:"platform"`
	Game        string   `json:"game"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	ViewerCount string   `json:"viewerCount,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	err error
}

// Err returns the decode problem for this candidate, if any.
func (c RawCandidate) Err() error { return c.err }

// UnmarshalJSON implements json.Unmarshaler.
func (c *RawCandidate) UnmarshalJSON(data []byte) error {
	*c = RawCandidate{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		c.err = fmt.Errorf("%w: not an object", ErrCandidateShape)
		return nil
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"name", &c.Name},
		{"username", &c.Username},
		{"platform", &c.Platform},
		{"game", &c.Game},
		{"description", &c.Description},
		{"url", &c.URL},
	}
	for _, f := range strs {
		raw, ok := fields[f.key]
		if !ok || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			c.err = fmt.Errorf("%w: field %q is not a string", ErrCandidateShape, f.key)
			return nil
		}
	}

	if raw, ok := fields["viewerCount"]; ok && !isNull(raw) {
		vc, err := decodeViewerCount(raw)
		if err != nil {
			c.err = fmt.Errorf("%w: field %q: %v", ErrCandidateShape, "viewerCount", err)
			return nil
		}
		c.ViewerCount = vc
	}

	if raw, ok := fields["tags"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &c.Tags); err != nil {
			c.Tags = nil
			c.err = fmt.Errorf("%w: field %q is not a list of strings", ErrCandidateShape, "tags")
			return nil
		}
	}
	return nil
}

// decodeViewerCount accepts "32", "45 viewers" or a bare JSON number.
func decodeViewerCount(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", errors.New("neither string nor number")
	}
	return n.String(), nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
