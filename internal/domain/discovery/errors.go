package discovery

import (
	"errors"
	"fmt"
)

// Sentinel errors for the discovery client.
var (
	// ErrMissingCredential is matched by MissingCredentialError via errors.Is.
	ErrMissingCredential = errors.New("search credential not configured")
	// ErrEmptyPayload reports an upstream reply with no text to decode.
	ErrEmptyPayload = errors.New("upstream returned no payload")
	// ErrSchemaViolation reports a decodable reply without a streamers list.
	ErrSchemaViolation = errors.New("upstream payload has no streamers field")
	// ErrInvalidCategory reports an empty category.
	ErrInvalidCategory = errors.New("category must not be empty")
	// ErrNoSearcher reports a client constructed without a Searcher.
	ErrNoSearcher = errors.New("no searcher configured")
)

// MissingCredentialError is returned before any network attempt when the
// client has no credential.
type MissingCredentialError struct {
	Category string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("discover %q: %v", e.Category, ErrMissingCredential)
}

// Is reports whether target is ErrMissingCredential.
func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// UpstreamError wraps any failure of the search provider round trip or of
// decoding its reply. Discover logs it and returns an empty result instead.
type UpstreamError struct {
	Category string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("discover %q: upstream: %v", e.Category, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
