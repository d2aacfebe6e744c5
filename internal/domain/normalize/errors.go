package normalize

import "fmt"

// Reason names why a candidate was dropped. Values double as metric labels.
type Reason string

// Drop reasons.
const (
	ReasonDecode          Reason = "decode"
	ReasonMissingName     Reason = "missing_name"
	ReasonMissingURL      Reason = "missing_url"
	ReasonMissingGame     Reason = "missing_game"
	ReasonEmptyHandle     Reason = "empty_handle"
	ReasonDuplicateHandle Reason = "duplicate_handle"
)

// MalformedRecordError reports a single candidate that cannot become a
// Streamer. It never aborts a batch.
type MalformedRecordError struct {
	Reason Reason
	Name   string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := "malformed candidate: " + string(e.Reason)
	if e.Name != "" {
		msg = fmt.Sprintf("%s (%q)", msg, e.Name)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }
