package model

import "errors"

// Errors shared by the service and its transports.
var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrStreamerNotFound = errors.New("streamer not found")
	ErrInvalidLimit     = errors.New("invalid leaderboard limit")
	ErrInvalidVoter     = errors.New("voter id must not be empty")
	ErrUnavailable      = errors.New("service unavailable")
)

// VoteResult reports the outcome of an upvote.
type VoteResult struct {
	Votes     int64 `json:"votes"`
	Duplicate bool  `json:"duplicate"`
}
