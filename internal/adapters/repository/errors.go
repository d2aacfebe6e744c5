package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound        = errors.New("streamer has no votes")
	ErrInvalidLimit    = errors.New("invalid leaderboard limit")
	ErrInvalidStreamer = errors.New("streamer id must not be empty")
)
