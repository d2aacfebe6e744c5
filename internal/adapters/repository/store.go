// Package repository holds the in-memory upvote leaderboard.
package repository

import "context"

// Entry is one leaderboard row.
type Entry struct {
	Rank       int
	StreamerID string
	Name       string
	Game       string
	URL        string
	Votes      int64
}

// Store provides read/write access to vote tallies.
type Store interface {
	// Increment adds one vote for the streamer, creating its row on the
	// first vote, and returns the new tally. Display fields are refreshed
	// from s on every call.
	Increment(ctx context.Context, s Streamer) (int64, error)

	// Rank returns the current rank and tally of a streamer.
	// Returns ErrNotFound if the streamer has no votes.
	Rank(ctx context.Context, streamerID string) (Entry, error)

	// TopN returns the top-N entries ordered by votes desc, id asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of streamers with at least one vote.
	Count(ctx context.Context) int
}

// Streamer is the subset of a streamer a leaderboard row displays.
type Streamer struct {
	ID   string
	Name string
	Game string
	URL  string
}
