// Package model contains domain models passed between layers.
package model

// PlatformTwitch is the only platform this version emits.
const PlatformTwitch = "twitch"

// Streamer is the canonical, display-ready record produced by normalization.
// It is never mutated after it is built.
type Streamer struct {
	ID          string   `json:"id"` // process-local, regenerated on every discovery
	Name        string   `json:"name"`
	Handle      string   `json:"handle"`
	Platform    string   `json:"platform"`
	Game        string   `json:"game"`
	Description string   `json:"description"`
	ViewerCount string   `json:"viewerCount,omitempty"`
	URL         string   `json:"url"`
	EmbedURL    string   `json:"embedUrl"`
	Thumbnail   string   `json:"thumbnail"`
	Tags        []string `json:"tags"`
}

// LeaderboardEntry is one row of the vote leaderboard.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	StreamerID string `json:"streamer_id"`
	Name       string `json:"name"`
	Game       string `json:"game"`
	URL        string `json:"url"`
	Votes      int64  `json:"votes"`
}
