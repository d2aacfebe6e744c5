// Package normalize turns raw search candidates into canonical streamers.
//
// Normalization is a pure per-record transform except for the embed parent
// allow-list, which depends on the hostname the player will be embedded
// under. That hostname is fixed at construction time so the result for a
// given candidate only varies by its freshly generated id.
package normalize

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode"

	"github.com/rs/xid"

	"github.com/okian/streamgem/internal/domain/model"
	"github.com/okian/streamgem/pkg/logger"
	"github.com/okian/streamgem/pkg/metrics"
)

// Defaults for derived URLs and display values.
const (
	DefaultPlayerBaseURL    = "https://player.twitch.tv/"
	DefaultThumbnailBaseURL = "https://picsum.photos/seed/"
	DefaultViewerCount      = "20-50 viewers"
	DefaultDescription      = "No description provided."

	viewersSuffix   = "viewers"
	thumbnailFormat = "/400/225"
)

// Normalizer converts RawCandidate batches into Streamer sequences.
type Normalizer struct {
	playerBase    string
	thumbnailBase string
	parents       []string
	newID         func() string
	logger        logger.Logger

	// allow-list inputs, resolved once in New
	hostname    string
	registrable RegistrableDomainFunc
	extra       []string
}

// New constructs a Normalizer. Without WithHostname the allow-list only holds
// the fixed development domains.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		playerBase:    DefaultPlayerBaseURL,
		thumbnailBase: DefaultThumbnailBaseURL,
		newID:         func() string { return xid.New().String() },
		registrable:   HeuristicRegistrableDomain,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = logger.Nop()
	}
	n.parents = ParentDomains(n.hostname, n.registrable, n.extra...)
	return n
}

// Parents returns a copy of the embed parent allow-list.
func (n *Normalizer) Parents() []string {
	return append([]string(nil), n.parents...)
}

// Normalize validates one candidate and builds its Streamer. fallbackGame is
// used when the candidate names no game. A *MalformedRecordError is returned
// for records that must be dropped; no panic escapes for any input shape.
func (n *Normalizer) Normalize(c model.RawCandidate, fallbackGame string) (model.Streamer, error) {
	if err := c.Err(); err != nil {
		return model.Streamer{}, &MalformedRecordError{Reason: ReasonDecode, Name: c.Name, Err: err}
	}

	name := strings.TrimSpace(c.Name)
	if name == "" {
		return model.Streamer{}, &MalformedRecordError{Reason: ReasonMissingName}
	}
	link := strings.TrimSpace(c.URL)
	if link == "" {
		return model.Streamer{}, &MalformedRecordError{Reason: ReasonMissingURL, Name: name}
	}

	handle := Handle(c.Username, name)
	if handle == "" {
		return model.Streamer{}, &MalformedRecordError{Reason: ReasonEmptyHandle, Name: name}
	}

	game := strings.TrimSpace(c.Game)
	if game == "" {
		game = strings.TrimSpace(fallbackGame)
	}
	if game == "" {
		return model.Streamer{}, &MalformedRecordError{Reason: ReasonMissingGame, Name: name}
	}
	description := strings.TrimSpace(c.Description)
	if description == "" {
		description = DefaultDescription
	}

	tags := make([]string, 0, len(c.Tags))
	tags = append(tags, c.Tags...)

	return model.Streamer{
		ID:          n.newID(),
		Name:        name,
		Handle:      handle,
		Platform:    model.PlatformTwitch,
		Game:        game,
		Description: description,
		ViewerCount: FormatViewerCount(c.ViewerCount),
		URL:         link,
		EmbedURL:    EmbedURL(n.playerBase, handle, n.parents),
		Thumbnail:   n.thumbnailBase + url.PathEscape(handle) + thumbnailFormat,
		Tags:        tags,
	}, nil
}

// NormalizeBatch normalizes candidates in order, omitting malformed records
// and later duplicates of an already emitted handle. The result is never nil
// and never longer than the input.
func (n *Normalizer) NormalizeBatch(ctx context.Context, category string, candidates []model.RawCandidate) []model.Streamer {
	out := make([]model.Streamer, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for i, c := range candidates {
		s, err := n.Normalize(c, category)
		if err == nil {
			if _, dup := seen[s.Handle]; dup {
				err = &MalformedRecordError{Reason: ReasonDuplicateHandle, Name: s.Name}
			}
		}
		if err != nil {
			reason := string(ReasonDecode)
			var mre *MalformedRecordError
			if errors.As(err, &mre) {
				reason = string(mre.Reason)
			}
			metrics.RecordRecordDropped(reason)
			n.logger.Debug(ctx, "dropping candidate",
				logger.Int("index", i),
				logger.String("category", category),
				logger.String("reason", reason),
				logger.Error(err),
			)
			continue
		}
		seen[s.Handle] = struct{}{}
		out = append(out, s)
	}

	metrics.RecordStreamersEmitted(len(out))
	return out
}

// Handle derives the channel handle: username when present, else name, with
// all whitespace removed and lower-cased to match the platform's
// case-insensitive handles.
func Handle(username, name string) string {
	src := username
	if strings.TrimSpace(src) == "" {
		src = name
	}
	var b strings.Builder
	b.Grow(len(src))
	for _, r := range src {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// FormatViewerCount appends " viewers" unless the text already mentions it.
// Empty input yields DefaultViewerCount.
func FormatViewerCount(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return DefaultViewerCount
	}
	if strings.Contains(strings.ToLower(v), viewersSuffix) {
		return v
	}
	return v + " " + viewersSuffix
}

// EmbedURL builds base?channel=<handle>&parent=<d1>&parent=<d2>...&muted=true.
// Every parent is its own repeated parameter; the player refuses to render
// for an origin that is not listed. muted=true is required for autoplay.
func EmbedURL(base, handle string, parents []string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("?channel=")
	b.WriteString(url.QueryEscape(handle))
	for _, p := range parents {
		b.WriteString("&parent=")
		b.WriteString(url.QueryEscape(p))
	}
	b.WriteString("&muted=true")
	return b.String()
}
