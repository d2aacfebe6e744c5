package normalize

import (
	"strings"

	"github.com/okian/streamgem/pkg/logger"
)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithHostname sets the hostname the player is embedded under.
func WithHostname(hostname string) Option {
	return func(n *Normalizer) {
		n.hostname = hostname
	}
}

// WithRegistrableDomain selects how the registrable domain of the hostname
// is derived. Nil keeps the default heuristic.
func WithRegistrableDomain(fn RegistrableDomainFunc) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.registrable = fn
		}
	}
}

// WithExtraParentDomains appends domains to the fixed allow-list.
func WithExtraParentDomains(domains ...string) Option {
	return func(n *Normalizer) {
		n.extra = append(n.extra, domains...)
	}
}

// WithPlayerBaseURL overrides the embed player endpoint.
func WithPlayerBaseURL(base string) Option {
	return func(n *Normalizer) {
		if strings.TrimSpace(base) != "" {
			n.playerBase = base
		}
	}
}

// WithThumbnailBaseURL overrides the thumbnail prefix; the handle and size
// are appended to it.
func WithThumbnailBaseURL(base string) Option {
	return func(n *Normalizer) {
		if strings.TrimSpace(base) != "" {
			n.thumbnailBase = base
		}
	}
}

// WithIDGenerator replaces the id source. Tests use it for stable ids.
func WithIDGenerator(fn func() string) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.newID = fn
		}
	}
}

// WithLogger sets the logger used for dropped records.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}
