package service

import (
	"github.com/okian/streamgem/internal/adapters/repository"
	"github.com/okian/streamgem/internal/domain/dedupe"
	"github.com/okian/streamgem/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDiscoverer sets the source of raw candidates.
func WithDiscoverer(d Discoverer) Option {
	return func(s *Service) {
		s.discoverer = d
	}
}

// WithNormalizer sets the candidate normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithStore replaces the leaderboard store built by Start.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		s.leaderboard = st
	}
}

// WithVoteDeduper replaces the voter/streamer deduper built by Start.
func WithVoteDeduper(d dedupe.Deduper) Option {
	return func(s *Service) {
		s.votes = d
	}
}

// WithVoteDedupeSize bounds the remembered voter/streamer pairs.
func WithVoteDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.voteDedupeSize = size
		}
	}
}

// WithOfflineDedupeSize bounds the remembered offline handles.
func WithOfflineDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.offlineDedupeSize = size
		}
	}
}

// WithCatalogSize bounds how many served streamers stay votable.
func WithCatalogSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.catalogSize = size
		}
	}
}

// WithLeaderboardLimits sets the default and maximum leaderboard length.
func WithLeaderboardLimits(def, maxLimit int) Option {
	return func(s *Service) {
		if def > 0 && maxLimit >= def {
			s.defaultLimit = def
			s.maxLimit = maxLimit
		}
	}
}
