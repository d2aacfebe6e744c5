// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/streamgem/internal/adapters/repository"
	"github.com/okian/streamgem/internal/domain/dedupe"
	"github.com/okian/streamgem/internal/domain/model"
	"github.com/okian/streamgem/internal/domain/normalize"
	"github.com/okian/streamgem/pkg/logger"
	"github.com/okian/streamgem/pkg/metrics"
)

// Defaults for service limits.
const (
	DefaultLeaderboardLimit  = 5
	DefaultMaxLeaderboard    = 50
	DefaultVoteDedupeSize    = 100000
	DefaultOfflineDedupeSize = 10000
	DefaultCatalogSize       = 10000
)

// Discoverer obtains raw candidates for a category.
type Discoverer interface {
	Discover(ctx context.Context, category string) ([]model.RawCandidate, error)
}

// Normalizer converts raw candidates into canonical streamers.
type Normalizer interface {
	NormalizeBatch(ctx context.Context, category string, candidates []model.RawCandidate) []model.Streamer
}

// Service implements the API dependencies for discovery and voting.
type Service struct {
	mu sync.RWMutex

	// Core components
	discoverer  Discoverer
	normalizer  Normalizer
	leaderboard repository.Store
	votes       dedupe.Deduper
	offline     dedupe.Deduper

	// Streamers served by this process, oldest first.
	catalog      map[string]*list.Element
	catalogOrder *list.List

	// Configuration
	voteDedupeSize    int
	offlineDedupeSize int
	catalogSize       int
	defaultLimit      int
	maxLimit          int

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		voteDedupeSize:    DefaultVoteDedupeSize,
		offlineDedupeSize: DefaultOfflineDedupeSize,
		catalogSize:       DefaultCatalogSize,
		defaultLimit:      DefaultLeaderboardLimit,
		maxLimit:          DefaultMaxLeaderboard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components not supplied through options.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.normalizer == nil {
		s.normalizer = normalize.New(normalize.WithLogger(s.logger))
	}
	if s.leaderboard == nil {
		s.leaderboard = repository.NewTreapStore()
	}
	if s.votes == nil {
		s.votes = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.voteDedupeSize))
	}
	if s.offline == nil {
		s.offline = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.offlineDedupeSize))
	}
	s.catalog = make(map[string]*list.Element)
	s.catalogOrder = list.New()

	s.started = true
	s.logger.Info(ctx, "streamer service started",
		logger.Bool("discovery", s.discoverer != nil),
		logger.Int("catalogSize", s.catalogSize),
		logger.Int("voteDedupeSize", s.voteDedupeSize),
		logger.Int("offlineDedupeSize", s.offlineDedupeSize),
	)
	return nil
}

// Stop marks the service stopped. Served streamers are forgotten; tallies
// stay in the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.catalog = nil
	s.catalogOrder = nil
	s.started = false
	metrics.UpdateCatalogSize(0)
	s.logger.Info(context.Background(), "streamer service stopped")
}

// Categories returns the closed category set in display order.
func (s *Service) Categories() []model.Category {
	return model.Categories()
}

// RequestStreamers runs one discovery for category and returns the
// normalized batch, minus channels reported offline. An upstream failure
// yields an empty batch; a missing credential is returned as an error.
func (s *Service) RequestStreamers(ctx context.Context, category string) ([]model.Streamer, error) {
	cat, ok := model.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	if s.discoverer == nil {
		return nil, ErrDiscoveryDisabled
	}

	cands, err := s.discoverer.Discover(ctx, string(cat))
	if err != nil {
		return nil, err
	}
	batch := s.normalizer.NormalizeBatch(ctx, string(cat), cands)

	out := batch[:0]
	suppressed := 0
	for _, st := range batch {
		if s.offline.Contains(ctx, st.Handle) {
			suppressed++
			continue
		}
		out = append(out, st)
	}
	if suppressed > 0 {
		metrics.RecordOfflineSuppressed(suppressed)
		s.logger.Debug(ctx, "suppressed offline channels",
			logger.String("category", string(cat)),
			logger.Int("count", suppressed),
		)
	}

	s.remember(out)
	return out, nil
}

// Upvote records one upvote by voterID for a served streamer. A repeat
// vote by the same voter is reported as Duplicate and changes nothing.
func (s *Service) Upvote(ctx context.Context, voterID, streamerID string) (model.VoteResult, error) {
	if voterID == "" {
		return model.VoteResult{}, ErrInvalidVoter
	}
	st, err := s.lookup(streamerID)
	if err != nil {
		return model.VoteResult{}, err
	}

	key := dedupe.Key(voterID, streamerID)
	if s.votes.SeenAndRecord(ctx, key) {
		metrics.RecordDuplicateVote()
		res := model.VoteResult{Duplicate: true}
		if e, err := s.leaderboard.Rank(ctx, streamerID); err == nil {
			res.Votes = e.Votes
		}
		return res, nil
	}

	n, err := s.leaderboard.Increment(ctx, repository.Streamer{
		ID:   st.ID,
		Name: st.Name,
		Game: st.Game,
		URL:  st.URL,
	})
	if err != nil {
		// Roll back so the voter can retry.
		s.votes.Unrecord(ctx, key)
		metrics.RecordErrorByComponent("service", "vote_failed")
		s.logger.Error(ctx, "failed to record vote",
			logger.String("streamerID", streamerID),
			logger.Error(err),
		)
		return model.VoteResult{}, err
	}

	metrics.RecordVote()
	return model.VoteResult{Votes: n}, nil
}

// ReportOffline marks a served streamer's channel offline. Later batches
// omit it. Reporting twice is harmless.
func (s *Service) ReportOffline(ctx context.Context, streamerID string) error {
	st, err := s.lookup(streamerID)
	if err != nil {
		return err
	}
	if !s.offline.SeenAndRecord(ctx, st.Handle) {
		metrics.RecordOfflineReport()
		s.logger.Info(ctx, "channel reported offline",
			logger.String("streamerID", streamerID),
			logger.String("handle", st.Handle),
		)
	}
	return nil
}

// Leaderboard returns the n most upvoted streamers. n <= 0 selects the
// default; n above the maximum is ErrInvalidLimit.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	if n <= 0 {
		n = s.defaultLimit
	}
	if n > s.maxLimit {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidLimit, n, s.maxLimit)
	}

	entries, err := s.leaderboard.TopN(ctx, n)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidLimit) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
		}
		return nil, err
	}
	out := make([]model.LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = toModel(e)
	}
	return out, nil
}

// Rank returns the leaderboard row of one streamer.
func (s *Service) Rank(ctx context.Context, streamerID string) (model.LeaderboardEntry, error) {
	if !s.isStarted() {
		return model.LeaderboardEntry{}, ErrNotStarted
	}
	e, err := s.leaderboard.Rank(ctx, streamerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.LeaderboardEntry{}, fmt.Errorf("%w: %s", ErrStreamerNotFound, streamerID)
		}
		return model.LeaderboardEntry{}, err
	}
	return toModel(e), nil
}

// LeaderboardLimits returns the default and maximum leaderboard length.
func (s *Service) LeaderboardLimits() (def, maxLimit int) {
	return s.defaultLimit, s.maxLimit
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"discovery":        s.discoverer != nil,
		"catalogCapacity":  s.catalogSize,
		"leaderboardLimit": s.defaultLimit,
		"leaderboardMax":   s.maxLimit,
	}
	if s.started {
		ctx := context.Background()
		ranked := s.leaderboard.Count(ctx)
		stats["catalogSize"] = len(s.catalog)
		stats["rankedStreamers"] = ranked
		stats["votesTracked"] = s.votes.Size()
		stats["offlineChannels"] = s.offline.Size()

		metrics.UpdateLeaderboardSize(ranked)
		metrics.UpdateCatalogSize(len(s.catalog))
	}
	return stats
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// remember adds streamers to the catalog, evicting the oldest beyond capacity.
func (s *Service) remember(batch []model.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	for _, st := range batch {
		if el, ok := s.catalog[st.ID]; ok {
			el.Value = st
			continue
		}
		s.catalog[st.ID] = s.catalogOrder.PushBack(st)
		for s.catalogOrder.Len() > s.catalogSize {
			oldest := s.catalogOrder.Front()
			s.catalogOrder.Remove(oldest)
			delete(s.catalog, oldest.Value.(model.Streamer).ID)
		}
	}
	metrics.UpdateCatalogSize(len(s.catalog))
}

func (s *Service) lookup(streamerID string) (model.Streamer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Streamer{}, ErrNotStarted
	}
	el, ok := s.catalog[streamerID]
	if !ok {
		return model.Streamer{}, fmt.Errorf("%w: %s", ErrStreamerNotFound, streamerID)
	}
	return el.Value.(model.Streamer), nil
}

func toModel(e repository.Entry) model.LeaderboardEntry {
	return model.LeaderboardEntry{
		Rank:       e.Rank,
		StreamerID: e.StreamerID,
		Name:       e.Name,
		Game:       e.Game,
		URL:        e.URL,
		Votes:      e.Votes,
	}
}
