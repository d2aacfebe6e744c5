// Package discovery asks a generative search provider for small live
// channels in a category and decodes its reply into raw candidates.
//
// The client makes one attempt per call. Any provider failure is logged,
// counted and turned into an empty result so callers only ever handle a
// possibly empty sequence. The single exception is a missing credential,
// which is a configuration problem and is reported before any network use.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/streamgem/internal/domain/model"
	"github.com/okian/streamgem/pkg/logger"
	"github.com/okian/streamgem/pkg/metrics"
)

// Defaults for the request shape.
const (
	DefaultBatchSize     = 4
	DefaultViewerMin     = 10
	DefaultViewerMax     = 80
	DefaultViewerTarget  = 30
	DefaultTimeout       = 30 * time.Second
	DefaultRatePerSecond = 2
	DefaultRateBurst     = 2
)

// Discovery outcomes recorded in metrics.
const (
	OutcomeOK                = "ok"
	OutcomeEmpty             = "empty"
	OutcomeUpstreamError     = "upstream_error"
	OutcomeMissingCredential = "missing_credential"
)

// Searcher performs one grounded search and returns the provider's text
// reply, expected to be a JSON document of the form {"streamers": [...]}.
type Searcher interface {
	Search(ctx context.Context, credential string, q Query) (string, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, credential string, q Query) (string, error)

// Search calls f.
func (f SearcherFunc) Search(ctx context.Context, credential string, q Query) (string, error) {
	return f(ctx, credential, q)
}

// Client issues category-scoped discovery queries.
type Client struct {
	searcher   Searcher
	credential string
	batchSize  int
	viewers    ViewerRange
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     logger.Logger
}

// New constructs a Client around searcher.
func New(searcher Searcher, opts ...Option) *Client {
	c := &Client{
		searcher:  searcher,
		batchSize: DefaultBatchSize,
		viewers:   ViewerRange{Min: DefaultViewerMin, Max: DefaultViewerMax, Target: DefaultViewerTarget},
		timeout:   DefaultTimeout,
		limiter:   rate.NewLimiter(DefaultRatePerSecond, DefaultRateBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}
	return c
}

// HasCredential reports whether a credential is configured.
func (c *Client) HasCredential() bool {
	return strings.TrimSpace(c.credential) != ""
}

// BatchSize returns the number of candidates requested per call.
func (c *Client) BatchSize() int { return c.batchSize }

// Discover returns up to BatchSize raw candidates for category in provider
// order. The only error returned is *MissingCredentialError (or
// ErrInvalidCategory for an empty category); provider failures yield an
// empty, non-nil slice.
func (c *Client) Discover(ctx context.Context, category string) ([]model.RawCandidate, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrInvalidCategory
	}
	if !c.HasCredential() {
		metrics.RecordDiscoveryRequest(category, OutcomeMissingCredential)
		return nil, &MissingCredentialError{Category: category}
	}

	start := time.Now()
	cands, err := c.fetch(ctx, category)
	if err != nil {
		ue := &UpstreamError{Category: category, Err: err}
		metrics.RecordDiscoveryRequest(category, OutcomeUpstreamError)
		metrics.RecordErrorByComponent("discovery", "upstream")
		metrics.RecordErrorLatency("discovery", "upstream", float64(time.Since(start).Milliseconds()))
		c.logger.Warn(ctx, "discovery failed, returning empty batch",
			logger.String("category", category),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(ue),
		)
		return []model.RawCandidate{}, nil
	}

	outcome := OutcomeOK
	if len(cands) == 0 {
		outcome = OutcomeEmpty
	}
	metrics.RecordDiscoveryRequest(category, outcome)
	metrics.RecordCandidatesReceived(len(cands))
	c.logger.Debug(ctx, "discovery completed",
		logger.String("category", category),
		logger.Int("candidates", len(cands)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return cands, nil
}

func (c *Client) fetch(ctx context.Context, category string) ([]model.RawCandidate, error) {
	if c.searcher == nil {
		return nil, ErrNoSearcher
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.searcher.Search(ctx, c.credential, buildQuery(category, c.batchSize, c.viewers))
	metrics.RecordUpstreamLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}

	cands, err := ParseCandidates(text)
	if err != nil {
		return nil, err
	}
	if len(cands) > c.batchSize {
		cands = cands[:c.batchSize]
	}
	return cands, nil
}

type envelope struct {
	Streamers *[]model.RawCandidate `json:"streamers"`
}

// ParseCandidates decodes a provider reply. Markdown code fences around the
// document are tolerated. A single malformed candidate does not fail the
// batch; it carries its own decode error for the normalizer.
func ParseCandidates(text string) ([]model.RawCandidate, error) {
	body := stripFences(text)
	if body == "" {
		return nil, ErrEmptyPayload
	}
	var env envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, err
	}
	if env.Streamers == nil {
		return nil, ErrSchemaViolation
	}
	out := *env.Streamers
	if out == nil {
		out = []model.RawCandidate{}
	}
	return out, nil
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// IsMissingCredential reports whether err is a missing credential failure.
func IsMissingCredential(err error) bool {
	return errors.Is(err, ErrMissingCredential)
}
