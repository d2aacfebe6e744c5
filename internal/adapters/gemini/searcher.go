// Package gemini implements discovery.Searcher on the Gemini API with
// Google Search grounding and a structured JSON response schema.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/okian/streamgem/internal/domain/discovery"
)

// DefaultModel is the model queried when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// ErrNoText reports a response without any text part.
var ErrNoText = errors.New("gemini: response has no text")

// Searcher queries Gemini for live channels.
type Searcher struct {
	model      string
	baseURL    string
	httpClient *http.Client
	grounding  bool
}

// Option applies a configuration option to the Searcher.
type Option func(*Searcher)

// WithModel selects the model name.
func WithModel(model string) Option {
	return func(s *Searcher) {
		if strings.TrimSpace(model) != "" {
			s.model = model
		}
	}
}

// WithBaseURL points the client at another endpoint, e.g. a proxy or a test server.
func WithBaseURL(u string) Option {
	return func(s *Searcher) {
		s.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Searcher) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithGrounding toggles the Google Search tool. It is on by default.
func WithGrounding(on bool) Option {
	return func(s *Searcher) {
		s.grounding = on
	}
}

// New constructs a Searcher.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		model:      DefaultModel,
		httpClient: http.DefaultClient,
		grounding:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ discovery.Searcher = (*Searcher)(nil)

// Search sends q and returns the model's text reply.
func (s *Searcher) Search(ctx context.Context, credential string, q discovery.Query) (string, error) {
	cc := &genai.ClientConfig{
		APIKey:     credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: s.httpClient,
	}
	if s.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("gemini: new client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   streamerSchema(),
	}
	if q.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(q.SystemInstruction, genai.RoleUser)
	}
	if s.grounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := client.Models.GenerateContent(ctx, s.model, genai.Text(q.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate %s: %w", s.model, err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func streamerSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"streamers": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":        str("Display Name of the streamer"),
						"username":    str("Exact username/handle used in the URL (no spaces)"),
						"platform":    str("Must be 'twitch'"),
						"game":        str("The game or category they are likely playing"),
						"description": str("A brief, catchy description of their style or stream"),
						"url":         str("Full URL to their channel"),
						"viewerCount": str("The specific viewer count found in search snippet (e.g. '32' or '45'). Do not guess."),
						"tags": {
							Type:        genai.TypeArray,
							Items:       &genai.Schema{Type: genai.TypeString},
							Description: "3 relevant tags",
						},
					},
					Required: []string{"name", "username", "platform", "game", "description", "url", "tags"},
				},
			},
		},
		Required: []string{"streamers"},
	}
}
