// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/streamgem/internal/domain/model"
	"github.com/okian/streamgem/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CategoryDependencies
	StreamerDependencies
	VoteDependencies
	LeaderboardDependencies
	RankDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	categoryHandler    *CategoryHandler
	streamerHandler    *StreamerHandler
	voteHandler        *VoteHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	logger             logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		categoryHandler:    NewCategoryHandler(deps),
		streamerHandler:    NewStreamerHandler(deps, log),
		voteHandler:        NewVoteHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		rankHandler:        NewRankHandler(deps),
		logger:             log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, Instrument(h, endpoint, s.logger))
	}
	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)
	route("GET /categories", "categories", s.categoryHandler.HandleGetCategories)
	route("GET /streamers", "streamers", s.streamerHandler.HandleGetStreamers)
	route("POST /streamers/{id}/upvote", "upvote", s.voteHandler.HandleUpvote)
	route("POST /streamers/{id}/offline", "offline", s.voteHandler.HandleReportOffline)
	route("GET /streamers/{id}/rank", "rank", s.rankHandler.HandleGetRank)
	route("GET /leaderboard", "leaderboard", s.leaderboardHandler.HandleGetLeaderboard)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = model.LeaderboardEntry

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	Votes     int64  `json:"votes"`
}

type streamersResponse struct {
	Category  model.Category   `json:"category"`
	Streamers []model.Streamer `json:"streamers"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
