package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/okian/streamgem/internal/domain/model"
)

// VoterHeader identifies the voter. The remote address is used without it.
const VoterHeader = "X-Voter-ID"

// VoteDependencies records upvotes and offline reports.
type VoteDependencies interface {
	Upvote(ctx context.Context, voterID, streamerID string) (model.VoteResult, error)
	ReportOffline(ctx context.Context, streamerID string) error
}

// VoteHandler handles upvote and offline report requests.
type VoteHandler struct {
	deps VoteDependencies
}

// NewVoteHandler creates a new vote handler.
func NewVoteHandler(deps VoteDependencies) *VoteHandler {
	return &VoteHandler{deps: deps}
}

// HandleUpvote handles POST /streamers/{id}/upvote.
func (h *VoteHandler) HandleUpvote(w http.ResponseWriter, r *http.Request) {
	const op = "api.upvote"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeOpError(w, op, NewKind(op, ErrBadRequest))
		return
	}

	res, err := h.deps.Upvote(r.Context(), voterID(r), id)
	if err != nil {
		writeOpError(w, op, err)
		return
	}
	status := "accepted"
	if res.Duplicate {
		status = "duplicate"
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: status, Duplicate: res.Duplicate, Votes: res.Votes})
}

// HandleReportOffline handles POST /streamers/{id}/offline.
func (h *VoteHandler) HandleReportOffline(w http.ResponseWriter, r *http.Request) {
	const op = "api.report_offline"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeOpError(w, op, NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.ReportOffline(r.Context(), id); err != nil {
		writeOpError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "reported"})
}

func voterID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(VoterHeader)); v != "" {
		return v
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
