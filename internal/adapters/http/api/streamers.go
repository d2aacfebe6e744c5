package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/streamgem/internal/domain/model"
	"github.com/okian/streamgem/pkg/logger"
)

// StreamerDependencies runs one discovery for a category.
type StreamerDependencies interface {
	RequestStreamers(ctx context.Context, category string) ([]model.Streamer, error)
}

// StreamerHandler handles discovery requests.
type StreamerHandler struct {
	deps   StreamerDependencies
	logger logger.Logger
}

// NewStreamerHandler creates a new streamer handler.
func NewStreamerHandler(deps StreamerDependencies, log logger.Logger) *StreamerHandler {
	return &StreamerHandler{deps: deps, logger: log}
}

// HandleGetStreamers handles GET /streamers?category=Gaming. An empty batch
// is a normal 200 response.
func (h *StreamerHandler) HandleGetStreamers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_streamers"
	raw := strings.TrimSpace(r.URL.Query().Get("category"))
	if raw == "" {
		writeOpError(w, op, WrapKind(op, ErrBadRequest, model.ErrUnknownCategory))
		return
	}
	cat, ok := model.ParseCategory(raw)
	if !ok {
		writeOpError(w, op, model.ErrUnknownCategory)
		return
	}

	streamers, err := h.deps.RequestStreamers(r.Context(), string(cat))
	if err != nil {
		h.logger.Warn(r.Context(), "discovery request failed",
			logger.String("category", string(cat)),
			logger.String("request_id", RequestIDFromContext(r.Context())),
			logger.Error(err),
		)
		writeOpError(w, op, err)
		return
	}
	if streamers == nil {
		streamers = []model.Streamer{}
	}
	writeJSON(w, http.StatusOK, streamersResponse{Category: cat, Streamers: streamers})
}
