package api

import (
	"net/http"

	"github.com/okian/streamgem/internal/domain/model"
)

// CategoryDependencies lists the discovery categories.
type CategoryDependencies interface {
	Categories() []model.Category
}

// CategoryHandler handles category requests.
type CategoryHandler struct {
	deps CategoryDependencies
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(deps CategoryDependencies) *CategoryHandler {
	return &CategoryHandler{deps: deps}
}

// HandleGetCategories handles GET /categories.
func (h *CategoryHandler) HandleGetCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Categories())
}
