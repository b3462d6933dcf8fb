package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/designation/models"
	"backoffice/internal/platform/resource"
	"backoffice/internal/query"
	"backoffice/pkg/platform/httputil"
)

type Service interface {
	resource.Service[models.DesignationDTO]
	Catalog() query.Catalog
	CountByCategory(ctx context.Context) (map[query.Category]int64, error)
}

// Handler serves one designation kind.
type Handler struct {
	*resource.Handler[models.DesignationDTO]
	kind    models.Kind
	service Service
}

func New(kind models.Kind, service Service, logger *slog.Logger) *Handler {
	return &Handler{
		Handler: resource.New[models.DesignationDTO](service, logger),
		kind:    kind,
		service: service,
	}
}

// Register mounts the kind under /{kind path}. Status kinds also get one
// route per category and a per-category count.
func (h *Handler) Register(r chi.Router) {
	r.Route("/"+h.kind.Path, func(r chi.Router) {
		h.Routes(r)
		catalog := h.service.Catalog()
		if len(catalog.Categories()) == 0 {
			return
		}
		h.Categories(r, catalog, "designationFr")
		r.Get("/count/by-category", h.handleCountByCategory)
	})
}

func (h *Handler) handleCountByCategory(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CountByCategory(r.Context())
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counts)
}
