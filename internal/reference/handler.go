package reference

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/platform/resource"
)

type Handler struct {
	structures *resource.Handler[StructureDTO]
	documents  *resource.Handler[DocumentDTO]
}

func NewHandler(structures resource.Service[StructureDTO], documents resource.Service[DocumentDTO], logger *slog.Logger) *Handler {
	return &Handler{
		structures: resource.New(structures, logger),
		documents:  resource.New(documents, logger),
	}
}

// Register mounts /structures and /documents.
func (h *Handler) Register(r chi.Router) {
	r.Route("/structures", h.structures.Routes)
	r.Route("/documents", h.documents.Routes)
}
